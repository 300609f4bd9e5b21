package store

import (
	"context"
	"testing"

	"github.com/desimart/storefront-manager/internal/dependency"
	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxReadSnapshot(t *testing.T) {
	db := newTestDB(t)

	insertOrder(t, db, orderFixture{total: "60.00"})
	insertOrder(t, db, orderFixture{total: "40.00"})

	err := db.Tx(context.Background(), func(ctx context.Context, rep dependency.Repository) error {
		assert.True(t, rep.InTx())
		assert.Equal(t, rep.Now(), rep.Now(), "clock is frozen inside the transaction")

		p := entity.OrderPredicate{Status: "completed"}
		total, err := rep.Orders().TotalRevenue(ctx, p)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(100)), total.String())

		count, err := rep.Orders().CountOrders(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		return nil
	})
	require.NoError(t, err)
}

func TestTxForbidsNesting(t *testing.T) {
	db := newTestDB(t)

	err := db.Tx(context.Background(), func(ctx context.Context, rep dependency.Repository) error {
		return rep.Tx(ctx, func(ctx context.Context, _ dependency.Repository) error {
			return nil
		})
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in transaction")
}
