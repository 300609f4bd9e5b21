package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *MYSQLStore {
	db, err := New(context.Background(), Config{
		// TODO: use test database
		DSN:         "user:pass@(localhost:3306)/storefront?charset=utf8&parseTime=true",
		Automigrate: true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	for _, table := range []string{"order_item", "customer_order", "product"} {
		_, err = db.db.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}

	return db
}

func insertProduct(t *testing.T, db *MYSQLStore, title, category, origin, price string, inventory int) int {
	t.Helper()
	res, err := db.db.ExecContext(context.Background(),
		`INSERT INTO product (title, category, origin, price, inventory) VALUES (?, ?, ?, ?, ?)`,
		title, category, origin, price, inventory)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

type orderFixture struct {
	status    string
	email     string
	total     string
	createdAt time.Time
	country   string
	state     string
	city      string
	ageGroup  string
	referral  string
}

func insertOrder(t *testing.T, db *MYSQLStore, f orderFixture) int {
	t.Helper()
	if f.status == "" {
		f.status = "completed"
	}
	if f.email == "" {
		f.email = "buyer@example.com"
	}
	if f.createdAt.IsZero() {
		f.createdAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	nullable := func(s string) any {
		if s == "" {
			return nil
		}
		return s
	}
	res, err := db.db.ExecContext(context.Background(),
		`INSERT INTO customer_order
			(uuid, customer_name, customer_email, status, total_amount, created_at,
			 shipping_country, shipping_state, shipping_city, age_group, referral_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), "Test Buyer", f.email, f.status, f.total, f.createdAt,
		nullable(f.country), nullable(f.state), nullable(f.city),
		nullable(f.ageGroup), nullable(f.referral))
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return int(id)
}

func insertItem(t *testing.T, db *MYSQLStore, orderID, productID, quantity int, unitPrice string) {
	t.Helper()
	err := ExecNamed(context.Background(), db.db,
		`INSERT INTO order_item (order_id, product_id, quantity, unit_price)
		VALUES (:orderId, :productId, :quantity, :unitPrice)`,
		map[string]any{
			"orderId":   orderID,
			"productId": productID,
			"quantity":  quantity,
			"unitPrice": unitPrice,
		})
	require.NoError(t, err)
}
