package analytics

import (
	"testing"
	"time"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilterDateRange(t *testing.T) {
	f, err := BuildFilter(FilterParams{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Category:  "spices",
		Origin:    "IN",
		Country:   "US",
	})
	require.NoError(t, err)

	// end date is inclusive through its whole day
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), f.Orders.Range.From)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), f.Orders.Range.To)
	assert.Equal(t, "US", f.Orders.Country)
	assert.Equal(t, "spices", f.Products.Category)
	assert.Equal(t, "IN", f.Products.Origin)
}

func TestBuildFilterRequiresBothDates(t *testing.T) {
	f, err := BuildFilter(FilterParams{StartDate: "2024-01-01"})
	require.NoError(t, err)
	assert.True(t, f.Orders.Range.IsZero())

	f, err = BuildFilter(FilterParams{EndDate: "2024-01-31"})
	require.NoError(t, err)
	assert.True(t, f.Orders.Range.IsZero())
}

func TestBuildFilterRejectsMalformedDates(t *testing.T) {
	_, err := BuildFilter(FilterParams{StartDate: "01/02/2024", EndDate: "2024-01-31"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = BuildFilter(FilterParams{StartDate: "2024-01-01", EndDate: "yesterday"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestBuildFilterRejectsUnknownStatus(t *testing.T) {
	_, err := BuildFilter(FilterParams{Status: "paused"})
	assert.ErrorIs(t, err, ErrInvalidFilter)

	f, err := BuildFilter(FilterParams{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, entity.Completed, f.Orders.Status)
}

func TestPreviousWindow(t *testing.T) {
	r := entity.TimeRange{
		From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC),
	}
	prev := PreviousWindow(r)

	assert.Equal(t, r.To.Sub(r.From), prev.To.Sub(prev.From))
	assert.Equal(t, r.From, prev.To)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), prev.From)
}

func TestPercentChange(t *testing.T) {
	pct := PercentChange(decimal.NewFromInt(150), decimal.NewFromInt(100))
	require.NotNil(t, pct)
	assert.InDelta(t, 50.0, *pct, 0.001)

	pct = PercentChange(decimal.NewFromInt(80), decimal.NewFromInt(100))
	require.NotNil(t, pct)
	assert.InDelta(t, -20.0, *pct, 0.001)

	assert.Nil(t, PercentChange(decimal.NewFromInt(100), decimal.Zero))
	assert.Nil(t, PercentChange(decimal.Zero, decimal.Zero))
}
