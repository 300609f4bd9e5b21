package store

import (
	"context"
	"testing"
	"time"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSales(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	cardamom := insertProduct(t, db, "Cardamom Pods", "spices", "IN", "12.50", 40)
	saffron := insertProduct(t, db, "Saffron Threads", "spices", "ES", "30.00", 10)

	o1 := insertOrder(t, db, orderFixture{status: "completed", total: "55.00"})
	insertItem(t, db, o1, cardamom, 2, "12.50")
	insertItem(t, db, o1, saffron, 1, "30.00")

	o2 := insertOrder(t, db, orderFixture{status: "completed", total: "25.00"})
	insertItem(t, db, o2, cardamom, 2, "12.50")

	// pending orders must not leak into a completed-only report
	o3 := insertOrder(t, db, orderFixture{status: "pending", total: "90.00"})
	insertItem(t, db, o3, saffron, 3, "30.00")

	sales, err := os.ProductSales(ctx, entity.OrderPredicate{Status: entity.Completed}, entity.ProductPredicate{}, 0)
	require.NoError(t, err)
	require.Len(t, sales, 2)

	// revenue descending: cardamom 50.00, saffron 30.00
	assert.Equal(t, cardamom, sales[0].ProductID)
	assert.Equal(t, 4, sales[0].TotalSold)
	assert.Equal(t, 2, sales[0].OrderCount)
	assert.True(t, sales[0].TotalRevenue.Equal(decimal.NewFromFloat(50.00)))

	assert.Equal(t, saffron, sales[1].ProductID)
	assert.Equal(t, 1, sales[1].TotalSold)
	assert.True(t, sales[1].TotalRevenue.Equal(decimal.NewFromFloat(30.00)))
}

func TestProductSalesDanglingProductDropped(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	cardamom := insertProduct(t, db, "Cardamom Pods", "spices", "IN", "12.50", 40)

	o := insertOrder(t, db, orderFixture{status: "completed", total: "37.50"})
	insertItem(t, db, o, cardamom, 1, "12.50")
	insertItem(t, db, o, 99999, 2, "12.50")

	sales, err := os.ProductSales(ctx, entity.OrderPredicate{Status: entity.Completed}, entity.ProductPredicate{}, 0)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, cardamom, sales[0].ProductID)
}

func TestOrdersByStatusIgnoresStatusRestriction(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	insertOrder(t, db, orderFixture{status: "completed", total: "10.00"})
	insertOrder(t, db, orderFixture{status: "completed", total: "10.00"})
	insertOrder(t, db, orderFixture{status: "pending", total: "10.00"})

	counts, err := os.OrdersByStatus(ctx, entity.OrderPredicate{Status: entity.Completed})
	require.NoError(t, err)
	require.Len(t, counts, 2)

	byStatus := map[entity.OrderStatusName]int{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, 2, byStatus[entity.Completed])
	assert.Equal(t, 1, byStatus[entity.Pending])
}

func TestRevenueByMonthAscending(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	insertOrder(t, db, orderFixture{total: "100.00", createdAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)})
	insertOrder(t, db, orderFixture{total: "40.00", createdAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)})
	insertOrder(t, db, orderFixture{total: "60.00", createdAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)})

	buckets, err := os.RevenueByMonth(ctx, entity.OrderPredicate{})
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	assert.Equal(t, 1, buckets[0].Month)
	assert.True(t, buckets[0].TotalSales.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 2, buckets[0].OrderCount)
	assert.Equal(t, 2, buckets[1].Month)
	assert.True(t, buckets[1].TotalSales.Equal(decimal.NewFromInt(100)))
}

func TestRevenueRangeIsHalfOpen(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	insertOrder(t, db, orderFixture{total: "10.00", createdAt: time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)})
	insertOrder(t, db, orderFixture{total: "20.00", createdAt: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)})

	total, err := os.TotalRevenue(ctx, entity.OrderPredicate{Range: entity.TimeRange{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(10)))
}

func TestSalesByCountryExcludesMissing(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	insertOrder(t, db, orderFixture{total: "100.00", country: "US", state: "CA", city: "Fremont"})
	insertOrder(t, db, orderFixture{total: "50.00", country: "US", state: "TX", city: "Austin"})
	insertOrder(t, db, orderFixture{total: "70.00", country: "IN", state: "KL", city: "Kochi"})
	insertOrder(t, db, orderFixture{total: "999.00"})

	regions, err := os.SalesByCountry(ctx, entity.OrderPredicate{})
	require.NoError(t, err)
	require.Len(t, regions, 2)

	assert.Equal(t, "US", regions[0].Country)
	assert.True(t, regions[0].TotalSales.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "IN", regions[1].Country)
}

func TestSalesByStateAndCity(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	insertOrder(t, db, orderFixture{total: "100.00", country: "US", state: "CA", city: "Fremont"})
	insertOrder(t, db, orderFixture{total: "30.00", country: "US", state: "CA", city: "San Jose"})
	insertOrder(t, db, orderFixture{total: "50.00", country: "IN", state: "KL", city: "Kochi"})

	states, err := os.SalesByState(ctx, entity.OrderPredicate{}, []string{"US"})
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.Equal(t, "CA", states[0].State)
	assert.True(t, states[0].TotalSales.Equal(decimal.NewFromInt(130)))

	cities, err := os.SalesByCity(ctx, entity.OrderPredicate{}, map[string][]string{"US": {"CA"}})
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "Fremont", cities[0].City)
	assert.Equal(t, "San Jose", cities[1].City)
}

func TestDemographicGroupsExcludesMissingDimension(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	insertOrder(t, db, orderFixture{total: "100.00", ageGroup: "25-34"})
	insertOrder(t, db, orderFixture{total: "40.00", ageGroup: "25-34"})
	insertOrder(t, db, orderFixture{total: "70.00", ageGroup: "35-44"})
	insertOrder(t, db, orderFixture{total: "10.00"})

	groups, err := os.DemographicGroups(ctx, entity.OrderPredicate{}, entity.DimensionAgeGroup)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "25-34", groups[0].Key)
	assert.Equal(t, 2, groups[0].OrderCount)
	assert.True(t, groups[0].TotalSpent.Equal(decimal.NewFromInt(140)))
}

func TestDemographicGroupsUnknownDimension(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Orders().DemographicGroups(context.Background(), entity.OrderPredicate{}, "favorite_color")
	assert.Error(t, err)
}

func TestCustomerOrdersAscending(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	insertOrder(t, db, orderFixture{email: "a@example.com", total: "50.00", createdAt: time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC)})
	insertOrder(t, db, orderFixture{email: "a@example.com", total: "100.00", createdAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)})

	orders, err := os.CustomerOrders(ctx, entity.OrderPredicate{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.True(t, orders[0].CreatedAt.Before(orders[1].CreatedAt))
	assert.True(t, orders[0].TotalAmount.Equal(decimal.NewFromInt(100)))
}

func TestSalesFiguresRestrictedToProducts(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	cardamom := insertProduct(t, db, "Cardamom Pods", "spices", "IN", "12.50", 40)
	saffron := insertProduct(t, db, "Saffron Threads", "spices", "ES", "30.00", 10)

	o := insertOrder(t, db, orderFixture{status: "completed", total: "55.00"})
	insertItem(t, db, o, cardamom, 2, "12.50")
	insertItem(t, db, o, saffron, 1, "30.00")

	figures, err := os.SalesFigures(ctx, entity.OrderPredicate{Status: entity.Completed}, []int{cardamom})
	require.NoError(t, err)
	require.Len(t, figures, 1)

	f := figures[cardamom]
	assert.Equal(t, 2, f.TotalSold)
	assert.True(t, f.Revenue.Equal(decimal.NewFromInt(25)))
	assert.True(t, f.LastSold.Valid)

	empty, err := os.SalesFigures(ctx, entity.OrderPredicate{}, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestExportRowsLineItemOrder(t *testing.T) {
	db := newTestDB(t)
	os := db.Orders()
	ctx := context.Background()

	cardamom := insertProduct(t, db, "Cardamom Pods", "spices", "IN", "12.50", 40)

	o1 := insertOrder(t, db, orderFixture{total: "25.00", createdAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), country: "US"})
	insertItem(t, db, o1, cardamom, 2, "12.50")
	o2 := insertOrder(t, db, orderFixture{total: "12.50", createdAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)})
	insertItem(t, db, o2, cardamom, 1, "12.50")

	rows, err := os.ExportRows(ctx, entity.OrderPredicate{}, entity.ProductPredicate{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rows[0].OrderDate.Before(rows[1].OrderDate))
	assert.Equal(t, "Cardamom Pods", rows[0].ProductTitle)
	// missing shipping fields come back empty, not NULL
	assert.Equal(t, "", rows[0].ShippingCountry)
	assert.Equal(t, "US", rows[1].ShippingCountry)
}
