package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthBucket is one calendar-month aggregation bucket. Buckets are always
// returned in ascending chronological order.
type MonthBucket struct {
	Year       int             `db:"y"`
	Month      int             `db:"m"`
	TotalSales decimal.Decimal `db:"total_sales"`
	OrderCount int             `db:"order_count"`
}

// DayBucket is one calendar-day aggregation bucket.
type DayBucket struct {
	Year       int             `db:"y"`
	Month      int             `db:"m"`
	Day        int             `db:"d"`
	TotalSales decimal.Decimal `db:"total_sales"`
	OrderCount int             `db:"order_count"`
}

type StatusCount struct {
	Status OrderStatusName `db:"status"`
	Count  int             `db:"cnt"`
}

// CountGroup is a generic single-dimension count bucket (products by origin,
// products by category).
type CountGroup struct {
	Key   string `db:"k"`
	Count int    `db:"cnt"`
}

// ProductSales is the raw per-product grouping the store produces from the
// order_item join: units sold, distinct orders touched and snapshot revenue.
type ProductSales struct {
	ProductID    int             `db:"product_id"`
	Title        string          `db:"title"`
	Brand        string          `db:"brand"`
	Category     string          `db:"category"`
	Origin       string          `db:"origin"`
	Price        decimal.Decimal `db:"price"`
	TotalSold    int             `db:"total_sold"`
	OrderCount   int             `db:"order_count"`
	TotalRevenue decimal.Decimal `db:"total_revenue"`
}

// TrendingProduct is a ProductSales row scored by the recency-weighted
// popularity metric.
type TrendingProduct struct {
	ProductSales
	TrendingScore float64
}

// RegionSales is one geography bucket. State and City are empty at the
// country level.
type RegionSales struct {
	Country    string          `db:"country"`
	State      string          `db:"state"`
	City       string          `db:"city"`
	TotalSales decimal.Decimal `db:"total_sales"`
	OrderCount int             `db:"order_count"`
}

// SalesByRegion is the three-level drilldown: all countries, states of the
// top countries, cities of the top states.
type SalesByRegion struct {
	ByCountry []RegionSales
	ByState   []RegionSales
	ByCity    []RegionSales
}

// CategorySales aggregates line-item snapshot revenue per product category.
// Subcategory is empty at the category level.
type CategorySales struct {
	Category      string          `db:"category"`
	Subcategory   string          `db:"subcategory"`
	TotalSales    decimal.Decimal `db:"total_sales"`
	TotalQuantity int             `db:"total_quantity"`
	OrderCount    int             `db:"order_count"`
}

type SalesByCategory struct {
	ByCategory    []CategorySales
	BySubcategory []CategorySales
}

// DemographicDimension names a sparse order attribute the demographics
// report can group by.
type DemographicDimension string

const (
	DimensionAgeGroup DemographicDimension = "age_group"
	DimensionGender   DemographicDimension = "gender"
	DimensionDevice   DemographicDimension = "device_type"
	DimensionReferral DemographicDimension = "referral_source"
)

// DemographicGroup is one bucket of a sparse-dimension grouping; rows with
// the dimension absent are excluded from that grouping.
type DemographicGroup struct {
	Key        string          `db:"k"`
	OrderCount int             `db:"cnt"`
	TotalSpent decimal.Decimal `db:"total_spent"`
}

type CustomerDemographics struct {
	ByAgeGroup []DemographicGroup
	ByGender   []DemographicGroup
	ByDevice   []DemographicGroup
	ByReferral []DemographicGroup
}

// SalesPoint is one month of the forecast series. Counts are decimal because
// projected months carry fractional order counts.
type SalesPoint struct {
	Year       int
	Month      int
	TotalSales decimal.Decimal
	OrderCount decimal.Decimal
	IsForecast bool
}

// ProductPerformance carries the per-product report with the derived turnover
// and margin heuristics.
type ProductPerformance struct {
	ProductID     int
	Title         string
	Category      string
	Origin        string
	Brand         string
	TotalSold     int
	TotalRevenue  decimal.Decimal
	OrderCount    int
	AvgOrderValue decimal.Decimal
	Inventory     int
	Price         decimal.Decimal
	IsAvailable   bool
	TurnoverRate  decimal.Decimal
	ProfitMargin  decimal.Decimal
}

// RestockUrgency is the three-level restock classification.
type RestockUrgency string

const (
	UrgencyHigh   RestockUrgency = "high"
	UrgencyMedium RestockUrgency = "medium"
	UrgencyLow    RestockUrgency = "low"
)

// UrgencyRank orders urgencies for sorting: high before medium before low.
func UrgencyRank(u RestockUrgency) int {
	switch u {
	case UrgencyHigh:
		return 0
	case UrgencyMedium:
		return 1
	default:
		return 2
	}
}

// InventoryItem is one product's restock assessment. DaysRemaining is nil
// when the product had no sales in the trailing window.
type InventoryItem struct {
	ProductID           int
	Title               string
	Category            string
	Origin              string
	CurrentInventory    int
	DailySales          decimal.Decimal
	DaysRemaining       *int
	Recommendation      string
	Urgency             RestockUrgency
	RecommendedOrderQty int
}

type InventorySummary struct {
	TotalProducts int
	OutOfStock    int
	LowStock      int
	HealthyStock  int
}

type InventoryReport struct {
	Items   []InventoryItem
	Summary InventorySummary
}

// Cohort groups customers by the calendar month of their first purchase.
// Map keys are whole-month offsets since that first purchase.
type Cohort struct {
	Cohort           string
	TotalCustomers   int
	TotalRevenue     decimal.Decimal
	RetentionByMonth map[int]int
	RetentionRates   map[int]float64
	AvgSpending      map[int]decimal.Decimal
	LTV              decimal.Decimal
}

// GrowthComparison compares a scalar aggregate against the immediately
// preceding window of identical length. PercentChange is nil when the
// previous value is not positive.
type GrowthComparison struct {
	Current       decimal.Decimal
	Previous      decimal.Decimal
	PercentChange *float64
}

// DashboardStats is the single-response dashboard envelope.
type DashboardStats struct {
	TotalEarnings      decimal.Decimal
	MonthlyEarnings    []MonthBucket
	DailyEarnings      []DayBucket
	TotalProducts      int
	ProductsByOrigin   []CountGroup
	ProductsByCategory []CountGroup
	TotalOrders        int
	OrdersByStatus     []StatusCount
	RecentOrders       []OrderSummary
	TopSellingProducts []ProductSales
	Growth             *GrowthComparison
}

// ProductListing is one page of the catalog zipped with lifetime sales.
type ProductListing struct {
	Products   []ProductWithSales
	Total      int
	TotalPages int
	Page       int
}

// ExportRow is one line-item row of the sales export. Column order and
// presence are part of the external CSV contract.
type ExportRow struct {
	OrderUUID       string          `db:"order_uuid"`
	CustomerName    string          `db:"customer_name"`
	CustomerEmail   string          `db:"customer_email"`
	OrderDate       time.Time       `db:"order_date"`
	ProductID       int             `db:"product_id"`
	ProductTitle    string          `db:"product_title"`
	ProductCategory string          `db:"product_category"`
	ProductOrigin   string          `db:"product_origin"`
	Quantity        int             `db:"quantity"`
	UnitPrice       decimal.Decimal `db:"unit_price"`
	LineTotal       decimal.Decimal `db:"line_total"`
	Status          string          `db:"status"`
	PaymentStatus   string          `db:"payment_status"`
	ShippingCountry string          `db:"shipping_country"`
	ShippingState   string          `db:"shipping_state"`
	ShippingCity    string          `db:"shipping_city"`
}
