package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderFactor string

const (
	Ascending  OrderFactor = "ASC"
	Descending OrderFactor = "DESC"
)

func (of *OrderFactor) String() string {
	if of != nil && *of == Descending {
		return "DESC"
	}
	return "ASC"
}

type SortFactor string

const (
	SortCreatedAt SortFactor = "created_at"
	SortUpdatedAt SortFactor = "updated_at"
	SortTitle     SortFactor = "title"
	SortPrice     SortFactor = "price"
	SortInventory SortFactor = "inventory"
)

var validSortFactors = map[SortFactor]bool{
	SortCreatedAt: true,
	SortUpdatedAt: true,
	SortTitle:     true,
	SortPrice:     true,
	SortInventory: true,
}

func IsValidSortFactor(factor string) bool {
	return validSortFactors[SortFactor(factor)]
}

// TimeRange is a half-closed reporting window [From, To). A zero range means
// no date restriction.
type TimeRange struct {
	From time.Time
	To   time.Time
}

func (tr TimeRange) IsZero() bool {
	return tr.From.IsZero() && tr.To.IsZero()
}

// OrderPredicate restricts order rows. Zero values mean no restriction on the
// corresponding dimension.
type OrderPredicate struct {
	Status  OrderStatusName
	Range   TimeRange
	Country string
}

// ProductPredicate restricts product rows after the order->product join.
type ProductPredicate struct {
	Category string
	Origin   string
}

// ReportFilter is the normalized predicate the filter builder hands to the
// aggregation engine: independent order-side and product-side conditions.
type ReportFilter struct {
	Orders   OrderPredicate
	Products ProductPredicate
}

// StockState is the tri-state inventory restriction on catalog listings.
type StockState string

const (
	StockAny StockState = "all"
	StockIn  StockState = "true"
	StockOut StockState = "false"
)

// CatalogFilter restricts the products-with-sales listing.
type CatalogFilter struct {
	Search   string
	Category string
	Origin   string
	MinPrice decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	Stock    StockState
}
