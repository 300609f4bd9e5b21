package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the product table. Price is the current live price and
// may differ from the unit_price snapshots on historical order items.
// Inventory is mutated by the order workflow, never by the analytics engine.
type Product struct {
	ID          int             `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Brand       string          `db:"brand"`
	Category    string          `db:"category"`
	Subcategory sql.NullString  `db:"subcategory"`
	Origin      string          `db:"origin"`
	Price       decimal.Decimal `db:"price"`
	Currency    string          `db:"currency"`
	Inventory   int             `db:"inventory"`
	IsAvailable bool            `db:"is_available"`
	Rating      decimal.Decimal `db:"rating"`
	Source      string          `db:"source"`
	SourceID    string          `db:"source_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (p *Product) PriceDecimal() decimal.Decimal {
	return p.Price.Round(2)
}

// ProductStock is the projection used by the inventory health engine.
type ProductStock struct {
	ID          int             `db:"id"`
	Title       string          `db:"title"`
	Category    string          `db:"category"`
	Origin      string          `db:"origin"`
	Price       decimal.Decimal `db:"price"`
	Inventory   int             `db:"inventory"`
	IsAvailable bool            `db:"is_available"`
}

// SalesFigures are lifetime completed-order sales of a single product.
type SalesFigures struct {
	TotalSold int             `db:"total_sold"`
	Revenue   decimal.Decimal `db:"revenue"`
	LastSold  sql.NullTime    `db:"last_sold"`
}

// ProductWithSales is a catalog row zipped with its lifetime completed-order
// sales figures. Products that never sold carry zero values and a null
// LastSold.
type ProductWithSales struct {
	Product
	TotalSold int             `db:"total_sold"`
	Revenue   decimal.Decimal `db:"revenue"`
	LastSold  sql.NullTime    `db:"last_sold"`
}
