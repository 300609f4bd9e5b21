package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type (
	// Orders is the read side of the order ledger the analytics engine
	// consumes. All aggregations honor the order predicate; product-joined
	// aggregations additionally honor the product predicate and silently
	// drop line items whose product no longer exists.
	Orders interface {
		// CountOrders returns the number of orders matching the predicate.
		CountOrders(ctx context.Context, p entity.OrderPredicate) (int, error)
		// TotalRevenue sums whole-order totals over matching orders.
		TotalRevenue(ctx context.Context, p entity.OrderPredicate) (decimal.Decimal, error)
		// RevenueByMonth buckets whole-order totals per calendar month,
		// ascending chronological.
		RevenueByMonth(ctx context.Context, p entity.OrderPredicate) ([]entity.MonthBucket, error)
		// RevenueByDay buckets whole-order totals per calendar day,
		// ascending chronological.
		RevenueByDay(ctx context.Context, p entity.OrderPredicate) ([]entity.DayBucket, error)
		// OrdersByStatus counts orders per status; the predicate's Status
		// field is ignored by contract.
		OrdersByStatus(ctx context.Context, p entity.OrderPredicate) ([]entity.StatusCount, error)
		// RecentOrders returns the newest matching orders with the titles of
		// the products they contain.
		RecentOrders(ctx context.Context, p entity.OrderPredicate, limit int) ([]entity.OrderSummary, error)
		// ProductSales groups matching line items by product: units sold,
		// distinct order count and snapshot revenue, ranked by revenue
		// descending. A non-positive limit returns all rows.
		ProductSales(ctx context.Context, p entity.OrderPredicate, pp entity.ProductPredicate, limit int) ([]entity.ProductSales, error)
		// SalesByCountry aggregates whole-order revenue per shipping country,
		// ranked by revenue descending.
		SalesByCountry(ctx context.Context, p entity.OrderPredicate) ([]entity.RegionSales, error)
		// SalesByState aggregates per (country, state) restricted to the
		// given countries.
		SalesByState(ctx context.Context, p entity.OrderPredicate, countries []string) ([]entity.RegionSales, error)
		// SalesByCity aggregates per (country, state, city) restricted to
		// the given (country, state) pairs.
		SalesByCity(ctx context.Context, p entity.OrderPredicate, states map[string][]string) ([]entity.RegionSales, error)
		// SalesByCategory aggregates line-item snapshot revenue per product
		// category, ranked by revenue descending.
		SalesByCategory(ctx context.Context, p entity.OrderPredicate) ([]entity.CategorySales, error)
		// SalesBySubcategory aggregates per (category, subcategory)
		// restricted to the given categories.
		SalesBySubcategory(ctx context.Context, p entity.OrderPredicate, categories []string) ([]entity.CategorySales, error)
		// DemographicGroups groups matching orders by a sparse order
		// dimension, excluding rows where the dimension is absent.
		DemographicGroups(ctx context.Context, p entity.OrderPredicate, dim entity.DemographicDimension) ([]entity.DemographicGroup, error)
		// UnitsSoldByProduct returns per-product units sold over matching
		// orders, keyed by product id.
		UnitsSoldByProduct(ctx context.Context, p entity.OrderPredicate) (map[int]int, error)
		// CustomerOrders returns the (email, total, createdAt) projection of
		// all matching orders, ascending by createdAt.
		CustomerOrders(ctx context.Context, p entity.OrderPredicate) ([]entity.CustomerOrder, error)
		// SalesFigures returns per-product units, revenue and last sale time
		// over matching orders, keyed by product id and restricted to the
		// given products.
		SalesFigures(ctx context.Context, p entity.OrderPredicate, productIDs []int) (map[int]entity.SalesFigures, error)
		// ExportRows returns one row per matching line item joined to its
		// product, in order creation order.
		ExportRows(ctx context.Context, p entity.OrderPredicate, pp entity.ProductPredicate) ([]entity.ExportRow, error)
	}

	// Products is the read side of the product catalog.
	Products interface {
		// GetProductById returns nil without error when the product does not
		// exist; callers own the missing-reference policy.
		GetProductById(ctx context.Context, id int) (*entity.Product, error)
		CountProducts(ctx context.Context, pp entity.ProductPredicate) (int, error)
		// ProductsByOrigin counts catalog rows per origin under the
		// predicate's category restriction; ProductsByCategory is the
		// mirror grouping.
		ProductsByOrigin(ctx context.Context, pp entity.ProductPredicate) ([]entity.CountGroup, error)
		ProductsByCategory(ctx context.Context, pp entity.ProductPredicate) ([]entity.CountGroup, error)
		// GetProductsPaged lists catalog rows under the filter with explicit
		// pagination; the returned int is the unpaged total.
		GetProductsPaged(ctx context.Context, f entity.CatalogFilter, sort entity.SortFactor, order entity.OrderFactor, limit, offset int) ([]entity.Product, int, error)
		// AllStock returns the inventory projection of the whole catalog.
		AllStock(ctx context.Context) ([]entity.ProductStock, error)
	}

	Repository interface {
		Orders() Orders
		Products() Products
		Tx(ctx context.Context, f func(context.Context, Repository) error) error
		TxBegin(ctx context.Context) (Repository, error)
		TxCommit(ctx context.Context) error
		TxRollback(ctx context.Context) error
		Now() time.Time
		InTx() bool
		Close()
		IsErrorRepeat(err error) bool
		DB() DB
	}

	// DB represents database interface.
	DB interface {
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

		// sqlx methods
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
		NamedQuery(query string, arg interface{}) (*sqlx.Rows, error)
		PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
		PreparexContext(ctx context.Context, query string) (*sqlx.Stmt, error)
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}
)
