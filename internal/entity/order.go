package entity

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusName is the custom type to enforce enum-like behavior
type OrderStatusName string

const (
	Pending    OrderStatusName = "pending"
	Processing OrderStatusName = "processing"
	Shipped    OrderStatusName = "shipped"
	Delivered  OrderStatusName = "delivered"
	Completed  OrderStatusName = "completed"
	Cancelled  OrderStatusName = "cancelled"
)

func (osn OrderStatusName) String() string {
	return string(osn)
}

var validOrderStatuses = map[OrderStatusName]bool{
	Pending:    true,
	Processing: true,
	Shipped:    true,
	Delivered:  true,
	Completed:  true,
	Cancelled:  true,
}

func IsValidOrderStatus(s string) bool {
	return validOrderStatuses[OrderStatusName(s)]
}

// IsTerminalOrderStatus reports whether no further status transitions follow.
func IsTerminalOrderStatus(s OrderStatusName) bool {
	return s == Completed || s == Cancelled
}

type PaymentStatusName string

const (
	PaymentPending  PaymentStatusName = "pending"
	PaymentPaid     PaymentStatusName = "paid"
	PaymentFailed   PaymentStatusName = "failed"
	PaymentRefunded PaymentStatusName = "refunded"
)

func (psn PaymentStatusName) String() string {
	return string(psn)
}

// Order represents the customer_order table. TotalAmount is the sum of
// quantity * unit_price across the order items at creation time and is never
// recomputed, even when the live product price changes.
type Order struct {
	ID             int               `db:"id"`
	UUID           string            `db:"uuid"`
	CustomerName   string            `db:"customer_name"`
	CustomerEmail  string            `db:"customer_email"`
	CustomerPhone  string            `db:"customer_phone"`
	Status         OrderStatusName   `db:"status"`
	PaymentStatus  PaymentStatusName `db:"payment_status"`
	PaymentMethod  string            `db:"payment_method"`
	TotalAmount    decimal.Decimal   `db:"total_amount"`
	TrackingNumber sql.NullString    `db:"tracking_number"`
	Notes          sql.NullString    `db:"notes"`
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"`

	ShippingAddress Address
	Demographics    Demographics
	ReferralSource  sql.NullString `db:"referral_source"`
	DeviceInfo      DeviceInfo
}

func (o *Order) TotalAmountDecimal() decimal.Decimal {
	return o.TotalAmount.Round(2)
}

// Address is the shipping destination embedded in an order row.
type Address struct {
	Street     sql.NullString `db:"shipping_street"`
	City       sql.NullString `db:"shipping_city"`
	State      sql.NullString `db:"shipping_state"`
	PostalCode sql.NullString `db:"shipping_postal_code"`
	Country    sql.NullString `db:"shipping_country"`
}

// Demographics are optional self-reported buyer attributes, sparse by design.
type Demographics struct {
	AgeGroup sql.NullString `db:"age_group"`
	Gender   sql.NullString `db:"gender"`
}

type DeviceInfo struct {
	Type    sql.NullString `db:"device_type"`
	Browser sql.NullString `db:"device_browser"`
	OS      sql.NullString `db:"device_os"`
}

// OrderItem represents the order_item table. UnitPrice is a snapshot taken at
// order time, not a live product price lookup.
type OrderItem struct {
	ID        int             `db:"id"`
	OrderID   int             `db:"order_id"`
	ProductID int             `db:"product_id"`
	Quantity  int             `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
}

func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity))).Round(2)
}

type OrderFull struct {
	Order Order
	Items []OrderItem
}

// OrderSummary is the truncated shape used by the recent-orders dashboard
// block: the order row plus titles of the products it contains.
type OrderSummary struct {
	Order         Order
	ProductTitles []string
}

// CustomerOrder is the minimal projection fed to the cohort engine: one row
// per order, sorted ascending by CreatedAt by the reader contract.
type CustomerOrder struct {
	CustomerEmail string          `db:"customer_email"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	CreatedAt     time.Time       `db:"created_at"`
}
