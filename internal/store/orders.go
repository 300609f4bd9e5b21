package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/desimart/storefront-manager/internal/dependency"
	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
)

type ordersStore struct {
	*MYSQLStore
}

// Orders returns an object implementing order reader interface
func (ms *MYSQLStore) Orders() dependency.Orders {
	return &ordersStore{
		MYSQLStore: ms,
	}
}

// orderWhere renders the order predicate as a WHERE fragment over the
// customer_order alias co, filling params as it goes. The time range is
// half-closed: [From, To).
func orderWhere(p entity.OrderPredicate, params map[string]any) string {
	conds := []string{"1=1"}
	if p.Status != "" {
		conds = append(conds, "co.status = :status")
		params["status"] = p.Status.String()
	}
	if !p.Range.IsZero() {
		conds = append(conds, "co.created_at >= :from AND co.created_at < :to")
		params["from"] = p.Range.From
		params["to"] = p.Range.To
	}
	if p.Country != "" {
		conds = append(conds, "co.shipping_country = :country")
		params["country"] = p.Country
	}
	return strings.Join(conds, " AND ")
}

// productWhere renders the product predicate over the product alias p.
func productWhere(pp entity.ProductPredicate, params map[string]any) string {
	conds := []string{"1=1"}
	if pp.Category != "" {
		conds = append(conds, "p.category = :productCategory")
		params["productCategory"] = pp.Category
	}
	if pp.Origin != "" {
		conds = append(conds, "p.origin = :productOrigin")
		params["productOrigin"] = pp.Origin
	}
	return strings.Join(conds, " AND ")
}

func (ms *MYSQLStore) CountOrders(ctx context.Context, p entity.OrderPredicate) (int, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM customer_order co WHERE %s`,
		orderWhere(p, params))
	count, err := QueryCountNamed(ctx, ms.DB(), query, params)
	if err != nil {
		return 0, fmt.Errorf("can't count orders: %w", err)
	}
	return count, nil
}

func (ms *MYSQLStore) TotalRevenue(ctx context.Context, p entity.OrderPredicate) (decimal.Decimal, error) {
	type row struct {
		Total decimal.Decimal `db:"total"`
	}
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(co.total_amount), 0) AS total
		FROM customer_order co WHERE %s`,
		orderWhere(p, params))
	r, err := QueryNamedOne[row](ctx, ms.DB(), query, params)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't sum revenue: %w", err)
	}
	return r.Total, nil
}

func (ms *MYSQLStore) RevenueByMonth(ctx context.Context, p entity.OrderPredicate) ([]entity.MonthBucket, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT YEAR(co.created_at) AS y, MONTH(co.created_at) AS m,
			COALESCE(SUM(co.total_amount), 0) AS total_sales,
			COUNT(*) AS order_count
		FROM customer_order co
		WHERE %s
		GROUP BY y, m
		ORDER BY y ASC, m ASC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.MonthBucket](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get monthly revenue: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) RevenueByDay(ctx context.Context, p entity.OrderPredicate) ([]entity.DayBucket, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT YEAR(co.created_at) AS y, MONTH(co.created_at) AS m, DAY(co.created_at) AS d,
			COALESCE(SUM(co.total_amount), 0) AS total_sales,
			COUNT(*) AS order_count
		FROM customer_order co
		WHERE %s
		GROUP BY y, m, d
		ORDER BY y ASC, m ASC, d ASC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.DayBucket](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get daily revenue: %w", err)
	}
	return rows, nil
}

// OrdersByStatus ignores the predicate's Status field: the status breakdown
// always covers every status within the window.
func (ms *MYSQLStore) OrdersByStatus(ctx context.Context, p entity.OrderPredicate) ([]entity.StatusCount, error) {
	p.Status = ""
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT co.status AS status, COUNT(*) AS cnt
		FROM customer_order co
		WHERE %s
		GROUP BY co.status
		ORDER BY cnt DESC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.StatusCount](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get orders by status: %w", err)
	}
	return rows, nil
}

type orderRow struct {
	ID             int                      `db:"id"`
	UUID           string                   `db:"uuid"`
	CustomerName   string                   `db:"customer_name"`
	CustomerEmail  string                   `db:"customer_email"`
	CustomerPhone  string                   `db:"customer_phone"`
	Status         entity.OrderStatusName   `db:"status"`
	PaymentStatus  entity.PaymentStatusName `db:"payment_status"`
	PaymentMethod  string                   `db:"payment_method"`
	TotalAmount    decimal.Decimal          `db:"total_amount"`
	ReferralSource sql.NullString           `db:"referral_source"`
	CreatedAt      time.Time                `db:"created_at"`
	UpdatedAt      time.Time                `db:"updated_at"`
	entity.Address
	entity.Demographics
	entity.DeviceInfo
}

func (r orderRow) toOrder() entity.Order {
	return entity.Order{
		ID:              r.ID,
		UUID:            r.UUID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		Status:          r.Status,
		PaymentStatus:   r.PaymentStatus,
		PaymentMethod:   r.PaymentMethod,
		TotalAmount:     r.TotalAmount,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		ShippingAddress: r.Address,
		Demographics:    r.Demographics,
		ReferralSource:  r.ReferralSource,
		DeviceInfo:      r.DeviceInfo,
	}
}

func (ms *MYSQLStore) RecentOrders(ctx context.Context, p entity.OrderPredicate, limit int) ([]entity.OrderSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	params := map[string]any{"limit": limit}
	query := fmt.Sprintf(`
		SELECT co.id, co.uuid, co.customer_name, co.customer_email, co.customer_phone,
			co.status, co.payment_status, co.payment_method, co.total_amount,
			co.created_at, co.updated_at,
			co.shipping_street, co.shipping_city, co.shipping_state,
			co.shipping_postal_code, co.shipping_country,
			co.age_group, co.gender, co.referral_source,
			co.device_type, co.device_browser, co.device_os
		FROM customer_order co
		WHERE %s
		ORDER BY co.created_at DESC
		LIMIT :limit`,
		orderWhere(p, params))
	rows, err := QueryListNamed[orderRow](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get recent orders: %w", err)
	}
	if len(rows) == 0 {
		return []entity.OrderSummary{}, nil
	}

	ids := make([]int, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	type titleRow struct {
		OrderID int    `db:"order_id"`
		Title   string `db:"title"`
	}
	titles, err := QueryListNamed[titleRow](ctx, ms.DB(), `
		SELECT oi.order_id AS order_id, p.title AS title
		FROM order_item oi
		JOIN product p ON p.id = oi.product_id
		WHERE oi.order_id IN (:orderIds)
		ORDER BY oi.order_id, oi.id`,
		map[string]any{"orderIds": ids})
	if err != nil {
		return nil, fmt.Errorf("can't get order item titles: %w", err)
	}
	byOrder := make(map[int][]string, len(rows))
	for _, t := range titles {
		byOrder[t.OrderID] = append(byOrder[t.OrderID], t.Title)
	}

	summaries := make([]entity.OrderSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, entity.OrderSummary{
			Order:         r.toOrder(),
			ProductTitles: byOrder[r.ID],
		})
	}
	return summaries, nil
}

// ProductSales drops line items whose product row is gone; the inner join
// makes dangling product references disappear from every grouping.
func (ms *MYSQLStore) ProductSales(ctx context.Context, p entity.OrderPredicate, pp entity.ProductPredicate, limit int) ([]entity.ProductSales, error) {
	params := map[string]any{}
	limitClause := ""
	if limit > 0 {
		limitClause = "LIMIT :limit"
		params["limit"] = limit
	}
	query := fmt.Sprintf(`
		SELECT p.id AS product_id, p.title AS title, p.brand AS brand,
			p.category AS category, p.origin AS origin, p.price AS price,
			COALESCE(SUM(oi.quantity), 0) AS total_sold,
			COUNT(DISTINCT co.id) AS order_count,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_revenue
		FROM order_item oi
		JOIN customer_order co ON co.id = oi.order_id
		JOIN product p ON p.id = oi.product_id
		WHERE %s AND %s
		GROUP BY p.id, p.title, p.brand, p.category, p.origin, p.price
		ORDER BY total_revenue DESC
		%s`,
		orderWhere(p, params), productWhere(pp, params), limitClause)
	rows, err := QueryListNamed[entity.ProductSales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get product sales: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) SalesByCountry(ctx context.Context, p entity.OrderPredicate) ([]entity.RegionSales, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT COALESCE(co.shipping_country, '') AS country, '' AS state, '' AS city,
			COALESCE(SUM(co.total_amount), 0) AS total_sales,
			COUNT(*) AS order_count
		FROM customer_order co
		WHERE %s AND co.shipping_country IS NOT NULL AND co.shipping_country <> ''
		GROUP BY co.shipping_country
		ORDER BY total_sales DESC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.RegionSales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get sales by country: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) SalesByState(ctx context.Context, p entity.OrderPredicate, countries []string) ([]entity.RegionSales, error) {
	if len(countries) == 0 {
		return []entity.RegionSales{}, nil
	}
	params := map[string]any{"countries": countries}
	query := fmt.Sprintf(`
		SELECT co.shipping_country AS country, COALESCE(co.shipping_state, '') AS state, '' AS city,
			COALESCE(SUM(co.total_amount), 0) AS total_sales,
			COUNT(*) AS order_count
		FROM customer_order co
		WHERE %s AND co.shipping_country IN (:countries)
			AND co.shipping_state IS NOT NULL AND co.shipping_state <> ''
		GROUP BY co.shipping_country, co.shipping_state
		ORDER BY total_sales DESC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.RegionSales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get sales by state: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) SalesByCity(ctx context.Context, p entity.OrderPredicate, states map[string][]string) ([]entity.RegionSales, error) {
	if len(states) == 0 {
		return []entity.RegionSales{}, nil
	}
	params := map[string]any{}
	countries := make([]string, 0, len(states))
	for c := range states {
		countries = append(countries, c)
	}
	sort.Strings(countries)
	var pairs []string
	for i, c := range countries {
		if len(states[c]) == 0 {
			continue
		}
		ck := fmt.Sprintf("pairCountry%d", i)
		sk := fmt.Sprintf("pairStates%d", i)
		params[ck] = c
		params[sk] = states[c]
		pairs = append(pairs, fmt.Sprintf("(co.shipping_country = :%s AND co.shipping_state IN (:%s))", ck, sk))
	}
	if len(pairs) == 0 {
		return []entity.RegionSales{}, nil
	}
	query := fmt.Sprintf(`
		SELECT co.shipping_country AS country, co.shipping_state AS state,
			COALESCE(co.shipping_city, '') AS city,
			COALESCE(SUM(co.total_amount), 0) AS total_sales,
			COUNT(*) AS order_count
		FROM customer_order co
		WHERE %s AND (%s)
			AND co.shipping_city IS NOT NULL AND co.shipping_city <> ''
		GROUP BY co.shipping_country, co.shipping_state, co.shipping_city
		ORDER BY total_sales DESC`,
		orderWhere(p, params), strings.Join(pairs, " OR "))
	rows, err := QueryListNamed[entity.RegionSales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get sales by city: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) SalesByCategory(ctx context.Context, p entity.OrderPredicate) ([]entity.CategorySales, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT p.category AS category, '' AS subcategory,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_sales,
			COALESCE(SUM(oi.quantity), 0) AS total_quantity,
			COUNT(DISTINCT co.id) AS order_count
		FROM order_item oi
		JOIN customer_order co ON co.id = oi.order_id
		JOIN product p ON p.id = oi.product_id
		WHERE %s
		GROUP BY p.category
		ORDER BY total_sales DESC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.CategorySales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get sales by category: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) SalesBySubcategory(ctx context.Context, p entity.OrderPredicate, categories []string) ([]entity.CategorySales, error) {
	if len(categories) == 0 {
		return []entity.CategorySales{}, nil
	}
	params := map[string]any{"categories": categories}
	query := fmt.Sprintf(`
		SELECT p.category AS category, COALESCE(p.subcategory, '') AS subcategory,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_sales,
			COALESCE(SUM(oi.quantity), 0) AS total_quantity,
			COUNT(DISTINCT co.id) AS order_count
		FROM order_item oi
		JOIN customer_order co ON co.id = oi.order_id
		JOIN product p ON p.id = oi.product_id
		WHERE %s AND p.category IN (:categories)
			AND p.subcategory IS NOT NULL AND p.subcategory <> ''
		GROUP BY p.category, p.subcategory
		ORDER BY total_sales DESC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.CategorySales](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get sales by subcategory: %w", err)
	}
	return rows, nil
}

func demographicColumn(dim entity.DemographicDimension) (string, error) {
	switch dim {
	case entity.DimensionAgeGroup:
		return "co.age_group", nil
	case entity.DimensionGender:
		return "co.gender", nil
	case entity.DimensionDevice:
		return "co.device_type", nil
	case entity.DimensionReferral:
		return "co.referral_source", nil
	}
	return "", fmt.Errorf("unknown demographic dimension: %s", dim)
}

// DemographicGroups excludes orders where the dimension was not captured
// rather than folding them into an unknown bucket.
func (ms *MYSQLStore) DemographicGroups(ctx context.Context, p entity.OrderPredicate, dim entity.DemographicDimension) ([]entity.DemographicGroup, error) {
	col, err := demographicColumn(dim)
	if err != nil {
		return nil, err
	}
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT %[1]s AS k, COUNT(*) AS cnt,
			COALESCE(SUM(co.total_amount), 0) AS total_spent
		FROM customer_order co
		WHERE %[2]s AND %[1]s IS NOT NULL AND %[1]s <> ''
		GROUP BY %[1]s
		ORDER BY cnt DESC`,
		col, orderWhere(p, params))
	rows, err := QueryListNamed[entity.DemographicGroup](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get demographic groups: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) UnitsSoldByProduct(ctx context.Context, p entity.OrderPredicate) (map[int]int, error) {
	type row struct {
		ProductID int `db:"product_id"`
		Units     int `db:"units"`
	}
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT oi.product_id AS product_id, COALESCE(SUM(oi.quantity), 0) AS units
		FROM order_item oi
		JOIN customer_order co ON co.id = oi.order_id
		WHERE %s
		GROUP BY oi.product_id`,
		orderWhere(p, params))
	rows, err := QueryListNamed[row](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get units sold: %w", err)
	}
	units := make(map[int]int, len(rows))
	for _, r := range rows {
		units[r.ProductID] = r.Units
	}
	return units, nil
}

func (ms *MYSQLStore) CustomerOrders(ctx context.Context, p entity.OrderPredicate) ([]entity.CustomerOrder, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT co.customer_email, co.total_amount, co.created_at
		FROM customer_order co
		WHERE %s
		ORDER BY co.created_at ASC`,
		orderWhere(p, params))
	rows, err := QueryListNamed[entity.CustomerOrder](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get customer orders: %w", err)
	}
	return rows, nil
}

func (ms *MYSQLStore) SalesFigures(ctx context.Context, p entity.OrderPredicate, productIDs []int) (map[int]entity.SalesFigures, error) {
	if len(productIDs) == 0 {
		return map[int]entity.SalesFigures{}, nil
	}
	type row struct {
		ProductID int `db:"product_id"`
		entity.SalesFigures
	}
	params := map[string]any{"productIds": productIDs}
	query := fmt.Sprintf(`
		SELECT oi.product_id AS product_id,
			COALESCE(SUM(oi.quantity), 0) AS total_sold,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS revenue,
			MAX(co.created_at) AS last_sold
		FROM order_item oi
		JOIN customer_order co ON co.id = oi.order_id
		WHERE %s AND oi.product_id IN (:productIds)
		GROUP BY oi.product_id`,
		orderWhere(p, params))
	rows, err := QueryListNamed[row](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get sales figures: %w", err)
	}
	figures := make(map[int]entity.SalesFigures, len(rows))
	for _, r := range rows {
		figures[r.ProductID] = r.SalesFigures
	}
	return figures, nil
}

func (ms *MYSQLStore) ExportRows(ctx context.Context, p entity.OrderPredicate, pp entity.ProductPredicate) ([]entity.ExportRow, error) {
	params := map[string]any{}
	query := fmt.Sprintf(`
		SELECT co.uuid AS order_uuid, co.customer_name, co.customer_email,
			co.created_at AS order_date,
			p.id AS product_id, p.title AS product_title,
			p.category AS product_category, p.origin AS product_origin,
			oi.quantity AS quantity, oi.unit_price AS unit_price,
			oi.quantity * oi.unit_price AS line_total,
			co.status AS status, co.payment_status AS payment_status,
			COALESCE(co.shipping_country, '') AS shipping_country,
			COALESCE(co.shipping_state, '') AS shipping_state,
			COALESCE(co.shipping_city, '') AS shipping_city
		FROM order_item oi
		JOIN customer_order co ON co.id = oi.order_id
		JOIN product p ON p.id = oi.product_id
		WHERE %s AND %s
		ORDER BY co.created_at ASC, co.id ASC, oi.id ASC`,
		orderWhere(p, params), productWhere(pp, params))
	rows, err := QueryListNamed[entity.ExportRow](ctx, ms.DB(), query, params)
	if err != nil {
		return nil, fmt.Errorf("can't get export rows: %w", err)
	}
	return rows, nil
}
