package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/desimart/storefront-manager/internal/dependency"
	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
)

const (
	defaultTrendingDays  = 30
	defaultReportLimit   = 10
	dashboardTopSellers  = 5
	dashboardRecentLimit = 10
	topRegionLimit       = 5
	topCategoryLimit     = 5
	// dailyEarningsMaxDays bounds the per-day breakdown; longer windows get
	// only the monthly series.
	dailyEarningsMaxDays = 90
)

// Service derives reports from the ledgers behind the repository. It holds no
// state of its own and is safe for concurrent use.
type Service struct {
	repo dependency.Repository
}

func New(repo dependency.Repository) *Service {
	return &Service{repo: repo}
}

// completed narrows a predicate to completed orders, the basis of every
// revenue report.
func completed(p entity.OrderPredicate) entity.OrderPredicate {
	p.Status = entity.Completed
	return p
}

// Dashboard assembles the summary blocks in one response: earnings, catalog
// and order breakdowns, recent orders and top sellers. Monthly earnings
// default to the calendar year of asOf when no range is given; daily
// earnings appear only for ranges up to 90 days. With compare set, total
// earnings are paired against the immediately preceding window.
func (s *Service) Dashboard(ctx context.Context, asOf time.Time, f entity.ReportFilter, compare bool) (*entity.DashboardStats, error) {
	stats := &entity.DashboardStats{}
	// one snapshot for all blocks, so the totals agree with the breakdowns
	err := s.repo.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		return s.dashboardBlocks(ctx, rep, asOf, f, compare, stats)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Service) dashboardBlocks(ctx context.Context, rep dependency.Repository, asOf time.Time, f entity.ReportFilter, compare bool, stats *entity.DashboardStats) error {
	orderP := completed(f.Orders)

	var err error
	stats.TotalEarnings, err = rep.Orders().TotalRevenue(ctx, orderP)
	if err != nil {
		return fmt.Errorf("dashboard: total earnings: %w", err)
	}

	monthlyP := orderP
	if monthlyP.Range.IsZero() {
		yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, asOf.Location())
		monthlyP.Range = entity.TimeRange{From: yearStart, To: yearStart.AddDate(1, 0, 0)}
	}
	stats.MonthlyEarnings, err = rep.Orders().RevenueByMonth(ctx, monthlyP)
	if err != nil {
		return fmt.Errorf("dashboard: monthly earnings: %w", err)
	}

	if !orderP.Range.IsZero() {
		// span counted between the requested dates themselves; Range.To is
		// already the day after the inclusive end date
		days := int(math.Ceil(orderP.Range.To.AddDate(0, 0, -1).Sub(orderP.Range.From).Hours() / 24))
		if days <= dailyEarningsMaxDays {
			stats.DailyEarnings, err = rep.Orders().RevenueByDay(ctx, orderP)
			if err != nil {
				return fmt.Errorf("dashboard: daily earnings: %w", err)
			}
		}
	}

	stats.TotalProducts, err = rep.Products().CountProducts(ctx, f.Products)
	if err != nil {
		return fmt.Errorf("dashboard: product count: %w", err)
	}
	stats.ProductsByOrigin, err = rep.Products().ProductsByOrigin(ctx, f.Products)
	if err != nil {
		return fmt.Errorf("dashboard: products by origin: %w", err)
	}
	stats.ProductsByCategory, err = rep.Products().ProductsByCategory(ctx, f.Products)
	if err != nil {
		return fmt.Errorf("dashboard: products by category: %w", err)
	}

	stats.TotalOrders, err = rep.Orders().CountOrders(ctx, orderP)
	if err != nil {
		return fmt.Errorf("dashboard: order count: %w", err)
	}

	// the status breakdown covers every status and ignores the country
	// restriction, matching the headline blocks' wider context
	stats.OrdersByStatus, err = rep.Orders().OrdersByStatus(ctx, entity.OrderPredicate{Range: f.Orders.Range})
	if err != nil {
		return fmt.Errorf("dashboard: orders by status: %w", err)
	}

	stats.RecentOrders, err = rep.Orders().RecentOrders(ctx, orderP, dashboardRecentLimit)
	if err != nil {
		return fmt.Errorf("dashboard: recent orders: %w", err)
	}

	stats.TopSellingProducts, err = rep.Orders().ProductSales(ctx, orderP, f.Products, dashboardTopSellers)
	if err != nil {
		return fmt.Errorf("dashboard: top sellers: %w", err)
	}

	if compare && !orderP.Range.IsZero() {
		prevP := orderP
		prevP.Range = PreviousWindow(orderP.Range)
		previous, err := rep.Orders().TotalRevenue(ctx, prevP)
		if err != nil {
			return fmt.Errorf("dashboard: previous earnings: %w", err)
		}
		growth := Compare(stats.TotalEarnings, previous)
		stats.Growth = &growth
	}

	return nil
}

// TopSellers ranks products by revenue over completed orders in the window.
func (s *Service) TopSellers(ctx context.Context, f entity.ReportFilter, limit int) ([]entity.ProductSales, error) {
	if limit <= 0 {
		limit = defaultReportLimit
	}
	sales, err := s.repo.Orders().ProductSales(ctx, completed(f.Orders), f.Products, limit)
	if err != nil {
		return nil, fmt.Errorf("top sellers: %w", err)
	}
	return sales, nil
}

// Trending scores products sold in the trailing days before asOf and returns
// the top scorers. All order statuses count: trending reflects demand, not
// fulfillment.
func (s *Service) Trending(ctx context.Context, asOf time.Time, days, limit int, pp entity.ProductPredicate) ([]entity.TrendingProduct, error) {
	if days <= 0 {
		days = defaultTrendingDays
	}
	if limit <= 0 {
		limit = defaultReportLimit
	}
	p := entity.OrderPredicate{
		Range: entity.TimeRange{From: asOf.AddDate(0, 0, -days), To: asOf},
	}
	sales, err := s.repo.Orders().ProductSales(ctx, p, pp, 0)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	return RankTrending(sales, limit), nil
}

// SalesByRegion drills down three levels: every country, the states of the
// top five countries, and the cities of each such country's top five states.
func (s *Service) SalesByRegion(ctx context.Context, f entity.ReportFilter) (*entity.SalesByRegion, error) {
	p := completed(entity.OrderPredicate{Range: f.Orders.Range})

	byCountry, err := s.repo.Orders().SalesByCountry(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("sales by region: countries: %w", err)
	}

	topCountries := make([]string, 0, topRegionLimit)
	for _, c := range byCountry {
		if len(topCountries) == topRegionLimit {
			break
		}
		topCountries = append(topCountries, c.Country)
	}

	byState, err := s.repo.Orders().SalesByState(ctx, p, topCountries)
	if err != nil {
		return nil, fmt.Errorf("sales by region: states: %w", err)
	}

	topStates := make(map[string][]string)
	for _, st := range byState {
		if len(topStates[st.Country]) < topRegionLimit {
			topStates[st.Country] = append(topStates[st.Country], st.State)
		}
	}

	byCity, err := s.repo.Orders().SalesByCity(ctx, p, topStates)
	if err != nil {
		return nil, fmt.Errorf("sales by region: cities: %w", err)
	}

	return &entity.SalesByRegion{
		ByCountry: byCountry,
		ByState:   byState,
		ByCity:    byCity,
	}, nil
}

// SalesByCategory aggregates line-item revenue per category, then per
// subcategory within the top five categories.
func (s *Service) SalesByCategory(ctx context.Context, f entity.ReportFilter) (*entity.SalesByCategory, error) {
	p := completed(entity.OrderPredicate{Range: f.Orders.Range})

	byCategory, err := s.repo.Orders().SalesByCategory(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}

	topCategories := make([]string, 0, topCategoryLimit)
	for _, c := range byCategory {
		if len(topCategories) == topCategoryLimit {
			break
		}
		topCategories = append(topCategories, c.Category)
	}

	bySubcategory, err := s.repo.Orders().SalesBySubcategory(ctx, p, topCategories)
	if err != nil {
		return nil, fmt.Errorf("sales by subcategory: %w", err)
	}

	return &entity.SalesByCategory{
		ByCategory:    byCategory,
		BySubcategory: bySubcategory,
	}, nil
}

// CustomerDemographics groups orders by each sparse buyer dimension. Orders
// missing a dimension are excluded from that grouping only.
func (s *Service) CustomerDemographics(ctx context.Context, f entity.ReportFilter) (*entity.CustomerDemographics, error) {
	p := entity.OrderPredicate{Range: f.Orders.Range}

	d := &entity.CustomerDemographics{}
	var err error
	d.ByAgeGroup, err = s.repo.Orders().DemographicGroups(ctx, p, entity.DimensionAgeGroup)
	if err != nil {
		return nil, fmt.Errorf("demographics: age group: %w", err)
	}
	sort.SliceStable(d.ByAgeGroup, func(i, j int) bool { return d.ByAgeGroup[i].Key < d.ByAgeGroup[j].Key })

	d.ByGender, err = s.repo.Orders().DemographicGroups(ctx, p, entity.DimensionGender)
	if err != nil {
		return nil, fmt.Errorf("demographics: gender: %w", err)
	}
	d.ByDevice, err = s.repo.Orders().DemographicGroups(ctx, p, entity.DimensionDevice)
	if err != nil {
		return nil, fmt.Errorf("demographics: device: %w", err)
	}
	d.ByReferral, err = s.repo.Orders().DemographicGroups(ctx, p, entity.DimensionReferral)
	if err != nil {
		return nil, fmt.Errorf("demographics: referral: %w", err)
	}
	sort.SliceStable(d.ByReferral, func(i, j int) bool {
		return d.ByReferral[i].TotalSpent.GreaterThan(d.ByReferral[j].TotalSpent)
	})

	return d, nil
}

// SalesForecast projects the next three months from the trailing year of
// completed-order monthly totals before asOf.
func (s *Service) SalesForecast(ctx context.Context, asOf time.Time) ([]entity.SalesPoint, error) {
	p := completed(entity.OrderPredicate{
		Range: entity.TimeRange{From: asOf.AddDate(-1, 0, 0), To: asOf},
	})
	history, err := s.repo.Orders().RevenueByMonth(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("sales forecast: %w", err)
	}
	return Forecast(history), nil
}

// ProductPerformance ranks products by window revenue and derives the
// turnover and flat-cost margin heuristics against current live stock.
func (s *Service) ProductPerformance(ctx context.Context, f entity.ReportFilter) ([]entity.ProductPerformance, error) {
	sales, err := s.repo.Orders().ProductSales(ctx, completed(f.Orders), f.Products, 0)
	if err != nil {
		return nil, fmt.Errorf("product performance: sales: %w", err)
	}
	stock, err := s.repo.Products().AllStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("product performance: stock: %w", err)
	}
	stockByID := make(map[int]entity.ProductStock, len(stock))
	for _, st := range stock {
		stockByID[st.ID] = st
	}

	out := make([]entity.ProductPerformance, 0, len(sales))
	for _, sl := range sales {
		st := stockByID[sl.ProductID]
		out = append(out, buildPerformance(sl, st))
	}
	return out, nil
}

func buildPerformance(s entity.ProductSales, st entity.ProductStock) entity.ProductPerformance {
	p := entity.ProductPerformance{
		ProductID:    s.ProductID,
		Title:        s.Title,
		Category:     s.Category,
		Origin:       s.Origin,
		Brand:        s.Brand,
		TotalSold:    s.TotalSold,
		TotalRevenue: s.TotalRevenue,
		OrderCount:   s.OrderCount,
		Inventory:    st.Inventory,
		Price:        s.Price,
		IsAvailable:  st.IsAvailable,
	}
	if s.OrderCount > 0 {
		p.AvgOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.OrderCount)))
	}
	if denom := st.Inventory + s.TotalSold; denom > 0 {
		p.TurnoverRate = decimal.NewFromInt(int64(s.TotalSold)).Div(decimal.NewFromInt(int64(denom)))
	}
	if s.TotalRevenue.GreaterThan(decimal.Zero) {
		// flat 70% cost of the current live price; a heuristic, not a cost model
		cost := decimal.NewFromInt(int64(s.TotalSold)).Mul(s.Price).Mul(costRatio)
		p.ProfitMargin = s.TotalRevenue.Sub(cost).Div(s.TotalRevenue).Mul(decimal.NewFromInt(100))
	}
	return p
}

// costRatio is the assumed flat cost share of the live price.
var costRatio = decimal.NewFromFloat(0.7)

// InventoryAnalysis classifies the whole catalog by restock urgency using
// the trailing 30 days of completed sales before asOf.
func (s *Service) InventoryAnalysis(ctx context.Context, asOf time.Time) (*entity.InventoryReport, error) {
	stock, err := s.repo.Products().AllStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory analysis: stock: %w", err)
	}
	units, err := s.repo.Orders().UnitsSoldByProduct(ctx, completed(entity.OrderPredicate{
		Range: entity.TimeRange{From: asOf.AddDate(0, 0, -velocityWindowDays), To: asOf},
	}))
	if err != nil {
		return nil, fmt.Errorf("inventory analysis: units sold: %w", err)
	}
	report := AssessInventory(stock, units)
	return &report, nil
}

// CustomerCohorts runs the retention analysis over the full order ledger.
func (s *Service) CustomerCohorts(ctx context.Context) ([]entity.Cohort, error) {
	orders, err := s.repo.Orders().CustomerOrders(ctx, entity.OrderPredicate{})
	if err != nil {
		return nil, fmt.Errorf("customer cohorts: %w", err)
	}
	return BuildCohorts(orders), nil
}

// ProductsWithSales lists one catalog page zipped with each product's
// lifetime completed-order sales figures.
func (s *Service) ProductsWithSales(ctx context.Context, f entity.CatalogFilter, sortBy entity.SortFactor, order entity.OrderFactor, page, limit int) (*entity.ProductListing, error) {
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("%w: page %d, limit %d", ErrInvalidPagination, page, limit)
	}

	products, total, err := s.repo.Products().GetProductsPaged(ctx, f, sortBy, order, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("products with sales: %w", err)
	}

	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	figures, err := s.repo.Orders().SalesFigures(ctx, completed(entity.OrderPredicate{}), ids)
	if err != nil {
		return nil, fmt.Errorf("products with sales: figures: %w", err)
	}

	withSales := make([]entity.ProductWithSales, 0, len(products))
	for _, p := range products {
		fig := figures[p.ID]
		withSales = append(withSales, entity.ProductWithSales{
			Product:   p,
			TotalSold: fig.TotalSold,
			Revenue:   fig.Revenue,
			LastSold:  fig.LastSold,
		})
	}

	return &entity.ProductListing{
		Products:   withSales,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
		Page:       page,
	}, nil
}

// ExportSales returns the line-item export rows. All order statuses are
// included. Serialization is left to the caller so the transport commits to
// a CSV response only after the read has succeeded.
func (s *Service) ExportSales(ctx context.Context, f entity.ReportFilter) ([]entity.ExportRow, error) {
	p := f.Orders
	p.Status = ""
	rows, err := s.repo.Orders().ExportRows(ctx, p, f.Products)
	if err != nil {
		return nil, fmt.Errorf("export sales: %w", err)
	}
	return rows, nil
}
