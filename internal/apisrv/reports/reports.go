// Package reports exposes the analytics engine over HTTP. Each handler
// parses and validates one report's filter set, runs the engine and writes a
// JSON envelope; the CSV export streams a file instead.
package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"log/slog"

	v "github.com/asaskevich/govalidator"
	"github.com/desimart/storefront-manager/internal/analytics"
	"github.com/desimart/storefront-manager/internal/dependency"
	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Server implements handlers for the report endpoints.
type Server struct {
	svc *analytics.Service
	now func() time.Time
}

// New creates a new server with report handlers.
func New(repo dependency.Repository) *Server {
	return &Server{
		svc: analytics.New(repo),
		now: time.Now,
	}
}

// Routes mounts every report endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/stats", s.handleDashboard)
	r.Get("/products/top-selling", s.handleTopSelling)
	r.Get("/products/trending", s.handleTrending)
	r.Get("/products/sales", s.handleProductsWithSales)
	r.Get("/analytics/sales-by-region", s.handleSalesByRegion)
	r.Get("/analytics/sales-by-category", s.handleSalesByCategory)
	r.Get("/analytics/customer-demographics", s.handleDemographics)
	r.Get("/analytics/sales-forecast", s.handleSalesForecast)
	r.Get("/analytics/product-performance", s.handleProductPerformance)
	r.Get("/analytics/inventory", s.handleInventory)
	r.Get("/analytics/customer-cohorts", s.handleCohorts)
	r.Get("/export/sales", s.handleExportSales)
}

type envelope struct {
	Success bool `json:"success"`
	Count   *int `json:"count,omitempty"`
	Data    any  `json:"data"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Report  string `json:"report,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, count int, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &count, Data: data})
}

// writeError classifies engine failures: invalid input is the client's
// fault, everything else is a single opaque report failure.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, report string, err error) {
	if errors.Is(err, analytics.ErrInvalidDate) ||
		errors.Is(err, analytics.ErrInvalidFilter) ||
		errors.Is(err, analytics.ErrInvalidPagination) {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "invalid request", Report: report, Error: err.Error()})
		return
	}
	slog.Default().ErrorContext(r.Context(), "report failed",
		slog.String("report", report),
		slog.String("query", r.URL.RawQuery),
		slog.String("err", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, errorBody{Message: "report unavailable", Report: report})
}

func (s *Server) filterFromRequest(r *http.Request) (entity.ReportFilter, error) {
	q := r.URL.Query()
	return analytics.BuildFilter(analytics.FilterParams{
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Category:  q.Get("category"),
		Origin:    q.Get("origin"),
		Country:   q.Get("country"),
		Status:    q.Get("status"),
	})
}

// asOf reads the explicit as-of instant of trailing-window reports,
// defaulting to the current time.
func (s *Server) asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("asOf")
	if raw == "" {
		return s.now(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: asOf %q", analytics.ErrInvalidDate, raw)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s %q", analytics.ErrInvalidPagination, name, raw)
	}
	return n, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	asOf, err := s.asOf(r)
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	compare := r.URL.Query().Get("compareWithPrevious") == "true"

	stats, err := s.svc.Dashboard(r.Context(), asOf, f, compare)
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	writeData(w, stats)
}

func (s *Server) handleTopSelling(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "top-selling", err)
		return
	}
	limit, err := intParam(r, "limit", 10)
	if err != nil {
		s.writeError(w, r, "top-selling", err)
		return
	}

	sales, err := s.svc.TopSellers(r.Context(), f, limit)
	if err != nil {
		s.writeError(w, r, "top-selling", err)
		return
	}
	writeList(w, len(sales), sales)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "trending", err)
		return
	}
	asOf, err := s.asOf(r)
	if err != nil {
		s.writeError(w, r, "trending", err)
		return
	}
	days, err := intParam(r, "days", 30)
	if err != nil {
		s.writeError(w, r, "trending", err)
		return
	}
	limit, err := intParam(r, "limit", 10)
	if err != nil {
		s.writeError(w, r, "trending", err)
		return
	}

	trending, err := s.svc.Trending(r.Context(), asOf, days, limit, f.Products)
	if err != nil {
		s.writeError(w, r, "trending", err)
		return
	}
	writeList(w, len(trending), trending)
}

func (s *Server) handleProductsWithSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(r, "page", 1)
	if err != nil {
		s.writeError(w, r, "products-with-sales", err)
		return
	}
	limit, err := intParam(r, "limit", 20)
	if err != nil {
		s.writeError(w, r, "products-with-sales", err)
		return
	}

	order := entity.Ascending
	switch q.Get("order") {
	case "", "desc":
		order = entity.Descending
	case "asc":
	default:
		s.writeError(w, r, "products-with-sales",
			fmt.Errorf("%w: order %q", analytics.ErrInvalidFilter, q.Get("order")))
		return
	}

	sortBy := entity.SortCreatedAt
	if raw := q.Get("sort"); raw != "" {
		if !entity.IsValidSortFactor(raw) {
			s.writeError(w, r, "products-with-sales",
				fmt.Errorf("%w: sort %q", analytics.ErrInvalidFilter, raw))
			return
		}
		sortBy = entity.SortFactor(raw)
	}

	stock := entity.StockAny
	if raw := q.Get("inStock"); raw != "" {
		if !v.IsIn(raw, string(entity.StockAny), string(entity.StockIn), string(entity.StockOut)) {
			s.writeError(w, r, "products-with-sales",
				fmt.Errorf("%w: inStock %q", analytics.ErrInvalidFilter, raw))
			return
		}
		stock = entity.StockState(raw)
	}

	cf := entity.CatalogFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Origin:   q.Get("origin"),
		Stock:    stock,
	}
	if raw := q.Get("minPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			s.writeError(w, r, "products-with-sales",
				fmt.Errorf("%w: minPrice %q", analytics.ErrInvalidFilter, raw))
			return
		}
		cf.MinPrice = decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if raw := q.Get("maxPrice"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			s.writeError(w, r, "products-with-sales",
				fmt.Errorf("%w: maxPrice %q", analytics.ErrInvalidFilter, raw))
			return
		}
		cf.MaxPrice = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	listing, err := s.svc.ProductsWithSales(r.Context(), cf, sortBy, order, page, limit)
	if err != nil {
		s.writeError(w, r, "products-with-sales", err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success     bool                      `json:"success"`
		Count       int                       `json:"count"`
		Total       int                       `json:"total"`
		TotalPages  int                       `json:"totalPages"`
		CurrentPage int                       `json:"currentPage"`
		Data        []entity.ProductWithSales `json:"data"`
	}{
		Success:     true,
		Count:       len(listing.Products),
		Total:       listing.Total,
		TotalPages:  listing.TotalPages,
		CurrentPage: listing.Page,
		Data:        listing.Products,
	})
}

func (s *Server) handleSalesByRegion(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "sales-by-region", err)
		return
	}
	region, err := s.svc.SalesByRegion(r.Context(), f)
	if err != nil {
		s.writeError(w, r, "sales-by-region", err)
		return
	}
	writeData(w, region)
}

func (s *Server) handleSalesByCategory(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "sales-by-category", err)
		return
	}
	categories, err := s.svc.SalesByCategory(r.Context(), f)
	if err != nil {
		s.writeError(w, r, "sales-by-category", err)
		return
	}
	writeData(w, categories)
}

func (s *Server) handleDemographics(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "customer-demographics", err)
		return
	}
	demographics, err := s.svc.CustomerDemographics(r.Context(), f)
	if err != nil {
		s.writeError(w, r, "customer-demographics", err)
		return
	}
	writeData(w, demographics)
}

func (s *Server) handleSalesForecast(w http.ResponseWriter, r *http.Request) {
	asOf, err := s.asOf(r)
	if err != nil {
		s.writeError(w, r, "sales-forecast", err)
		return
	}
	points, err := s.svc.SalesForecast(r.Context(), asOf)
	if err != nil {
		s.writeError(w, r, "sales-forecast", err)
		return
	}
	writeList(w, len(points), points)
}

func (s *Server) handleProductPerformance(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "product-performance", err)
		return
	}
	performance, err := s.svc.ProductPerformance(r.Context(), f)
	if err != nil {
		s.writeError(w, r, "product-performance", err)
		return
	}
	writeList(w, len(performance), performance)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	asOf, err := s.asOf(r)
	if err != nil {
		s.writeError(w, r, "inventory", err)
		return
	}
	report, err := s.svc.InventoryAnalysis(r.Context(), asOf)
	if err != nil {
		s.writeError(w, r, "inventory", err)
		return
	}
	writeData(w, report)
}

func (s *Server) handleCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.svc.CustomerCohorts(r.Context())
	if err != nil {
		s.writeError(w, r, "customer-cohorts", err)
		return
	}
	writeList(w, len(cohorts), cohorts)
}

func (s *Server) handleExportSales(w http.ResponseWriter, r *http.Request) {
	f, err := s.filterFromRequest(r)
	if err != nil {
		s.writeError(w, r, "export-sales", err)
		return
	}

	rows, err := s.svc.ExportSales(r.Context(), f)
	if err != nil {
		s.writeError(w, r, "export-sales", err)
		return
	}

	filename := fmt.Sprintf("sales-export-%d.csv", s.now().Unix())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := analytics.WriteCSV(w, rows); err != nil {
		// the stream has started, all we can do is log and cut it
		slog.Default().ErrorContext(r.Context(), "export serialization failed",
			slog.String("query", r.URL.RawQuery),
			slog.String("err", err.Error()),
		)
		return
	}
	slog.Default().InfoContext(r.Context(), "sales export served",
		slog.Int("rows", len(rows)),
		slog.String("filename", filename),
	)
}
