// Package analytics derives reports from the order and product ledgers. All
// computations are read-only and every trailing-window report takes an
// explicit as-of instant, so the whole package is a pure function of ledger
// state and its inputs.
package analytics

import (
	"fmt"
	"time"

	"github.com/desimart/storefront-manager/internal/entity"
)

// dateLayout is the accepted format of startDate/endDate query values.
const dateLayout = "2006-01-02"

// FilterParams are the raw, untrusted filter values of a report request.
type FilterParams struct {
	StartDate string
	EndDate   string
	Category  string
	Origin    string
	Country   string
	Status    string
}

// BuildFilter normalizes raw request values into ledger predicates. The date
// restriction activates only when both bounds are present; endDate is
// inclusive through the end of its calendar day, so the resulting range is
// half-closed at the start of the following day.
func BuildFilter(p FilterParams) (entity.ReportFilter, error) {
	var f entity.ReportFilter

	if p.StartDate != "" && p.EndDate != "" {
		start, err := time.Parse(dateLayout, p.StartDate)
		if err != nil {
			return f, fmt.Errorf("%w: startDate %q", ErrInvalidDate, p.StartDate)
		}
		end, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return f, fmt.Errorf("%w: endDate %q", ErrInvalidDate, p.EndDate)
		}
		f.Orders.Range = entity.TimeRange{
			From: start,
			To:   end.AddDate(0, 0, 1),
		}
	}

	if p.Status != "" {
		if !entity.IsValidOrderStatus(p.Status) {
			return f, fmt.Errorf("%w: status %q", ErrInvalidFilter, p.Status)
		}
		f.Orders.Status = entity.OrderStatusName(p.Status)
	}

	f.Orders.Country = p.Country
	f.Products.Category = p.Category
	f.Products.Origin = p.Origin
	return f, nil
}
