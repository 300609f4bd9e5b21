package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/desimart/storefront-manager/internal/entity"
)

// exportTimeLayout is the date format of the Order Date column.
const exportTimeLayout = "2006-01-02 15:04:05"

// exportHeader is the external CSV contract: human-readable titles, fixed
// order, one row per line item.
var exportHeader = []string{
	"Order ID",
	"Customer Name",
	"Customer Email",
	"Order Date",
	"Product ID",
	"Product Title",
	"Category",
	"Origin",
	"Quantity",
	"Price",
	"Total",
	"Order Status",
	"Payment Status",
	"Country",
	"State",
	"City",
}

// WriteCSV serializes export rows as UTF-8 CSV, header row included.
func WriteCSV(w io.Writer, rows []entity.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.OrderUUID,
			r.CustomerName,
			r.CustomerEmail,
			r.OrderDate.Format(exportTimeLayout),
			strconv.Itoa(r.ProductID),
			r.ProductTitle,
			r.ProductCategory,
			r.ProductOrigin,
			strconv.Itoa(r.Quantity),
			r.UnitPrice.StringFixed(2),
			r.LineTotal.StringFixed(2),
			r.Status,
			r.PaymentStatus,
			r.ShippingCountry,
			r.ShippingState,
			r.ShippingCity,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
