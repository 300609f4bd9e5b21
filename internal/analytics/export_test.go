package analytics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	rows := []entity.ExportRow{
		{
			OrderUUID:       "ord-1",
			CustomerName:    "Asha Rao",
			CustomerEmail:   "asha@example.com",
			OrderDate:       time.Date(2024, 1, 5, 14, 30, 9, 0, time.UTC),
			ProductID:       7,
			ProductTitle:    "Cardamom Pods",
			ProductCategory: "spices",
			ProductOrigin:   "IN",
			Quantity:        2,
			UnitPrice:       decimal.NewFromFloat(12.50),
			LineTotal:       decimal.NewFromFloat(25.00),
			Status:          "completed",
			PaymentStatus:   "paid",
			ShippingCountry: "US",
			ShippingState:   "CA",
			ShippingCity:    "Fremont",
		},
	}

	var buf bytes.Buffer
	err := WriteCSV(&buf, rows)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t,
		"Order ID,Customer Name,Customer Email,Order Date,Product ID,Product Title,Category,Origin,Quantity,Price,Total,Order Status,Payment Status,Country,State,City",
		lines[0])
	assert.Equal(t,
		"ord-1,Asha Rao,asha@example.com,2024-01-05 14:30:09,7,Cardamom Pods,spices,IN,2,12.50,25.00,completed,paid,US,CA,Fremont",
		lines[1])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 1) // header only
}
