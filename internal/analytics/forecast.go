package analytics

import (
	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
)

// forecastMonths is how far ahead the projection extends.
const forecastMonths = 3

// Forecast extends a chronologically ascending monthly history with a
// three-month linear extrapolation. The growth rate is the relative change
// across the trailing three months applied cumulatively per projected month.
// Fewer than three historical points produce no projection at all.
func Forecast(history []entity.MonthBucket) []entity.SalesPoint {
	points := make([]entity.SalesPoint, 0, len(history)+forecastMonths)
	for _, h := range history {
		points = append(points, entity.SalesPoint{
			Year:       h.Year,
			Month:      h.Month,
			TotalSales: h.TotalSales,
			OrderCount: decimal.NewFromInt(int64(h.OrderCount)),
			IsForecast: false,
		})
	}
	if len(history) < 3 {
		return points
	}

	last3 := history[len(history)-3:]
	three := decimal.NewFromInt(3)
	avgSales := last3[0].TotalSales.Add(last3[1].TotalSales).Add(last3[2].TotalSales).Div(three)
	avgOrders := decimal.NewFromInt(int64(last3[0].OrderCount + last3[1].OrderCount + last3[2].OrderCount)).Div(three)

	growthRate := decimal.Zero
	if last3[0].TotalSales.GreaterThan(decimal.Zero) {
		growthRate = last3[2].TotalSales.Sub(last3[0].TotalSales).Div(last3[0].TotalSales)
	}

	year, month := last3[2].Year, last3[2].Month
	for i := 1; i <= forecastMonths; i++ {
		m := month + i
		y := year
		if m > 12 {
			m -= 12
			y++
		}
		factor := decimal.NewFromInt(1).Add(growthRate.Mul(decimal.NewFromInt(int64(i))))
		points = append(points, entity.SalesPoint{
			Year:       y,
			Month:      m,
			TotalSales: avgSales.Mul(factor),
			OrderCount: avgOrders.Mul(factor),
			IsForecast: true,
		})
	}
	return points
}
