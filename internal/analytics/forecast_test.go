package analytics

import (
	"testing"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y, m int, sales float64, orders int) entity.MonthBucket {
	return entity.MonthBucket{
		Year:       y,
		Month:      m,
		TotalSales: decimal.NewFromFloat(sales),
		OrderCount: orders,
	}
}

func TestForecastGrowthProjection(t *testing.T) {
	history := []entity.MonthBucket{
		month(2024, 1, 100, 1),
		month(2024, 2, 150, 1),
		month(2024, 3, 120, 1),
	}

	points := Forecast(history)
	require.Len(t, points, 6)

	for i := 0; i < 3; i++ {
		assert.False(t, points[i].IsForecast)
	}
	for i := 3; i < 6; i++ {
		assert.True(t, points[i].IsForecast)
	}

	// growth rate (120-100)/100 = 0.20, avg = 123.33
	april := points[3]
	assert.Equal(t, 2024, april.Year)
	assert.Equal(t, 4, april.Month)
	sales, _ := april.TotalSales.Float64()
	assert.InDelta(t, 148.0, sales, 0.01)

	may := points[4]
	sales, _ = may.TotalSales.Float64()
	assert.InDelta(t, 172.67, sales, 0.01)
}

func TestForecastRequiresThreeMonths(t *testing.T) {
	history := []entity.MonthBucket{
		month(2024, 1, 100, 1),
		month(2024, 2, 150, 2),
	}

	points := Forecast(history)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.False(t, p.IsForecast)
	}
}

func TestForecastZeroBaselineGrowth(t *testing.T) {
	history := []entity.MonthBucket{
		month(2024, 1, 0, 0),
		month(2024, 2, 90, 3),
		month(2024, 3, 60, 2),
	}

	points := Forecast(history)
	require.Len(t, points, 6)

	// growth must be 0, not infinity: every projection equals the average
	for i := 3; i < 6; i++ {
		sales, _ := points[i].TotalSales.Float64()
		assert.InDelta(t, 50.0, sales, 0.01)
	}
}

func TestForecastYearRollover(t *testing.T) {
	history := []entity.MonthBucket{
		month(2024, 9, 100, 1),
		month(2024, 10, 100, 1),
		month(2024, 11, 100, 1),
	}

	points := Forecast(history)
	require.Len(t, points, 6)

	assert.Equal(t, 2024, points[3].Year)
	assert.Equal(t, 12, points[3].Month)
	assert.Equal(t, 2025, points[4].Year)
	assert.Equal(t, 1, points[4].Month)
	assert.Equal(t, 2025, points[5].Year)
	assert.Equal(t, 2, points[5].Month)
}

func TestForecastEmptyHistory(t *testing.T) {
	assert.Empty(t, Forecast(nil))
}
