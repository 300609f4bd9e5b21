package analytics

import (
	"math"
	"sort"

	"github.com/desimart/storefront-manager/internal/entity"
)

// trendingBase is the exponent base of the recency weighting. Distinct
// recent orders dominate raw quantity on purpose: ten orders of one unit
// outscore one order of ten units.
const trendingBase = 1.5

// TrendingScore combines window units sold with the distinct orders that
// produced them: totalSold * 1.5^orderCount.
func TrendingScore(totalSold, orderCount int) float64 {
	return float64(totalSold) * math.Pow(trendingBase, float64(orderCount))
}

// RankTrending scores window sales rows and returns the top products by
// score descending. The sort is stable, so revenue-ranked input breaks ties.
func RankTrending(sales []entity.ProductSales, limit int) []entity.TrendingProduct {
	ranked := make([]entity.TrendingProduct, 0, len(sales))
	for _, s := range sales {
		ranked = append(ranked, entity.TrendingProduct{
			ProductSales:  s,
			TrendingScore: TrendingScore(s.TotalSold, s.OrderCount),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TrendingScore > ranked[j].TrendingScore
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
