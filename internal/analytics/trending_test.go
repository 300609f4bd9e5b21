package analytics

import (
	"testing"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendingScoreWeighsOrderCount(t *testing.T) {
	// one order of ten units loses to ten orders of one unit
	bulk := TrendingScore(10, 1)
	spread := TrendingScore(10, 10)
	assert.Greater(t, spread, bulk)

	// strictly increasing in order count for fixed units
	prev := TrendingScore(7, 0)
	for orders := 1; orders <= 12; orders++ {
		score := TrendingScore(7, orders)
		assert.Greater(t, score, prev)
		prev = score
	}
}

func TestTrendingScoreExactValue(t *testing.T) {
	assert.InDelta(t, 22.5, TrendingScore(10, 2), 0.0001) // 10 * 1.5^2
}

func TestRankTrending(t *testing.T) {
	sales := []entity.ProductSales{
		{ProductID: 1, TotalSold: 10, OrderCount: 1},
		{ProductID: 2, TotalSold: 4, OrderCount: 4},
		{ProductID: 3, TotalSold: 2, OrderCount: 8},
	}

	ranked := RankTrending(sales, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, 3, ranked[0].ProductID)
	assert.Equal(t, 2, ranked[1].ProductID)
	assert.Greater(t, ranked[0].TrendingScore, ranked[1].TrendingScore)
}

func TestRankTrendingNoLimit(t *testing.T) {
	sales := []entity.ProductSales{
		{ProductID: 1, TotalSold: 1, OrderCount: 1},
		{ProductID: 2, TotalSold: 1, OrderCount: 2},
	}
	assert.Len(t, RankTrending(sales, 0), 2)
}
