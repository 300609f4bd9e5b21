package analytics

import (
	"math"
	"sort"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
)

const (
	velocityWindowDays = 30
	restockHorizonDays = 45
)

// AssessInventory classifies every catalog product by restock urgency from
// its current stock and trailing-window units sold. unitsSold is keyed by
// product id; absent keys mean no sales in the window.
func AssessInventory(stock []entity.ProductStock, unitsSold map[int]int) entity.InventoryReport {
	items := make([]entity.InventoryItem, 0, len(stock))
	for _, p := range stock {
		items = append(items, assessProduct(p, unitsSold[p.ID]))
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := entity.UrgencyRank(items[i].Urgency), entity.UrgencyRank(items[j].Urgency)
		if ri != rj {
			return ri < rj
		}
		// nil days remaining sorts last within its tier
		if items[i].DaysRemaining == nil {
			return false
		}
		if items[j].DaysRemaining == nil {
			return true
		}
		return *items[i].DaysRemaining < *items[j].DaysRemaining
	})

	summary := entity.InventorySummary{TotalProducts: len(items)}
	for _, it := range items {
		switch {
		case it.CurrentInventory == 0:
			summary.OutOfStock++
		case it.Urgency == entity.UrgencyHigh:
			summary.LowStock++
		}
		if it.Urgency == entity.UrgencyLow {
			summary.HealthyStock++
		}
	}

	return entity.InventoryReport{Items: items, Summary: summary}
}

func assessProduct(p entity.ProductStock, units int) entity.InventoryItem {
	dailySales := float64(units) / velocityWindowDays

	var daysRemaining *int
	if dailySales > 0 {
		d := int(math.Round(float64(p.Inventory) / dailySales))
		daysRemaining = &d
	}

	recommendation, urgency := classify(p.Inventory, daysRemaining)

	qty := int(math.Ceil(dailySales*restockHorizonDays)) - p.Inventory
	if qty < 0 {
		qty = 0
	}

	return entity.InventoryItem{
		ProductID:           p.ID,
		Title:               p.Title,
		Category:            p.Category,
		Origin:              p.Origin,
		CurrentInventory:    p.Inventory,
		DailySales:          decimal.NewFromFloat(dailySales).Round(2),
		DaysRemaining:       daysRemaining,
		Recommendation:      recommendation,
		Urgency:             urgency,
		RecommendedOrderQty: qty,
	}
}

// classify applies the restock ladder in priority order. An empty shelf is
// always out of stock regardless of sales history.
func classify(inventory int, daysRemaining *int) (string, entity.RestockUrgency) {
	switch {
	case inventory == 0:
		return "Out of stock", entity.UrgencyHigh
	case daysRemaining != nil && *daysRemaining <= 7:
		return "Urgent restock needed", entity.UrgencyHigh
	case daysRemaining != nil && *daysRemaining <= 14:
		return "Restock soon", entity.UrgencyMedium
	case daysRemaining != nil && *daysRemaining <= 30:
		return "Consider restocking", entity.UrgencyLow
	case daysRemaining == nil && inventory < 5:
		return "Low inventory", entity.UrgencyMedium
	default:
		return "No action needed", entity.UrgencyLow
	}
}
