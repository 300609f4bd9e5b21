package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
)

// BuildCohorts groups customers by the calendar month of their first order
// and tracks, per whole-month offset since that first purchase, how many
// order events occurred and what they spent. Input must be sorted ascending
// by CreatedAt so the first row per customer is the first purchase.
func BuildCohorts(orders []entity.CustomerOrder) []entity.Cohort {
	type firstPurchase struct {
		key  string
		date time.Time
	}
	first := make(map[string]firstPurchase)
	purchases := make(map[string][]entity.CustomerOrder)
	for _, o := range orders {
		if _, ok := first[o.CustomerEmail]; !ok {
			first[o.CustomerEmail] = firstPurchase{
				key:  fmt.Sprintf("%04d-%02d", o.CreatedAt.Year(), int(o.CreatedAt.Month())),
				date: o.CreatedAt,
			}
		}
		purchases[o.CustomerEmail] = append(purchases[o.CustomerEmail], o)
	}

	type accum struct {
		customers int
		revenue   decimal.Decimal
		retention map[int]int
		spending  map[int]decimal.Decimal
	}
	cohorts := make(map[string]*accum)
	for email, fp := range first {
		c, ok := cohorts[fp.key]
		if !ok {
			c = &accum{
				retention: make(map[int]int),
				spending:  make(map[int]decimal.Decimal),
			}
			cohorts[fp.key] = c
		}
		c.customers++
		for _, o := range purchases[email] {
			offset := wholeMonthsBetween(fp.date, o.CreatedAt)
			c.revenue = c.revenue.Add(o.TotalAmount)
			c.retention[offset]++
			c.spending[offset] = c.spending[offset].Add(o.TotalAmount)
		}
	}

	out := make([]entity.Cohort, 0, len(cohorts))
	for key, c := range cohorts {
		rates := make(map[int]float64, len(c.retention))
		avg := make(map[int]decimal.Decimal, len(c.spending))
		for m, n := range c.retention {
			rates[m] = float64(n) / float64(c.customers) * 100
		}
		for m, amount := range c.spending {
			if n := c.retention[m]; n > 0 {
				avg[m] = amount.Div(decimal.NewFromInt(int64(n)))
			} else {
				avg[m] = decimal.Zero
			}
		}
		out = append(out, entity.Cohort{
			Cohort:           key,
			TotalCustomers:   c.customers,
			TotalRevenue:     c.revenue,
			RetentionByMonth: c.retention,
			RetentionRates:   rates,
			AvgSpending:      avg,
			LTV:              c.revenue.Div(decimal.NewFromInt(int64(c.customers))),
		})
	}

	// newest cohort first
	sort.Slice(out, func(i, j int) bool { return out[i].Cohort > out[j].Cohort })
	return out
}

// wholeMonthsBetween counts complete calendar months from one instant to a
// later one: 0 until the first month anniversary has passed.
func wholeMonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if months > 0 && from.AddDate(0, months, 0).After(to) {
		months--
	}
	return months
}
