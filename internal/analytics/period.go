package analytics

import (
	"github.com/desimart/storefront-manager/internal/entity"
	"github.com/shopspring/decimal"
)

// PreviousWindow shifts a range back by its own duration: a window of
// identical length ending the instant the primary window begins. No
// calendar alignment is attempted.
func PreviousWindow(r entity.TimeRange) entity.TimeRange {
	d := r.To.Sub(r.From)
	return entity.TimeRange{
		From: r.From.Add(-d),
		To:   r.To.Add(-d),
	}
}

// PercentChange is nil unless the previous value is positive; a change from
// zero is undefined, never 0% or infinity.
func PercentChange(current, previous decimal.Decimal) *float64 {
	if !previous.GreaterThan(decimal.Zero) {
		return nil
	}
	pct, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
	return &pct
}

// Compare pairs a scalar aggregate with its previous-window counterpart.
func Compare(current, previous decimal.Decimal) entity.GrowthComparison {
	return entity.GrowthComparison{
		Current:       current,
		Previous:      previous,
		PercentChange: PercentChange(current, previous),
	}
}
