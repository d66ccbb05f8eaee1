package calculator

import (
	"math"

	"github.com/mmynk/railstats/internal/models"
)

// Discount multipliers, applied in this order.
const (
	StudentMultiplier  = 0.8
	MilitaryMultiplier = 0.5
	KidMultiplier      = 0.7
)

// ComputePrice turns a base fare into the final ticket price.
//
// Algorithm:
// - start from the base fare
// - student: ×0.8, then military: ×0.5, then kid: ×0.7
// - every flag is checked independently, so discounts stack multiplicatively
// - round to 2 decimal places
//
// baseFare must be the original, undiscounted fare. Feeding a previously
// computed price back in discounts it a second time.
func ComputePrice(baseFare float64, flags models.DiscountFlags) float64 {
	price := baseFare
	if flags.IsStudent {
		price *= StudentMultiplier
	}
	if flags.IsMilitary {
		price *= MilitaryMultiplier
	}
	if flags.IsKid {
		price *= KidMultiplier
	}
	return Round2(price)
}

// Round2 rounds v to 2 decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
