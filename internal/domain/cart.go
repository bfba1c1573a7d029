package domain

import (
	"fmt"
	"math"
)

// DefaultUnitWeightKg applies to products without a configured weight.
const DefaultUnitWeightKg = 1.0

// CartLine is the part of a cart item the shipping quote needs.
type CartLine struct {
	ProductID string  `json:"productId"`
	Weight    float64 `json:"weight"` // per unit, kg; zero means unset
	Quantity  int     `json:"quantity"`
}

// CartWeight sums unit weight times quantity over the lines.
// An empty or weightless cart ships as a single default unit.
func CartWeight(lines []CartLine) (float64, error) {
	total := 0.0
	for i, l := range lines {
		if l.Quantity < 1 {
			return 0, invalid(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
		if math.IsNaN(l.Weight) || math.IsInf(l.Weight, 0) || l.Weight < 0 {
			return 0, invalid(fmt.Sprintf("items[%d].weight", i), "must be a non-negative number")
		}
		w := l.Weight
		if w == 0 {
			w = DefaultUnitWeightKg
		}
		total += w * float64(l.Quantity)
	}
	if total <= 0 {
		return DefaultUnitWeightKg, nil
	}
	return total, nil
}
