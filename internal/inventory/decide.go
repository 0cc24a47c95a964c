package inventory

import "fmt"

// Decision thresholds. The decision engine is deliberately a fixed-rule
// cost model; these are not configurable at run time.
const (
	// minValueThreshold is the replacement price below which an item is
	// donated outright.
	minValueThreshold = 50.0
	// shortHaulMiles is the distance under which moving is preferred for
	// reasonably-priced items.
	shortHaulMiles = 500.0
	// shortHaulCostFraction caps moving cost relative to replacement price
	// for the short-haul rule.
	shortHaulCostFraction = 0.5
	// materialSavings is the minimum net saving before sell-and-replace
	// beats moving. Below this bar the churn isn't worth it.
	materialSavings = 50.0
	// highValueRatio marks items worth far more than their moving cost.
	highValueRatio = 3.0
	// lowValueRatio marks items of marginal value relative to moving cost.
	lowValueRatio = 1.5
)

// Economics holds the figures the decision engine operates on.
type Economics struct {
	ReplacementPrice float64
	MovingCost       float64
	ResalePrice      float64
}

// Decision is the outcome of the decision engine for a single item.
// Savings is the money avoided relative to the rejected alternative and is
// never negative.
type Decision struct {
	Disposition Disposition
	Reasoning   string
	Savings     float64
}

// Decide maps one item's economics to a disposition. It is a pure function:
// same inputs always produce the same decision.
//
// Rules are evaluated in priority order, first match wins:
//  1. Replacement price under the value floor: donate.
//  2. Short-haul move with reasonable moving cost: move.
//  3. Selling and replacing clears the materiality bar: sell and replace.
//  4. Value ratio tiebreak: far above moving cost moves, marginal value sells.
//  5. Default: move.
func Decide(econ Economics, distanceMiles float64) Decision {
	costToReplace := econ.ReplacementPrice - econ.ResalePrice
	savingsIfReplace := econ.MovingCost - costToReplace

	if econ.ReplacementPrice < minValueThreshold {
		return Decision{
			Disposition: DispositionDonate,
			Reasoning: fmt.Sprintf("Low value item ($%.2f), not worth moving or selling",
				econ.ReplacementPrice),
			Savings: econ.MovingCost, // the moving cost avoided
		}
	}

	if distanceMiles < shortHaulMiles && econ.MovingCost < econ.ReplacementPrice*shortHaulCostFraction {
		return Decision{
			Disposition: DispositionMove,
			Reasoning: fmt.Sprintf("Short move (%.0f mi), moving cost ($%.2f) reasonable vs replacement ($%.2f)",
				distanceMiles, econ.MovingCost, econ.ReplacementPrice),
		}
	}

	if savingsIfReplace > materialSavings {
		return Decision{
			Disposition: DispositionSellAndReplace,
			Reasoning: fmt.Sprintf("Save $%.2f by selling ($%.2f) and buying new ($%.2f) vs moving ($%.2f)",
				savingsIfReplace, econ.ResalePrice, econ.ReplacementPrice, econ.MovingCost),
			Savings: savingsIfReplace,
		}
	}

	var valueRatio float64
	if econ.MovingCost > 0 {
		valueRatio = econ.ReplacementPrice / econ.MovingCost
	}

	switch {
	case valueRatio > highValueRatio:
		return Decision{
			Disposition: DispositionMove,
			Reasoning: fmt.Sprintf("High value item ($%.2f), worth moving ($%.2f)",
				econ.ReplacementPrice, econ.MovingCost),
		}
	case valueRatio < lowValueRatio:
		return Decision{
			Disposition: DispositionSellAndReplace,
			Reasoning: fmt.Sprintf("Replacement ($%.2f) cheaper than moving ($%.2f) + selling ($%.2f)",
				econ.ReplacementPrice, econ.MovingCost, econ.ResalePrice),
			Savings: max(0, savingsIfReplace),
		}
	default:
		return Decision{
			Disposition: DispositionMove,
			Reasoning:   fmt.Sprintf("Mid-value item, moving ($%.2f) is reasonable", econ.MovingCost),
		}
	}
}
