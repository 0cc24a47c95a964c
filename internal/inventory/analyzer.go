package inventory

import (
	"context"
	"fmt"
	"math"

	"github.com/movewise/movewise/internal/errors"
	"github.com/movewise/movewise/internal/logging"
)

// Cost model constants.
const (
	// movingRatePerCubicFoot is the fixed moving rate in dollars per cubic foot.
	movingRatePerCubicFoot = 1.5
	// resaleFraction estimates the used price of an item as a fraction of
	// its new replacement price.
	resaleFraction = 0.4
	// resaleFallback is the flat resale estimate used when no positive
	// replacement price is known.
	resaleFallback = 50.0
)

// Estimate is a price and volume estimate for a single item.
type Estimate struct {
	ReplacementPrice float64
	Volume           float64
}

// Estimator produces price and volume estimates for items. Implementations
// must not fail: on any upstream error they return a deterministic fallback.
type Estimator interface {
	Estimate(ctx context.Context, item Item) Estimate
}

// Params are the per-run parameters the analyzer needs from the move context.
type Params struct {
	DistanceMiles float64
	Budget        float64
}

// Analysis is the result of analyzing a full inventory: every item decided,
// plus the cost totals the budget check runs on.
type Analysis struct {
	Items []Item

	TotalMovingCost      float64
	TotalReplacementCost float64
	TotalSellingRevenue  float64
	NetCost              float64
	TotalSavings         float64

	// TotalVolume is the combined volume of items that will actually be
	// hauled; quote generation consumes it.
	TotalVolume float64

	WithinBudget bool

	MoveCount    int
	ReplaceCount int
	DonateCount  int
}

// Summary renders a short human-readable digest of the analysis.
func (a *Analysis) Summary() string {
	return fmt.Sprintf(
		"%d items analyzed: move %d ($%.2f), sell & replace %d (cost $%.2f, revenue $%.2f), donate %d; net cost $%.2f, savings $%.2f",
		len(a.Items), a.MoveCount, a.TotalMovingCost,
		a.ReplaceCount, a.TotalReplacementCost, a.TotalSellingRevenue,
		a.DonateCount, a.NetCost, a.TotalSavings,
	)
}

// Analyzer runs the decision engine over a full inventory.
type Analyzer struct {
	estimator Estimator
	log       *logging.Logger
}

// NewAnalyzer creates an Analyzer backed by the given estimator.
func NewAnalyzer(estimator Estimator, log *logging.Logger) *Analyzer {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Analyzer{estimator: estimator, log: log}
}

// Analyze estimates, decides, and totals every item in the inventory.
// It fails only on an empty inventory; per-item estimation failures are
// absorbed by the estimator's fallback, so a non-empty inventory always
// analyzes completely.
func (a *Analyzer) Analyze(ctx context.Context, items []Item, p Params) (*Analysis, error) {
	if len(items) == 0 {
		return nil, errors.ErrEmptyInventory
	}

	analysis := &Analysis{Items: make([]Item, len(items))}

	var totalMoving, totalReplacement, totalSelling, totalSavings, totalVolume float64

	for idx, item := range items {
		est := a.estimator.Estimate(ctx, item)

		item.Volume = est.Volume
		item.ReplacementPrice = round2(est.ReplacementPrice)
		item.MovingCost = MovingCost(est.Volume)
		if est.ReplacementPrice > 0 {
			item.ResalePrice = round2(est.ReplacementPrice * resaleFraction)
		} else {
			item.ResalePrice = resaleFallback
		}

		decision := Decide(Economics{
			ReplacementPrice: item.ReplacementPrice,
			MovingCost:       item.MovingCost,
			ResalePrice:      item.ResalePrice,
		}, p.DistanceMiles)

		item.Disposition = decision.Disposition
		item.Reasoning = decision.Reasoning
		item.Savings = round2(decision.Savings)

		a.log.Debug("item analyzed",
			"item", item.Name,
			"disposition", string(item.Disposition),
			"moving_cost", item.MovingCost,
			"replacement_price", item.ReplacementPrice,
			"savings", item.Savings)

		switch item.Disposition {
		case DispositionMove:
			totalMoving += item.MovingCost
			totalVolume += item.Volume
			analysis.MoveCount++
		case DispositionSellAndReplace:
			totalReplacement += item.ReplacementPrice
			totalSelling += item.ResalePrice
			analysis.ReplaceCount++
		case DispositionDonate:
			analysis.DonateCount++
		}
		totalSavings += item.Savings

		analysis.Items[idx] = item
	}

	analysis.TotalMovingCost = round2(totalMoving)
	analysis.TotalReplacementCost = round2(totalReplacement)
	analysis.TotalSellingRevenue = round2(totalSelling)
	analysis.NetCost = round2(totalMoving + totalReplacement - totalSelling)
	analysis.TotalSavings = round2(totalSavings)
	analysis.TotalVolume = round2(totalVolume)
	analysis.WithinBudget = analysis.NetCost <= p.Budget

	a.log.Info("inventory analyzed",
		"items", len(analysis.Items),
		"net_cost", analysis.NetCost,
		"within_budget", analysis.WithinBudget)

	return analysis, nil
}

// MovingCost prices hauling the given packed volume.
func MovingCost(volume float64) float64 {
	return round2(volume * movingRatePerCubicFoot)
}

// round2 rounds to cents. Totals are currency; keeping them rounded avoids
// drift in the net-cost identity checked downstream.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
