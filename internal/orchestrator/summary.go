package orchestrator

import "github.com/movewise/movewise/internal/inventory"

// Summary is the complete plan a run produces. It is the contract any
// presentation layer consumes.
type Summary struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`

	MoveDetails  MoveDetails  `json:"move_details"`
	ItemSummary  ItemSummary  `json:"item_summary"`
	CostAnalysis CostAnalysis `json:"cost_analysis"`

	ItemsToMove    []MoveProjection    `json:"items_to_move"`
	ItemsToReplace []ReplaceProjection `json:"items_to_replace"`
	ItemsToDonate  []DonateProjection  `json:"items_to_donate"`

	Timeline  []string   `json:"timeline"`
	Checklist []string   `json:"checklist"`
	Log       []LogEntry `json:"execution_log"`

	// CurrentState is the terminal state snapshot.
	CurrentState map[string]any `json:"current_state"`
}

// MoveDetails echoes the move parameters the plan was built for.
type MoveDetails struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Distance float64 `json:"distance"`
	Budget   float64 `json:"budget"`
}

// ItemSummary counts items per disposition.
type ItemSummary struct {
	TotalItems     int `json:"total_items"`
	ItemsToMove    int `json:"items_to_move"`
	ItemsToReplace int `json:"items_to_replace"`
	ItemsToDonate  int `json:"items_to_donate"`
}

// CostAnalysis is the full cost breakdown with the budget check.
type CostAnalysis struct {
	TotalMovingCost      float64 `json:"total_moving_cost"`
	TotalReplacementCost float64 `json:"total_replacement_cost"`
	TotalSellingRevenue  float64 `json:"total_selling_revenue"`
	NetCost              float64 `json:"net_cost"`
	TotalSavings         float64 `json:"total_savings"`
	WithinBudget         bool    `json:"within_budget"`
	BudgetRemaining      float64 `json:"budget_remaining"`
}

// MoveProjection is the reduced view of an item being moved.
type MoveProjection struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MovingCost  float64 `json:"moving_cost"`
	Reasoning   string  `json:"reasoning"`
}

// ReplaceProjection is the reduced view of an item being sold and replaced.
// SellFor is the marketplace list price when one was assigned; the decision
// totals use the conservative resale estimate instead.
type ReplaceProjection struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	SellFor     float64 `json:"sell_for"`
	BuyNewFor   float64 `json:"buy_new_for"`
	NetCost     float64 `json:"net_cost"`
	Reasoning   string  `json:"reasoning"`
}

// DonateProjection is the reduced view of an item being donated.
type DonateProjection struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// summarize composes the final plan from the terminal state.
func (o *Orchestrator) summarize() *Summary {
	s := o.state

	summary := &Summary{
		SessionID: s.SessionID,
		Status:    statusSuccess,
		MoveDetails: MoveDetails{
			From:     s.Origin,
			To:       s.Destination,
			Distance: s.DistanceMiles,
			Budget:   s.Budget,
		},
		CostAnalysis: CostAnalysis{
			TotalMovingCost:      s.TotalMovingCost,
			TotalReplacementCost: s.TotalReplacementCost,
			TotalSellingRevenue:  s.TotalSellingRevenue,
			NetCost:              s.NetCost,
			TotalSavings:         s.TotalSavings,
			WithinBudget:         s.WithinBudget,
			BudgetRemaining:      s.Budget - s.NetCost,
		},
		Timeline:     s.Timeline,
		Checklist:    s.Checklist,
		Log:          o.executionLog,
		CurrentState: s.snapshot(),
	}

	for _, item := range s.Inventory {
		switch item.Disposition {
		case inventory.DispositionMove:
			summary.ItemsToMove = append(summary.ItemsToMove, MoveProjection{
				Name:        item.Name,
				Description: item.Description,
				MovingCost:  item.MovingCost,
				Reasoning:   item.Reasoning,
			})
		case inventory.DispositionSellAndReplace:
			sellFor := item.ListPrice
			if sellFor <= 0 {
				sellFor = item.ResalePrice
			}
			summary.ItemsToReplace = append(summary.ItemsToReplace, ReplaceProjection{
				Name:        item.Name,
				Description: item.Description,
				SellFor:     sellFor,
				BuyNewFor:   item.ReplacementPrice,
				NetCost:     item.ReplacementPrice - sellFor,
				Reasoning:   item.Reasoning,
			})
		case inventory.DispositionDonate:
			summary.ItemsToDonate = append(summary.ItemsToDonate, DonateProjection{
				Name:        item.Name,
				Description: item.Description,
			})
		}
	}

	summary.ItemSummary = ItemSummary{
		TotalItems:     len(s.Inventory),
		ItemsToMove:    len(summary.ItemsToMove),
		ItemsToReplace: len(summary.ItemsToReplace),
		ItemsToDonate:  len(summary.ItemsToDonate),
	}

	return summary
}
