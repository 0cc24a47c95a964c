// Package inventory defines the item model and the decision core of the
// relocation planner: the pure decision function that maps one item's
// economics to a disposition, and the analyzer that runs it across a full
// inventory and reconciles the result against a budget.
package inventory

// Disposition is the decided fate of an inventory item.
type Disposition string

const (
	// DispositionMove means the item is transported to the new location.
	DispositionMove Disposition = "MOVE"
	// DispositionSellAndReplace means the item is sold and a replacement is
	// bought at the destination.
	DispositionSellAndReplace Disposition = "SELL_AND_REPLACE"
	// DispositionDonate means the item is given away; it is worth neither
	// moving nor selling.
	DispositionDonate Disposition = "DONATE"
)

// String returns the string representation of the disposition.
func (d Disposition) String() string {
	return string(d)
}

// Item is one physical item in the household inventory. Name, Description
// and Notes come from the caller (typically photo analysis upstream of this
// module); the remaining fields are filled in by the Analyzer.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Notes       string `json:"notes,omitempty"`

	// Analyzed fields. Disposition is set if and only if the item has been
	// through the decision engine.
	Volume           float64     `json:"volume,omitempty"`
	MovingCost       float64     `json:"moving_cost,omitempty"`
	ReplacementPrice float64     `json:"replacement_price,omitempty"`
	ResalePrice      float64     `json:"resale_price,omitempty"`
	Disposition      Disposition `json:"disposition,omitempty"`
	Reasoning        string      `json:"reasoning,omitempty"`
	Savings          float64     `json:"savings,omitempty"`

	// Marketplace fields, set by the resale pricing step for items that
	// will be listed.
	ListPrice  float64 `json:"list_price,omitempty"`
	PriceRange string  `json:"price_range,omitempty"`
}

// Decided reports whether the item has passed through the decision engine.
func (i *Item) Decided() bool {
	return i.Disposition != ""
}
