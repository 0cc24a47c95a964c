package orchestrator

import (
	"context"
	"fmt"

	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/pricing"
)

// listingPlatforms are the marketplaces every listing is posted to.
var listingPlatforms = []string{"Facebook Marketplace", "Craigslist", "OfferUp"}

// utilityServices are the services scheduled around the move date.
var utilityServices = []string{"Electric", "Gas", "Internet", "Water"}

// stepDecide analyzes the inventory: estimates, dispositions, cost totals
// and the budget check.
func (o *Orchestrator) stepDecide(ctx context.Context) StepResult {
	analysis, err := o.analyzer.Analyze(ctx, o.state.Inventory, inventory.Params{
		DistanceMiles: o.state.DistanceMiles,
		Budget:        o.state.Budget,
	})
	if err != nil {
		return failed(err)
	}

	return success(analysis.Summary(), &StateUpdate{
		Inventory:            analysis.Items,
		TotalMovingCost:      ptr(analysis.TotalMovingCost),
		TotalReplacementCost: ptr(analysis.TotalReplacementCost),
		TotalSellingRevenue:  ptr(analysis.TotalSellingRevenue),
		NetCost:              ptr(analysis.NetCost),
		TotalSavings:         ptr(analysis.TotalSavings),
		TotalVolume:          ptr(analysis.TotalVolume),
		WithinBudget:         ptr(analysis.WithinBudget),
	})
}

// stepPriceResale tags every item with a used-market list price and range.
// List prices feed the sale listings; the decision totals keep using the
// resale values computed during analysis.
func (o *Orchestrator) stepPriceResale() StepResult {
	items := make([]inventory.Item, len(o.state.Inventory))
	copy(items, o.state.Inventory)

	var totalValue float64
	for i := range items {
		band := pricing.LookupMarketPrice(items[i].Name)
		items[i].ListPrice = band.Avg
		items[i].PriceRange = band.Range()
		totalValue += band.Avg
	}

	return success(
		fmt.Sprintf("Priced %d items. Total estimated value: $%.0f", len(items), totalValue),
		&StateUpdate{Inventory: items})
}

// stepFetchQuotes prices the move with every carrier using the hauled
// volume computed during analysis.
func (o *Orchestrator) stepFetchQuotes() StepResult {
	volume := o.state.TotalVolume
	if volume <= 0 {
		volume = defaultVolume
	}

	quotes := o.broker.Quotes(volume, o.state.DistanceMiles)
	lo, hi := quotes[0].Price, quotes[0].Price
	for _, q := range quotes[1:] {
		if q.Price < lo {
			lo = q.Price
		}
		if q.Price > hi {
			hi = q.Price
		}
	}

	return success(
		fmt.Sprintf("Got %d quotes ranging from $%.0f to $%.0f", len(quotes), lo, hi),
		&StateUpdate{Quotes: quotes})
}

// stepSelectQuote picks the best quote for the budget and books it.
func (o *Orchestrator) stepSelectQuote() StepResult {
	selected, err := o.broker.Select(o.state.Quotes, o.state.Budget)
	if err != nil {
		return failed(err)
	}

	booking, err := o.broker.Book(&selected, o.state.MoveDate)
	if err != nil {
		return failed(err)
	}

	return success(
		fmt.Sprintf("Selected %s at $%.0f (%.1f stars). Booked for %s, deposit $%.0f",
			selected.Company, selected.Price, selected.Rating, booking.MoveDate, booking.Deposit),
		&StateUpdate{SelectedQuote: &selected, Booking: &booking})
}

// stepCreateListings builds sale listings for items marked SELL_AND_REPLACE.
func (o *Orchestrator) stepCreateListings() StepResult {
	var listings []Listing
	for _, item := range o.state.Inventory {
		if item.Disposition != inventory.DispositionSellAndReplace {
			continue
		}
		price := item.ListPrice
		if price <= 0 {
			price = 100
		}
		condition := item.Notes
		if condition == "" {
			condition = "Good condition"
		}
		listings = append(listings, Listing{
			Item:        item.Name,
			Price:       price,
			Description: fmt.Sprintf("%s - %s", item.Name, condition),
			Platforms:   listingPlatforms,
		})
	}

	if len(listings) == 0 {
		return success("No items marked for sale", nil)
	}
	return success(
		fmt.Sprintf("Created %d listings across %d platforms", len(listings), len(listingPlatforms)),
		&StateUpdate{Listings: listings})
}

// stepScheduleUtilities schedules disconnects and connects around the move
// date for every utility service.
func (o *Orchestrator) stepScheduleUtilities() StepResult {
	scheduled := make([]UtilityTransfer, 0, len(utilityServices))
	for _, service := range utilityServices {
		scheduled = append(scheduled, UtilityTransfer{
			Service:        service,
			DisconnectDate: o.state.MoveDate,
			ConnectDate:    o.state.MoveDate,
			Status:         "scheduled",
		})
	}

	return success(
		fmt.Sprintf("Scheduled %d utility services for %s", len(scheduled), o.state.MoveDate),
		&StateUpdate{Utilities: scheduled})
}

// stepTimeline builds the week-by-week timeline. Week 2 changes shape when
// there is nothing to sell.
func (o *Orchestrator) stepTimeline() StepResult {
	week2 := "Week 2: Get moving quotes, book mover"
	if o.countByDisposition(inventory.DispositionSellAndReplace) > 0 {
		week2 = "Week 2: Follow up on sales, get moving quotes, book mover"
	}

	timeline := []string{
		"Week 1: List items for sale on Facebook Marketplace/Craigslist",
		week2,
		"Week 3: Donate unsold items, begin packing",
		"Week 4: Moving day! Final packing and coordination",
	}

	return success("Timeline generated", &StateUpdate{Timeline: timeline})
}

// stepChecklist builds the final checklist, skipping lines whose item count
// is zero.
func (o *Orchestrator) stepChecklist() StepResult {
	moveCount := o.countByDisposition(inventory.DispositionMove)
	sellCount := o.countByDisposition(inventory.DispositionSellAndReplace)
	donateCount := o.countByDisposition(inventory.DispositionDonate)

	checklist := []string{
		fmt.Sprintf("Pack %d items for moving", moveCount),
	}
	if sellCount > 0 {
		checklist = append(checklist, fmt.Sprintf("List %d items for sale", sellCount))
	}
	if donateCount > 0 {
		checklist = append(checklist, fmt.Sprintf("Arrange donation pickup for %d items", donateCount))
	}
	checklist = append(checklist,
		"Confirm moving company booking",
		"Schedule utility shutoff at old location",
		"Schedule utility setup at new location",
		"Update address with USPS",
		"Transfer internet/cable service",
	)

	return success("Checklist created", &StateUpdate{Checklist: checklist})
}

func (o *Orchestrator) countByDisposition(d inventory.Disposition) int {
	n := 0
	for _, item := range o.state.Inventory {
		if item.Disposition == d {
			n++
		}
	}
	return n
}

func ptr[T any](v T) *T {
	return &v
}
