// Package quote produces competing moving quotes and selects one under a
// budget-aware rule. Quotes come from a fixed carrier catalog with a
// deterministic price model, so the same volume and distance always yield
// the same quotes.
package quote

import (
	"fmt"

	"github.com/movewise/movewise/internal/errors"
)

// Quote is a priced, rated offer from a moving carrier.
type Quote struct {
	Company   string  `json:"company"`
	Price     float64 `json:"price"`
	Rating    float64 `json:"rating"`
	Insurance string  `json:"insurance"`
}

// Booking is a confirmed reservation with the selected carrier.
type Booking struct {
	Company  string  `json:"company"`
	Price    float64 `json:"price"`
	Deposit  float64 `json:"deposit"`
	MoveDate string  `json:"move_date"`
	Status   string  `json:"status"`
}

// depositFraction is the up-front deposit carriers require at booking.
const depositFraction = 0.2

// carrier is one entry in the fixed carrier catalog.
type carrier struct {
	name      string
	rate      float64 // dollars per cubic foot per base multiplier
	rating    float64
	insurance string
}

// carriers is the fixed catalog the broker quotes against. Ordering is the
// tiebreak for equal ratings, so it is part of the contract.
var carriers = []carrier{
	{"QuickMove Pro", 1.4, 4.8, "Full coverage included"},
	{"SafeHaul Movers", 1.6, 4.6, "Basic coverage included"},
	{"Elite Relocations", 1.8, 4.9, "Premium coverage included"},
}

// Broker produces and selects moving quotes.
type Broker struct{}

// NewBroker creates a quote broker.
func NewBroker() *Broker {
	return &Broker{}
}

// Quotes prices the move with every carrier in the catalog. The price model
// is volume * rate * 10, truncated to whole dollars. Distance does not enter
// the current model but is part of the contract so carriers can price
// long hauls differently later.
func (b *Broker) Quotes(volume, distance float64) []Quote {
	quotes := make([]Quote, 0, len(carriers))
	for _, c := range carriers {
		quotes = append(quotes, Quote{
			Company:   c.name,
			Price:     float64(int(volume * c.rate * 10)),
			Rating:    c.rating,
			Insurance: c.insurance,
		})
	}
	return quotes
}

// Select picks the best quote for the budget: the highest-rated quote priced
// within budget, ties broken by input order. When every quote is over budget
// it returns the globally cheapest quote; the caller's own budget check is
// responsible for flagging the run as over budget in that case.
func (b *Broker) Select(quotes []Quote, budget float64) (Quote, error) {
	if len(quotes) == 0 {
		return Quote{}, errors.ErrNoQuotes
	}

	var best *Quote
	for i := range quotes {
		q := &quotes[i]
		if q.Price > budget {
			continue
		}
		if best == nil || q.Rating > best.Rating {
			best = q
		}
	}
	if best != nil {
		return *best, nil
	}

	// All quotes over budget: fall back to the cheapest offer.
	cheapest := &quotes[0]
	for i := range quotes[1:] {
		if quotes[i+1].Price < cheapest.Price {
			cheapest = &quotes[i+1]
		}
	}
	return *cheapest, nil
}

// Book reserves the selected carrier for the given move date, with the
// standard deposit due up front.
func (b *Broker) Book(selected *Quote, moveDate string) (Booking, error) {
	if selected == nil {
		return Booking{}, errors.ErrNoSelectedQuote
	}
	return Booking{
		Company:  selected.Company,
		Price:    selected.Price,
		Deposit:  float64(int(selected.Price * depositFraction)),
		MoveDate: moveDate,
		Status:   "confirmed",
	}, nil
}

// Describe renders a quote the way plan output shows it.
func (q Quote) Describe() string {
	return fmt.Sprintf("%s: $%.0f (%.1f stars, %s)", q.Company, q.Price, q.Rating, q.Insurance)
}
