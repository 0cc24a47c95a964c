package pricing

import (
	"fmt"
	"strings"
)

// MarketPrice is a used-market price band for a furniture category.
type MarketPrice struct {
	Min float64
	Max float64
	Avg float64
}

// Range renders the band the way listings show it, e.g. "$100-$500".
func (p MarketPrice) Range() string {
	return fmt.Sprintf("$%.0f-$%.0f", p.Min, p.Max)
}

// marketPrices holds market averages for used furniture. Order matters:
// the first key contained in the item name wins, so compound categories
// ("coffee table") precede their generic forms ("table").
var marketPrices = []struct {
	key   string
	price MarketPrice
}{
	{"sofa", MarketPrice{100, 500, 250}},
	{"couch", MarketPrice{100, 500, 250}},
	{"coffee table", MarketPrice{30, 200, 80}},
	{"dining table", MarketPrice{150, 800, 400}},
	{"table", MarketPrice{50, 300, 120}},
	{"tv stand", MarketPrice{50, 300, 120}},
	{"bed", MarketPrice{100, 600, 250}},
	{"desk", MarketPrice{75, 400, 150}},
	{"bookshelf", MarketPrice{40, 250, 100}},
	{"dresser", MarketPrice{80, 450, 200}},
	{"chair", MarketPrice{25, 200, 75}},
	{"nightstand", MarketPrice{30, 150, 60}},
	{"lamp", MarketPrice{10, 100, 30}},
	{"rug", MarketPrice{20, 300, 100}},
}

// defaultMarketPrice covers items outside every known category.
var defaultMarketPrice = MarketPrice{50, 200, 100}

// LookupMarketPrice returns the used-market price band for an item name.
// Unrecognized items get the default band.
func LookupMarketPrice(name string) MarketPrice {
	lower := strings.ToLower(name)
	for _, entry := range marketPrices {
		if strings.Contains(lower, entry.key) {
			return entry.price
		}
	}
	return defaultMarketPrice
}
