package pricing

import (
	"strings"

	"github.com/movewise/movewise/internal/inventory"
)

// Catch-all defaults when no keyword matches.
const (
	defaultFallbackPrice  = 100.0
	defaultFallbackVolume = 5.0
)

// priceHeuristics maps item-name keywords to replacement price estimates.
// First match wins; categories are grouped from largest to smallest value.
var priceHeuristics = []struct {
	keywords []string
	price    float64
}{
	{[]string{"sofa", "couch", "sectional"}, 800},
	{[]string{"bed", "mattress"}, 600},
	{[]string{"table", "desk", "dining"}, 400},
	{[]string{"dresser", "cabinet", "bookshelf"}, 350},
	{[]string{"chair", "stool"}, 150},
	{[]string{"lamp", "mirror", "decor"}, 80},
}

// FallbackPrice returns a deterministic replacement price estimate based on
// keywords in the item name. It always returns a positive number.
func FallbackPrice(item inventory.Item) float64 {
	name := strings.ToLower(item.Name)
	for _, h := range priceHeuristics {
		for _, kw := range h.keywords {
			if strings.Contains(name, kw) {
				return h.price
			}
		}
	}
	return defaultFallbackPrice
}

// FallbackVolume returns a deterministic volume estimate in cubic feet based
// on keywords in the item name and size descriptors in the description.
// It always returns a positive number.
func FallbackVolume(item inventory.Item) float64 {
	name := strings.ToLower(item.Name)
	desc := strings.ToLower(item.Description)

	isLarge := strings.Contains(desc, "large")

	switch {
	case containsAny(name, "sofa", "couch", "sectional"):
		if isLarge {
			return 50
		}
		return 35
	case containsAny(name, "bed", "mattress"):
		if strings.Contains(desc, "king") || strings.Contains(desc, "queen") {
			return 45
		}
		return 30
	case containsAny(name, "table", "desk", "dining"):
		if isLarge {
			return 25
		}
		return 15
	case containsAny(name, "dresser", "cabinet", "bookshelf"):
		if isLarge {
			return 30
		}
		return 20
	case strings.Contains(name, "chair"):
		if isLarge {
			return 8
		}
		return 5
	default:
		return defaultFallbackVolume
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
