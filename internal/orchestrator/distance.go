package orchestrator

import "strings"

// Distance tiers for the keyword heuristic, in miles.
const (
	distanceSameBorough  = 10
	distanceWithinCity   = 15
	distanceWithinState  = 50
	distanceCrossCountry = 1800
)

// EstimateDistance guesses the move distance from origin and destination
// keywords. It is a placeholder for a real routing service and errs toward
// the cross-country default when the locations give no signal.
func EstimateDistance(origin, destination string) float64 {
	if origin == "" || destination == "" {
		return distanceCrossCountry
	}

	from := strings.ToLower(origin)
	to := strings.ToLower(destination)

	switch {
	case strings.Contains(from, "brooklyn") && strings.Contains(to, "brooklyn"):
		return distanceSameBorough
	case (strings.Contains(from, "new york") || strings.Contains(from, "nyc")) &&
		(strings.Contains(to, "brooklyn") || strings.Contains(to, "queens")):
		return distanceWithinCity
	case strings.Contains(from, "new york") && strings.Contains(to, "new york"):
		return distanceWithinState
	default:
		return distanceCrossCountry
	}
}
