package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/movewise/movewise/internal/errors"
	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/logging"
)

// pricePrompt asks the oracle for a new-replacement price estimate. The
// oracle must answer with a bare JSON object; anything else is treated as a
// recoverable failure.
const pricePrompt = `Based on the item description below, estimate the current retail price for a NEW similar item.

Item: %s
Description: %s
Notes: %s

Consider:
- Item type and quality indicators (leather, wood, large, etc.)
- Current market prices
- Reasonable price ranges for this category

Return ONLY a JSON object with the estimated price:
{
  "estimated_price": 450,
  "confidence": "high",
  "price_range": "400-500"
}

RETURN ONLY VALID JSON, no additional text.
`

// volumePrompt asks the oracle for a volume estimate in cubic feet.
const volumePrompt = `Estimate the volume in cubic feet for this item:

Item: %s
Description: %s
Notes: %s

Consider typical dimensions for this type of furniture/item.

Return ONLY a JSON object:
{
  "volume_cubic_feet": 45,
  "reasoning": "Large sofa, approximately 7ft x 3ft x 3ft"
}

RETURN ONLY VALID JSON.
`

// priceResponse is the JSON shape the oracle returns for price estimates.
type priceResponse struct {
	EstimatedPrice float64 `json:"estimated_price"`
	Confidence     string  `json:"confidence"`
	PriceRange     string  `json:"price_range"`
}

// volumeResponse is the JSON shape the oracle returns for volume estimates.
type volumeResponse struct {
	VolumeCubicFeet float64 `json:"volume_cubic_feet"`
	Reasoning       string  `json:"reasoning"`
}

// OracleEstimator estimates prices and volumes via the oracle, falling back
// to the deterministic keyword heuristics on any failure. It implements
// [inventory.Estimator].
type OracleEstimator struct {
	oracle Oracle
	log    *logging.Logger
}

// NewOracleEstimator creates an estimator backed by the given oracle.
func NewOracleEstimator(oracle Oracle, log *logging.Logger) *OracleEstimator {
	if log == nil {
		log = logging.NopLogger()
	}
	return &OracleEstimator{oracle: oracle, log: log}
}

// Estimate returns a price and volume estimate for the item. It never
// fails: oracle errors are logged and replaced by the fallback heuristics.
func (e *OracleEstimator) Estimate(ctx context.Context, item inventory.Item) inventory.Estimate {
	price, err := e.EstimatePrice(ctx, item)
	if err != nil {
		e.log.Warn("price estimation fell back to heuristics",
			"item", item.Name, "error", err.Error())
		price = FallbackPrice(item)
	}

	volume, err := e.EstimateVolume(ctx, item)
	if err != nil {
		e.log.Warn("volume estimation fell back to heuristics",
			"item", item.Name, "error", err.Error())
		volume = FallbackVolume(item)
	}

	return inventory.Estimate{ReplacementPrice: price, Volume: volume}
}

// EstimatePrice asks the oracle for a replacement price. Callers that want
// the never-fails behavior should use Estimate instead.
func (e *OracleEstimator) EstimatePrice(ctx context.Context, item inventory.Item) (float64, error) {
	prompt := fmt.Sprintf(pricePrompt, item.Name, orNA(item.Description), orNA(item.Notes))

	raw, err := e.oracle.Generate(ctx, prompt)
	if err != nil {
		return 0, errors.NewEstimateError("price generation failed", err).WithItem(item.Name)
	}

	var parsed priceResponse
	if err := decodeOracleJSON(raw, &parsed); err != nil {
		return 0, errors.NewEstimateError("price response unparsable", err).WithItem(item.Name)
	}
	if parsed.EstimatedPrice <= 0 {
		return 0, errors.NewEstimateError("price response missing estimated_price", errors.ErrMalformedResponse).WithItem(item.Name)
	}

	e.log.Debug("oracle price estimate",
		"item", item.Name,
		"price", parsed.EstimatedPrice,
		"confidence", parsed.Confidence)

	return parsed.EstimatedPrice, nil
}

// EstimateVolume asks the oracle for a volume estimate in cubic feet.
func (e *OracleEstimator) EstimateVolume(ctx context.Context, item inventory.Item) (float64, error) {
	prompt := fmt.Sprintf(volumePrompt, item.Name, orNA(item.Description), orNA(item.Notes))

	raw, err := e.oracle.Generate(ctx, prompt)
	if err != nil {
		return 0, errors.NewEstimateError("volume generation failed", err).WithItem(item.Name)
	}

	var parsed volumeResponse
	if err := decodeOracleJSON(raw, &parsed); err != nil {
		return 0, errors.NewEstimateError("volume response unparsable", err).WithItem(item.Name)
	}
	if parsed.VolumeCubicFeet <= 0 {
		return 0, errors.NewEstimateError("volume response missing volume_cubic_feet", errors.ErrMalformedResponse).WithItem(item.Name)
	}

	return parsed.VolumeCubicFeet, nil
}

// decodeOracleJSON strips markdown code fences from a completion and decodes
// the remaining text as JSON.
func decodeOracleJSON(raw string, v any) error {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), v); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrMalformedResponse, err)
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
