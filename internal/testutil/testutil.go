// Package testutil provides shared fixtures for movewise tests.
package testutil

import (
	"context"
	"testing"

	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/session"
)

// SampleInventory returns a small inventory that exercises every
// disposition at cross-country distance under the default budget: the sofa
// moves, the desk sells, the lamp is donated.
func SampleInventory() []inventory.Item {
	return []inventory.Item{
		{Name: "Leather Sofa", Description: "3-seat sectional"},
		{Name: "Standing Desk", Notes: "Minor scratches"},
		{Name: "Broken Lamp"},
	}
}

// SampleEstimates are the fixed estimates that pair with SampleInventory.
func SampleEstimates() map[string]inventory.Estimate {
	return map[string]inventory.Estimate{
		"Leather Sofa":  {ReplacementPrice: 450, Volume: 40},
		"Standing Desk": {ReplacementPrice: 300, Volume: 200},
		"Broken Lamp":   {ReplacementPrice: 30, Volume: 20},
	}
}

// ScriptedEstimator returns fixed estimates keyed by item name, with a
// generic default for names outside the script.
type ScriptedEstimator struct {
	Estimates map[string]inventory.Estimate
	Default   inventory.Estimate
}

// NewScriptedEstimator builds an estimator over the given script.
func NewScriptedEstimator(estimates map[string]inventory.Estimate) *ScriptedEstimator {
	return &ScriptedEstimator{
		Estimates: estimates,
		Default:   inventory.Estimate{ReplacementPrice: 100, Volume: 5},
	}
}

// Estimate implements inventory.Estimator.
func (s *ScriptedEstimator) Estimate(ctx context.Context, item inventory.Item) inventory.Estimate {
	if est, ok := s.Estimates[item.Name]; ok {
		return est
	}
	return s.Default
}

// TempFileStore creates a file-backed session store in a temp directory,
// closed when the test completes.
func TempFileStore(t *testing.T) session.Store {
	t.Helper()

	store, err := session.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}
