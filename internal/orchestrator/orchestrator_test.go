package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/movewise/movewise/internal/errors"
	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/logging"
	"github.com/movewise/movewise/internal/session"
	"github.com/movewise/movewise/internal/testutil"
)

// panickingEstimator blows up on every call to exercise step recovery.
type panickingEstimator struct{}

func (panickingEstimator) Estimate(ctx context.Context, item inventory.Item) inventory.Estimate {
	panic("estimator exploded")
}

// countingStore wraps a real store and counts Save calls.
type countingStore struct {
	session.Store
	saves int
}

func (c *countingStore) Save(ctx context.Context, id string, state map[string]any) error {
	c.saves++
	return c.Store.Save(ctx, id, state)
}

// mixedInventory yields one item per disposition under the default budget
// at cross-country distance: the sofa is high value relative to its moving
// cost so it moves, the desk is cheaper to replace than to haul so it
// sells, and the lamp is below the value threshold so it is donated.
func mixedInventory() ([]inventory.Item, inventory.Estimator) {
	return testutil.SampleInventory(), testutil.NewScriptedEstimator(testutil.SampleEstimates())
}

func TestRunFullPlan(t *testing.T) {
	items, est := mixedInventory()
	store := testutil.TempFileStore(t)

	o, err := New(context.Background(), Options{
		SessionID: "run-full",
		Move:      MoveContext{Origin: "New York, NY", Destination: "Austin, TX", Budget: 3000},
		Inventory: items,
		Estimator: est,
		Store:     store,
		Logger:    logging.NopLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	summary, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Status != "success" {
		t.Errorf("status = %q, want success", summary.Status)
	}
	if summary.SessionID != "run-full" {
		t.Errorf("session id = %q", summary.SessionID)
	}

	is := summary.ItemSummary
	if is.TotalItems != 3 || is.ItemsToMove != 1 || is.ItemsToReplace != 1 || is.ItemsToDonate != 1 {
		t.Errorf("item summary = %+v, want 3 total / 1 / 1 / 1", is)
	}

	// Sofa: volume 40 -> moving cost 60. Desk: replacement 300, resale 120.
	ca := summary.CostAnalysis
	if ca.TotalMovingCost != 60 {
		t.Errorf("total moving cost = %.2f, want 60", ca.TotalMovingCost)
	}
	if ca.TotalReplacementCost != 300 || ca.TotalSellingRevenue != 120 {
		t.Errorf("replacement/revenue = %.2f/%.2f, want 300/120", ca.TotalReplacementCost, ca.TotalSellingRevenue)
	}
	wantNet := ca.TotalMovingCost + ca.TotalReplacementCost - ca.TotalSellingRevenue
	if ca.NetCost != wantNet {
		t.Errorf("net cost = %.2f, want %.2f", ca.NetCost, wantNet)
	}
	if !ca.WithinBudget {
		t.Error("plan should be within the $3000 budget")
	}
	if ca.BudgetRemaining != 3000-ca.NetCost {
		t.Errorf("budget remaining = %.2f", ca.BudgetRemaining)
	}

	// Only the sofa is hauled, so quotes price volume 40:
	// 560 / 640 / 720, all affordable, so the top-rated carrier wins.
	state := o.state
	if len(state.Quotes) != 3 {
		t.Fatalf("quotes = %d, want 3", len(state.Quotes))
	}
	if state.Quotes[0].Price != 560 {
		t.Errorf("first quote price = %.0f, want 560", state.Quotes[0].Price)
	}
	if state.SelectedQuote == nil || state.SelectedQuote.Company != "Elite Relocations" {
		t.Errorf("selected quote = %+v, want Elite Relocations", state.SelectedQuote)
	}
	if state.Booking == nil {
		t.Fatal("no booking recorded")
	}
	if state.Booking.Deposit != 144 {
		t.Errorf("deposit = %.0f, want 144 (20%% of 720)", state.Booking.Deposit)
	}
	if state.Booking.MoveDate != "2025-12-01" {
		t.Errorf("move date = %q, want default", state.Booking.MoveDate)
	}

	// One listing for the desk, priced from the used-market table.
	if len(state.Listings) != 1 {
		t.Fatalf("listings = %d, want 1", len(state.Listings))
	}
	listing := state.Listings[0]
	if listing.Item != "Standing Desk" || listing.Price != 150 {
		t.Errorf("listing = %+v, want Standing Desk at 150", listing)
	}
	if !strings.Contains(listing.Description, "Minor scratches") {
		t.Errorf("listing description %q should carry the item notes", listing.Description)
	}
	if len(listing.Platforms) != 3 {
		t.Errorf("platforms = %d, want 3", len(listing.Platforms))
	}

	if len(state.Utilities) != 4 {
		t.Errorf("utilities = %d, want 4", len(state.Utilities))
	}

	if len(summary.Timeline) != 4 {
		t.Fatalf("timeline = %d lines, want 4", len(summary.Timeline))
	}
	if !strings.Contains(summary.Timeline[1], "Follow up on sales") {
		t.Errorf("week 2 = %q, want the selling variant", summary.Timeline[1])
	}

	wantChecklist := []string{
		"Pack 1 items for moving",
		"List 1 items for sale",
		"Arrange donation pickup for 1 items",
	}
	for _, want := range wantChecklist {
		found := false
		for _, line := range summary.Checklist {
			if line == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("checklist missing %q (got %v)", want, summary.Checklist)
		}
	}

	if len(summary.Log) != len(planSteps) {
		t.Fatalf("execution log = %d entries, want %d", len(summary.Log), len(planSteps))
	}
	for _, entry := range summary.Log {
		if entry.Status != "success" {
			t.Errorf("step %d (%s) = %s: %s", entry.Step, entry.Kind, entry.Status, entry.Error)
		}
	}

	if state.Phase != PhaseSummarized {
		t.Errorf("phase = %s, want summarized", state.Phase)
	}

	// The terminal snapshot is persisted.
	stored, err := store.Load(context.Background(), "run-full")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored["phase"] != string(PhaseSummarized) {
		t.Errorf("stored phase = %v, want summarized", stored["phase"])
	}
}

func TestRunEmptyInventory(t *testing.T) {
	store := testutil.TempFileStore(t)

	o, err := New(context.Background(), Options{
		SessionID: "empty",
		Move:      MoveContext{Origin: "A", Destination: "B"},
		Estimator: testutil.NewScriptedEstimator(nil),
		Store:     store,
		Logger:    logging.NopLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	summary, err := o.Run(context.Background())
	if summary != nil {
		t.Error("expected no summary for an empty inventory")
	}
	if !errors.Is(err, errors.ErrEmptyInventory) {
		t.Fatalf("err = %v, want ErrEmptyInventory", err)
	}
	if !strings.Contains(err.Error(), "before generating a plan") {
		t.Errorf("error %q should carry an actionable message", err)
	}
	if o.state.Phase != PhaseFailed {
		t.Errorf("phase = %s, want failed", o.state.Phase)
	}

	stored, err := store.Load(context.Background(), "empty")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if stored["phase"] != string(PhaseFailed) {
		t.Errorf("stored phase = %v, want failed", stored["phase"])
	}
}

func TestStepFailureDoesNotAbortRun(t *testing.T) {
	store := testutil.TempFileStore(t)

	o, err := New(context.Background(), Options{
		SessionID: "panicky",
		Move:      MoveContext{Origin: "A", Destination: "B"},
		Inventory: []inventory.Item{{Name: "Couch"}},
		Estimator: panickingEstimator{},
		Store:     store,
		Logger:    logging.NopLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	summary, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(summary.Log) != len(planSteps) {
		t.Fatalf("execution log = %d entries, want %d", len(summary.Log), len(planSteps))
	}
	first := summary.Log[0]
	if first.Kind != StepDecide || first.Status != "failed" {
		t.Errorf("first entry = %s/%s, want decide_dispositions/failed", first.Kind, first.Status)
	}
	if !strings.Contains(first.Error, "estimator exploded") {
		t.Errorf("first entry error = %q, want panic message", first.Error)
	}

	// No dispositions were decided, so nothing sells and quotes fall back
	// to the default volume.
	if len(o.state.Quotes) != 3 {
		t.Errorf("quotes = %d, want 3 from the default volume", len(o.state.Quotes))
	}
	if o.state.Quotes[0].Price != 1400 {
		t.Errorf("first quote = %.0f, want 1400 (volume 100)", o.state.Quotes[0].Price)
	}
	if o.state.Phase != PhaseSummarized {
		t.Errorf("phase = %s, want summarized despite the failed step", o.state.Phase)
	}
}

func TestStatePersistedAfterEveryStep(t *testing.T) {
	inner := testutil.TempFileStore(t)
	store := &countingStore{Store: inner}

	items, est := mixedInventory()
	o, err := New(context.Background(), Options{
		SessionID: "persist",
		Move:      MoveContext{Origin: "A", Destination: "B"},
		Inventory: items,
		Estimator: est,
		Store:     store,
		Logger:    logging.NopLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One save per step plus the terminal snapshot.
	want := len(planSteps) + 1
	if store.saves != want {
		t.Errorf("saves = %d, want %d", store.saves, want)
	}
}

func TestNewGeneratesSessionID(t *testing.T) {
	store := testutil.TempFileStore(t)

	items, est := mixedInventory()
	o, err := New(context.Background(), Options{
		Inventory: items,
		Estimator: est,
		Store:     store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if o.SessionID() == "" {
		t.Error("expected a generated session ID")
	}
}

func TestNewResumesStoredSession(t *testing.T) {
	store := testutil.TempFileStore(t)
	ctx := context.Background()

	prior := map[string]any{
		"from":     "Brooklyn, NY",
		"to":       "Queens, NY",
		"budget":   2500.0,
		"distance": 15.0,
		"inventory": []any{
			map[string]any{"name": "Bookshelf"},
		},
		"photo_batch": "batch-7",
	}
	if err := store.Save(ctx, "resume", prior); err != nil {
		t.Fatalf("Save: %v", err)
	}

	o, err := New(ctx, Options{
		SessionID: "resume",
		Estimator: testutil.NewScriptedEstimator(nil),
		Store:     store,
		Logger:    logging.NopLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s := o.state
	if s.Origin != "Brooklyn, NY" || s.Destination != "Queens, NY" {
		t.Errorf("move = %q -> %q, want stored values", s.Origin, s.Destination)
	}
	if s.Budget != 2500 {
		t.Errorf("budget = %.0f, want stored 2500", s.Budget)
	}
	if len(s.Inventory) != 1 || s.Inventory[0].Name != "Bookshelf" {
		t.Errorf("inventory = %+v, want the stored bookshelf", s.Inventory)
	}
	if s.Attachments["photo_batch"] != "batch-7" {
		t.Errorf("attachments = %v, want stored photo_batch", s.Attachments)
	}
	// Defaults fill fields the stored state never set.
	if s.Priority != "minimize cost" {
		t.Errorf("priority = %q, want default", s.Priority)
	}
}

func TestNewRequiresStoreAndEstimator(t *testing.T) {
	store := testutil.TempFileStore(t)

	if _, err := New(context.Background(), Options{Estimator: testutil.NewScriptedEstimator(nil)}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("missing store: err = %v, want ErrInvalidInput", err)
	}
	if _, err := New(context.Background(), Options{Store: store}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("missing estimator: err = %v, want ErrInvalidInput", err)
	}
}

func TestTimelineWithoutSales(t *testing.T) {
	store := testutil.TempFileStore(t)

	// A single high-value item moves; nothing sells.
	o, err := New(context.Background(), Options{
		SessionID: "no-sales",
		Move:      MoveContext{Origin: "A", Destination: "B"},
		Inventory: []inventory.Item{{Name: "Leather Sofa"}},
		Estimator: testutil.NewScriptedEstimator(map[string]inventory.Estimate{
			"Leather Sofa": {ReplacementPrice: 450, Volume: 40},
		}),
		Store:  store,
		Logger: logging.NopLogger(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	summary, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Timeline[1] != "Week 2: Get moving quotes, book mover" {
		t.Errorf("week 2 = %q, want the no-sales variant", summary.Timeline[1])
	}
	for _, line := range summary.Checklist {
		if strings.Contains(line, "for sale") || strings.Contains(line, "donation") {
			t.Errorf("checklist should skip zero-count lines, got %q", line)
		}
	}
}

func TestApplyShallowMerge(t *testing.T) {
	s := &SessionState{
		TotalVolume: 40,
		Timeline:    []string{"old"},
	}

	s.apply(&StateUpdate{
		NetCost:  ptr(240.0),
		Timeline: []string{"new week 1", "new week 2"},
	})

	if s.NetCost != 240 {
		t.Errorf("net cost = %.0f, want 240", s.NetCost)
	}
	if s.TotalVolume != 40 {
		t.Errorf("total volume = %.0f, unset fields must survive the merge", s.TotalVolume)
	}
	if len(s.Timeline) != 2 || s.Timeline[0] != "new week 1" {
		t.Errorf("timeline = %v, want wholesale overwrite", s.Timeline)
	}

	s.apply(nil) // no-op
	if s.NetCost != 240 {
		t.Error("nil update must not change state")
	}
}

func TestEstimateDistance(t *testing.T) {
	tests := []struct {
		from, to string
		want     float64
	}{
		{"Brooklyn, NY", "Brooklyn, NY", 10},
		{"New York, NY", "Brooklyn, NY", 15},
		{"NYC", "Queens, NY", 15},
		{"New York, NY", "Albany, New York", 50},
		{"New York, NY", "Austin, TX", 1800},
		{"", "Austin, TX", 1800},
		{"New York, NY", "", 1800},
	}
	for _, tt := range tests {
		if got := EstimateDistance(tt.from, tt.to); got != tt.want {
			t.Errorf("EstimateDistance(%q, %q) = %.0f, want %.0f", tt.from, tt.to, got, tt.want)
		}
	}
}
