// Package orchestrator runs the fixed planning sequence that turns an
// analyzed inventory and a move context into a complete relocation plan.
// A run threads one SessionState through every step, persists a snapshot
// after each step, and finishes with a Summary.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/movewise/movewise/internal/errors"
	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/logging"
	"github.com/movewise/movewise/internal/quote"
	"github.com/movewise/movewise/internal/session"
)

// Defaults applied when the move context leaves fields unset.
const (
	defaultBudget   = 3000
	defaultPriority = "minimize cost"
	defaultMoveDate = "2025-12-01"

	// defaultVolume prices quotes when no item carried a usable volume.
	defaultVolume = 100
)

// Options configure a planning run.
type Options struct {
	// SessionID resumes an existing session; empty generates a fresh ID.
	SessionID string

	Move      MoveContext
	Inventory []inventory.Item

	// Attachments are opaque caller payloads persisted alongside state.
	Attachments map[string]any

	Estimator inventory.Estimator
	Store     session.Store
	Logger    *logging.Logger
}

// Orchestrator executes the planning sequence over one session.
type Orchestrator struct {
	state    *SessionState
	analyzer *inventory.Analyzer
	broker   *quote.Broker
	store    session.Store
	log      *logging.Logger

	executionLog []LogEntry
}

// New creates an orchestrator for one session. If the store already holds
// state for the session ID it is loaded first, then the given move context
// and inventory are overlaid, so a resumed run picks up where it left off
// with fresh parameters.
func New(ctx context.Context, opts Options) (*Orchestrator, error) {
	if opts.Store == nil {
		return nil, errors.NewPlanError("session store is required", errors.ErrInvalidInput)
	}
	if opts.Estimator == nil {
		return nil, errors.NewPlanError("estimator is required", errors.ErrInvalidInput)
	}
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger()
	}

	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}
	log = log.WithSession(id)

	state := &SessionState{SessionID: id, Phase: PhaseInitialized}
	prior, err := opts.Store.Load(ctx, id)
	if err != nil {
		return nil, errors.NewPlanError("failed to load session", err).WithSession(id)
	}
	if len(prior) > 0 {
		state.restore(prior)
		state.SessionID = id
		state.Phase = PhaseInitialized
		log.Info("resumed session", "items", len(state.Inventory))
	}

	overlayMove(state, opts.Move)
	if len(opts.Inventory) > 0 {
		state.Inventory = opts.Inventory
	}
	if opts.Attachments != nil {
		if state.Attachments == nil {
			state.Attachments = map[string]any{}
		}
		for k, v := range opts.Attachments {
			state.Attachments[k] = v
		}
	}

	return &Orchestrator{
		state:    state,
		analyzer: inventory.NewAnalyzer(opts.Estimator, log),
		broker:   quote.NewBroker(),
		store:    opts.Store,
		log:      log,
	}, nil
}

// overlayMove merges a caller-supplied move context over loaded state and
// fills remaining gaps with defaults.
func overlayMove(state *SessionState, move MoveContext) {
	if move.Origin != "" {
		state.Origin = move.Origin
	}
	if move.Destination != "" {
		state.Destination = move.Destination
	}
	if move.DistanceMiles > 0 {
		state.DistanceMiles = move.DistanceMiles
	}
	if move.Budget > 0 {
		state.Budget = move.Budget
	}
	if move.Priority != "" {
		state.Priority = move.Priority
	}
	if move.MoveDate != "" {
		state.MoveDate = move.MoveDate
	}

	if state.Budget <= 0 {
		state.Budget = defaultBudget
	}
	if state.Priority == "" {
		state.Priority = defaultPriority
	}
	if state.MoveDate == "" {
		state.MoveDate = defaultMoveDate
	}
	if state.DistanceMiles <= 0 {
		state.DistanceMiles = EstimateDistance(state.Origin, state.Destination)
	}
}

// SessionID returns the session this orchestrator runs.
func (o *Orchestrator) SessionID() string {
	return o.state.SessionID
}

// Run executes the full planning sequence. An empty inventory fails the run
// before any step; individual step failures are recorded in the execution
// log and the run continues. The returned summary is the complete plan.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	o.log.Info("run started", "items", len(o.state.Inventory), "budget", o.state.Budget)

	if len(o.state.Inventory) == 0 {
		o.state.Phase = PhaseFailed
		o.persist(ctx)
		return nil, errors.NewPlanError(
			"no inventory found; analyze item photos before generating a plan",
			errors.ErrEmptyInventory).WithSession(o.state.SessionID)
	}

	o.state.Phase = PhaseRunning
	for i, kind := range planSteps {
		res := o.runStep(ctx, kind)
		o.state.apply(res.Update)

		entry := LogEntry{
			Step:      i + 1,
			Kind:      kind,
			Status:    res.Status,
			Summary:   res.Summary,
			Timestamp: now(),
		}
		if res.Err != nil {
			entry.Error = res.Err.Error()
			o.log.WithStep(string(kind)).Warn("step failed", "error", res.Err)
		} else {
			o.log.WithStep(string(kind)).Info("step complete", "summary", res.Summary)
		}
		o.executionLog = append(o.executionLog, entry)

		o.persist(ctx)
	}

	o.state.Phase = PhaseSummarized
	summary := o.summarize()
	o.persist(ctx)

	o.log.Info("run complete", "net_cost", o.state.NetCost, "within_budget", o.state.WithinBudget)
	return summary, nil
}

// runStep dispatches one step and converts panics into failed results so a
// misbehaving step cannot abort the run.
func (o *Orchestrator) runStep(ctx context.Context, kind StepKind) (res StepResult) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(fmt.Errorf("step panic: %v", r))
		}
	}()

	switch kind {
	case StepDecide:
		return o.stepDecide(ctx)
	case StepPriceResale:
		return o.stepPriceResale()
	case StepFetchQuotes:
		return o.stepFetchQuotes()
	case StepSelectQuote:
		return o.stepSelectQuote()
	case StepCreateListings:
		return o.stepCreateListings()
	case StepScheduleUtilities:
		return o.stepScheduleUtilities()
	case StepTimeline:
		return o.stepTimeline()
	case StepChecklist:
		return o.stepChecklist()
	default:
		return failed(fmt.Errorf("%w: %s", errors.ErrUnknownStep, kind))
	}
}

// persist writes the current snapshot to the store. Persistence failures
// are logged, not fatal: the in-memory run is still authoritative.
func (o *Orchestrator) persist(ctx context.Context) {
	if err := o.store.Save(ctx, o.state.SessionID, o.state.snapshot()); err != nil {
		o.log.Warn("failed to persist session", "error", err)
	}
}

func failed(err error) StepResult {
	return StepResult{Status: statusFailed, Err: err}
}

func success(summary string, update *StateUpdate) StepResult {
	return StepResult{Status: statusSuccess, Summary: summary, Update: update}
}
