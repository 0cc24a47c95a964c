package orchestrator

import (
	"encoding/json"
	"time"

	"github.com/movewise/movewise/internal/inventory"
	"github.com/movewise/movewise/internal/quote"
)

// Phase is the lifecycle state of a planning session.
type Phase string

const (
	PhaseInitialized Phase = "initialized"
	PhaseRunning     Phase = "running"
	PhaseSummarized  Phase = "summarized"
	PhaseFailed      Phase = "failed"
)

// StepKind identifies one step of the fixed planning sequence.
type StepKind string

const (
	StepDecide            StepKind = "decide_dispositions"
	StepPriceResale       StepKind = "price_resale"
	StepFetchQuotes       StepKind = "fetch_quotes"
	StepSelectQuote       StepKind = "select_quote"
	StepCreateListings    StepKind = "create_listings"
	StepScheduleUtilities StepKind = "schedule_utilities"
	StepTimeline          StepKind = "generate_timeline"
	StepChecklist         StepKind = "generate_checklist"
)

// planSteps is the fixed step sequence. Order matters: later steps read
// fields earlier steps write.
var planSteps = []StepKind{
	StepDecide,
	StepPriceResale,
	StepFetchQuotes,
	StepSelectQuote,
	StepCreateListings,
	StepScheduleUtilities,
	StepTimeline,
	StepChecklist,
}

// MoveContext carries the parameters of the move itself.
type MoveContext struct {
	Origin        string  `json:"from"`
	Destination   string  `json:"to"`
	DistanceMiles float64 `json:"distance"`
	Budget        float64 `json:"budget"`
	Priority      string  `json:"priority"`
	MoveDate      string  `json:"move_date"`
}

// Listing is a sale listing for an item marked SELL_AND_REPLACE.
type Listing struct {
	Item        string   `json:"item"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Platforms   []string `json:"platforms"`
}

// UtilityTransfer is a scheduled disconnect/connect for one utility service.
type UtilityTransfer struct {
	Service        string `json:"service"`
	DisconnectDate string `json:"disconnect_date"`
	ConnectDate    string `json:"connect_date"`
	Status         string `json:"status"`
}

// SessionState is the single mutable aggregate threaded through a run. The
// orchestrator owns it exclusively for the duration of the run; the session
// store only ever sees snapshots.
type SessionState struct {
	SessionID string `json:"session_id"`
	Phase     Phase  `json:"phase"`

	MoveContext

	Inventory []inventory.Item `json:"inventory"`

	TotalMovingCost      float64 `json:"total_moving_cost"`
	TotalReplacementCost float64 `json:"total_replacement_cost"`
	TotalSellingRevenue  float64 `json:"total_selling_revenue"`
	NetCost              float64 `json:"net_cost"`
	TotalSavings         float64 `json:"total_savings"`
	TotalVolume          float64 `json:"total_volume"`
	WithinBudget         bool    `json:"within_budget"`

	Quotes        []quote.Quote     `json:"quotes,omitempty"`
	SelectedQuote *quote.Quote      `json:"selected_quote,omitempty"`
	Booking       *quote.Booking    `json:"booking,omitempty"`
	Listings      []Listing         `json:"active_listings,omitempty"`
	Utilities     []UtilityTransfer `json:"utilities,omitempty"`
	Timeline      []string          `json:"timeline,omitempty"`
	Checklist     []string          `json:"checklist,omitempty"`

	// Attachments holds opaque caller payloads, e.g. raw photo data. They
	// are merged into persisted snapshots at the top level but never
	// serialized as part of the typed state.
	Attachments map[string]any `json:"-"`
}

// StateUpdate is the optional output of a step. Nil fields leave state
// untouched; set fields overwrite their state counterparts wholesale.
type StateUpdate struct {
	Inventory []inventory.Item

	TotalMovingCost      *float64
	TotalReplacementCost *float64
	TotalSellingRevenue  *float64
	NetCost              *float64
	TotalSavings         *float64
	TotalVolume          *float64
	WithinBudget         *bool

	Quotes        []quote.Quote
	SelectedQuote *quote.Quote
	Booking       *quote.Booking
	Listings      []Listing
	Utilities     []UtilityTransfer
	Timeline      []string
	Checklist     []string
}

// apply merges an update into state by shallow overwrite.
func (s *SessionState) apply(u *StateUpdate) {
	if u == nil {
		return
	}
	if u.Inventory != nil {
		s.Inventory = u.Inventory
	}
	if u.TotalMovingCost != nil {
		s.TotalMovingCost = *u.TotalMovingCost
	}
	if u.TotalReplacementCost != nil {
		s.TotalReplacementCost = *u.TotalReplacementCost
	}
	if u.TotalSellingRevenue != nil {
		s.TotalSellingRevenue = *u.TotalSellingRevenue
	}
	if u.NetCost != nil {
		s.NetCost = *u.NetCost
	}
	if u.TotalSavings != nil {
		s.TotalSavings = *u.TotalSavings
	}
	if u.TotalVolume != nil {
		s.TotalVolume = *u.TotalVolume
	}
	if u.WithinBudget != nil {
		s.WithinBudget = *u.WithinBudget
	}
	if u.Quotes != nil {
		s.Quotes = u.Quotes
	}
	if u.SelectedQuote != nil {
		s.SelectedQuote = u.SelectedQuote
	}
	if u.Booking != nil {
		s.Booking = u.Booking
	}
	if u.Listings != nil {
		s.Listings = u.Listings
	}
	if u.Utilities != nil {
		s.Utilities = u.Utilities
	}
	if u.Timeline != nil {
		s.Timeline = u.Timeline
	}
	if u.Checklist != nil {
		s.Checklist = u.Checklist
	}
}

// snapshot renders state as a serializable map for the session store, with
// attachments merged in at the top level.
func (s *SessionState) snapshot() map[string]any {
	m := map[string]any{}
	if data, err := json.Marshal(s); err == nil {
		_ = json.Unmarshal(data, &m)
	} else {
		m["session_id"] = s.SessionID
	}
	for k, v := range s.Attachments {
		m[k] = v
	}
	return m
}

// restore decodes a stored snapshot back into state. Unknown keys are kept
// as attachments so nothing a caller stored is silently dropped.
func (s *SessionState) restore(m map[string]any) {
	if len(m) == 0 {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, s); err != nil {
		return
	}
	for k, v := range m {
		if !knownStateKeys[k] {
			if s.Attachments == nil {
				s.Attachments = map[string]any{}
			}
			s.Attachments[k] = v
		}
	}
}

var knownStateKeys = map[string]bool{
	"session_id": true, "phase": true,
	"from": true, "to": true, "distance": true, "budget": true,
	"priority": true, "move_date": true,
	"inventory":         true,
	"total_moving_cost": true, "total_replacement_cost": true,
	"total_selling_revenue": true, "net_cost": true, "total_savings": true,
	"total_volume": true, "within_budget": true,
	"quotes": true, "selected_quote": true, "booking": true,
	"active_listings": true, "utilities": true,
	"timeline": true, "checklist": true,
}

// StepResult is what one step execution produced.
type StepResult struct {
	Status  string
	Summary string
	Err     error
	Update  *StateUpdate
}

// statuses recorded per step in the execution log.
const (
	statusSuccess = "success"
	statusFailed  = "failed"
)

// now is stubbed in tests for deterministic log timestamps.
var now = time.Now

// LogEntry is one record of the append-only execution log.
type LogEntry struct {
	Step      int       `json:"step"`
	Kind      StepKind  `json:"kind"`
	Status    string    `json:"status"`
	Summary   string    `json:"summary,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
