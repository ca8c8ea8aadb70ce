package suggest

import (
	"errors"
	"sync"
	"time"
)

// State is the phase of the most recent suggestion request.
type State string

const (
	StateIdle                State = "idle"
	StateRequesting          State = "requesting"
	StateReceivedSummary     State = "received_summary"
	StateReceivedSuggestions State = "received_suggestions"
	StateFailed              State = "failed"
)

// ErrInFlight is returned when a request is started while another one is
// still running.
var ErrInFlight = errors.New("suggestion request already in flight")

// Status is a point-in-time view of a Tracker.
type Status struct {
	State     State     `json:"state"`
	IntentID  string    `json:"intentId,omitempty"`
	Seq       uint64    `json:"seq"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InFlight reports whether a response is still outstanding.
func (s Status) InFlight() bool {
	return s.State == StateRequesting || s.State == StateReceivedSummary
}

// Tracker guards the single in-flight suggestion request of a project.
// Every request gets a sequence number; results carrying an older number are
// stale and are refused.
type Tracker struct {
	mu       sync.Mutex
	state    State
	intentID string
	seq      uint64
	err      error
	updated  time.Time
	now      func() time.Time
}

func NewTracker() *Tracker {
	return &Tracker{state: StateIdle, now: time.Now}
}

// Begin starts a request for the intent and returns its sequence number.
func (t *Tracker) Begin(intentID string) (uint64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateRequesting || t.state == StateReceivedSummary {
		return 0, ErrInFlight
	}
	t.seq++
	t.intentID = intentID
	t.err = nil
	t.set(StateRequesting)
	return t.seq, nil
}

// ReceiveSummary records the summary response for seq.
func (t *Tracker) ReceiveSummary(seq uint64) bool {
	return t.advance(seq, StateRequesting, StateReceivedSummary)
}

// ReceiveSuggestions records the suggestions response for seq.
func (t *Tracker) ReceiveSuggestions(seq uint64) bool {
	return t.advance(seq, StateReceivedSummary, StateReceivedSuggestions)
}

// Fail ends the request seq with err.
func (t *Tracker) Fail(seq uint64, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq || (t.state != StateRequesting && t.state != StateReceivedSummary) {
		return false
	}
	t.err = err
	t.set(StateFailed)
	return true
}

// Abandon drops an in-flight request for the intent, so that its late
// results are discarded. It is called when the intent goes away.
func (t *Tracker) Abandon(intentID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.intentID != intentID || (t.state != StateRequesting && t.state != StateReceivedSummary) {
		return false
	}
	t.seq++
	t.set(StateIdle)
	return true
}

// Reset abandons whatever is in flight and returns to idle.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seq++
	t.intentID = ""
	t.err = nil
	t.set(StateIdle)
}

// Current reports whether seq is the latest request.
func (t *Tracker) Current(seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return seq == t.seq
}

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := Status{
		State:     t.state,
		IntentID:  t.intentID,
		Seq:       t.seq,
		UpdatedAt: t.updated,
	}
	if t.err != nil {
		st.Error = t.err.Error()
	}
	return st
}

func (t *Tracker) advance(seq uint64, from, to State) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if seq != t.seq || t.state != from {
		return false
	}
	t.set(to)
	return true
}

func (t *Tracker) set(s State) {
	t.state = s
	t.updated = t.now()
}
