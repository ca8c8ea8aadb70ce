package editor

import (
	"errors"
	"fmt"

	"github.com/heimdex/heimdex-editor/internal/suggest"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

var (
	errEmptySummary = errors.New("suggestion service returned no summary")
	errNoEdits      = errors.New("suggestion service returned no edits")
)

// RequestSuggestions starts a suggestion round-trip for the current intent
// and returns immediately. The intent's previous suggestions are dropped
// right away; the new ones replace them when both responses have arrived.
// Only one request runs at a time.
func (s *Service) RequestSuggestions() (suggest.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.project.CurrentPos()
	in := s.project.CurrentIntent()
	req, ok := suggest.BuildRequest(s.project, pos)
	if !ok {
		return suggest.Status{}, fmt.Errorf("%w: no current intent", ErrNotFound)
	}

	seq, err := s.tracker.Begin(in.ID)
	if err != nil {
		return s.tracker.Status(), ErrRequestInFlight
	}
	s.project.ClearSuggestions(in.ID)
	s.touch()

	s.wg.Add(1)
	go s.runSuggestion(seq, in.ID, req)

	if s.logger != nil {
		s.logger.Info("suggestion request started",
			"intent_id", in.ID,
			"seq", seq,
			"edit_operation", req.RequestParameters.EditOperation,
			"edits", len(req.Edits),
		)
	}
	return s.tracker.Status(), nil
}

// SuggestionStatus reports the phase of the latest suggestion request.
func (s *Service) SuggestionStatus() suggest.Status {
	return s.tracker.Status()
}

func (s *Service) runSuggestion(seq uint64, intentID string, req suggest.SuggestionRequest) {
	defer s.wg.Done()

	sum, err := s.client.Summary(s.ctx, suggest.SummaryRequest{Input: req.RequestParameters.Text})
	if err == nil && sum == nil {
		err = errEmptySummary
	}
	if err != nil {
		s.failSuggestion(seq, intentID, fmt.Errorf("summary: %w", err))
		return
	}
	if !s.applySummary(seq, intentID, sum.Summary) {
		return
	}

	resp, err := s.client.Suggestions(s.ctx, req)
	if err == nil && (resp == nil || resp.Edits == nil) {
		err = errNoEdits
	}
	if err != nil {
		s.failSuggestion(seq, intentID, fmt.Errorf("suggestions: %w", err))
		return
	}
	s.applySuggestions(seq, intentID, resp)
}

// live reports whether results for seq may still be applied. Callers hold mu.
func (s *Service) live(seq uint64, intentID string) bool {
	return s.tracker.Current(seq) && s.project.IntentPos(intentID) >= 0
}

func (s *Service) applySummary(seq uint64, intentID, summary string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live(seq, intentID) {
		s.discard(seq, intentID, "summary")
		return false
	}
	s.project.SetSummary(intentID, summary)
	s.tracker.ReceiveSummary(seq)
	s.touch()
	return true
}

func (s *Service) applySuggestions(seq uint64, intentID string, resp *suggest.SuggestionResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live(seq, intentID) {
		s.discard(seq, intentID, "suggestions")
		return
	}

	in := s.project.Intent(s.project.IntentPos(intentID))
	kind := timeline.Kind(resp.RequestParameters.EditOperation)
	if kind == timeline.KindNone {
		kind = in.EditOperation
	}
	patches := make([]timeline.Patch, len(resp.Edits))
	for i, e := range resp.Edits {
		patches[i] = e.Patch()
	}
	added := s.project.SetSuggestions(intentID, kind, patches)
	s.tracker.ReceiveSuggestions(seq)
	s.touch()

	if s.logger != nil {
		s.logger.Info("suggestions received",
			"intent_id", intentID,
			"seq", seq,
			"edit_operation", string(kind),
			"count", len(added),
		)
	}
}

func (s *Service) failSuggestion(seq uint64, intentID string, err error) {
	if !s.tracker.Fail(seq, err) {
		return
	}
	if s.logger != nil {
		s.logger.Error("suggestion request failed", "intent_id", intentID, "seq", seq, "error", err)
	}
}

func (s *Service) discard(seq uint64, intentID, what string) {
	if s.logger != nil {
		s.logger.Warn("discarding stale suggestion response", "intent_id", intentID, "seq", seq, "response", what)
	}
}
