package editor

import (
	"fmt"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// IntentView is an intent together with its scenes, as returned to callers.
type IntentView struct {
	Position  int               `json:"position"`
	Current   bool              `json:"current"`
	Intent    timeline.Intent   `json:"intent"`
	Active    []*timeline.Scene `json:"activeEdits"`
	Suggested []*timeline.Scene `json:"suggestedEdits"`
}

func (s *Service) intentView(pos int) IntentView {
	in := s.project.Intent(pos)
	return IntentView{
		Position:  pos,
		Current:   pos == s.project.CurrentPos(),
		Intent:    *in,
		Active:    cloneScenes(s.project.ActiveEdits(pos)),
		Suggested: cloneScenes(s.project.SuggestedEdits(pos)),
	}
}

func (s *Service) Intents() []IntentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.project.Intents())
	out := make([]IntentView, n)
	for i := range out {
		out[i] = s.intentView(i)
	}
	return out
}

func (s *Service) Intent(pos int) (IntentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.project.Intent(pos) == nil {
		return IntentView{}, fmt.Errorf("%w: intent %d", ErrNotFound, pos)
	}
	return s.intentView(pos), nil
}

// AddIntent appends an empty intent and selects it.
func (s *Service) AddIntent() IntentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.project.AddIntent()
	s.touch()
	return s.intentView(s.project.CurrentPos())
}

// DeleteIntent removes the intent at pos. An unknown position changes
// nothing.
func (s *Service) DeleteIntent(pos int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.project.Intent(pos)
	if in == nil {
		return false
	}
	s.tracker.Abandon(in.ID)
	s.project.DeleteIntent(pos)
	s.touch()
	return true
}

func (s *Service) SelectIntent(pos int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.project.SetCurrentIntent(pos) {
		return false
	}
	s.touch()
	return true
}

// CopyIntent replaces the current intent with a copy of the intent at pos.
func (s *Service) CopyIntent(pos int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.project.CurrentIntent()
	if cur == nil || s.project.Intent(pos) == nil {
		return false
	}
	s.tracker.Abandon(cur.ID)
	s.project.CopyIntentToCurrent(pos)
	s.touch()
	return true
}

// BranchIntent appends a copy of the intent at pos and selects it.
func (s *Service) BranchIntent(pos int) (IntentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.project.BranchIntent(pos)
	if n < 0 {
		return IntentView{}, fmt.Errorf("%w: intent %d", ErrNotFound, pos)
	}
	s.touch()
	return s.intentView(n), nil
}

// SketchPatch sets or clears the sketch of an intent. A negative
// PlayPosition clears it.
type SketchPatch struct {
	Command      []map[string]any `json:"command"`
	PlayPosition float64          `json:"playPosition"`
}

// IntentPatch updates the defined fields of an intent.
type IntentPatch struct {
	TextCommand       *string                          `json:"textCommand,omitempty"`
	EditOperation     *timeline.Kind                   `json:"editOperation,omitempty"`
	TrackID           *int                             `json:"trackId,omitempty"`
	Sketch            *SketchPatch                     `json:"sketch,omitempty"`
	RequestParameters *timeline.RequestParametersPatch `json:"requestParameters,omitempty"`
}

// UpdateIntent applies p to the intent at pos. An unknown edit operation is
// ignored like in the timeline; an unknown track is rejected.
func (s *Service) UpdateIntent(pos int, p IntentPatch) (IntentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.project.Intent(pos) == nil {
		return IntentView{}, fmt.Errorf("%w: intent %d", ErrNotFound, pos)
	}
	if p.TrackID != nil && !s.project.SetIntentTrack(pos, *p.TrackID) {
		return IntentView{}, fmt.Errorf("%w: track %d does not exist", ErrInvalidRequest, *p.TrackID)
	}
	if p.TextCommand != nil {
		s.project.SetTextCommand(pos, *p.TextCommand)
	}
	if p.EditOperation != nil {
		s.project.SetEditOperation(pos, *p.EditOperation)
	}
	if p.Sketch != nil {
		s.project.SetSketch(pos, p.Sketch.Command, p.Sketch.PlayPosition)
	}
	if p.RequestParameters != nil {
		s.project.SetRequestParameters(pos, *p.RequestParameters)
	}
	s.touch()
	return s.intentView(pos), nil
}

// AddEdit creates a committed edit spanning [a, b] on the intent at pos.
func (s *Service) AddEdit(pos int, a, b float64) (*timeline.Scene, error) {
	if a < 0 || b < 0 {
		return nil, fmt.Errorf("%w: edit bounds must not be negative", ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.AddActiveEdit(pos, a, b)
	if sc == nil {
		return nil, fmt.Errorf("%w: intent %d", ErrNotFound, pos)
	}
	s.touch()
	return cloneScene(sc), nil
}

// DeleteEdits removes committed edits of the intent at pos and reports how
// many were removed.
func (s *Service) DeleteEdits(pos int, ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.project.DeleteEdits(pos, ids)
	if n > 0 {
		s.touch()
	}
	return n
}

// AcceptSuggestion commits a suggestion of the current intent.
func (s *Service) AcceptSuggestion(sceneID string) (*timeline.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.AcceptSuggestion(s.project.CurrentPos(), sceneID)
	if sc == nil {
		return nil, fmt.Errorf("%w: suggestion %s", ErrNotFound, sceneID)
	}
	s.touch()
	return cloneScene(sc), nil
}

// RejectSuggestion drops a suggestion of the current intent.
func (s *Service) RejectSuggestion(sceneID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.project.RejectSuggestion(s.project.CurrentPos(), sceneID) {
		return fmt.Errorf("%w: suggestion %s", ErrNotFound, sceneID)
	}
	s.touch()
	return nil
}

// AcceptAllSuggestions commits every suggestion of the current intent.
func (s *Service) AcceptAllSuggestions() []*timeline.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.project.CurrentPos()
	var out []*timeline.Scene
	for _, sg := range s.project.SuggestedEdits(pos) {
		if sc := s.project.AcceptSuggestion(pos, sg.ID); sc != nil {
			out = append(out, cloneScene(sc))
		}
	}
	if len(out) > 0 {
		s.touch()
	}
	return out
}
