package editor

import (
	"errors"
	"fmt"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// VideoInput describes a source video to place on the timeline.
type VideoInput struct {
	Source     string             `json:"source"`
	Duration   float64            `json:"duration"`
	Transcript []timeline.Segment `json:"transcript"`
	TrackID    int                `json:"trackId"`
}

func (s *Service) AddVideo(in VideoInput) (*timeline.Scene, error) {
	if in.Source == "" {
		return nil, fmt.Errorf("%w: source is required", ErrInvalidRequest)
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	}
	if in.TrackID < 0 {
		return nil, fmt.Errorf("%w: track must not be negative", ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.AddVideo(in.Source, in.Duration, in.Transcript, in.TrackID)
	s.touch()
	s.log("video added", "scene_id", sc.ID, "source", in.Source, "track_id", sc.TrackID)
	return cloneScene(sc), nil
}

func (s *Service) Videos() []*timeline.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneScenes(s.project.Videos())
}

func (s *Service) Scene(id string) (*timeline.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.Scene(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: scene %s", ErrNotFound, id)
	}
	return cloneScene(sc), nil
}

// UpdateScene applies p to the scene after checking that the result stays
// a well-formed interval on an existing track.
func (s *Service) UpdateScene(id string, p timeline.Patch) (*timeline.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.Scene(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: scene %s", ErrNotFound, id)
	}
	if err := validatePatch(sc, p); err != nil {
		return nil, err
	}
	if !s.project.UpdateScene(id, p) {
		return nil, fmt.Errorf("%w: track %d does not exist", ErrInvalidRequest, *p.TrackID)
	}
	s.touch()
	return cloneScene(sc), nil
}

func validatePatch(sc *timeline.Scene, p timeline.Patch) error {
	start, finish := sc.Start, sc.Finish
	if p.Start != nil {
		start = *p.Start
	}
	if p.Finish != nil {
		finish = *p.Finish
	}
	switch {
	case finish < start:
		return fmt.Errorf("%w: finish %.3f before start %.3f", ErrInvalidRequest, finish, start)
	case p.Offset != nil && *p.Offset < 0:
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidRequest)
	case p.Speed != nil && *p.Speed <= 0:
		return fmt.Errorf("%w: speed must be positive", ErrInvalidRequest)
	case p.Duration != nil && *p.Duration < 0:
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidRequest)
	}
	return nil
}

// DragInput moves a scene by Delta seconds, optionally onto another track.
// When DeltaPx is set the delta is a pointer distance on a timeline drawn at
// PxPerSec and Delta is ignored.
type DragInput struct {
	Delta    float64  `json:"delta"`
	DeltaPx  *float64 `json:"deltaPx,omitempty"`
	PxPerSec float64  `json:"pxPerSec,omitempty"`
	TrackID  *int     `json:"trackId,omitempty"`
}

func (in DragInput) seconds() (float64, error) {
	if in.DeltaPx == nil {
		return in.Delta, nil
	}
	if in.PxPerSec <= 0 {
		return 0, fmt.Errorf("%w: pxPerSec must be positive with deltaPx", ErrInvalidRequest)
	}
	return timeline.PxToSec(*in.DeltaPx, in.PxPerSec), nil
}

// DragScene moves the scene and returns the scenes of its track afterwards,
// since neighbours may have been pushed.
func (s *Service) DragScene(id string, in DragInput) ([]*timeline.Scene, error) {
	delta, err := in.seconds()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.Scene(id)
	if sc == nil {
		return nil, fmt.Errorf("%w: scene %s", ErrNotFound, id)
	}
	if !s.project.DragScene(id, in.TrackID, delta) {
		return nil, fmt.Errorf("%w: track %d does not exist", ErrInvalidRequest, *in.TrackID)
	}
	s.touch()
	return cloneScenes(s.project.TrackScenes(sc.TrackID)), nil
}

// SplitScene cuts the scene at the timeline position pivot, which must lie
// strictly inside it.
func (s *Service) SplitScene(id string, pivot float64) (left, right *timeline.Scene, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.Scene(id)
	if sc == nil {
		return nil, nil, fmt.Errorf("%w: scene %s", ErrNotFound, id)
	}
	if pivot <= sc.Offset || pivot >= sc.End() {
		return nil, nil, fmt.Errorf("%w: pivot %.3f outside scene [%.3f, %.3f]", ErrInvalidRequest, pivot, sc.Offset, sc.End())
	}
	l, r, ok := s.project.SplitScene(id, pivot)
	if !ok {
		return nil, nil, fmt.Errorf("%w: scene %s", ErrNotFound, id)
	}
	s.touch()
	return cloneScene(l), cloneScene(r), nil
}

// DuplicateScene places a copy of the scene in the next free space of its
// track.
func (s *Service) DuplicateScene(id string) (*timeline.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.project.DuplicateScene(id)
	switch {
	case errors.Is(err, timeline.ErrNoSpace):
		return nil, ErrNoSpace
	case errors.Is(err, timeline.ErrSceneNotFound):
		return nil, fmt.Errorf("%w: scene %s", ErrNotFound, id)
	case err != nil:
		return nil, err
	}
	s.touch()
	return cloneScene(c), nil
}

// RemoveScene deletes a video or an edit.
func (s *Service) RemoveScene(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.project.RemoveScene(id) {
		return fmt.Errorf("%w: scene %s", ErrNotFound, id)
	}
	s.touch()
	return nil
}

func (s *Service) Tracks() []timeline.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	tracks := s.project.Tracks()
	for i := range tracks {
		tracks[i].Scenes = cloneScenes(tracks[i].Scenes)
	}
	return tracks
}

func (s *Service) AddTrack() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.project.AddTrack()
	s.touch()
	return id
}

// MoveTrack moves track id to the display position of track over.
func (s *Service) MoveTrack(id, over int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.project.MoveTrack(id, over) {
		return nil, fmt.Errorf("%w: track %d or %d", ErrNotFound, id, over)
	}
	s.touch()
	return s.project.TrackOrder(), nil
}

func (s *Service) EmptySpaces(trackID int) ([]timeline.Gap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !hasTrack(s.project, trackID) {
		return nil, fmt.Errorf("%w: track %d", ErrNotFound, trackID)
	}
	return s.project.EmptySpaces(trackID), nil
}

func hasTrack(p *timeline.Project, id int) bool {
	for _, t := range p.TrackOrder() {
		if t == id {
			return true
		}
	}
	return false
}

// Transcript returns the merged timeline transcript.
func (s *Service) Transcript() []timeline.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Transcript()
}

// TranscriptAt returns the merged transcript and the index of the segment
// playing at t, or -1.
func (s *Service) TranscriptAt(t float64) ([]timeline.Segment, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	segs := s.project.Transcript()
	return segs, timeline.TranscriptIndexAt(segs, t)
}

// Objects returns the scenes of one category as the rendering layer sees
// them. KindVideo lists the base videos.
func (s *Service) Objects(k timeline.Kind) ([]*timeline.Scene, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case k == timeline.KindVideo:
		return cloneScenes(s.project.Videos()), nil
	case k.IsEditOperation():
		return cloneScenes(s.project.Objects(k)), nil
	}
	return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, k)
}

// SkippedParts returns the cuts of the other intents, or of every intent
// when all is set.
func (s *Service) SkippedParts(all bool) []*timeline.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()

	if all {
		return cloneScenes(s.project.AllSkippedParts())
	}
	return cloneScenes(s.project.SkippedParts())
}

// OrderedObjects returns every edit in drawing order.
func (s *Service) OrderedObjects() []*timeline.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneScenes(s.project.OrderedAllObjects())
}

// Navigate returns the neighbouring edit of the current intent, or
// ErrNotFound when there is none in that direction.
func (s *Service) Navigate(dir timeline.Direction, playPosition float64, hasSelection bool) (*timeline.Scene, error) {
	if dir != timeline.Prev && dir != timeline.Next {
		return nil, fmt.Errorf("%w: direction must be prev or next", ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sc := s.project.Navigate(dir, playPosition, hasSelection)
	if sc == nil {
		return nil, fmt.Errorf("%w: no edit %s of %.3f", ErrNotFound, dir, playPosition)
	}
	return cloneScene(sc), nil
}
