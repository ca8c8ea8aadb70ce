package timeline

import "sort"

// Track is one horizontal lane of the timeline with the scenes placed on it,
// ordered by offset. Suggestions are not laid out on tracks.
type Track struct {
	ID     int      `json:"trackId"`
	Scenes []*Scene `json:"scenes"`
}

// Gap is an empty stretch on a track.
type Gap struct {
	Offset   float64 `json:"offset"`
	Duration float64 `json:"duration"`
}

func (p *Project) hasTrack(id int) bool {
	for _, t := range p.tracks {
		if t == id {
			return true
		}
	}
	return false
}

// TrackOrder returns the track ids in display order.
func (p *Project) TrackOrder() []int {
	return append([]int(nil), p.tracks...)
}

// AddTrack appends an empty track and returns its id.
func (p *Project) AddTrack() int {
	id := p.Metadata.TrackCount
	p.Metadata.TrackCount++
	p.tracks = append(p.tracks, id)
	return id
}

// Tracks returns every track in display order with its videos and committed
// edits.
func (p *Project) Tracks() []Track {
	out := make([]Track, 0, len(p.tracks))
	for _, id := range p.tracks {
		out = append(out, Track{ID: id, Scenes: p.TrackScenes(id)})
	}
	return out
}

// TrackScenes returns the videos and committed edits on a track, ordered by
// offset.
func (p *Project) TrackScenes(trackID int) []*Scene {
	var out []*Scene
	for _, s := range p.Videos() {
		if s.TrackID == trackID {
			out = append(out, s)
		}
	}
	for _, in := range p.Intents() {
		for _, s := range p.lookup(in.active) {
			if s.TrackID == trackID {
				out = append(out, s)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

// MoveTrack moves the track id to the display position currently held by
// over, shifting the tracks in between. Scenes are not touched.
func (p *Project) MoveTrack(id, over int) bool {
	from, to := -1, -1
	for i, t := range p.tracks {
		if t == id {
			from = i
		}
		if t == over {
			to = i
		}
	}
	if from < 0 || to < 0 {
		return false
	}
	p.tracks = arrayMove(p.tracks, from, to)
	return true
}

func arrayMove(s []int, from, to int) []int {
	out := append([]int(nil), s...)
	v := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]int{v}, out[to:]...)...)
	return out
}

// MoveToTrack relocates a scene to another existing track.
func (p *Project) MoveToTrack(sceneID string, trackID int) bool {
	s := p.scenes[sceneID]
	if s == nil || !p.hasTrack(trackID) {
		return false
	}
	s.TrackID = trackID
	return true
}

// peers returns the other scenes that share the owner collection and track
// of s. Those are the scenes s must not overlap.
func (p *Project) peers(s *Scene) []*Scene {
	list := p.collectionOf(s.ID)
	if list == nil {
		return nil
	}
	var out []*Scene
	for _, o := range p.lookup(*list) {
		if o.ID != s.ID && o.TrackID == s.TrackID {
			out = append(out, o)
		}
	}
	return out
}

// DragScene moves a scene along its track by delta seconds, optionally onto
// another track first, and pushes its right-hand neighbours out of the way.
//
// The tentative offset is clamped at zero. Neighbours whose midpoint lies
// left of the tentative midpoint stay put and the dragged scene stops at
// their end. Neighbours to the right move together: by delta when the
// dragged scene reaches them, or by exactly the overlap when delta alone
// would not clear it. A drag that touches nothing moves only the dragged
// scene.
func (p *Project) DragScene(sceneID string, trackID *int, delta float64) bool {
	s := p.scenes[sceneID]
	if s == nil {
		return false
	}
	if trackID != nil && !p.MoveToTrack(sceneID, *trackID) {
		return false
	}

	offset := s.Offset + delta
	if offset < 0 {
		offset = 0
	}
	mid := offset + s.width()/2

	var left, right []*Scene
	for _, o := range p.peers(s) {
		if o.midpoint() > mid {
			right = append(right, o)
		} else {
			left = append(left, o)
		}
	}

	for _, o := range left {
		if e := o.Offset + o.width(); e > offset {
			offset = e
		}
	}
	end := offset + s.width()

	if len(right) > 0 {
		first := right[0].Offset
		for _, o := range right[1:] {
			if o.Offset < first {
				first = o.Offset
			}
		}
		if end > first {
			shift := end - first
			if delta > shift {
				shift = delta
			}
			for _, o := range right {
				o.SetMetadata(&p.Metadata, Patch{Offset: Float(o.Offset + shift)})
			}
		}
	}

	s.SetMetadata(&p.Metadata, Patch{Offset: Float(offset)})
	return true
}

// EmptySpaces lists the gaps between the scenes of a track, including the
// stretch between the last scene and the project end.
func (p *Project) EmptySpaces(trackID int) []Gap {
	var gaps []Gap
	cursor := 0.0
	for _, s := range p.TrackScenes(trackID) {
		if s.Offset > cursor {
			gaps = append(gaps, Gap{Offset: cursor, Duration: s.Offset - cursor})
		}
		if e := s.Offset + s.width(); e > cursor {
			cursor = e
		}
	}
	if cursor < p.Metadata.Duration {
		gaps = append(gaps, Gap{Offset: cursor, Duration: p.Metadata.Duration - cursor})
	}
	return gaps
}
