package timeline

// Snapshot is a detached, serializable copy of a project.
type Snapshot struct {
	Metadata        ProjectMetadata  `json:"projectMetadata" yaml:"projectMetadata"`
	ShowSuggestions bool             `json:"showSuggestions" yaml:"showSuggestions"`
	CurrentIntent   int              `json:"currentIntent" yaml:"currentIntent"`
	TrackOrder      []int            `json:"trackOrder" yaml:"trackOrder"`
	Videos          []*Scene         `json:"videos" yaml:"videos"`
	Intents         []IntentSnapshot `json:"intents" yaml:"intents"`
}

// IntentSnapshot is an intent together with copies of its scenes.
type IntentSnapshot struct {
	Intent    Intent   `json:"intent" yaml:"intent"`
	Active    []*Scene `json:"activeEdits" yaml:"activeEdits"`
	Suggested []*Scene `json:"suggestedEdits" yaml:"suggestedEdits"`
}

// Snapshot copies the full project state.
func (p *Project) Snapshot() *Snapshot {
	snap := &Snapshot{
		Metadata:        p.Metadata,
		ShowSuggestions: p.ShowSuggestions,
		CurrentIntent:   p.cur,
		TrackOrder:      p.TrackOrder(),
		Videos:          cloneAll(p.Videos()),
	}
	for _, in := range p.Intents() {
		c := in.clone(in.ID)
		snap.Intents = append(snap.Intents, IntentSnapshot{
			Intent:    *c,
			Active:    cloneAll(p.lookup(in.active)),
			Suggested: cloneAll(p.lookup(in.suggested)),
		})
	}
	return snap
}

// Restore builds a project from a snapshot. Missing or inconsistent parts
// fall back to their defaults: a project always has at least one intent and
// one track, and every track id below TrackCount appears exactly once in the
// display order.
func Restore(snap *Snapshot) *Project {
	if snap == nil {
		return NewProject(DefaultMetadata())
	}
	meta := snap.Metadata
	if meta.TrackCount < 1 {
		meta.TrackCount = 1
	}
	p := &Project{
		Metadata:        meta,
		ShowSuggestions: snap.ShowSuggestions,
		scenes:          map[string]*Scene{},
		intents:         map[string]*Intent{},
		newID:           NewID,
	}

	for _, v := range snap.Videos {
		if v == nil {
			continue
		}
		s := v.Clone(v.ID)
		s.IntentID = ""
		s.Suggested = false
		s.Kind = KindVideo
		p.scenes[s.ID] = s
		p.videos = append(p.videos, s.ID)
	}

	for _, is := range snap.Intents {
		in := is.Intent.clone(is.Intent.ID)
		if in.ID == "" {
			in.ID = p.newID("intent")
		}
		for _, sc := range is.Active {
			if sc == nil {
				continue
			}
			s := sc.Clone(sc.ID)
			s.IntentID = in.ID
			s.Suggested = false
			p.scenes[s.ID] = s
			in.active = append(in.active, s.ID)
		}
		for _, sc := range is.Suggested {
			if sc == nil {
				continue
			}
			s := sc.Clone(sc.ID)
			s.IntentID = in.ID
			s.Suggested = true
			p.scenes[s.ID] = s
			in.suggested = append(in.suggested, s.ID)
		}
		p.intents[in.ID] = in
		p.order = append(p.order, in.ID)
		if in.Idx > p.Metadata.TotalIntentCount {
			p.Metadata.TotalIntentCount = in.Idx
		}
	}

	for _, s := range p.scenes {
		if s.TrackID >= p.Metadata.TrackCount {
			p.Metadata.TrackCount = s.TrackID + 1
		}
	}
	p.tracks = validTrackOrder(snap.TrackOrder, p.Metadata.TrackCount)

	if len(p.order) == 0 {
		p.AddIntent()
	}
	p.cur = snap.CurrentIntent
	if p.cur < 0 || p.cur >= len(p.order) {
		p.cur = len(p.order) - 1
	}
	return p
}

func validTrackOrder(order []int, n int) []int {
	if len(order) != n {
		return defaultTrackOrder(n)
	}
	seen := make(map[int]bool, n)
	for _, id := range order {
		if id < 0 || id >= n || seen[id] {
			return defaultTrackOrder(n)
		}
		seen[id] = true
	}
	return append([]int(nil), order...)
}

func cloneAll(in []*Scene) []*Scene {
	out := make([]*Scene, len(in))
	for i, s := range in {
		out[i] = s.Clone(s.ID)
	}
	return out
}
