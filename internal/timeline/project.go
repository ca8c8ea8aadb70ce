package timeline

import (
	"math"
	"slices"
)

// Project is the session handle for one editing project. It owns every scene
// and intent; intents and scenes refer to each other by id only.
type Project struct {
	Metadata        ProjectMetadata
	ShowSuggestions bool

	scenes  map[string]*Scene
	intents map[string]*Intent
	order   []string
	videos  []string
	cur     int
	tracks  []int

	newID func(prefix string) string
}

// NewProject returns a project with the given metadata, one empty intent and
// TrackCount empty tracks.
func NewProject(meta ProjectMetadata) *Project {
	if meta.TrackCount < 1 {
		meta.TrackCount = 1
	}
	meta.TotalIntentCount = 0
	p := &Project{
		Metadata:        meta,
		ShowSuggestions: true,
		scenes:          map[string]*Scene{},
		intents:         map[string]*Intent{},
		newID:           NewID,
	}
	p.tracks = defaultTrackOrder(meta.TrackCount)
	p.AddIntent()
	return p
}

// SetIDGenerator replaces the id source. Intended for tests.
func (p *Project) SetIDGenerator(fn func(prefix string) string) {
	if fn != nil {
		p.newID = fn
	}
}

func defaultTrackOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// Scene returns the scene with the given id, or nil.
func (p *Project) Scene(id string) *Scene {
	return p.scenes[id]
}

// UpdateScene applies patch to the scene. It returns false when the scene is
// unknown or the patch names a track that does not exist.
func (p *Project) UpdateScene(id string, patch Patch) bool {
	s := p.scenes[id]
	if s == nil {
		return false
	}
	if patch.TrackID != nil && !p.hasTrack(*patch.TrackID) {
		return false
	}
	s.SetMetadata(&p.Metadata, patch)
	return true
}

// Intents returns the intents in display order.
func (p *Project) Intents() []*Intent {
	out := make([]*Intent, len(p.order))
	for i, id := range p.order {
		out[i] = p.intents[id]
	}
	return out
}

// Intent returns the intent at position pos, or nil when out of range.
func (p *Project) Intent(pos int) *Intent {
	if pos < 0 || pos >= len(p.order) {
		return nil
	}
	return p.intents[p.order[pos]]
}

// IntentPos returns the position of the intent with the given id, or -1.
func (p *Project) IntentPos(id string) int {
	return indexOf(p.order, id)
}

func (p *Project) CurrentPos() int {
	return p.cur
}

func (p *Project) CurrentIntent() *Intent {
	return p.Intent(p.cur)
}

// AddIntent appends an empty intent and makes it current.
func (p *Project) AddIntent() *Intent {
	p.Metadata.TotalIntentCount++
	in := newIntent(p.newID("intent"), p.Metadata.TotalIntentCount, 0)
	p.intents[in.ID] = in
	p.order = append(p.order, in.ID)
	p.cur = len(p.order) - 1
	return in
}

// SetCurrentIntent selects the intent at pos.
func (p *Project) SetCurrentIntent(pos int) bool {
	if p.Intent(pos) == nil {
		return false
	}
	p.cur = pos
	return true
}

// DeleteIntent removes the intent at pos with all of its scenes. The last
// intent becomes current; deleting the only intent leaves a fresh empty one.
func (p *Project) DeleteIntent(pos int) bool {
	in := p.Intent(pos)
	if in == nil {
		return false
	}
	p.dropIntent(in)
	p.order = append(p.order[:pos:pos], p.order[pos+1:]...)
	for i := pos; i < len(p.order); i++ {
		p.restackIntent(i)
	}
	if len(p.order) == 0 {
		p.AddIntent()
		return true
	}
	p.cur = len(p.order) - 1
	return true
}

// BranchIntent appends a deep copy of the intent at pos and makes it current.
// It returns the position of the copy, or -1 when pos is out of range.
func (p *Project) BranchIntent(pos int) int {
	src := p.Intent(pos)
	if src == nil {
		return -1
	}
	p.Metadata.TotalIntentCount++
	c := p.deepCopyIntent(src)
	c.Idx = p.Metadata.TotalIntentCount
	p.intents[c.ID] = c
	p.order = append(p.order, c.ID)
	p.cur = len(p.order) - 1
	p.restackIntent(p.cur)
	return p.cur
}

// CopyIntentToCurrent replaces the current intent with a deep copy of the
// intent at pos. The copy keeps the display index of the intent it replaces.
func (p *Project) CopyIntentToCurrent(pos int) bool {
	src := p.Intent(pos)
	cur := p.CurrentIntent()
	if src == nil || cur == nil {
		return false
	}
	c := p.deepCopyIntent(src)
	c.Idx = cur.Idx
	p.dropIntent(cur)
	p.intents[c.ID] = c
	p.order[p.cur] = c.ID
	p.restackIntent(p.cur)
	return true
}

// deepCopyIntent registers fresh copies of the active scenes of src under a
// new intent id. Suggestions are not copied.
func (p *Project) deepCopyIntent(src *Intent) *Intent {
	c := src.clone(p.newID("intent"))
	for _, id := range src.active {
		s := p.scenes[id]
		if s == nil {
			continue
		}
		cp := s.Clone(p.newID("scene"))
		cp.IntentID = c.ID
		p.scenes[cp.ID] = cp
		c.active = append(c.active, cp.ID)
	}
	return c
}

func (p *Project) dropIntent(in *Intent) {
	for _, id := range in.active {
		delete(p.scenes, id)
	}
	for _, id := range in.suggested {
		delete(p.scenes, id)
	}
	delete(p.intents, in.ID)
}

// restackIntent sets the z of every scene of the intent at pos to pos+1.
func (p *Project) restackIntent(pos int) {
	in := p.Intent(pos)
	if in == nil {
		return
	}
	z := float64(pos + 1)
	for _, id := range in.active {
		if s := p.scenes[id]; s != nil {
			s.Z = z
		}
	}
	for _, id := range in.suggested {
		if s := p.scenes[id]; s != nil {
			s.Z = z
		}
	}
}

// SetEditOperation assigns the category of the intent at pos and retags its
// scenes. KindNone clears the category. Unknown kinds are ignored.
func (p *Project) SetEditOperation(pos int, k Kind) bool {
	in := p.Intent(pos)
	if in == nil {
		return false
	}
	if k != KindNone && !k.IsEditOperation() {
		return false
	}
	in.EditOperation = k
	if in.SuggestedEditOperation == k {
		in.SuggestedEditOperation = KindNone
	}
	for _, id := range append(slices.Clone(in.active), in.suggested...) {
		if s := p.scenes[id]; s != nil {
			s.Kind = k
		}
	}
	return true
}

func (p *Project) SetTextCommand(pos int, cmd string) bool {
	in := p.Intent(pos)
	if in == nil {
		return false
	}
	in.TextCommand = cmd
	in.RequestParameters.HasText = cmd != ""
	return true
}

// SetSketch stores a sketch drawn at playPosition. A negative position
// clears it.
func (p *Project) SetSketch(pos int, cmd []map[string]any, playPosition float64) bool {
	in := p.Intent(pos)
	if in == nil {
		return false
	}
	if playPosition < 0 {
		in.SketchCommand = nil
		in.SketchPlayPosition = -1
		in.RequestParameters.HasSketch = false
		return true
	}
	in.SketchCommand = cmd
	in.SketchPlayPosition = playPosition
	in.RequestParameters.HasSketch = len(cmd) > 0
	return true
}

// SetSummary stores the service's reading of the intent's command.
func (p *Project) SetSummary(intentID, summary string) bool {
	in := p.intents[intentID]
	if in == nil {
		return false
	}
	in.Summary = summary
	return true
}

func (p *Project) SetRequestParameters(pos int, patch RequestParametersPatch) bool {
	in := p.Intent(pos)
	if in == nil {
		return false
	}
	in.RequestParameters.apply(patch)
	return true
}

func (p *Project) SetIntentTrack(pos int, trackID int) bool {
	in := p.Intent(pos)
	if in == nil || !p.hasTrack(trackID) {
		return false
	}
	in.TrackID = trackID
	return true
}

// ActiveEdits returns the committed scenes of the intent at pos.
func (p *Project) ActiveEdits(pos int) []*Scene {
	in := p.Intent(pos)
	if in == nil {
		return nil
	}
	return p.lookup(in.active)
}

// SuggestedEdits returns the pending suggestions of the intent at pos.
func (p *Project) SuggestedEdits(pos int) []*Scene {
	in := p.Intent(pos)
	if in == nil {
		return nil
	}
	return p.lookup(in.suggested)
}

// AddActiveEdit creates an edit spanning [min(a,b), max(a,b)) on the intent
// at pos. It returns nil when pos is out of range.
func (p *Project) AddActiveEdit(pos int, a, b float64) *Scene {
	in := p.Intent(pos)
	if in == nil {
		return nil
	}
	start, finish := math.Min(a, b), math.Max(a, b)
	s := newScene(p.newID("scene"), in.EditOperation, in.TrackID)
	s.IntentID = in.ID
	s.SetMetadata(&p.Metadata, Patch{
		Duration: Float(p.Metadata.Duration),
		Start:    Float(start),
		Finish:   Float(finish),
		Offset:   Float(start),
		Z:        Float(float64(pos + 1)),
	})
	p.scenes[s.ID] = s
	in.active = append(in.active, s.ID)
	return s
}

// DeleteEdits removes the given committed edits from the intent at pos.
// Unknown ids are skipped.
func (p *Project) DeleteEdits(pos int, ids []string) int {
	in := p.Intent(pos)
	if in == nil {
		return 0
	}
	n := 0
	for _, id := range ids {
		var ok bool
		if in.active, ok = removeID(in.active, id); ok {
			delete(p.scenes, id)
			n++
		}
	}
	return n
}

// SetSuggestions replaces the suggestions of the intent with the given id by
// one scene per patch, stacked above the intent. The scenes take the
// intent's own operation; proposed is only recorded as the suggested
// operation when it differs.
func (p *Project) SetSuggestions(intentID string, proposed Kind, edits []Patch) []*Scene {
	in := p.intents[intentID]
	if in == nil {
		return nil
	}
	p.ClearSuggestions(intentID)
	pos := p.IntentPos(intentID)
	if proposed != in.EditOperation {
		in.SuggestedEditOperation = proposed
	}

	out := make([]*Scene, 0, len(edits))
	for _, e := range edits {
		s := newScene(p.newID("scene"), in.EditOperation, in.TrackID)
		s.IntentID = in.ID
		s.Suggested = true
		s.Processing = false
		s.SetMetadata(&p.Metadata, Patch{
			Duration: Float(p.Metadata.Duration),
			Z:        Float(float64(pos + 1)),
		})
		s.SetMetadata(&p.Metadata, e)
		p.scenes[s.ID] = s
		in.suggested = append(in.suggested, s.ID)
		out = append(out, s)
	}
	return out
}

// ClearSuggestions drops every pending suggestion of the intent.
func (p *Project) ClearSuggestions(intentID string) {
	in := p.intents[intentID]
	if in == nil {
		return
	}
	for _, id := range in.suggested {
		delete(p.scenes, id)
	}
	in.suggested = nil
	in.SuggestedEditOperation = KindNone
}

// AcceptSuggestion moves a deep copy of the suggestion into the committed
// edits of the intent at pos and drops the suggestion.
func (p *Project) AcceptSuggestion(pos int, sceneID string) *Scene {
	in := p.Intent(pos)
	if in == nil {
		return nil
	}
	rest, ok := removeID(in.suggested, sceneID)
	if !ok {
		return nil
	}
	src := p.scenes[sceneID]
	c := src.Clone(p.newID("scene"))
	c.Suggested = false
	c.IntentID = in.ID
	p.scenes[c.ID] = c
	in.active = append(in.active, c.ID)

	in.suggested = rest
	delete(p.scenes, sceneID)
	return c
}

// RejectSuggestion drops the suggestion from the intent at pos.
func (p *Project) RejectSuggestion(pos int, sceneID string) bool {
	in := p.Intent(pos)
	if in == nil {
		return false
	}
	rest, ok := removeID(in.suggested, sceneID)
	if !ok {
		return false
	}
	in.suggested = rest
	delete(p.scenes, sceneID)
	return true
}

// AddVideo places a source video of the given native duration on a track.
// Tracks are created as needed.
func (p *Project) AddVideo(source string, duration float64, transcript []Segment, trackID int) *Scene {
	if trackID < 0 {
		trackID = 0
	}
	for !p.hasTrack(trackID) {
		p.AddTrack()
	}
	s := newScene(p.newID("scene"), KindVideo, trackID)
	s.Source = source
	s.Thumbnails = []string{source}
	s.Transcript = append([]Segment(nil), transcript...)
	s.SetMetadata(&p.Metadata, Patch{
		Duration:   Float(duration),
		Start:      Float(0),
		Finish:     Float(duration),
		Offset:     Float(0),
		Processing: Bool(false),
	})
	p.scenes[s.ID] = s
	p.videos = append(p.videos, s.ID)
	return s
}

// Videos returns the base video scenes in insertion order.
func (p *Project) Videos() []*Scene {
	return p.lookup(p.videos)
}

// RemoveScene deletes a video or edit wherever it lives.
func (p *Project) RemoveScene(id string) bool {
	list := p.collectionOf(id)
	if list == nil {
		return false
	}
	*list, _ = removeID(*list, id)
	delete(p.scenes, id)
	return true
}

// collectionOf returns the id list that owns the scene.
func (p *Project) collectionOf(id string) *[]string {
	s := p.scenes[id]
	if s == nil {
		return nil
	}
	if s.IntentID == "" {
		if indexOf(p.videos, id) >= 0 {
			return &p.videos
		}
		return nil
	}
	in := p.intents[s.IntentID]
	if in == nil {
		return nil
	}
	if s.Suggested {
		return &in.suggested
	}
	return &in.active
}

func (p *Project) lookup(ids []string) []*Scene {
	out := make([]*Scene, 0, len(ids))
	for _, id := range ids {
		if s := p.scenes[id]; s != nil {
			out = append(out, s)
		}
	}
	return out
}
