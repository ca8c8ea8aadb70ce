// Package timeline holds the scene scheduling and revision engine of the editor:
// placed scenes, alternative edit sets (intents), track layout, split and
// duplicate operations and the transcript merge.
//
// Nothing in this package blocks or performs I/O. All state lives in a
// Project, which callers pass around explicitly and which must not be
// mutated from more than one goroutine at a time.
package timeline

import "github.com/google/uuid"

// Kind tags a scene with the edit operation it renders as.
type Kind string

const (
	KindNone  Kind = ""
	KindVideo Kind = "video"
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindShape Kind = "shape"
	KindCut   Kind = "cut"
	KindCrop  Kind = "crop"
	KindZoom  Kind = "zoom"
	KindBlur  Kind = "blur"
)

// Segment is one transcript line in either native or timeline time.
type Segment struct {
	Start  float64 `json:"start" yaml:"start"`
	Finish float64 `json:"finish" yaml:"finish"`
	Text   string  `json:"text" yaml:"text"`
}

// Scene is one placed, time-bounded object on the timeline.
//
// Start and Finish are trim bounds in the scene's native time, Offset is its
// position on the shared timeline. The scene never validates its own bounds:
// a Finish before Start yields a zero-width scene that is never visible.
type Scene struct {
	ID         string `json:"id" yaml:"id"`
	Kind       Kind   `json:"kind" yaml:"kind"`
	IntentID   string `json:"intentId,omitempty" yaml:"intentId,omitempty"`
	Suggested  bool   `json:"isSuggested" yaml:"isSuggested"`
	Processing bool   `json:"processing" yaml:"processing"`

	Thumbnails []string `json:"thumbnails" yaml:"thumbnails"`

	Start    float64 `json:"start" yaml:"start"`
	Finish   float64 `json:"finish" yaml:"finish"`
	Duration float64 `json:"duration" yaml:"duration"`
	Offset   float64 `json:"offset" yaml:"offset"`
	Speed    float64 `json:"speed" yaml:"speed"`

	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Z        float64 `json:"z" yaml:"z"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	ScaleX   float64 `json:"scaleX" yaml:"scaleX"`
	ScaleY   float64 `json:"scaleY" yaml:"scaleY"`
	Rotation float64 `json:"rotation" yaml:"rotation"`

	TrackID int `json:"trackId" yaml:"trackId"`

	Animation map[string]any     `json:"animation" yaml:"animation"`
	FilterMap map[string]float64 `json:"filterMap" yaml:"filterMap"`
	Params    map[string]any     `json:"params,omitempty" yaml:"params,omitempty"`

	// Source and Transcript are only meaningful for KindVideo.
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	Transcript []Segment `json:"transcript,omitempty" yaml:"transcript,omitempty"`
}

// Patch is a partial scene update. Nil fields leave the scene unchanged;
// maps are merged key by key into the existing ones.
type Patch struct {
	Thumbnails []string `json:"thumbnails,omitempty"`

	Start    *float64 `json:"start,omitempty"`
	Finish   *float64 `json:"finish,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
	Offset   *float64 `json:"offset,omitempty"`
	Speed    *float64 `json:"speed,omitempty"`

	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Z        *float64 `json:"z,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	ScaleX   *float64 `json:"scaleX,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	TrackID *int `json:"trackId,omitempty"`

	Animation map[string]any     `json:"animation,omitempty"`
	FilterMap map[string]float64 `json:"filterMap,omitempty"`
	Params    map[string]any     `json:"params,omitempty"`

	Processing *bool `json:"processing,omitempty"`
}

func Float(v float64) *float64 { return &v }

func Int(v int) *int { return &v }

func Bool(v bool) *bool { return &v }

// NewID returns a fresh identifier such as "scene-6f1c...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func newScene(id string, kind Kind, trackID int) *Scene {
	return &Scene{
		ID:         id,
		Kind:       kind,
		Processing: true,
		Thumbnails: []string{"edit"},
		Speed:      1,
		Width:      200,
		Height:     100,
		ScaleX:     1,
		ScaleY:     1,
		TrackID:    trackID,
		Animation:  map[string]any{},
		FilterMap: map[string]float64{
			"opacity":    1,
			"brightness": 1,
			"blur":       0,
		},
	}
}

// End is the timeline position where the scene stops.
func (s *Scene) End() float64 {
	return s.Offset + (s.Finish - s.Start)
}

// SceneDuration is the trimmed length of the scene.
func (s *Scene) SceneDuration() float64 {
	return s.Finish - s.Start
}

// width is SceneDuration clamped to zero, used wherever a degenerate scene
// has to behave as an empty interval.
func (s *Scene) width() float64 {
	if d := s.SceneDuration(); d > 0 {
		return d
	}
	return 0
}

func (s *Scene) midpoint() float64 {
	return s.Offset + s.width()/2
}

// IsVisible reports whether t falls inside [Offset, End).
func (s *Scene) IsVisible(t float64) bool {
	return s.Offset <= t && s.End() > t
}

// OffsetToNative maps a timeline timestamp back to the scene's native time.
func (s *Scene) OffsetToNative(t float64) float64 {
	return t - s.Offset + s.Start
}

// SetMetadata applies the defined fields of p. When the resulting End reaches
// or passes the project duration, the duration in meta is raised to End; the
// duration is never lowered. meta may be nil for detached scenes.
func (s *Scene) SetMetadata(meta *ProjectMetadata, p Patch) {
	if p.Thumbnails != nil {
		s.Thumbnails = append([]string(nil), p.Thumbnails...)
	}
	setFloat(&s.Start, p.Start)
	setFloat(&s.Duration, p.Duration)
	setFloat(&s.Finish, p.Finish)
	setFloat(&s.Offset, p.Offset)
	setFloat(&s.Speed, p.Speed)

	setFloat(&s.X, p.X)
	setFloat(&s.Y, p.Y)
	setFloat(&s.Z, p.Z)
	setFloat(&s.Width, p.Width)
	setFloat(&s.Height, p.Height)
	setFloat(&s.ScaleX, p.ScaleX)
	setFloat(&s.ScaleY, p.ScaleY)
	setFloat(&s.Rotation, p.Rotation)

	if p.Animation != nil {
		if s.Animation == nil {
			s.Animation = map[string]any{}
		}
		for k, v := range p.Animation {
			s.Animation[k] = v
		}
	}
	if p.FilterMap != nil {
		if s.FilterMap == nil {
			s.FilterMap = map[string]float64{}
		}
		for k, v := range p.FilterMap {
			s.FilterMap[k] = v
		}
	}
	if p.Params != nil {
		if s.Params == nil {
			s.Params = map[string]any{}
		}
		for k, v := range p.Params {
			s.Params[k] = v
		}
	}

	if p.TrackID != nil {
		s.TrackID = *p.TrackID
	}
	if p.Processing != nil {
		s.Processing = *p.Processing
	}

	if meta != nil {
		meta.extend(s.End())
	}
}

// Metadata returns the full state of s as a patch, so that applying it to
// another scene makes the two structurally equal.
func (s *Scene) Metadata() Patch {
	c := s.Clone(s.ID)
	return Patch{
		Thumbnails: c.Thumbnails,
		Start:      Float(c.Start),
		Finish:     Float(c.Finish),
		Duration:   Float(c.Duration),
		Offset:     Float(c.Offset),
		Speed:      Float(c.Speed),
		X:          Float(c.X),
		Y:          Float(c.Y),
		Z:          Float(c.Z),
		Width:      Float(c.Width),
		Height:     Float(c.Height),
		ScaleX:     Float(c.ScaleX),
		ScaleY:     Float(c.ScaleY),
		Rotation:   Float(c.Rotation),
		TrackID:    Int(c.TrackID),
		Animation:  c.Animation,
		FilterMap:  c.FilterMap,
		Params:     c.Params,
		Processing: Bool(c.Processing),
	}
}

// Clone returns a deep copy of s carrying the given id.
func (s *Scene) Clone(id string) *Scene {
	c := *s
	c.ID = id
	c.Thumbnails = append([]string(nil), s.Thumbnails...)
	c.Transcript = append([]Segment(nil), s.Transcript...)
	c.Animation = copyAnyMap(s.Animation)
	c.Params = copyAnyMap(s.Params)
	if s.FilterMap != nil {
		c.FilterMap = make(map[string]float64, len(s.FilterMap))
		for k, v := range s.FilterMap {
			c.FilterMap[k] = v
		}
	}
	return &c
}

// Split divides s at the timeline timestamp pivot into two fresh copies.
// The left copy ends at the native pivot, the right copy starts there and is
// placed at pivot. s itself is left untouched; replacing it is up to the
// caller. A pivot outside (Offset, End) yields a degenerate half.
func (s *Scene) Split(meta *ProjectMetadata, pivot float64, newID func(string) string) (left, right *Scene) {
	native := s.OffsetToNative(pivot)

	right = s.Clone(newID("scene"))
	left = s.Clone(newID("scene"))

	right.SetMetadata(meta, Patch{
		Offset: Float(pivot),
		Start:  Float(native),
	})
	left.SetMetadata(meta, Patch{
		Finish: Float(native),
	})
	return left, right
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func copyAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
