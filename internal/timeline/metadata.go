package timeline

import "slices"

// ProjectMetadata carries the project-wide settings shared by every scene.
type ProjectMetadata struct {
	ProjectID        string  `json:"projectId" yaml:"projectId"`
	Title            string  `json:"title" yaml:"title"`
	FPS              int     `json:"fps" yaml:"fps"`
	Width            int     `json:"width" yaml:"width"`
	Height           int     `json:"height" yaml:"height"`
	Duration         float64 `json:"duration" yaml:"duration"`
	TrackCount       int     `json:"trackCount" yaml:"trackCount"`
	TotalIntentCount int     `json:"totalIntentCount" yaml:"totalIntentCount"`
}

const (
	DefaultFPS        = 25
	DefaultWidth      = 854
	DefaultHeight     = 480
	DefaultDuration   = 10
	DefaultTrackCount = 1
)

// DefaultMetadata returns the settings of a freshly created project.
func DefaultMetadata() ProjectMetadata {
	return ProjectMetadata{
		ProjectID:  NewID("project"),
		Title:      "Untitled",
		FPS:        DefaultFPS,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Duration:   DefaultDuration,
		TrackCount: DefaultTrackCount,
	}
}

// extend raises the duration to end when a scene reaches or passes it.
func (m *ProjectMetadata) extend(end float64) {
	if end >= m.Duration {
		m.Duration = end
	}
}

// PxToSec converts a horizontal pixel distance on a timeline rendered at
// pxPerSec into seconds.
func PxToSec(px, pxPerSec float64) float64 {
	if pxPerSec <= 0 {
		return 0
	}
	return px / pxPerSec
}

func SecToPx(sec, pxPerSec float64) float64 {
	return sec * pxPerSec
}

// EditOperation describes one selectable edit category.
type EditOperation struct {
	Kind      Kind   `json:"kind"`
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	Supported bool   `json:"supported"`
	Linearize bool   `json:"linearize"`
}

var editOperations = []EditOperation{
	{Kind: KindText, Title: "Text", Icon: "text", Supported: true, Linearize: false},
	{Kind: KindImage, Title: "Image", Icon: "image", Supported: true, Linearize: false},
	{Kind: KindShape, Title: "Shape", Icon: "shape", Supported: true, Linearize: false},
	{Kind: KindCut, Title: "Cut", Icon: "scissors", Supported: true, Linearize: true},
	{Kind: KindCrop, Title: "Crop", Icon: "crop", Supported: true, Linearize: true},
	{Kind: KindZoom, Title: "Zoom", Icon: "zoom", Supported: true, Linearize: true},
	{Kind: KindBlur, Title: "Blur", Icon: "blur", Supported: true, Linearize: true},
}

// editParameterOptions are the fixed choices for enumerated scene
// parameters, keyed by parameter path.
var editParameterOptions = map[string][]string{
	"style.fontFamily":    {"Arial", "Times New Roman", "Courier New"},
	"type":                {"rectangle", "circle", "star"},
	"style.align":         {"left", "center", "right"},
	"style.verticalAlign": {"top", "middle", "bottom"},
}

// EditParameterOptions returns a copy of the allowed values per enumerated
// parameter.
func EditParameterOptions() map[string][]string {
	out := make(map[string][]string, len(editParameterOptions))
	for k, v := range editParameterOptions {
		out[k] = slices.Clone(v)
	}
	return out
}

// EditOperations lists the edit categories in display order.
func EditOperations() []EditOperation {
	return append([]EditOperation(nil), editOperations...)
}

// LookupOperation returns the operation registered for k.
func LookupOperation(k Kind) (EditOperation, bool) {
	for _, op := range editOperations {
		if op.Kind == k {
			return op, true
		}
	}
	return EditOperation{}, false
}

// IsEditOperation reports whether k can be assigned to an intent.
func (k Kind) IsEditOperation() bool {
	_, ok := LookupOperation(k)
	return ok
}
