package timeline

// RequestParameters are the options forwarded with a suggestion request.
type RequestParameters struct {
	ConsiderEdits bool `json:"considerEdits" yaml:"considerEdits"`
	HasText       bool `json:"hasText" yaml:"hasText"`
	HasSketch     bool `json:"hasSketch" yaml:"hasSketch"`

	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// RequestParametersPatch updates the defined fields only.
type RequestParametersPatch struct {
	ConsiderEdits *bool `json:"considerEdits,omitempty"`
	HasText       *bool `json:"hasText,omitempty"`
	HasSketch     *bool `json:"hasSketch,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

func (r *RequestParameters) apply(p RequestParametersPatch) {
	if p.ConsiderEdits != nil {
		r.ConsiderEdits = *p.ConsiderEdits
	}
	if p.HasText != nil {
		r.HasText = *p.HasText
	}
	if p.HasSketch != nil {
		r.HasSketch = *p.HasSketch
	}
	if p.Extra != nil {
		if r.Extra == nil {
			r.Extra = map[string]any{}
		}
		for k, v := range p.Extra {
			r.Extra[k] = v
		}
	}
}

// Intent is one edit set: an alternative set of edits over the base videos.
// It owns its active and suggested scenes by id; the scenes themselves live
// in the Project that holds the intent.
type Intent struct {
	ID                     string            `json:"id" yaml:"id"`
	Idx                    int               `json:"idx" yaml:"idx"`
	TextCommand            string            `json:"textCommand" yaml:"textCommand"`
	SketchCommand          []map[string]any  `json:"sketchCommand,omitempty" yaml:"sketchCommand,omitempty"`
	SketchPlayPosition     float64           `json:"sketchPlayPosition" yaml:"sketchPlayPosition"`
	TrackID                int               `json:"trackId" yaml:"trackId"`
	EditOperation          Kind              `json:"editOperationKey" yaml:"editOperationKey"`
	SuggestedEditOperation Kind              `json:"suggestedEditOperationKey" yaml:"suggestedEditOperationKey"`
	Summary                string            `json:"summary" yaml:"summary"`
	RequestParameters      RequestParameters `json:"requestParameters" yaml:"requestParameters"`

	active    []string
	suggested []string
}

func newIntent(id string, idx, trackID int) *Intent {
	return &Intent{
		ID:                 id,
		Idx:                idx,
		TrackID:            trackID,
		SketchPlayPosition: -1,
		RequestParameters: RequestParameters{
			ConsiderEdits: true,
			HasText:       true,
		},
	}
}

// ActiveIDs returns the ids of the committed edits in insertion order.
func (in *Intent) ActiveIDs() []string {
	return append([]string(nil), in.active...)
}

// SuggestedIDs returns the ids of the pending suggestions in insertion order.
func (in *Intent) SuggestedIDs() []string {
	return append([]string(nil), in.suggested...)
}

func (in *Intent) clone(id string) *Intent {
	c := *in
	c.ID = id
	c.active = nil
	c.suggested = nil
	c.RequestParameters.Extra = copyAnyMap(in.RequestParameters.Extra)
	if in.SketchCommand != nil {
		c.SketchCommand = make([]map[string]any, len(in.SketchCommand))
		for i, cmd := range in.SketchCommand {
			c.SketchCommand[i] = copyAnyMap(cmd)
		}
	}
	return &c
}

func removeID(ids []string, id string) ([]string, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...), true
		}
	}
	return ids, false
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
