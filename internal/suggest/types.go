// Package suggest talks to the external suggestion service and tracks the
// lifecycle of a suggestion request.
package suggest

import (
	"context"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// Client is the suggestion service contract: a summary of the intent's text
// command, then a set of suggested edits for the whole request.
type Client interface {
	Summary(ctx context.Context, req SummaryRequest) (*SummaryResponse, error)
	Suggestions(ctx context.Context, req SuggestionRequest) (*SuggestionResponse, error)
}

type SummaryRequest struct {
	Input string `json:"input"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
}

// Edit is one edit as exchanged with the suggestion service.
type Edit struct {
	Start    float64        `json:"start"`
	Finish   float64        `json:"finish"`
	Offset   float64        `json:"offset"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Rotation float64        `json:"rotation"`
	Params   map[string]any `json:"parameters,omitempty"`
}

// RequestParameters extends the intent's own request options with the
// command it carries.
type RequestParameters struct {
	timeline.RequestParameters
	Text            string           `json:"text"`
	Sketch          []map[string]any `json:"sketch,omitempty"`
	SketchTimestamp float64          `json:"sketchTimestamp"`
	EditOperation   string           `json:"editOperation"`
}

type SuggestionRequest struct {
	ProjectID            string                   `json:"projectId"`
	ProjectMetadata      timeline.ProjectMetadata `json:"projectMetadata"`
	Edits                []Edit                   `json:"edits"`
	RequestParameters    RequestParameters        `json:"requestParameters"`
	EditParameterOptions map[string][]string      `json:"editParameterOptions"`
	EditOperations       []string                 `json:"editOperations"`
}

type ResponseParameters struct {
	EditOperation string `json:"editOperation"`
}

type SuggestionResponse struct {
	RequestParameters ResponseParameters `json:"requestParameters"`
	Edits             []Edit             `json:"edits"`
}

// EditFromScene converts a committed scene into its wire form.
func EditFromScene(s *timeline.Scene) Edit {
	e := Edit{
		Start:    s.Start,
		Finish:   s.Finish,
		Offset:   s.Offset,
		X:        s.X,
		Y:        s.Y,
		Width:    s.Width,
		Height:   s.Height,
		Rotation: s.Rotation,
	}
	if len(s.Params) > 0 {
		e.Params = make(map[string]any, len(s.Params))
		for k, v := range s.Params {
			e.Params[k] = v
		}
	}
	return e
}

// Patch converts a suggested edit into a scene update. Zero sizes keep the
// scene defaults.
func (e Edit) Patch() timeline.Patch {
	p := timeline.Patch{
		Start:    timeline.Float(e.Start),
		Finish:   timeline.Float(e.Finish),
		Offset:   timeline.Float(e.Offset),
		X:        timeline.Float(e.X),
		Y:        timeline.Float(e.Y),
		Rotation: timeline.Float(e.Rotation),
		Params:   e.Params,
	}
	if e.Width > 0 {
		p.Width = timeline.Float(e.Width)
	}
	if e.Height > 0 {
		p.Height = timeline.Float(e.Height)
	}
	return p
}

// BuildRequest assembles the suggestion request for the intent at pos.
func BuildRequest(p *timeline.Project, pos int) (SuggestionRequest, bool) {
	in := p.Intent(pos)
	if in == nil {
		return SuggestionRequest{}, false
	}
	req := SuggestionRequest{
		ProjectID:            p.Metadata.Title,
		ProjectMetadata:      p.Metadata,
		Edits:                []Edit{},
		EditParameterOptions: timeline.EditParameterOptions(),
		RequestParameters: RequestParameters{
			RequestParameters: in.RequestParameters,
			Text:              in.TextCommand,
			Sketch:            in.SketchCommand,
			SketchTimestamp:   in.SketchPlayPosition,
			EditOperation:     string(in.EditOperation),
		},
	}
	for _, s := range p.ActiveEdits(pos) {
		req.Edits = append(req.Edits, EditFromScene(s))
	}
	for _, op := range timeline.EditOperations() {
		req.EditOperations = append(req.EditOperations, string(op.Kind))
	}
	return req, true
}
