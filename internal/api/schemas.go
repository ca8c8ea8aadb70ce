package api

import (
	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/suggest"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State    string        `json:"state"`
	Project  editor.Status `json:"project"`
	Autosave *AutosaveInfo `json:"autosave,omitempty"`
}

type AutosaveInfo struct {
	Running bool `json:"running"`
	Paused  bool `json:"paused"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type LoadProjectRequest struct {
	ID string `json:"id"`
}

type ProjectsResponse struct {
	Projects []ProjectSummaryResponse `json:"projects"`
}

type ProjectSummaryResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	UpdatedAt string  `json:"updatedAt"`
}

type ShowSuggestionsRequest struct {
	Show bool `json:"show"`
}

type ScenesResponse struct {
	Scenes []*timeline.Scene `json:"scenes"`
}

type SceneResponse struct {
	Scene *timeline.Scene `json:"scene"`
}

type SplitRequest struct {
	Pivot float64 `json:"pivot"`
}

type SplitResponse struct {
	Left  *timeline.Scene `json:"left"`
	Right *timeline.Scene `json:"right"`
}

type TracksResponse struct {
	Tracks []timeline.Track `json:"tracks"`
}

type AddTrackResponse struct {
	TrackID int `json:"trackId"`
}

type MoveTrackRequest struct {
	Over int `json:"over"`
}

type TrackOrderResponse struct {
	Order []int `json:"order"`
}

// GapsResponse carries Pixels only when the caller passes ?pxPerSec, one
// entry per gap in the same order.
type GapsResponse struct {
	Gaps   []timeline.Gap `json:"gaps"`
	Pixels []PixelSpan    `json:"pixels,omitempty"`
}

type PixelSpan struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

type TranscriptResponse struct {
	Segments []timeline.Segment `json:"segments"`
	// Index is the segment playing at the requested time, or -1.
	Index *int `json:"index,omitempty"`
}

type IntentsResponse struct {
	Intents []editor.IntentView `json:"intents"`
}

type AddEditRequest struct {
	Start  float64 `json:"start"`
	Finish float64 `json:"finish"`
}

type DeleteEditsRequest struct {
	IDs []string `json:"ids"`
}

type DeleteEditsResponse struct {
	Deleted int `json:"deleted"`
}

type EditOperationsResponse struct {
	Operations []timeline.EditOperation `json:"operations"`
}

type SuggestionStatusResponse struct {
	Status suggest.Status `json:"status"`
}

type NavigateRequest struct {
	Direction    timeline.Direction `json:"direction"`
	PlayPosition float64            `json:"playPosition"`
	HasSelection bool               `json:"hasSelection"`
}
