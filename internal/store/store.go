// Package store persists projects as one project document plus one document
// per video and per intent.
package store

import (
	"context"
	"time"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// SettingLastProject names the setting that remembers the project to reopen
// on start.
const SettingLastProject = "last_project_id"

// ProjectRecord is the project document without its videos and intents.
type ProjectRecord struct {
	ID              string
	Title           string
	Metadata        timeline.ProjectMetadata
	TrackOrder      []int
	CurrentIntent   int
	ShowSuggestions bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type ProjectSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Duration  float64   `json:"duration"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is implemented by the SQLite and Postgres backends. Getters return
// nil and no error when the document does not exist.
type Store interface {
	UpsertProject(ctx context.Context, rec *ProjectRecord) error
	GetProject(ctx context.Context, id string) (*ProjectRecord, error)
	ListProjects(ctx context.Context) ([]*ProjectSummary, error)
	DeleteProject(ctx context.Context, id string) error

	UpsertVideo(ctx context.Context, projectID string, position int, v *timeline.Scene) error
	ListVideos(ctx context.Context, projectID string) ([]*timeline.Scene, error)

	UpsertIntent(ctx context.Context, projectID string, position int, in *timeline.IntentSnapshot) error
	ListIntents(ctx context.Context, projectID string) ([]*timeline.IntentSnapshot, error)

	// PruneProject deletes the videos and intents of the project whose ids
	// are not listed.
	PruneProject(ctx context.Context, projectID string, videoIDs, intentIDs []string) error

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	Close() error
}
