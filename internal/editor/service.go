// Package editor is the application layer over the timeline: it serialises
// every mutation of the open project, validates input, persists snapshots
// and runs suggestion requests in the background.
package editor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/suggest"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// Options configures a Service. Store and Client may be nil: without a
// store the project lives in memory only, without a client suggestions are
// answered by suggest.StubClient.
type Options struct {
	Store           store.Store
	Client          suggest.Client
	Logger          *slog.Logger
	ShowSuggestions bool
}

// Service owns the open project. All project state is touched under mu,
// which makes every operation atomic with respect to the others.
type Service struct {
	mu      sync.Mutex
	project *timeline.Project
	version uint64
	saved   uint64
	savedAt time.Time

	showSuggestions bool

	store   store.Store
	client  suggest.Client
	tracker *suggest.Tracker
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(opts Options) *Service {
	client := opts.Client
	if client == nil {
		client = suggest.NewStubClient(opts.Logger)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		showSuggestions: opts.ShowSuggestions,
		store:           opts.Store,
		client:          client,
		tracker:         suggest.NewTracker(),
		logger:          opts.Logger,
		ctx:             ctx,
		cancel:          cancel,
	}
	s.project = s.freshProject("")
	return s
}

// Close cancels background suggestion requests and waits for them.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until no suggestion request is running.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) freshProject(id string) *timeline.Project {
	meta := timeline.DefaultMetadata()
	if id != "" {
		meta.ProjectID = id
	}
	p := timeline.NewProject(meta)
	p.ShowSuggestions = s.showSuggestions
	return p
}

// touch marks the project as changed. Callers hold mu.
func (s *Service) touch() {
	s.version++
}

func (s *Service) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

// Status summarises the session for the status endpoint and the tray.
type Status struct {
	ProjectID      string         `json:"projectId"`
	Title          string         `json:"title"`
	Duration       float64        `json:"duration"`
	Intents        int            `json:"intents"`
	CurrentIntent  int            `json:"currentIntent"`
	Dirty          bool           `json:"dirty"`
	LastSaved      *time.Time     `json:"lastSaved,omitempty"`
	LastSavedLabel string         `json:"lastSavedLabel"`
	Suggestion     suggest.Status `json:"suggestion"`
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		ProjectID:      s.project.Metadata.ProjectID,
		Title:          s.project.Metadata.Title,
		Duration:       s.project.Metadata.Duration,
		Intents:        len(s.project.Intents()),
		CurrentIntent:  s.project.CurrentPos(),
		Dirty:          s.version != s.saved,
		LastSavedLabel: "never",
		Suggestion:     s.tracker.Status(),
	}
	if !s.savedAt.IsZero() {
		t := s.savedAt
		st.LastSaved = &t
		st.LastSavedLabel = humanize.Time(t)
	}
	return st
}

// Snapshot returns a detached copy of the whole project.
func (s *Service) Snapshot() *timeline.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project.Snapshot()
}

// Dirty reports whether the project changed since it was last saved.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version != s.saved
}

// Save writes the current project to the store.
func (s *Service) Save(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("%w: no project store configured", ErrDependencyUnavailable)
	}

	s.mu.Lock()
	snap := s.project.Snapshot()
	version := s.version
	s.mu.Unlock()

	if err := store.SaveSnapshot(ctx, s.store, snap); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	s.mu.Lock()
	if s.project.Metadata.ProjectID == snap.Metadata.ProjectID && version > s.saved {
		s.saved = version
		s.savedAt = time.Now()
	}
	s.mu.Unlock()

	s.log("project saved",
		"project_id", snap.Metadata.ProjectID,
		"videos", len(snap.Videos),
		"intents", len(snap.Intents),
	)
	return nil
}

// SaveIfDirty saves only when there are unsaved changes.
func (s *Service) SaveIfDirty(ctx context.Context) (bool, error) {
	if s.store == nil || !s.Dirty() {
		return false, nil
	}
	if err := s.Save(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Load replaces the open project with the stored project id. A project that
// does not exist yet starts from the defaults under that id.
func (s *Service) Load(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: project id is required", ErrInvalidRequest)
	}
	if s.store == nil {
		return fmt.Errorf("%w: no project store configured", ErrDependencyUnavailable)
	}

	snap, err := store.LoadSnapshot(ctx, s.store, id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Reset()
	if snap == nil {
		s.project = s.freshProject(id)
		s.log("project not found, starting fresh", "project_id", id)
	} else {
		s.project = timeline.Restore(snap)
		s.project.ShowSuggestions = s.showSuggestions
		s.log("project loaded", "project_id", id)
	}
	s.version++
	if snap != nil {
		s.saved = s.version
	}
	s.savedAt = time.Time{}
	return nil
}

// Open reopens the most recently saved project, if any.
func (s *Service) Open(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	id, err := store.LastProjectID(ctx, s.store)
	if err != nil {
		return fmt.Errorf("look up last project: %w", err)
	}
	if id == "" {
		return nil
	}
	return s.Load(ctx, id)
}

// Reset discards the open project and starts a new one with default
// settings.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Reset()
	s.project = s.freshProject("")
	s.touch()
}

// Import replaces the open project with a snapshot, typically read from a
// project document.
func (s *Service) Import(snap *timeline.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: empty project document", ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Reset()
	s.project = timeline.Restore(snap)
	if s.project.Metadata.ProjectID == "" {
		s.project.Metadata.ProjectID = timeline.NewID("project")
	}
	s.project.ShowSuggestions = s.showSuggestions
	s.touch()
	return nil
}

// ListProjects returns the stored projects, newest first.
func (s *Service) ListProjects(ctx context.Context) ([]*store.ProjectSummary, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no project store configured", ErrDependencyUnavailable)
	}
	return s.store.ListProjects(ctx)
}

// MetadataPatch updates project-level settings.
type MetadataPatch struct {
	Title  *string `json:"title,omitempty"`
	FPS    *int    `json:"fps,omitempty"`
	Width  *int    `json:"width,omitempty"`
	Height *int    `json:"height,omitempty"`
}

func (s *Service) UpdateMetadata(p MetadataPatch) (timeline.ProjectMetadata, error) {
	if (p.FPS != nil && *p.FPS <= 0) || (p.Width != nil && *p.Width <= 0) || (p.Height != nil && *p.Height <= 0) {
		return timeline.ProjectMetadata{}, fmt.Errorf("%w: fps, width and height must be positive", ErrInvalidRequest)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &s.project.Metadata
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.FPS != nil {
		m.FPS = *p.FPS
	}
	if p.Width != nil {
		m.Width = *p.Width
	}
	if p.Height != nil {
		m.Height = *p.Height
	}
	s.touch()
	return *m, nil
}

// SetShowSuggestions toggles whether pending suggestions appear in the
// category listings.
func (s *Service) SetShowSuggestions(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showSuggestions = show
	s.project.ShowSuggestions = show
}

// EditOperations lists the selectable edit categories.
func (s *Service) EditOperations() []timeline.EditOperation {
	return timeline.EditOperations()
}

func cloneScenes(in []*timeline.Scene) []*timeline.Scene {
	out := make([]*timeline.Scene, len(in))
	for i, sc := range in {
		out[i] = sc.Clone(sc.ID)
	}
	return out
}

func cloneScene(sc *timeline.Scene) *timeline.Scene {
	if sc == nil {
		return nil
	}
	return sc.Clone(sc.ID)
}
