package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

var ErrNoProjectID = errors.New("snapshot has no project id")

// SaveSnapshot writes the project document, then every video and intent
// document concurrently, then drops documents that are no longer part of the
// project. The project is remembered as the one to reopen.
func SaveSnapshot(ctx context.Context, s Store, snap *timeline.Snapshot) error {
	id := snap.Metadata.ProjectID
	if id == "" {
		return ErrNoProjectID
	}

	now := time.Now().UTC()
	rec := &ProjectRecord{
		ID:              id,
		Title:           snap.Metadata.Title,
		Metadata:        snap.Metadata,
		TrackOrder:      snap.TrackOrder,
		CurrentIntent:   snap.CurrentIntent,
		ShowSuggestions: snap.ShowSuggestions,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.UpsertProject(ctx, rec); err != nil {
		return fmt.Errorf("save project %s: %w", id, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	videoIDs := make([]string, len(snap.Videos))
	for i, v := range snap.Videos {
		i, v := i, v
		videoIDs[i] = v.ID
		g.Go(func() error {
			if err := s.UpsertVideo(gctx, id, i, v); err != nil {
				return fmt.Errorf("save video %s: %w", v.ID, err)
			}
			return nil
		})
	}
	intentIDs := make([]string, len(snap.Intents))
	for i := range snap.Intents {
		i := i
		in := &snap.Intents[i]
		intentIDs[i] = in.Intent.ID
		g.Go(func() error {
			if err := s.UpsertIntent(gctx, id, i, in); err != nil {
				return fmt.Errorf("save intent %s: %w", in.Intent.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.PruneProject(ctx, id, videoIDs, intentIDs); err != nil {
		return fmt.Errorf("prune project %s: %w", id, err)
	}
	if err := s.SetSetting(ctx, SettingLastProject, id); err != nil {
		return fmt.Errorf("remember project %s: %w", id, err)
	}
	return nil
}

// LoadSnapshot reads a project back. It returns nil and no error when the
// project does not exist.
func LoadSnapshot(ctx context.Context, s Store, id string) (*timeline.Snapshot, error) {
	rec, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", id, err)
	}
	if rec == nil {
		return nil, nil
	}

	var videos []*timeline.Scene
	var intents []*timeline.IntentSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		videos, err = s.ListVideos(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		intents, err = s.ListIntents(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load project %s documents: %w", id, err)
	}

	snap := &timeline.Snapshot{
		Metadata:        rec.Metadata,
		ShowSuggestions: rec.ShowSuggestions,
		CurrentIntent:   rec.CurrentIntent,
		TrackOrder:      rec.TrackOrder,
		Videos:          videos,
	}
	snap.Metadata.ProjectID = rec.ID
	for _, in := range intents {
		snap.Intents = append(snap.Intents, *in)
	}
	return snap, nil
}

// LastProjectID returns the id of the most recently saved project, or "".
func LastProjectID(ctx context.Context, s Store) (string, error) {
	return s.GetSetting(ctx, SettingLastProject)
}
