package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

// SQLiteStore keeps projects in the local database opened by package db.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close is a no-op; the connection belongs to package db.
func (r *SQLiteStore) Close() error {
	return nil
}

func (r *SQLiteStore) UpsertProject(ctx context.Context, p *ProjectRecord) error {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	order, err := json.Marshal(p.TrackOrder)
	if err != nil {
		return fmt.Errorf("marshal track order: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO projects (id, title, metadata, track_order, current_intent, show_suggestions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			metadata = excluded.metadata,
			track_order = excluded.track_order,
			current_intent = excluded.current_intent,
			show_suggestions = excluded.show_suggestions,
			updated_at = excluded.updated_at
	`, p.ID, p.Title, string(meta), string(order), p.CurrentIntent, boolToInt(p.ShowSuggestions),
		p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteStore) GetProject(ctx context.Context, id string) (*ProjectRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, metadata, track_order, current_intent, show_suggestions, created_at, updated_at
		FROM projects WHERE id = ?
	`, id)

	var p ProjectRecord
	var meta, order, createdAt, updatedAt string
	var show int
	err := row.Scan(&p.ID, &p.Title, &meta, &order, &p.CurrentIntent, &show, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(meta), &p.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(order), &p.TrackOrder); err != nil {
		return nil, fmt.Errorf("decode track order of %s: %w", id, err)
	}
	p.ShowSuggestions = show == 1
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

func (r *SQLiteStore) ListProjects(ctx context.Context) ([]*ProjectSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, metadata, updated_at FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ProjectSummary
	for rows.Next() {
		var s ProjectSummary
		var meta, updatedAt string
		if err := rows.Scan(&s.ID, &s.Title, &meta, &updatedAt); err != nil {
			return nil, err
		}
		var m timeline.ProjectMetadata
		if json.Unmarshal([]byte(meta), &m) == nil {
			s.Duration = m.Duration
		}
		s.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

func (r *SQLiteStore) UpsertVideo(ctx context.Context, projectID string, position int, v *timeline.Scene) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal video: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO videos (id, project_id, position, source, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			position = excluded.position,
			source = excluded.source,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, v.ID, projectID, position, v.Source, string(data), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *SQLiteStore) ListVideos(ctx context.Context, projectID string) ([]*timeline.Scene, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data FROM videos WHERE project_id = ? ORDER BY position
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*timeline.Scene
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var v timeline.Scene
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, fmt.Errorf("decode video: %w", err)
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}

func (r *SQLiteStore) UpsertIntent(ctx context.Context, projectID string, position int, in *timeline.IntentSnapshot) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO intents (id, project_id, position, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			position = excluded.position,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, in.Intent.ID, projectID, position, string(data), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *SQLiteStore) ListIntents(ctx context.Context, projectID string) ([]*timeline.IntentSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT data FROM intents WHERE project_id = ? ORDER BY position
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*timeline.IntentSnapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var in timeline.IntentSnapshot
		if err := json.Unmarshal([]byte(data), &in); err != nil {
			return nil, fmt.Errorf("decode intent: %w", err)
		}
		out = append(out, &in)
	}
	return out, rows.Err()
}

func (r *SQLiteStore) PruneProject(ctx context.Context, projectID string, videoIDs, intentIDs []string) error {
	if err := r.prune(ctx, "videos", projectID, videoIDs); err != nil {
		return err
	}
	return r.prune(ctx, "intents", projectID, intentIDs)
}

func (r *SQLiteStore) prune(ctx context.Context, table, projectID string, keep []string) error {
	query := "DELETE FROM " + table + " WHERE project_id = ?"
	args := []any{projectID}
	if len(keep) > 0 {
		query += " AND id NOT IN (" + strings.TrimSuffix(strings.Repeat("?,", len(keep)), ",") + ")"
		for _, id := range keep {
			args = append(args, id)
		}
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *SQLiteStore) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
