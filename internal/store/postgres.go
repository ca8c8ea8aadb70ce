package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

type projectModel struct {
	ID              string         `gorm:"column:id;primaryKey"`
	Title           string         `gorm:"column:title;not null"`
	Metadata        datatypes.JSON `gorm:"column:metadata;type:jsonb;not null"`
	TrackOrder      datatypes.JSON `gorm:"column:track_order;type:jsonb;not null"`
	CurrentIntent   int            `gorm:"column:current_intent;not null;default:0"`
	ShowSuggestions bool           `gorm:"column:show_suggestions;not null;default:true"`
	CreatedAt       time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;not null;index"`
}

func (projectModel) TableName() string { return "editor_projects" }

type videoModel struct {
	ID        string         `gorm:"column:id;primaryKey"`
	ProjectID string         `gorm:"column:project_id;not null;index:idx_editor_videos_project"`
	Position  int            `gorm:"column:position;not null"`
	Source    string         `gorm:"column:source;not null;default:''"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
}

func (videoModel) TableName() string { return "editor_videos" }

type intentModel struct {
	ID        string         `gorm:"column:id;primaryKey"`
	ProjectID string         `gorm:"column:project_id;not null;index:idx_editor_intents_project"`
	Position  int            `gorm:"column:position;not null"`
	Data      datatypes.JSON `gorm:"column:data;type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null"`
}

func (intentModel) TableName() string { return "editor_intents" }

type settingModel struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (settingModel) TableName() string { return "editor_settings" }

// PostgresStore keeps projects in a shared Postgres database.
type PostgresStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewPostgresStore connects to dsn and creates the editor tables if needed.
func NewPostgresStore(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&projectModel{}, &videoModel{}, &intentModel{}, &settingModel{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

func (r *PostgresStore) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *PostgresStore) UpsertProject(ctx context.Context, p *ProjectRecord) error {
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	order, err := json.Marshal(p.TrackOrder)
	if err != nil {
		return fmt.Errorf("marshal track order: %w", err)
	}
	row := projectModel{
		ID:              p.ID,
		Title:           p.Title,
		Metadata:        datatypes.JSON(meta),
		TrackOrder:      datatypes.JSON(order),
		CurrentIntent:   p.CurrentIntent,
		ShowSuggestions: p.ShowSuggestions,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "metadata", "track_order", "current_intent", "show_suggestions", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("editor_store_upsert_project_failed", err, "project_id", p.ID)
	}
	return nil
}

func (r *PostgresStore) GetProject(ctx context.Context, id string) (*ProjectRecord, error) {
	var row projectModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.logError("editor_store_get_project_failed", err, "project_id", id)
	}

	p := &ProjectRecord{
		ID:              row.ID,
		Title:           row.Title,
		CurrentIntent:   row.CurrentIntent,
		ShowSuggestions: row.ShowSuggestions,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Metadata, &p.Metadata); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", id, err)
	}
	if err := json.Unmarshal(row.TrackOrder, &p.TrackOrder); err != nil {
		return nil, fmt.Errorf("decode track order of %s: %w", id, err)
	}
	return p, nil
}

func (r *PostgresStore) ListProjects(ctx context.Context) ([]*ProjectSummary, error) {
	var rows []projectModel
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&rows).Error; err != nil {
		return nil, r.logError("editor_store_list_projects_failed", err)
	}
	out := make([]*ProjectSummary, 0, len(rows))
	for _, row := range rows {
		s := &ProjectSummary{ID: row.ID, Title: row.Title, UpdatedAt: row.UpdatedAt}
		var m timeline.ProjectMetadata
		if json.Unmarshal(row.Metadata, &m) == nil {
			s.Duration = m.Duration
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *PostgresStore) DeleteProject(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&videoModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&intentModel{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&projectModel{}).Error
	})
}

func (r *PostgresStore) UpsertVideo(ctx context.Context, projectID string, position int, v *timeline.Scene) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal video: %w", err)
	}
	row := videoModel{
		ID:        v.ID,
		ProjectID: projectID,
		Position:  position,
		Source:    v.Source,
		Data:      datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"project_id", "position", "source", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("editor_store_upsert_video_failed", err, "project_id", projectID, "video_id", v.ID)
	}
	return nil
}

func (r *PostgresStore) ListVideos(ctx context.Context, projectID string) ([]*timeline.Scene, error) {
	var rows []videoModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("editor_store_list_videos_failed", err, "project_id", projectID)
	}
	out := make([]*timeline.Scene, 0, len(rows))
	for _, row := range rows {
		var v timeline.Scene
		if err := json.Unmarshal(row.Data, &v); err != nil {
			return nil, fmt.Errorf("decode video %s: %w", row.ID, err)
		}
		out = append(out, &v)
	}
	return out, nil
}

func (r *PostgresStore) UpsertIntent(ctx context.Context, projectID string, position int, in *timeline.IntentSnapshot) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}
	row := intentModel{
		ID:        in.Intent.ID,
		ProjectID: projectID,
		Position:  position,
		Data:      datatypes.JSON(data),
		UpdatedAt: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"project_id", "position", "data", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("editor_store_upsert_intent_failed", err, "project_id", projectID, "intent_id", in.Intent.ID)
	}
	return nil
}

func (r *PostgresStore) ListIntents(ctx context.Context, projectID string) ([]*timeline.IntentSnapshot, error) {
	var rows []intentModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("editor_store_list_intents_failed", err, "project_id", projectID)
	}
	out := make([]*timeline.IntentSnapshot, 0, len(rows))
	for _, row := range rows {
		var in timeline.IntentSnapshot
		if err := json.Unmarshal(row.Data, &in); err != nil {
			return nil, fmt.Errorf("decode intent %s: %w", row.ID, err)
		}
		out = append(out, &in)
	}
	return out, nil
}

func (r *PostgresStore) PruneProject(ctx context.Context, projectID string, videoIDs, intentIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("project_id = ?", projectID)
		if len(videoIDs) > 0 {
			q = q.Where("id NOT IN ?", videoIDs)
		}
		if err := q.Delete(&videoModel{}).Error; err != nil {
			return err
		}
		q = tx.Where("project_id = ?", projectID)
		if len(intentIDs) > 0 {
			q = q.Where("id NOT IN ?", intentIDs)
		}
		return q.Delete(&intentModel{}).Error
	})
}

func (r *PostgresStore) GetSetting(ctx context.Context, key string) (string, error) {
	var row settingModel
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", r.logError("editor_store_get_setting_failed", err, "key", key)
	}
	return row.Value, nil
}

func (r *PostgresStore) SetSetting(ctx context.Context, key, value string) error {
	row := settingModel{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (r *PostgresStore) logError(event string, err error, attrs ...any) error {
	if r.logger != nil {
		r.logger.Error(event, append(attrs, "error", err)...)
	}
	return err
}
