package editor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Autosaver periodically writes the open project to the store when it has
// unsaved changes.
type Autosaver struct {
	service  *Service
	logger   *slog.Logger
	interval time.Duration
	running  atomic.Bool
	paused   atomic.Bool
}

func NewAutosaver(service *Service, interval time.Duration, logger *slog.Logger) *Autosaver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Autosaver{
		service:  service,
		logger:   logger,
		interval: interval,
	}
}

// Start blocks until ctx is done. A non-positive interval disables it. A
// final save is attempted on the way out.
func (a *Autosaver) Start(ctx context.Context) {
	if a.interval <= 0 || a.running.Swap(true) {
		return
	}

	a.logger.Info("autosave started", "interval", a.interval)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("autosave stopping")
			a.flush(context.Background())
			a.running.Store(false)
			return
		case <-ticker.C:
			if !a.paused.Load() {
				a.flush(ctx)
			}
		}
	}
}

func (a *Autosaver) flush(ctx context.Context) {
	saved, err := a.service.SaveIfDirty(ctx)
	if err != nil {
		a.logger.Error("autosave failed", "error", err)
		return
	}
	if saved {
		a.logger.Debug("autosaved project")
	}
}

func (a *Autosaver) Pause() {
	a.paused.Store(true)
	a.logger.Info("autosave paused")
}

func (a *Autosaver) Resume() {
	a.paused.Store(false)
	a.logger.Info("autosave resumed")
}

func (a *Autosaver) IsPaused() bool {
	return a.paused.Load()
}

func (a *Autosaver) IsRunning() bool {
	return a.running.Load()
}
