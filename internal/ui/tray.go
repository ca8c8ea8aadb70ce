package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/getlantern/systray"

	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/suggest"
)

const refreshInterval = 5 * time.Second

type Tray struct {
	editor    *editor.Service
	autosaver *editor.Autosaver
	logger    *slog.Logger

	statusItem     *systray.MenuItem
	savedItem      *systray.MenuItem
	suggestionItem *systray.MenuItem
	pauseItem      *systray.MenuItem

	mu   sync.Mutex
	stop chan struct{}

	onQuit func()
}

type TrayConfig struct {
	Editor    *editor.Service
	Autosaver *editor.Autosaver
	Logger    *slog.Logger
	OnQuit    func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		editor:    cfg.Editor,
		autosaver: cfg.Autosaver,
		logger:    cfg.Logger,
		onQuit:    cfg.OnQuit,
		stop:      make(chan struct{}),
	}
}

// Run blocks on the platform event loop until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Heimdex")
	systray.SetTooltip("Heimdex Editor")

	t.statusItem = systray.AddMenuItem("Project: Untitled", "Open project")
	t.statusItem.Disable()

	t.savedItem = systray.AddMenuItem("Saved: never", "Last save")
	t.savedItem.Disable()

	t.suggestionItem = systray.AddMenuItem("Suggestions: idle", "Suggestion request")
	t.suggestionItem.Disable()

	systray.AddSeparator()

	saveItem := systray.AddMenuItem("Save Now", "Save the open project")
	suggestItem := systray.AddMenuItem("Request Suggestions", "Ask for suggestions on the current intent")
	t.pauseItem = systray.AddMenuItem("Pause Autosave", "Pause autosave")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Heimdex Editor")

	t.refresh()
	go t.refreshLoop()

	go func() {
		for {
			select {
			case <-saveItem.ClickedCh:
				t.handleSave()
			case <-suggestItem.ClickedCh:
				t.handleSuggest()
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				close(t.stop)
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) refreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.refresh()
		}
	}
}

func (t *Tray) refresh() {
	paused := t.autosaver != nil && t.autosaver.IsPaused()
	labels := statusLabels(t.editor.Status(), paused, time.Now())

	t.mu.Lock()
	defer t.mu.Unlock()
	t.statusItem.SetTitle(labels.project)
	t.savedItem.SetTitle(labels.saved)
	t.suggestionItem.SetTitle(labels.suggestion)
}

func (t *Tray) handleSave() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := t.editor.Save(ctx); err != nil {
		t.logger.Error("failed to save project", "error", err)
	}
	t.refresh()
}

func (t *Tray) handleSuggest() {
	if _, err := t.editor.RequestSuggestions(); err != nil {
		t.logger.Warn("suggestion request not started", "error", err)
	}
	t.refresh()
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.autosaver == nil {
		return
	}

	if t.autosaver.IsPaused() {
		t.autosaver.Resume()
		t.pauseItem.SetTitle("Pause Autosave")
	} else {
		t.autosaver.Pause()
		t.pauseItem.SetTitle("Resume Autosave")
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}

type trayLabels struct {
	project    string
	saved      string
	suggestion string
}

func statusLabels(st editor.Status, autosavePaused bool, now time.Time) trayLabels {
	project := "Project: " + st.Title
	if st.Dirty {
		project += " (unsaved)"
	}

	saved := "Saved: never"
	if st.LastSaved != nil {
		saved = "Saved: " + humanize.RelTime(*st.LastSaved, now, "ago", "from now")
	}
	if autosavePaused {
		saved += ", autosave paused"
	}

	var suggestion string
	switch st.Suggestion.State {
	case suggest.StateRequesting:
		suggestion = "Suggestions: waiting for summary"
	case suggest.StateReceivedSummary:
		suggestion = "Suggestions: waiting for edits"
	case suggest.StateReceivedSuggestions:
		suggestion = "Suggestions: ready"
	case suggest.StateFailed:
		suggestion = "Suggestions: failed"
	default:
		suggestion = "Suggestions: idle"
	}
	if st.Intents > 1 {
		suggestion += fmt.Sprintf(" (intent %d of %d)", st.CurrentIntent+1, st.Intents)
	}

	return trayLabels{project: project, saved: saved, suggestion: suggestion}
}
