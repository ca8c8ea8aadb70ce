package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/heimdex/heimdex-editor/internal/api"
	"github.com/heimdex/heimdex-editor/internal/config"
	"github.com/heimdex/heimdex-editor/internal/db"
	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/logging"
	"github.com/heimdex/heimdex-editor/internal/media"
	"github.com/heimdex/heimdex-editor/internal/store"
	"github.com/heimdex/heimdex-editor/internal/suggest"
	"github.com/heimdex/heimdex-editor/internal/ui"
)

const settingAuthToken = "auth_token"

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting heimdex editor",
		"version", config.Version,
		"data_dir", logging.SanitizePath(cfg.DataDir()),
		"db_type", cfg.DBType(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	projects, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	authToken := cfg.APIToken()
	if authToken == "" {
		if authToken, err = ensureAuthToken(ctx, projects); err != nil {
			return fmt.Errorf("failed to ensure auth token: %w", err)
		}
	}

	var client suggest.Client
	if cfg.SuggestURL() != "" {
		client = suggest.NewHTTPClient(cfg.SuggestURL(), cfg.SuggestToken(), cfg.SuggestTimeout(), logger)
		logger.Info("suggestion service configured",
			"base_url", cfg.SuggestURL(),
			"token", logging.SanitizeToken(cfg.SuggestToken()),
		)
	} else {
		client = suggest.NewStubClient(logger)
		logger.Info("no suggestion service configured, using local stub")
	}

	svc := editor.NewService(editor.Options{
		Store:           projects,
		Client:          client,
		Logger:          logging.WithComponent(logger, "editor"),
		ShowSuggestions: cfg.ShowSuggestions(),
	})
	defer svc.Close()

	if err := svc.Open(ctx); err != nil {
		logger.Warn("could not reopen last project, starting fresh", "error", err)
	}
	st := svc.Status()
	logger.Info("project open", "project_id", st.ProjectID, "title", st.Title)

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  HEIMDEX EDITOR v%-24s ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:    http://127.0.0.1:%-27d ║\n", cfg.Port())
	fmt.Printf("║  Auth Token: %-45s ║\n", authToken)
	fmt.Printf("║  Project:    %-45s ║\n", st.ProjectID)
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	autosaver := editor.NewAutosaver(svc, cfg.AutosaveInterval(), logging.WithComponent(logger, "autosave"))
	autosaveDone := make(chan struct{})
	go func() {
		defer close(autosaveDone)
		autosaver.Start(ctx)
	}()

	apiServer := api.NewServer(api.ServerConfig{
		Port:      cfg.Port(),
		Editor:    svc,
		Autosaver: autosaver,
		Media:     media.NewServer(logger),
		Logger:    logger,
		StartTime: startTime,
		Version:   config.Version,
		AuthToken: authToken,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Editor:    svc,
			Autosaver: autosaver,
			Logger:    logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	// The autosaver flushes unsaved changes once its context is cancelled.
	cancel()
	<-autosaveDone
	svc.Close()

	logger.Info("shutdown complete")
	return nil
}

// openStore opens the configured project store and returns a function that
// releases it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, func(), error) {
	if cfg.DBType() == config.DBTypePostgres {
		pg, err := store.NewPostgresStore(ctx, cfg.PostgresDSN(), logging.WithComponent(logger, "store"))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return pg, func() { pg.Close() }, nil
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store.NewSQLiteStore(database.Conn()), func() { database.Close() }, nil
}

func ensureAuthToken(ctx context.Context, s store.Store) (string, error) {
	existing, err := s.GetSetting(ctx, settingAuthToken)
	if err == nil && existing != "" {
		return existing, nil
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	if err := s.SetSetting(ctx, settingAuthToken, token); err != nil {
		return "", err
	}

	return token, nil
}
