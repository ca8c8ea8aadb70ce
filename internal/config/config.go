// Package config provides configuration management for the Heimdex editor.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// Default values
	DefaultPort     = 8788
	DefaultLogLevel = "info"
	DefaultDataDir  = ".heimdex-editor"

	DefaultSuggestTimeout  = 120 // seconds
	DefaultAutosaveSeconds = 30

	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"

	// Environment variable names
	EnvPort            = "HEIMDEX_EDITOR_PORT"
	EnvLogLevel        = "HEIMDEX_EDITOR_LOG_LEVEL"
	EnvDataDir         = "HEIMDEX_EDITOR_DATA_DIR"
	EnvDBType          = "HEIMDEX_EDITOR_DB_TYPE"
	EnvPostgresDSN     = "HEIMDEX_EDITOR_POSTGRES_DSN"
	EnvSuggestURL      = "HEIMDEX_EDITOR_SUGGEST_URL"
	EnvSuggestToken    = "HEIMDEX_EDITOR_SUGGEST_TOKEN"
	EnvSuggestTimeout  = "HEIMDEX_EDITOR_SUGGEST_TIMEOUT"
	EnvAutosave        = "HEIMDEX_EDITOR_AUTOSAVE"
	EnvHeadless        = "HEIMDEX_EDITOR_HEADLESS"
	EnvShowSuggestions = "HEIMDEX_EDITOR_SHOW_SUGGESTIONS"
	EnvAPIToken        = "HEIMDEX_EDITOR_API_TOKEN"

	// Database filename
	DBFilename = "editor.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBType() string
	DBPath() string
	PostgresDSN() string
	SuggestURL() string
	SuggestToken() string
	SuggestTimeout() time.Duration
	AutosaveInterval() time.Duration
	Headless() bool
	ShowSuggestions() bool
	APIToken() string
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port        int
	logLevel    string
	dataDir     string
	dbType      string
	postgresDSN string

	suggestURL     string
	suggestToken   string
	suggestTimeout time.Duration

	autosave        time.Duration
	headless        bool
	showSuggestions bool
	apiToken        string
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:            DefaultPort,
		logLevel:        DefaultLogLevel,
		dataDir:         defaultDataDir(),
		dbType:          DBTypeSQLite,
		suggestTimeout:  DefaultSuggestTimeout * time.Second,
		autosave:        DefaultAutosaveSeconds * time.Second,
		showSuggestions: true,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	if dt := os.Getenv(EnvDBType); dt != "" {
		switch dt = strings.ToLower(dt); dt {
		case DBTypeSQLite, DBTypePostgres:
			cfg.dbType = dt
		default:
			return nil, fmt.Errorf("invalid %s: %q (want %s or %s)", EnvDBType, dt, DBTypeSQLite, DBTypePostgres)
		}
	}
	cfg.postgresDSN = os.Getenv(EnvPostgresDSN)
	if cfg.dbType == DBTypePostgres && cfg.postgresDSN == "" {
		return nil, fmt.Errorf("%s is required when %s=%s", EnvPostgresDSN, EnvDBType, DBTypePostgres)
	}

	cfg.suggestURL = strings.TrimRight(os.Getenv(EnvSuggestURL), "/")
	cfg.suggestToken = os.Getenv(EnvSuggestToken)
	cfg.apiToken = os.Getenv(EnvAPIToken)

	if v := os.Getenv(EnvSuggestTimeout); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid %s: must be a positive number of seconds", EnvSuggestTimeout)
		}
		cfg.suggestTimeout = time.Duration(secs) * time.Second
	}

	if v := os.Getenv(EnvAutosave); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("invalid %s: must be a non-negative number of seconds", EnvAutosave)
		}
		cfg.autosave = time.Duration(secs) * time.Second
	}

	if v := os.Getenv(EnvHeadless); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = b
	}

	if v := os.Getenv(EnvShowSuggestions); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvShowSuggestions, err)
		}
		cfg.showSuggestions = b
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBType returns the project store backend, sqlite or postgres
func (c *EnvConfig) DBType() string {
	return c.dbType
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

func (c *EnvConfig) PostgresDSN() string {
	return c.postgresDSN
}

// SuggestURL returns the suggestion service base URL. Empty means the local
// stub answers suggestion requests.
func (c *EnvConfig) SuggestURL() string {
	return c.suggestURL
}

func (c *EnvConfig) SuggestToken() string {
	return c.suggestToken
}

func (c *EnvConfig) SuggestTimeout() time.Duration {
	return c.suggestTimeout
}

// AutosaveInterval returns how often a dirty project is saved; zero disables
// autosave.
func (c *EnvConfig) AutosaveInterval() time.Duration {
	return c.autosave
}

func (c *EnvConfig) Headless() bool {
	return c.headless
}

// ShowSuggestions reports whether pending suggestions are listed alongside
// committed edits.
func (c *EnvConfig) ShowSuggestions() bool {
	return c.showSuggestions
}

// APIToken returns the bearer token local API callers must present. When
// empty, a token is generated once and kept in the project store.
func (c *EnvConfig) APIToken() string {
	return c.apiToken
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
