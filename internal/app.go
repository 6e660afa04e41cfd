// Package internal provides the App struct that wires every component of
// taskpad together and initializes the CLI layer.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/valter-silva-au/taskpad/internal/cli"
	"github.com/valter-silva-au/taskpad/internal/core"
	"github.com/valter-silva-au/taskpad/internal/logging"
	"github.com/valter-silva-au/taskpad/internal/observability"
	"github.com/valter-silva-au/taskpad/internal/storage"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

// EventLogFile is the name of the JSONL event log inside the data directory.
const EventLogFile = ".taskpad_events.jsonl"

// App is the application root. It owns the single Board and every service
// the Board depends on.
type App struct {
	BasePath string
	RunID    string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.Config

	Logger    *slog.Logger
	logCloser io.Closer

	// Persistence
	Persistence *storage.TaskPersistence

	// Core
	Store core.TaskStore
	Board *core.Board

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components and loads the saved task
// collection. basePath is the data directory (see ResolveBasePath).
func NewApp(ctx context.Context, basePath string) (*App, error) {
	app := &App{BasePath: basePath, RunID: uuid.NewString()}

	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, cfgErr := app.ConfigMgr.LoadConfig()
	if cfgErr != nil {
		// Fall back to defaults; the error is logged once the logger exists.
		cfg = core.DefaultConfig()
	}
	app.Config = cfg

	// --- Logging ---
	logger, closer, err := logging.New(cfg.Logging, basePath, app.RunID)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	app.Logger, app.logCloser = logger, closer
	if cfgErr != nil {
		logger.Warn("invalid configuration, using defaults", "error", cfgErr)
	}

	// --- Observability ---
	var evtAdapter core.EventLogger
	if cfg.Events.Enabled {
		app.EventLog, err = observability.NewJSONLEventLog(filepath.Join(basePath, EventLogFile))
		if err != nil {
			// Non-fatal: run without the event log.
			logger.Warn("event log disabled", "error", err)
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
		evtAdapter = &eventLogAdapter{log: app.EventLog, runID: app.RunID}
	}

	// --- Persistence ---
	codec, err := storage.NewCodec(cfg.Storage.Format)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	kv := storage.NewFileKVStore(basePath, codec.Ext())
	app.Persistence = storage.NewTaskPersistence(kv, codec, cfg.Storage.Key, cfg.Storage.QueueSize, logger)

	// --- Core ---
	app.Store = core.NewTaskStore(app.Persistence, core.NewTaskIDGenerator(nil), evtAdapter, logger.With("component", "store"))
	app.Store.Initialize(ctx)
	app.Board = core.NewBoard(app.Store, core.BoardOptions{
		ApplyAllFields: cfg.Editing.ApplyAllFields,
		DefaultFilter:  cfg.UI.DefaultFilter,
		Logger:         logger.With("component", "board"),
	})

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Board = app.Board
	cli.MetricsCalc = app.MetricsCalc
	cli.EventLog = app.EventLog
	cli.Flusher = app.Persistence
	cli.Logger = logger

	return app, nil
}

// Close drains pending saves and releases the event log and log file. It is
// safe to call more than once.
func (a *App) Close() error {
	var errs []error
	if a.Persistence != nil {
		a.Persistence.Close()
	}
	if a.EventLog != nil {
		if err := a.EventLog.Close(); err != nil {
			errs = append(errs, err)
		}
		a.EventLog = nil
	}
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, err)
		}
		a.logCloser = nil
	}
	return errors.Join(errs...)
}

// ResolveBasePath determines the taskpad data directory. It checks the
// TASKPAD_HOME env var, then walks up from the working directory looking for
// .taskpad.yaml, and finally falls back to ~/.taskpad.
func ResolveBasePath() string {
	if home := os.Getenv("TASKPAD_HOME"); home != "" {
		return home
	}
	if dir, err := os.Getwd(); err == nil {
		for {
			if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName+".yaml")); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".taskpad")
	}
	return ".taskpad"
}

// --- Adapters ---

// eventLogAdapter adapts observability.EventLog to core.EventLogger.
type eventLogAdapter struct {
	log   observability.EventLog
	runID string
}

func (a *eventLogAdapter) LogTaskEvent(eventType string, task models.Task) error {
	return a.log.Write(observability.Event{
		Time:      time.Now().UTC(),
		Type:      eventType,
		TaskID:    task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		Run:       a.runID,
	})
}
