package cli

import (
	"context"
	"log/slog"

	"github.com/valter-silva-au/taskpad/internal/core"
	"github.com/valter-silva-au/taskpad/internal/observability"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath    string
	Board       *core.Board
	MetricsCalc observability.MetricsCalculator
	EventLog    observability.EventLog
	Flusher     interface{ Flush(ctx context.Context) error }
	Logger      *slog.Logger
)
