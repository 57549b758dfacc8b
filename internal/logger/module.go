package logger

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Module wires slog logger for dependency injection.
var Module = fx.Provide(New)

// FxEvents routes fx lifecycle events through l at debug level, errors stay at error level.
func FxEvents(l *slog.Logger) fxevent.Logger {
	events := &fxevent.SlogLogger{Logger: l.With(slog.String("component", "fx"))}
	events.UseLogLevel(slog.LevelDebug)
	return events
}
