// Package cli implements the setgrid command-line interface.
//
// The commands read grid solutions, color and lay out their entities, and
// render the result. Color assignments are cached in the backend named by
// the config file. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute a layout and write it as JSON
//   - render: Generate SVG, PNG or JSON drawings
//   - convert: Rewrite a solution between text and JSON
//   - colors: Show or reoptimize the color assignment
//   - stack: Debug the paint order of overlapping entities
//   - inspect: Browse a layout interactively
//   - cache: Manage the color cache
//   - serve: Expose the pipeline over HTTP
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
//
// # Configuration
//
// Defaults are read from $XDG_CONFIG_HOME/setgrid/config.toml (or the file
// given by --config) and overridden by command-line flags.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger. Debug level adds the caller so that
// -v output points at the stage that logged.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Prefix:          appName,
		Level:           level,
	})
}

// stage times one step of a command and logs it when it finishes.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func beginStage(l *log.Logger, name string) stage {
	l.Debug("stage started", "stage", name)
	return stage{logger: l, name: name, start: time.Now()}
}

// done logs the stage with its elapsed time and any extra key/value pairs.
func (s stage) done(keyvals ...any) {
	kv := append([]any{"stage", s.name, "elapsed", time.Since(s.start).Round(time.Millisecond)}, keyvals...)
	s.logger.Info("stage finished", kv...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger stored by withLogger, or the
// package default when the command ran without one.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
