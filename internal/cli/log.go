package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled lines to w stamped with wall-clock time down to
// hundredths of a second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
	})
}

// stopwatch measures one run for the closing log line.
type stopwatch struct {
	logger  *log.Logger
	started time.Time
}

func startStopwatch(l *log.Logger) stopwatch {
	return stopwatch{logger: l, started: time.Now()}
}

func (s stopwatch) elapsed() time.Duration {
	return time.Since(s.started).Round(time.Millisecond)
}

// finish logs msg at info level with the elapsed time appended.
func (s stopwatch) finish(msg string, keyvals ...any) {
	s.logger.Info(msg+" in "+s.elapsed().String(), keyvals...)
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default for contexts that never went
// through the root command.
func loggerFromContext(ctx context.Context) *log.Logger {
	l, ok := ctx.Value(loggerKey{}).(*log.Logger)
	if !ok {
		return log.Default()
	}
	return l
}
