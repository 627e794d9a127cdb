package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at debug level along with the elapsed time, rounded to the
// millisecond. Example output: "Saved map_data.json (3ms)"
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, falling back to
// log.Default() when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// storeLogHooks reports store calls on the debug log.
type storeLogHooks struct {
	logger *log.Logger
}

func (h storeLogHooks) OnLoad(_ context.Context, backend, name string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "backend", backend, "map", name, "err", err)
		return
	}
	h.logger.Debug("load", "backend", backend, "map", name, "took", d.Round(time.Microsecond))
}

func (h storeLogHooks) OnSave(_ context.Context, backend, name string, locations int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("save failed", "backend", backend, "map", name, "err", err)
		return
	}
	h.logger.Debug("save", "backend", backend, "map", name, "locations", locations, "took", d.Round(time.Microsecond))
}

func (h storeLogHooks) OnList(_ context.Context, backend string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("list failed", "backend", backend, "err", err)
		return
	}
	h.logger.Debug("list", "backend", backend, "maps", count, "took", d.Round(time.Microsecond))
}

// queryLogHooks reports route and resource queries on the debug log.
type queryLogHooks struct {
	logger *log.Logger
}

func (h queryLogHooks) OnPath(_ context.Context, from, to string, steps int, d time.Duration) {
	if steps < 0 {
		h.logger.Debug("path", "from", from, "to", to, "found", false, "took", d.Round(time.Microsecond))
		return
	}
	h.logger.Debug("path", "from", from, "to", to, "steps", steps, "took", d.Round(time.Microsecond))
}

func (h queryLogHooks) OnNearest(_ context.Context, tag, from, location string, d time.Duration) {
	if location == "" {
		h.logger.Debug("nearest", "resource", tag, "from", from, "found", false, "took", d.Round(time.Microsecond))
		return
	}
	h.logger.Debug("nearest", "resource", tag, "from", from, "location", location, "took", d.Round(time.Microsecond))
}
