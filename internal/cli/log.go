package cli

import (
	"bytes"
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

// done logs msg along with the elapsed time since progress was created.
// Example output: "computed layout nodes=12 duration=4ms"
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Debug(msg, append(keyvals, "duration", time.Since(p.start).Round(time.Millisecond))...)
}

// holdLogs buffers log output until the returned function is called, which
// writes the held lines to the original writer. The terminal viewer owns
// the screen while it runs.
func (c *CLI) holdLogs() (release func()) {
	var held bytes.Buffer
	c.Logger.SetOutput(&held)
	return func() {
		c.Logger.SetOutput(c.logOut)
		_, _ = c.logOut.Write(held.Bytes())
	}
}
