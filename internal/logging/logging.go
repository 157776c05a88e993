// Package logging constructs the shared charmbracelet/log logger used by
// CLI commands and the pending store's maintenance pass. The evaluator takes
// no logger: an evaluation timeout is reported only through Decision.Timeout
// and the recorded history entry, and is not logged.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// Options configures the constructed logger.
type Options struct {
	Verbose bool
	Prefix  string
}

// New builds a logger writing to stderr. DCG_NO_RICH and NO_COLOR disable
// styling, not structure, by falling back to the plain text formatter;
// termenv (via charmbracelet/log's color detection) already honors NO_COLOR
// and non-tty output on its own, so this only needs to handle DCG_NO_RICH.
func New(opts Options) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           log.InfoLevel,
	})

	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if os.Getenv("DCG_NO_RICH") != "" {
		logger.SetFormatter(log.TextFormatter)
		logger.SetReportTimestamp(false)
	}

	if opts.Prefix != "" {
		logger = logger.WithPrefix(opts.Prefix)
	}

	return logger
}
