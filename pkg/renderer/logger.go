package renderer

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger on top of a structured slog.Logger
type DefaultLogger struct {
	logger *slog.Logger
}

// Printf formats the message and emits it at info level
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// NewDefaultLogger wraps logger, falling back to slog.Default when nil
func NewDefaultLogger(logger *slog.Logger) core.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultLogger{logger: logger.With("component", "renderer")}
}
