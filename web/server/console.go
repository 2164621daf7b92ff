package server

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	logger      *slog.Logger
}

// NewWebLogger creates a new web logger for a specific render. Messages are
// also written to logger (slog.Default when nil) for the server log.
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage, logger *slog.Logger) core.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		logger:      logger.With("render", renderID),
	}
}

// Printf implements core.Logger interface
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	level := messageLevel(message)

	switch level {
	case "error":
		wl.logger.Error(strings.TrimRight(message, "\n"))
	case "warning":
		wl.logger.Warn(strings.TrimRight(message, "\n"))
	default:
		wl.logger.Info(strings.TrimRight(message, "\n"))
	}

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Channel full, skip (don't block)
	}
}

// messageLevel classifies a log line by its leading word
func messageLevel(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))
	switch {
	case strings.HasPrefix(lower, "error"):
		return "error"
	case strings.HasPrefix(lower, "warning"), strings.HasPrefix(lower, "warn:"):
		return "warning"
	default:
		return "info"
	}
}
