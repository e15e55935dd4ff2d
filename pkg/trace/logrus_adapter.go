package trace

import (
	"github.com/sirupsen/logrus"
)

// LogrusAdapter writes events to a logrus.FieldLogger.
type LogrusAdapter struct {
	logger logrus.FieldLogger
}

// NewLogrusAdapter creates an adapter around logger. A nil logger falls back
// to logrus.StandardLogger.
func NewLogrusAdapter(logger logrus.FieldLogger) *LogrusAdapter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusAdapter{logger: logger}
}

// Log writes the event at Debug level, or Warn for error events.
func (a *LogrusAdapter) Log(event Event) {
	fs := fields(event)
	lf := make(logrus.Fields, len(fs))
	for _, f := range fs {
		lf[f.key] = f.value
	}
	entry := a.logger.WithFields(lf)
	if event.Error != nil {
		entry.Warn("codec")
		return
	}
	entry.Debug("codec")
}

// Compile-time interface satisfaction check.
var _ Logger = (*LogrusAdapter)(nil)
