package trace

import (
	"go.uber.org/zap"
)

// ZapAdapter writes events to a zap.Logger.
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter creates an adapter around logger. A nil logger is replaced
// by zap.NewNop.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAdapter{logger: logger}
}

// Log writes the event at Debug level, or Warn for error events.
func (a *ZapAdapter) Log(event Event) {
	fs := fields(event)
	zf := make([]zap.Field, 0, len(fs))
	for _, f := range fs {
		zf = append(zf, zap.Any(f.key, f.value))
	}
	if event.Error != nil {
		a.logger.Warn("codec", zf...)
		return
	}
	a.logger.Debug("codec", zf...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*ZapAdapter)(nil)
