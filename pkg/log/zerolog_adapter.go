package log

import (
	"github.com/rs/zerolog"
)

// ZerologAdapter writes capture events to a zerolog.Logger.
// Useful for development when you want to see protocol traffic in console.
type ZerologAdapter struct {
	logger zerolog.Logger
}

// NewZerologAdapter creates a ZerologAdapter that writes to the given logger.
func NewZerologAdapter(logger zerolog.Logger) *ZerologAdapter {
	return &ZerologAdapter{logger: logger}
}

// Log writes the event to the zerolog logger at Debug level.
func (a *ZerologAdapter) Log(event Event) {
	ev := a.logger.Debug().
		Str("conn_id", event.ConnectionID).
		Str("direction", event.Direction.String()).
		Str("category", event.Category.String())

	if event.RemoteAddr != "" {
		ev = ev.Str("remote", event.RemoteAddr)
	}

	switch {
	case event.Line != nil:
		ev = ev.Str("line", event.Line.Raw)
		if event.Line.Parsed {
			ev = ev.
				Str("mode", event.Line.Mode).
				Int("integration_id", event.Line.IntegrationID).
				Int("action", event.Line.ActionNumber).
				Float64("value", event.Line.Value)
		}
	case event.StateChange != nil:
		ev = ev.
			Str("old_state", event.StateChange.OldState).
			Str("new_state", event.StateChange.NewState)
		if event.StateChange.Reason != "" {
			ev = ev.Str("reason", event.StateChange.Reason)
		}
	case event.Error != nil:
		ev = ev.Str("error_msg", event.Error.Message)
		if event.Error.Context != "" {
			ev = ev.Str("error_context", event.Error.Context)
		}
	}

	ev.Msg("protocol")
}

// Compile-time interface satisfaction check.
var _ Logger = (*ZerologAdapter)(nil)
