package events

import (
	"context"

	"github.com/rs/zerolog"
)

// Emit publishes a pipeline event. It is a no-op until an emitter is
// installed, so library use stays silent by default.
var Emit = func(ctx context.Context, name string, evt PipelineEvent) {}

// EnableLogEmitter routes events to the given structured logger.
func EnableLogEmitter(log zerolog.Logger) {
	Emit = func(ctx context.Context, name string, evt PipelineEvent) {
		if evt.SessionKey == "" {
			evt.SessionKey = SessionFromContext(ctx)
		}
		logEvent(log, name, evt)
	}
}

// SetCustomEmitter replaces the emitter, e.g. for a UI bridge or tests.
// Passing nil resets to the no-op emitter.
func SetCustomEmitter(f func(ctx context.Context, name string, evt PipelineEvent)) {
	if f == nil {
		Emit = func(context.Context, string, PipelineEvent) {}
		return
	}
	Emit = func(ctx context.Context, name string, evt PipelineEvent) {
		if evt.SessionKey == "" {
			evt.SessionKey = SessionFromContext(ctx)
		}
		f(ctx, name, evt)
	}
}

func logEvent(log zerolog.Logger, name string, evt PipelineEvent) {
	var entry *zerolog.Event
	switch evt.Type {
	case EventError:
		entry = log.Error()
	case EventWarn:
		entry = log.Warn()
	default:
		entry = log.Info()
	}
	entry.
		Str("event", name).
		Str("id", evt.ID).
		Str("session", evt.SessionKey).
		Msg(evt.Message)
}
