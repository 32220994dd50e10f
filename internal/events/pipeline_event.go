package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

// Event channel names.
const (
	PipelineStage = "event:pipeline:stage"
	PipelineDone  = "event:pipeline:done"
)

// PipelineEvent is a simple struct representing a pipeline event payload.
type PipelineEvent struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	Message    string            `json:"message"`
	Timestamp  time.Time         `json:"timestamp"`
	SessionKey string            `json:"sessionKey,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type contextKey string

const sessionContextKey contextKey = "chartchat/events/session"

// WithSession returns a derived context annotated with the given session
// key so event emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func newEvent(eventType EventType, message string) PipelineEvent {
	return PipelineEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewInfo creates an info PipelineEvent.
func NewInfo(message string) PipelineEvent {
	return newEvent(EventInfo, message)
}

// NewWarn creates a warn PipelineEvent.
func NewWarn(message string) PipelineEvent {
	return newEvent(EventWarn, message)
}

// NewSuccess creates a success PipelineEvent.
func NewSuccess(message string) PipelineEvent {
	return newEvent(EventSuccess, message)
}

// NewError creates an error PipelineEvent.
func NewError(message string) PipelineEvent {
	return newEvent(EventError, message)
}
