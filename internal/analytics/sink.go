package analytics

import "context"

// Event is a best-effort notification mirrored to an external sink while a
// session is being recorded. Losing one is acceptable; blocking the chat
// flow on one is not.
type Event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// NopSink is used when no external sink is configured.
type NopSink struct{}

func (NopSink) Publish(context.Context, Event) error { return nil }
