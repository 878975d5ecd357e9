package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventReadingComputed EventType = "reading_computed"
	EventReadingRejected EventType = "reading_rejected"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ReadingEvent is emitted once per computed reading.
type ReadingEvent struct {
	EventBase
	Reading  *Reading      `json:"reading"`
	Source   string        `json:"source"` // "derived" or "pillars"
	Duration time.Duration `json:"duration"`
}

// RejectEvent is emitted when a request fails validation before reaching the core.
type RejectEvent struct {
	EventBase
	Reason error `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnReading func(context.Context, *ReadingEvent)
	OnReject  func(context.Context, *RejectEvent)
}

// MergeHooks fans each event out to every non-nil callback, in argument order.
func MergeHooks(hooks ...LifecycleHooks) LifecycleHooks {
	var merged LifecycleHooks
	var onReading []func(context.Context, *ReadingEvent)
	var onReject []func(context.Context, *RejectEvent)
	for _, h := range hooks {
		if h.OnReading != nil {
			onReading = append(onReading, h.OnReading)
		}
		if h.OnReject != nil {
			onReject = append(onReject, h.OnReject)
		}
	}
	if len(onReading) > 0 {
		merged.OnReading = func(ctx context.Context, e *ReadingEvent) {
			for _, fn := range onReading {
				fn(ctx, e)
			}
		}
	}
	if len(onReject) > 0 {
		merged.OnReject = func(ctx context.Context, e *RejectEvent) {
			for _, fn := range onReject {
				fn(ctx, e)
			}
		}
	}
	return merged
}
