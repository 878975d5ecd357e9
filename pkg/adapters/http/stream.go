package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/bazi/pkg/domain"
)

// ReadingSummary is the payload pushed to /events subscribers.
type ReadingSummary struct {
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	DayMaster domain.Stem     `json:"day_master"`
	Pillars   domain.Chart    `json:"four_pillars"`
	Score     int             `json:"score"`
	Strength  domain.Strength `json:"strength"`
}

// StreamManager handles active SSE connections
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan<- string]struct{}),
	}
}

// Subscribe returns a buffered channel of event payloads and its cancel func.
func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Subscribers reports the number of connected clients.
func (sm *StreamManager) Subscribers() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message")
		}
	}
}

// Hooks returns lifecycle hooks that publish every computed reading.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnReading: func(_ context.Context, ev *domain.ReadingEvent) {
			if sm.Subscribers() == 0 {
				return
			}
			data, err := json.Marshal(ReadingSummary{
				Timestamp: ev.Timestamp,
				Source:    ev.Source,
				DayMaster: ev.Reading.DayMaster,
				Pillars:   ev.Reading.FourPillars,
				Score:     ev.Reading.Strength.Score,
				Strength:  ev.Reading.Strength.Status,
			})
			if err != nil {
				slog.Error("SSE: failed to encode reading", "error", err)
				return
			}
			sm.Broadcast(string(data))
		},
	}
}
