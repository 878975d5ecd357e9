package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHooks(t *testing.T) {
	var calls []string
	a := LifecycleHooks{
		OnReading: func(context.Context, *ReadingEvent) { calls = append(calls, "a.reading") },
	}
	b := LifecycleHooks{
		OnReading: func(context.Context, *ReadingEvent) { calls = append(calls, "b.reading") },
		OnReject:  func(context.Context, *RejectEvent) { calls = append(calls, "b.reject") },
	}

	merged := MergeHooks(a, LifecycleHooks{}, b)
	merged.OnReading(context.Background(), &ReadingEvent{})
	merged.OnReject(context.Background(), &RejectEvent{})

	assert.Equal(t, []string{"a.reading", "b.reading", "b.reject"}, calls)
}

func TestMergeHooks_Empty(t *testing.T) {
	merged := MergeHooks()
	assert.Nil(t, merged.OnReading)
	assert.Nil(t, merged.OnReject)
}
