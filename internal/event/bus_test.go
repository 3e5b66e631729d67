package event

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestPublish_RoutesByTopic(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	var topicCalls, conflictCalls int
	bus.Subscribe(TopicPaletteChanged, func(_ context.Context, e Event) {
		topicCalls++
		if p, ok := e.Payload.(PaletteChanged); !ok || p.Reason != "colors.updated" {
			t.Errorf("payload = %#v", e.Payload)
		}
		if e.Timestamp.IsZero() {
			t.Error("timestamp not stamped")
		}
	})
	bus.Subscribe(TopicPresetConflict, func(context.Context, Event) { conflictCalls++ })

	_ = bus.Publish(context.Background(), Event{
		Topic:   TopicPaletteChanged,
		Source:  "settings",
		Payload: PaletteChanged{Reason: "colors.updated"},
	})
	_ = bus.Publish(context.Background(), Event{Topic: TopicPresetConflict})

	if topicCalls != 1 {
		t.Errorf("topic handler calls = %d, want 1", topicCalls)
	}
	if conflictCalls != 1 {
		t.Errorf("conflict handler calls = %d, want 1", conflictCalls)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	calls := 0
	unsub := bus.Subscribe(TopicPaletteChanged, func(context.Context, Event) { calls++ })
	other := bus.Subscribe(TopicPaletteChanged, func(context.Context, Event) { calls += 10 })
	unsub()
	unsub()

	_ = bus.Publish(context.Background(), Event{Topic: TopicPaletteChanged})
	if calls != 10 {
		t.Errorf("calls = %d, want only the remaining handler (10)", calls)
	}

	other()
	_ = bus.Publish(context.Background(), Event{Topic: TopicPaletteChanged})
	if calls != 10 {
		t.Errorf("calls after unsubscribing all = %d, want 10", calls)
	}
}

func TestPublish_HandlerPanicIsContained(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	reached := false
	bus.Subscribe(TopicPresetConflict, func(context.Context, Event) { panic("boom") })
	bus.Subscribe(TopicPresetConflict, func(context.Context, Event) { reached = true })

	if err := bus.Publish(context.Background(), Event{Topic: TopicPresetConflict}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !reached {
		t.Error("second handler did not run after first panicked")
	}
}

func TestPublishAsync(t *testing.T) {
	bus := NewBus(zaptest.NewLogger(t))

	var wg sync.WaitGroup
	var calls atomic.Int32
	wg.Add(3)
	for i := 0; i < 3; i++ {
		bus.Subscribe(TopicPaletteChanged, func(context.Context, Event) {
			calls.Add(1)
			wg.Done()
		})
	}

	bus.PublishAsync(context.Background(), Event{Topic: TopicPaletteChanged})

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handlers did not run")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}
