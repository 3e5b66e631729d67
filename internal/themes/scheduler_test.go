package themes

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/hostpanel/internal/config"
	"github.com/HerbHall/hostpanel/internal/event"
	"go.uber.org/zap/zaptest"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	env := newTestEnv(t, config.ThemeSettings{})
	if _, err := NewScheduler(env.svc, env.bus, "every now and then", zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

func TestNewScheduler_DefaultSpec(t *testing.T) {
	env := newTestEnv(t, config.ThemeSettings{})
	s, err := NewScheduler(env.svc, env.bus, "", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if s.spec != DefaultSyncSchedule {
		t.Errorf("spec = %q, want %q", s.spec, DefaultSyncSchedule)
	}
}

func TestScheduler_RunOncePublishesOnPresetChange(t *testing.T) {
	env := newTestEnv(t, config.ThemeSettings{})
	env.set(t, "presets:summer", `{"modes":{"dark":{"primary":"#FF0000"}},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2025-09-01T00:00:00Z"}}`)

	var got []event.PaletteChanged
	env.bus.Subscribe(event.TopicPaletteChanged, func(_ context.Context, e event.Event) {
		got = append(got, e.Payload.(event.PaletteChanged))
	})

	s, err := NewScheduler(env.svc, env.bus, "@every 1h", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx := context.Background()
	steps := []struct {
		at      time.Time
		wantKey string
		events  int
	}{
		// First run primes the scheduler without publishing.
		{time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), "", 0},
		{time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC), "", 0},
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), "presets:summer", 1},
		{time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "presets:summer", 1},
		{time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), "", 2},
	}
	for i, step := range steps {
		s.now = func() time.Time { return step.at }
		s.RunOnce(ctx)

		if key := s.ActivePresetKey(); key != step.wantKey {
			t.Errorf("step %d: ActivePresetKey() = %q, want %q", i, key, step.wantKey)
		}
		if len(got) != step.events {
			t.Fatalf("step %d: %d events published, want %d", i, len(got), step.events)
		}
	}

	if got[0].Reason != "preset.activated" || got[0].PresetKey != "presets:summer" {
		t.Errorf("first event = %+v, want activation of presets:summer", got[0])
	}
	if got[1].Reason != "preset.expired" || got[1].PresetKey != "" {
		t.Errorf("second event = %+v, want expiry", got[1])
	}
}

func TestScheduler_RunOnceSyncsEmailTheme(t *testing.T) {
	env := newTestEnv(t, config.ThemeSettings{})
	s, err := NewScheduler(env.svc, env.bus, "", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx := context.Background()
	if _, err := env.emails.GetDefault(ctx); err == nil {
		t.Fatal("expected no email theme before first run")
	}

	s.RunOnce(ctx)

	stored, err := env.emails.GetDefault(ctx)
	if err != nil {
		t.Fatalf("GetDefault after RunOnce: %v", err)
	}
	if stored.BackgroundColor != "#141414" {
		t.Errorf("BackgroundColor = %q, want %q", stored.BackgroundColor, "#141414")
	}
}

func TestScheduler_RunOnceCanceled(t *testing.T) {
	env := newTestEnv(t, config.ThemeSettings{})
	s, err := NewScheduler(env.svc, env.bus, "", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)

	if _, err := env.emails.GetDefault(context.Background()); err == nil {
		t.Error("canceled run should not write the email theme")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	env := newTestEnv(t, config.ThemeSettings{})
	s, err := NewScheduler(env.svc, env.bus, "@every 1h", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := env.emails.GetDefault(context.Background()); err != nil {
		t.Errorf("Start should sync immediately: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
