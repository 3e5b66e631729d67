// Package testutil holds helpers shared by package tests.
package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/HerbHall/hostpanel/internal/store"
	"github.com/HerbHall/hostpanel/pkg/theme"
)

// NewStore opens a SQLite database in a per-test temp dir and closes it on
// cleanup.
func NewStore(t testing.TB) *store.SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hostpanel-test.db")
	s, err := store.New(path)
	if err != nil {
		t.Fatalf("store.New(%q): %v", path, err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// NewPreset returns a preset with no schedule and no colors. Apply options to
// fill it in.
func NewPreset(opts ...func(*theme.PresetPayload)) theme.PresetPayload {
	var p theme.PresetPayload
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithDark sets one dark-mode token color.
func WithDark(token, color string) func(*theme.PresetPayload) {
	return func(p *theme.PresetPayload) {
		if p.Modes.Dark == nil {
			p.Modes.Dark = make(map[string]string)
		}
		p.Modes.Dark[token] = color
	}
}

// WithLight sets one light-mode token color.
func WithLight(token, color string) func(*theme.PresetPayload) {
	return func(p *theme.PresetPayload) {
		if p.Modes.Light == nil {
			p.Modes.Light = make(map[string]string)
		}
		p.Modes.Light[token] = color
	}
}

// WithWindow schedules the preset from start until end. A zero end leaves
// the window open.
func WithWindow(start, end time.Time) func(*theme.PresetPayload) {
	return func(p *theme.PresetPayload) {
		s := &theme.PresetSchedule{Start: theme.Timestamp{Time: start}}
		if !end.IsZero() {
			s.End = &theme.Timestamp{Time: end}
		}
		p.Schedule = s
	}
}

// AsDefault flags the preset as the unscheduled fallback.
func AsDefault() func(*theme.PresetPayload) {
	return func(p *theme.PresetPayload) { p.Default = true }
}

// PresetJSON encodes p the way it is stored in settings.
func PresetJSON(t testing.TB, p theme.PresetPayload) string {
	t.Helper()
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal preset: %v", err)
	}
	return string(data)
}
