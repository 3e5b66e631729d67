package theme

import (
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := ParseTimestamp(s)
	if err != nil {
		t.Fatalf("ParseTimestamp(%q): %v", s, err)
	}
	return ts.Time
}

func TestResolveActivePreset_ScheduledPresetAppliesToCSS(t *testing.T) {
	overrides := Overrides{
		"presets:summer": `{"modes":{"dark":{"primary":"#FF0000"}},"schedule":{"start":"2025-06-01T00:00:00Z"}}`,
	}
	now := mustTime(t, "2025-06-15")

	res := ResolveActivePreset(overrides, now, nil)
	if res.Preset == nil {
		t.Fatal("expected an active preset")
	}
	if res.Key != "presets:summer" {
		t.Errorf("Key = %q, want presets:summer", res.Key)
	}
	if res.ConflictDetected {
		t.Error("unexpected conflict")
	}

	cp := BuildCanonical(overrides, BuiltInDefaults())
	vars := CSSVariables(cp, ModeDark, res.Preset)

	if got := vars["--theme-primary"]; got != "#FF0000" {
		t.Errorf("--theme-primary = %q, want #FF0000", got)
	}
	if got := vars["--theme-primary-dark"]; got != "#FF0000" {
		t.Errorf("--theme-primary-dark = %q, want #FF0000", got)
	}
	if got := vars["--theme-primary-rgb"]; got != "255 0 0" {
		t.Errorf("--theme-primary-rgb = %q, want 255 0 0", got)
	}
	if got, want := vars["--theme-accent"], cp.Dark.Get(TokenAccentPrimary).Hex(); got != want {
		t.Errorf("--theme-accent = %q, want builder value %q", got, want)
	}

	light := CSSVariables(cp, ModeLight, res.Preset)
	if got, want := light["--theme-primary"], cp.Light.Get(TokenPrimary).Hex(); got != want {
		t.Errorf("light --theme-primary = %q, want %q", got, want)
	}
	if _, ok := light["--theme-primary-light"]; ok {
		t.Error("light mode should not get a preset variable")
	}
}

func TestResolveActivePreset_Selection(t *testing.T) {
	now := mustTime(t, "2025-06-15T12:00:00Z")

	tests := []struct {
		name      string
		overrides Overrides
		wantKey   string
	}{
		{
			name:      "no presets",
			overrides: Overrides{"primary": "#FFFFFF"},
			wantKey:   "",
		},
		{
			name: "latest start wins",
			overrides: Overrides{
				"presets:early": `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z"}}`,
				"presets:late":  `{"modes":{},"schedule":{"start":"2025-06-10T00:00:00Z"}}`,
			},
			wantKey: "presets:late",
		},
		{
			name: "shorter window wins on equal start",
			overrides: Overrides{
				"presets:a-long":  `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2025-07-01T00:00:00Z"}}`,
				"presets:b-short": `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2025-06-20T00:00:00Z"}}`,
			},
			wantKey: "presets:b-short",
		},
		{
			name: "closed window beats open-ended",
			overrides: Overrides{
				"presets:a-open":   `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z"}}`,
				"presets:b-closed": `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2026-01-01T00:00:00Z"}}`,
			},
			wantKey: "presets:b-closed",
		},
		{
			name: "end is exclusive",
			overrides: Overrides{
				"presets:ended": `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2025-06-15T12:00:00Z"}}`,
			},
			wantKey: "",
		},
		{
			name: "start is inclusive",
			overrides: Overrides{
				"presets:now": `{"modes":{},"schedule":{"start":"2025-06-15T12:00:00Z"}}`,
			},
			wantKey: "presets:now",
		},
		{
			name: "future preset not active",
			overrides: Overrides{
				"presets:future": `{"modes":{},"schedule":{"start":"2025-07-01T00:00:00Z"}}`,
			},
			wantKey: "",
		},
		{
			name: "schedule without start is never active",
			overrides: Overrides{
				"presets:nostart": `{"modes":{},"schedule":{"end":"2026-01-01T00:00:00Z"}}`,
			},
			wantKey: "",
		},
		{
			name: "malformed preset dropped",
			overrides: Overrides{
				"presets:broken": `{"modes":`,
				"presets:ok":     `{"modes":{},"schedule":{"start":"2025-06-01"}}`,
			},
			wantKey: "presets:ok",
		},
		{
			name: "bad timestamp drops preset",
			overrides: Overrides{
				"presets:badtime": `{"modes":{},"schedule":{"start":"June first"}}`,
			},
			wantKey: "",
		},
		{
			name: "default used when nothing scheduled is active",
			overrides: Overrides{
				"presets:future":   `{"modes":{},"schedule":{"start":"2030-01-01T00:00:00Z"}}`,
				"presets:fallback": `{"modes":{},"default":true}`,
			},
			wantKey: "presets:fallback",
		},
		{
			name: "scheduled beats default",
			overrides: Overrides{
				"presets:a-default": `{"modes":{},"default":true}`,
				"presets:b-sched":   `{"modes":{},"schedule":{"start":"2025-01-01T00:00:00Z"}}`,
			},
			wantKey: "presets:b-sched",
		},
		{
			name: "first default by key",
			overrides: Overrides{
				"presets:zeta":  `{"modes":{},"default":true}`,
				"presets:alpha": `{"modes":{},"default":true}`,
			},
			wantKey: "presets:alpha",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			res := ResolveActivePreset(tt.overrides, now, func() { calls++ })
			if res.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", res.Key, tt.wantKey)
			}
			if (res.Preset != nil) != (tt.wantKey != "") {
				t.Errorf("Preset nil = %v, want key %q", res.Preset == nil, tt.wantKey)
			}
			if calls != 0 || res.ConflictDetected {
				t.Errorf("unexpected conflict (calls=%d)", calls)
			}
		})
	}
}

func TestResolveActivePreset_TieIsConflict(t *testing.T) {
	overrides := Overrides{
		"presets:bravo":   `{"modes":{"dark":{"primary":"#0000FF"}},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2025-07-01T00:00:00Z"}}`,
		"presets:alpha":   `{"modes":{"dark":{"primary":"#00FF00"}},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2025-07-01T00:00:00Z"}}`,
		"presets:charlie": `{"modes":{"dark":{"primary":"#FF00FF"}},"schedule":{"start":"2025-06-01T00:00:00Z","end":"2025-07-01T00:00:00Z"}}`,
	}
	now := mustTime(t, "2025-06-15T00:00:00Z")

	for i := 0; i < 10; i++ {
		calls := 0
		res := ResolveActivePreset(overrides, now, func() { calls++ })
		if calls != 1 {
			t.Fatalf("onConflict called %d times, want 1", calls)
		}
		if !res.ConflictDetected {
			t.Fatal("ConflictDetected = false")
		}
		if res.Preset == nil || res.Key != "presets:alpha" {
			t.Fatalf("selected %q, want presets:alpha", res.Key)
		}
		if got := res.Preset.Modes.Dark["primary"]; got != "#00FF00" {
			t.Fatalf("primary = %q, want #00FF00", got)
		}
	}
}

func TestResolveActivePreset_NilConflictCallback(t *testing.T) {
	overrides := Overrides{
		"presets:a": `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z"}}`,
		"presets:b": `{"modes":{},"schedule":{"start":"2025-06-01T00:00:00Z"}}`,
	}
	res := ResolveActivePreset(overrides, mustTime(t, "2025-06-02"), nil)
	if !res.ConflictDetected || res.Key != "presets:a" {
		t.Errorf("got key %q conflict %v", res.Key, res.ConflictDetected)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01T00:00:00Z", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-06-01T02:00:00+02:00", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2025-06-01T10:30:00.5Z", time.Date(2025, 6, 1, 10, 30, 0, 500000000, time.UTC)},
		{"2025-06-01T10:30:00", time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)},
		{"2025-06-01 10:30:00", time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)},
		{" 2025-06-01 ", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			if err != nil {
				t.Fatalf("ParseTimestamp: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got.Time, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "yesterday", "2025-13-01", "01/06/2025"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Errorf("ParseTimestamp(%q) succeeded, want error", bad)
		}
	}
}

func TestDecodePresets(t *testing.T) {
	overrides := Overrides{
		"presets:winter": `{"modes":{"light":{"background":"#FFFFFF"}},"schedule":{"start":"2025-12-01","end":"2026-03-01"}}`,
		"presets:junk":   `not json`,
		"primary":        `{"modes":{}}`,
	}
	got := DecodePresets(overrides)
	if len(got) != 1 {
		t.Fatalf("decoded %d presets, want 1", len(got))
	}
	p := got[0]
	if p.Name != "winter" || p.Key != "presets:winter" {
		t.Errorf("name/key = %q/%q", p.Name, p.Key)
	}
	if p.Payload.Modes.For(ModeLight)["background"] != "#FFFFFF" {
		t.Errorf("light modes = %v", p.Payload.Modes.Light)
	}
	if p.Payload.Modes.For(ModeDark) != nil {
		t.Errorf("dark modes = %v, want nil", p.Payload.Modes.Dark)
	}
	if p.Payload.Schedule == nil || p.Payload.Schedule.End == nil {
		t.Fatal("schedule not decoded")
	}
	if !p.Payload.Schedule.ActiveAt(mustTime(t, "2026-01-15")) {
		t.Error("winter preset should be active in January")
	}
}
