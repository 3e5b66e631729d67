package theme

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PresetKeyPrefix marks override entries whose value is a JSON PresetPayload.
const PresetKeyPrefix = "presets:"

// PresetPayload is an admin-authored bundle of token overrides, optionally
// limited to a time window.
type PresetPayload struct {
	Modes    PresetModes     `json:"modes"`
	Schedule *PresetSchedule `json:"schedule,omitempty"`
	Default  bool            `json:"default,omitempty"`
}

// PresetModes holds partial token maps (token key -> color) per mode.
type PresetModes struct {
	Light map[string]string `json:"light,omitempty"`
	Dark  map[string]string `json:"dark,omitempty"`
}

// For returns the partial token map for m. It may be nil.
func (pm PresetModes) For(m Mode) map[string]string {
	if m == ModeLight {
		return pm.Light
	}
	return pm.Dark
}

// PresetSchedule is a half-open [Start, End) window. A nil End never closes.
type PresetSchedule struct {
	Start Timestamp  `json:"start"`
	End   *Timestamp `json:"end,omitempty"`
}

// ActiveAt reports whether start <= now < end.
func (s *PresetSchedule) ActiveAt(now time.Time) bool {
	if s == nil || s.Start.IsZero() {
		return false
	}
	if now.Before(s.Start.Time) {
		return false
	}
	return s.End == nil || now.Before(s.End.Time)
}

// duration returns end-start, or ok=false for an open-ended window.
func (s *PresetSchedule) duration() (time.Duration, bool) {
	if s.End == nil {
		return 0, false
	}
	return s.End.Sub(s.Start.Time), true
}

// Timestamp is a time.Time that decodes leniently from JSON strings.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and a few zone-less layouts (read as UTC).
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// UnmarshalJSON accepts a string in any layout ParseTimestamp knows, or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalJSON writes RFC 3339 in UTC.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339))
}

// DecodePreset parses one preset payload.
func DecodePreset(raw string) (PresetPayload, error) {
	var p PresetPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return PresetPayload{}, fmt.Errorf("decode preset: %w", err)
	}
	return p, nil
}

// NamedPreset is a decoded preset with its override key.
type NamedPreset struct {
	Key     string        `json:"key"`
	Name    string        `json:"name"`
	Payload PresetPayload `json:"payload"`
}

// DecodePresets returns every decodable preset in overrides, sorted by key.
// Entries that fail to decode are dropped.
func DecodePresets(overrides Overrides) []NamedPreset {
	keys := make([]string, 0)
	for k := range overrides {
		if strings.HasPrefix(k, PresetKeyPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]NamedPreset, 0, len(keys))
	for _, k := range keys {
		p, err := DecodePreset(overrides[k])
		if err != nil {
			continue
		}
		out = append(out, NamedPreset{
			Key:     k,
			Name:    strings.TrimPrefix(k, PresetKeyPrefix),
			Payload: p,
		})
	}
	return out
}

// ActivePresetResolution is the preset selected for an instant.
type ActivePresetResolution struct {
	Key              string         `json:"key,omitempty"`
	Preset           *PresetPayload `json:"preset"`
	ConflictDetected bool           `json:"conflict_detected"`
}

// ResolveActivePreset selects the preset in effect at now.
//
// Among scheduled presets whose window contains now, the latest start wins;
// on an equal start the shorter window wins (open-ended counts as longest).
// Presets tied on both start and duration are a conflict: onConflict is
// called once and the first of them by key order is selected. With no active
// scheduled preset, the first preset flagged default is used.
func ResolveActivePreset(overrides Overrides, now time.Time, onConflict func()) ActivePresetResolution {
	presets := DecodePresets(overrides)

	best := -1
	tied := false
	for i := range presets {
		s := presets[i].Payload.Schedule
		if !s.ActiveAt(now) {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		switch compareWindows(s, presets[best].Payload.Schedule) {
		case 1:
			best = i
			tied = false
		case 0:
			tied = true
		}
	}

	if best >= 0 {
		if tied && onConflict != nil {
			onConflict()
		}
		p := presets[best].Payload
		return ActivePresetResolution{Key: presets[best].Key, Preset: &p, ConflictDetected: tied}
	}

	for i := range presets {
		if presets[i].Payload.Default {
			p := presets[i].Payload
			return ActivePresetResolution{Key: presets[i].Key, Preset: &p}
		}
	}
	return ActivePresetResolution{}
}

// compareWindows returns 1 if a should be preferred over b, -1 if b should,
// and 0 when they are indistinguishable.
func compareWindows(a, b *PresetSchedule) int {
	if a.Start.After(b.Start.Time) {
		return 1
	}
	if a.Start.Before(b.Start.Time) {
		return -1
	}
	da, closedA := a.duration()
	db, closedB := b.duration()
	switch {
	case closedA && closedB:
		if da < db {
			return 1
		}
		if da > db {
			return -1
		}
		return 0
	case closedA:
		return 1
	case closedB:
		return -1
	}
	return 0
}
