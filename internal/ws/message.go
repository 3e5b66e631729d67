package ws

import (
	"time"

	"github.com/HerbHall/hostpanel/pkg/theme"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	// MessageThemeSnapshot is sent once when a client connects.
	MessageThemeSnapshot MessageType = "theme.snapshot"
	// MessageThemeUpdated is broadcast whenever the palette changes.
	MessageThemeUpdated MessageType = "theme.updated"
	// MessagePresetConflict warns that several presets tie and names the one
	// in effect.
	MessagePresetConflict MessageType = "theme.preset_conflict"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// ThemeData is the payload of theme.snapshot and theme.updated messages.
type ThemeData struct {
	Reason    string                           `json:"reason,omitempty"`
	PresetKey string                           `json:"preset_key,omitempty"`
	CSS       map[theme.Mode]map[string]string `json:"css"`
}

// ConflictData is the payload of theme.preset_conflict messages.
type ConflictData struct {
	SelectedKey string `json:"selected_key"`
}
