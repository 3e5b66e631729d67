package theme

// Defaults holds the built-in fallback color per token per mode. It is the
// last tier of every resolution, so a builder never depends on the override
// map being complete.
type Defaults struct {
	Dark  [tokenCount]string
	Light [tokenCount]string
}

// BuiltInDefaults returns the compiled-in palette defaults. Every text role
// meets its minimum contrast ratio against the same mode's background.
func BuiltInDefaults() Defaults {
	return Defaults{
		Dark: [tokenCount]string{
			TokenPrimary:         "#008000",
			TokenSecondary:       "#4B5563",
			TokenBackground:      "#141414",
			TokenHeaders:         "#1C1C1C",
			TokenBody:            "#181818",
			TokenSidebar:         "#101010",
			TokenAccentPrimary:   "#22C55E",
			TokenAccentSecondary: "#16A34A",
			TokenTextPrimary:     "#F4F4F5",
			TokenTextSecondary:   "#D4D4D8",
			TokenMutedText:       "#A1A1AA",
			TokenTextInverse:     "#141414",
			TokenButton:          "#22C55E",
			TokenButtonText:      "#0A0A0A",
		},
		Light: [tokenCount]string{
			TokenPrimary:         "#15803D",
			TokenSecondary:       "#6B7280",
			TokenBackground:      "#F4F4F5",
			TokenHeaders:         "#FFFFFF",
			TokenBody:            "#FAFAFA",
			TokenSidebar:         "#E4E4E7",
			TokenAccentPrimary:   "#16A34A",
			TokenAccentSecondary: "#15803D",
			TokenTextPrimary:     "#18181B",
			TokenTextSecondary:   "#3F3F46",
			TokenMutedText:       "#52525B",
			TokenTextInverse:     "#FFFFFF",
			TokenButton:          "#15803D",
			TokenButtonText:      "#FFFFFF",
		},
	}
}

// Value returns the default for token t in mode m.
func (d Defaults) Value(m Mode, t Token) string {
	if t < 0 || t >= tokenCount {
		return ""
	}
	if m == ModeLight {
		return d.Light[t]
	}
	return d.Dark[t]
}

// With returns a copy of d with one value replaced.
func (d Defaults) With(m Mode, t Token, value string) Defaults {
	if t < 0 || t >= tokenCount {
		return d
	}
	if m == ModeLight {
		d.Light[t] = value
	} else {
		d.Dark[t] = value
	}
	return d
}
