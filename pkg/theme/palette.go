package theme

import (
	"bytes"
	"encoding/json"
)

// PaletteTokenSet is one complete, gap-free palette for a mode. It is built
// from scratch by Build and never mutated afterwards.
type PaletteTokenSet struct {
	mode     Mode
	colors   [tokenCount]Color
	override [tokenCount]bool
}

// Mode reports which mode the set was built for.
func (p PaletteTokenSet) Mode() Mode {
	return p.mode
}

// Get returns the resolved color of t.
func (p PaletteTokenSet) Get(t Token) Color {
	if t < 0 || t >= tokenCount {
		return Black
	}
	return p.colors[t]
}

// FromOverride reports whether t's final value came from the override map
// rather than a built-in default or the contrast policy.
func (p PaletteTokenSet) FromOverride(t Token) bool {
	if t < 0 || t >= tokenCount {
		return false
	}
	return p.override[t]
}

// Map returns token key -> "#RRGGBB".
func (p PaletteTokenSet) Map() map[string]string {
	out := make(map[string]string, tokenCount)
	for i, c := range p.colors {
		out[tokenKeys[i]] = c.Hex()
	}
	return out
}

// MarshalJSON writes the tokens as an object in declaration order.
func (p PaletteTokenSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range p.colors {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(tokenKeys[i])
		buf.Write(k)
		buf.WriteString(`:"`)
		buf.WriteString(c.Hex())
		buf.WriteByte('"')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// textRule ties a text token to the surface it must stay readable on.
type textRule struct {
	token    Token
	against  Token
	minRatio float64
}

// Order matters: text_inverse is checked against the already-resolved
// text_primary.
var textRules = []textRule{
	{TokenTextPrimary, TokenBackground, MinContrastPrimaryText},
	{TokenTextSecondary, TokenBackground, MinContrastSecondaryText},
	{TokenMutedText, TokenBackground, MinContrastMutedText},
	{TokenTextInverse, TokenTextPrimary, MinContrastInverseText},
	{TokenButtonText, TokenButton, MinContrastButtonText},
}

func isTextToken(t Token) bool {
	for _, r := range textRules {
		if r.token == t {
			return true
		}
	}
	return false
}

// Build resolves every token for mode. Each token takes the first candidate
// key whose value parses; failing that, the opposite palette's value when
// that value itself came from an override (opposite may be nil); failing
// that, the built-in default. Text tokens are additionally run through
// EnsureContrast with the default as fallback.
func Build(overrides Overrides, mode Mode, opposite *PaletteTokenSet, defaults Defaults) PaletteTokenSet {
	p := PaletteTokenSet{mode: mode}

	pick := func(t Token) (string, bool) {
		if v, ok := Lookup(overrides, t.CandidateKeys(mode)); ok {
			if _, err := Parse(v); err == nil {
				return v, true
			}
		}
		if opposite != nil && opposite.FromOverride(t) {
			return opposite.Get(t).Hex(), true
		}
		return defaults.Value(mode, t), false
	}

	for _, t := range Tokens() {
		if isTextToken(t) {
			continue
		}
		v, found := pick(t)
		p.colors[t] = ToHex(v, defaults.Value(mode, t))
		p.override[t] = found
	}

	for _, r := range textRules {
		v, found := pick(r.token)
		c := EnsureContrast(v, p.colors[r.against], defaults.Value(mode, r.token), r.minRatio)
		p.colors[r.token] = c
		p.override[r.token] = found && ToHex(v, "") == c
	}

	return p
}

// TextRoles are the semantic text colors of one mode.
type TextRoles struct {
	Primary   Color `json:"primary"`
	Secondary Color `json:"secondary"`
	Muted     Color `json:"muted"`
	Inverse   Color `json:"inverse"`
	OnAccent  Color `json:"on_accent"`
}

// SurfaceRoles are the semantic surface colors of one mode.
type SurfaceRoles struct {
	Background Color `json:"background"`
	Body       Color `json:"body"`
	Headers    Color `json:"headers"`
	Sidebar    Color `json:"sidebar"`
	Card       Color `json:"card"`
}

// RoleSet groups both role projections of one mode.
type RoleSet struct {
	Text    TextRoles    `json:"text"`
	Surface SurfaceRoles `json:"surface"`
}

// Roles derives the role projections from the token set.
func (p PaletteTokenSet) Roles() RoleSet {
	return RoleSet{
		Text: TextRoles{
			Primary:   p.Get(TokenTextPrimary),
			Secondary: p.Get(TokenTextSecondary),
			Muted:     p.Get(TokenMutedText),
			Inverse:   p.Get(TokenTextInverse),
			OnAccent:  p.Get(TokenButtonText),
		},
		Surface: SurfaceRoles{
			Background: p.Get(TokenBackground),
			Body:       p.Get(TokenBody),
			Headers:    p.Get(TokenHeaders),
			Sidebar:    p.Get(TokenSidebar),
			Card:       p.Get(TokenBody),
		},
	}
}

// CanonicalPalette is the resolved dark and light palettes plus their roles.
type CanonicalPalette struct {
	Dark  PaletteTokenSet `json:"dark"`
	Light PaletteTokenSet `json:"light"`
	Roles struct {
		Dark  RoleSet `json:"dark"`
		Light RoleSet `json:"light"`
	} `json:"roles"`
}

// BuildCanonical builds dark first, then light with dark as its reference.
func BuildCanonical(overrides Overrides, defaults Defaults) CanonicalPalette {
	var cp CanonicalPalette
	cp.Dark = Build(overrides, ModeDark, nil, defaults)
	cp.Light = Build(overrides, ModeLight, &cp.Dark, defaults)
	cp.Roles.Dark = cp.Dark.Roles()
	cp.Roles.Light = cp.Light.Roles()
	return cp
}

// Mode returns the token set for m.
func (cp CanonicalPalette) Mode(m Mode) PaletteTokenSet {
	if m == ModeLight {
		return cp.Light
	}
	return cp.Dark
}
