package theme

import (
	"fmt"
	"strings"
)

// Mode selects the dark or light palette.
type Mode string

const (
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

// Modes lists both palette modes, dark first.
var Modes = []Mode{ModeDark, ModeLight}

// ParseMode accepts "dark" or "light" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDark:
		return ModeDark, nil
	case ModeLight:
		return ModeLight, nil
	}
	return "", fmt.Errorf("invalid mode %q: must be \"dark\" or \"light\"", s)
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == ModeLight {
		return ModeDark
	}
	return ModeLight
}

// Token names one color slot of a palette.
type Token int

const (
	TokenPrimary Token = iota
	TokenSecondary
	TokenBackground
	TokenHeaders
	TokenBody
	TokenSidebar
	TokenAccentPrimary
	TokenAccentSecondary
	TokenTextPrimary
	TokenTextSecondary
	TokenMutedText
	TokenTextInverse
	TokenButton
	TokenButtonText

	tokenCount
)

var tokenKeys = [tokenCount]string{
	TokenPrimary:         "primary",
	TokenSecondary:       "secondary",
	TokenBackground:      "background",
	TokenHeaders:         "headers",
	TokenBody:            "body",
	TokenSidebar:         "sidebar",
	TokenAccentPrimary:   "accent_primary",
	TokenAccentSecondary: "accent_secondary",
	TokenTextPrimary:     "text_primary",
	TokenTextSecondary:   "text_secondary",
	TokenMutedText:       "muted_text",
	TokenTextInverse:     "text_inverse",
	TokenButton:          "button",
	TokenButtonText:      "button_text",
}

// Tokens returns all palette tokens in declaration order.
func Tokens() []Token {
	out := make([]Token, tokenCount)
	for i := range out {
		out[i] = Token(i)
	}
	return out
}

// Key is the override-map key of the token without a mode suffix.
func (t Token) Key() string {
	if t < 0 || t >= tokenCount {
		return fmt.Sprintf("token(%d)", int(t))
	}
	return tokenKeys[t]
}

func (t Token) String() string {
	return t.Key()
}

// ParseToken looks a token up by its override key.
func ParseToken(key string) (Token, bool) {
	for i, k := range tokenKeys {
		if k == key {
			return Token(i), true
		}
	}
	return 0, false
}

// CandidateKeys returns the override keys tried, in order, when resolving t
// for mode m: the mode-suffixed key, the bare key, then the opposite mode's key.
func (t Token) CandidateKeys(m Mode) []string {
	k := t.Key()
	return []string{
		k + "_" + string(m),
		k,
		k + "_" + string(m.Opposite()),
	}
}

// IsOverrideKey reports whether key names a token override, bare or
// mode-suffixed ("primary", "primary_dark", "text_primary_light").
func IsOverrideKey(key string) bool {
	if _, ok := ParseToken(key); ok {
		return true
	}
	for _, m := range Modes {
		if base, ok := strings.CutSuffix(key, "_"+string(m)); ok {
			if _, ok := ParseToken(base); ok {
				return true
			}
		}
	}
	return false
}
