package theme

import (
	"fmt"
	"sort"
	"strings"
)

// CSSVariablePrefix starts every emitted custom property.
const CSSVariablePrefix = "--theme-"

// Variable names are consumed by the UI; do not rename.
var cssNames = [tokenCount]string{
	TokenPrimary:         "primary",
	TokenSecondary:       "secondary",
	TokenBackground:      "background",
	TokenHeaders:         "headers",
	TokenBody:            "body",
	TokenSidebar:         "sidebar",
	TokenAccentPrimary:   "accent",
	TokenAccentSecondary: "accent-secondary",
	TokenTextPrimary:     "text-primary",
	TokenTextSecondary:   "text-secondary",
	TokenMutedText:       "text-muted",
	TokenTextInverse:     "text-inverse",
	TokenButton:          "button",
	TokenButtonText:      "button-text",
}

// CSSVariable returns the custom property name of t, e.g. "--theme-text-primary".
func (t Token) CSSVariable() string {
	if t < 0 || t >= tokenCount {
		return ""
	}
	return CSSVariablePrefix + cssNames[t]
}

// PresetOverridableTokens are the tokens an active preset may replace. Preset
// colors are applied after contrast enforcement and are not re-checked.
var PresetOverridableTokens = []Token{
	TokenPrimary,
	TokenAccentPrimary,
	TokenSecondary,
	TokenBackground,
}

// CSSVariables projects one mode of the palette into custom properties. Each
// color gets a "--theme-x" entry and a "--theme-x-rgb" triplet. When active
// supplies colors for a PresetOverridableTokens entry in this mode, they
// replace the palette value and are also emitted under "--theme-x-<mode>".
func CSSVariables(cp CanonicalPalette, mode Mode, active *PresetPayload) map[string]string {
	set := cp.Mode(mode)
	colors := set.colors

	vars := make(map[string]string, 2*int(tokenCount)+8)
	put := func(name string, c Color) {
		vars[name] = c.Hex()
		vars[name+"-rgb"] = c.RGBTriplet()
	}

	if active != nil {
		partial := active.Modes.For(mode)
		for _, t := range PresetOverridableTokens {
			v, ok := partial[t.Key()]
			if !ok || strings.TrimSpace(v) == "" {
				continue
			}
			colors[t] = ToHex(v, colors[t].Hex())
			put(t.CSSVariable()+"-"+string(mode), colors[t])
		}
	}

	for i, c := range colors {
		put(Token(i).CSSVariable(), c)
	}
	put(CSSVariablePrefix+"card", colors[TokenBody])
	put(CSSVariablePrefix+"text-on-accent", colors[TokenButtonText])
	return vars
}

// Stylesheet renders both modes as CSS: dark on :root and [data-theme="dark"],
// light on [data-theme="light"] and under prefers-color-scheme: light when no
// data-theme attribute is set.
func Stylesheet(cp CanonicalPalette, active *PresetPayload) string {
	var sb strings.Builder

	sb.WriteString(":root,\n[data-theme=\"dark\"] {\n")
	writeDeclarations(&sb, CSSVariables(cp, ModeDark, active), "  ")
	sb.WriteString("}\n\n")

	light := CSSVariables(cp, ModeLight, active)
	sb.WriteString("[data-theme=\"light\"] {\n")
	writeDeclarations(&sb, light, "  ")
	sb.WriteString("}\n\n")

	sb.WriteString("@media (prefers-color-scheme: light) {\n")
	sb.WriteString("  :root:not([data-theme]) {\n")
	writeDeclarations(&sb, light, "    ")
	sb.WriteString("  }\n")
	sb.WriteString("}\n")

	return sb.String()
}

func writeDeclarations(sb *strings.Builder, vars map[string]string, indent string) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, "%s%s: %s;\n", indent, name, vars[name])
	}
}

// EmailPalette is the flat hex palette the email renderer expects.
type EmailPalette struct {
	PrimaryColor    string `json:"primary_color" yaml:"primary_color"`
	SecondaryColor  string `json:"secondary_color" yaml:"secondary_color"`
	AccentColor     string `json:"accent_color" yaml:"accent_color"`
	BackgroundColor string `json:"background_color" yaml:"background_color"`
	BodyColor       string `json:"body_color" yaml:"body_color"`
	TextColor       string `json:"text_color" yaml:"text_color"`
	MutedTextColor  string `json:"muted_text_color" yaml:"muted_text_color"`
	ButtonColor     string `json:"button_color" yaml:"button_color"`
	ButtonTextColor string `json:"button_text_color" yaml:"button_text_color"`
}

// ToEmailPalette maps the nine email-relevant tokens of one mode.
func ToEmailPalette(cp CanonicalPalette, mode Mode) EmailPalette {
	p := cp.Mode(mode)
	return EmailPalette{
		PrimaryColor:    p.Get(TokenAccentPrimary).Hex(),
		SecondaryColor:  p.Get(TokenSecondary).Hex(),
		AccentColor:     p.Get(TokenAccentSecondary).Hex(),
		BackgroundColor: p.Get(TokenBackground).Hex(),
		BodyColor:       p.Get(TokenBody).Hex(),
		TextColor:       p.Get(TokenTextPrimary).Hex(),
		MutedTextColor:  p.Get(TokenMutedText).Hex(),
		ButtonColor:     p.Get(TokenButton).Hex(),
		ButtonTextColor: p.Get(TokenButtonText).Hex(),
	}
}

// VariantMode tells the email renderer whether a light palette accompanies
// the main one.
type VariantMode string

const (
	VariantSingle VariantMode = "single"
	VariantDual   VariantMode = "dual"
)

// ParseVariantMode accepts "single" or "dual".
func ParseVariantMode(s string) (VariantMode, error) {
	switch VariantMode(strings.ToLower(strings.TrimSpace(s))) {
	case VariantSingle:
		return VariantSingle, nil
	case VariantDual:
		return VariantDual, nil
	}
	return "", fmt.Errorf("invalid variant mode %q: must be \"single\" or \"dual\"", s)
}

// EmailTheme mirrors the persisted default email theme record.
type EmailTheme struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	IsDefault   bool        `json:"is_default" yaml:"is_default"`
	VariantMode VariantMode `json:"variant_mode" yaml:"variant_mode"`
	EmailPalette `yaml:",inline"`
	LightPalette *EmailPalette `json:"light_palette,omitempty" yaml:"light_palette,omitempty"`
}

// NewEmailTheme fills the palette fields of a default email theme. A single
// variant uses mode; a dual variant uses dark for the main palette and light
// for LightPalette.
func NewEmailTheme(cp CanonicalPalette, variant VariantMode, mode Mode) EmailTheme {
	t := EmailTheme{IsDefault: true, VariantMode: variant}
	if variant == VariantDual {
		t.EmailPalette = ToEmailPalette(cp, ModeDark)
		light := ToEmailPalette(cp, ModeLight)
		t.LightPalette = &light
		return t
	}
	t.VariantMode = VariantSingle
	t.EmailPalette = ToEmailPalette(cp, mode)
	return t
}
