// Package theme turns a sparse map of admin-configured brand colors into two
// complete, contrast-safe palettes (dark and light) and projects them into
// CSS custom properties and an email-safe hex palette.
//
// Every exported operation is a pure function over its arguments plus the
// built-in defaults table. Nothing in this package performs I/O or logs.
package theme

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned by Parse for input that is not a recognised
// color encoding.
var ErrInvalidColor = errors.New("invalid color")

// Color is an opaque 24-bit RGB value. Its canonical textual form is
// "#RRGGBB" in upper case.
type Color struct {
	R, G, B uint8
}

// Black and White are the two colors the contrast policy degrades to.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// Hex returns the canonical "#RRGGBB" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// RGBTriplet returns the space-separated decimal channels, e.g. "34 197 94",
// for use in CSS rgb(var(--x) / alpha) composition.
func (c Color) RGBTriplet() string {
	return fmt.Sprintf("%d %d %d", c.R, c.G, c.B)
}

// MarshalText encodes the color in canonical form.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts any encoding Parse accepts.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

var functionalPattern = regexp.MustCompile(`^(rgba?|hsla?)\s*\((.*)\)$`)

// Parse decodes hex (#RGB, #RRGGBB, #RRGGBBAA; the '#' may be omitted for
// the six and eight digit forms),
// rgb()/rgba() and hsl()/hsla() encodings. Alpha is accepted and dropped.
func Parse(raw string) (Color, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty value", ErrInvalidColor)
	}

	if c, ok := parseHex(s); ok {
		return c, nil
	}

	m := functionalPattern.FindStringSubmatch(s)
	if m == nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, raw)
	}
	parts := splitComponents(m[2])
	if len(parts) < 3 {
		return Color{}, fmt.Errorf("%w: %q needs three components", ErrInvalidColor, raw)
	}

	var (
		c   Color
		err error
	)
	if strings.HasPrefix(m[1], "rgb") {
		c, err = parseRGB(parts[:3])
	} else {
		c, err = parseHSL(parts[:3])
	}
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, raw, err)
	}
	return c, nil
}

// ToHex never fails: it tries raw, then fallback, then returns Black.
func ToHex(raw, fallback string) Color {
	if c, err := Parse(raw); err == nil {
		return c
	}
	if c, err := Parse(fallback); err == nil {
		return c
	}
	return Black
}

func parseHex(s string) (Color, bool) {
	hash := strings.HasPrefix(s, "#")
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		// A bare three-letter word like "bad" is never a color.
		if !hash {
			return Color{}, false
		}
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	case 8:
		s = s[:6]
	default:
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

func splitComponents(body string) []string {
	return strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == '\t' || r == '\n'
	})
}

func parseRGB(parts []string) (Color, error) {
	var ch [3]uint8
	for i, p := range parts {
		v, err := rgbChannel(p)
		if err != nil {
			return Color{}, err
		}
		ch[i] = v
	}
	return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// rgbChannel reads one rgb() component. Values at or below 1.0 are fractions
// of 255; percentages are fractions of 100.
func rgbChannel(p string) (uint8, error) {
	percent := strings.HasSuffix(p, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bad rgb component %q", p)
	}
	switch {
	case percent:
		v = v / 100 * 255
	case v <= 1:
		v *= 255
	}
	return uint8(math.Round(clamp(v, 0, 255))), nil
}

func parseHSL(parts []string) (Color, error) {
	h, err := strconv.ParseFloat(strings.TrimSuffix(parts[0], "deg"), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return Color{}, fmt.Errorf("bad hue %q", parts[0])
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	s, err := unitComponent(parts[1])
	if err != nil {
		return Color{}, err
	}
	l, err := unitComponent(parts[2])
	if err != nil {
		return Color{}, err
	}

	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// unitComponent reads an hsl() saturation or lightness as a [0,1] fraction.
// Bare numbers above 1 are taken as percentages.
func unitComponent(p string) (float64, error) {
	percent := strings.HasSuffix(p, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("bad hsl component %q", p)
	}
	if percent || v > 1 {
		v /= 100
	}
	return clamp(v, 0, 1), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
