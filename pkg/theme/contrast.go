package theme

import "math"

// Minimum contrast ratios enforced for text roles.
const (
	MinContrastPrimaryText   = 4.5
	MinContrastSecondaryText = 3.5
	MinContrastMutedText     = 3.0
	MinContrastInverseText   = 4.5
	MinContrastButtonText    = 4.5
)

// RelativeLuminance returns the sRGB relative luminance of c in [0,1].
func RelativeLuminance(c Color) float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(ch uint8) float64 {
	v := float64(ch) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio is symmetric and ranges from 1 (identical luminance) to 21
// (black on white).
func ContrastRatio(fg, bg Color) float64 {
	l1, l2 := RelativeLuminance(fg), RelativeLuminance(bg)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// EnsureContrast returns candidate if it meets minRatio against background,
// else fallback if that does, else whichever of black or white contrasts more
// (black on a tie). It never fails.
func EnsureContrast(candidate string, background Color, fallback string, minRatio float64) Color {
	if c := ToHex(candidate, fallback); ContrastRatio(c, background) >= minRatio {
		return c
	}
	if c := ToHex(fallback, ""); ContrastRatio(c, background) >= minRatio {
		return c
	}
	return BestOf(background)
}

// BestOf picks black or white, whichever contrasts more with background.
func BestOf(background Color) Color {
	if ContrastRatio(Black, background) >= ContrastRatio(White, background) {
		return Black
	}
	return White
}
