package core

// Color is the foreground of a screen cell, one entry of the ANSI 16-color
// set plus two 256-color extras used for ball palettes.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// paletteNames lists the colors a ball palette may name.
var paletteNames = map[string]Color{
	"red":     ColorRed,
	"green":   ColorGreen,
	"yellow":  ColorYellow,
	"blue":    ColorBlue,
	"magenta": ColorMagenta,
	"cyan":    ColorCyan,
	"white":   ColorWhite,
	"orange":  ColorOrange,
	"gray":    ColorGray,
}

// ParseColor resolves a palette name such as "red".
func ParseColor(name string) (Color, bool) {
	c, ok := paletteNames[name]
	return c, ok
}

// Bright returns the highlighted shade used for hovered clusters.
// Colors without a bright shade highlight as bright white.
func (c Color) Bright() Color {
	switch c {
	case ColorRed, ColorGreen, ColorYellow, ColorBlue, ColorMagenta, ColorCyan, ColorWhite:
		return c + (ColorBrightRed - ColorRed)
	case ColorBrightRed, ColorBrightGreen, ColorBrightYellow, ColorBrightBlue,
		ColorBrightMagenta, ColorBrightCyan, ColorBrightWhite:
		return c
	default:
		return ColorBrightWhite
	}
}

// IsBright reports whether c is one of the bright shades.
func (c Color) IsBright() bool {
	return c >= ColorBrightRed && c <= ColorBrightWhite
}
