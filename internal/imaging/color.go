package imaging

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]color.NRGBA{
	"red":    {R: 255, A: 255},
	"green":  {G: 128, A: 255},
	"blue":   {B: 255, A: 255},
	"yellow": {R: 255, G: 255, A: 255},
	"white":  {R: 255, G: 255, B: 255, A: 255},
	"black":  {A: 255},
}

// ParseColor parses a colour name ("red", "white", ...) or a hex string
// ("#F00", "#FF0000"). The result is always opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if s[0] != '#' {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// ParseColorOr is ParseColor with a fallback for unparsable input.
func ParseColorOr(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// ContrastColor picks black or white, whichever reads better on bg.
// The decision uses CIE L* lightness rather than raw RGB averages.
func ContrastColor(bg color.Color) color.NRGBA {
	c, ok := colorful.MakeColor(bg)
	if !ok {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}
