package annotate

import (
	"image/color"

	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
)

var (
	defaultOutline = color.NRGBA{R: 255, A: 255}
	defaultText    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Style controls how boxes and captions look.
type Style struct {
	// Outline is the box colour.
	Outline color.Color

	// Background fills the caption rectangle.
	Background color.Color

	// Text is the caption colour.
	Text color.Color

	// StrokeWidth is the outline thickness in pixels.
	StrokeWidth int

	// Margin pads the caption background and indents the caption from xmin.
	Margin int

	// Offset is the gap between caption and box, and the minimum distance
	// from the top edge before the caption flips inside the box.
	Offset int
}

// DefaultStyle is red boxes with white captions on red.
func DefaultStyle() Style {
	return Style{
		Outline:     defaultOutline,
		Background:  defaultOutline,
		Text:        defaultText,
		StrokeWidth: 3,
		Margin:      2,
		Offset:      5,
	}
}

// NewStyle builds the default style with the given colour strings. An
// unparsable outline keeps the default red. An empty text colour picks
// black or white for contrast with the outline; an unparsable one keeps the
// default white.
func NewStyle(outline, text string) Style {
	s := DefaultStyle()
	if outline != "" {
		c := imaging.ParseColorOr(outline, defaultOutline)
		s.Outline, s.Background = c, c
	}
	if text == "" {
		s.Text = imaging.ContrastColor(s.Background)
	} else {
		s.Text = imaging.ParseColorOr(text, defaultText)
	}
	return s
}

// withDefaults fills zero fields so a partially built Style still renders.
func (s Style) withDefaults() Style {
	def := DefaultStyle()
	if s.Outline == nil {
		s.Outline = def.Outline
	}
	if s.Background == nil {
		s.Background = s.Outline
	}
	if s.Text == nil {
		s.Text = def.Text
	}
	if s.StrokeWidth <= 0 {
		s.StrokeWidth = def.StrokeWidth
	}
	if s.Margin < 0 {
		s.Margin = def.Margin
	}
	if s.Offset < 0 {
		s.Offset = def.Offset
	}
	return s
}
