package annotate

import (
	"image"

	"golang.org/x/image/font"
)

const (
	estimateCharWidth = 8
	estimateHeight    = 12
)

// Extent is the rendered size of a caption. Ascent is the distance from the
// top of the text to its baseline.
type Extent struct {
	Width  int
	Height int
	Ascent int
}

// Measure returns the pixel extent of text in face. A nil face, or one that
// reports nothing for text, falls through to a per-character estimate.
func Measure(face font.Face, text string) Extent {
	if face != nil {
		bounds, advance := font.BoundString(face, text)
		if bounds.Max.X > bounds.Min.X && bounds.Max.Y > bounds.Min.Y {
			return Extent{
				Width:  (bounds.Max.X - bounds.Min.X).Ceil(),
				Height: (bounds.Max.Y - bounds.Min.Y).Ceil(),
				Ascent: (-bounds.Min.Y).Ceil(),
			}
		}
		if advance > 0 {
			m := face.Metrics()
			return Extent{
				Width:  advance.Ceil(),
				Height: (m.Ascent + m.Descent).Ceil(),
				Ascent: m.Ascent.Ceil(),
			}
		}
	}
	return estimate(text)
}

func estimate(text string) Extent {
	return Extent{
		Width:  len(text) * estimateCharWidth,
		Height: estimateHeight,
		Ascent: estimateHeight,
	}
}

// PlaceLabel returns the top-left corner of the caption for a box whose top
// left corner is (xmin, ymin).
func (s Style) PlaceLabel(xmin, ymin int, ext Extent) image.Point {
	y := ymin - ext.Height - s.Offset
	if y < s.Offset {
		y = ymin + s.Offset
	}
	return image.Pt(xmin+s.Margin, y)
}
