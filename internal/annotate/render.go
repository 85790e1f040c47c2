package annotate

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
)

// Renderer draws detections with a fixed Style. It holds no per-call state
// and may be shared; the font.Face passed to Render may not.
type Renderer struct {
	style Style
}

// NewRenderer creates a Renderer. Zero fields of style take their defaults.
func NewRenderer(style Style) *Renderer {
	return &Renderer{style: style.withDefaults()}
}

// Style returns the effective style.
func (r *Renderer) Style() Style {
	return r.style
}

// Render draws dets onto a copy of img and returns it with one record per
// detection, in input order. img is never modified. A nil img yields a nil
// raster and no records; a nil face uses the built-in bitmap font.
func (r *Renderer) Render(img *imaging.Raster, dets []detection.FilteredDetection, face font.Face) (*imaging.Raster, []detection.DetectionRecord) {
	records := make([]detection.DetectionRecord, 0, len(dets))
	if img == nil || img.Image == nil {
		return nil, records
	}
	if face == nil {
		face = basicfont.Face7x13
	}

	out := img.Clone()
	for _, d := range dets {
		records = append(records, detection.Summarize(d))
		r.drawOutline(out.Image, d.Rect())
		r.drawCaption(out.Image, d.XMin, d.YMin, d.Caption(), face)
	}
	return out, records
}

// drawOutline strokes rect inward from its corners, both of which are
// inclusive.
func (r *Renderer) drawOutline(dst draw.Image, rect image.Rectangle) {
	b := rect.Canon()
	x0, y0, x1, y1 := b.Min.X, b.Min.Y, b.Max.X, b.Max.Y
	w := r.style.StrokeWidth

	strips := []image.Rectangle{
		image.Rect(x0, y0, x1+1, y0+w),     // top
		image.Rect(x0, y1-w+1, x1+1, y1+1), // bottom
		image.Rect(x0, y0, x0+w, y1+1),     // left
		image.Rect(x1-w+1, y0, x1+1, y1+1), // right
	}
	for _, s := range strips {
		fill(dst, s, r.style.Outline)
	}
}

func (r *Renderer) drawCaption(dst draw.Image, xmin, ymin int, text string, face font.Face) {
	ext := Measure(face, text)
	at := r.style.PlaceLabel(xmin, ymin, ext)
	m := r.style.Margin

	fill(dst, image.Rect(at.X-m, at.Y-m, at.X+ext.Width+m+1, at.Y+ext.Height+m+1), r.style.Background)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.style.Text),
		Face: face,
		Dot:  fixed.P(at.X, at.Y+ext.Ascent),
	}
	d.DrawString(text)
}

// fill paints rect clipped to dst.
func fill(dst draw.Image, rect image.Rectangle, c color.Color) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Src)
}
