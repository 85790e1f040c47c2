package shapes

import (
	"context"
	"image"

	"github.com/nfnt/resize"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
)

// Options tunes the shape detector. Sizes are in source-image pixels.
type Options struct {
	// MinArea is the smallest rectangle area reported.
	MinArea int

	// Tolerance is the minimum rectangularity score (0.0 to 1.0).
	Tolerance float64

	// MinRadius and MaxRadius bound the circle search.
	MinRadius int
	MaxRadius int

	// MaxDimension caps the analysis resolution; 0 disables downscaling.
	MaxDimension int

	// Circles enables the Hough circle stage.
	Circles bool
}

// DefaultOptions returns settings suited to diagrams and screenshots.
func DefaultOptions() Options {
	return Options{
		MinArea:      100,
		Tolerance:    0.9,
		MinRadius:    5,
		MaxRadius:    60,
		MaxDimension: 320,
		Circles:      true,
	}
}

// Detector reports rectangles and circles as detections.
type Detector struct {
	opts Options
}

// New creates a shape Detector. Zero-valued numeric options take their
// defaults.
func New(opts Options) *Detector {
	def := DefaultOptions()
	if opts.MinArea <= 0 {
		opts.MinArea = def.MinArea
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.MinRadius <= 0 {
		opts.MinRadius = def.MinRadius
	}
	if opts.MaxRadius < opts.MinRadius {
		opts.MaxRadius = max(def.MaxRadius, opts.MinRadius)
	}
	return &Detector{opts: opts}
}

// Name implements detection.Detector.
func (d *Detector) Name() string {
	return "shapes"
}

// Detect implements detection.Detector. Rectangles come first (largest
// first), then circles (strongest first).
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	work, sx, sy := d.downscale(img)
	em := detectEdges(work)

	scaleArea := sx * sy
	found := findRectangles(em, max(1, int(float64(d.opts.MinArea)/scaleArea)), d.opts.Tolerance)

	if d.opts.Circles {
		minR := max(1, int(float64(d.opts.MinRadius)/sx))
		maxR := max(minR, int(float64(d.opts.MaxRadius)/sx))
		circles, err := findCircles(ctx, em, minR, maxR)
		if err != nil {
			return nil, err
		}
		found = append(found, circles...)
	}

	origin := img.Bounds().Min
	dets := make([]detection.RawDetection, 0, len(found))
	for _, s := range found {
		dets = append(dets, detection.RawDetection{
			Label: s.label,
			Score: s.score,
			Box: detection.Box{
				XMin: float64(s.minX)*sx + float64(origin.X),
				YMin: float64(s.minY)*sy + float64(origin.Y),
				XMax: float64(s.maxX)*sx + float64(origin.X),
				YMax: float64(s.maxY)*sy + float64(origin.Y),
			},
		})
	}
	return dets, nil
}

// downscale shrinks img to fit MaxDimension and returns the factors that map
// analysis coordinates back to the source.
func (d *Detector) downscale(img image.Image) (image.Image, float64, float64) {
	b := img.Bounds()
	limit := d.opts.MaxDimension
	if limit <= 0 || (b.Dx() <= limit && b.Dy() <= limit) {
		return img, 1, 1
	}

	small := resize.Thumbnail(uint(limit), uint(limit), img, resize.Bilinear)
	sb := small.Bounds()
	return small, float64(b.Dx()) / float64(sb.Dx()), float64(b.Dy()) / float64(sb.Dy())
}
