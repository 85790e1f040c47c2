// Package pipeline runs one detection request end to end: check the
// detector, load the image, detect, filter, annotate and summarise.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironsheep/object-annotate-mcp/internal/annotate"
	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/fonts"
	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
)

// EmptyMessage is shown when no detection passes the threshold.
const EmptyMessage = "no objects found at this threshold"

// DetectorSource hands out the shared detector, or an error wrapping
// detection.ErrDetectorUnavailable.
type DetectorSource interface {
	Get(ctx context.Context) (detection.Detector, error)
}

// ImageLoader resolves a Source into a raster.
type ImageLoader interface {
	Load(ctx context.Context, src imaging.Source) (*imaging.Raster, error)
}

// FontSource returns a font face at a pixel size. It must not fail.
type FontSource interface {
	Resolve(size float64) *fonts.Font
}

// Request is one pipeline invocation.
type Request struct {
	Source    imaging.Source
	Threshold float64
}

// Result is everything the presentation layer shows for one request.
type Result struct {
	Original  *imaging.Raster
	Annotated *imaging.Raster

	// Elapsed covers the detector call only.
	Elapsed time.Duration

	Records   []detection.DetectionRecord
	Threshold float64

	// Source describes where the image came from, e.g. "from URL: ...".
	Source string

	// Backend names the detector that produced the detections.
	Backend string
}

// Empty reports whether no detection passed the threshold.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// Pipeline is stateless between runs and safe for concurrent use.
type Pipeline struct {
	detectors DetectorSource
	loader    ImageLoader
	fonts     FontSource
	renderer  *annotate.Renderer
	fontSize  float64
	logger    *slog.Logger
}

// Options configures a Pipeline. Zero values take defaults.
type Options struct {
	Style    annotate.Style
	FontSize float64
	Logger   *slog.Logger
}

// New creates a Pipeline. A nil fonts source uses the built-in default font.
func New(detectors DetectorSource, loader ImageLoader, fontSource FontSource, opts Options) *Pipeline {
	if opts.FontSize <= 0 {
		opts.FontSize = fonts.DefaultSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		detectors: detectors,
		loader:    loader,
		fonts:     fontSource,
		renderer:  annotate.NewRenderer(opts.Style),
		fontSize:  opts.FontSize,
		logger:    opts.Logger,
	}
}

// Run executes req. Errors match, with errors.Is, one of
// detection.ErrDetectorUnavailable, detection.ErrInvalidThreshold,
// imaging.ErrImageFetch, imaging.ErrImageDecode, imaging.ErrNoSource or
// detection.ErrDetectorInference.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	det, err := p.detectors.Get(ctx)
	if err != nil {
		if !errors.Is(err, detection.ErrDetectorUnavailable) {
			err = fmt.Errorf("%w: %w", detection.ErrDetectorUnavailable, err)
		}
		return nil, err
	}

	if err := detection.ValidateThreshold(req.Threshold); err != nil {
		return nil, err
	}

	raster, err := p.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("image loaded", "source", raster.Origin, "format", raster.Format,
		"width", raster.Bounds().Dx(), "height", raster.Bounds().Dy())

	start := time.Now()
	raw, err := det.Detect(ctx, raster.Clone().Image)
	elapsed := time.Since(start)
	if err != nil {
		if !errors.Is(err, detection.ErrDetectorInference) {
			err = fmt.Errorf("%w: %w", detection.ErrDetectorInference, err)
		}
		return nil, err
	}

	filtered := detection.Filter(raw, req.Threshold)
	p.logger.Info("detection complete", "backend", det.Name(), "raw", len(raw),
		"kept", len(filtered), "threshold", req.Threshold, "elapsed", elapsed)

	annotated, records := p.renderer.Render(raster, filtered, p.face().Face)

	return &Result{
		Original:  raster,
		Annotated: annotated,
		Elapsed:   elapsed,
		Records:   records,
		Threshold: req.Threshold,
		Source:    raster.Origin,
		Backend:   det.Name(),
	}, nil
}

// face resolves a fresh face for one run; faces are not shared between
// goroutines.
func (p *Pipeline) face() *fonts.Font {
	if p.fonts == nil {
		return fonts.Default(p.fontSize)
	}
	return p.fonts.Resolve(p.fontSize)
}
