//go:build !cgo

package ocr

import (
	"context"
	"image"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
)

// Detector is unavailable without cgo.
type Detector struct {
	opts Options
}

// Open always fails with ErrNotBuilt.
func Open(ctx context.Context, opts Options) (*Detector, error) {
	return nil, ErrNotBuilt
}

// Name implements detection.Detector.
func (d *Detector) Name() string {
	return "text:" + d.opts.Language
}

// Version reports that Tesseract is not linked.
func (d *Detector) Version() string {
	return ""
}

// Detect implements detection.Detector.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	return nil, ErrNotBuilt
}

// Close implements io.Closer.
func (d *Detector) Close() error {
	return nil
}
