//go:build !gocv

package dnn

import (
	"context"
	"image"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
)

// Detector is unavailable without the gocv build tag.
type Detector struct {
	target Target
}

// Open always fails with ErrNotBuilt.
func Open(ctx context.Context, opts Options, target Target) (*Detector, error) {
	return nil, ErrNotBuilt
}

// Name implements detection.Detector.
func (d *Detector) Name() string {
	return "dnn:" + string(d.target)
}

// Detect implements detection.Detector.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	return nil, ErrNotBuilt
}

// Close implements io.Closer.
func (d *Detector) Close() error {
	return nil
}
