//go:build cgo

package ocr

import (
	"bytes"
	"context"
	"image"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
)

// Detector recognises words with a single Tesseract client.
type Detector struct {
	mu     sync.Mutex
	client *gosseract.Client
	opts   Options
}

// Open creates a Detector and runs one recognition on a blank image so that
// missing language data is reported here instead of on the first request.
func Open(ctx context.Context, opts Options) (*Detector, error) {
	opts = opts.withDefaults()

	client := gosseract.NewClient()
	if opts.TessdataDir != "" {
		if err := client.SetTessdataPrefix(opts.TessdataDir); err != nil {
			client.Close()
			return nil, errors.Wrap(err, "failed to set tessdata path")
		}
	}
	if err := client.SetLanguage(opts.Language); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "failed to set language %q", opts.Language)
	}

	d := &Detector{client: client, opts: opts}
	if _, err := d.Detect(ctx, image.NewGray(image.Rect(0, 0, 16, 16))); err != nil {
		d.Close()
		return nil, errors.Wrap(err, "tesseract probe failed")
	}
	return d, nil
}

// Name implements detection.Detector.
func (d *Detector) Name() string {
	return "text:" + d.opts.Language
}

// Version returns the linked Tesseract version.
func (d *Detector) Version() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client.Version()
}

// Detect implements detection.Detector.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.WritePNG(&buf, upscale(img, d.opts.Scale)); err != nil {
		return nil, errors.Wrap(err, "failed to encode image for tesseract")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, errors.Wrap(err, "failed to set image")
	}
	boxes, err := d.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get word boxes")
	}

	words := make([]word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, word{text: b.Word, confidence: b.Confidence, box: b.Box})
	}
	return toDetections(words, d.opts.Scale, img.Bounds().Min), nil
}

// Close releases the Tesseract client.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client.Close()
}
