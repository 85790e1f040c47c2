//go:build gocv

package dnn

import (
	"context"
	"image"
	"os"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
)

// Detector runs the network. gocv.Net is not safe for concurrent use, so
// inference is serialised.
type Detector struct {
	mu     sync.Mutex
	net    gocv.Net
	target Target
}

// Open loads the model and selects target. A probe forward pass runs so a
// target that cannot execute fails here rather than on the first request.
func Open(ctx context.Context, opts Options, target Target) (*Detector, error) {
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, errors.Wrap(err, "model file not found")
	}
	if _, err := os.Stat(opts.ConfigPath); err != nil {
		return nil, errors.Wrap(err, "config file not found")
	}

	net := gocv.ReadNet(opts.ModelPath, opts.ConfigPath)
	if net.Empty() {
		return nil, errors.Errorf("failed to load network from %s", opts.ModelPath)
	}

	backend, tgt := gocv.NetBackendDefault, gocv.NetTargetCPU
	if target == TargetCUDA {
		backend, tgt = gocv.NetBackendCUDA, gocv.NetTargetCUDA
	}
	if err := net.SetPreferableBackend(backend); err != nil {
		net.Close()
		return nil, errors.Wrapf(err, "failed to set %s backend", target)
	}
	if err := net.SetPreferableTarget(tgt); err != nil {
		net.Close()
		return nil, errors.Wrapf(err, "failed to set %s target", target)
	}

	d := &Detector{net: net, target: target}
	if _, err := d.Detect(ctx, image.NewRGBA(image.Rect(0, 0, 32, 32))); err != nil {
		d.Close()
		return nil, errors.Wrapf(err, "probe inference on %s failed", target)
	}
	return d, nil
}

// Name implements detection.Detector.
func (d *Detector) Name() string {
	return "dnn:" + string(d.target)
}

// Detect implements detection.Detector.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert image")
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.New("converted image is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	rows := output.Reshape(1, output.Total()/ssdRowLen)
	defer rows.Close()

	data, err := rows.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read network output")
	}
	return decodeSSD(data, mat.Cols(), mat.Rows()), nil
}

// Close releases the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
