// Package dnn is a detector backend that runs an SSD MobileNet COCO model
// through the OpenCV DNN module.
//
// The OpenCV binding needs cgo and an installed OpenCV, so it is only
// compiled with the gocv build tag:
//
//	go build -tags gocv ./...
//
// Without the tag Open always fails and the provider moves on to the next
// candidate.
//
// The model is a TensorFlow frozen graph plus its .pbtxt config, e.g.
// ssd_mobilenet_v2_coco. Input is a 300x300 RGB blob scaled to [-1, 1];
// output is N rows of [image, class, score, x1, y1, x2, y2] with
// coordinates normalised to the input image.
package dnn

import "errors"

// Target selects where the network runs.
type Target string

const (
	TargetCUDA Target = "cuda"
	TargetCPU  Target = "cpu"
)

// Options locates the model files.
type Options struct {
	ModelPath  string
	ConfigPath string
}

// ErrNotBuilt is returned by Open in binaries built without gocv.
var ErrNotBuilt = errors.New("dnn backend not compiled in (build with -tags gocv)")
