package detection

import (
	"fmt"
	"image"
)

// Box is a detector-reported bounding box, possibly fractional.
type Box struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

// RawDetection is one object instance as emitted by a detector.
type RawDetection struct {
	Label string  `json:"label"`
	Score float64 `json:"score"` // 0.0 to 1.0
	Box   Box     `json:"box"`
}

// FilteredDetection is a RawDetection that passed the threshold, with its
// box truncated to integer pixels.
type FilteredDetection struct {
	Label string
	Score float64
	XMin  int
	YMin  int
	XMax  int
	YMax  int
}

// Rect returns the box as an image.Rectangle without canonicalising it.
func (f FilteredDetection) Rect() image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(f.XMin, f.YMin),
		Max: image.Pt(f.XMax, f.YMax),
	}
}

// Caption is the label text drawn above the box, e.g. "dog: 0.95".
func (f FilteredDetection) Caption() string {
	return fmt.Sprintf("%s: %.2f", f.Label, f.Score)
}

// DetectionRecord is the display-facing row for one detection.
type DetectionRecord struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // rounded to 3 decimals
	Box        [4]int  `json:"box"`        // xmin, ymin, xmax, ymax
}
