package detection

import (
	"errors"
	"fmt"
	"math"
)

// Threshold bounds accepted from callers.
const (
	MinThreshold     = 0.1
	MaxThreshold     = 1.0
	DefaultThreshold = 0.8
	ThresholdStep    = 0.05
)

// ErrInvalidThreshold is returned for thresholds outside [MinThreshold, MaxThreshold].
var ErrInvalidThreshold = errors.New("invalid confidence threshold")

// ValidateThreshold checks that t lies in [MinThreshold, MaxThreshold].
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < MinThreshold || t > MaxThreshold {
		return fmt.Errorf("%w: %v not in [%.1f, %.1f]", ErrInvalidThreshold, t, MinThreshold, MaxThreshold)
	}
	return nil
}

// Filter keeps the detections with Score >= threshold, in input order, and
// truncates their coordinates toward zero.
//
// Overlapping boxes are not suppressed and degenerate boxes are not
// rejected. The result is never nil.
func Filter(dets []RawDetection, threshold float64) []FilteredDetection {
	out := make([]FilteredDetection, 0, len(dets))
	for _, d := range dets {
		// NaN scores fail every comparison and are dropped.
		if !(d.Score >= threshold) {
			continue
		}
		out = append(out, FilteredDetection{
			Label: d.Label,
			Score: d.Score,
			XMin:  int(d.Box.XMin),
			YMin:  int(d.Box.YMin),
			XMax:  int(d.Box.XMax),
			YMax:  int(d.Box.YMax),
		})
	}
	return out
}
