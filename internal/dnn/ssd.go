package dnn

import (
	"math"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
)

const ssdRowLen = 7

// decodeSSD converts the flattened SSD output into detections in pixel
// coordinates of a width x height image. Padding rows (negative image index
// or zero score) are skipped; nothing else is filtered.
func decodeSSD(out []float32, width, height int) []detection.RawDetection {
	dets := make([]detection.RawDetection, 0, len(out)/ssdRowLen)
	w, h := float64(width), float64(height)

	for i := 0; i+ssdRowLen <= len(out); i += ssdRowLen {
		row := out[i : i+ssdRowLen]
		score := float64(row[2])
		if row[0] < 0 || score <= 0 || math.IsNaN(score) {
			continue
		}
		dets = append(dets, detection.RawDetection{
			Label: Label(int(row[1])),
			Score: math.Min(score, 1),
			Box: detection.Box{
				XMin: clamp01(row[3]) * w,
				YMin: clamp01(row[4]) * h,
				XMax: clamp01(row[5]) * w,
				YMax: clamp01(row[6]) * h,
			},
		})
	}
	return dets
}

func clamp01(v float32) float64 {
	return math.Max(0, math.Min(1, float64(v)))
}
