// Package detection holds the detector-facing data model and the pure
// functions that turn raw detector output into display records.
//
// The flow through this package is:
//
//  1. A Detector (any backend) returns []RawDetection in its own emission order.
//  2. Filter keeps the detections whose score reaches the threshold and
//     truncates their box coordinates to integer pixels.
//  3. Summarize turns each FilteredDetection into a DetectionRecord for
//     tables and JSON output.
//
// # Coordinates
//
// Boxes use image pixel coordinates with (0,0) at the top-left corner.
// Detector boxes may be fractional; filtered boxes are truncated toward zero,
// not rounded. Nothing here guarantees xmin < xmax or ymin < ymax: degenerate
// boxes from a detector pass straight through and the renderer copes with them.
//
// # Overlaps
//
// No non-maximum suppression is performed. Overlapping detections that each
// pass the threshold are all kept.
//
// # Detector Lifecycle
//
// Provider owns the process-wide detector. It initialises it once from an
// ordered list of candidates (typically an accelerated configuration first and
// a plain one second) and remembers a permanent failure so later calls fail
// fast with ErrDetectorUnavailable.
//
// # Thread Safety
//
// Filter and Summarize are pure and allocate fresh results. Provider is safe
// for concurrent use; the detector it hands out is shared read-only.
package detection
