// Package shapes is a dependency-free detector backend that reports
// geometric shapes as objects.
//
// It is meant for environments where no model is available: diagrams,
// screenshots and synthetic test images. Rectangles are labelled
// "rectangle" and circles "circle".
//
// # Algorithm Overview
//
//  1. Downscale: images larger than Options.MaxDimension are shrunk first so
//     the Hough stage stays tractable; boxes are mapped back afterwards, which
//     makes them fractional.
//  2. Edge Detection: grayscale gradient against the right and lower
//     neighbours, thresholded at 30.
//  3. Rectangles: 8-connected edge contours whose pixel count is close to the
//     perimeter of their bounding box.
//  4. Circles: Hough voting every 10° per radius, local maxima over an 11x11
//     window, near-duplicate centres merged.
//
// # Scores
//
//   - Rectangles: 1 - |contour length - 2(w+h)| / 2(w+h)
//   - Circles: votes / 2r, capped at 1
//
// # Limitations
//
// Only axis-aligned rectangles and true circles are found. Photographs and
// noisy images produce few or spurious detections.
package shapes
