// Package imaging acquires and encodes the rasters that the annotation
// pipeline operates on.
//
// An image can originate from a remote URL, an uploaded byte buffer, or a
// file on disk. Whatever the origin, the result is a Raster whose pixels are
// held in an *image.NRGBA with every alpha value forced to opaque, so the
// rest of the pipeline only ever sees RGB data.
//
// # Coordinate System
//
// All rasters are rebased so their bounds start at (0,0):
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Ownership
//
// A Raster is owned by whichever pipeline step currently holds it. Steps that
// need to draw call Clone first, so the original stays available for
// side-by-side display.
//
// # Error Handling
//
// Acquisition failures are reported with two sentinel kinds that callers
// match with errors.Is:
//   - ErrImageFetch: the bytes could not be obtained (transport error,
//     timeout, non-2xx status, unreadable file)
//   - ErrImageDecode: the bytes were obtained but are not a supported image
//
// Nothing in this package retries; the caller re-invokes.
//
// # Thread Safety
//
// Loader and Fetcher hold no mutable state and are safe for concurrent use.
package imaging
