// Package annotate draws detection boxes and captions onto a copy of an
// image.
//
// Each detection gets an outline StrokeWidth pixels wide, drawn inward from
// its (xmin, ymin) and (xmax, ymax) corners, and a caption such as
// "dog: 0.95" on a filled background. The caption sits Offset pixels above
// the box; when that would put it within Offset pixels of the top edge it is
// moved inside the box instead.
//
// Text measurement degrades in steps so rendering never fails:
//
//  1. glyph bounds from font.BoundString
//  2. advance width with the face's ascent and descent
//  3. a fixed 8x12 pixels-per-character estimate
//
// Coordinates that are inverted, degenerate or outside the image are drawn
// clipped; they are never rejected.
package annotate
