package shapes

import (
	"math"
	"sort"
)

// shape is a detection in analysis coordinates. maxX/maxY are inclusive.
type shape struct {
	label      string
	minX, minY int
	maxX, maxY int
	score      float64
}

func (s shape) area() int {
	return (s.maxX - s.minX) * (s.maxY - s.minY)
}

// findRectangles returns contours that trace their own bounding box, largest
// first.
func findRectangles(em *edgeMap, minArea int, tolerance float64) []shape {
	var rects []shape

	for _, c := range em.contours(10) {
		minX, minY := em.w, em.h
		maxX, maxY := 0, 0
		for _, p := range c {
			minX = min(minX, p.x)
			maxX = max(maxX, p.x)
			minY = min(minY, p.y)
			maxY = max(maxY, p.y)
		}

		w, h := maxX-minX, maxY-minY
		if w*h < minArea {
			continue
		}

		perimeter := 2 * (w + h)
		score := 1.0 - math.Abs(float64(len(c)-perimeter))/float64(perimeter)
		if score < tolerance {
			continue
		}

		rects = append(rects, shape{
			label: "rectangle",
			minX:  minX, minY: minY,
			maxX: maxX, maxY: maxY,
			score: score,
		})
	}

	sort.SliceStable(rects, func(i, j int) bool {
		return rects[i].area() > rects[j].area()
	})
	return rects
}
