package shapes

import "image"

const edgeThreshold = 30

// point is a pixel position in analysis coordinates.
type point struct {
	x, y int
}

// edgeMap is a binary edge image stored row-major.
type edgeMap struct {
	w, h int
	on   []bool
}

func (e *edgeMap) at(x, y int) bool {
	return e.on[y*e.w+x]
}

// detectEdges marks pixels whose gray value differs from the right or lower
// neighbour by more than edgeThreshold. The outermost ring is never an edge.
func detectEdges(img image.Image) *edgeMap {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray[y*w+x] = luminance(img, x+b.Min.X, y+b.Min.Y)
		}
	}

	em := &edgeMap{w: w, h: h, on: make([]bool, w*h)}
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := gray[y*w+x]
			if abs(c-gray[y*w+x+1]) > edgeThreshold || abs(c-gray[(y+1)*w+x]) > edgeThreshold {
				em.on[y*w+x] = true
			}
		}
	}
	return em
}

// contours groups 8-connected edge pixels. Groups under minPixels are noise.
func (e *edgeMap) contours(minPixels int) [][]point {
	visited := make([]bool, len(e.on))
	var out [][]point

	for i, on := range e.on {
		if !on || visited[i] {
			continue
		}
		var group []point
		stack := []point{{i % e.w, i / e.w}}
		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if p.x < 0 || p.x >= e.w || p.y < 0 || p.y >= e.h {
				continue
			}
			idx := p.y*e.w + p.x
			if visited[idx] || !e.on[idx] {
				continue
			}
			visited[idx] = true
			group = append(group, p)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx != 0 || dy != 0 {
						stack = append(stack, point{p.x + dx, p.y + dy})
					}
				}
			}
		}
		if len(group) >= minPixels {
			out = append(out, group)
		}
	}
	return out
}

// luminance uses ITU-R BT.601 weights on 8-bit channels.
func luminance(img image.Image, x, y int) int {
	r, g, b, _ := img.At(x, y).RGBA()
	return int(float64(r>>8)*0.299 + float64(g>>8)*0.587 + float64(b>>8)*0.114)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
