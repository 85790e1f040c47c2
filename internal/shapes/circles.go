package shapes

import (
	"context"
	"math"
	"sort"
)

const (
	voteStepDegrees = 10
	peakWindow      = 5
	minVoteFraction = 0.6
)

var voteOffsets = func() [][2]float64 {
	var offs [][2]float64
	for deg := 0; deg < 360; deg += voteStepDegrees {
		rad := float64(deg) * math.Pi / 180
		offs = append(offs, [2]float64{math.Cos(rad), math.Sin(rad)})
	}
	return offs
}()

type circle struct {
	cx, cy, r int
	score     float64
}

// findCircles runs a Hough circle transform for every radius in
// [minRadius, maxRadius] and returns the strongest non-overlapping centres.
func findCircles(ctx context.Context, em *edgeMap, minRadius, maxRadius int) ([]shape, error) {
	acc := make([]int, em.w*em.h)
	var found []circle

	for r := minRadius; r <= maxRadius; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clear(acc)

		for y := 0; y < em.h; y++ {
			for x := 0; x < em.w; x++ {
				if !em.at(x, y) {
					continue
				}
				for _, o := range voteOffsets {
					cx := x - int(float64(r)*o[0])
					cy := y - int(float64(r)*o[1])
					if cx >= 0 && cx < em.w && cy >= 0 && cy < em.h {
						acc[cy*em.w+cx]++
					}
				}
			}
		}

		need := int(float64(2*r) * minVoteFraction)
		for y := r; y < em.h-r; y++ {
			for x := r; x < em.w-r; x++ {
				v := acc[y*em.w+x]
				if v < need || v == 0 || !isPeak(acc, em.w, em.h, x, y) {
					continue
				}
				found = append(found, circle{
					cx: x, cy: y, r: r,
					score: math.Min(float64(v)/float64(2*r), 1),
				})
			}
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].score > found[j].score
	})
	found = mergeCircles(found)

	out := make([]shape, 0, len(found))
	for _, c := range found {
		out = append(out, shape{
			label: "circle",
			minX:  c.cx - c.r, minY: c.cy - c.r,
			maxX: c.cx + c.r, maxY: c.cy + c.r,
			score: c.score,
		})
	}
	return out, nil
}

func isPeak(acc []int, w, h, x, y int) bool {
	v := acc[y*w+x]
	for dy := -peakWindow; dy <= peakWindow; dy++ {
		for dx := -peakWindow; dx <= peakWindow; dx++ {
			nx, ny := x+dx, y+dy
			if (dx == 0 && dy == 0) || nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if acc[ny*w+nx] > v {
				return false
			}
		}
	}
	return true
}

// mergeCircles keeps the first (strongest) of any circles whose centres are closer than
// their mean radius.
func mergeCircles(cs []circle) []circle {
	var kept []circle
	for _, c := range cs {
		dup := false
		for _, k := range kept {
			dx, dy := float64(c.cx-k.cx), float64(c.cy-k.cy)
			if math.Hypot(dx, dy) < float64(c.r+k.r)/2 {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, c)
		}
	}
	return kept
}
