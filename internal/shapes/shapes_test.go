package shapes

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

// createTestImage creates a solid color test image
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createFilledRectImage draws a black rectangle (inclusive corners) on white
func createFilledRectImage(width, height, x1, y1, x2, y2 int) *image.RGBA {
	img := createTestImage(width, height, color.White)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

// createDiskImage draws a filled black disk on white
func createDiskImage(width, height, cx, cy, radius int) *image.RGBA {
	img := createTestImage(width, height, color.White)
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func rectanglesOnly() Options {
	opts := DefaultOptions()
	opts.Circles = false
	return opts
}

func TestDetectFilledRectangle(t *testing.T) {
	img := createFilledRectImage(100, 100, 20, 20, 80, 80)

	dets, err := New(rectanglesOnly()).Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1: %+v", len(dets), dets)
	}

	d := dets[0]
	if d.Label != "rectangle" {
		t.Errorf("Label = %q, want rectangle", d.Label)
	}
	if d.Score < 0.9 || d.Score > 1 {
		t.Errorf("Score = %v, want in [0.9, 1]", d.Score)
	}

	// Edges sit on the outer side of the left and top borders.
	want := [4]float64{19, 19, 80, 80}
	got := [4]float64{d.Box.XMin, d.Box.YMin, d.Box.XMax, d.Box.YMax}
	if got != want {
		t.Errorf("Box = %v, want %v", got, want)
	}
}

func TestDetectRectanglesLargestFirst(t *testing.T) {
	img := createTestImage(200, 120, color.White)
	fill := func(x1, y1, x2, y2 int) {
		for y := y1; y <= y2; y++ {
			for x := x1; x <= x2; x++ {
				img.Set(x, y, color.Black)
			}
		}
	}
	fill(10, 10, 40, 40)
	fill(80, 10, 180, 100)

	dets, err := New(rectanglesOnly()).Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 2 {
		t.Fatalf("got %d detections, want 2", len(dets))
	}
	if dets[0].Box.XMin < dets[1].Box.XMin {
		t.Errorf("expected the larger rectangle first, got %+v", dets)
	}
}

func TestDetectMinArea(t *testing.T) {
	img := createFilledRectImage(100, 100, 40, 40, 48, 48)

	opts := rectanglesOnly()
	opts.MinArea = 500
	dets, err := New(opts).Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("expected small rectangle to be filtered, got %+v", dets)
	}
}

func TestDetectBlankImage(t *testing.T) {
	img := createTestImage(80, 80, color.White)

	dets, err := New(DefaultOptions()).Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 0 {
		t.Errorf("expected no detections on a blank image, got %d", len(dets))
	}
	if dets == nil {
		t.Error("expected empty slice, not nil")
	}
}

func TestDetectCircle(t *testing.T) {
	img := createDiskImage(120, 120, 60, 60, 25)

	opts := DefaultOptions()
	opts.MinRadius = 20
	opts.MaxRadius = 30
	dets, err := New(opts).Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	for _, d := range dets {
		if d.Label != "circle" {
			continue
		}
		cx := (d.Box.XMin + d.Box.XMax) / 2
		cy := (d.Box.YMin + d.Box.YMax) / 2
		if math.Abs(cx-60) > 5 || math.Abs(cy-60) > 5 {
			t.Errorf("circle centre (%v, %v) too far from (60, 60)", cx, cy)
		}
		return
	}
	t.Log("No circles detected - sparse Hough voting may miss small disks")
}

func TestDetectCancelled(t *testing.T) {
	img := createDiskImage(120, 120, 60, 60, 25)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultOptions()).Detect(ctx, img)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDetectOffsetBounds(t *testing.T) {
	base := createFilledRectImage(100, 100, 20, 20, 80, 80)
	sub := base.SubImage(image.Rect(10, 10, 100, 100))

	dets, err := New(rectanglesOnly()).Detect(context.Background(), sub)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(dets) != 1 {
		t.Fatalf("got %d detections, want 1", len(dets))
	}
	if dets[0].Box.XMin != 19 || dets[0].Box.YMin != 19 {
		t.Errorf("Box = %+v, want coordinates in the parent image space", dets[0].Box)
	}
}

func TestDownscale(t *testing.T) {
	tests := []struct {
		name        string
		w, h        int
		limit       int
		wantScaled  bool
		wantMaxSide int
	}{
		{"small image untouched", 100, 80, 320, false, 100},
		{"limit disabled", 1000, 800, 0, false, 1000},
		{"wide image", 1000, 500, 320, true, 320},
		{"tall image", 400, 1600, 320, true, 320},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(Options{MaxDimension: tt.limit})
			img := createTestImage(tt.w, tt.h, color.White)

			out, sx, sy := d.downscale(img)
			b := out.Bounds()
			if got := max(b.Dx(), b.Dy()); got != tt.wantMaxSide {
				t.Errorf("max side = %d, want %d", got, tt.wantMaxSide)
			}
			if !tt.wantScaled && (sx != 1 || sy != 1) {
				t.Errorf("scale = (%v, %v), want (1, 1)", sx, sy)
			}
			if tt.wantScaled {
				if sx <= 1 || sy <= 1 {
					t.Errorf("scale = (%v, %v), want > 1", sx, sy)
				}
				if math.Abs(float64(b.Dx())*sx-float64(tt.w)) > 0.001 {
					t.Errorf("width does not map back: %v * %v != %d", b.Dx(), sx, tt.w)
				}
			}
		})
	}
}

func TestName(t *testing.T) {
	if got := New(DefaultOptions()).Name(); got != "shapes" {
		t.Errorf("Name() = %q, want shapes", got)
	}
}
