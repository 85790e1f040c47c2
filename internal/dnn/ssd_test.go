package dnn

import (
	"context"
	"errors"
	"testing"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{0, "background"},
		{1, "person"},
		{17, "cat"},
		{18, "dog"},
		{8, "truck"},
		{91, "hair brush"},
		{92, "class_92"},
		{-1, "class_-1"},
	}
	for _, tt := range tests {
		if got := Label(tt.id); got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDecodeSSD(t *testing.T) {
	out := []float32{
		0, 18, 0.95, 0.1, 0.2, 0.5, 0.8, // dog
		0, 17, 0.40, 0.0, 0.0, 0.25, 0.25, // cat
		-1, 0, 0, 0, 0, 0, 0, // padding
		0, 1, 0, 0.1, 0.1, 0.2, 0.2, // zero score
		0, 1, 0.7, -0.1, 0.5, 1.2, 1.0, // person, out of range coordinates
	}

	dets := decodeSSD(out, 200, 100)
	if len(dets) != 3 {
		t.Fatalf("got %d detections, want 3: %+v", len(dets), dets)
	}

	dog := dets[0]
	if dog.Label != "dog" {
		t.Errorf("Label = %q, want dog", dog.Label)
	}
	if diff := dog.Score - 0.95; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("Score = %v, want 0.95", dog.Score)
	}
	if int(dog.Box.XMin+0.5) != 20 || int(dog.Box.YMin+0.5) != 20 || int(dog.Box.XMax+0.5) != 100 || int(dog.Box.YMax+0.5) != 80 {
		t.Errorf("Box = %+v, want about (20, 20, 100, 80)", dog.Box)
	}

	if dets[1].Label != "cat" {
		t.Errorf("order not preserved: %+v", dets)
	}

	person := dets[2]
	if person.Box.XMin != 0 || person.Box.XMax != 200 || person.Box.YMax != 100 {
		t.Errorf("coordinates not clamped: %+v", person.Box)
	}
}

func TestDecodeSSDPartialRow(t *testing.T) {
	out := []float32{0, 18, 0.9, 0.1, 0.1, 0.2, 0.2, 0, 17}
	if got := decodeSSD(out, 10, 10); len(got) != 1 {
		t.Errorf("got %d detections, want 1", len(got))
	}
	if got := decodeSSD(nil, 10, 10); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestOpenMissingModel(t *testing.T) {
	_, err := Open(context.Background(), Options{ModelPath: "/nonexistent/model.pb", ConfigPath: "/nonexistent/model.pbtxt"}, TargetCPU)
	if err == nil {
		t.Fatal("expected an error for missing model files")
	}
	if !errors.Is(err, ErrNotBuilt) {
		t.Logf("Open failed as expected: %v", err)
	}
}
