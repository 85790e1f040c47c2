package detection

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func sampleDetections() []RawDetection {
	return []RawDetection{
		{Label: "dog", Score: 0.95, Box: Box{0, 0, 50, 50}},
		{Label: "cat", Score: 0.5, Box: Box{10, 10, 40, 40}},
		{Label: "person", Score: 0.8, Box: Box{12.9, 3.2, 99.99, 120.5}},
		{Label: "dog", Score: 0.81, Box: Box{1, 1, 49, 49}},
		{Label: "kite", Score: 0.1, Box: Box{5, 5, 5, 5}},
	}
}

func TestFilter_DogCatScenario(t *testing.T) {
	raw := []RawDetection{
		{Label: "dog", Score: 0.95, Box: Box{0, 0, 50, 50}},
		{Label: "cat", Score: 0.5, Box: Box{10, 10, 40, 40}},
	}

	got := Filter(raw, 0.8)
	want := []FilteredDetection{{Label: "dog", Score: 0.95, XMin: 0, YMin: 0, XMax: 50, YMax: 50}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter = %+v, want %+v", got, want)
	}

	records := SummarizeAll(got)
	wantRecords := []DetectionRecord{{Label: "dog", Confidence: 0.95, Box: [4]int{0, 0, 50, 50}}}
	if !reflect.DeepEqual(records, wantRecords) {
		t.Errorf("records = %+v, want %+v", records, wantRecords)
	}
}

func TestFilter_BoundaryInclusive(t *testing.T) {
	raw := []RawDetection{{Label: "edge", Score: 0.8, Box: Box{1, 2, 3, 4}}}
	got := Filter(raw, 0.8)
	if len(got) != 1 {
		t.Fatalf("detection with score == threshold was dropped: %+v", got)
	}
}

func TestFilter_DropsNaNScores(t *testing.T) {
	raw := []RawDetection{
		{Label: "ghost", Score: math.NaN(), Box: Box{0, 0, 10, 10}},
		{Label: "dog", Score: 0.95, Box: Box{0, 0, 50, 50}},
	}
	for _, threshold := range []float64{0.1, 0.9, 1.0} {
		got := Filter(raw, threshold)
		for _, d := range got {
			if d.Label == "ghost" {
				t.Errorf("Filter(%v) kept a NaN score", threshold)
			}
		}
	}
}

func TestFilter_Monotonic(t *testing.T) {
	raw := sampleDetections()
	thresholds := []float64{0.1, 0.15, 0.5, 0.8, 0.81, 0.95, 1.0}

	for i := 0; i < len(thresholds)-1; i++ {
		lo, hi := thresholds[i], thresholds[i+1]
		loSet := Filter(raw, lo)
		hiSet := Filter(raw, hi)

		for _, h := range hiSet {
			found := false
			for _, l := range loSet {
				if reflect.DeepEqual(h, l) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Filter(%v) contains %+v which Filter(%v) lacks", hi, h, lo)
			}
		}
		if len(hiSet) > len(loSet) {
			t.Errorf("Filter(%v) has %d items, more than Filter(%v) with %d", hi, len(hiSet), lo, len(loSet))
		}
	}
}

func TestFilter_PreservesOrderAndOverlaps(t *testing.T) {
	got := Filter(sampleDetections(), 0.8)

	labels := make([]string, len(got))
	for i, d := range got {
		labels[i] = d.Label
	}
	want := []string{"dog", "person", "dog"}
	if !reflect.DeepEqual(labels, want) {
		t.Errorf("labels = %v, want %v (input order, overlapping dogs both kept)", labels, want)
	}
}

func TestFilter_TruncatesCoordinates(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want [4]int
	}{
		{"fractional", Box{12.9, 3.2, 99.99, 120.5}, [4]int{12, 3, 99, 120}},
		{"negative toward zero", Box{-0.7, -3.9, 10.1, 10.9}, [4]int{0, -3, 10, 10}},
		{"degenerate passes", Box{50, 50, 10, 10}, [4]int{50, 50, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter([]RawDetection{{Label: "x", Score: 1, Box: tt.box}}, 0.5)
			if len(got) != 1 {
				t.Fatalf("expected one detection, got %d", len(got))
			}
			d := got[0]
			if [4]int{d.XMin, d.YMin, d.XMax, d.YMax} != tt.want {
				t.Errorf("box = (%d,%d,%d,%d), want %v", d.XMin, d.YMin, d.XMax, d.YMax, tt.want)
			}
		})
	}
}

func TestFilter_Empty(t *testing.T) {
	got := Filter(nil, 0.8)
	if got == nil {
		t.Error("Filter should return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no detections, got %d", len(got))
	}
}

func TestValidateThreshold(t *testing.T) {
	tests := []struct {
		t       float64
		wantErr bool
	}{
		{0.1, false},
		{0.8, false},
		{1.0, false},
		{0.05, true},
		{1.01, true},
		{0, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateThreshold(tt.t)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateThreshold(%v) error = %v, wantErr %v", tt.t, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("ValidateThreshold(%v) error should wrap ErrInvalidThreshold", tt.t)
		}
	}
}

func TestFilteredDetection_Caption(t *testing.T) {
	d := FilteredDetection{Label: "dog", Score: 0.9549}
	if got := d.Caption(); got != "dog: 0.95" {
		t.Errorf("Caption = %q, want %q", got, "dog: 0.95")
	}
}
