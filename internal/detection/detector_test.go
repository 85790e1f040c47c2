package detection

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeDetector struct {
	name   string
	closed bool
}

func (f *fakeDetector) Name() string { return f.name }

func (f *fakeDetector) Detect(ctx context.Context, img image.Image) ([]RawDetection, error) {
	return nil, nil
}

func (f *fakeDetector) Close() error {
	f.closed = true
	return nil
}

func failing(name string, calls *int32) Candidate {
	return Candidate{Name: name, Init: func(ctx context.Context) (Detector, error) {
		atomic.AddInt32(calls, 1)
		return nil, errors.New(name + " unavailable")
	}}
}

func succeeding(d Detector, calls *int32) Candidate {
	return Candidate{Name: d.Name(), Init: func(ctx context.Context) (Detector, error) {
		atomic.AddInt32(calls, 1)
		return d, nil
	}}
}

func TestProvider_FallsBackInOrder(t *testing.T) {
	var calls int32
	cpu := &fakeDetector{name: "dnn/cpu"}
	p := NewProvider(nil, failing("dnn/cuda", &calls), succeeding(cpu, &calls), failing("never", &calls))

	d, err := p.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if d != cpu {
		t.Errorf("got detector %v, want cpu fallback", d.Name())
	}
	if calls != 2 {
		t.Errorf("expected 2 init attempts, got %d", calls)
	}

	s := p.Status()
	if !s.Initialized || !s.Available || s.Backend != "dnn/cpu" {
		t.Errorf("unexpected status: %+v", s)
	}
	if len(s.Attempts) != 2 || s.Attempts[0].Error == "" || s.Attempts[1].Error != "" {
		t.Errorf("unexpected attempts: %+v", s.Attempts)
	}
}

func TestProvider_PermanentlyUnavailable(t *testing.T) {
	var calls int32
	p := NewProvider(nil, failing("a", &calls), failing("b", &calls))

	for i := 0; i < 3; i++ {
		d, err := p.Get(context.Background())
		if d != nil {
			t.Fatal("expected no detector")
		}
		if !errors.Is(err, ErrDetectorUnavailable) {
			t.Fatalf("expected ErrDetectorUnavailable, got %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("initialisation repeated: %d init calls, want 2", calls)
	}
	if s := p.Status(); s.Available || !s.Initialized {
		t.Errorf("unexpected status: %+v", s)
	}
}

func TestProvider_NoCandidates(t *testing.T) {
	_, err := NewProvider(nil).Get(context.Background())
	if !errors.Is(err, ErrDetectorUnavailable) {
		t.Errorf("expected ErrDetectorUnavailable, got %v", err)
	}
}

func TestProvider_NilDetectorIsFailure(t *testing.T) {
	p := NewProvider(nil, Candidate{Name: "nil", Init: func(ctx context.Context) (Detector, error) {
		return nil, nil
	}})
	if _, err := p.Get(context.Background()); !errors.Is(err, ErrDetectorUnavailable) {
		t.Errorf("expected ErrDetectorUnavailable, got %v", err)
	}
}

func TestProvider_StatusBeforeGet(t *testing.T) {
	var calls int32
	p := NewProvider(nil, succeeding(&fakeDetector{name: "x"}, &calls))
	if s := p.Status(); s.Initialized {
		t.Errorf("Status should not initialise: %+v", s)
	}
	if calls != 0 {
		t.Errorf("Status triggered %d init calls", calls)
	}
}

func TestProvider_ConcurrentGet(t *testing.T) {
	var calls int32
	d := &fakeDetector{name: "shared"}
	p := NewProvider(nil, succeeding(d, &calls))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := p.Get(context.Background())
			if err != nil || got != d {
				t.Errorf("Get = %v, %v", got, err)
			}
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("expected exactly one init, got %d", calls)
	}
}

func TestProvider_Close(t *testing.T) {
	var calls int32
	d := &fakeDetector{name: "closable"}
	p := NewProvider(nil, succeeding(d, &calls))

	if err := p.Close(); err != nil {
		t.Fatalf("Close before init failed: %v", err)
	}
	if _, err := p.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !d.closed {
		t.Error("detector was not closed")
	}

	got, err := p.Get(context.Background())
	if !errors.Is(err, ErrDetectorUnavailable) {
		t.Errorf("Get after Close error = %v, want ErrDetectorUnavailable", err)
	}
	if got != nil {
		t.Errorf("Get after Close returned detector %q", got.Name())
	}
	if p.Status().Available {
		t.Error("Status reports available after Close")
	}

	d.closed = false
	if err := p.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
	if d.closed {
		t.Error("detector closed twice")
	}
}
