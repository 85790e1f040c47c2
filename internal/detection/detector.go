package detection

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"
)

var (
	// ErrDetectorUnavailable means no detector backend could be initialised.
	// It is permanent for the lifetime of the Provider.
	ErrDetectorUnavailable = errors.New("detector unavailable")

	// ErrDetectorInference wraps a runtime failure inside Detect.
	ErrDetectorInference = errors.New("detector inference failed")
)

// Detector finds objects in an RGB image.
//
// Implementations must not modify img and must be safe for concurrent use
// once constructed.
type Detector interface {
	// Name identifies the backend and configuration, e.g. "dnn:cuda".
	Name() string

	// Detect returns detections in the backend's own emission order.
	Detect(ctx context.Context, img image.Image) ([]RawDetection, error)
}

// Candidate is one way of constructing a detector.
type Candidate struct {
	Name string
	Init func(ctx context.Context) (Detector, error)
}

// Attempt records the outcome of initialising one candidate.
type Attempt struct {
	Candidate string `json:"candidate"`
	Error     string `json:"error,omitempty"`
}

// Status describes the provider's detector.
type Status struct {
	Initialized bool      `json:"initialized"`
	Available   bool      `json:"available"`
	Backend     string    `json:"backend,omitempty"`
	Attempts    []Attempt `json:"attempts,omitempty"`
}

// Provider owns the process-wide detector. The first Get initialises it by
// trying each candidate in order; the outcome, success or failure, is final.
type Provider struct {
	candidates []Candidate
	logger     *slog.Logger

	once     sync.Once
	mu       sync.RWMutex
	done     bool
	detector Detector
	err      error
	attempts []Attempt
}

// NewProvider creates a Provider over candidates, tried in order.
func NewProvider(logger *slog.Logger, candidates ...Candidate) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		candidates: candidates,
		logger:     logger,
	}
}

// Get returns the shared detector, initialising it on first use. If every
// candidate failed it returns an error wrapping ErrDetectorUnavailable, now
// and on every later call.
func (p *Provider) Get(ctx context.Context) (Detector, error) {
	p.once.Do(func() { p.load(ctx) })

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.detector, p.err
}

func (p *Provider) load(ctx context.Context) {
	var (
		attempts []Attempt
		det      Detector
	)
	for _, c := range p.candidates {
		p.logger.Info("initialising detector", "candidate", c.Name)
		d, err := c.Init(ctx)
		if err == nil && d == nil {
			err = errors.New("initialiser returned no detector")
		}
		if err != nil {
			p.logger.Warn("detector candidate failed", "candidate", c.Name, "error", err)
			attempts = append(attempts, Attempt{Candidate: c.Name, Error: err.Error()})
			continue
		}
		attempts = append(attempts, Attempt{Candidate: c.Name})
		det = d
		break
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.done = true
	p.attempts = attempts
	if det == nil {
		p.err = fmt.Errorf("%w: %d candidate(s) failed", ErrDetectorUnavailable, len(attempts))
		p.logger.Error("no detector available", "attempts", len(attempts))
		return
	}
	p.detector = det
	p.logger.Info("detector ready", "backend", det.Name())
}

// Status reports the current state without triggering initialisation.
func (p *Provider) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := Status{
		Initialized: p.done,
		Available:   p.detector != nil,
		Attempts:    append([]Attempt(nil), p.attempts...),
	}
	if p.detector != nil {
		s.Backend = p.detector.Name()
	}
	return s
}

// Close releases the detector if it holds resources. Once a detector has
// been closed, Get reports ErrDetectorUnavailable. Closing before the first
// Get does nothing.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	det := p.detector
	if det == nil {
		return nil
	}
	p.detector = nil
	p.err = fmt.Errorf("%w: provider closed", ErrDetectorUnavailable)
	if c, ok := det.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
