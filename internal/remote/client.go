// Package remote is a detector backend that posts images to an HTTP
// object-detection endpoint.
//
// The endpoint receives the raw image bytes and answers with the DETR
// object-detection JSON used by the Hugging Face inference API:
//
//	[{"score": 0.98, "label": "dog", "box": {"xmin": 10, "ymin": 20, "xmax": 200, "ymax": 300}}]
//
// Failures are reported as {"error": "..."} with a non-2xx status.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
)

const (
	// DefaultModel is the model served at DefaultEndpoint.
	DefaultModel = "facebook/detr-resnet-50"

	// DefaultEndpoint is the hosted inference URL for DefaultModel.
	DefaultEndpoint = "https://router.huggingface.co/hf-inference/models/" + DefaultModel

	// DefaultTimeout bounds one inference request.
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 8 << 20
)

// Options configures a Client.
type Options struct {
	// Endpoint is the inference URL. Empty selects DefaultEndpoint.
	Endpoint string

	// Token is sent as a bearer token when set.
	Token string

	// Model is reported in the backend name only.
	Model string

	// WaitForModel asks hosted endpoints to block while a cold model loads
	// instead of answering 503.
	WaitForModel bool

	// Timeout bounds each request. Zero selects DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Client is a detection.Detector backed by an HTTP endpoint. It is safe for
// concurrent use.
type Client struct {
	endpoint string
	token    string
	model    string
	wait     bool
	http     *http.Client
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		endpoint: opts.Endpoint,
		token:    opts.Token,
		model:    opts.Model,
		wait:     opts.WaitForModel,
		http:     hc,
	}
}

// Name implements detection.Detector.
func (c *Client) Name() string {
	return "remote:" + c.model
}

type prediction struct {
	Score float64       `json:"score"`
	Label string        `json:"label"`
	Box   detection.Box `json:"box"`
}

type apiError struct {
	Error string `json:"error"`
}

// Detect implements detection.Detector.
func (c *Client) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	var body bytes.Buffer
	if err := imaging.WritePNG(&body, img); err != nil {
		return nil, errors.Wrap(err, "failed to encode image for upload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build inference request")
	}
	req.Header.Set("Content-Type", "image/png")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.wait {
		req.Header.Set("X-Wait-For-Model", "true")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "inference request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read inference response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
	}

	var preds []prediction
	if err := json.Unmarshal(data, &preds); err != nil {
		if msg := errorMessage(data); msg != "" {
			return nil, errors.Errorf("inference endpoint error: %s", msg)
		}
		return nil, errors.Wrap(err, "unexpected inference response")
	}

	dets := make([]detection.RawDetection, 0, len(preds))
	for _, p := range preds {
		dets = append(dets, detection.RawDetection{Label: p.Label, Score: p.Score, Box: p.Box})
	}
	return dets, nil
}

// Probe sends a tiny image to check that the endpoint is reachable and
// accepts the credentials.
func (c *Client) Probe(ctx context.Context) error {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	_, err := c.Detect(ctx, img)
	return err
}

// StatusError is a non-2xx answer from the endpoint.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inference endpoint returned HTTP %d", e.Code)
	}
	return fmt.Sprintf("inference endpoint returned HTTP %d: %s", e.Code, e.Message)
}

// errorMessage extracts {"error": "..."} or falls back to the raw body.
func errorMessage(data []byte) string {
	var e apiError
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(data))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	if strings.HasPrefix(s, "[") {
		return ""
	}
	return s
}
