package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/object-annotate-mcp/internal/detection"
	"github.com/ironsheep/object-annotate-mcp/internal/imaging"
	"github.com/ironsheep/object-annotate-mcp/internal/pipeline"
)

// errInvalidArgument marks malformed tool arguments.
var errInvalidArgument = errors.New("invalid argument")

// Error kinds reported in the data.kind field of tool failures.
const (
	KindImageFetch          = "image_fetch"
	KindImageDecode         = "image_decode"
	KindDetectorUnavailable = "detector_unavailable"
	KindDetectorInference   = "detector_inference"
	KindInvalidArgument     = "invalid_argument"
	KindInternal            = "internal"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "detect_objects").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolError is the data attached to a failed tools/call.
type ToolError struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000
// and a ToolError as data.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		kind := errorKind(err)
		s.logger.Warn("tool failed", "tool", params.Name, "kind", kind, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", ToolError{Kind: kind, Detail: err.Error()})
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "detect_objects":
		return s.handleDetectObjects(ctx, args)
	case "detector_status":
		return s.handleDetectorStatus()
	case "fonts_resolve":
		return s.handleFontsResolve(args)
	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgument, name)
	}
}

// errorKind maps an error onto the category reported to clients.
func errorKind(err error) string {
	switch {
	case errors.Is(err, imaging.ErrImageFetch):
		return KindImageFetch
	case errors.Is(err, imaging.ErrImageDecode):
		return KindImageDecode
	case errors.Is(err, detection.ErrDetectorUnavailable):
		return KindDetectorUnavailable
	case errors.Is(err, detection.ErrDetectorInference):
		return KindDetectorInference
	case errors.Is(err, errInvalidArgument),
		errors.Is(err, detection.ErrInvalidThreshold),
		errors.Is(err, imaging.ErrNoSource):
		return KindInvalidArgument
	}
	return KindInternal
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidArgument, err)
	}
	return nil
}

// === Detection ===

// DetectObjectsArgs are the detect_objects arguments.
type DetectObjectsArgs struct {
	URL             string   `json:"url"`
	ImageBase64     string   `json:"image_base64"`
	Name            string   `json:"name"`
	Path            string   `json:"path"`
	Threshold       *float64 `json:"threshold"`
	IncludeOriginal bool     `json:"include_original"`
}

// DetectObjectsResult is the detect_objects response.
type DetectObjectsResult struct {
	Annotated      *imaging.EncodedImage       `json:"annotated"`
	Original       *imaging.EncodedImage       `json:"original,omitempty"`
	ElapsedSeconds float64                     `json:"elapsed_seconds"`
	Threshold      float64                     `json:"threshold"`
	Backend        string                      `json:"backend"`
	Source         string                      `json:"source"`
	Count          int                         `json:"count"`
	Records        []detection.DetectionRecord `json:"records"`
	Message        string                      `json:"message,omitempty"`
}

// source turns the arguments into an image source; exactly one origin must
// be given.
func (a DetectObjectsArgs) source() (imaging.Source, error) {
	given := 0
	for _, v := range []string{a.URL, a.ImageBase64, a.Path} {
		if strings.TrimSpace(v) != "" {
			given++
		}
	}
	switch {
	case given == 0:
		return imaging.Source{}, fmt.Errorf("%w: one of url, image_base64 or path is required", errInvalidArgument)
	case given > 1:
		return imaging.Source{}, fmt.Errorf("%w: give only one of url, image_base64 or path", errInvalidArgument)
	}

	if a.ImageBase64 != "" {
		data, err := decodeBase64(a.ImageBase64)
		if err != nil {
			return imaging.Source{}, fmt.Errorf("%w: image_base64: %w", errInvalidArgument, err)
		}
		return imaging.Source{Data: data, Name: a.Name}, nil
	}
	return imaging.Source{URL: strings.TrimSpace(a.URL), Path: strings.TrimSpace(a.Path)}, nil
}

// decodeBase64 accepts standard base64 with or without a data: URL prefix.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

func (s *Server) handleDetectObjects(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a DetectObjectsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if s.pipeline == nil {
		return nil, fmt.Errorf("%w: no pipeline configured", detection.ErrDetectorUnavailable)
	}

	src, err := a.source()
	if err != nil {
		return nil, err
	}
	threshold := s.defaultThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	res, err := s.pipeline.Run(ctx, pipeline.Request{Source: src, Threshold: threshold})
	if err != nil {
		return nil, err
	}

	annotated, err := imaging.EncodeBase64PNG(res.Annotated)
	if err != nil {
		return nil, err
	}
	out := &DetectObjectsResult{
		Annotated:      annotated,
		ElapsedSeconds: math.Round(res.Elapsed.Seconds()*1000) / 1000,
		Threshold:      res.Threshold,
		Backend:        res.Backend,
		Source:         res.Source,
		Count:          len(res.Records),
		Records:        res.Records,
	}
	if res.Empty() {
		out.Message = pipeline.EmptyMessage
	}
	if a.IncludeOriginal {
		if out.Original, err = imaging.EncodeBase64PNG(res.Original); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// === Status ===

// DetectorStatusResult is the detector_status response.
type DetectorStatusResult struct {
	Configured string `json:"configured"`
	detection.Status
}

func (s *Server) handleDetectorStatus() (interface{}, error) {
	out := &DetectorStatusResult{Configured: s.backend}
	if s.status != nil {
		out.Status = s.status.Status()
	}
	return out, nil
}

// === Fonts ===

// FontsResolveArgs are the fonts_resolve arguments.
type FontsResolveArgs struct {
	Size float64 `json:"size"`
}

// FontsResolveResult is the fonts_resolve response.
type FontsResolveResult struct {
	Name       string   `json:"name"`
	Path       string   `json:"path,omitempty"`
	Size       float64  `json:"size"`
	Sized      bool     `json:"sized"`
	Candidates []string `json:"candidates"`
}

func (s *Server) handleFontsResolve(args json.RawMessage) (interface{}, error) {
	var a FontsResolveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Size < 0 || math.IsNaN(a.Size) {
		return nil, fmt.Errorf("%w: size must be positive", errInvalidArgument)
	}
	if a.Size == 0 {
		a.Size = s.fontSize
	}
	if s.fonts == nil {
		return nil, fmt.Errorf("no font resolver configured")
	}

	f := s.fonts.Resolve(a.Size)
	return &FontsResolveResult{
		Name:       f.Name,
		Path:       f.Path,
		Size:       f.Size,
		Sized:      f.Sized,
		Candidates: s.fonts.Paths(),
	}, nil
}
