package server

import "github.com/ironsheep/object-annotate-mcp/internal/detection"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools. defaultThreshold is
// advertised as the threshold default.
func GetToolDefinitions(defaultThreshold float64) []Tool {
	return []Tool{
		{
			Name: "detect_objects",
			Description: "Detect objects in an image, draw labelled boxes around those at or above the confidence threshold, " +
				"and return the annotated image with a table of detections. Give exactly one of url, image_base64 or path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"url": map[string]interface{}{
						"type":        "string",
						"description": "http(s) URL of the image to download",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Uploaded image bytes (PNG, JPEG, GIF, BMP, TIFF or WebP), base64-encoded",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Optional display name for an uploaded image",
					},
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to a local image file",
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum confidence for a detection to be kept (inclusive)",
						"minimum":     detection.MinThreshold,
						"maximum":     detection.MaxThreshold,
						"multipleOf":  detection.ThresholdStep,
						"default":     defaultThreshold,
					},
					"include_original": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the unannotated image. Default false",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        "detector_status",
			Description: "Report which detector backend is loaded, or why none could be loaded.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "fonts_resolve",
			Description: "Report which font label text is drawn with at a given pixel size, and the candidate files searched.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"size": map[string]interface{}{
						"type":        "number",
						"description": "Font size in pixels. Default is the configured label size",
					},
				},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(s.defaultThreshold),
		},
	}
}
