package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions(0.8)

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"detect_objects",
		"detector_status",
		"fonts_resolve",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expectedTools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	tools := GetToolDefinitions(0.8)

	for _, tool := range tools {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Name == "" {
				t.Error("Tool name is empty")
			}
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema == nil {
				t.Fatal("Tool InputSchema is nil")
			}

			if schemaType := tool.InputSchema["type"]; schemaType != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", schemaType)
			}
			if props, ok := tool.InputSchema["properties"]; !ok || props == nil {
				t.Error("InputSchema missing 'properties' field")
			}

			// Schemas must survive the wire
			if _, err := json.Marshal(tool); err != nil {
				t.Errorf("tool does not marshal: %v", err)
			}
		})
	}
}

func TestToolDefinitions_Threshold(t *testing.T) {
	for _, def := range []float64{0.8, 0.35} {
		var detect Tool
		for _, tool := range GetToolDefinitions(def) {
			if tool.Name == "detect_objects" {
				detect = tool
			}
		}

		props := detect.InputSchema["properties"].(map[string]interface{})
		threshold, ok := props["threshold"].(map[string]interface{})
		if !ok {
			t.Fatal("detect_objects has no threshold property")
		}
		if threshold["default"] != def {
			t.Errorf("threshold default: got %v, want %v", threshold["default"], def)
		}
		if threshold["minimum"] != 0.1 || threshold["maximum"] != 1.0 {
			t.Errorf("threshold range: got [%v, %v], want [0.1, 1]", threshold["minimum"], threshold["maximum"])
		}
		if threshold["multipleOf"] != 0.05 {
			t.Errorf("threshold step: got %v, want 0.05", threshold["multipleOf"])
		}

		for _, name := range []string{"url", "image_base64", "path", "include_original"} {
			if _, ok := props[name]; !ok {
				t.Errorf("detect_objects missing property %s", name)
			}
		}
	}
}

func TestHandleToolsList(t *testing.T) {
	s := New(Options{DefaultThreshold: 0.6})
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
	}

	resp := s.handleToolsList(req)

	if resp == nil {
		t.Fatal("handleToolsList returned nil")
	}
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}

	toolsList, ok := result["tools"].([]Tool)
	if !ok {
		t.Fatal("tools should be a slice of Tool")
	}

	expected := GetToolDefinitions(0.6)
	if len(toolsList) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(toolsList), len(expected))
	}
	props := toolsList[0].InputSchema["properties"].(map[string]interface{})
	if got := props["threshold"].(map[string]interface{})["default"]; got != 0.6 {
		t.Errorf("advertised default threshold: got %v, want 0.6", got)
	}
}
