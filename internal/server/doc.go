// Package server implements the MCP (Model Context Protocol) server for
// object detection and annotation.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - detect_objects: Detect, filter by confidence, draw labelled boxes and
//     return the annotated PNG plus one record per kept detection
//   - detector_status: Which backend is loaded, or why none could be
//   - fonts_resolve: Which font captions are drawn with
//
// detect_objects takes exactly one image origin: url (downloaded with a
// timeout), image_base64 (an upload, optionally as a data: URL) or path (a
// local file). threshold defaults to the configured value and must lie in
// [0.1, 1.0].
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: {"kind": ..., "detail": ...}
//
// kind is one of image_fetch, image_decode, detector_unavailable,
// detector_inference, invalid_argument or internal, so clients can tell a
// bad URL from a missing model without parsing messages.
//
// # Usage
//
//	srv := server.New(server.Options{Pipeline: p, Status: provider, Fonts: resolver})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
