// Package server implements the MCP (Model Context Protocol) server for
// photo annotation geometry.
//
// The server exposes the coordinate math behind a field-survey annotation
// editor: normalizing annotations drawn on a stage into viewport-independent
// fractions of the photo, migrating older payloads, laying out dimension
// labels, and zoom/pan pointer math. Photo tools render stage previews and
// read written measurements with OCR.
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
// Coordinate Frames:
//   - contain_fit: Letterbox scale and offset
//   - normalization_context: Effective image size and its fit into a stage
//
// Annotation Payloads:
//   - annotations_normalize: Stage pixels to the persisted form
//   - annotations_denormalize: Persisted form to stage pixels, migrating first
//   - annotations_migrate: Bring older payloads to the current schema
//   - annotations_validate: Report malformed annotations
//   - annotations_rotate: Re-map after a right-angle photo rotation
//   - annotations_measure: Dimension lengths, optionally calibrated
//
// Dimension Layout:
//   - dimension_layout: Label, comment, arrowhead and cap placement
//   - dimension_layout_reset: Forget remembered label sides
//
// Viewport:
//   - viewport_screen_to_image, viewport_image_to_screen: Pointer conversion
//   - viewport_zoom_to_point: Zoom anchored at the pointer
//
// Photos:
//   - photo_load: Natural and rotated size
//   - photo_preview: Rendered stage with a normalized grid
//   - annotation_suggest_color: Stroke color that stands out on the photo
//   - dimension_snap: Move endpoints onto nearby photo edges
//   - dimension_read_value: OCR a written measurement
//
// # Session State
//
// A Server is one editing session. Photos are cached by path for the lifetime
// of the process; photo tools take "reload" to decode a replaced file again.
// The label side chosen for each dimension id is remembered until
// dimension_layout_reset.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Annotations dropped for malformed geometry do not fail a call; they are
// listed in the result's "dropped" field and logged to stderr.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := server.New(cfg).Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
