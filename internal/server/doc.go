// Package server implements the MCP (Model Context Protocol) server for the
// document scanning pipeline.
//
// The server exposes corner detection, interactive corner refinement,
// perspective rectification and OCR as MCP tools. A client opens a photo,
// detects or places the page corners, lets the user drag them, and then
// requests the flattened page.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr (and optionally a rotated file), never to stdout.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Session Lifecycle:
//   - scan_open: Load a photo and start a session
//   - scan_close: End a session and release its image
//
// Detection:
//   - scan_detect_corners: Find the page quadrilateral, falling back to full bounds
//   - scan_edge_map: Return the edge map detection works from
//
// Refinement:
//   - scan_get_corners: Read the current corners
//   - scan_set_corners: Replace all four corners
//   - scan_hit_test: Pick the corner handle under a touch
//   - scan_move_corner: Drag a corner to a display-space point
//
// Output:
//   - scan_rectify: Warp the page to a flat rectangle (base64 PNG)
//   - scan_ocr: Rectify and extract text with Tesseract
//
// # Sessions
//
// Each scan_open creates a session keyed by a UUID. Sessions hold the
// decoded image and a corner set in normalized [0,1] coordinates. When
// DOCSCAN_MAX_SESSIONS sessions are open, opening another closes the oldest.
// Decoded images are cached by path and evicted once no session uses them.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32602 for validation failures, -32000 for everything else
//   - message: "Tool execution failed"
//   - data: {"kind": ..., "message": ...} where kind is one of validation,
//     degenerate, resampling, not_found or internal
//
// A degenerate error from scan_rectify means the corners enclose no area;
// the user should adjust them and retry.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	cfg, err := config.LoadFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg, logger.New(logger.Options{Level: cfg.LogLevel}))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
