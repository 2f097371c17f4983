// Package server implements the MCP (Model Context Protocol) server for
// fixed-radius circle detection.
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
// Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Circle Detection:
//   - hough_template: Inspect the ring kernel for a radius
//   - hough_transform: Accumulator statistics and heat map
//   - hough_find_circles: Centers at or above a quantile threshold
//   - hough_overlay: Detections drawn on the source image
//
// # Caching
//
// Decoded images are cached by path for the lifetime of the server process.
// Ring kernels are cached by radius up to kernel_cache_size entries; the
// oldest kernel is dropped when a new radius would exceed the limit.
//
// # Limits
//
// Radii above the configured max_radius are rejected before any kernel is
// allocated.
//
// # Deadlines
//
// Kernel construction, image preprocessing and accumulator computations run
// in a worker goroutine bounded by the configured timeout. A call that exceeds it fails with *TimeoutError; the
// worker runs to completion in the background and its result is discarded.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, _ := config.Load("")
//	srv := server.NewWithConfig(cfg, logger.Nop(), "1.0.0")
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
