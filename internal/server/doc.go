// Package server implements the MCP (Model Context Protocol) server for image filters.
//
// This package provides a JSON-RPC 2.0 server that exposes the filter engine
// in package filter through the MCP protocol.
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
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Filter Operations:
//   - image_filter_list: Enumerate filters, parameters and defaults
//   - image_filter: Apply a filter, optionally as an original|filtered composite
//
// Color Operations:
//   - image_sample_color: Get color at pixel, optionally after a filter
//
// Every tool that takes an image accepts either a file path or an uploaded
// image as base64 (image_base64). Only PNG and JPEG are accepted.
//
// # Image Caching
//
// Images loaded by path are cached and reused across tool calls. Uploads are
// decoded on every call and never cached.
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses:
//   - -32602 "Invalid params": bad arguments, unknown filter, out-of-range
//     thresholds or kernel size
//   - -32000 "Invalid image": undecodable upload or a filter that needs a
//     color image given a grayscale one
//   - -32000 "Tool execution failed": anything else, such as a missing file
//
// The data field carries the Go error string.
//
// # Configuration
//
// ConfigFromEnv reads IMAGE_FILTER_LOG_LEVEL and IMAGE_FILTER_MAX_REQUEST_MB.
//
//	srv := server.NewWithConfig(server.ConfigFromEnv())
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
