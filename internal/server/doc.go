// Package server implements an MCP (Model Context Protocol) server for
// inspecting single questionnaire pages.
//
// The server speaks JSON-RPC 2.0 over a line-oriented stream (stdin and
// stdout when started with `omr-grader serve`): one request per line in,
// one response per line out.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - omr_estimate_skew: Estimate the rotation that straightens a page
//   - omr_find_margins: Find the left and right content edges
//   - omr_detect_bands: Straighten a page and compute its band set
//   - omr_grade_page: Grade a page from a given band set, or align it first
//
// All tools run with the parameters of the configuration the server was
// started with. Pages are decoded once and cached by path for the lifetime
// of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data.
package server
