// Package server exposes the artifact-mask pipeline as an MCP (Model Context
// Protocol) tool server.
//
// # Transport
//
// Requests arrive as newline-delimited JSON-RPC 2.0 messages; Serve answers
// each on its own line. Run binds Serve to stdin and stdout, so nothing else
// in the process may write to stdout while the server is running. Logs go
// through the zerolog logger handed to New.
//
// Handled methods are initialize, tools/list, tools/call and ping.
// notifications/initialized is accepted without a reply.
//
// # Tools
//
//   - artifact_score: mean score, high-artifact percentage, optional
//     per-region means
//   - artifact_map: heat map diagnostic written next to the input
//   - artifact_mask: full grain and glyph overlay run
//   - overlay_ocr_audit: how many overlay words OCR can read back
//
// Tools that write a file evict it from the image cache, so a following
// call on the output path decodes the new file.
//
// # Errors
//
// A failing tool yields error code -32000 with the Go error text in data.
// Malformed tools/call params yield -32602 and unknown methods -32601. A
// request line that is not JSON is answered with -32700 and a null id.
//
// # Usage
//
//	proc, err := pipeline.New(pipeline.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	return server.New(proc, logger).Run()
package server
