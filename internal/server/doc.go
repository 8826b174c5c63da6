// Package server implements the HTTP packet inspector.
//
// The server exposes the decoder to browsers and scripts on the local
// network. Every request is decoded with the layout and model table from
// Config.Options unless the request names another layout.
//
// # Routes
//
//	GET  /             form plus, for ?packet=..., the decoded table
//	POST /api/decode   {"packet": "0x..."} -> DecodeResponse, or 400 ErrorResponse
//	GET  /api/models   model table (built-in merged with configured models)
//	GET  /api/fields   canonical field layout
//	GET  /api/version  build information
//	GET  /ws           WebSocket; text messages are hex, binary messages raw bytes
//
// The HTML table uses the same rules as the terminal table: the model and
// battery rows and every value row with its mask bit set are bold, and the
// value of a non-zero error byte is red.
//
// # Response Format
//
//	{
//	  "fields": [{"name": "length", "raw": "0x1A", "value": "26"}, ...],
//	  "mask": "001111",
//	  "model": "ARX.AT205",
//	  "active": ["value_1", "value_2", "value_3", "value_4"],
//	  "bytes": 31
//	}
//
// # Capture
//
// When Config.CaptureDir is set, every submitted packet is appended to a
// capture-<timestamp>.jsonl file in that directory, one CaptureRecord per
// line, including failed decodes.
//
// # TLS
//
// Setting CertPath and KeyPath serves HTTPS (and WSS) with TLS 1.2 or newer.
//
// # Shutdown
//
// Start blocks until its context is cancelled or SIGINT/SIGTERM arrives,
// then shuts the HTTP server down and closes open WebSocket connections.
package server
