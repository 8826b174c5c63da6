// Package logging provides structured logging for arx-inspect.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. It provides both general logging functions
// and specialized functions for decode, HTTP and WebSocket events.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (hex dumps, decoded packets, ws payloads)
//   - Info: Normal operations (server start, connections, requests)
//   - Warn: Non-fatal issues (malformed packets, dropped connections)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Inspector listening",
//	    zap.String("addr", ":8080"),
//	    zap.Bool("announce", true),
//	)
//
// # Specialized Logging
//
//	logging.LogDecode("cli", input, len(data), err)
//	logging.LogHTTPRequest(remoteAddr, "POST", "/api/decode", 200)
//	logging.LogWebSocketMessage(remoteAddr, "received", payload)
//	logging.LogRawBytes("packet", data)
//
// # Configuration
//
// Logging is silent unless a level is given, either through the --log-level
// flag or the ARXINSPECT_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// The interactive inspector owns the terminal, so it is usually combined with
// a log file. Files are rotated by lumberjack and written as JSON:
//
//	logging.InitializeWithFile("info", logging.FileOptions{
//	    Path:       "/tmp/arx-inspect.log",
//	    MaxSizeMB:  10,
//	    MaxBackups: 3,
//	})
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
