// Package log provides structured protocol capture for LIP sessions.
//
// This package defines the Logger interface and Event types for recording
// every line exchanged with a bridge, plus connection state transitions and
// errors. It is separate from operational logging (zerolog) - protocol
// capture provides a complete machine-readable trace for debugging and
// replay analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via zerolog
//	cfg.ProtocolLogger = log.NewZerologAdapter(zlog)
//
//	// For production: write to binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/lip/bridge.llog")
//
//	// Both: use MultiLogger
//	cfg.ProtocolLogger = log.NewMultiLogger(
//	    log.NewZerologAdapter(zlog),
//	    fileLogger,
//	)
//
// # Event Types
//
// Each Event carries one payload:
//   - Line: a raw protocol line, with parsed fields when it was an event
//   - StateChange: a connection state transition
//   - Error: a protocol or transport error
//
// # File Format
//
// Log files use CBOR encoding with .llog extension. Reader streams events
// back with optional filtering.
package log
