// Package transport provides the LIP transport layer: a TCP connection
// with line-delimited read primitives and bounded timeouts.
//
// The transport layer handles:
//   - Dialing the bridge with a connect timeout
//   - CRLF-terminated line reads and delimiter-bounded reads
//   - Command writes (the CRLF terminator is appended automatically)
//   - Idempotent connection teardown
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      LIP text lines            │
//	├────────────────────────────────┤
//	│   CRLF line framing            │
//	├────────────────────────────────┤
//	│           TCP (port 23)        │
//	└────────────────────────────────┘
//
// Every operation is blocking-with-timeout from the caller's point of
// view; no operation hangs indefinitely. Timeouts are implemented with
// socket deadlines, so a timed-out read leaves the connection usable
// for the next attempt.
package transport
