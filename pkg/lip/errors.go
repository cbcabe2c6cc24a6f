package lip

import (
	"errors"
	"fmt"
)

// Client errors.
var (
	// ErrAlreadyConnected is returned by Connect when the client is
	// already connecting or connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotConnected is returned by Query and Action when the client
	// has no established session.
	ErrNotConnected = errors.New("not connected")
)

// Internal coordination sentinels for the read loop.
var (
	errStopped      = errors.New("stop requested")
	errReconnecting = errors.New("reconnect in progress")
)

// ProtocolError reports a login handshake prompt that did not match the
// expected literal.
type ProtocolError struct {
	// Received is the text read from the bridge.
	Received string

	// Expected is the prompt literal the handshake required.
	Expected string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("unexpected prompt %q, expected %q", e.Received, e.Expected)
}
