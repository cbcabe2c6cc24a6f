package log

import (
	"time"
)

// Event represents one captured protocol occurrence on a connection.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID). It changes
	// on every reconnect so traces can be split per session.
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates line flow.
	Direction Direction `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// RemoteAddr is the bridge address (IP:port).
	RemoteAddr string `cbor:"5,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Line        *LineEvent        `cbor:"6,keyasint,omitempty"` // Protocol lines
	StateChange *StateChangeEvent `cbor:"7,keyasint,omitempty"` // Connection state
	Error       *ErrorEventData   `cbor:"8,keyasint,omitempty"` // Errors
}

// Direction indicates the direction of line flow.
type Direction uint8

const (
	// DirectionIn indicates a line received from the bridge.
	DirectionIn Direction = 0
	// DirectionOut indicates a line sent to the bridge.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryLine indicates a protocol line (command, event or other).
	CategoryLine Category = 0
	// CategoryKeepAlive indicates a heartbeat line or its acknowledgement.
	CategoryKeepAlive Category = 1
	// CategoryState indicates a connection state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryLine:
		return "LINE"
	case CategoryKeepAlive:
		return "KEEPALIVE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LineEvent captures one protocol line. The parsed fields are populated
// only for incoming status events; commands and unparsed lines carry the
// raw text alone.
type LineEvent struct {
	// Raw is the line text with the terminator stripped.
	Raw string `cbor:"1,keyasint"`

	// Parsed indicates the line was a status event and the fields below
	// are meaningful.
	Parsed bool `cbor:"2,keyasint,omitempty"`

	// Mode is the event group token (for example OUTPUT or DEVICE).
	Mode string `cbor:"3,keyasint,omitempty"`

	// IntegrationID is the addressed component.
	IntegrationID int `cbor:"4,keyasint,omitempty"`

	// ActionNumber selects the attribute within the component.
	ActionNumber int `cbor:"5,keyasint,omitempty"`

	// Value is the reported attribute value.
	Value float64 `cbor:"6,keyasint,omitempty"`
}

// StateChangeEvent captures connection lifecycle transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures protocol and transport errors.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"2,keyasint,omitempty"`
}
