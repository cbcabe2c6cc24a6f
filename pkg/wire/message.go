package wire

import "time"

// Protocol literals from the LIP specification.
const (
	// LoginPrompt is the first server prompt of the login handshake.
	LoginPrompt = "login: "

	// PasswordPrompt is the second server prompt of the login handshake.
	PasswordPrompt = "password: "

	// ReadyPrompt is the server banner indicating the session is ready.
	ReadyPrompt = "GNET> "

	// DefaultUsername is the fixed integration username.
	DefaultUsername = "lutron"

	// DefaultPassword is the fixed integration password.
	DefaultPassword = "integration"

	// DefaultPort is the telnet port the bridge listens on.
	DefaultPort = 23

	// QueryChar prefixes outbound query commands.
	QueryChar = '?'

	// ActionChar prefixes outbound action commands.
	ActionChar = '#'

	// KeepAliveCommand is the no-op query used as an application heartbeat.
	KeepAliveCommand = "?SYSTEM,10"
)

// Button action numbers within ModeDevice.
const (
	// ButtonPress is the action number for a button press.
	ButtonPress = 3

	// ButtonRelease is the action number for a button release.
	ButtonRelease = 4
)

// Protocol timing defaults.
const (
	// DefaultConnectTimeout bounds the TCP connect and each handshake step.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultSocketTimeout bounds individual read/write operations.
	DefaultSocketTimeout = 10 * time.Second

	// DefaultReadTimeout is the read-inactivity threshold of the read loop.
	DefaultReadTimeout = 60 * time.Second

	// DefaultKeepAliveInterval is the interval between heartbeat queries.
	DefaultKeepAliveInterval = 60 * time.Second
)

// Mode is the device-class tag qualifying how action numbers are
// interpreted.
type Mode uint8

const (
	// ModeUnknown is assigned to event lines whose mode token is not
	// recognized. Such events are still delivered to subscribers.
	ModeUnknown Mode = iota

	// ModeOutput addresses dimmers, shades and other output devices.
	ModeOutput

	// ModeDevice addresses keypads and other input devices.
	ModeDevice
)

// String returns the wire token for the mode.
func (m Mode) String() string {
	switch m {
	case ModeOutput:
		return "OUTPUT"
	case ModeDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// ModeFromToken maps a wire mode token to a Mode. Unrecognized tokens
// map to ModeUnknown rather than failing.
func ModeFromToken(token string) Mode {
	switch token {
	case "OUTPUT":
		return ModeOutput
	case "DEVICE":
		return ModeDevice
	default:
		return ModeUnknown
	}
}

// Message is one parsed LIP event. Messages are immutable once
// constructed and have no identity beyond structural equality.
type Message struct {
	// Mode is the device class the event belongs to.
	Mode Mode

	// IntegrationID is the numeric address of the device on the bus.
	IntegrationID int

	// ActionNumber is the protocol-defined operation code within the mode.
	ActionNumber int

	// Value is the event payload (level, state, ...).
	Value float64
}
