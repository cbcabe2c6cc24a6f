package lip

// ConnectionState is the client lifecycle state. Transitions are
// serialized through the client; no two code paths set it concurrently.
type ConnectionState uint8

const (
	// StateNotConnected means no session exists.
	StateNotConnected ConnectionState = iota

	// StateConnecting means a dial or login handshake is in progress.
	StateConnecting

	// StateConnected means the session is established and commands may
	// be sent.
	StateConnected
)

// String returns the state name.
func (s ConnectionState) String() string {
	switch s {
	case StateNotConnected:
		return "NotConnected"
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	default:
		return "Unknown"
	}
}
