package wire

import (
	"regexp"
	"strconv"
	"strings"
)

// Line grammar. Events must match at the start of the (prompt-stripped)
// line; keepalive and error lines are recognized by their leading token.
var (
	eventRE     = regexp.MustCompile(`^~([A-Z]+),([0-9.]+),([0-9.]+),([0-9.]+)`)
	keepAliveRE = regexp.MustCompile(`^~SYSTEM,`)
	errorRE     = regexp.MustCompile(`^~ERROR,`)
	emptyRE     = regexp.MustCompile(`^[\r\n]+$`)
)

// LineKind classifies an inbound protocol line.
type LineKind uint8

const (
	// LineEmpty is a blank or whitespace-only line. No message.
	LineEmpty LineKind = iota

	// LineEvent is a well-formed event line carrying a Message.
	LineEvent

	// LineKeepAlive acknowledges the keepalive query. No message.
	LineKeepAlive

	// LineError is a protocol-level error report from the server.
	LineError

	// LineMalformed is an event line whose numeric fields failed to
	// convert. Callers drop it silently.
	LineMalformed

	// LineUnknown is any other line.
	LineUnknown
)

// String returns the line kind name.
func (k LineKind) String() string {
	switch k {
	case LineEmpty:
		return "EMPTY"
	case LineEvent:
		return "EVENT"
	case LineKeepAlive:
		return "KEEPALIVE"
	case LineError:
		return "ERROR"
	case LineMalformed:
		return "MALFORMED"
	default:
		return "UNKNOWN"
	}
}

// ParseLine classifies one raw protocol line and, for event lines,
// returns the parsed Message. A leading ready-prompt echo is stripped
// before classification.
func ParseLine(line string) (Message, LineKind) {
	line = strings.TrimPrefix(line, ReadyPrompt)

	if line == "" || emptyRE.MatchString(line) {
		return Message{}, LineEmpty
	}

	if m := eventRE.FindStringSubmatch(line); m != nil {
		integrationID, err := strconv.Atoi(m[2])
		if err != nil {
			return Message{}, LineMalformed
		}
		actionNumber, err := strconv.Atoi(m[3])
		if err != nil {
			return Message{}, LineMalformed
		}
		value, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return Message{}, LineMalformed
		}
		return Message{
			Mode:          ModeFromToken(m[1]),
			IntegrationID: integrationID,
			ActionNumber:  actionNumber,
			Value:         value,
		}, LineEvent
	}

	if keepAliveRE.MatchString(line) {
		return Message{}, LineKeepAlive
	}
	if errorRE.MatchString(line) {
		return Message{}, LineError
	}

	return Message{}, LineUnknown
}

// FormatCommand builds an outbound command line without the CRLF
// terminator, e.g. FormatCommand(QueryChar, ModeOutput, 31, 1) returns
// "?OUTPUT,31,1".
func FormatCommand(prefix byte, mode Mode, fields ...int) string {
	var b strings.Builder
	b.WriteByte(prefix)
	b.WriteString(mode.String())
	for _, f := range fields {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(f))
	}
	return b.String()
}

// FormatEvent renders a Message back into the event line grammar. The
// value is rendered with the shortest representation that parses back
// to the same float.
func FormatEvent(msg Message) string {
	var b strings.Builder
	b.WriteByte('~')
	b.WriteString(msg.Mode.String())
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(msg.IntegrationID))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(msg.ActionNumber))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(msg.Value, 'f', -1, 64))
	return b.String()
}
