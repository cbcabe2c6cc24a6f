package wire

import (
	"testing"
)

func TestParseLineEvent(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Message
	}{
		{
			name: "output event",
			line: "~OUTPUT,31,1,100.00",
			want: Message{Mode: ModeOutput, IntegrationID: 31, ActionNumber: 1, Value: 100.0},
		},
		{
			name: "device event",
			line: "~DEVICE,12,3,1",
			want: Message{Mode: ModeDevice, IntegrationID: 12, ActionNumber: 3, Value: 1},
		},
		{
			name: "prompt echo stripped",
			line: "GNET> ~OUTPUT,31,1,100.00",
			want: Message{Mode: ModeOutput, IntegrationID: 31, ActionNumber: 1, Value: 100.0},
		},
		{
			name: "unrecognized mode maps to unknown",
			line: "~SHADEGRP,5,1,50.25",
			want: Message{Mode: ModeUnknown, IntegrationID: 5, ActionNumber: 1, Value: 50.25},
		},
		{
			name: "trailing terminator tolerated",
			line: "~OUTPUT,31,1,75.50\r\n",
			want: Message{Mode: ModeOutput, IntegrationID: 31, ActionNumber: 1, Value: 75.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, kind := ParseLine(tt.line)
			if kind != LineEvent {
				t.Fatalf("kind = %v, want EVENT", kind)
			}
			if msg != tt.want {
				t.Errorf("msg = %+v, want %+v", msg, tt.want)
			}
		})
	}
}

func TestParseLineClassification(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineKind
	}{
		{name: "empty", line: "", want: LineEmpty},
		{name: "bare terminator", line: "\r\n", want: LineEmpty},
		{name: "prompt only", line: "GNET> ", want: LineEmpty},
		{name: "keepalive ack", line: "~SYSTEM,02:45:51", want: LineKeepAlive},
		{name: "error report", line: "~ERROR,3", want: LineError},
		{name: "malformed integration id", line: "~OUTPUT,3.1.4,1,100.00", want: LineMalformed},
		{name: "malformed action number", line: "~OUTPUT,31,1.5,100.00", want: LineMalformed},
		{name: "malformed value", line: "~OUTPUT,31,1,1.2.3", want: LineMalformed},
		{name: "unrecognized line", line: "some banner text", want: LineUnknown},
		{name: "lowercase mode not an event", line: "~output,31,1,100.00", want: LineUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, kind := ParseLine(tt.line)
			if kind != tt.want {
				t.Errorf("kind = %v, want %v", kind, tt.want)
			}
			if kind != LineEvent && msg != (Message{}) {
				t.Errorf("non-event line produced message %+v", msg)
			}
		})
	}
}

func TestEventRoundTrip(t *testing.T) {
	tests := []Message{
		{Mode: ModeOutput, IntegrationID: 31, ActionNumber: 1, Value: 100},
		{Mode: ModeOutput, IntegrationID: 0, ActionNumber: 0, Value: 0},
		{Mode: ModeDevice, IntegrationID: 12, ActionNumber: ButtonPress, Value: 1},
		{Mode: ModeDevice, IntegrationID: 99, ActionNumber: ButtonRelease, Value: 0.25},
	}

	for _, want := range tests {
		line := FormatEvent(want)
		got, kind := ParseLine(line)
		if kind != LineEvent {
			t.Fatalf("ParseLine(%q) kind = %v, want EVENT", line, kind)
		}
		if got != want {
			t.Errorf("round trip of %+v via %q = %+v", want, line, got)
		}
	}
}

func TestFormatCommand(t *testing.T) {
	tests := []struct {
		name   string
		prefix byte
		mode   Mode
		fields []int
		want   string
	}{
		{name: "query", prefix: QueryChar, mode: ModeOutput, fields: []int{31, 1}, want: "?OUTPUT,31,1"},
		{name: "action with args", prefix: ActionChar, mode: ModeOutput, fields: []int{31, 1, 75}, want: "#OUTPUT,31,1,75"},
		{name: "device press", prefix: ActionChar, mode: ModeDevice, fields: []int{12, 4, ButtonPress}, want: "#DEVICE,12,4,3"},
		{name: "no fields", prefix: QueryChar, mode: ModeDevice, fields: nil, want: "?DEVICE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCommand(tt.prefix, tt.mode, tt.fields...)
			if got != tt.want {
				t.Errorf("FormatCommand = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModeFromToken(t *testing.T) {
	if ModeFromToken("OUTPUT") != ModeOutput {
		t.Error("OUTPUT should map to ModeOutput")
	}
	if ModeFromToken("DEVICE") != ModeDevice {
		t.Error("DEVICE should map to ModeDevice")
	}
	if ModeFromToken("SHADEGRP") != ModeUnknown {
		t.Error("unrecognized token should map to ModeUnknown")
	}
}
