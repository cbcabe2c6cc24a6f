package log

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapterLineEvent(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.DebugLevel)

	adapter := NewZerologAdapter(zl)
	adapter.Log(Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-1",
		Direction:    DirectionIn,
		Category:     CategoryLine,
		Line: &LineEvent{
			Raw:           "~OUTPUT,31,1,100.00",
			Parsed:        true,
			Mode:          "OUTPUT",
			IntegrationID: 31,
			ActionNumber:  1,
			Value:         100,
		},
	})

	out := buf.String()
	for _, want := range []string{`"conn_id":"conn-1"`, `"direction":"IN"`, `"line":"~OUTPUT,31,1,100.00"`, `"integration_id":31`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestZerologAdapterStateChange(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.DebugLevel)

	adapter := NewZerologAdapter(zl)
	adapter.Log(Event{
		Timestamp: time.Now(),
		Category:  CategoryState,
		StateChange: &StateChangeEvent{
			OldState: "Connecting",
			NewState: "Connected",
		},
	})

	out := buf.String()
	if !strings.Contains(out, `"new_state":"Connected"`) {
		t.Errorf("output missing state change: %s", out)
	}
}
