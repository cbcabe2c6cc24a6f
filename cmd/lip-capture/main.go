// Command lip-capture views and analyzes LIP protocol capture files.
//
// Capture files are created by lip-monitor with the -capture flag.
//
// Usage:
//
//	lip-capture <command> [flags] <file.llog>
//
// Commands:
//
//	view     View capture in human-readable format
//	export   Export capture to JSON lines
//	stats    Show statistics about the capture
//
// Examples:
//
//	# View all events
//	lip-capture view bridge.llog
//
//	# View only incoming OUTPUT events
//	lip-capture view -direction in -mode OUTPUT bridge.llog
//
//	# Export to JSONL
//	lip-capture export bridge.llog
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	protolog "github.com/lip-protocol/lip-go/pkg/log"
)

const usage = `lip-capture - LIP protocol capture analyzer

Usage:
  lip-capture <command> [flags] <file.llog>

Commands:
  view     View capture in human-readable format
  export   Export capture to JSON lines
  stats    Show statistics about the capture

Use "lip-capture <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "view":
		err = runView(args)
	case "export":
		err = runExport(args)
	case "stats":
		err = runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runView(args []string) error {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (line, keepalive, state, error)")
	mode := fs.String("mode", "", "Filter by event group (e.g. OUTPUT)")
	connID := fs.String("conn-id", "", "Filter by connection ID")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("capture file path required")
	}

	filter, err := buildFilter(*direction, *category, *mode, *connID)
	if err != nil {
		return err
	}

	reader, err := protolog.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		printEvent(os.Stdout, event)
	}
}

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("capture file path required")
	}

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	reader, err := protolog.NewReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer reader.Close()

	enc := json.NewEncoder(out)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := enc.Encode(exportEvent(event)); err != nil {
			return err
		}
	}
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("capture file path required")
	}

	reader, err := protolog.NewReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer reader.Close()

	var (
		total       int
		byCategory  = make(map[string]int)
		byMode      = make(map[string]int)
		connections = make(map[string]struct{})
		first, last time.Time
	)

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		total++
		byCategory[event.Category.String()]++
		if event.Line != nil && event.Line.Parsed {
			byMode[event.Line.Mode]++
		}
		if event.ConnectionID != "" {
			connections[event.ConnectionID] = struct{}{}
		}
		if first.IsZero() || event.Timestamp.Before(first) {
			first = event.Timestamp
		}
		if event.Timestamp.After(last) {
			last = event.Timestamp
		}
	}

	fmt.Printf("Events:      %d\n", total)
	fmt.Printf("Connections: %d\n", len(connections))
	if !first.IsZero() {
		fmt.Printf("Time range:  %s .. %s (%s)\n",
			first.Format(time.RFC3339), last.Format(time.RFC3339),
			last.Sub(first).Round(time.Second))
	}
	fmt.Println("By category:")
	for cat, n := range byCategory {
		fmt.Printf("  %-10s %d\n", cat, n)
	}
	if len(byMode) > 0 {
		fmt.Println("By event group:")
		for mode, n := range byMode {
			fmt.Printf("  %-10s %d\n", mode, n)
		}
	}
	return nil
}

func buildFilter(direction, category, mode, connID string) (protolog.Filter, error) {
	filter := protolog.Filter{ConnectionID: connID, Mode: mode}

	switch direction {
	case "":
	case "in":
		d := protolog.DirectionIn
		filter.Direction = &d
	case "out":
		d := protolog.DirectionOut
		filter.Direction = &d
	default:
		return filter, fmt.Errorf("unknown direction %q", direction)
	}

	switch category {
	case "":
	case "line":
		c := protolog.CategoryLine
		filter.Category = &c
	case "keepalive":
		c := protolog.CategoryKeepAlive
		filter.Category = &c
	case "state":
		c := protolog.CategoryState
		filter.Category = &c
	case "error":
		c := protolog.CategoryError
		filter.Category = &c
	default:
		return filter, fmt.Errorf("unknown category %q", category)
	}

	return filter, nil
}

func printEvent(w io.Writer, event protolog.Event) {
	ts := event.Timestamp.Format("15:04:05.000")
	dir := event.Direction.String()

	switch {
	case event.Line != nil:
		fmt.Fprintf(w, "%s %-3s %-9s %s\n", ts, dir, event.Category, event.Line.Raw)
	case event.StateChange != nil:
		fmt.Fprintf(w, "%s     STATE     %s -> %s (%s)\n",
			ts, event.StateChange.OldState, event.StateChange.NewState, event.StateChange.Reason)
	case event.Error != nil:
		fmt.Fprintf(w, "%s %-3s ERROR     %s [%s]\n", ts, dir, event.Error.Message, event.Error.Context)
	default:
		fmt.Fprintf(w, "%s %-3s %s\n", ts, dir, event.Category)
	}
}

// jsonEvent is the JSONL export shape.
type jsonEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	ConnectionID string    `json:"connection_id,omitempty"`
	Direction    string    `json:"direction"`
	Category     string    `json:"category"`
	RemoteAddr   string    `json:"remote_addr,omitempty"`

	Line          string  `json:"line,omitempty"`
	Mode          string  `json:"mode,omitempty"`
	IntegrationID int     `json:"integration_id,omitempty"`
	ActionNumber  int     `json:"action_number,omitempty"`
	Value         float64 `json:"value,omitempty"`

	OldState string `json:"old_state,omitempty"`
	NewState string `json:"new_state,omitempty"`
	Reason   string `json:"reason,omitempty"`

	Error        string `json:"error,omitempty"`
	ErrorContext string `json:"error_context,omitempty"`
}

func exportEvent(event protolog.Event) jsonEvent {
	out := jsonEvent{
		Timestamp:    event.Timestamp,
		ConnectionID: event.ConnectionID,
		Direction:    event.Direction.String(),
		Category:     event.Category.String(),
		RemoteAddr:   event.RemoteAddr,
	}
	if event.Line != nil {
		out.Line = event.Line.Raw
		if event.Line.Parsed {
			out.Mode = event.Line.Mode
			out.IntegrationID = event.Line.IntegrationID
			out.ActionNumber = event.Line.ActionNumber
			out.Value = event.Line.Value
		}
	}
	if event.StateChange != nil {
		out.OldState = event.StateChange.OldState
		out.NewState = event.StateChange.NewState
		out.Reason = event.StateChange.Reason
	}
	if event.Error != nil {
		out.Error = event.Error.Message
		out.ErrorContext = event.Error.Context
	}
	return out
}
