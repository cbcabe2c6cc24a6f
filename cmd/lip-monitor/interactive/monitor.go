// Package interactive provides the interactive command-line interface
// for lip-monitor.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/lip-protocol/lip-go/pkg/discovery"
	"github.com/lip-protocol/lip-go/pkg/lip"
	"github.com/lip-protocol/lip-go/pkg/wire"
)

// Monitor handles interactive mode for lip-monitor.
type Monitor struct {
	client *lip.Client
	logger zerolog.Logger
	rl     *readline.Instance

	watching atomic.Bool
}

// New creates a new interactive monitor.
func New(client *lip.Client, logger zerolog.Logger) (*Monitor, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lip> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	m := &Monitor{
		client: client,
		logger: logger,
		rl:     rl,
	}
	m.watching.Store(true)

	client.Subscribe(m.handleEvent)

	return m, nil
}

// Stdout returns a writer that coordinates with the readline prompt.
func (m *Monitor) Stdout() io.Writer {
	return m.rl.Stdout()
}

// Run starts the interactive command loop. It returns when the user
// exits or the context is cancelled.
func (m *Monitor) Run(ctx context.Context, cancel context.CancelFunc) {
	defer m.rl.Close()

	m.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := m.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(m.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			m.printHelp()

		case "query", "q":
			m.cmdSend(m.client.Query, args)

		case "action", "a":
			m.cmdSend(m.client.Action, args)

		case "press":
			m.cmdButton(wire.ButtonPress, args)

		case "release":
			m.cmdButton(wire.ButtonRelease, args)

		case "watch":
			m.cmdWatch(args)

		case "status":
			m.cmdStatus()

		case "discover":
			m.cmdDiscover(ctx)

		case "quit", "exit":
			fmt.Fprintln(m.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(m.rl.Stdout(), "Unknown command: %s (try 'help')\n", cmd)
		}
	}
}

func (m *Monitor) printHelp() {
	fmt.Fprintln(m.rl.Stdout(), `Commands:
  query <mode> <id> <action>     Send a state query (e.g. query output 31 1)
  action <mode> <id> <args...>   Send an action (e.g. action output 31 1 75)
  press <id> <button>            Press a keypad button
  release <id> <button>          Release a keypad button
  watch on|off                   Toggle event printing
  status                         Show connection status
  discover                       Browse for bridges via mDNS
  quit                           Exit`)
}

func (m *Monitor) handleEvent(msg wire.Message) {
	if !m.watching.Load() {
		return
	}
	fmt.Fprintf(m.rl.Stdout(), "event: %s %d action %d value %g\n",
		msg.Mode, msg.IntegrationID, msg.ActionNumber, msg.Value)
}

func (m *Monitor) cmdSend(send func(wire.Mode, ...int) error, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(m.rl.Stdout(), "Usage: query|action <mode> <id> [args...]")
		return
	}

	mode := wire.ModeFromToken(strings.ToUpper(args[0]))
	if mode == wire.ModeUnknown {
		fmt.Fprintf(m.rl.Stdout(), "Unknown mode: %s\n", args[0])
		return
	}

	fields := make([]int, 0, len(args)-1)
	for _, arg := range args[1:] {
		n, err := strconv.Atoi(arg)
		if err != nil {
			fmt.Fprintf(m.rl.Stdout(), "Not a number: %s\n", arg)
			return
		}
		fields = append(fields, n)
	}

	if err := send(mode, fields...); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Send failed: %v\n", err)
	}
}

func (m *Monitor) cmdButton(action int, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(m.rl.Stdout(), "Usage: press|release <id> <button>")
		return
	}

	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Not a number: %s\n", args[0])
		return
	}
	button, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Not a number: %s\n", args[1])
		return
	}

	if err := m.client.Action(wire.ModeDevice, id, button, action); err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Send failed: %v\n", err)
	}
}

func (m *Monitor) cmdWatch(args []string) {
	if len(args) != 1 {
		fmt.Fprintf(m.rl.Stdout(), "Watching: %v\n", m.watching.Load())
		return
	}
	switch strings.ToLower(args[0]) {
	case "on":
		m.watching.Store(true)
	case "off":
		m.watching.Store(false)
	default:
		fmt.Fprintln(m.rl.Stdout(), "Usage: watch on|off")
	}
}

func (m *Monitor) cmdStatus() {
	fmt.Fprintf(m.rl.Stdout(), "State:        %s\n", m.client.State())
	fmt.Fprintf(m.rl.Stdout(), "Connection:   %s\n", m.client.ConnectionID())
	fmt.Fprintf(m.rl.Stdout(), "Reconnecting: %v\n", m.client.Reconnecting())
}

func (m *Monitor) cmdDiscover(ctx context.Context) {
	browser, err := discovery.NewBrowser(discovery.DefaultBrowserConfig())
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Discovery failed: %v\n", err)
		return
	}

	browseCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	results, err := browser.Browse(browseCtx)
	if err != nil {
		fmt.Fprintf(m.rl.Stdout(), "Discovery failed: %v\n", err)
		return
	}

	fmt.Fprintln(m.rl.Stdout(), "Browsing for bridges (5s)...")
	found := 0
	for bridge := range results {
		found++
		fmt.Fprintf(m.rl.Stdout(), "  %s (%s) %v\n",
			bridge.InstanceName, bridge.SystemType, bridge.Addresses)
	}
	if found == 0 {
		fmt.Fprintln(m.rl.Stdout(), "No bridges found")
	}
}
