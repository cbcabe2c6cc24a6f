package lip

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/lip-protocol/lip-go/pkg/connection"
	protolog "github.com/lip-protocol/lip-go/pkg/log"
	"github.com/lip-protocol/lip-go/pkg/subscription"
	"github.com/lip-protocol/lip-go/pkg/transport"
	"github.com/lip-protocol/lip-go/pkg/wire"
)

// Config customizes client behavior. Zero fields select protocol
// defaults; only Host is required.
type Config struct {
	// Host is the bridge address.
	Host string

	// Port is the telnet port. Defaults to wire.DefaultPort.
	Port int

	// Username for the login handshake. Defaults to wire.DefaultUsername.
	Username string

	// Password for the login handshake. Defaults to wire.DefaultPassword.
	Password string

	// ConnectTimeout bounds the TCP connect and each handshake step.
	ConnectTimeout time.Duration

	// SocketTimeout bounds individual command writes.
	SocketTimeout time.Duration

	// ReadTimeout is the read-inactivity threshold of the read loop.
	ReadTimeout time.Duration

	// KeepAliveInterval is the interval between heartbeat queries. The
	// liveness deadline is KeepAliveInterval + ReadTimeout.
	KeepAliveInterval time.Duration

	// Backoff spaces reconnect attempts. The zero value selects the
	// default policy; to disable spacing, set a config with Initial
	// zero and any other field non-zero.
	Backoff connection.Config

	// Clock drives the watchdog and backoff timers. Defaults to the
	// real clock; tests inject a fake.
	Clock clockwork.Clock

	// Logger receives operational diagnostics. Nil disables them.
	Logger *zerolog.Logger

	// Capture receives the protocol event trace. Nil disables capture.
	Capture protolog.Logger
}

// DefaultConfig returns a configuration for the given bridge host with
// all protocol defaults filled in.
func DefaultConfig(host string) Config {
	return Config{
		Host:              host,
		Port:              wire.DefaultPort,
		Username:          wire.DefaultUsername,
		Password:          wire.DefaultPassword,
		ConnectTimeout:    wire.DefaultConnectTimeout,
		SocketTimeout:     wire.DefaultSocketTimeout,
		ReadTimeout:       wire.DefaultReadTimeout,
		KeepAliveInterval: wire.DefaultKeepAliveInterval,
		Backoff:           connection.DefaultConfig(),
	}
}

// Client is a resilient LIP client. Create one with NewClient; the zero
// value is not usable.
type Client struct {
	cfg     Config
	clock   clockwork.Clock
	logger  zerolog.Logger
	capture protolog.Logger

	subs    *subscription.Registry
	backoff *connection.Backoff

	// mu guards the session fields below. It is never held across I/O.
	mu         sync.Mutex
	state      ConnectionState
	conn       *transport.Conn
	connID     string
	remoteAddr string
	stopped    bool
	stopCh     chan struct{}

	// reconnectSignal is closed when a reconnect starts, aborting the
	// in-flight read. It is replaced with a fresh channel when the
	// reconnect finishes. reconnectDone is created at reconnect start
	// and closed at reconnect end; nil when no reconnect is in flight.
	reconnectSignal chan struct{}
	reconnectDone   chan struct{}

	// reconnecting is the first-writer-wins flag preventing overlapping
	// reconnect attempts.
	reconnecting atomic.Bool

	// readGuard serializes the read loop against the reconnect
	// procedure. Whoever holds it owns the transport.
	readGuard sync.Mutex

	// lastAlive is the liveness clock: unix nanos of the last
	// successful read or heartbeat acknowledgement.
	lastAlive atomic.Int64

	wg sync.WaitGroup
}

// NewClient creates a client for the configured bridge. Connect must be
// called before commands can be sent.
func NewClient(cfg Config) *Client {
	if cfg.Port == 0 {
		cfg.Port = wire.DefaultPort
	}
	if cfg.Username == "" {
		cfg.Username = wire.DefaultUsername
	}
	if cfg.Password == "" {
		cfg.Password = wire.DefaultPassword
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = wire.DefaultConnectTimeout
	}
	if cfg.SocketTimeout == 0 {
		cfg.SocketTimeout = wire.DefaultSocketTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = wire.DefaultReadTimeout
	}
	if cfg.KeepAliveInterval == 0 {
		cfg.KeepAliveInterval = wire.DefaultKeepAliveInterval
	}
	if cfg.Backoff == (connection.Config{}) {
		cfg.Backoff = connection.DefaultConfig()
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Capture == nil {
		cfg.Capture = protolog.NoopLogger{}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	c := &Client{
		cfg:             cfg,
		clock:           cfg.Clock,
		logger:          logger,
		capture:         cfg.Capture,
		subs:            subscription.NewRegistry(),
		backoff:         connection.NewBackoffWithConfig(cfg.Backoff),
		stopCh:          make(chan struct{}),
		reconnectSignal: make(chan struct{}),
	}
	c.subs.OnObserverFailure(func(recovered any) {
		c.logger.Error().Interface("panic", recovered).Msg("subscriber panicked")
	})
	return c
}

// Connect dials the bridge, performs the login handshake and starts the
// read loop and keepalive watchdog. It returns ErrAlreadyConnected if a
// session is already being established or exists; in that case no I/O
// is performed. The context bounds the lifetime of the background
// goroutines, not the connect itself, which is bounded by the
// configured timeouts.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateNotConnected || c.reconnecting.Load() {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrAlreadyConnected, state)
	}
	if c.stopped {
		// The client is reusable after Stop.
		c.stopped = false
		c.stopCh = make(chan struct{})
	}
	c.mu.Unlock()

	if err := c.establish(); err != nil {
		return err
	}

	c.wg.Add(2)
	go c.readLoop(ctx)
	go c.watchdog(ctx)
	return nil
}

// establish dials and authenticates one session. On success the client
// is Connected with a fresh connection identity; on failure it is left
// NotConnected.
func (c *Client) establish() error {
	c.mu.Lock()
	c.setStateLocked(StateConnecting, "")
	c.mu.Unlock()

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	conn, err := transport.Dial(addr, c.cfg.ConnectTimeout)
	if err != nil {
		c.toNotConnected("dial failed")
		return err
	}

	if err := c.handshake(conn); err != nil {
		conn.Close()
		c.toNotConnected("handshake failed")
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connID = uuid.NewString()
	c.remoteAddr = conn.RemoteAddr().String()
	c.setStateLocked(StateConnected, "")
	c.mu.Unlock()

	c.stampLiveness()
	c.backoff.Reset()
	c.logger.Info().Str("remote", addr).Msg("connected")
	return nil
}

// handshake performs the three-prompt login sequence. Prompts are not
// line-terminated, so each is read up to its trailing space.
func (c *Client) handshake(conn *transport.Conn) error {
	if err := c.expectPrompt(conn, wire.LoginPrompt); err != nil {
		return err
	}
	if err := conn.WriteCommand(c.cfg.Username, c.cfg.SocketTimeout); err != nil {
		return err
	}
	if err := c.expectPrompt(conn, wire.PasswordPrompt); err != nil {
		return err
	}
	if err := conn.WriteCommand(c.cfg.Password, c.cfg.SocketTimeout); err != nil {
		return err
	}
	return c.expectPrompt(conn, wire.ReadyPrompt)
}

func (c *Client) expectPrompt(conn *transport.Conn, want string) error {
	got, err := conn.ReadUntil(' ', c.cfg.ConnectTimeout)
	if err != nil {
		return err
	}
	// Some bridges emit a line break before the prompt.
	if strings.TrimLeft(got, "\r\n") != want {
		return &ProtocolError{Received: got, Expected: want}
	}
	return nil
}

// Stop requests shutdown, closes the transport and waits for the read
// loop, watchdog and any in-flight reconnect to finish. It is
// idempotent. The client may be reused by calling Connect again.
func (c *Client) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	close(c.stopCh)
	conn := c.conn
	c.conn = nil
	c.setStateLocked(StateNotConnected, "stop requested")
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	c.wg.Wait()
	c.logger.Info().Msg("stopped")
}

// State returns the current lifecycle state.
func (c *Client) State() ConnectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Reconnecting reports whether a reconnect is in flight.
func (c *Client) Reconnecting() bool {
	return c.reconnecting.Load()
}

// ConnectionID returns the identity of the current session, empty when
// not connected. It changes on every reconnect.
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}

// Subscribe registers an observer for parsed protocol events. Events
// are delivered synchronously on the read loop goroutine, in
// registration order. The returned handle removes the subscription and
// is idempotent.
func (c *Client) Subscribe(fn subscription.Callback) subscription.UnsubscribeFunc {
	return c.subs.Subscribe(fn)
}

// Query sends a state query, e.g. Query(wire.ModeOutput, 31, 1) writes
// "?OUTPUT,31,1". Returns ErrNotConnected when no session exists.
func (c *Client) Query(mode wire.Mode, fields ...int) error {
	return c.send(wire.QueryChar, mode, fields...)
}

// Action sends a command, e.g. Action(wire.ModeOutput, 31, 1, 75)
// writes "#OUTPUT,31,1,75". Returns ErrNotConnected when no session
// exists.
func (c *Client) Action(mode wire.Mode, fields ...int) error {
	return c.send(wire.ActionChar, mode, fields...)
}

func (c *Client) send(prefix byte, mode wire.Mode, fields ...int) error {
	c.mu.Lock()
	if c.state != StateConnected || c.conn == nil {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w (state %s)", ErrNotConnected, state)
	}
	conn := c.conn
	c.mu.Unlock()

	cmd := wire.FormatCommand(prefix, mode, fields...)
	if err := conn.WriteCommand(cmd, c.cfg.SocketTimeout); err != nil {
		return err
	}
	c.captureLine(protolog.DirectionOut, cmd, nil, protolog.CategoryLine)
	return nil
}

// setStateLocked records a state transition. Callers hold mu.
func (c *Client) setStateLocked(next ConnectionState, reason string) {
	if c.state == next {
		return
	}
	old := c.state
	c.state = next

	c.logger.Debug().
		Str("old", old.String()).
		Str("new", next.String()).
		Str("reason", reason).
		Msg("connection state")
	c.capture.Log(protolog.Event{
		Timestamp:    c.clock.Now(),
		ConnectionID: c.connID,
		Category:     protolog.CategoryState,
		RemoteAddr:   c.remoteAddr,
		StateChange: &protolog.StateChangeEvent{
			OldState: old.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

func (c *Client) toNotConnected(reason string) {
	c.mu.Lock()
	c.setStateLocked(StateNotConnected, reason)
	c.mu.Unlock()
}

// stampLiveness records evidence of life on the connection.
func (c *Client) stampLiveness() {
	c.lastAlive.Store(c.clock.Now().UnixNano())
}

func (c *Client) sinceAlive() time.Duration {
	return c.clock.Now().Sub(time.Unix(0, c.lastAlive.Load()))
}

func (c *Client) captureLine(dir protolog.Direction, raw string, msg *wire.Message, category protolog.Category) {
	c.mu.Lock()
	connID, remote := c.connID, c.remoteAddr
	c.mu.Unlock()

	line := &protolog.LineEvent{Raw: raw}
	if msg != nil {
		line.Parsed = true
		line.Mode = msg.Mode.String()
		line.IntegrationID = msg.IntegrationID
		line.ActionNumber = msg.ActionNumber
		line.Value = msg.Value
	}
	c.capture.Log(protolog.Event{
		Timestamp:    c.clock.Now(),
		ConnectionID: connID,
		Direction:    dir,
		Category:     category,
		RemoteAddr:   remote,
		Line:         line,
	})
}

func (c *Client) captureError(message, context string) {
	c.mu.Lock()
	connID, remote := c.connID, c.remoteAddr
	c.mu.Unlock()

	c.capture.Log(protolog.Event{
		Timestamp:    c.clock.Now(),
		ConnectionID: connID,
		Direction:    protolog.DirectionIn,
		Category:     protolog.CategoryError,
		RemoteAddr:   remote,
		Error: &protolog.ErrorEventData{
			Message: message,
			Context: context,
		},
	})
}
