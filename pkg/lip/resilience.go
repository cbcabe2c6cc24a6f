package lip

import (
	"context"
	"errors"
	"io"

	protolog "github.com/lip-protocol/lip-go/pkg/log"
	"github.com/lip-protocol/lip-go/pkg/transport"
	"github.com/lip-protocol/lip-go/pkg/wire"
)

// readLoop reads, parses and dispatches inbound lines until stopped.
// Each iteration holds readGuard across exactly one read so a reconnect
// can never tear the transport down mid-read.
func (c *Client) readLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		c.readGuard.Lock()
		c.mu.Lock()
		conn := c.conn
		signal := c.reconnectSignal
		c.mu.Unlock()

		if conn == nil {
			c.readGuard.Unlock()
			if c.awaitReconnect(ctx) {
				return
			}
			continue
		}

		line, err := c.readOne(ctx, conn, signal)
		c.readGuard.Unlock()

		switch {
		case errors.Is(err, errStopped):
			return
		case errors.Is(err, errReconnecting):
			if c.awaitReconnect(ctx) {
				return
			}
		case err == nil:
			c.handleLine(line)
		case errors.Is(err, io.EOF):
			c.spawnReconnect(ctx, "connection closed by peer")
			if c.awaitReconnect(ctx) {
				return
			}
		case transport.IsTransient(err):
			// No message this tick. The watchdog decides whether the
			// connection is actually dead.
		default:
			c.spawnReconnect(ctx, "read failed: "+err.Error())
			if c.awaitReconnect(ctx) {
				return
			}
		}
	}
}

type readResult struct {
	line string
	err  error
}

// readOne races a single line read against the stop and reconnect
// signals. A read that loses the race is abandoned; its result lands in
// the buffered channel and is discarded, never delivered.
func (c *Client) readOne(ctx context.Context, conn *transport.Conn, reconnectSignal <-chan struct{}) (string, error) {
	resultCh := make(chan readResult, 1)
	go func() {
		line, err := conn.ReadLine(c.cfg.ReadTimeout)
		resultCh <- readResult{line: line, err: err}
	}()

	c.mu.Lock()
	stopCh := c.stopCh
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", errStopped
	case <-stopCh:
		return "", errStopped
	case <-reconnectSignal:
		return "", errReconnecting
	case r := <-resultCh:
		return r.line, r.err
	}
}

// handleLine classifies one inbound line and dispatches event lines to
// subscribers. Every successfully read line counts as evidence of life.
func (c *Client) handleLine(line string) {
	c.stampLiveness()

	msg, kind := wire.ParseLine(line)
	switch kind {
	case wire.LineEmpty:
	case wire.LineEvent:
		c.captureLine(protolog.DirectionIn, line, &msg, protolog.CategoryLine)
		c.subs.Dispatch(msg)
	case wire.LineKeepAlive:
		c.captureLine(protolog.DirectionIn, line, nil, protolog.CategoryKeepAlive)
	case wire.LineError:
		c.logger.Warn().Str("line", line).Msg("bridge reported an error")
		c.captureError(line, "bridge error report")
	case wire.LineMalformed:
		c.logger.Debug().Str("line", line).Msg("dropping malformed event line")
	default:
		c.logger.Debug().Str("line", line).Msg("unrecognized line")
		c.captureLine(protolog.DirectionIn, line, nil, protolog.CategoryLine)
	}
}

// watchdog sends the heartbeat query on a fixed interval and checks
// liveness. Heartbeats alone cannot prove liveness since a half-open
// socket may still accept writes, so staleness of the liveness clock
// also counts as failure.
func (c *Client) watchdog(ctx context.Context) {
	defer c.wg.Done()

	ticker := c.clock.NewTicker(c.cfg.KeepAliveInterval)
	defer ticker.Stop()

	c.mu.Lock()
	stopCh := c.stopCh
	c.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.Chan():
			c.checkLiveness(ctx)
		}
	}
}

func (c *Client) checkLiveness(ctx context.Context) {
	c.mu.Lock()
	state, conn := c.state, c.conn
	c.mu.Unlock()
	if state != StateConnected || conn == nil {
		return
	}

	writeErr := conn.WriteCommand(wire.KeepAliveCommand, c.cfg.SocketTimeout)
	if writeErr == nil {
		c.captureLine(protolog.DirectionOut, wire.KeepAliveCommand, nil, protolog.CategoryKeepAlive)
	}

	stale := c.sinceAlive() > c.cfg.KeepAliveInterval+c.cfg.ReadTimeout

	if writeErr != nil || stale {
		reason := "liveness deadline exceeded"
		if writeErr != nil {
			reason = "heartbeat write failed: " + writeErr.Error()
		}
		// Stamp before triggering so the next tick does not re-trigger
		// before the new connection has a chance to prove liveness.
		c.stampLiveness()
		c.spawnReconnect(ctx, reason)
	}
}

// spawnReconnect starts the reconnect procedure unless one is already
// in flight (first writer wins, later triggers no-op). It closes the
// transport before the reconnect goroutine contends for readGuard so a
// blocked read unblocks and releases the guard.
func (c *Client) spawnReconnect(ctx context.Context, reason string) {
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.reconnecting.Store(false)
		c.mu.Unlock()
		return
	}
	close(c.reconnectSignal)
	c.reconnectDone = make(chan struct{})
	conn := c.conn
	c.conn = nil
	c.setStateLocked(StateNotConnected, reason)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}

	c.logger.Info().Str("reason", reason).Msg("reconnecting")
	c.wg.Add(1)
	go c.runReconnect(ctx)
}

// runReconnect holds readGuard and retries establish until it succeeds
// or a stop is requested. Failed attempts are spaced by the backoff.
func (c *Client) runReconnect(ctx context.Context) {
	defer c.wg.Done()

	c.mu.Lock()
	stopCh := c.stopCh
	c.mu.Unlock()

	c.readGuard.Lock()
	for {
		if c.stopRequested(ctx) {
			break
		}
		err := c.establish()
		if err == nil {
			break
		}
		c.logger.Debug().Err(err).Int("attempt", c.backoff.Attempts()+1).Msg("reconnect attempt failed")
		c.captureError(err.Error(), "reconnect")

		if delay := c.backoff.Next(); delay > 0 {
			select {
			case <-c.clock.After(delay):
			case <-stopCh:
			case <-ctx.Done():
			}
		}
	}
	c.readGuard.Unlock()

	c.mu.Lock()
	c.reconnectSignal = make(chan struct{})
	done := c.reconnectDone
	c.reconnectDone = nil
	c.mu.Unlock()

	c.reconnecting.Store(false)
	close(done)
}

// awaitReconnect blocks until the in-flight reconnect finishes. It
// reports whether the client was stopped while waiting.
func (c *Client) awaitReconnect(ctx context.Context) bool {
	c.mu.Lock()
	done := c.reconnectDone
	stopCh := c.stopCh
	c.mu.Unlock()

	if done == nil {
		return c.stopRequested(ctx)
	}
	select {
	case <-done:
		return false
	case <-stopCh:
		return true
	case <-ctx.Done():
		return true
	}
}

func (c *Client) stopRequested(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
