package transport

import (
	"bufio"
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Transport errors.
var (
	// ErrClosed is returned by operations on a closed transport.
	ErrClosed = errors.New("transport closed")
)

// Conn is a LIP transport connection. It owns the raw socket and is
// replaced wholesale on reconnect, never mutated in place. Read
// operations must not be issued concurrently with each other; the
// client serializes them through its read/reconnect guard.
type Conn struct {
	conn   net.Conn
	reader *bufio.Reader

	mu     sync.Mutex
	closed bool
}

// Dial opens a transport connection to the given address, bounded by
// the connect timeout.
func Dial(address string, timeout time.Duration) (*Conn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.Dial("tcp", address)
	if err != nil {
		return nil, err
	}
	return NewConn(conn), nil
}

// NewConn wraps an established network connection. Used by Dial and by
// tests that supply their own pipe.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// ReadLine reads one CRLF-terminated line, bounded by the timeout. The
// terminator is stripped. Returns io.EOF when the peer has closed the
// connection and no data remains.
func (c *Conn) ReadLine(timeout time.Duration) (string, error) {
	if err := c.setReadDeadline(timeout); err != nil {
		return "", err
	}

	line, err := c.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line == "" {
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadUntil reads up to and including the first occurrence of the
// delimiter, bounded by the timeout. The returned text includes the
// delimiter. Used for the prompt-driven login handshake, where prompts
// are not line-terminated.
func (c *Conn) ReadUntil(delim byte, timeout time.Duration) (string, error) {
	if err := c.setReadDeadline(timeout); err != nil {
		return "", err
	}

	text, err := c.reader.ReadString(delim)
	if err != nil {
		return "", err
	}
	return text, nil
}

// WriteCommand writes one command line, appending the protocol's CRLF
// terminator, bounded by the timeout.
func (c *Conn) WriteCommand(text string, timeout time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	if timeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	_, err := c.conn.Write([]byte(text + "\r\n"))
	return err
}

// Close releases the socket. It is idempotent and safe to call from
// any goroutine; a blocked read unblocks with an error.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// RemoteAddr returns the remote network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *Conn) setReadDeadline(timeout time.Duration) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	if timeout <= 0 {
		return c.conn.SetReadDeadline(time.Time{})
	}
	return c.conn.SetReadDeadline(time.Now().Add(timeout))
}

// IsTimeout reports whether the error is a deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTransient reports whether the error belongs to the transient class
// the read loop treats as "no message this tick": deadline expiries,
// resets, broken pipes and teardown races against Close.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	return IsTimeout(err) ||
		errors.Is(err, ErrClosed) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
