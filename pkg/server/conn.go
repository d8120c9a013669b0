package server

import (
	"net"
	"sync"

	"github.com/plainchat/plainchat/pkg/protocol"
)

// SafeConn wraps a net.Conn with write synchronization so router fan-out
// and direct replies from different goroutines never interleave bytes on
// one connection.
type SafeConn struct {
	conn    net.Conn
	writeMu sync.Mutex
	closeMu sync.Mutex
	closed  bool
}

// NewSafeConn wraps a connection.
func NewSafeConn(conn net.Conn) *SafeConn {
	return &SafeConn{conn: conn}
}

// WriteFrame encodes one framed message to the connection. Safe for
// concurrent use.
func (c *SafeConn) WriteFrame(msg string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.closeMu.Lock()
	closed := c.closed
	c.closeMu.Unlock()
	if closed {
		return net.ErrClosed
	}

	return protocol.EncodeFrame(c.conn, msg)
}

// ReadFrame decodes one framed message from the connection. Only the
// owning connection goroutine reads.
func (c *SafeConn) ReadFrame() (string, error) {
	return protocol.DecodeFrame(c.conn)
}

// Close closes the underlying connection. Idempotent.
func (c *SafeConn) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// RemoteAddr returns the peer address for logging.
func (c *SafeConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
