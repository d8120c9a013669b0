package server

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/plainchat/plainchat/pkg/protocol"
)

// WebSocketConn adapts a WebSocket connection to implement net.Conn so
// the framed chat protocol runs over it unchanged.
type WebSocketConn struct {
	ws      *websocket.Conn
	readBuf bytes.Buffer
	readMu  sync.Mutex
	writeMu sync.Mutex
	closed  bool
	closeMu sync.Mutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  protocol.HeaderSize + protocol.MaxPayloadSize,
	WriteBufferSize: protocol.HeaderSize + protocol.MaxPayloadSize,
	CheckOrigin: func(r *http.Request) bool {
		// Terminal clients connect from anywhere
		return true
	},
}

// HandleWebSocket upgrades an HTTP connection and runs it as a session,
// exactly like the TCP accept path.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		errorLog.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := NewWebSocketConn(ws)
	sess := s.sessions.Register(conn)
	debugLog.Printf("WebSocket connection from %s (session %d)", conn.RemoteAddr(), sess.ID)

	go s.messageLoop(sess)
}

// NewWebSocketConn creates a new WebSocket connection adapter
func NewWebSocketConn(ws *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{ws: ws}
}

// Read implements net.Conn.Read
func (c *WebSocketConn) Read(b []byte) (int, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	// Drain buffered data before pulling the next message
	if c.readBuf.Len() > 0 {
		return c.readBuf.Read(b)
	}

	messageType, data, err := c.ws.ReadMessage()
	if err != nil {
		return 0, err
	}

	// Only binary messages carry protocol frames
	if messageType != websocket.BinaryMessage {
		return 0, io.ErrUnexpectedEOF
	}

	c.readBuf.Write(data)
	return c.readBuf.Read(b)
}

// Write implements net.Conn.Write
func (c *WebSocketConn) Write(b []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return 0, net.ErrClosed
	}
	c.closeMu.Unlock()

	if err := c.ws.WriteMessage(websocket.BinaryMessage, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close implements net.Conn.Close
func (c *WebSocketConn) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}

// LocalAddr implements net.Conn.LocalAddr
func (c *WebSocketConn) LocalAddr() net.Addr {
	return c.ws.LocalAddr()
}

// RemoteAddr implements net.Conn.RemoteAddr
func (c *WebSocketConn) RemoteAddr() net.Addr {
	return c.ws.RemoteAddr()
}

// SetDeadline implements net.Conn.SetDeadline
func (c *WebSocketConn) SetDeadline(t time.Time) error {
	if err := c.ws.SetReadDeadline(t); err != nil {
		return err
	}
	return c.ws.SetWriteDeadline(t)
}

// SetReadDeadline implements net.Conn.SetReadDeadline
func (c *WebSocketConn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

// SetWriteDeadline implements net.Conn.SetWriteDeadline
func (c *WebSocketConn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}
