// Package client implements the thin line-reader chat client: it
// validates input shape locally for a fast rejection, then submits
// commands over the framed wire protocol and prints everything the
// server sends.
package client

import (
	"bufio"
	"fmt"
	"io"
	"net"

	"github.com/plainchat/plainchat/pkg/protocol"
)

// Client is one connection to the chat server.
type Client struct {
	conn net.Conn
	out  io.Writer
}

// Connect dials the server over TCP.
func Connect(addr string, out io.Writer) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	return &Client{conn: conn, out: out}, nil
}

// NewClient wraps an existing connection, mainly for tests.
func NewClient(conn net.Conn, out io.Writer) *Client {
	return &Client{conn: conn, out: out}
}

// Send frames and writes one message to the server.
func (c *Client) Send(msg string) error {
	return protocol.EncodeFrame(c.conn, msg)
}

// Receive reads one framed server message.
func (c *Client) Receive() (string, error) {
	return protocol.DecodeFrame(c.conn)
}

// Listen prints every server message to the output until the connection
// closes. Intended to run in its own goroutine.
func (c *Client) Listen() {
	for {
		msg, err := c.Receive()
		if err != nil {
			return
		}
		fmt.Fprintln(c.out, msg)
	}
}

// Close sends the disconnect sentinel and closes the connection.
func (c *Client) Close() error {
	c.Send(protocol.DisconnectSentinel)
	return c.conn.Close()
}

// ValidateLine performs the client-side structural checks on one input
// line. It returns the denial to print locally, or "" when the line
// should be submitted to the server. The server re-runs the same checks;
// this one only saves a round-trip.
func ValidateLine(line string) string {
	cmd, err := protocol.ParseCommand(line)
	if err != nil {
		if err == protocol.ErrMalformed {
			return protocol.DeniedParsing
		}
		return "Denied. Unrecognized request."
	}

	switch c := cmd.(type) {
	case protocol.NewUserCommand:
		if denial := protocol.ValidateUsername(c.Username); denial != "" {
			return denial
		}
		return protocol.ValidatePassword(c.Password)
	case protocol.SendAllCommand:
		return protocol.ValidateMessage(c.Text)
	case protocol.SendToCommand:
		return protocol.ValidateMessage(c.Text)
	case protocol.DisconnectCommand:
		// Users never type the sentinel themselves
		return "Denied. Unrecognized request."
	default:
		return ""
	}
}

// Run reads lines from the input, validates each locally and submits the
// valid ones, until the input ends. The disconnect sentinel is sent on
// the way out.
func (c *Client) Run(in io.Reader) error {
	defer c.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if denial := ValidateLine(line); denial != "" {
			fmt.Fprintln(c.out, denial)
			continue
		}

		if err := c.Send(line); err != nil {
			return fmt.Errorf("failed to send: %w", err)
		}
	}

	return scanner.Err()
}
