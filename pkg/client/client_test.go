package client

import (
	"bytes"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainchat/plainchat/pkg/protocol"
)

func TestValidateLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"valid newuser", "newuser alice 1234", ""},
		{"valid login", "login alice 1234", ""},
		{"valid send all", "send all hello", ""},
		{"valid send direct", "send bob hello", ""},
		{"valid who", "who", ""},
		{"valid logout", "logout", ""},
		{"newuser wrong arity", "newuser alice", "Denied. Error parsing request."},
		{"newuser short username", "newuser ab 1234", "Denied. Username is too short."},
		{"newuser long username", "newuser " + strings.Repeat("a", 33) + " 1234", "Denied. Username is too long."},
		{"newuser short password", "newuser alice 123", "Denied. Password is too short."},
		{"newuser long password", "newuser alice 123456789", "Denied. Password is too long."},
		{"login wrong arity", "login alice", "Denied. Error parsing request."},
		{"send wrong arity", "send all", "Denied. Error parsing request."},
		{"send long message", "send all " + strings.Repeat("a", 257), "Denied. Message is too long."},
		{"who with argument", "who alice", "Denied. Error parsing request."},
		{"logout with argument", "logout now", "Denied. Error parsing request."},
		{"unknown command", "shout hello", "Denied. Unrecognized request."},
		{"empty line", "", "Denied. Unrecognized request."},
		{"sentinel is not typed by users", "!DISCONNECT", "Denied. Unrecognized request."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateLine(tt.line))
		})
	}
}

func TestSendReceive(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer clientSide.Close()
	defer serverSide.Close()

	var out bytes.Buffer
	c := NewClient(clientSide, &out)

	go func() {
		// Echo whatever the "server" reads, prefixed
		msg, err := protocol.DecodeFrame(serverSide)
		if err != nil {
			return
		}
		protocol.EncodeFrame(serverSide, "echo: "+msg)
	}()

	require.NoError(t, c.Send("who"))
	msg, err := c.Receive()
	require.NoError(t, err)
	assert.Equal(t, "echo: who", msg)
}

func TestRunValidatesLocallyAndSubmitsTheRest(t *testing.T) {
	clientSide, serverSide := net.Pipe()
	defer serverSide.Close()

	received := make(chan string, 16)
	go func() {
		for {
			msg, err := protocol.DecodeFrame(serverSide)
			if err != nil {
				close(received)
				return
			}
			received <- msg
		}
	}()

	var out bytes.Buffer
	c := NewClient(clientSide, &out)

	input := strings.Join([]string{
		"newuser ab 1234",   // rejected locally, never hits the wire
		"login alice 1234",  // submitted
		"send all hi there", // submitted
		"shout loudly",      // rejected locally
	}, "\n")

	require.NoError(t, c.Run(strings.NewReader(input)))

	var wire []string
	for msg := range received {
		wire = append(wire, msg)
	}

	// Only the valid lines plus the shutdown sentinel reached the wire
	assert.Equal(t, []string{
		"login alice 1234",
		"send all hi there",
		protocol.DisconnectSentinel,
	}, wire)

	// The rejected lines were answered locally
	output := out.String()
	assert.Contains(t, output, "Denied. Username is too short.")
	assert.Contains(t, output, "Denied. Unrecognized request.")
}
