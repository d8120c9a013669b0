package protocol

import (
	"errors"
	"strings"
)

// DisconnectSentinel is sent by the client on shutdown; users never type it.
const DisconnectSentinel = "!DISCONNECT"

var (
	// ErrMalformed indicates a known command with the wrong argument shape
	ErrMalformed = errors.New("malformed command")

	// ErrUnrecognized indicates an unknown command keyword
	ErrUnrecognized = errors.New("unrecognized request")
)

// Command is one parsed client request. Implementations are plain data;
// dispatch happens on the concrete type.
type Command interface {
	commandName() string
}

// NewUserCommand creates an account
type NewUserCommand struct {
	Username string
	Password string
}

// LoginCommand authenticates the session
type LoginCommand struct {
	Username string
	Password string
}

// SendAllCommand broadcasts text to every other authenticated session
type SendAllCommand struct {
	Text string
}

// SendToCommand delivers text to every session of one username
type SendToCommand struct {
	Target string
	Text   string
}

// WhoCommand requests the roster
type WhoCommand struct{}

// LogoutCommand clears the session's authenticated identity
type LogoutCommand struct{}

// DisconnectCommand is the client shutdown sentinel
type DisconnectCommand struct{}

func (NewUserCommand) commandName() string    { return "newuser" }
func (LoginCommand) commandName() string      { return "login" }
func (SendAllCommand) commandName() string    { return "send" }
func (SendToCommand) commandName() string     { return "send" }
func (WhoCommand) commandName() string        { return "who" }
func (LogoutCommand) commandName() string     { return "logout" }
func (DisconnectCommand) commandName() string { return "disconnect" }

// Name returns the command keyword for logging and metrics labels.
func Name(cmd Command) string { return cmd.commandName() }

// ParseCommand parses one line of text into a Command. Keywords are
// case-sensitive. The returned error is ErrMalformed for a known keyword
// with the wrong shape and ErrUnrecognized for anything else.
func ParseCommand(line string) (Command, error) {
	if line == DisconnectSentinel {
		return DisconnectCommand{}, nil
	}

	tokens := strings.Split(line, " ")

	switch tokens[0] {
	case "newuser":
		if len(tokens) != 3 {
			return nil, ErrMalformed
		}
		return NewUserCommand{Username: tokens[1], Password: tokens[2]}, nil

	case "login":
		if len(tokens) != 3 {
			return nil, ErrMalformed
		}
		return LoginCommand{Username: tokens[1], Password: tokens[2]}, nil

	case "send":
		// Text is everything after the second space and may itself
		// contain spaces
		if len(tokens) < 3 {
			return nil, ErrMalformed
		}
		rest := line[len("send "):]
		target, text, _ := strings.Cut(rest, " ")
		if target == "all" {
			return SendAllCommand{Text: text}, nil
		}
		return SendToCommand{Target: target, Text: text}, nil

	case "who":
		if len(tokens) != 1 {
			return nil, ErrMalformed
		}
		return WhoCommand{}, nil

	case "logout":
		if len(tokens) != 1 {
			return nil, ErrMalformed
		}
		return LogoutCommand{}, nil

	default:
		return nil, ErrUnrecognized
	}
}
