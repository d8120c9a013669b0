package server

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/plainchat/plainchat/pkg/directory"
	"github.com/plainchat/plainchat/pkg/protocol"
)

// Reply strings of the wire protocol. The "Denied." forms are policy
// denials; none of them closes the connection.
const (
	replyAccountCreated   = "New user account created. Please login."
	replyLoginConfirmed   = "login confirmed"
	replyLoggedOut        = "logged out"
	replyDisconnected     = "Disconnected from server."
	replyParseError       = "Error parsing command."
	deniedAccountExists   = "Denied. User account already exists."
	deniedLogoutToCreate  = "Please logout to create a new user."
	deniedAlreadySignedIn = "Denied. Already signed in."
	deniedSwitchUser      = "Denied. Please sign out to switch to a different user."
	deniedBadCredentials  = "Denied. User name or password incorrect."
	deniedLoginFirst      = "Denied. Please login first."
	deniedLoggedOut       = "Denied. Already logged out."
	deniedUnrecognized    = "Denied. Unrecognized request."
)

// dispatch parses one line and runs the matching handler. The return
// value reports whether the session asked to disconnect.
func (s *Server) dispatch(sess *Session, line string) bool {
	cmd, err := protocol.ParseCommand(line)
	if err != nil {
		switch {
		case errors.Is(err, protocol.ErrUnrecognized):
			s.deny(sess, deniedUnrecognized)
		default:
			// Malformed known command: generic parse-error reply, the
			// connection stays open
			s.deny(sess, replyParseError)
		}
		return false
	}

	if s.metrics != nil {
		s.metrics.RecordCommandReceived(protocol.Name(cmd))
	}

	switch c := cmd.(type) {
	case protocol.NewUserCommand:
		s.handleNewUser(sess, c)
	case protocol.LoginCommand:
		s.handleLogin(sess, c)
	case protocol.SendAllCommand:
		s.handleSendAll(sess, c)
	case protocol.SendToCommand:
		s.handleSendTo(sess, c)
	case protocol.WhoCommand:
		s.handleWho(sess)
	case protocol.LogoutCommand:
		s.handleLogout(sess)
	case protocol.DisconnectCommand:
		s.handleDisconnect(sess)
		return true
	}
	return false
}

// handleNewUser creates an account for an anonymous session
func (s *Server) handleNewUser(sess *Session, cmd protocol.NewUserCommand) {
	if sess.Authenticated() {
		s.deny(sess, deniedLogoutToCreate)
		return
	}

	// Structural checks are authoritative here even though the client
	// performs them too; raw peers can bypass the client
	if denial := protocol.ValidateUsername(cmd.Username); denial != "" {
		s.deny(sess, denial)
		return
	}
	if denial := protocol.ValidatePassword(cmd.Password); denial != "" {
		s.deny(sess, denial)
		return
	}

	if err := s.directory.Create(cmd.Username, cmd.Password); err != nil {
		s.deny(sess, deniedAccountExists)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordAccountCreated()
	}

	s.reply(sess, replyAccountCreated)
	log.Printf("New user account created.")
}

// handleLogin authenticates an anonymous session
func (s *Server) handleLogin(sess *Session, cmd protocol.LoginCommand) {
	if current := sess.Username(); current != "" {
		if current == cmd.Username {
			s.deny(sess, deniedAlreadySignedIn)
		} else {
			s.deny(sess, deniedSwitchUser)
		}
		return
	}

	switch s.directory.Verify(cmd.Username, cmd.Password) {
	case directory.MatchOK:
		// fall through below
	case directory.MatchWrongPassword:
		debugLog.Printf("Session %d: login failed for %q: wrong password", sess.ID, cmd.Username)
		s.deny(sess, deniedBadCredentials)
		return
	default:
		debugLog.Printf("Session %d: login failed for %q: no such user", sess.ID, cmd.Username)
		s.deny(sess, deniedBadCredentials)
		return
	}

	s.sessions.SetUser(sess.ID, cmd.Username)
	s.router.BroadcastExcept(sess.ID, fmt.Sprintf("%s joined.", cmd.Username))
	s.reply(sess, replyLoginConfirmed)
	log.Printf("%s login.", cmd.Username)

	if s.metrics != nil {
		s.metrics.RecordLogin()
	}
}

// handleSendAll broadcasts chat text to every other authenticated session
func (s *Server) handleSendAll(sess *Session, cmd protocol.SendAllCommand) {
	user := sess.Username()
	if user == "" {
		s.deny(sess, deniedLoginFirst)
		return
	}

	if denial := protocol.ValidateMessageLimit(cmd.Text, s.config.MaxMessageLength); denial != "" {
		s.deny(sess, denial)
		return
	}

	output := fmt.Sprintf("%s: %s", user, cmd.Text)
	s.router.BroadcastExcept(sess.ID, output)
	log.Printf("%s", output)
}

// handleSendTo delivers chat text to every session of one username
func (s *Server) handleSendTo(sess *Session, cmd protocol.SendToCommand) {
	user := sess.Username()
	if user == "" {
		s.deny(sess, deniedLoginFirst)
		return
	}

	if denial := protocol.ValidateMessageLimit(cmd.Text, s.config.MaxMessageLength); denial != "" {
		s.deny(sess, denial)
		return
	}

	output := fmt.Sprintf("%s: %s", user, cmd.Text)
	count := s.router.DirectTo(cmd.Target, output)
	if count == 0 {
		s.deny(sess, fmt.Sprintf("Denied. User %s is not in the chat room.", cmd.Target))
		return
	}

	// The target may hold several sessions; the event is logged once
	log.Printf("%s (to %s): %s", user, cmd.Target, cmd.Text)
}

// handleWho replies with the roster of authenticated usernames
func (s *Server) handleWho(sess *Session) {
	if !sess.Authenticated() {
		s.deny(sess, deniedLoginFirst)
		return
	}

	s.reply(sess, strings.Join(s.router.Roster(), ", "))
}

// handleLogout returns an authenticated session to anonymous
func (s *Server) handleLogout(sess *Session) {
	user := sess.Username()
	if user == "" {
		s.deny(sess, deniedLoggedOut)
		return
	}

	s.sessions.SetUser(sess.ID, "")
	s.router.BroadcastExcept(sess.ID, fmt.Sprintf("%s left.", user))
	s.reply(sess, replyLoggedOut)
	log.Printf("%s logout.", user)

	if s.metrics != nil {
		s.metrics.RecordLogout()
	}
}

// handleDisconnect handles the client shutdown sentinel. The caller tears
// down the session afterwards.
func (s *Server) handleDisconnect(sess *Session) {
	if user := sess.Username(); user != "" {
		s.sessions.SetUser(sess.ID, "")
		s.router.BroadcastExcept(sess.ID, fmt.Sprintf("%s left.", user))
		log.Printf("%s logout.", user)

		if s.metrics != nil {
			s.metrics.RecordLogout()
		}
	}

	s.reply(sess, replyDisconnected)
}

// reply sends one framed message back to the session
func (s *Server) reply(sess *Session, msg string) {
	debugLog.Printf("Session %d → SEND: %q", sess.ID, msg)
	if err := sess.Conn.WriteFrame(msg); err != nil {
		debugLog.Printf("Session %d: reply write failed: %v", sess.ID, err)
	}
}

// deny sends a policy denial. Identical to reply on the wire; kept
// separate for the metrics distinction.
func (s *Server) deny(sess *Session, msg string) {
	if s.metrics != nil {
		s.metrics.RecordDenial()
	}
	s.reply(sess, msg)
}
