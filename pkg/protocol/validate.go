package protocol

// Structural bounds enforced on both ends of the wire. The client checks
// before sending for a fast local rejection; the server checks again
// because it is the authority and raw peers can bypass the client.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
	MinPasswordLen = 4
	MaxPasswordLen = 8
	MinMessageLen  = 1
	MaxMessageLen  = 256
)

// Denial strings for structural failures. These are identical on the
// client (printed locally) and the server (sent as replies).
const (
	DeniedParsing          = "Denied. Error parsing request."
	DeniedUsernameTooShort = "Denied. Username is too short."
	DeniedUsernameTooLong  = "Denied. Username is too long."
	DeniedPasswordTooShort = "Denied. Password is too short."
	DeniedPasswordTooLong  = "Denied. Password is too long."
	DeniedMessageTooShort  = "Denied. Message is too short."
	DeniedMessageTooLong   = "Denied. Message is too long."
)

// ValidateUsername checks the username length bounds. It returns the
// denial string, or "" when the username is acceptable.
func ValidateUsername(username string) string {
	if len(username) < MinUsernameLen {
		return DeniedUsernameTooShort
	}
	if len(username) > MaxUsernameLen {
		return DeniedUsernameTooLong
	}
	return ""
}

// ValidatePassword checks the password length bounds.
func ValidatePassword(password string) string {
	if len(password) < MinPasswordLen {
		return DeniedPasswordTooShort
	}
	if len(password) > MaxPasswordLen {
		return DeniedPasswordTooLong
	}
	return ""
}

// ValidateMessage checks the chat text against the default length bounds.
func ValidateMessage(text string) string {
	return ValidateMessageLimit(text, MaxMessageLen)
}

// ValidateMessageLimit checks the chat text against a configured upper
// bound. A non-positive limit falls back to MaxMessageLen.
func ValidateMessageLimit(text string, limit int) string {
	if limit <= 0 {
		limit = MaxMessageLen
	}
	if len(text) < MinMessageLen {
		return DeniedMessageTooShort
	}
	if len(text) > limit {
		return DeniedMessageTooLong
	}
	return ""
}
