package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr error
	}{
		{
			name: "newuser",
			line: "newuser alice 1234",
			want: NewUserCommand{Username: "alice", Password: "1234"},
		},
		{
			name:    "newuser missing password",
			line:    "newuser alice",
			wantErr: ErrMalformed,
		},
		{
			name:    "newuser extra tokens",
			line:    "newuser alice 1234 extra",
			wantErr: ErrMalformed,
		},
		{
			name: "login",
			line: "login alice 1234",
			want: LoginCommand{Username: "alice", Password: "1234"},
		},
		{
			name:    "login missing args",
			line:    "login",
			wantErr: ErrMalformed,
		},
		{
			name: "send all",
			line: "send all hello there",
			want: SendAllCommand{Text: "hello there"},
		},
		{
			name: "send direct",
			line: "send bob are you around",
			want: SendToCommand{Target: "bob", Text: "are you around"},
		},
		{
			name: "send text keeps interior spaces",
			line: "send all a  b   c",
			want: SendAllCommand{Text: "a  b   c"},
		},
		{
			name:    "send without text",
			line:    "send bob",
			wantErr: ErrMalformed,
		},
		{
			name: "who",
			line: "who",
			want: WhoCommand{},
		},
		{
			name:    "who with argument",
			line:    "who alice",
			wantErr: ErrMalformed,
		},
		{
			name: "logout",
			line: "logout",
			want: LogoutCommand{},
		},
		{
			name:    "logout with argument",
			line:    "logout now",
			wantErr: ErrMalformed,
		},
		{
			name: "disconnect sentinel",
			line: "!DISCONNECT",
			want: DisconnectCommand{},
		},
		{
			name:    "unknown keyword",
			line:    "shout hello",
			wantErr: ErrUnrecognized,
		},
		{
			name:    "keywords are case-sensitive",
			line:    "LOGIN alice 1234",
			wantErr: ErrUnrecognized,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: ErrUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := ParseCommand(tt.line)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestValidateBounds(t *testing.T) {
	assert.Equal(t, DeniedUsernameTooShort, ValidateUsername("ab"))
	assert.Equal(t, "", ValidateUsername("abc"))
	assert.Equal(t, "", ValidateUsername(makeString(32)))
	assert.Equal(t, DeniedUsernameTooLong, ValidateUsername(makeString(33)))

	assert.Equal(t, DeniedPasswordTooShort, ValidatePassword("123"))
	assert.Equal(t, "", ValidatePassword("1234"))
	assert.Equal(t, "", ValidatePassword(makeString(8)))
	assert.Equal(t, DeniedPasswordTooLong, ValidatePassword(makeString(9)))

	assert.Equal(t, DeniedMessageTooShort, ValidateMessage(""))
	assert.Equal(t, "", ValidateMessage("x"))
	assert.Equal(t, "", ValidateMessage(makeString(256)))
	assert.Equal(t, DeniedMessageTooLong, ValidateMessage(makeString(257)))
}

func TestValidateMessageLimit(t *testing.T) {
	assert.Equal(t, "", ValidateMessageLimit(makeString(10), 10))
	assert.Equal(t, DeniedMessageTooLong, ValidateMessageLimit(makeString(11), 10))
	assert.Equal(t, DeniedMessageTooShort, ValidateMessageLimit("", 10))

	// Non-positive limits fall back to the protocol default
	assert.Equal(t, "", ValidateMessageLimit(makeString(256), 0))
	assert.Equal(t, DeniedMessageTooLong, ValidateMessageLimit(makeString(257), 0))
	assert.Equal(t, "", ValidateMessageLimit(makeString(256), -1))
}

func makeString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'a'
	}
	return string(b)
}
