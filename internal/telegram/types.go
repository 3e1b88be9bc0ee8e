package telegram

import (
	"strings"
	"time"
)

// Update is one inbound event from the Bot API. Only message updates are
// requested; other kinds arrive with Message == nil and are skipped.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message mirrors the Bot API message object, limited to the fields this
// bot reads.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Date      int64  `json:"date"` // unix seconds, assigned by Telegram at receipt
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Time returns the transport receipt time of the message.
func (m *Message) Time() time.Time {
	return time.Unix(m.Date, 0).UTC()
}

// IsCommand reports whether the message text is a bot command.
func (m *Message) IsCommand() bool {
	return strings.HasPrefix(m.Text, "/")
}

// Command returns the command name without the leading slash or a
// trailing @botname mention, lowercased. Empty for non-command messages.
func (m *Message) Command() string {
	if !m.IsCommand() {
		return ""
	}
	cmd := m.Text[1:]
	if i := strings.IndexAny(cmd, " \t\n"); i >= 0 {
		cmd = cmd[:i]
	}
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}
