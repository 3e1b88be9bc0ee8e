package bot

import (
	"context"
	"fmt"
	"strconv"

	"feedbot/internal/telegram"
)

// AdminNotifier sends completed questionnaires to the one configured
// administrator chat. It is an injected capability, not a back-reference
// into the application.
type AdminNotifier struct {
	sender Sender
	chatID int64
}

// NewAdminNotifier parses the administrator chat id (decimal string, as
// configured) and returns a notifier targeting it.
func NewAdminNotifier(sender Sender, adminChatID string) (*AdminNotifier, error) {
	chatID, err := strconv.ParseInt(adminChatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid administrator chat id %q: %w", adminChatID, err)
	}
	return &AdminNotifier{sender: sender, chatID: chatID}, nil
}

// Notify sends the numbered Q/A summary, chunked if it exceeds the
// transport limit. No retry on failure.
func (n *AdminNotifier) Notify(ctx context.Context, pairs []QA) error {
	for _, chunk := range telegram.SplitMessage(FormatNotification(pairs)) {
		if err := n.sender.SendMessage(ctx, n.chatID, chunk); err != nil {
			return err
		}
	}
	return nil
}
