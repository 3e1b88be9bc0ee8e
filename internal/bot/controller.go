// Package bot drives the questionnaire conversation: a fixed question
// sequence per respondent, anonymized persistence on completion, and an
// administrator-only retrieval command.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"feedbot/internal/identity"
	"feedbot/internal/storage"
	"feedbot/internal/telegram"
)

const (
	welcomeText = "Welcome to the Anonymous Feedback Bot! 🤖\n\n" +
		"This bot allows you to provide completely anonymous feedback. " +
		"Your identity will not be stored or shared.\n\n" +
		"We'll ask you a series of questions. You can answer at your own pace.\n\n" +
		"Type /cancel at any time to stop providing feedback.\n\n" +
		"Let's start with the first question:"

	thankYouText = "Thank you for your feedback! 🙏\n\n" +
		"Your responses have been recorded anonymously. " +
		"Your honest input helps us improve."

	cancelledText    = "Feedback session cancelled. Your responses were not saved."
	unauthorizedText = "Unauthorized access."
	noFeedbackText   = "No feedback available yet."
)

// Sender delivers plain-text messages to a chat.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// FeedbackStore persists completed questionnaires.
type FeedbackStore interface {
	SaveFeedback(f storage.Feedback) (string, error)
	ListFeedback(limit int) ([]storage.Feedback, error)
}

// QA pairs a question with the answer collected for it.
type QA struct {
	Question string
	Answer   string
}

// Notifier forwards a completed questionnaire to the administrator.
// Implementations are best-effort; the controller logs and swallows their
// errors so respondents are never affected.
type Notifier interface {
	Notify(ctx context.Context, pairs []QA) error
}

// Controller is the conversation state machine. One instance serves all
// respondents; per-respondent state lives in the session registry.
type Controller struct {
	questions   []string
	sender      Sender
	store       FeedbackStore
	notifier    Notifier
	salt        string
	adminChatID string
	sessions    *Registry
	logger      *slog.Logger
}

// NewController wires the conversation flow. questions must be non-empty.
func NewController(questions []string, sender Sender, store FeedbackStore, notifier Notifier, salt, adminChatID string) (*Controller, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("question set must not be empty")
	}
	return &Controller{
		questions:   questions,
		sender:      sender,
		store:       store,
		notifier:    notifier,
		salt:        salt,
		adminChatID: adminChatID,
		sessions:    NewRegistry(),
		logger:      slog.Default(),
	}, nil
}

// HandleUpdate routes one inbound update. Non-message updates and messages
// the state machine has no transition for are ignored.
func (c *Controller) HandleUpdate(ctx context.Context, upd telegram.Update) error {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return nil
	}

	switch msg.Command() {
	case "start":
		return c.handleStart(ctx, msg)
	case "cancel":
		return c.handleCancel(ctx, msg)
	case "retrieve":
		return c.handleRetrieve(ctx, msg)
	case "":
		return c.handleAnswer(ctx, msg)
	default:
		// Unknown commands have no transition from any state.
		return nil
	}
}

func (c *Controller) handleStart(ctx context.Context, msg *telegram.Message) error {
	if _, active := c.sessions.Get(msg.Chat.ID); active {
		// Entry is only valid from idle; mid-questionnaire /start is
		// ignored, matching the conversation-handler semantics.
		return nil
	}

	c.logger.Info("questionnaire started", "chat", msg.Chat.ID)
	c.sessions.Begin(msg.Chat.ID)

	if err := c.sender.SendMessage(ctx, msg.Chat.ID, welcomeText); err != nil {
		return err
	}
	return c.sender.SendMessage(ctx, msg.Chat.ID, c.questions[0])
}

func (c *Controller) handleAnswer(ctx context.Context, msg *telegram.Message) error {
	sess, active := c.sessions.Get(msg.Chat.ID)
	if !active {
		// Plain text while idle is not part of any conversation.
		return nil
	}

	sess.Answers = append(sess.Answers, msg.Text)

	if sess.Index+1 < len(c.questions) {
		sess.Index++
		return c.sender.SendMessage(ctx, msg.Chat.ID, c.questions[sess.Index])
	}
	return c.complete(ctx, msg, sess)
}

// complete runs the terminal transition: anonymize, persist, notify,
// thank, clear. Persistence and notification are fire-and-forget — their
// failures are logged and the respondent still gets the thank-you.
func (c *Controller) complete(ctx context.Context, msg *telegram.Message, sess *Session) error {
	token := identity.Anonymize(strconv.FormatInt(msg.From.ID, 10), c.salt)

	id, err := c.store.SaveFeedback(storage.Feedback{
		AnonymousID: token,
		Answers:     sess.Answers,
		SubmittedAt: msg.Time(),
	})
	if err != nil {
		c.logger.Error("saving feedback failed", "error", err)
	} else {
		c.logger.Info("feedback saved", "id", id)
	}

	pairs := make([]QA, len(sess.Answers))
	for i, a := range sess.Answers {
		pairs[i] = QA{Question: c.questions[i], Answer: a}
	}
	if err := c.notifier.Notify(ctx, pairs); err != nil {
		c.logger.Error("notifying administrator failed", "error", err)
	}

	c.sessions.End(msg.Chat.ID)
	return c.sender.SendMessage(ctx, msg.Chat.ID, thankYouText)
}

func (c *Controller) handleCancel(ctx context.Context, msg *telegram.Message) error {
	if _, active := c.sessions.Get(msg.Chat.ID); !active {
		return nil
	}

	c.logger.Info("questionnaire cancelled", "chat", msg.Chat.ID)
	c.sessions.End(msg.Chat.ID)
	return c.sender.SendMessage(ctx, msg.Chat.ID, cancelledText)
}

// handleRetrieve dumps all stored feedback to the requester. It bypasses
// the session machine entirely and is valid from any state.
func (c *Controller) handleRetrieve(ctx context.Context, msg *telegram.Message) error {
	requester := strconv.FormatInt(msg.From.ID, 10)
	if requester != c.adminChatID {
		return c.sender.SendMessage(ctx, msg.Chat.ID, unauthorizedText)
	}

	records, err := c.store.ListFeedback(0)
	if err != nil {
		// Best-effort read path: surfaced as "no data", not as an error.
		c.logger.Error("listing feedback failed", "error", err)
		records = nil
	}
	if len(records) == 0 {
		return c.sender.SendMessage(ctx, msg.Chat.ID, noFeedbackText)
	}

	report := FormatReport(records)
	for _, chunk := range telegram.SplitMessage(report) {
		if err := c.sender.SendMessage(ctx, msg.Chat.ID, chunk); err != nil {
			return err
		}
	}
	return nil
}
