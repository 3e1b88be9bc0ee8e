package bot

import (
	"context"
	"log/slog"
	"time"

	"feedbot/internal/telegram"
)

// UpdateSource abstracts the long-poll update feed.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSeconds int) ([]telegram.Update, error)
}

// Poller pulls updates and feeds them to the controller in arrival order.
// Sequential dispatch is what guarantees per-respondent ordering.
type Poller struct {
	source      UpdateSource
	controller  *Controller
	pollTimeout int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// NewPoller creates a Poller. If pollTimeout is <= 0 it defaults to 30s
// of server-side hold.
func NewPoller(source UpdateSource, controller *Controller, pollTimeout int) *Poller {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &Poller{
		source:      source,
		controller:  controller,
		pollTimeout: pollTimeout,
		retryDelay:  3 * time.Second,
		logger:      slog.Default(),
	}
}

// Run polls until ctx is cancelled. Transport errors back off and retry;
// per-update handler errors are logged and the loop keeps serving other
// updates.
func (p *Poller) Run(ctx context.Context) {
	var offset int64
	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := p.source.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("fetching updates failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.retryDelay):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			if err := p.controller.HandleUpdate(ctx, upd); err != nil {
				p.logger.Error("handling update failed", "update", upd.UpdateID, "error", err)
			}
		}
	}
}
