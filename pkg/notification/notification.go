// Package notification turns domain events into user-facing notifications.
// Handlers subscribe to the event bus and run after the owning transaction
// has committed; delivery is best-effort.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/pledgepool/pkg/domain/common"
	"github.com/amirasaad/pledgepool/pkg/domain/events"
	"github.com/amirasaad/pledgepool/pkg/eventbus"
	"github.com/google/uuid"
)

// Sender delivers a notification to a user. Implementations may send email,
// push, or anything else; errors are logged by the handlers, never retried.
type Sender interface {
	Send(ctx context.Context, userID uuid.UUID, subject, body string) error
}

// LogSender writes notifications to the structured log. The stand-in
// delivery channel until a mail provider is wired.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a Sender backed by the given logger.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger.With("component", "notification")}
}

// Send logs the notification.
func (s *LogSender) Send(_ context.Context, userID uuid.UUID, subject, body string) error {
	s.logger.Info("notification sent", "userID", userID, "subject", subject, "body", body)
	return nil
}

var _ Sender = (*LogSender)(nil)

// RegisterHandlers subscribes the notification handlers for campaign and
// investment lifecycle events.
func RegisterHandlers(bus eventbus.Bus, sender Sender, logger *slog.Logger) {
	h := &handlers{sender: sender, logger: logger}
	bus.Register(events.TypeCampaignClosed, h.onCampaignClosed)
	bus.Register(events.TypeCampaignFinalized, h.onCampaignFinalized)
	bus.Register(events.TypeInvestmentCancelled, h.onInvestmentCancelled)
}

type handlers struct {
	sender Sender
	logger *slog.Logger
}

func (h *handlers) onCampaignClosed(ctx context.Context, event common.Event) error {
	e, ok := event.(events.CampaignClosed)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Type())
	}
	subject := fmt.Sprintf("Campaign %q %s", e.CampaignName, e.Outcome)
	body := fmt.Sprintf("Your campaign %q has been %s.", e.CampaignName, e.Outcome)
	return h.sender.Send(ctx, e.OwnerID, subject, body)
}

func (h *handlers) onCampaignFinalized(ctx context.Context, event common.Event) error {
	e, ok := event.(events.CampaignFinalized)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Type())
	}
	subject := fmt.Sprintf("Campaign %q finalized", e.CampaignName)
	body := fmt.Sprintf(
		"Campaign %q has been finalized into a loan of %s at %.2f%% over %d months.",
		e.CampaignName, e.Amount.String(), e.InterestRate, e.LoanDuration,
	)
	return h.sender.Send(ctx, e.RecipientID, subject, body)
}

func (h *handlers) onInvestmentCancelled(ctx context.Context, event common.Event) error {
	e, ok := event.(events.InvestmentCancelled)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Type())
	}
	subject := "Investment cancelled"
	body := fmt.Sprintf("Your investment of %s has been cancelled and the funds released.", e.Amount.String())
	return h.sender.Send(ctx, e.InvestorID, subject, body)
}
