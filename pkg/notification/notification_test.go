package notification_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/pledgepool/infra/eventbus"
	"github.com/amirasaad/pledgepool/pkg/currency"
	"github.com/amirasaad/pledgepool/pkg/domain/events"
	"github.com/amirasaad/pledgepool/pkg/domain/money"
	"github.com/amirasaad/pledgepool/pkg/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []sentNotification
}

type sentNotification struct {
	userID  uuid.UUID
	subject string
}

func (s *recordingSender) Send(_ context.Context, userID uuid.UUID, subject, _ string) error {
	s.sent = append(s.sent, sentNotification{userID: userID, subject: subject})
	return nil
}

func newWired(t *testing.T) (*infraeventbus.MemoryEventBus, *recordingSender) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := infraeventbus.NewWithMemory(logger)
	sender := &recordingSender{}
	notification.RegisterHandlers(bus, sender, logger)
	return bus, sender
}

func TestCampaignClosedNotifiesOwner(t *testing.T) {
	t.Parallel()
	bus, sender := newWired(t)
	ownerID := uuid.New()
	amount, err := money.New(100, currency.EUR)
	require.NoError(t, err)

	require.NoError(t, bus.Emit(context.Background(), events.CampaignClosed{
		CampaignID:   uuid.New(),
		OwnerID:      ownerID,
		CampaignName: "bakery",
		Outcome:      "closed",
		Amount:       amount,
		OccurredAt:   time.Now(),
	}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, ownerID, sender.sent[0].userID)
	assert.Contains(t, sender.sent[0].subject, "bakery")
}

func TestCampaignFinalizedNotifiesRecipient(t *testing.T) {
	t.Parallel()
	bus, sender := newWired(t)
	recipientID := uuid.New()
	amount, err := money.New(100, currency.EUR)
	require.NoError(t, err)

	require.NoError(t, bus.Emit(context.Background(), events.CampaignFinalized{
		CampaignID:   uuid.New(),
		LoanID:       uuid.New(),
		RecipientID:  recipientID,
		CampaignName: "bakery",
		Amount:       amount,
		InterestRate: 5,
		LoanDuration: 24,
		OccurredAt:   time.Now(),
	}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, recipientID, sender.sent[0].userID)
}

func TestInvestmentCancelledNotifiesInvestor(t *testing.T) {
	t.Parallel()
	bus, sender := newWired(t)
	investorID := uuid.New()
	amount, err := money.New(100, currency.EUR)
	require.NoError(t, err)

	require.NoError(t, bus.Emit(context.Background(), events.InvestmentCancelled{
		InvestmentID: uuid.New(),
		CampaignID:   uuid.New(),
		InvestorID:   investorID,
		Amount:       amount,
		OccurredAt:   time.Now(),
	}))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, investorID, sender.sent[0].userID)
}
