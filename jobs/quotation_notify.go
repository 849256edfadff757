package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/motoquote/motoquote/internal/notify"
	"github.com/motoquote/motoquote/internal/quotations"
	"github.com/motoquote/motoquote/internal/shared"
)

// NotifyJob delivers rendered quotation documents to customers.
type NotifyJob struct {
	repo   quotations.Repository
	sender notify.Sender
	logger *slog.Logger
}

// NewNotifyJob constructs a NotifyJob.
func NewNotifyJob(repo quotations.Repository, sender notify.Sender, logger *slog.Logger) *NotifyJob {
	return &NotifyJob{repo: repo, sender: sender, logger: logger}
}

// Handle processes TaskTypeQuotationNotify tasks. Quotations without a
// document URL are retried; the render task may still be in flight.
func (j *NotifyJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload quotationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	snap, err := j.repo.Get(ctx, payload.QuotationID)
	if errors.Is(err, shared.ErrNotFound) {
		return asynq.SkipRetry
	}
	if err != nil {
		return err
	}
	if snap.DocumentURL == nil {
		return errors.New("quotation document not rendered yet")
	}

	return j.sender.Send(ctx, notify.Message{
		Phone:        snap.Customer.PrimaryPhone,
		CustomerName: snap.Customer.FullName,
		Number:       snap.Number,
		DocumentURL:  *snap.DocumentURL,
	})
}
