package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/motoquote/motoquote/internal/observability"
	"github.com/motoquote/motoquote/internal/quotations"
	"github.com/motoquote/motoquote/internal/shared"
)

const (
	// TaskTypeQuotationRender renders a quotation snapshot to PDF and
	// writes the document URL back onto the quotation.
	TaskTypeQuotationRender = "quotation:render"
	// TaskTypeQuotationNotify sends the rendered document to the customer.
	TaskTypeQuotationNotify = "quotation:notify"
)

type quotationPayload struct {
	QuotationID int64 `json:"quotation_id"`
}

// NewQuotationRenderTask constructs a render task.
func NewQuotationRenderTask(quotationID int64) (*asynq.Task, error) {
	data, err := json.Marshal(quotationPayload{QuotationID: quotationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeQuotationRender, data), nil
}

// NewQuotationNotifyTask constructs a notify task.
func NewQuotationNotifyTask(quotationID int64) (*asynq.Task, error) {
	data, err := json.Marshal(quotationPayload{QuotationID: quotationID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeQuotationNotify, data), nil
}

// DocumentRenderer produces a public document URL for a snapshot.
// render.Renderer satisfies it.
type DocumentRenderer interface {
	Render(ctx context.Context, s quotations.Snapshot) (string, error)
}

// NotifyEnqueuer schedules the follow-up customer notification.
type NotifyEnqueuer interface {
	EnqueueNotify(ctx context.Context, quotationID int64) error
}

// RenderJob renders quotation documents. A failed render leaves the
// quotation untouched in draft state; Asynq retries the task.
type RenderJob struct {
	repo     quotations.Repository
	renderer DocumentRenderer
	notify   NotifyEnqueuer
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewRenderJob constructs a RenderJob. notify and metrics may be nil.
func NewRenderJob(repo quotations.Repository, renderer DocumentRenderer, notify NotifyEnqueuer, metrics *observability.Metrics, logger *slog.Logger) *RenderJob {
	return &RenderJob{repo: repo, renderer: renderer, notify: notify, metrics: metrics, logger: logger}
}

// Handle processes TaskTypeQuotationRender tasks.
func (j *RenderJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload quotationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	snap, err := j.repo.Get(ctx, payload.QuotationID)
	if errors.Is(err, shared.ErrNotFound) {
		j.logger.Warn("render task for missing quotation", slog.Int64("quotation_id", payload.QuotationID))
		return asynq.SkipRetry
	}
	if err != nil {
		return err
	}
	if snap.DocumentURL != nil {
		return nil
	}

	url, err := j.renderer.Render(ctx, snap)
	if err != nil {
		if j.metrics != nil {
			j.metrics.RenderAttempt("failure")
		}
		j.logger.Error("quotation render failed",
			slog.Int64("quotation_id", snap.ID),
			slog.String("number", snap.Number),
			slog.Any("error", err))
		return fmt.Errorf("render quotation %d: %w", snap.ID, err)
	}

	if err := j.repo.UpdateDocumentURL(ctx, snap.ID, url); err != nil {
		return fmt.Errorf("store document url for quotation %d: %w", snap.ID, err)
	}
	if j.metrics != nil {
		j.metrics.RenderAttempt("success")
	}
	j.logger.Info("quotation document rendered",
		slog.Int64("quotation_id", snap.ID),
		slog.String("document_url", url))

	if j.notify != nil {
		if err := j.notify.EnqueueNotify(ctx, snap.ID); err != nil {
			j.logger.Warn("notify enqueue failed",
				slog.Int64("quotation_id", snap.ID),
				slog.Any("error", err))
		}
	}
	return nil
}
