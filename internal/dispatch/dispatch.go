package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shakkernerd/solana-send-tx-msg/internal/metrics"
	"github.com/shakkernerd/solana-send-tx-msg/internal/retry"
	"github.com/shakkernerd/solana-send-tx-msg/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// MemoOnlyTarget is the OperationResult target for items without a
// recipient.
const MemoOnlyTarget = "memo-only"

// WorkItem is one unit of bulk work: a message bound for a recipient, or a
// bare memo message. Its identity is its position in the input list.
type WorkItem struct {
	recipient string // empty in memo-only mode
	message   string
}

// NewTransferItem creates a work item that notifies recipient with message.
func NewTransferItem(recipient, message string) WorkItem {
	return WorkItem{recipient: recipient, message: message}
}

// NewMemoItem creates a memo-only work item.
func NewMemoItem(message string) WorkItem {
	return WorkItem{message: message}
}

// Recipient returns the recipient address and whether one is present.
func (w WorkItem) Recipient() (string, bool) {
	return w.recipient, w.recipient != ""
}

// Message returns the memo payload.
func (w WorkItem) Message() string {
	return w.message
}

// Target returns the recipient address, or MemoOnlyTarget.
func (w WorkItem) Target() string {
	if w.recipient == "" {
		return MemoOnlyTarget
	}
	return w.recipient
}

// SendReceipt is what a successful single operation hands back.
type SendReceipt struct {
	Signature     string
	ReferenceLink string
}

// Sender performs one sign-submit-confirm cycle. Each call is independent;
// the dispatcher holds one Sender for the whole batch.
type Sender interface {
	Send(ctx context.Context, item WorkItem) (SendReceipt, error)
}

// Policy controls pacing and fault tolerance for one bulk run. The zero
// value is valid: no inter-operation delay, stop on first failure.
type Policy struct {
	// InterOpDelay is slept between two consecutive items. No delay is
	// applied after the final processed item.
	InterOpDelay time.Duration
	// ContinueOnError keeps processing after a per-item failure instead of
	// stopping the batch.
	ContinueOnError bool
}

func (p Policy) validate() error {
	if p.InterOpDelay < 0 {
		return fmt.Errorf("inter-operation delay must not be negative, got %s", p.InterOpDelay)
	}
	return nil
}

// Dispatcher runs work items strictly sequentially against one Sender.
type Dispatcher struct {
	sender  Sender
	network string
	logger  *slog.Logger
}

func New(sender Sender, network string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:  sender,
		network: network,
		logger:  logger.With("component", "dispatch"),
	}
}

// Run processes items in input order, one at a time, applying the policy's
// pacing and fault tolerance. Per-item failures are recorded in the outcome,
// never returned as errors. Run returns an error only for structural
// problems (nil sender, invalid policy), which fail fast before any send, or
// for context cancellation, in which case the outcome accumulated so far is
// returned alongside ctx's error. A failed item does not roll back earlier
// sends; partial success is expected and surfaced.
func (d *Dispatcher) Run(ctx context.Context, items []WorkItem, policy Policy) (BatchOutcome, error) {
	if d.sender == nil {
		return BatchOutcome{}, fmt.Errorf("dispatch: sender is nil")
	}
	if err := policy.validate(); err != nil {
		return BatchOutcome{}, fmt.Errorf("dispatch: %w", err)
	}

	batchID := uuid.NewString()
	ctx, span := tracing.Tracer("dispatch").Start(ctx, "dispatch.Run")
	span.SetAttributes(
		attribute.String("batch.id", batchID),
		attribute.Int("batch.items", len(items)),
	)
	defer span.End()

	logger := d.logger.With("batch_id", batchID)
	logger.Info("starting bulk dispatch",
		"items", len(items),
		"delay", policy.InterOpDelay,
		"continue_on_error", policy.ContinueOnError,
	)

	start := time.Now()
	results := make([]OperationResult, 0, len(items))

	finish := func(err error) (BatchOutcome, error) {
		outcome := Summarize(results)
		outcome.BatchID = batchID
		outcome.ElapsedMS = time.Since(start).Milliseconds()

		status := outcome.Status()
		if err != nil {
			status = StatusAborted
		}
		metrics.DispatchBatchesTotal.WithLabelValues(d.network, status.String()).Inc()
		metrics.DispatchBatchDuration.WithLabelValues(d.network).Observe(time.Since(start).Seconds())

		logger.Info("bulk dispatch finished",
			"status", status,
			"succeeded", outcome.Succeeded,
			"failed", outcome.Failed,
			"attempted", len(results),
			"elapsed_ms", outcome.ElapsedMS,
		)
		return outcome, err
	}

	for i, item := range items {
		receipt, err := d.sender.Send(ctx, item)
		if err != nil {
			if ctx.Err() != nil {
				// The batch was cancelled mid-operation; nothing definite is
				// known about this item, so it is not recorded.
				return finish(ctx.Err())
			}

			decision := retry.Classify(err)
			metrics.DispatchItemsTotal.WithLabelValues(d.network, "failure").Inc()
			logger.Warn("send failed",
				"index", i,
				"target", item.Target(),
				"class", string(decision.Class),
				"reason", decision.Reason,
				"error", err,
			)
			results = append(results, OperationResult{
				Target:    item.Target(),
				Succeeded: false,
				ErrDetail: err.Error(),
			})
			if !policy.ContinueOnError {
				break
			}
		} else {
			metrics.DispatchItemsTotal.WithLabelValues(d.network, "success").Inc()
			logger.Info("send confirmed",
				"index", i,
				"target", item.Target(),
				"signature", receipt.Signature,
			)
			results = append(results, OperationResult{
				Target:        item.Target(),
				Signature:     receipt.Signature,
				Succeeded:     true,
				ReferenceLink: receipt.ReferenceLink,
			})
		}

		if i < len(items)-1 && policy.InterOpDelay > 0 {
			timer := time.NewTimer(policy.InterOpDelay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return finish(ctx.Err())
			}
		}
	}

	return finish(nil)
}
