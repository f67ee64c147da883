// Package worker runs background jobs of the service.
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/go-review-links/internal/metrics"
	"github.com/atinyakov/go-review-links/internal/models"
)

const (
	DefaultFlushInterval = 10 * time.Second
	DefaultBatchSize     = 25
	queueSize            = 256
	sendTimeout          = 3 * time.Second
)

type Sender interface {
	Send(context.Context, models.FeedbackNotification) error
}

// NotifyWorker buffers feedback notifications and hands them to a Sender in
// batches. Delivery is best effort.
type NotifyWorker struct {
	in        chan models.FeedbackNotification
	done      chan struct{}
	logger    *zap.Logger
	sender    Sender
	interval  time.Duration
	batchSize int
}

// NewNotifyWorker falls back to the defaults for non-positive interval or
// batchSize.
func NewNotifyWorker(logger *zap.Logger, sender Sender, interval time.Duration, batchSize int) *NotifyWorker {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &NotifyWorker{
		in:        make(chan models.FeedbackNotification, queueSize),
		done:      make(chan struct{}),
		logger:    logger,
		sender:    sender,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Enqueue never blocks. It reports false when the queue is full.
func (w *NotifyWorker) Enqueue(n models.FeedbackNotification) bool {
	select {
	case w.in <- n:
		return true
	default:
		metrics.FeedbackNotificationsTotal.WithLabelValues("dropped").Inc()
		return false
	}
}

// Done is closed once Run has returned.
func (w *NotifyWorker) Done() <-chan struct{} {
	return w.done
}

// Run flushes pending messages every interval or as soon as batchSize of
// them are queued. On cancellation the queue is drained and flushed once
// more before Run returns.
func (w *NotifyWorker) Run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var messages []models.FeedbackNotification

	flush := func() {
		if len(messages) == 0 {
			return
		}
		w.logger.Info("Flushing feedback notifications", zap.Int("count", len(messages)))

		for _, msg := range messages {
			sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			err := w.sender.Send(sendCtx, msg)
			cancel()

			if err != nil {
				metrics.FeedbackNotificationsTotal.WithLabelValues("failed").Inc()
				w.logger.Error("Cannot send feedback notification",
					zap.String("linkId", msg.LinkID),
					zap.Error(err),
				)
				continue
			}
			metrics.FeedbackNotificationsTotal.WithLabelValues("sent").Inc()
		}

		messages = messages[:0]
	}

	for {
		select {
		case msg := <-w.in:
			messages = append(messages, msg)
			if len(messages) >= w.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			for {
				select {
				case msg := <-w.in:
					messages = append(messages, msg)
				default:
					flush()
					return
				}
			}
		}
	}
}
