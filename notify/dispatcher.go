package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"earning-bot/logger"
	"earning-bot/metrics"
	"earning-bot/models"
)

const defaultDeliveryTimeout = 15 * time.Second

// Dispatcher fans a withdrawal alert out to the admin recipients and the
// recorders without blocking the caller.
type Dispatcher struct {
	sink       Sink
	recipients []int64
	recorders  []Recorder
	timeout    time.Duration

	wg  sync.WaitGroup
	log *slog.Logger
}

type Option func(*Dispatcher)

func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) { d.recorders = append(d.recorders, r) }
}

func WithTimeout(t time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = t }
}

func NewDispatcher(sink Sink, recipients []int64, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:       sink,
		recipients: recipients,
		timeout:    defaultDeliveryTimeout,
		log:        logger.Component("notify"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithdrawalSubmitted queues the admin alert for req and returns at once.
// The caller's cancellation does not abort delivery.
func (d *Dispatcher) WithdrawalSubmitted(ctx context.Context, req models.WithdrawalRequest) {
	text := WithdrawalAlert(req)
	base := context.WithoutCancel(ctx)

	if len(d.recipients) == 0 && len(d.recorders) == 0 {
		d.log.Warn("⚠️ no admin recipients configured, alert dropped", "user_id", req.UserID)
		return
	}

	for _, id := range d.recipients {
		d.spawn(base, func(ctx context.Context) {
			if err := d.sink.Notify(ctx, id, text); err != nil {
				metrics.Notifications.WithLabelValues(metrics.ResultError).Inc()
				d.log.Warn("⚠️ admin alert failed", "recipient_id", id, "user_id", req.UserID, "err", err)
				return
			}
			metrics.Notifications.WithLabelValues(metrics.ResultOK).Inc()
		})
	}
	for _, r := range d.recorders {
		d.spawn(base, func(ctx context.Context) {
			if err := r.Record(ctx, req); err != nil {
				metrics.Notifications.WithLabelValues(metrics.ResultError).Inc()
				d.log.Warn("⚠️ withdrawal record export failed", "user_id", req.UserID, "err", err)
				return
			}
			metrics.Notifications.WithLabelValues(metrics.ResultOK).Inc()
		})
	}
}

func (d *Dispatcher) spawn(base context.Context, fn func(ctx context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(base, d.timeout)
		defer cancel()
		fn(ctx)
	}()
}

// Wait blocks until every queued delivery has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
