package worker

import (
	"context"
	"time"

	"casaspese/internal/amqp"
	"casaspese/internal/log"
	"casaspese/internal/services"
)

// AlertPublisher pushes unpaid alerts to the message broker.
type AlertPublisher interface {
	PublishUnpaidAlert(ctx context.Context, msg *amqp.UnpaidAlertMessage) error
}

// RolloverWorker periodically runs the rollover detector and publishes any
// newly raised alerts. Runs out of process from the HTTP server so alerts
// still fire when nobody opens the dashboard.
type RolloverWorker struct {
	detector  *services.RolloverDetector
	publisher AlertPublisher
	interval  time.Duration
	logger    *log.Logger

	published map[string]bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

func NewRolloverWorker(detector *services.RolloverDetector, publisher AlertPublisher, interval time.Duration, logger *log.Logger) *RolloverWorker {
	return &RolloverWorker{
		detector:  detector,
		publisher: publisher,
		interval:  interval,
		logger:    logger.WithComponent(log.ComponentWorker),
		published: make(map[string]bool),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the check loop until Stop is called or the context ends. An
// immediate check runs on startup so a worker restarted after downtime
// catches up without waiting a full interval.
func (w *RolloverWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *RolloverWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.check(ctx, time.Now())

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case now := <-ticker.C:
			w.check(ctx, now)
		}
	}
}

func (w *RolloverWorker) check(ctx context.Context, now time.Time) {
	state := w.detector.Check(ctx, now)
	if state == services.RolloverDetected {
		w.logger.InfoContext(ctx, "Month rollover detected", log.FieldOperation, log.OpCheck)
	}

	if w.publisher == nil {
		return
	}

	for _, alert := range w.detector.Alerts() {
		if w.published[alert.ID] {
			continue
		}
		msg := &amqp.UnpaidAlertMessage{
			AlertID:         alert.ID,
			SubCategoryID:   alert.SubCategoryID,
			SubCategoryName: alert.SubCategoryName,
			CategoryName:    alert.CategoryName,
			Amount:          alert.Amount,
			Year:            alert.Year,
			Month:           alert.Month,
			Timestamp:       alert.CreatedAt,
		}
		if err := w.publisher.PublishUnpaidAlert(ctx, msg); err != nil {
			// Left unmarked so the next tick retries.
			w.logger.ErrorContext(ctx, "Alert publish failed",
				log.FieldAlertID, alert.ID, log.FieldError, err.Error())
			continue
		}
		w.published[alert.ID] = true
	}
}

// Stop halts the loop and waits for the in-flight check to finish.
func (w *RolloverWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
}
