package schedule

import (
	"context"
	"time"

	"tg-reminder/internal/crash"
	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
)

// Store is the slice of the reminder store the dispatcher needs.
type Store interface {
	ListUnsent() ([]models.Reminder, error)
	MarkSent(row int64) error
}

// Sender delivers a due reminder to its chat.
type Sender interface {
	SendReminder(ctx context.Context, reminder models.Reminder) error
}

// Dispatcher scans the store on a fixed interval and delivers reminders
// whose fire time has arrived, marking each one sent after delivery.
//
// Delivery and mark-sent form one logical step with an at-least-once
// guarantee: if marking fails after a successful send, the reminder is
// delivered again on the next tick. Only one dispatcher instance may run
// against a given store; a second instance would double-deliver.
type Dispatcher struct {
	store       Store
	sender      Sender
	interval    time.Duration
	defaultTZ   string
	onDelivered func(models.Reminder)
}

// NewDispatcher creates a dispatcher. onDelivered is invoked after each
// reminder is delivered and marked sent; it may be nil.
func NewDispatcher(store Store, sender Sender, interval time.Duration, defaultTZ string, onDelivered func(models.Reminder)) *Dispatcher {
	return &Dispatcher{
		store:       store,
		sender:      sender,
		interval:    interval,
		defaultTZ:   defaultTZ,
		onDelivered: onDelivered,
	}
}

// Start runs the tick loop in a crash-guarded goroutine until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) {
	crash.SafeGoroutine("reminder-dispatcher", func() {
		logger.Infof("Starting reminder dispatcher with interval %v", d.interval)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Infof("Reminder dispatcher stopped")
				return
			case <-ticker.C:
				d.Tick(ctx, time.Now().UTC())
			}
		}
	})
}

// Tick performs one due-reminder scan at the given instant. Failures on one
// reminder never block the others; failed rows stay unsent and are retried
// on the next tick.
func (d *Dispatcher) Tick(ctx context.Context, now time.Time) {
	reminders, err := d.store.ListUnsent()
	if err != nil {
		logger.Errorf("Error listing unsent reminders: %v", err)
		return
	}

	for _, reminder := range reminders {
		if !reminder.HasDeadline() {
			// A note without a deadline is never dispatched.
			continue
		}

		fireAt, err := Resolve(reminder.ScheduledAt, reminder.Timezone, d.defaultTZ)
		if err != nil {
			// Skip this tick, keep the row unsent; a bad stored timestamp
			// must stay visible to the operator rather than disappear.
			logger.Warningf("Skipping reminder row %d: %v", reminder.ID, err)
			continue
		}

		if now.Before(fireAt) {
			continue
		}

		if err := d.sender.SendReminder(ctx, reminder); err != nil {
			logger.Errorf("Error delivering reminder row %d: %v", reminder.ID, err)
			continue
		}

		if err := d.store.MarkSent(int64(reminder.ID)); err != nil {
			// Delivered but not marked: redelivered next tick. Duplicate
			// delivery is the accepted failure mode over silent loss.
			logger.Errorf("Error marking reminder row %d as sent: %v", reminder.ID, err)
			continue
		}

		logger.Infof("Delivered reminder row %d: %s", reminder.ID, reminder.Text)

		if d.onDelivered != nil {
			d.onDelivered(reminder)
		}
	}
}
