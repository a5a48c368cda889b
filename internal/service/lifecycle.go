package service

import (
	"fmt"

	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
)

// Lifecycle closes reminders in response to button presses and reactions.
// The target is always the chat's last created or last delivered reminder.
type Lifecycle struct {
	store         ReminderStore
	lastReminders *models.LastReminderManager
}

func NewLifecycle(store ReminderStore, lastReminders *models.LastReminderManager) *Lifecycle {
	return &Lifecycle{store: store, lastReminders: lastReminders}
}

// MarkDone sets the done status on the chat's current reminder.
func (l *Lifecycle) MarkDone(chatID int64) (*models.LastReminder, error) {
	return l.close(chatID, models.StatusDone)
}

// Cancel sets the canceled status on the chat's current reminder. Status is
// advisory only: an unsent canceled reminder is still delivered when due.
func (l *Lifecycle) Cancel(chatID int64) (*models.LastReminder, error) {
	return l.close(chatID, models.StatusCanceled)
}

// OnDelivered repoints the chat at a just-delivered reminder so a following
// done or cancel acts on it.
func (l *Lifecycle) OnDelivered(chatID int64, reminder models.Reminder) {
	l.lastReminders.Set(chatID, &models.LastReminder{
		Row:      int64(reminder.ID),
		Text:     reminder.Text,
		Timezone: reminder.Timezone,
	})
}

// AttachComment stores forwarded context as the comment of the chat's
// current reminder. Used when a forwarded message arrives too late to pair
// with the message that created the reminder.
func (l *Lifecycle) AttachComment(chatID int64, text string) (*models.LastReminder, error) {
	target := l.lastReminders.Get(chatID)
	if target == nil {
		return nil, ErrNoTarget
	}

	comment := text
	if existing, err := l.store.Get(target.Row); err == nil && existing.Comment != "" {
		comment = existing.Comment + "\n" + text
	}

	if err := l.store.SetComment(target.Row, comment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	logger.Infof("Attached comment to reminder row %d for chat %d", target.Row, chatID)
	return target, nil
}

// close writes the status and returns the pointer it acted on. A repeated
// close on the same reminder rewrites the status, which is harmless. The
// pointer is kept even on store failure so the user can simply retry.
func (l *Lifecycle) close(chatID int64, status string) (*models.LastReminder, error) {
	target := l.lastReminders.Get(chatID)
	if target == nil {
		return nil, ErrNoTarget
	}

	if err := l.store.SetStatus(target.Row, status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	logger.Infof("Reminder row %d marked %s for chat %d", target.Row, status, chatID)
	return target, nil
}
