package service

import (
	"context"
	"fmt"
	"time"

	"tg-reminder/internal/ai"
	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
	"tg-reminder/internal/schedule"
)

// ReminderExtractor is the extraction call the creator depends on.
type ReminderExtractor interface {
	Extract(ctx context.Context, message string, now time.Time, opts ai.ExtractOptions) (*ai.ReminderInfo, error)
}

// Creator turns a correlated message into a stored reminder.
type Creator struct {
	store         ReminderStore
	extractor     ReminderExtractor
	lastReminders *models.LastReminderManager
	defaultTZ     string

	// now is swappable for tests.
	now func() time.Time
}

func NewCreator(store ReminderStore, extractor ReminderExtractor, lastReminders *models.LastReminderManager, defaultTZ string) *Creator {
	return &Creator{
		store:         store,
		extractor:     extractor,
		lastReminders: lastReminders,
		defaultTZ:     defaultTZ,
		now:           time.Now,
	}
}

// CreateFromResult runs the full creation pipeline over a correlation
// result: extraction, time validation with a single past-time retry,
// persistence, and the last-reminder pointer update.
//
// The returned reminder carries the row id assigned by the store. Error
// classes: ErrRecognition when extraction fails or finds nothing, a
// ValidationError when the time cannot be scheduled, ErrPersistence when the
// store write fails. The pointer is only moved on full success.
func (c *Creator) CreateFromResult(ctx context.Context, result CorrelationResult) (*models.Reminder, error) {
	now := c.now().UTC()

	info, err := c.extractor.Extract(ctx, result.Text, now, ai.ExtractOptions{Forwarded: result.Forwarded})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
	}
	if info == nil {
		return nil, ErrRecognition
	}

	if info.DateTime != "" {
		fireAt, err := schedule.Resolve(info.DateTime, info.Timezone, c.defaultTZ)
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}

		if fireAt.Before(now) {
			// One retry with an amended prompt; relative expressions like
			// "tomorrow" sometimes land in the past on the first pass.
			logger.Infof("Extracted time %s is in the past, retrying extraction for chat %d", info.DateTime, result.ChatID)

			retry, err := c.extractor.Extract(ctx, result.Text, now, ai.ExtractOptions{
				Forwarded: result.Forwarded,
				Recompute: true,
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
			}
			if retry == nil || retry.DateTime == "" {
				return nil, &ValidationError{Reason: "the time is in the past"}
			}

			fireAt, err = schedule.Resolve(retry.DateTime, retry.Timezone, c.defaultTZ)
			if err != nil {
				return nil, &ValidationError{Reason: err.Error()}
			}
			if fireAt.Before(now) {
				return nil, &ValidationError{Reason: "the time is in the past"}
			}
			info = retry
		}
	}

	reminder := &models.Reminder{
		Text:        info.Text,
		ScheduledAt: info.DateTime,
		Timezone:    info.Timezone,
		Comment:     result.Comment,
	}

	row, err := c.store.Create(reminder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	c.lastReminders.Set(result.ChatID, &models.LastReminder{
		Row:      row,
		Text:     reminder.Text,
		Timezone: reminder.Timezone,
	})

	logger.Infof("Created reminder row %d for chat %d: %s", row, result.ChatID, reminder.Text)
	return reminder, nil
}
