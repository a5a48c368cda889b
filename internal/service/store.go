package service

import (
	"tg-reminder/internal/models"
)

// ReminderStore is the persistence surface the services need. Both the
// database repository and the Google Sheets store satisfy it.
type ReminderStore interface {
	Create(reminder *models.Reminder) (int64, error)
	ListUnsent() ([]models.Reminder, error)
	MarkSent(row int64) error
	SetStatus(row int64, status string) error
	SetComment(row int64, comment string) error
	Get(row int64) (*models.Reminder, error)
}
