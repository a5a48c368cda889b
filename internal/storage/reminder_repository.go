package storage

import (
	"tg-reminder/internal/models"

	"gorm.io/gorm"
)

// ReminderRepository handles database operations for Reminder
type ReminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new ReminderRepository
func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// MigrateTable ensures the Reminder table exists
func (r *ReminderRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Reminder{})
}

// Create inserts a new reminder and returns its row id
func (r *ReminderRepository) Create(reminder *models.Reminder) (int64, error) {
	if err := r.db.Create(reminder).Error; err != nil {
		return 0, err
	}
	return int64(reminder.ID), nil
}

// ListUnsent returns reminders that are not yet delivered. Status is not
// part of the filter: it is advisory metadata, a closed reminder still fires.
func (r *ReminderRepository) ListUnsent() ([]models.Reminder, error) {
	var reminders []models.Reminder
	result := r.db.Where("sent = ?", false).Find(&reminders)
	return reminders, result.Error
}

// MarkSent flags a delivered reminder so it is never dispatched again
func (r *ReminderRepository) MarkSent(row int64) error {
	return r.db.Model(&models.Reminder{}).
		Where("id = ?", row).
		Update("sent", true).Error
}

// SetStatus records a terminal status on a reminder
func (r *ReminderRepository) SetStatus(row int64, status string) error {
	return r.db.Model(&models.Reminder{}).
		Where("id = ?", row).
		Update("status", status).Error
}

// SetComment attaches or replaces the free-form comment on a reminder
func (r *ReminderRepository) SetComment(row int64, comment string) error {
	return r.db.Model(&models.Reminder{}).
		Where("id = ?", row).
		Update("comment", comment).Error
}

// Get fetches one reminder by row id
func (r *ReminderRepository) Get(row int64) (*models.Reminder, error) {
	var reminder models.Reminder
	if err := r.db.First(&reminder, row).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}
