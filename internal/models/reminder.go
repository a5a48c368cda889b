package models

import "time"

// Lifecycle status values. A reminder starts with an empty status and is
// moved to exactly one of these by a user action; re-applying the same
// action is an idempotent re-write.
const (
	StatusDone     = "done"
	StatusCanceled = "canceled"
)

// DateTimeLayout is the storage format of ScheduledAt, local to Timezone.
const DateTimeLayout = "2006-01-02 15:04:05"

// Reminder is one persisted reminder row.
//
// ID is assigned by the store on creation and never reused. Sent moves
// only false->true and only by the dispatcher after a successful delivery.
// Status is advisory metadata independent of Sent.
type Reminder struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Text        string `gorm:"type:text;not null"`
	ScheduledAt string `gorm:"index"` // empty means no deadline, never dispatched
	Timezone    string
	Sent        bool   `gorm:"index;default:false"`
	Status      string `gorm:"default:''"`
	Comment     string `gorm:"type:text"`
}

// HasDeadline reports whether the reminder has a scheduled fire time.
func (r *Reminder) HasDeadline() bool {
	return r.ScheduledAt != ""
}
