package service

import (
	"errors"
	"testing"

	"tg-reminder/internal/models"
)

func TestMarkDoneWithoutTarget(t *testing.T) {
	lifecycle := NewLifecycle(newFakeReminderStore(), models.NewLastReminderManager())

	_, err := lifecycle.MarkDone(10)
	if !errors.Is(err, ErrNoTarget) {
		t.Errorf("error = %v, want ErrNoTarget", err)
	}
}

func TestMarkDoneWritesStatus(t *testing.T) {
	store := newFakeReminderStore()
	lastReminders := models.NewLastReminderManager()
	lastReminders.Set(10, &models.LastReminder{Row: 7, Text: "call mom"})
	lifecycle := NewLifecycle(store, lastReminders)

	target, err := lifecycle.MarkDone(10)
	if err != nil {
		t.Fatalf("MarkDone returned error: %v", err)
	}
	if target.Row != 7 {
		t.Errorf("target row = %d, want 7", target.Row)
	}
	if store.statuses[7] != models.StatusDone {
		t.Errorf("status = %q, want %q", store.statuses[7], models.StatusDone)
	}

	// The pointer stays so a repeated action is an idempotent rewrite
	if lastReminders.Get(10) == nil {
		t.Errorf("pointer removed after MarkDone, want it kept")
	}
}

func TestCancelWritesStatus(t *testing.T) {
	store := newFakeReminderStore()
	lastReminders := models.NewLastReminderManager()
	lastReminders.Set(10, &models.LastReminder{Row: 3, Text: "water the plants"})
	lifecycle := NewLifecycle(store, lastReminders)

	if _, err := lifecycle.Cancel(10); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if store.statuses[3] != models.StatusCanceled {
		t.Errorf("status = %q, want %q", store.statuses[3], models.StatusCanceled)
	}
}

func TestCloseStoreFailureKeepsPointer(t *testing.T) {
	store := newFakeReminderStore()
	store.statusErr = errors.New("sheet unavailable")
	lastReminders := models.NewLastReminderManager()
	lastReminders.Set(10, &models.LastReminder{Row: 3, Text: "water the plants"})
	lifecycle := NewLifecycle(store, lastReminders)

	_, err := lifecycle.Cancel(10)
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("error = %v, want ErrPersistence", err)
	}
	if lastReminders.Get(10) == nil {
		t.Errorf("pointer removed after a failed close, want it kept for retry")
	}
}

func TestAttachComment(t *testing.T) {
	store := newFakeReminderStore()
	lastReminders := models.NewLastReminderManager()
	lastReminders.Set(10, &models.LastReminder{Row: 4, Text: "read the docs"})
	lifecycle := NewLifecycle(store, lastReminders)

	target, err := lifecycle.AttachComment(10, "the forwarded link")
	if err != nil {
		t.Fatalf("AttachComment returned error: %v", err)
	}
	if target.Row != 4 {
		t.Errorf("target row = %d, want 4", target.Row)
	}
	if store.comments[4] != "the forwarded link" {
		t.Errorf("comment = %q, want the forwarded text", store.comments[4])
	}

	if _, err := lifecycle.AttachComment(99, "nothing here"); !errors.Is(err, ErrNoTarget) {
		t.Errorf("AttachComment without pointer: error = %v, want ErrNoTarget", err)
	}
}

func TestAttachCommentAppendsToExisting(t *testing.T) {
	store := newFakeReminderStore()
	row, _ := store.Create(&models.Reminder{Text: "read the docs", Comment: "first note"})
	lastReminders := models.NewLastReminderManager()
	lastReminders.Set(10, &models.LastReminder{Row: row, Text: "read the docs"})
	lifecycle := NewLifecycle(store, lastReminders)

	if _, err := lifecycle.AttachComment(10, "second note"); err != nil {
		t.Fatalf("AttachComment returned error: %v", err)
	}
	if store.comments[row] != "first note\nsecond note" {
		t.Errorf("comment = %q, want both notes joined", store.comments[row])
	}
}

func TestOnDeliveredMovesPointer(t *testing.T) {
	store := newFakeReminderStore()
	lastReminders := models.NewLastReminderManager()
	lastReminders.Set(10, &models.LastReminder{Row: 3, Text: "old one"})
	lifecycle := NewLifecycle(store, lastReminders)

	lifecycle.OnDelivered(10, models.Reminder{ID: 9, Text: "just delivered", Timezone: "Europe/Moscow"})

	target := lastReminders.Get(10)
	if target == nil || target.Row != 9 || target.Text != "just delivered" {
		t.Errorf("pointer = %+v, want the delivered reminder", target)
	}
}
