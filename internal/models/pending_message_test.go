package models

import (
	"testing"
	"time"
)

func TestPendingMessagePutAssignsIncreasingSeq(t *testing.T) {
	m := NewPendingMessageManager()

	first := m.Put(&PendingMessage{ChatID: 1, Text: "a", CreatedAt: time.Now()})
	second := m.Put(&PendingMessage{ChatID: 2, Text: "b", CreatedAt: time.Now()})

	if second <= first {
		t.Errorf("seq did not increase: first=%d second=%d", first, second)
	}
}

func TestPendingMessageTakeIf(t *testing.T) {
	m := NewPendingMessageManager()
	m.Put(&PendingMessage{ChatID: 1, Text: "a", Forwarded: true, CreatedAt: time.Now()})

	if got := m.TakeIf(1, func(e *PendingMessage) bool { return !e.Forwarded }); got != nil {
		t.Errorf("TakeIf with rejecting predicate returned %+v, want nil", got)
	}
	// Rejected entry stays in place
	if got := m.TakeIf(1, func(e *PendingMessage) bool { return e.Forwarded }); got == nil || got.Text != "a" {
		t.Fatalf("TakeIf with accepting predicate returned %+v, want the entry", got)
	}
	// Taken entry is gone
	if got := m.TakeIf(1, func(e *PendingMessage) bool { return true }); got != nil {
		t.Errorf("second TakeIf returned %+v, want nil", got)
	}
}

func TestPendingMessageTakeSeqRejectsSuperseded(t *testing.T) {
	m := NewPendingMessageManager()

	oldSeq := m.Put(&PendingMessage{ChatID: 1, Text: "old", CreatedAt: time.Now()})
	newSeq := m.Put(&PendingMessage{ChatID: 1, Text: "new", CreatedAt: time.Now()})

	if got := m.TakeSeq(1, oldSeq); got != nil {
		t.Errorf("TakeSeq with stale seq returned %+v, want nil", got)
	}
	got := m.TakeSeq(1, newSeq)
	if got == nil || got.Text != "new" {
		t.Errorf("TakeSeq with current seq returned %+v, want the new entry", got)
	}
}

func TestLastReminderManager(t *testing.T) {
	m := NewLastReminderManager()

	if m.Get(1) != nil {
		t.Errorf("Get on empty manager returned non-nil")
	}

	m.Set(1, &LastReminder{Row: 5, Text: "call mom"})
	m.Set(1, &LastReminder{Row: 6, Text: "newer"})

	got := m.Get(1)
	if got == nil || got.Row != 6 {
		t.Errorf("Get = %+v, want the overwritten entry with row 6", got)
	}

	m.Remove(1)
	if m.Get(1) != nil {
		t.Errorf("Get after Remove returned non-nil")
	}
}
