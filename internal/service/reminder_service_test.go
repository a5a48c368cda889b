package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tg-reminder/internal/ai"
	"tg-reminder/internal/models"
)

type fakeReminderStore struct {
	created   []*models.Reminder
	createErr error
	statuses  map[int64]string
	statusErr error
	comments  map[int64]string
	nextRow   int64
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{
		statuses: make(map[int64]string),
		comments: make(map[int64]string),
		nextRow:  1,
	}
}

func (s *fakeReminderStore) Create(reminder *models.Reminder) (int64, error) {
	if s.createErr != nil {
		return 0, s.createErr
	}
	row := s.nextRow
	s.nextRow++
	reminder.ID = uint(row)
	s.created = append(s.created, reminder)
	return row, nil
}

func (s *fakeReminderStore) ListUnsent() ([]models.Reminder, error) { return nil, nil }
func (s *fakeReminderStore) MarkSent(row int64) error               { return nil }

func (s *fakeReminderStore) SetStatus(row int64, status string) error {
	if s.statusErr != nil {
		return s.statusErr
	}
	s.statuses[row] = status
	return nil
}

func (s *fakeReminderStore) SetComment(row int64, comment string) error {
	s.comments[row] = comment
	return nil
}

func (s *fakeReminderStore) Get(row int64) (*models.Reminder, error) {
	for _, r := range s.created {
		if int64(r.ID) == row {
			return r, nil
		}
	}
	return nil, fmt.Errorf("row %d not found", row)
}

type fakeExtractor struct {
	results []*ai.ReminderInfo
	errs    []error
	calls   []ai.ExtractOptions
}

func (f *fakeExtractor) Extract(ctx context.Context, message string, now time.Time, opts ai.ExtractOptions) (*ai.ReminderInfo, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, opts)
	var err error
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	var result *ai.ReminderInfo
	if idx < len(f.results) {
		result = f.results[idx]
	}
	return result, err
}

func newTestCreator(store *fakeReminderStore, extractor *fakeExtractor, lastReminders *models.LastReminderManager) *Creator {
	c := NewCreator(store, extractor, lastReminders, "UTC")
	c.now = func() time.Time {
		return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	return c
}

func TestCreateFromResultStoresReminder(t *testing.T) {
	store := newFakeReminderStore()
	extractor := &fakeExtractor{results: []*ai.ReminderInfo{
		{Text: "call mom", DateTime: "2025-03-01 18:00:00", Timezone: "Europe/Moscow"},
	}}
	lastReminders := models.NewLastReminderManager()
	creator := newTestCreator(store, extractor, lastReminders)

	reminder, err := creator.CreateFromResult(context.Background(), CorrelationResult{ChatID: 10, Text: "call mom at 6pm"})
	if err != nil {
		t.Fatalf("CreateFromResult returned error: %v", err)
	}

	if reminder.Text != "call mom" || reminder.ScheduledAt != "2025-03-01 18:00:00" || reminder.Timezone != "Europe/Moscow" {
		t.Errorf("stored reminder = %+v", reminder)
	}
	if len(store.created) != 1 {
		t.Fatalf("store has %d reminders, want 1", len(store.created))
	}

	target := lastReminders.Get(10)
	if target == nil || target.Row != 1 || target.Text != "call mom" {
		t.Errorf("last reminder pointer = %+v, want row 1", target)
	}
}

func TestCreateFromResultKeepsComment(t *testing.T) {
	store := newFakeReminderStore()
	extractor := &fakeExtractor{results: []*ai.ReminderInfo{
		{Text: "read the article", DateTime: "2025-03-01 18:00:00"},
	}}
	creator := newTestCreator(store, extractor, models.NewLastReminderManager())

	reminder, err := creator.CreateFromResult(context.Background(), CorrelationResult{
		ChatID:  10,
		Text:    "remind me to read this tonight",
		Comment: "the forwarded article text",
	})
	if err != nil {
		t.Fatalf("CreateFromResult returned error: %v", err)
	}
	if reminder.Comment != "the forwarded article text" {
		t.Errorf("Comment = %q, want the forwarded text", reminder.Comment)
	}
}

func TestCreateFromResultNoteWithoutDeadline(t *testing.T) {
	store := newFakeReminderStore()
	extractor := &fakeExtractor{results: []*ai.ReminderInfo{
		{Text: "some day visit Lisbon"},
	}}
	creator := newTestCreator(store, extractor, models.NewLastReminderManager())

	reminder, err := creator.CreateFromResult(context.Background(), CorrelationResult{ChatID: 10, Text: "some day visit Lisbon"})
	if err != nil {
		t.Fatalf("CreateFromResult returned error: %v", err)
	}
	if reminder.HasDeadline() {
		t.Errorf("note has deadline %q, want none", reminder.ScheduledAt)
	}
	if len(extractor.calls) != 1 {
		t.Errorf("extractor called %d times, want 1", len(extractor.calls))
	}
}

func TestCreateFromResultUnrecognized(t *testing.T) {
	store := newFakeReminderStore()
	extractor := &fakeExtractor{results: []*ai.ReminderInfo{nil}}
	creator := newTestCreator(store, extractor, models.NewLastReminderManager())

	_, err := creator.CreateFromResult(context.Background(), CorrelationResult{ChatID: 10, Text: "asdf"})
	if !errors.Is(err, ErrRecognition) {
		t.Errorf("error = %v, want ErrRecognition", err)
	}
	if len(store.created) != 0 {
		t.Errorf("store has %d reminders, want 0", len(store.created))
	}
}

func TestCreateFromResultPastTimeRetriesOnce(t *testing.T) {
	store := newFakeReminderStore()
	extractor := &fakeExtractor{results: []*ai.ReminderInfo{
		{Text: "call mom", DateTime: "2025-02-28 18:00:00"},
		{Text: "call mom", DateTime: "2025-03-01 18:00:00"},
	}}
	creator := newTestCreator(store, extractor, models.NewLastReminderManager())

	reminder, err := creator.CreateFromResult(context.Background(), CorrelationResult{ChatID: 10, Text: "call mom tomorrow"})
	if err != nil {
		t.Fatalf("CreateFromResult returned error: %v", err)
	}

	if len(extractor.calls) != 2 {
		t.Fatalf("extractor called %d times, want 2", len(extractor.calls))
	}
	if extractor.calls[0].Recompute || !extractor.calls[1].Recompute {
		t.Errorf("Recompute flags = %v/%v, want false then true", extractor.calls[0].Recompute, extractor.calls[1].Recompute)
	}
	if reminder.ScheduledAt != "2025-03-01 18:00:00" {
		t.Errorf("ScheduledAt = %q, want the retried value", reminder.ScheduledAt)
	}
}

func TestCreateFromResultPastTimeAfterRetryFails(t *testing.T) {
	store := newFakeReminderStore()
	extractor := &fakeExtractor{results: []*ai.ReminderInfo{
		{Text: "call mom", DateTime: "2025-02-28 18:00:00"},
		{Text: "call mom", DateTime: "2025-02-27 18:00:00"},
	}}
	lastReminders := models.NewLastReminderManager()
	creator := newTestCreator(store, extractor, lastReminders)

	_, err := creator.CreateFromResult(context.Background(), CorrelationResult{ChatID: 10, Text: "call mom yesterday"})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("error = %v, want a ValidationError", err)
	}
	// Exactly one retry, never more
	if len(extractor.calls) != 2 {
		t.Errorf("extractor called %d times, want exactly 2", len(extractor.calls))
	}
	if len(store.created) != 0 {
		t.Errorf("store has %d reminders, want 0", len(store.created))
	}
	if lastReminders.Get(10) != nil {
		t.Errorf("last reminder pointer moved on a failed creation")
	}
}

func TestCreateFromResultPersistenceFailure(t *testing.T) {
	store := newFakeReminderStore()
	store.createErr = errors.New("sheet unavailable")
	extractor := &fakeExtractor{results: []*ai.ReminderInfo{
		{Text: "call mom", DateTime: "2025-03-01 18:00:00"},
	}}
	lastReminders := models.NewLastReminderManager()
	creator := newTestCreator(store, extractor, lastReminders)

	_, err := creator.CreateFromResult(context.Background(), CorrelationResult{ChatID: 10, Text: "call mom at 6pm"})
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("error = %v, want ErrPersistence", err)
	}
	if lastReminders.Get(10) != nil {
		t.Errorf("last reminder pointer moved on a failed save")
	}
}

func TestCreateFromResultExtractionError(t *testing.T) {
	store := newFakeReminderStore()
	extractor := &fakeExtractor{errs: []error{errors.New("api timeout")}}
	creator := newTestCreator(store, extractor, models.NewLastReminderManager())

	_, err := creator.CreateFromResult(context.Background(), CorrelationResult{ChatID: 10, Text: "call mom"})
	if !errors.Is(err, ErrRecognition) {
		t.Errorf("error = %v, want ErrRecognition", err)
	}
}
