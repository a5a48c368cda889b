package storage

import (
	"testing"
)

func TestRowFromRange(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"reminders!A7:F7", 7},
		{"reminders!A2", 2},
		{"'My Sheet'!A123:F123", 123},
		{"A15:F15", 15},
	}
	for _, tt := range tests {
		got, err := rowFromRange(tt.input)
		if err != nil {
			t.Errorf("rowFromRange(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("rowFromRange(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestRowFromRangeInvalid(t *testing.T) {
	if _, err := rowFromRange("reminders!A:F"); err == nil {
		t.Errorf("rowFromRange accepted a range without a row number")
	}
}

func TestReminderFromRow(t *testing.T) {
	cells := []interface{}{"2025-03-01 18:00:00", "call mom", "Europe/Moscow", "TRUE", "done", "left a voicemail"}

	r := reminderFromRow(7, cells)

	if r.ID != 7 {
		t.Errorf("ID = %d, want 7", r.ID)
	}
	if r.ScheduledAt != "2025-03-01 18:00:00" || r.Text != "call mom" || r.Timezone != "Europe/Moscow" {
		t.Errorf("parsed reminder = %+v", r)
	}
	if !r.Sent {
		t.Errorf("Sent = false, want true for TRUE marker")
	}
	if r.Status != "done" || r.Comment != "left a voicemail" {
		t.Errorf("Status/Comment = %q/%q", r.Status, r.Comment)
	}
}

func TestReminderFromRowShortRow(t *testing.T) {
	// Trailing empty cells are omitted by the Sheets API
	r := reminderFromRow(2, []interface{}{"", "just a note"})

	if r.Text != "just a note" {
		t.Errorf("Text = %q, want %q", r.Text, "just a note")
	}
	if r.Sent || r.Status != "" || r.Comment != "" {
		t.Errorf("short row parsed as %+v, want unsent with empty status", r)
	}
	if r.HasDeadline() {
		t.Errorf("short row has a deadline, want none")
	}
}

func TestReminderFromRowSentMarkerCase(t *testing.T) {
	r := reminderFromRow(3, []interface{}{"2025-03-01 18:00:00", "x", "", "true"})
	if !r.Sent {
		t.Errorf("lowercase true marker not recognized as sent")
	}

	r = reminderFromRow(4, []interface{}{"2025-03-01 18:00:00", "x", "", "FALSE"})
	if r.Sent {
		t.Errorf("FALSE marker parsed as sent")
	}
}
