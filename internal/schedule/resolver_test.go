package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestResolveNaiveTimestampInZone(t *testing.T) {
	// Moscow is UTC+3 year-round
	got, err := Resolve("2025-03-01 08:00:00", "Europe/Moscow", "UTC")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("Resolve location = %v, want UTC", got.Location())
	}
}

func TestResolveShortNaiveLayout(t *testing.T) {
	got, err := Resolve("2025-03-01 08:00", "Europe/Moscow", "UTC")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveOffsetTimestampIgnoresZoneLabel(t *testing.T) {
	// An explicit offset wins over whatever the label says
	got, err := Resolve("2025-03-01T08:00:00+03:00", "America/New_York", "UTC")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := time.Date(2025, 3, 1, 5, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Resolve = %v, want %v", got, want)
	}
}

func TestResolveUnknownZoneFallsBackToDefault(t *testing.T) {
	withUnknown, err := Resolve("2025-03-01 08:00:00", "Not/AZone", "Europe/Moscow")
	if err != nil {
		t.Fatalf("Resolve with unknown zone returned error: %v", err)
	}
	withEmpty, err := Resolve("2025-03-01 08:00:00", "", "Europe/Moscow")
	if err != nil {
		t.Fatalf("Resolve with empty zone returned error: %v", err)
	}

	if !withUnknown.Equal(withEmpty) {
		t.Errorf("unknown zone resolved to %v, empty zone to %v; want identical", withUnknown, withEmpty)
	}
}

func TestResolveMalformedTimestamp(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"not a date",
		"2025-13-45 99:00:00",
		"tomorrow at noon",
	}
	for _, input := range cases {
		_, err := Resolve(input, "", "UTC")
		if !errors.Is(err, ErrInvalidDateTime) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidDateTime", input, err)
		}
	}
}

func TestResolveUnloadableDefaultZone(t *testing.T) {
	_, err := Resolve("2025-03-01 08:00:00", "", "Nope/Nowhere")
	if !errors.Is(err, ErrInvalidTimezone) {
		t.Errorf("Resolve error = %v, want ErrInvalidTimezone", err)
	}
}
