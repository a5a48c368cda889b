package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tg-reminder/internal/logger"
	"tg-reminder/internal/models"
)

var (
	// ErrInvalidDateTime reports a stored timestamp that cannot be parsed.
	ErrInvalidDateTime = errors.New("invalid date/time value")
	// ErrInvalidTimezone reports an unloadable default zone; an unknown
	// per-reminder zone never produces this, it falls back instead.
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// Layouts accepted for stored timestamps. Offset-carrying forms convert
// directly; naive forms are localized against the resolved zone.
var (
	offsetLayouts = []string{
		time.RFC3339,
		"2006-01-02 15:04:05 -07:00",
		"2006-01-02 15:04:05 -0700",
	}
	naiveLayouts = []string{
		models.DateTimeLayout,
		"2006-01-02 15:04",
	}
)

// Resolve converts a reminder's local timestamp and timezone label into an
// absolute UTC instant.
//
// An empty or unknown timezone label substitutes defaultTZ and proceeds; a
// malformed dateTimeText is an error. The zero rule makes timezone problems
// lenient and timestamp problems loud, matching how the rows are produced:
// the timezone comes from a fallible extractor, the timestamp format is
// owned by this program.
func Resolve(dateTimeText, timezoneLabel, defaultTZ string) (time.Time, error) {
	loc, err := resolveLocation(timezoneLabel, defaultTZ)
	if err != nil {
		return time.Time{}, err
	}

	text := strings.TrimSpace(dateTimeText)
	if text == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDateTime)
	}

	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, dateTimeText)
}

// resolveLocation loads the labeled zone, falling back to defaultTZ for an
// empty or unknown label.
func resolveLocation(timezoneLabel, defaultTZ string) (*time.Location, error) {
	if timezoneLabel != "" {
		if loc, err := time.LoadLocation(timezoneLabel); err == nil {
			return loc, nil
		}
		logger.Warningf("Unknown timezone %q, using %s", timezoneLabel, defaultTZ)
	}
	loc, err := time.LoadLocation(defaultTZ)
	if err != nil {
		return nil, fmt.Errorf("%w: default zone %q: %v", ErrInvalidTimezone, defaultTZ, err)
	}
	return loc, nil
}
