package clock

import (
	"strings"
	"time"

	apperrors "readlog/internal/platform/errors"
)

// DateLayout is the calendar-day format used on every API surface.
const DateLayout = "2006-01-02"

// LoadZone resolves an IANA zone name. "Local" is rejected because it
// depends on the host rather than the reader.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation(apperrors.CodeInvalidTimezone, "timezone", "timezone is required")
	}
	if name == "Local" {
		return nil, apperrors.Validation(apperrors.CodeInvalidTimezone, "timezone", "%q is not an IANA timezone", name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, apperrors.Validation(apperrors.CodeInvalidTimezone, "timezone", "unknown IANA timezone %q", name)
	}
	return loc, nil
}

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, apperrors.Validation(apperrors.CodeInvalidDate, "date", "%q is not a YYYY-MM-DD date", date)
	}
	return t, nil
}

// StartOfDay interprets date as local midnight in loc and returns the
// matching UTC instant, which is how days are persisted.
func StartOfDay(date string, loc *time.Location) (time.Time, error) {
	if _, err := ParseDate(date); err != nil {
		return time.Time{}, err
	}
	date = strings.TrimSpace(date)
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, apperrors.Validation(apperrors.CodeInvalidDate, "date", "%q is not a YYYY-MM-DD date", date)
	}
	// Zones that skip midnight for DST resolve to the previous evening;
	// walk forward to the first instant that belongs to date.
	for i := 0; DateOf(t, loc) != date && i < 8; i++ {
		t = t.Add(30 * time.Minute)
	}
	return t.UTC(), nil
}

// DateOf returns the calendar day instant falls on in loc.
func DateOf(instant time.Time, loc *time.Location) string {
	return instant.In(loc).Format(DateLayout)
}

func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// DaysBetween counts whole calendar days from one date to another.
func DaysBetween(from, to string) (int, error) {
	a, err := ParseDate(from)
	if err != nil {
		return 0, err
	}
	b, err := ParseDate(to)
	if err != nil {
		return 0, err
	}
	return int(b.Sub(a).Hours() / 24), nil
}

// Calendar binds a clock to one reader's timezone for the length of a single
// operation.
type Calendar struct {
	clock    Clock
	location *time.Location
}

func NewCalendar(c Clock, loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{clock: c, location: loc}
}

func (c Calendar) Location() *time.Location { return c.location }

func (c Calendar) Zone() string { return c.location.String() }

func (c Calendar) Now() time.Time { return c.clock.Now() }

func (c Calendar) Today() string { return DateOf(c.clock.Now(), c.location) }

func (c Calendar) Yesterday() string {
	y, _ := AddDays(c.Today(), -1)
	return y
}

func (c Calendar) StartOfDay(date string) (time.Time, error) { return StartOfDay(date, c.location) }

func (c Calendar) DateOf(instant time.Time) string { return DateOf(instant, c.location) }

// DayOrToday returns date when set and today otherwise, validating either way.
func (c Calendar) DayOrToday(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return c.Today(), nil
	}
	if err := c.NotAfterToday("progress_date", date); err != nil {
		return "", err
	}
	return date, nil
}

// NotAfterToday rejects a valid date that lies after today in the
// calendar's zone.
func (c Calendar) NotAfterToday(field, date string) error {
	date = strings.TrimSpace(date)
	if _, err := ParseDate(date); err != nil {
		return err
	}
	if today := c.Today(); date > today {
		return apperrors.Validation(apperrors.CodeInvalidDate, field, "%s is after today (%s)", date, today)
	}
	return nil
}
