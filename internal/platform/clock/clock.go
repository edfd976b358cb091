package clock

import "time"

// DateLayout is the storage format for calendar days.
const DateLayout = "2006-01-02"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall time so calendar days follow the user's zone.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// DateOf truncates t to its calendar day in t's own location and returns it
// as midnight UTC, which makes day arithmetic free of DST gaps.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a calendar day for storage and display.
func Format(day time.Time) string {
	return day.Format(DateLayout)
}

// ParseDate accepts YYYY-MM-DD and returns the day at midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
