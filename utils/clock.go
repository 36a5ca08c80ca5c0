package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical slot date format.
const DateLayout = "2006-01-02"

// TimeToMinutes converts "HH:MM" to minutes from midnight. Returns an error
// for anything that is not a zero-padded 24h clock value.
func TimeToMinutes(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", t)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", t)
	}
	return h*60 + m, nil
}

// MinutesToTime converts minutes from midnight back to "HH:MM".
func MinutesToTime(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseDate parses a "YYYY-MM-DD" slot date in the given location.
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, loc)
}

// Today returns today's date string in the given location.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateLayout)
}
