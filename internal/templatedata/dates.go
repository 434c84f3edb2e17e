package templatedata

import (
	"strings"
	"time"
)

const (
	storedMonthLayout  = "2006-01"
	displayMonthLayout = "Jan 2006"
)

// FormatMonth renders a stored YYYY-MM value as "Jan 2006". Other input is returned trimmed.
func FormatMonth(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	t, err := time.Parse(storedMonthLayout, v)
	if err != nil {
		return v
	}
	return t.Format(displayMonthLayout)
}

// DateRange joins start and end with " - ", dropping whichever side is empty.
func DateRange(start, end string) string {
	start = FormatMonth(start)
	end = FormatMonth(end)
	switch {
	case start != "" && end != "":
		return start + " - " + end
	case start != "":
		return start
	default:
		return end
	}
}
