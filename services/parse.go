package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// csvDateLayout is the only date format accepted on import and emitted on export.
const csvDateLayout = "2006-01-02"

const timestampLayout = "2006-01-02 15:04:05"

// ParseCSVDate parses a YYYY-MM-DD date. Blank input yields nil.
func ParseCSVDate(text string) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	t, err := time.Parse(csvDateLayout, text)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", text)
	}
	return &t, nil
}

// ParseOptionalFloat parses a decimal number. Blank input yields nil.
func ParseOptionalFloat(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return &v, nil
}

// ParseIssueSize extracts the leading numeric value from free-text issue
// size such as "1,200 Cr" or "₹450.5 Cr". Returns nil when no number is
// present; callers treat that as absent, not zero.
func ParseIssueSize(text string) *float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var b strings.Builder
	started := false
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			started = true
		case r == '.' && started:
			b.WriteRune(r)
		case r == ',':
			// thousands separator
		case r == '-' && !started && b.Len() == 0:
			b.WriteRune(r)
		default:
			if started {
				goto done
			}
		}
	}
done:
	if b.Len() == 0 {
		return nil
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil
	}
	return &v
}

// FormatOptionalDate renders a date as YYYY-MM-DD, or "" when absent.
func FormatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(csvDateLayout)
}

// FormatOptionalFloat renders a decimal with two digits, or "" when absent.
func FormatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
