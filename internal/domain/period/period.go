// Package period handles the free-text month labels payroll and leave records
// are keyed by ("November", "Nov", "November 2025", "11").
package period

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidMonth = errors.New("invalid month label")

// ParseMonth reads the first word of label as a month name, a three letter
// abbreviation or a number between 1 and 12.
func ParseMonth(label string) (time.Month, error) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return 0, ErrInvalidMonth
	}
	token := strings.ToLower(strings.Trim(fields[0], ",."))
	if n, err := strconv.Atoi(token); err == nil {
		if n < 1 || n > 12 {
			return 0, ErrInvalidMonth
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if token == name || (len(token) == 3 && strings.HasPrefix(name, token)) {
			return m, nil
		}
	}
	return 0, ErrInvalidMonth
}

// Label returns the canonical stored form of a month label.
func Label(label string) (string, error) {
	m, err := ParseMonth(label)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// DaysInMonth is the Gregorian day count of month m in year.
func DaysInMonth(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInMonthLabel combines ParseMonth and DaysInMonth.
func DaysInMonthLabel(label string, year int) (int, error) {
	m, err := ParseMonth(label)
	if err != nil {
		return 0, err
	}
	return DaysInMonth(m, year), nil
}

// ValidYear bounds the years accepted on payroll and leave input.
func ValidYear(year int) bool {
	return year >= 1900 && year <= 9999
}
