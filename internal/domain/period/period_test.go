package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	cases := map[string]time.Month{
		"November":      time.November,
		"november":      time.November,
		"Nov":           time.November,
		"November 2025": time.November,
		" feb ":         time.February,
		"12":            time.December,
		"Sept":          0,
	}
	for input, want := range cases {
		got, err := ParseMonth(input)
		if want == 0 {
			assert.ErrorIs(t, err, ErrInvalidMonth, input)
			continue
		}
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseMonthRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "13", "0", "Smarch"} {
		_, err := ParseMonth(input)
		assert.ErrorIs(t, err, ErrInvalidMonth, input)
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 30, DaysInMonth(time.November, 2025))
	assert.Equal(t, 31, DaysInMonth(time.December, 2025))
	assert.Equal(t, 28, DaysInMonth(time.February, 2025))
	assert.Equal(t, 29, DaysInMonth(time.February, 2024))
	assert.Equal(t, 28, DaysInMonth(time.February, 1900))
	assert.Equal(t, 29, DaysInMonth(time.February, 2000))
}

func TestDaysInMonthLabel(t *testing.T) {
	days, err := DaysInMonthLabel("November", 2025)
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	_, err = DaysInMonthLabel("Novembre", 2025)
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	label, err := Label("nov 2025")
	require.NoError(t, err)
	assert.Equal(t, "November", label)
}
