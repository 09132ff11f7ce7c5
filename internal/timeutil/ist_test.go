package timeutil_test

import (
	"testing"
	"time"

	"gate-backend/internal/timeutil"

	"github.com/stretchr/testify/assert"
)

func TestClockTimeConvertsToIST(t *testing.T) {
	// 20:00 UTC is 01:30 IST the next day.
	utc := time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "01:30", timeutil.ClockTime(utc))
	assert.Equal(t, "2024-04-01", timeutil.FormatIST(utc, timeutil.DateLayout))
}

func TestToISTKeepsInstant(t *testing.T) {
	utc := time.Date(2024, time.November, 3, 9, 30, 0, 0, time.UTC)
	ist := timeutil.ToIST(utc)
	assert.True(t, utc.Equal(ist))
	assert.Equal(t, "15:00", ist.Format(timeutil.TimeLayout))
}

func TestDisplayLayout(t *testing.T) {
	utc := time.Date(2024, time.November, 3, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "03-Nov-2024 03:00 PM", timeutil.FormatIST(utc, timeutil.DisplayLayout))
}
