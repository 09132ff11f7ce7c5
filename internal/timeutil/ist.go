package timeutil

import (
	"time"
)

// IST is the facility timezone (UTC+5:30). Entry dates and the HH:mm
// time-in / time-out fields are stored as wall-clock values in this zone,
// regardless of where the client runs.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts any time to IST
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// FormatIST formats a time in IST using the given layout
func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

// Common layouts for IST formatting
const (
	DateLayout    = "2006-01-02"
	TimeLayout    = "15:04"
	DisplayLayout = "02-Jan-2006 03:04 PM"
)

// ClockTime returns the given instant as an "HH:mm" IST wall-clock string,
// the form in which time-in and time-out are persisted.
func ClockTime(t time.Time) string {
	return t.In(IST).Format(TimeLayout)
}

// Clock abstracts "now" so the serial allocator and the entry write paths
// can be pinned to a fixed instant under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock in IST.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return Now() }
