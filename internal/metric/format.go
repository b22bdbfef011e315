package metric

import (
	"math"
	"strconv"
	"time"
)

// TimeLayout is the calendar format used for event and maintenance times.
const TimeLayout = "January 2, 15:04:05"

// NoValue is rendered in place of an absent or NaN value.
const NoValue = "—"

// FormatUnix renders Unix seconds in TimeLayout. A zero timestamp renders
// as the epoch; callers that need "never" must check the raw field.
func FormatUnix(ts int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc).Format(TimeLayout)
}

// RoundValue renders a value rounded to two decimal places, half away from
// zero, without trailing zeros.
func RoundValue(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return NoValue
	}
	f := *v
	switch {
	case math.IsInf(f, 1):
		return "∞"
	case math.IsInf(f, -1):
		return "-∞"
	}
	r := math.Round(f*100) / 100
	if math.IsInf(r, 0) {
		// f*100 overflowed; f is already far beyond two-decimal precision
		r = f
	}
	if r == 0 {
		r = 0 // normalize -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
