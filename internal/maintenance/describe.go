package maintenance

import (
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rileyhilliard/mdash/internal/metric"
)

// ActiveLabel is shown when the window has no remaining time.
const ActiveLabel = "Maintenance"

// AttributionTitle heads the "who set it" block in the maintenance menu.
const AttributionTitle = "Maintenance was set"

const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 365 * day

	maxDeltaSeconds = int64(math.MaxInt64 / time.Second)
)

// magnitudes follow the familiar relative-time buckets ("an hour",
// "3 days"). Buckets only grow with the duration, so a longer window never
// renders as a smaller unit.
var magnitudes = []humanize.RelTimeMagnitude{
	{D: 45 * time.Second, Format: "a few seconds", DivBy: time.Second},
	{D: 90 * time.Second, Format: "a minute", DivBy: time.Second},
	{D: 3 * time.Minute, Format: "2 minutes", DivBy: time.Second},
	{D: 45 * time.Minute, Format: "%d minutes", DivBy: time.Minute},
	{D: 90 * time.Minute, Format: "an hour", DivBy: time.Second},
	{D: 3 * time.Hour, Format: "2 hours", DivBy: time.Second},
	{D: 22 * time.Hour, Format: "%d hours", DivBy: time.Hour},
	{D: 36 * time.Hour, Format: "a day", DivBy: time.Second},
	{D: 3 * day, Format: "2 days", DivBy: time.Second},
	{D: 26 * day, Format: "%d days", DivBy: day},
	{D: 45 * day, Format: "a month", DivBy: time.Second},
	{D: 90 * day, Format: "2 months", DivBy: time.Second},
	{D: 320 * day, Format: "%d months", DivBy: month},
	{D: 548 * day, Format: "a year", DivBy: time.Second},
	{D: 730 * day, Format: "2 years", DivBy: time.Second},
	{D: math.MaxInt64, Format: "%d years", DivBy: year},
}

// Humanize renders a positive duration as a rough phrase such as
// "an hour" or "3 days".
func Humanize(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	base := time.Unix(0, 0)
	return humanize.CustomRelTime(base, base.Add(d), "", "", magnitudes)
}

// Describe returns the caption for a maintenance window expiring at expiry
// (Unix seconds). A window with no time left, including an unset expiry of
// 0, reads as ActiveLabel; otherwise the remaining time is humanized.
func Describe(expiry int64, now time.Time) string {
	delta := expiry - now.Unix()
	if delta <= 0 {
		return ActiveLabel
	}
	if delta > maxDeltaSeconds {
		return Humanize(time.Duration(math.MaxInt64))
	}
	return Humanize(time.Duration(delta) * time.Second)
}

// Attribution returns "by {user} at {time}" when who carries both a user
// and a start time.
func Attribution(who metric.Who, loc *time.Location) (string, bool) {
	if !who.Present() {
		return "", false
	}
	return "by " + who.StartUser + " at " + metric.FormatUnix(who.StartTime, loc), true
}
