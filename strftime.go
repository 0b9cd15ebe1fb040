package main

import (
	"strings"
	"time"
)

// formatTime renders strftime-style tokens in format. Anything else in the
// format is copied through literally, which time.Format would not do.
func formatTime(format string, t time.Time) string {
	r := strings.NewReplacer(
		"%%", "%",
		"%Y", t.Format("2006"),
		"%y", t.Format("06"),
		"%m", t.Format("01"),
		"%d", t.Format("02"),
		"%H", t.Format("15"),
		"%I", t.Format("03"),
		"%M", t.Format("04"),
		"%S", t.Format("05"),
		"%p", t.Format("PM"),
		"%a", t.Format("Mon"),
		"%A", t.Format("Monday"),
		"%b", t.Format("Jan"),
		"%B", t.Format("January"),
	)
	return r.Replace(format)
}
