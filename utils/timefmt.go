package utils

import "time"

const sessionTimeLayout = "Mon, 02 Jan 2006 at 15:04 (MST)"

// FormatSessionTime renders t in the receiver's time zone for use in
// notification messages. A nil or unknown zone falls back to UTC.
func FormatSessionTime(t time.Time, zone *string) string {
	loc := time.UTC
	if zone != nil && *zone != "" {
		if l, err := time.LoadLocation(*zone); err == nil {
			loc = l
		}
	}
	return t.In(loc).Format(sessionTimeLayout)
}
