package common

import (
	"fmt"
	"time"
)

// Keycap returns the keycap emoji for choice index i (0 → 1️⃣)
func Keycap(i int) string {
	return fmt.Sprintf("%d️⃣", i+1)
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// Plural returns singular when n is 1 and plural otherwise
func Plural(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
