package chime

import "time"

// ClampCount coerces n into the range of generated counts.
func ClampCount(n int) int {
	return min(max(n, 1), MaxCount)
}

// CountForTime returns how many strikes sound at t: the 12-hour clock hour on
// the hour, one strike on any other quarter.
func CountForTime(t time.Time) int {
	if t.Minute() != 0 {
		return 1
	}
	hour := t.Hour() % 12
	if hour == 0 {
		return 12
	}
	return hour
}

// NextChime returns the first quarter-hour boundary strictly after t and the
// strike count that plays there.
func NextChime(t time.Time) (time.Time, int) {
	base := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())

	var next time.Time
	switch m := t.Minute(); {
	case m < 15:
		next = base.Add(15 * time.Minute)
	case m < 30:
		next = base.Add(30 * time.Minute)
	case m < 45:
		next = base.Add(45 * time.Minute)
	default:
		next = base.Add(time.Hour)
	}

	return next, CountForTime(next)
}

// AssetName is the generated file that plays for count strikes.
func AssetName(prefix string, count int, ext string) string {
	return OutputName(prefix, ClampCount(count), ext)
}
