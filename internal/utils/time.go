package utils

import "time"

// DayLayout formats calendar days, e.g. award dates
const DayLayout = "2006-01-02"

var loc = time.Local

// SetLocation sets the location calendar days are evaluated in
func SetLocation(l *time.Location) {
	if l != nil {
		loc = l
	}
}

// Location returns the configured server location
func Location() *time.Location {
	return loc
}

// Now returns the current time in the server location
func Now() time.Time {
	return time.Now().In(loc)
}

// DayRange returns [start, end) of the calendar day containing t, in t's location
func DayRange(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1)
	return
}

// DayKey formats the calendar day containing t
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}
