package models

import "time"

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day, stored as "YYYY-MM-DD".
type Date string

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

func (d Date) IsZero() bool {
	return d == ""
}

func (d Date) String() string {
	return string(d)
}
