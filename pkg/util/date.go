package util

import (
    "time"
    _ "time/tzdata"
)

// TradingDate converts a unix timestamp to the calendar date it falls on in loc,
// returned as midnight UTC so dates from different exchanges compare by value.
func TradingDate(ts int64, loc *time.Location) time.Time {
    if loc == nil {
        loc = time.UTC
    }
    t := time.Unix(ts, 0).In(loc)
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
    return t.Format(time.DateOnly)
}

// YearsBefore returns the same calendar day `years` years earlier.
// Feb 29 maps to Mar 1 on non-leap years, as time.AddDate normalizes.
func YearsBefore(t time.Time, years int) time.Time {
    return t.AddDate(-years, 0, 0)
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
    if name == "" {
        return time.UTC
    }
    loc, err := time.LoadLocation(name)
    if err != nil {
        return time.UTC
    }
    return loc
}
