package utils

import (
	"log"
	"time"
)

// MarketTimezone is the exchange timezone all trading dates are anchored to.
const MarketTimezone = "America/New_York"

// TimeNowET returns the current time in the US market timezone.
func TimeNowET() time.Time {
	loc, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// TradingDate truncates t to a bare calendar date in UTC, the canonical form
// for the date columns.
func TradingDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a canonical trading date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return TradingDate(t), nil
}

// FormatDate renders a trading date back to YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
