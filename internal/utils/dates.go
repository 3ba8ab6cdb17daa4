package utils

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// NextOptionsExpiration returns the next third Friday for options expiration:
// - Third Friday of the current month if we haven't reached the expiration week yet
// - Third Friday of the next month if we're in or past the expiration week
func NextOptionsExpiration(now time.Time) string {
	thirdFriday := thirdFridayOf(now.Year(), now.Month(), now.Location())

	weekStart := thirdFriday.AddDate(0, 0, -7)
	if now.After(weekStart) || now.Equal(weekStart) {
		next := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
		return thirdFridayOf(next.Year(), next.Month(), now.Location()).Format(dateLayout)
	}

	return thirdFriday.Format(dateLayout)
}

// DaysToExpiration counts calendar days from now's date until expiration
// (YYYY-MM-DD). Expiring today is zero days; a past date is an error.
func DaysToExpiration(expiration string, now time.Time) (int, error) {
	exp, err := time.ParseInLocation(dateLayout, expiration, now.Location())
	if err != nil {
		return 0, fmt.Errorf("invalid expiration date format: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(math.Round(exp.Sub(today).Hours() / 24))
	if days < 0 {
		return 0, fmt.Errorf("expiration date %s is in the past", expiration)
	}
	return days, nil
}

func thirdFridayOf(year int, month time.Month, loc *time.Location) time.Time {
	firstFriday := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	for firstFriday.Weekday() != time.Friday {
		firstFriday = firstFriday.AddDate(0, 0, 1)
	}
	return firstFriday.AddDate(0, 0, 14)
}
