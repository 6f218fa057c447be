package pkg

import "time"

// GetFirstTimeOfCurrentWeek returns 00:00 UTC on the current week's Monday.
func GetFirstTimeOfCurrentWeek() time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(today.Weekday()) + 6) % 7

	return today.AddDate(0, 0, -offset)
}
