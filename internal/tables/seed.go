package tables

import (
	"time"

	"github.com/jusunglee/station-hours/internal/models"
)

// Seed returns the built-in demo tables used when no tables file is
// configured. Station 10 opens on weekdays, 11 also on Saturday and 12 on
// Monday, Wednesday and Friday, all in two shifts.
func Seed() ([]models.ScheduleEntry, []models.ExceptionEntry) {
	var schedule []models.ScheduleEntry
	schedule = append(schedule, splitShift(10, 1, 2, 3, 4, 5)...)
	schedule = append(schedule, splitShift(11, 1, 2, 3, 4, 5, 6)...)
	schedule = append(schedule, splitShift(12, 1, 3, 5)...)

	exceptions := []models.ExceptionEntry{
		{StationID: 10, Start: seedTime(2020, 7, 9, 9, 30), End: seedTime(2020, 7, 11, 9, 30)},
		{StationID: 11, Start: seedTime(2020, 7, 8, 9, 30), End: seedTime(2020, 7, 8, 13, 30)},
		{StationID: 12, Start: seedTime(2020, 7, 7, 9, 30), End: seedTime(2020, 7, 8, 9, 30)},
	}
	return schedule, exceptions
}

func splitShift(stationID int, weekdays ...int) []models.ScheduleEntry {
	entries := make([]models.ScheduleEntry, 0, 2*len(weekdays))
	for _, wd := range weekdays {
		entries = append(entries,
			models.ScheduleEntry{
				StationID: stationID,
				Weekday:   wd,
				Start:     models.NewTimeOfDay(9, 30, 0),
				End:       models.NewTimeOfDay(13, 0, 0),
			},
			models.ScheduleEntry{
				StationID: stationID,
				Weekday:   wd,
				Start:     models.NewTimeOfDay(13, 30, 0),
				End:       models.NewTimeOfDay(19, 0, 0),
			},
		)
	}
	return entries
}

func seedTime(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.Local)
}
