package schedule

import (
	"sort"
	"time"

	"github.com/jusunglee/station-hours/internal/models"
	"github.com/jusunglee/station-hours/internal/store"
)

// windowSize is the number of annotated entries evaluated from the
// reference weekday onwards
const windowSize = 7

// weekStart returns midnight of the Monday of at's ISO week
func weekStart(at time.Time) time.Time {
	return models.DateOf(at).AddDate(0, 0, -(models.ISOWeekday(at) - 1))
}

// Annotate lays the weekly entries out over the week containing at and the
// week after it. Each copy is tagged with the calendar date it falls on.
func Annotate(entries []models.ScheduleEntry, at time.Time) []models.AnnotatedScheduleEntry {
	sorted := make([]models.ScheduleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Weekday != sorted[j].Weekday {
			return sorted[i].Weekday < sorted[j].Weekday
		}
		return sorted[i].Start < sorted[j].Start
	})

	current := weekStart(at)
	weeks := []time.Time{current, current.AddDate(0, 0, 7)}

	annotated := make([]models.AnnotatedScheduleEntry, 0, len(weeks)*len(sorted))
	for _, week := range weeks {
		for _, entry := range sorted {
			annotated = append(annotated, models.AnnotatedScheduleEntry{
				ScheduleEntry: entry,
				WeekTag:       week.AddDate(0, 0, entry.Weekday-1),
			})
		}
	}
	return annotated
}

// Window returns up to seven annotated entries starting at the first entry
// of at's weekday. It is empty when that weekday has no entries.
func Window(annotated []models.AnnotatedScheduleEntry, at time.Time) []models.AnnotatedScheduleEntry {
	weekday := models.ISOWeekday(at)
	for i, entry := range annotated {
		if entry.Weekday != weekday {
			continue
		}
		end := i + windowSize
		if end > len(annotated) {
			end = len(annotated)
		}
		return annotated[i:end]
	}
	return nil
}

// TransitionPoints turns each entry into an opening and a closing point
func TransitionPoints(window []models.AnnotatedScheduleEntry) []models.TransitionPoint {
	points := make([]models.TransitionPoint, 0, 2*len(window))
	for _, entry := range window {
		points = append(points,
			models.TransitionPoint{Kind: models.Opened, At: entry.Start, WeekTag: entry.WeekTag},
			models.TransitionPoint{Kind: models.Closed, At: entry.End, WeekTag: entry.WeekTag},
		)
	}
	return points
}

// Intervals pairs consecutive points. The kind of the first point is dropped.
func Intervals(points []models.TransitionPoint) []models.Interval {
	if len(points) < 2 {
		return nil
	}
	intervals := make([]models.Interval, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		next := points[i+1]
		intervals = append(intervals, models.Interval{
			From:    points[i].At,
			To:      next.At,
			Status:  next.Kind,
			WeekTag: next.WeekTag,
		})
	}
	return intervals
}

// BuildIntervals runs the full schedule-to-interval pipeline for a station.
// An empty result means the station has no entries on at's weekday.
func BuildIntervals(src store.ScheduleSource, stationID int, at time.Time) []models.Interval {
	annotated := Annotate(src.Schedule(stationID), at)
	return Intervals(TransitionPoints(Window(annotated, at)))
}
