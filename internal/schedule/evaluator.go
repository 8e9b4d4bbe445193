package schedule

import (
	"time"

	"github.com/jusunglee/station-hours/internal/models"
	"github.com/jusunglee/station-hours/internal/store"
)

// IsCurrentlyOpen reports whether at falls strictly inside one of the
// station's windows for at's weekday
func IsCurrentlyOpen(src store.ScheduleSource, stationID int, at time.Time) bool {
	weekday := models.ISOWeekday(at)
	tod := models.TimeOfDayOf(at)
	for _, entry := range src.Schedule(stationID) {
		if entry.Weekday == weekday && entry.Contains(tod) {
			return true
		}
	}
	return false
}

// FindNextAction looks up the interval strictly containing at's time of day
// and reports the status that begins at its end
func FindNextAction(src store.ScheduleSource, stationID int, at time.Time) models.NextAction {
	tod := models.TimeOfDayOf(at)
	for _, interval := range BuildIntervals(src, stationID, at) {
		if interval.From < tod && tod < interval.To {
			return models.NextAction{
				Kind:   models.Upcoming,
				Status: interval.Status,
				At:     interval.To,
				Date:   interval.WeekTag,
			}
		}
	}
	return models.NextAction{Kind: models.NoData}
}

// ActiveException returns the first exception in table order covering at
func ActiveException(src store.ExceptionSource, stationID int, at time.Time) (models.ExceptionEntry, bool) {
	for _, exc := range src.Exceptions(stationID) {
		if exc.ActiveAt(at) {
			return exc, true
		}
	}
	return models.ExceptionEntry{}, false
}

// Guard runs op unless an exception is active for the station at that
// instant, in which case op is skipped and the exception is returned
func Guard[T any](src store.ExceptionSource, stationID int, at time.Time, op func(int, time.Time) T) (T, *models.ExceptionEntry) {
	if exc, ok := ActiveException(src, stationID, at); ok {
		var zero T
		return zero, &exc
	}
	return op(stationID, at), nil
}

// Evaluator answers the two station queries against a pair of tables
type Evaluator struct {
	schedule   store.ScheduleSource
	exceptions store.ExceptionSource
}

// NewEvaluator creates an evaluator over the given sources
func NewEvaluator(schedule store.ScheduleSource, exceptions store.ExceptionSource) *Evaluator {
	return &Evaluator{schedule: schedule, exceptions: exceptions}
}

// IsOpen is the open check with exception precedence
func (e *Evaluator) IsOpen(stationID int, at time.Time) bool {
	open, exc := Guard(e.exceptions, stationID, at, e.isCurrentlyOpen)
	if exc != nil {
		return false
	}
	return open
}

// NextAction is the next-transition lookup with exception precedence
func (e *Evaluator) NextAction(stationID int, at time.Time) models.NextAction {
	action, exc := Guard(e.exceptions, stationID, at, e.findNextAction)
	if exc != nil {
		return models.NextAction{Kind: models.Overridden, Exception: exc}
	}
	return action
}

func (e *Evaluator) isCurrentlyOpen(stationID int, at time.Time) bool {
	return IsCurrentlyOpen(e.schedule, stationID, at)
}

func (e *Evaluator) findNextAction(stationID int, at time.Time) models.NextAction {
	return FindNextAction(e.schedule, stationID, at)
}
