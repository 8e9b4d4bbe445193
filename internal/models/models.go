package models

import (
	"fmt"
	"time"
)

const timeOfDayLayout = "15:04:05"

// TimeOfDay is a wall-clock time expressed as seconds since midnight
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from its components
func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// ParseTimeOfDay parses an HH:MM:SS string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(timeOfDayLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
}

// TimeOfDayOf returns the wall-clock part of t
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// MarshalText renders the HH:MM:SS form in JSON and YAML
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts the HH:MM:SS form
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	v, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ISOWeekday returns 1 for Monday through 7 for Sunday
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ScheduleEntry is one recurring weekly open window of a station
type ScheduleEntry struct {
	StationID int       `json:"station_id"`
	Weekday   int       `json:"weekday"`
	Start     TimeOfDay `json:"start"`
	End       TimeOfDay `json:"end"`
}

// Contains reports whether tod lies strictly inside the window
func (e ScheduleEntry) Contains(tod TimeOfDay) bool {
	return e.Start < tod && tod < e.End
}

// ExceptionEntry forces a station closed between Start and End
type ExceptionEntry struct {
	StationID int       `json:"station_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// ActiveAt reports whether the exception covers at. The start bound is
// compared by calendar date only, the end bound by exact instant.
func (e ExceptionEntry) ActiveAt(at time.Time) bool {
	return !DateOf(e.Start).After(DateOf(at)) && e.End.After(at)
}

// DateOf truncates t to midnight in its own location
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AnnotatedScheduleEntry is a ScheduleEntry placed on a concrete date in
// either the current or the following week
type AnnotatedScheduleEntry struct {
	ScheduleEntry
	WeekTag time.Time
}

// Transition is the status a station switches to
type Transition string

const (
	Opened Transition = "opened"
	Closed Transition = "closed"
)

// TransitionPoint is an instant at which the status changes
type TransitionPoint struct {
	Kind    Transition
	At      TimeOfDay
	WeekTag time.Time
}

// Interval spans two consecutive transition points and carries the status
// that takes effect at its end
type Interval struct {
	From    TimeOfDay
	To      TimeOfDay
	Status  Transition
	WeekTag time.Time
}

// NextActionKind classifies a next-action outcome
type NextActionKind int

const (
	// NoData means no interval covers the reference time
	NoData NextActionKind = iota
	// Upcoming means an interval was found
	Upcoming
	// Overridden means an exception is active
	Overridden
)

// NoDataMessage is returned when no transition can be determined
const NoDataMessage = "no data"

// NextAction is the outcome of a next-action query
type NextAction struct {
	Kind      NextActionKind
	Status    Transition
	At        TimeOfDay
	Date      time.Time
	Exception *ExceptionEntry
}

// Message renders the outcome the way the HTTP API reports it
func (a NextAction) Message() string {
	switch a.Kind {
	case Upcoming:
		return fmt.Sprintf("Station will be %s at %s on %s", a.Status, a.At, a.Date.Format(time.DateOnly))
	case Overridden:
		return fmt.Sprintf("Station will be opened at %s", a.Exception.End.Format(time.DateTime))
	default:
		return NoDataMessage
	}
}

// StationSchedule is the weekly table and exceptions of one station
type StationSchedule struct {
	StationID  int              `json:"station_id"`
	Entries    []ScheduleEntry  `json:"entries"`
	Exceptions []ExceptionEntry `json:"exceptions"`
}

// IsOpenResponse is the API response of the open check
type IsOpenResponse struct {
	IsOpen bool `json:"is_open"`
}

// NextActionResponse is the API response of the next-action query
type NextActionResponse struct {
	Msg string `json:"msg"`
}
