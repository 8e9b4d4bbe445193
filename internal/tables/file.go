package tables

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jusunglee/station-hours/internal/models"
)

// File is the on-disk layout of a tables file:
//
//	schedule:
//	  - station_id: 10
//	    weekday: 1
//	    start: "09:30:00"
//	    end: "13:00:00"
//	exceptions:
//	  - station_id: 10
//	    start: "2020-07-09 09:30:00"
//	    end: "2020-07-11 09:30:00"
type File struct {
	Schedule   []ScheduleRow  `yaml:"schedule"`
	Exceptions []ExceptionRow `yaml:"exceptions"`
}

// ScheduleRow is one weekly window as written in the file
type ScheduleRow struct {
	StationID int              `yaml:"station_id"`
	Weekday   int              `yaml:"weekday"`
	Start     models.TimeOfDay `yaml:"start"`
	End       models.TimeOfDay `yaml:"end"`
}

// ExceptionRow is one closure as written in the file. Times are local
// wall-clock "YYYY-MM-DD HH:MM:SS" strings.
type ExceptionRow struct {
	StationID int    `yaml:"station_id"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
}

// LoadFile reads and validates a tables file
func LoadFile(path string) ([]models.ScheduleEntry, []models.ExceptionEntry, error) {
	if path == "" {
		return nil, nil, errors.New("tables path is empty")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open tables file: %w", err)
	}
	defer f.Close()

	schedule, exceptions, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return schedule, exceptions, nil
}

// Decode parses tables from YAML, keeping row order
func Decode(r io.Reader) ([]models.ScheduleEntry, []models.ExceptionEntry, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("decode tables: %w", err)
	}

	schedule := make([]models.ScheduleEntry, 0, len(file.Schedule))
	for i, row := range file.Schedule {
		if row.Weekday < 1 || row.Weekday > 7 {
			return nil, nil, fmt.Errorf("schedule row %d: weekday %d out of range 1..7", i, row.Weekday)
		}
		if row.Start >= row.End {
			return nil, nil, fmt.Errorf("schedule row %d: start %s not before end %s", i, row.Start, row.End)
		}
		schedule = append(schedule, models.ScheduleEntry{
			StationID: row.StationID,
			Weekday:   row.Weekday,
			Start:     row.Start,
			End:       row.End,
		})
	}

	exceptions := make([]models.ExceptionEntry, 0, len(file.Exceptions))
	for i, row := range file.Exceptions {
		start, err := time.ParseInLocation(time.DateTime, row.Start, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("exception row %d: start: %w", i, err)
		}
		end, err := time.ParseInLocation(time.DateTime, row.End, time.Local)
		if err != nil {
			return nil, nil, fmt.Errorf("exception row %d: end: %w", i, err)
		}
		if !start.Before(end) {
			return nil, nil, fmt.Errorf("exception row %d: start %s not before end %s", i, row.Start, row.End)
		}
		exceptions = append(exceptions, models.ExceptionEntry{
			StationID: row.StationID,
			Start:     start,
			End:       end,
		})
	}

	return schedule, exceptions, nil
}
