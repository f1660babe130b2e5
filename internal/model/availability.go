package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekday is a Monday-first day of the week, stored as its English name.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Legacy French day names from the original availability records.
var weekdayAliases = map[string]Weekday{
	"Lundi": Monday, "Mardi": Tuesday, "Mercredi": Wednesday,
	"Jeudi": Thursday, "Vendredi": Friday, "Samedi": Saturday, "Dimanche": Sunday,
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

func (d Weekday) MarshalText() ([]byte, error) {
	if d < Monday || d > Sunday {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(weekdayNames[d]), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value and Scan keep the text representation in the database.
func (d Weekday) Value() (interface{}, error) {
	b, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Weekday) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Weekday", src)
	}
}

// ParseWeekday accepts English and legacy French day names.
func ParseWeekday(s string) (Weekday, error) {
	for i, name := range weekdayNames {
		if s == name {
			return Weekday(i), nil
		}
	}
	if d, ok := weekdayAliases[s]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown day of week %q", s)
}

// WeekdayOf converts a timestamp's day to the Monday-first enum.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday is Sunday-first.
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// WorkingHours is one recurring weekly open range for a doctor. Multiple
// rows per doctor and day are permitted. Invariant: Start < End.
type WorkingHours struct {
	ID       uuid.UUID `db:"id" json:"id"`
	DoctorID uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Day      Weekday   `db:"day_of_week" json:"day_of_week"`
	Start    string    `db:"start_time" json:"start_time"`
	End      string    `db:"end_time" json:"end_time"`
}

type CreateWorkingHoursRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	DayOfWeek string    `json:"day_of_week" binding:"required,weekday"`
	StartTime string    `json:"start_time" binding:"required,clock"`
	EndTime   string    `json:"end_time" binding:"required,clock"`
}
