package models

import "time"

// DayOfWeek names a weekday in lower case.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// Weekday converts to the time package representation.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	switch d {
	case Sunday:
		return time.Sunday, true
	case Monday:
		return time.Monday, true
	case Tuesday:
		return time.Tuesday, true
	case Wednesday:
		return time.Wednesday, true
	case Thursday:
		return time.Thursday, true
	case Friday:
		return time.Friday, true
	case Saturday:
		return time.Saturday, true
	}
	return 0, false
}

// Schedule is a weekly recurring class slot of a course offering.
type Schedule struct {
	ID               string    `db:"id" json:"id"`
	CourseOfferingID string    `db:"course_offering_id" json:"course_offering_id"`
	DayOfWeek        DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime        string    `db:"start_time" json:"start_time"`
	EndTime          string    `db:"end_time" json:"end_time"`
	Classroom        *string   `db:"classroom" json:"classroom,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleDetail adds offering context.
type ScheduleDetail struct {
	Schedule
	CourseName  string  `db:"course_name" json:"course_name"`
	GroupLabel  string  `db:"group_label" json:"group_label"`
	CycleID     string  `db:"cycle_id" json:"cycle_id"`
	TeacherID   *string `db:"teacher_id" json:"teacher_id,omitempty"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// ScheduleUpdate lists mutable schedule fields.
type ScheduleUpdate struct {
	DayOfWeek *DayOfWeek `json:"day_of_week" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime *string    `json:"start_time"`
	EndTime   *string    `json:"end_time"`
	Classroom *string    `json:"classroom" validate:"omitempty,max=50"`
}

// Empty reports whether no field is set.
func (u ScheduleUpdate) Empty() bool {
	return u.DayOfWeek == nil && u.StartTime == nil && u.EndTime == nil && u.Classroom == nil
}
