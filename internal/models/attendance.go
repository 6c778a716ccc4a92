package models

import "time"

// AttendanceStatus marks a student present or absent for a session.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "presente"
	AttendanceAbsent  AttendanceStatus = "ausente"
)

// Attendance is one mark for (schedule, student, date).
type Attendance struct {
	ID         string           `db:"id" json:"id"`
	ScheduleID string           `db:"schedule_id" json:"schedule_id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	Date       time.Time        `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	MarkedBy   *string          `db:"marked_by" json:"marked_by,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// AttendanceRecord adds the student's name for roll-call listings.
type AttendanceRecord struct {
	Attendance
	StudentDNI  string `db:"student_dni" json:"student_dni"`
	StudentName string `db:"student_name" json:"student_name"`
}

// AttendanceHistoryEntry is a mark with its class context.
type AttendanceHistoryEntry struct {
	Attendance
	CourseName string    `db:"course_name" json:"course_name"`
	GroupLabel string    `db:"group_label" json:"group_label"`
	DayOfWeek  DayOfWeek `db:"day_of_week" json:"day_of_week"`
	StartTime  string    `db:"start_time" json:"start_time"`
}

// AttendanceHistory aggregates a student's marks.
type AttendanceHistory struct {
	StudentID string                   `json:"student_id"`
	Present   int                      `json:"present"`
	Absent    int                      `json:"absent"`
	Records   []AttendanceHistoryEntry `json:"records"`
}

// AttendanceResult reports a mark and whether it raised an alert.
type AttendanceResult struct {
	Attendance
	Absences    int  `json:"absences"`
	AlertRaised bool `json:"alert_raised"`
}

// AlertContact is what the absence alert needs about a student and class.
type AlertContact struct {
	StudentID   string  `db:"student_id"`
	FirstName   string  `db:"first_name"`
	LastName    string  `db:"last_name"`
	ParentName  *string `db:"parent_name"`
	ParentPhone *string `db:"parent_phone"`
	ParentEmail *string `db:"parent_email"`
	CourseName  string  `db:"course_name"`
}
