// Package notify delivers guardian alerts through pluggable channels.
package notify

import (
	"context"
	"fmt"
	"time"
)

// AbsenceAlert is raised once a student accumulates too many absences on a schedule.
type AbsenceAlert struct {
	StudentID     string
	StudentName   string
	GuardianName  string
	GuardianEmail string
	GuardianPhone string
	ScheduleID    string
	CourseName    string
	Absences      int
	Date          time.Time
}

// Subject returns the message subject line.
func (a AbsenceAlert) Subject() string {
	return fmt.Sprintf("Absence alert: %s", a.StudentName)
}

// Body returns the plain text message.
func (a AbsenceAlert) Body() string {
	greeting := "Dear guardian"
	if a.GuardianName != "" {
		greeting = "Dear " + a.GuardianName
	}
	course := a.CourseName
	if course == "" {
		course = "one of their classes"
	}
	return fmt.Sprintf("%s,\n\n%s has been marked absent %d times in %s. The latest absence was recorded on %s.\n\nPlease contact the academy if you have any questions.\n",
		greeting, a.StudentName, a.Absences, course, a.Date.Format("2006-01-02"))
}

// Notifier delivers absence alerts.
type Notifier interface {
	Notify(ctx context.Context, alert AbsenceAlert) error
}

// GuardianRouter sends email when the guardian has an address on file and falls back otherwise.
type GuardianRouter struct {
	email    Notifier
	fallback Notifier
}

// NewGuardianRouter builds a router. A nil email channel routes everything to the fallback.
func NewGuardianRouter(email, fallback Notifier) *GuardianRouter {
	return &GuardianRouter{email: email, fallback: fallback}
}

// Notify implements Notifier.
func (r *GuardianRouter) Notify(ctx context.Context, alert AbsenceAlert) error {
	if r.email != nil && alert.GuardianEmail != "" {
		return r.email.Notify(ctx, alert)
	}
	if r.fallback == nil {
		return nil
	}
	return r.fallback.Notify(ctx, alert)
}
