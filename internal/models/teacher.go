package models

import "time"

// Teacher represents an instructor that can be assigned to course offerings.
type Teacher struct {
	ID             string    `db:"id" json:"id"`
	DNI            string    `db:"dni" json:"dni"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherUpdate lists the teacher fields an update may touch.
type TeacherUpdate struct {
	FirstName      *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Specialization *string `json:"specialization" validate:"omitempty,max=150"`
}

// Empty reports whether no field is set.
func (u TeacherUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil && u.Email == nil && u.Specialization == nil
}

// TeacherStudent is a student taking one of the teacher's course offerings.
type TeacherStudent struct {
	StudentID        string `db:"student_id" json:"student_id"`
	DNI              string `db:"dni" json:"dni"`
	FirstName        string `db:"first_name" json:"first_name"`
	LastName         string `db:"last_name" json:"last_name"`
	CourseOfferingID string `db:"course_offering_id" json:"course_offering_id"`
	CourseName       string `db:"course_name" json:"course_name"`
	GroupLabel       string `db:"group_label" json:"group_label"`
}
