package models

import "time"

// Student represents a learner registered in the academy.
type Student struct {
	ID           string    `db:"id" json:"id"`
	DNI          string    `db:"dni" json:"dni"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	ParentName   *string   `db:"parent_name" json:"parent_name,omitempty"`
	ParentPhone  *string   `db:"parent_phone" json:"parent_phone,omitempty"`
	ParentEmail  *string   `db:"parent_email" json:"parent_email,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last names.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

// StudentUpdate lists the student fields an update may touch. Nil means unchanged.
type StudentUpdate struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	ParentName  *string `json:"parent_name" validate:"omitempty,max=150"`
	ParentPhone *string `json:"parent_phone" validate:"omitempty,max=30"`
	ParentEmail *string `json:"parent_email" validate:"omitempty,email"`
}

// Empty reports whether no field is set.
func (u StudentUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil &&
		u.ParentName == nil && u.ParentPhone == nil && u.ParentEmail == nil
}
