package models

import (
	"fmt"
	"time"
)

// OfferingKind discriminates the two offering variants.
type OfferingKind string

const (
	OfferingCourse  OfferingKind = "course"
	OfferingPackage OfferingKind = "package"
)

// OfferingRef addresses exactly one course offering or package offering.
type OfferingRef struct {
	Type OfferingKind `json:"type" validate:"required,oneof=course package"`
	ID   string       `json:"id" validate:"required,uuid"`
}

// String renders the reference for messages.
func (r OfferingRef) String() string {
	return fmt.Sprintf("%s offering %s", r.Type, r.ID)
}

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"
	EnrollmentStatusAccepted EnrollmentStatus = "accepted"
	EnrollmentStatusRejected EnrollmentStatus = "rejected"
)

// Valid reports whether the status is a known value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusPending, EnrollmentStatusAccepted, EnrollmentStatusRejected:
		return true
	}
	return false
}

// Enrollment registers a student to one offering. Exactly one offering column is set.
type Enrollment struct {
	ID                string           `db:"id" json:"id"`
	StudentID         string           `db:"student_id" json:"student_id"`
	EnrollmentType    OfferingKind     `db:"enrollment_type" json:"enrollment_type"`
	CourseOfferingID  *string          `db:"course_offering_id" json:"course_offering_id,omitempty"`
	PackageOfferingID *string          `db:"package_offering_id" json:"package_offering_id,omitempty"`
	Status            EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt        time.Time        `db:"enrolled_at" json:"enrolled_at"`
	UpdatedAt         time.Time        `db:"updated_at" json:"updated_at"`
}

// Ref returns the offering the enrollment addresses.
func (e Enrollment) Ref() OfferingRef {
	if e.EnrollmentType == OfferingPackage && e.PackageOfferingID != nil {
		return OfferingRef{Type: OfferingPackage, ID: *e.PackageOfferingID}
	}
	if e.CourseOfferingID != nil {
		return OfferingRef{Type: OfferingCourse, ID: *e.CourseOfferingID}
	}
	return OfferingRef{Type: e.EnrollmentType}
}

// NewEnrollment builds a pending enrollment for the given offering.
func NewEnrollment(studentID string, ref OfferingRef) *Enrollment {
	e := &Enrollment{StudentID: studentID, EnrollmentType: ref.Type, Status: EnrollmentStatusPending}
	id := ref.ID
	if ref.Type == OfferingPackage {
		e.PackageOfferingID = &id
	} else {
		e.CourseOfferingID = &id
	}
	return e
}

// EnrollmentDetail enriches Enrollment with student and offering names.
type EnrollmentDetail struct {
	Enrollment
	StudentName string   `db:"student_name" json:"student_name"`
	StudentDNI  string   `db:"student_dni" json:"student_dni"`
	ItemName    string   `db:"item_name" json:"item_name"`
	GroupLabel  string   `db:"group_label" json:"group_label"`
	CycleName   string   `db:"cycle_name" json:"cycle_name"`
	TotalAmount *float64 `db:"total_amount" json:"total_amount,omitempty"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	Status    EnrollmentStatus
	Type      OfferingKind
	CycleID   string
}

// EnrollmentResult reports what one enroll item created.
type EnrollmentResult struct {
	EnrollmentID  string      `json:"enrollment_id"`
	PlanID        string      `json:"payment_plan_id"`
	InstallmentID string      `json:"installment_id"`
	Offering      OfferingRef `json:"offering"`
	Amount        float64     `json:"amount"`
}
