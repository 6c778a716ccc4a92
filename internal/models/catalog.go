package models

import "time"

// CycleStatus tracks the lifecycle of an academic cycle.
type CycleStatus string

const (
	CycleStatusPlanned CycleStatus = "planned"
	CycleStatusActive  CycleStatus = "active"
	CycleStatusClosed  CycleStatus = "closed"
)

// Cycle is a dated academic period that scopes offerings.
type Cycle struct {
	ID             string      `db:"id" json:"id"`
	Name           string      `db:"name" json:"name"`
	StartDate      time.Time   `db:"start_date" json:"start_date"`
	EndDate        time.Time   `db:"end_date" json:"end_date"`
	DurationMonths int         `db:"duration_months" json:"duration_months"`
	Status         CycleStatus `db:"status" json:"status"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}

// CycleUpdate lists mutable cycle fields.
type CycleUpdate struct {
	Name           *string      `json:"name" validate:"omitempty,min=1,max=100"`
	StartDate      *time.Time   `json:"start_date"`
	EndDate        *time.Time   `json:"end_date"`
	DurationMonths *int         `json:"duration_months" validate:"omitempty,min=0"`
	Status         *CycleStatus `json:"status" validate:"omitempty,oneof=planned active closed"`
}

// Empty reports whether no field is set.
func (u CycleUpdate) Empty() bool {
	return u.Name == nil && u.StartDate == nil && u.EndDate == nil && u.DurationMonths == nil && u.Status == nil
}

// Course is a catalog subject with a base price.
type Course struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	BasePrice   float64   `db:"base_price" json:"base_price"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CourseUpdate lists mutable course fields.
type CourseUpdate struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price" validate:"omitempty,gte=0"`
}

// Empty reports whether no field is set.
func (u CourseUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.BasePrice == nil
}

// Package bundles several courses under one price.
type Package struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	BasePrice   float64   `db:"base_price" json:"base_price"`
	CourseIDs   []string  `db:"-" json:"course_ids"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PackageUpdate lists mutable package fields. CourseIDs replaces the bundle when set.
type PackageUpdate struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=150"`
	Description *string   `json:"description"`
	BasePrice   *float64  `json:"base_price" validate:"omitempty,gte=0"`
	CourseIDs   *[]string `json:"course_ids" validate:"omitempty,dive,uuid"`
}

// Empty reports whether no field is set.
func (u PackageUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.BasePrice == nil && u.CourseIDs == nil
}

// CourseOffering is a course taught in a cycle for a group.
type CourseOffering struct {
	ID            string    `db:"id" json:"id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	CycleID       string    `db:"cycle_id" json:"cycle_id"`
	GroupLabel    string    `db:"group_label" json:"group_label"`
	TeacherID     *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	PriceOverride *float64  `db:"price_override" json:"price_override,omitempty"`
	Capacity      *int      `db:"capacity" json:"capacity,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CourseOfferingDetail joins catalog names for listings.
type CourseOfferingDetail struct {
	CourseOffering
	CourseName  string  `db:"course_name" json:"course_name"`
	CycleName   string  `db:"cycle_name" json:"cycle_name"`
	BasePrice   float64 `db:"base_price" json:"base_price"`
	TeacherName *string `db:"teacher_name" json:"teacher_name,omitempty"`
}

// EffectivePrice is the override when present, otherwise the course price.
func (d CourseOfferingDetail) EffectivePrice() float64 {
	if d.PriceOverride != nil {
		return *d.PriceOverride
	}
	return d.BasePrice
}

// CourseOfferingUpdate lists mutable course offering fields.
type CourseOfferingUpdate struct {
	GroupLabel    *string  `json:"group_label" validate:"omitempty,min=1,max=20"`
	TeacherID     *string  `json:"teacher_id" validate:"omitempty,uuid"`
	PriceOverride *float64 `json:"price_override" validate:"omitempty,gte=0"`
	Capacity      *int     `json:"capacity" validate:"omitempty,gt=0"`
}

// Empty reports whether no field is set.
func (u CourseOfferingUpdate) Empty() bool {
	return u.GroupLabel == nil && u.TeacherID == nil && u.PriceOverride == nil && u.Capacity == nil
}

// PackageOffering is a package offered in a cycle, mapped to concrete course offerings.
type PackageOffering struct {
	ID                string    `db:"id" json:"id"`
	PackageID         string    `db:"package_id" json:"package_id"`
	CycleID           string    `db:"cycle_id" json:"cycle_id"`
	GroupLabel        string    `db:"group_label" json:"group_label"`
	PriceOverride     *float64  `db:"price_override" json:"price_override,omitempty"`
	Capacity          *int      `db:"capacity" json:"capacity,omitempty"`
	CourseOfferingIDs []string  `db:"-" json:"course_offering_ids"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// PackageOfferingDetail joins catalog names for listings.
type PackageOfferingDetail struct {
	PackageOffering
	PackageName string  `db:"package_name" json:"package_name"`
	CycleName   string  `db:"cycle_name" json:"cycle_name"`
	BasePrice   float64 `db:"base_price" json:"base_price"`
}

// EffectivePrice is the override when present, otherwise the package price.
func (d PackageOfferingDetail) EffectivePrice() float64 {
	if d.PriceOverride != nil {
		return *d.PriceOverride
	}
	return d.BasePrice
}
