package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// offeringJoins resolves the item, group and cycle of either offering variant.
const offeringJoins = `
        LEFT JOIN course_offerings co ON co.id = e.course_offering_id
        LEFT JOIN courses c ON c.id = co.course_id
        LEFT JOIN package_offerings po ON po.id = e.package_offering_id
        LEFT JOIN packages p ON p.id = po.package_id
        LEFT JOIN cycles cy ON cy.id = COALESCE(co.cycle_id, po.cycle_id)`

const enrollmentColumns = `e.id, e.student_id, e.enrollment_type, e.course_offering_id, e.package_offering_id, e.status, e.enrolled_at, e.updated_at`

const enrollmentDetailSelect = `SELECT ` + enrollmentColumns + `,
        s.first_name || ' ' || s.last_name AS student_name, s.dni AS student_dni,
        COALESCE(c.name, p.name, '') AS item_name,
        COALESCE(co.group_label, po.group_label, '') AS group_label,
        COALESCE(cy.name, '') AS cycle_name,
        pp.total_amount
        FROM enrollments e
        JOIN students s ON s.id = e.student_id` + offeringJoins + `
        LEFT JOIN payment_plans pp ON pp.enrollment_id = e.id`

// BeginTxx starts a transaction for multi-step enrollment writes.
func (r *EnrollmentRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

// Create persists a new enrollment. A unique index violation yields ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error {
	target := pick(r.db, exec)
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = now
	}
	enrollment.UpdatedAt = now
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusPending
	}
	const query = `INSERT INTO enrollments (id, student_id, enrollment_type, course_offering_id, package_offering_id, status, enrolled_at, updated_at)
        VALUES (:id, :student_id, :enrollment_type, :course_offering_id, :package_offering_id, :status, :enrolled_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, enrollment); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return ErrForeignKey
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Exists reports whether the student already holds an enrollment for the offering, in any status.
func (r *EnrollmentRepository) Exists(ctx context.Context, exec sqlx.ExtContext, studentID string, ref models.OfferingRef) (bool, error) {
	target := pick(r.db, exec)
	column := "course_offering_id"
	if ref.Type == models.OfferingPackage {
		column = "package_offering_id"
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND %s = $2)`, column)
	var exists bool
	if err := sqlx.GetContext(ctx, target, &exists, query, studentID, ref.ID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// ResolvePrice returns the effective price of an offering. sql.ErrNoRows means it does not exist.
func (r *EnrollmentRepository) ResolvePrice(ctx context.Context, exec sqlx.ExtContext, ref models.OfferingRef) (float64, error) {
	target := pick(r.db, exec)
	query := `SELECT COALESCE(co.price_override, c.base_price) FROM course_offerings co
        JOIN courses c ON c.id = co.course_id WHERE co.id = $1`
	if ref.Type == models.OfferingPackage {
		query = `SELECT COALESCE(po.price_override, p.base_price) FROM package_offerings po
        JOIN packages p ON p.id = po.package_id WHERE po.id = $1`
	}
	var price float64
	if err := sqlx.GetContext(ctx, target, &price, query, ref.ID); err != nil {
		return 0, err
	}
	return price, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments e WHERE e.id = $1`
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns an enrollment with contextual info.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, enrollmentDetailSelect+" WHERE e.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns enrollments filtered by the provided criteria, newest first.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conditions = append(conditions, fmt.Sprintf("e.enrollment_type = $%d", len(args)))
	}
	if filter.CycleID != "" {
		args = append(args, filter.CycleID)
		conditions = append(conditions, fmt.Sprintf("cy.id = $%d", len(args)))
	}

	query := enrollmentDetailSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.enrolled_at DESC"

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// ListByOffering returns enrollments of one offering in the given status.
func (r *EnrollmentRepository) ListByOffering(ctx context.Context, ref models.OfferingRef, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	column := "e.course_offering_id"
	if ref.Type == models.OfferingPackage {
		column = "e.package_offering_id"
	}
	query := enrollmentDetailSelect + fmt.Sprintf(" WHERE %s = $1 AND e.status = $2 ORDER BY s.last_name, s.first_name", column)
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, ref.ID, status); err != nil {
		return nil, fmt.Errorf("list offering enrollments: %w", err)
	}
	return enrollments, nil
}

// UpdateStatus sets the status and reports whether the enrollment exists.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (bool, error) {
	const query = `UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("update enrollment status: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes an enrollment with its plan and installments in one transaction.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) (found bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete enrollment: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM installments WHERE payment_plan_id IN (SELECT id FROM payment_plans WHERE enrollment_id = $1)`, id); err != nil {
		return false, fmt.Errorf("delete enrollment installments: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM payment_plans WHERE enrollment_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete enrollment plan: %w", err)
	}
	found, err = deleteByID(ctx, tx, "enrollments", id)
	if err != nil {
		return false, err
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete enrollment: %w", err)
	}
	return found, nil
}
