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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, dni, first_name, last_name, phone, parent_name, parent_phone, parent_email, password_hash, created_at, updated_at`

// List returns students matching the filter ordered by last name.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		where += fmt.Sprintf(" AND (LOWER(first_name || ' ' || last_name) LIKE $%d OR dni LIKE $%d)", len(args), len(args))
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM students %s ORDER BY last_name, first_name LIMIT %d OFFSET %d", studentColumns, where, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM students "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByDNI fetches a student by national id.
func (r *StudentRepository) FindByDNI(ctx context.Context, dni string) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, `SELECT `+studentColumns+` FROM students WHERE dni = $1`, dni); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsByDNI checks if a student with the DNI exists.
func (r *StudentRepository) ExistsByDNI(ctx context.Context, dni string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE dni = $1 LIMIT 1", dni); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check dni: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, dni, first_name, last_name, phone, parent_name, parent_phone, parent_email, password_hash, created_at, updated_at)
        VALUES (:id, :dni, :first_name, :last_name, :phone, :parent_name, :parent_phone, :parent_email, :password_hash, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update applies the set fields. It reports false when the student does not exist.
func (r *StudentRepository) Update(ctx context.Context, id string, upd models.StudentUpdate) (bool, error) {
	var set setClause
	if upd.FirstName != nil {
		set.add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		set.add("last_name", *upd.LastName)
	}
	if upd.Phone != nil {
		set.add("phone", *upd.Phone)
	}
	if upd.ParentName != nil {
		set.add("parent_name", *upd.ParentName)
	}
	if upd.ParentPhone != nil {
		set.add("parent_phone", *upd.ParentPhone)
	}
	if upd.ParentEmail != nil {
		set.add("parent_email", *upd.ParentEmail)
	}
	if set.empty() {
		return false, fmt.Errorf("update student: no fields")
	}
	query, args := set.update("students", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update student: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpdatePassword replaces the password hash.
func (r *StudentRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE students SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update student password: %w", err)
	}
	return nil
}

// Delete removes the student together with attendance, enrollments, plans and installments.
func (r *StudentRepository) Delete(ctx context.Context, id string) (found bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	steps := []struct {
		label string
		query string
	}{
		{"attendance", `DELETE FROM attendance WHERE student_id = $1`},
		{"installments", `DELETE FROM installments WHERE payment_plan_id IN (
            SELECT pp.id FROM payment_plans pp JOIN enrollments e ON e.id = pp.enrollment_id WHERE e.student_id = $1)`},
		{"payment plans", `DELETE FROM payment_plans WHERE enrollment_id IN (SELECT id FROM enrollments WHERE student_id = $1)`},
		{"enrollments", `DELETE FROM enrollments WHERE student_id = $1`},
	}
	for _, step := range steps {
		if _, err = tx.ExecContext(ctx, step.query, id); err != nil {
			return false, fmt.Errorf("delete student %s: %w", step.label, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete student: %w", err)
	}
	n, _ := res.RowsAffected()
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete student: %w", err)
	}
	return n > 0, nil
}
