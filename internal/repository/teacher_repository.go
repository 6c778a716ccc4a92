package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// TeacherRepository provides persistence for teacher entities.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a new repository instance.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = `id, dni, first_name, last_name, phone, email, specialization, created_at, updated_at`

// BeginTxx starts a transaction shared with the user repository.
func (r *TeacherRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

// List returns teachers ordered by last name.
func (r *TeacherRepository) List(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, `SELECT `+teacherColumns+` FROM teachers ORDER BY last_name, first_name`); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID retrieves a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a teacher record.
func (r *TeacherRepository) Create(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	const query = `INSERT INTO teachers (id, dni, first_name, last_name, phone, email, specialization, created_at, updated_at)
        VALUES (:id, :dni, :first_name, :last_name, :phone, :email, :specialization, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, teacher); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update applies the set fields and reports whether the teacher exists.
func (r *TeacherRepository) Update(ctx context.Context, id string, upd models.TeacherUpdate) (bool, error) {
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
	if upd.Email != nil {
		set.add("email", *upd.Email)
	}
	if upd.Specialization != nil {
		set.add("specialization", *upd.Specialization)
	}
	if set.empty() {
		return false, fmt.Errorf("update teacher: no fields")
	}
	query, args := set.update("teachers", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update teacher: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete unassigns the teacher's offerings and removes the record.
func (r *TeacherRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id string) (bool, error) {
	target := pick(r.db, exec)
	if _, err := target.ExecContext(ctx, `UPDATE course_offerings SET teacher_id = NULL, updated_at = $2 WHERE teacher_id = $1`, id, time.Now().UTC()); err != nil {
		return false, fmt.Errorf("unassign teacher offerings: %w", err)
	}
	res, err := target.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete teacher: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListStudents returns students with accepted course enrollments in the teacher's offerings.
func (r *TeacherRepository) ListStudents(ctx context.Context, teacherID string) ([]models.TeacherStudent, error) {
	const query = `SELECT s.id AS student_id, s.dni, s.first_name, s.last_name,
        co.id AS course_offering_id, c.name AS course_name, co.group_label
        FROM course_offerings co
        JOIN courses c ON c.id = co.course_id
        JOIN enrollments e ON e.course_offering_id = co.id AND e.status = $2
        JOIN students s ON s.id = e.student_id
        WHERE co.teacher_id = $1
        ORDER BY c.name, co.group_label, s.last_name, s.first_name`
	var students []models.TeacherStudent
	if err := r.db.SelectContext(ctx, &students, query, teacherID, models.EnrollmentStatusAccepted); err != nil {
		return nil, fmt.Errorf("list teacher students: %w", err)
	}
	return students, nil
}
