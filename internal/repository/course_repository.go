package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// CourseRepository persists catalog courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, name, description, base_price, created_at, updated_at`

// List returns all courses by name.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, `SELECT `+courseColumns+` FROM courses ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := r.db.GetContext(ctx, &course, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	const query = `INSERT INTO courses (id, name, description, base_price, created_at, updated_at)
        VALUES (:id, :name, :description, :base_price, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update applies the set fields and reports whether the course exists.
func (r *CourseRepository) Update(ctx context.Context, id string, upd models.CourseUpdate) (bool, error) {
	var set setClause
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.Description != nil {
		set.add("description", *upd.Description)
	}
	if upd.BasePrice != nil {
		set.add("base_price", *upd.BasePrice)
	}
	if set.empty() {
		return false, fmt.Errorf("update course: no fields")
	}
	query, args := set.update("courses", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update course: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes a course that has no offerings.
func (r *CourseRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "courses", id)
}
