package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academia-api/internal/models"
)

// OfferingRepository persists course and package offerings.
type OfferingRepository struct {
	db *sqlx.DB
}

// NewOfferingRepository constructs an OfferingRepository.
func NewOfferingRepository(db *sqlx.DB) *OfferingRepository {
	return &OfferingRepository{db: db}
}

const courseOfferingSelect = `SELECT co.id, co.course_id, co.cycle_id, co.group_label, co.teacher_id, co.price_override, co.capacity,
        co.created_at, co.updated_at, c.name AS course_name, cy.name AS cycle_name, c.base_price,
        CASE WHEN t.id IS NULL THEN NULL ELSE t.first_name || ' ' || t.last_name END AS teacher_name
        FROM course_offerings co
        JOIN courses c ON c.id = co.course_id
        JOIN cycles cy ON cy.id = co.cycle_id
        LEFT JOIN teachers t ON t.id = co.teacher_id`

// ListCourseOfferings returns course offerings, optionally restricted to a cycle.
func (r *OfferingRepository) ListCourseOfferings(ctx context.Context, cycleID string) ([]models.CourseOfferingDetail, error) {
	query := courseOfferingSelect
	args := []interface{}{}
	if cycleID != "" {
		query += " WHERE co.cycle_id = $1"
		args = append(args, cycleID)
	}
	query += " ORDER BY c.name, co.group_label"
	var offerings []models.CourseOfferingDetail
	if err := r.db.SelectContext(ctx, &offerings, query, args...); err != nil {
		return nil, fmt.Errorf("list course offerings: %w", err)
	}
	return offerings, nil
}

// FindCourseOffering fetches a course offering with catalog names.
func (r *OfferingRepository) FindCourseOffering(ctx context.Context, id string) (*models.CourseOfferingDetail, error) {
	var offering models.CourseOfferingDetail
	if err := r.db.GetContext(ctx, &offering, courseOfferingSelect+" WHERE co.id = $1", id); err != nil {
		return nil, err
	}
	return &offering, nil
}

// CreateCourseOffering inserts a course offering.
func (r *OfferingRepository) CreateCourseOffering(ctx context.Context, offering *models.CourseOffering) error {
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	offering.CreatedAt = now
	offering.UpdatedAt = now
	const query = `INSERT INTO course_offerings (id, course_id, cycle_id, group_label, teacher_id, price_override, capacity, created_at, updated_at)
        VALUES (:id, :course_id, :cycle_id, :group_label, :teacher_id, :price_override, :capacity, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, offering); err != nil {
		if isForeignKeyViolation(err) {
			return ErrForeignKey
		}
		return fmt.Errorf("create course offering: %w", err)
	}
	return nil
}

// UpdateCourseOffering applies the set fields and reports whether the offering exists.
func (r *OfferingRepository) UpdateCourseOffering(ctx context.Context, id string, upd models.CourseOfferingUpdate) (bool, error) {
	var set setClause
	if upd.GroupLabel != nil {
		set.add("group_label", *upd.GroupLabel)
	}
	if upd.TeacherID != nil {
		set.add("teacher_id", *upd.TeacherID)
	}
	if upd.PriceOverride != nil {
		set.add("price_override", *upd.PriceOverride)
	}
	if upd.Capacity != nil {
		set.add("capacity", *upd.Capacity)
	}
	if set.empty() {
		return false, fmt.Errorf("update course offering: no fields")
	}
	query, args := set.update("course_offerings", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrForeignKey
		}
		return false, fmt.Errorf("update course offering: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteCourseOffering removes a course offering without enrollments.
func (r *OfferingRepository) DeleteCourseOffering(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "course_offerings", id)
}

const packageOfferingSelect = `SELECT po.id, po.package_id, po.cycle_id, po.group_label, po.price_override, po.capacity,
        po.created_at, po.updated_at, p.name AS package_name, cy.name AS cycle_name, p.base_price
        FROM package_offerings po
        JOIN packages p ON p.id = po.package_id
        JOIN cycles cy ON cy.id = po.cycle_id`

type offeringLink struct {
	PackageOfferingID string `db:"package_offering_id"`
	CourseOfferingID  string `db:"course_offering_id"`
}

// ListPackageOfferings returns package offerings with their course offering mapping.
func (r *OfferingRepository) ListPackageOfferings(ctx context.Context, cycleID string) ([]models.PackageOfferingDetail, error) {
	query := packageOfferingSelect
	args := []interface{}{}
	if cycleID != "" {
		query += " WHERE po.cycle_id = $1"
		args = append(args, cycleID)
	}
	query += " ORDER BY p.name, po.group_label"
	var offerings []models.PackageOfferingDetail
	if err := r.db.SelectContext(ctx, &offerings, query, args...); err != nil {
		return nil, fmt.Errorf("list package offerings: %w", err)
	}
	if len(offerings) == 0 {
		return offerings, nil
	}

	ids := make([]string, len(offerings))
	for i := range offerings {
		ids[i] = offerings[i].ID
	}
	var links []offeringLink
	if err := r.db.SelectContext(ctx, &links, `SELECT package_offering_id, course_offering_id FROM package_offering_courses WHERE package_offering_id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list package offering courses: %w", err)
	}
	byOffering := make(map[string][]string, len(offerings))
	for _, link := range links {
		byOffering[link.PackageOfferingID] = append(byOffering[link.PackageOfferingID], link.CourseOfferingID)
	}
	for i := range offerings {
		offerings[i].CourseOfferingIDs = byOffering[offerings[i].ID]
		if offerings[i].CourseOfferingIDs == nil {
			offerings[i].CourseOfferingIDs = []string{}
		}
	}
	return offerings, nil
}

// FindPackageOffering fetches a package offering with its mapping.
func (r *OfferingRepository) FindPackageOffering(ctx context.Context, id string) (*models.PackageOfferingDetail, error) {
	var offering models.PackageOfferingDetail
	if err := r.db.GetContext(ctx, &offering, packageOfferingSelect+" WHERE po.id = $1", id); err != nil {
		return nil, err
	}
	offering.CourseOfferingIDs = []string{}
	if err := r.db.SelectContext(ctx, &offering.CourseOfferingIDs, `SELECT course_offering_id FROM package_offering_courses WHERE package_offering_id = $1`, id); err != nil {
		return nil, fmt.Errorf("list package offering courses: %w", err)
	}
	return &offering, nil
}

// CreatePackageOffering inserts the offering and its course offering mapping atomically.
func (r *OfferingRepository) CreatePackageOffering(ctx context.Context, offering *models.PackageOffering) (err error) {
	if offering.ID == "" {
		offering.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	offering.CreatedAt = now
	offering.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create package offering: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO package_offerings (id, package_id, cycle_id, group_label, price_override, capacity, created_at, updated_at)
        VALUES (:id, :package_id, :cycle_id, :group_label, :price_override, :capacity, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, offering); err != nil {
		if isForeignKeyViolation(err) {
			return ErrForeignKey
		}
		return fmt.Errorf("create package offering: %w", err)
	}
	for _, courseOfferingID := range offering.CourseOfferingIDs {
		if _, err = tx.ExecContext(ctx, `INSERT INTO package_offering_courses (package_offering_id, course_offering_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, offering.ID, courseOfferingID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrForeignKey
			}
			return fmt.Errorf("link package offering course: %w", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create package offering: %w", err)
	}
	return nil
}

// DeletePackageOffering removes a package offering without enrollments.
func (r *OfferingRepository) DeletePackageOffering(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "package_offerings", id)
}
