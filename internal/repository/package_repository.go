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

// PackageRepository persists course bundles and their course lists.
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository constructs a PackageRepository.
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

const packageColumns = `id, name, description, base_price, created_at, updated_at`

type packageCourse struct {
	PackageID string `db:"package_id"`
	CourseID  string `db:"course_id"`
}

// List returns packages with their course ids.
func (r *PackageRepository) List(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	if err := r.db.SelectContext(ctx, &packages, `SELECT `+packageColumns+` FROM packages ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	if len(packages) == 0 {
		return packages, nil
	}
	ids := make([]string, len(packages))
	for i := range packages {
		ids[i] = packages[i].ID
	}
	var links []packageCourse
	if err := r.db.SelectContext(ctx, &links, `SELECT package_id, course_id FROM package_courses WHERE package_id = ANY($1) ORDER BY course_id`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list package courses: %w", err)
	}
	byPackage := make(map[string][]string, len(packages))
	for _, link := range links {
		byPackage[link.PackageID] = append(byPackage[link.PackageID], link.CourseID)
	}
	for i := range packages {
		packages[i].CourseIDs = byPackage[packages[i].ID]
		if packages[i].CourseIDs == nil {
			packages[i].CourseIDs = []string{}
		}
	}
	return packages, nil
}

// FindByID fetches a package with its course ids.
func (r *PackageRepository) FindByID(ctx context.Context, id string) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.GetContext(ctx, &pkg, `SELECT `+packageColumns+` FROM packages WHERE id = $1`, id); err != nil {
		return nil, err
	}
	pkg.CourseIDs = []string{}
	if err := r.db.SelectContext(ctx, &pkg.CourseIDs, `SELECT course_id FROM package_courses WHERE package_id = $1 ORDER BY course_id`, id); err != nil {
		return nil, fmt.Errorf("list package courses: %w", err)
	}
	return &pkg, nil
}

// Create inserts the package and its course links atomically.
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) (err error) {
	if pkg.ID == "" {
		pkg.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	pkg.CreatedAt = now
	pkg.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create package: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO packages (id, name, description, base_price, created_at, updated_at)
        VALUES (:id, :name, :description, :base_price, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, pkg); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	if err = r.replaceCourses(ctx, tx, pkg.ID, pkg.CourseIDs); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create package: %w", err)
	}
	return nil
}

// Update applies the set fields; a non-nil course list replaces the bundle.
func (r *PackageRepository) Update(ctx context.Context, id string, upd models.PackageUpdate) (found bool, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin update package: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

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
	query, args := set.update("packages", id)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update package: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_ = tx.Rollback()
		return false, nil
	}
	if upd.CourseIDs != nil {
		if err = r.replaceCourses(ctx, tx, id, *upd.CourseIDs); err != nil {
			return false, err
		}
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit update package: %w", err)
	}
	return true, nil
}

// Delete removes a package that has no offerings.
func (r *PackageRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "packages", id)
}

func (r *PackageRepository) replaceCourses(ctx context.Context, tx *sqlx.Tx, packageID string, courseIDs []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM package_courses WHERE package_id = $1`, packageID); err != nil {
		return fmt.Errorf("clear package courses: %w", err)
	}
	for _, courseID := range courseIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO package_courses (package_id, course_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, packageID, courseID); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("course %s: %w", courseID, ErrForeignKey)
			}
			return fmt.Errorf("link package course: %w", err)
		}
	}
	return nil
}
