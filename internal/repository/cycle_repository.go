package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// CycleRepository persists academic cycles.
type CycleRepository struct {
	db *sqlx.DB
}

// NewCycleRepository constructs a CycleRepository.
func NewCycleRepository(db *sqlx.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

const cycleColumns = `id, name, start_date, end_date, duration_months, status, created_at, updated_at`

// List returns cycles, newest first.
func (r *CycleRepository) List(ctx context.Context) ([]models.Cycle, error) {
	var cycles []models.Cycle
	if err := r.db.SelectContext(ctx, &cycles, `SELECT `+cycleColumns+` FROM cycles ORDER BY start_date DESC`); err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return cycles, nil
}

// FindByID fetches a cycle.
func (r *CycleRepository) FindByID(ctx context.Context, id string) (*models.Cycle, error) {
	var cycle models.Cycle
	if err := r.db.GetContext(ctx, &cycle, `SELECT `+cycleColumns+` FROM cycles WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &cycle, nil
}

// Create inserts a cycle.
func (r *CycleRepository) Create(ctx context.Context, cycle *models.Cycle) error {
	if cycle.ID == "" {
		cycle.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	cycle.CreatedAt = now
	cycle.UpdatedAt = now
	const query = `INSERT INTO cycles (id, name, start_date, end_date, duration_months, status, created_at, updated_at)
        VALUES (:id, :name, :start_date, :end_date, :duration_months, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, cycle); err != nil {
		return fmt.Errorf("create cycle: %w", err)
	}
	return nil
}

// Update applies the set fields and reports whether the cycle exists.
func (r *CycleRepository) Update(ctx context.Context, id string, upd models.CycleUpdate) (bool, error) {
	var set setClause
	if upd.Name != nil {
		set.add("name", *upd.Name)
	}
	if upd.StartDate != nil {
		set.add("start_date", *upd.StartDate)
	}
	if upd.EndDate != nil {
		set.add("end_date", *upd.EndDate)
	}
	if upd.DurationMonths != nil {
		set.add("duration_months", *upd.DurationMonths)
	}
	if upd.Status != nil {
		set.add("status", *upd.Status)
	}
	if set.empty() {
		return false, fmt.Errorf("update cycle: no fields")
	}
	query, args := set.update("cycles", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update cycle: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes a cycle without offerings.
func (r *CycleRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "cycles", id)
}
