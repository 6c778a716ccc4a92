package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// ScheduleRepository persists weekly class slots.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleSelect = `SELECT s.id, s.course_offering_id, s.day_of_week, s.start_time, s.end_time, s.classroom, s.created_at, s.updated_at,
        c.name AS course_name, co.group_label, co.cycle_id, co.teacher_id,
        CASE WHEN t.id IS NULL THEN NULL ELSE t.first_name || ' ' || t.last_name END AS teacher_name
        FROM schedules s
        JOIN course_offerings co ON co.id = s.course_offering_id
        JOIN courses c ON c.id = co.course_id
        LEFT JOIN teachers t ON t.id = co.teacher_id`

const scheduleOrder = ` ORDER BY array_position(ARRAY['monday','tuesday','wednesday','thursday','friday','saturday','sunday']::varchar[], s.day_of_week), s.start_time`

// List returns every schedule in weekday order.
func (r *ScheduleRepository) List(ctx context.Context) ([]models.ScheduleDetail, error) {
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, scheduleSelect+scheduleOrder); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// ListByCourseOffering returns the schedules of a course offering.
func (r *ScheduleRepository) ListByCourseOffering(ctx context.Context, courseOfferingID string) ([]models.ScheduleDetail, error) {
	var schedules []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &schedules, scheduleSelect+" WHERE s.course_offering_id = $1"+scheduleOrder, courseOfferingID); err != nil {
		return nil, fmt.Errorf("list schedules by course offering: %w", err)
	}
	return schedules, nil
}

// ListByPackageOffering resolves schedules through the explicit package offering mapping,
// falling back to the package's courses offered in the same cycle.
func (r *ScheduleRepository) ListByPackageOffering(ctx context.Context, packageOfferingID string) ([]models.ScheduleDetail, error) {
	var schedules []models.ScheduleDetail
	mapped := scheduleSelect + `
        JOIN package_offering_courses poc ON poc.course_offering_id = s.course_offering_id
        WHERE poc.package_offering_id = $1` + scheduleOrder
	if err := r.db.SelectContext(ctx, &schedules, mapped, packageOfferingID); err != nil {
		return nil, fmt.Errorf("list schedules by package mapping: %w", err)
	}
	if len(schedules) > 0 {
		return schedules, nil
	}

	fallback := scheduleSelect + `
        JOIN package_offerings po ON po.cycle_id = co.cycle_id
        JOIN package_courses pc ON pc.package_id = po.package_id AND pc.course_id = co.course_id
        WHERE po.id = $1` + scheduleOrder
	if err := r.db.SelectContext(ctx, &schedules, fallback, packageOfferingID); err != nil {
		return nil, fmt.Errorf("list schedules by package courses: %w", err)
	}
	return schedules, nil
}

// FindByID fetches a schedule with its offering context.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	var schedule models.ScheduleDetail
	if err := r.db.GetContext(ctx, &schedule, scheduleSelect+" WHERE s.id = $1", id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create inserts a schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	const query = `INSERT INTO schedules (id, course_offering_id, day_of_week, start_time, end_time, classroom, created_at, updated_at)
        VALUES (:id, :course_offering_id, :day_of_week, :start_time, :end_time, :classroom, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		if isForeignKeyViolation(err) {
			return ErrForeignKey
		}
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update applies the set fields and reports whether the schedule exists.
func (r *ScheduleRepository) Update(ctx context.Context, id string, upd models.ScheduleUpdate) (bool, error) {
	var set setClause
	if upd.DayOfWeek != nil {
		set.add("day_of_week", *upd.DayOfWeek)
	}
	if upd.StartTime != nil {
		set.add("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		set.add("end_time", *upd.EndTime)
	}
	if upd.Classroom != nil {
		set.add("classroom", *upd.Classroom)
	}
	if set.empty() {
		return false, fmt.Errorf("update schedule: no fields")
	}
	query, args := set.update("schedules", id)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update schedule: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Delete removes a schedule and, through the foreign key, its attendance.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db, "schedules", id)
}
