package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// AttendanceRepository persists per-session attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.schedule_id, a.student_id, a.date, a.status, a.marked_by, a.created_at, a.updated_at`

// Upsert writes the mark for (schedule, student, date), replacing an existing one.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO attendance (id, schedule_id, student_id, date, status, marked_by, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
        ON CONFLICT (schedule_id, student_id, date)
        DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, record.ID, record.ScheduleID, record.StudentID, record.Date, record.Status, record.MarkedBy, now)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrForeignKey
		}
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}

// CountAbsences counts ausente marks of a student for a schedule.
func (r *AttendanceRepository) CountAbsences(ctx context.Context, studentID, scheduleID string) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance WHERE student_id = $1 AND schedule_id = $2 AND status = $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID, scheduleID, models.AttendanceAbsent); err != nil {
		return 0, fmt.Errorf("count absences: %w", err)
	}
	return count, nil
}

// HasAcceptedEnrollment reports whether the student holds an accepted enrollment covering the
// schedule, either on its course offering or on a package offering mapped to it.
func (r *AttendanceRepository) HasAcceptedEnrollment(ctx context.Context, studentID, scheduleID string) (bool, error) {
	const query = `SELECT EXISTS (
        SELECT 1 FROM schedules sch
        JOIN enrollments e ON e.student_id = $1 AND e.status = $3
        WHERE sch.id = $2 AND (
            e.course_offering_id = sch.course_offering_id
            OR e.package_offering_id IN (
                SELECT poc.package_offering_id FROM package_offering_courses poc
                WHERE poc.course_offering_id = sch.course_offering_id)))`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, studentID, scheduleID, models.EnrollmentStatusAccepted); err != nil {
		return false, fmt.Errorf("check enrollment for schedule: %w", err)
	}
	return ok, nil
}

// ListBySchedule returns the marks of a schedule on one date.
func (r *AttendanceRepository) ListBySchedule(ctx context.Context, scheduleID string, date time.Time) ([]models.AttendanceRecord, error) {
	query := `SELECT ` + attendanceColumns + `, s.dni AS student_dni, s.first_name || ' ' || s.last_name AS student_name
        FROM attendance a
        JOIN students s ON s.id = a.student_id
        WHERE a.schedule_id = $1 AND a.date = $2
        ORDER BY s.last_name, s.first_name`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, scheduleID, date); err != nil {
		return nil, fmt.Errorf("list schedule attendance: %w", err)
	}
	return records, nil
}

// ListByStudent returns a student's marks, latest first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryEntry, error) {
	query := `SELECT ` + attendanceColumns + `, c.name AS course_name, co.group_label, sch.day_of_week, sch.start_time
        FROM attendance a
        JOIN schedules sch ON sch.id = a.schedule_id
        JOIN course_offerings co ON co.id = sch.course_offering_id
        JOIN courses c ON c.id = co.course_id
        WHERE a.student_id = $1
        ORDER BY a.date DESC, sch.start_time`
	var entries []models.AttendanceHistoryEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID); err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return entries, nil
}

// AlertContact loads the guardian contact and course name used by absence alerts.
func (r *AttendanceRepository) AlertContact(ctx context.Context, studentID, scheduleID string) (*models.AlertContact, error) {
	const query = `SELECT s.id AS student_id, s.first_name, s.last_name, s.parent_name, s.parent_phone, s.parent_email,
        c.name AS course_name
        FROM students s
        JOIN schedules sch ON sch.id = $2
        JOIN course_offerings co ON co.id = sch.course_offering_id
        JOIN courses c ON c.id = co.course_id
        WHERE s.id = $1`
	var contact models.AlertContact
	if err := r.db.GetContext(ctx, &contact, query, studentID, scheduleID); err != nil {
		return nil, err
	}
	return &contact, nil
}
