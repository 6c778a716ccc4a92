package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/notify"
)

const dateLayout = "2006-01-02"

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.Attendance) error
	CountAbsences(ctx context.Context, studentID, scheduleID string) (int, error)
	HasAcceptedEnrollment(ctx context.Context, studentID, scheduleID string) (bool, error)
	ListBySchedule(ctx context.Context, scheduleID string, date time.Time) ([]models.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceHistoryEntry, error)
	AlertContact(ctx context.Context, studentID, scheduleID string) (*models.AlertContact, error)
}

type attendanceScheduleLookup interface {
	FindByID(ctx context.Context, id string) (*models.ScheduleDetail, error)
}

// MarkAttendanceRequest records one student's attendance for a session.
type MarkAttendanceRequest struct {
	ScheduleID string                  `json:"schedule_id" validate:"required,uuid"`
	StudentID  string                  `json:"student_id" validate:"required,uuid"`
	Status     models.AttendanceStatus `json:"status" validate:"required,oneof=presente ausente"`
	Date       string                  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// AttendanceService records attendance and raises absence alerts.
type AttendanceService struct {
	repo      attendanceRepository
	schedules attendanceScheduleLookup
	notifier  notify.Notifier
	metrics   *MetricsService
	threshold int
	location  *time.Location
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, schedules attendanceScheduleLookup, notifier notify.Notifier, metrics *MetricsService, threshold int, loc *time.Location, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if threshold <= 0 {
		threshold = 3
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		repo:      repo,
		schedules: schedules,
		notifier:  notifier,
		metrics:   metrics,
		threshold: threshold,
		location:  loc,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AttendanceService) parseDate(raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		now := s.now().In(s.location)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	return date, nil
}

// authorizeSchedule loads the schedule and checks teachers only touch their own offerings.
func (s *AttendanceService) authorizeSchedule(ctx context.Context, claims *models.JWTClaims, scheduleID string) (*models.ScheduleDetail, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, lookupError(err, "schedule")
	}
	switch claims.Role {
	case models.RoleAdmin:
	case models.RoleTeacher:
		if schedule.TeacherID == nil || *schedule.TeacherID != claims.RelatedID {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "schedule is not assigned to this teacher")
		}
	default:
		return nil, appErrors.ErrForbidden
	}
	return schedule, nil
}

// Mark upserts an attendance record and fires the absence alert once the threshold is reached.
func (s *AttendanceService) Mark(ctx context.Context, claims *models.JWTClaims, req MarkAttendanceRequest) (*models.AttendanceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeSchedule(ctx, claims, req.ScheduleID); err != nil {
		return nil, err
	}

	enrolled, err := s.repo.HasAcceptedEnrollment(ctx, req.StudentID, req.ScheduleID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.ErrNotEnrolled
	}

	markedBy := claims.UserID
	record := &models.Attendance{
		ScheduleID: req.ScheduleID,
		StudentID:  req.StudentID,
		Date:       date,
		Status:     req.Status,
		MarkedBy:   &markedBy,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student or schedule not found")
		}
		return nil, appErrors.Internal(err, "failed to record attendance")
	}

	result := &models.AttendanceResult{Attendance: *record}
	if req.Status != models.AttendanceAbsent {
		return result, nil
	}
	absences, err := s.repo.CountAbsences(ctx, req.StudentID, req.ScheduleID)
	if err != nil {
		s.logger.Warn("failed to count absences", zap.String("student_id", req.StudentID), zap.Error(err))
		return result, nil
	}
	result.Absences = absences
	if absences >= s.threshold {
		result.AlertRaised = s.raiseAlert(ctx, req.StudentID, req.ScheduleID, absences, date)
	}
	return result, nil
}

// raiseAlert hands the alert to the notifier; failures are logged and never fail the mark.
func (s *AttendanceService) raiseAlert(ctx context.Context, studentID, scheduleID string, absences int, date time.Time) bool {
	if s.notifier == nil {
		return false
	}
	contact, err := s.repo.AlertContact(ctx, studentID, scheduleID)
	if err != nil {
		s.logger.Warn("failed to load alert contact", zap.String("student_id", studentID), zap.Error(err))
		return false
	}
	alert := notify.AbsenceAlert{
		StudentID:     studentID,
		StudentName:   strings.TrimSpace(contact.FirstName + " " + contact.LastName),
		GuardianName:  deref(contact.ParentName),
		GuardianEmail: deref(contact.ParentEmail),
		GuardianPhone: deref(contact.ParentPhone),
		ScheduleID:    scheduleID,
		CourseName:    contact.CourseName,
		Absences:      absences,
		Date:          date,
	}
	if err := s.notifier.Notify(ctx, alert); err != nil {
		s.logger.Warn("failed to dispatch absence alert", zap.String("student_id", studentID), zap.Error(err))
		return false
	}
	s.metrics.AbsenceAlertRaised()
	s.logger.Info("absence alert raised", zap.String("student_id", studentID), zap.String("schedule_id", scheduleID), zap.Int("absences", absences))
	return true
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// BySchedule lists the marks of a schedule on a date, today by default.
func (s *AttendanceService) BySchedule(ctx context.Context, claims *models.JWTClaims, scheduleID, rawDate string) ([]models.AttendanceRecord, error) {
	date, err := s.parseDate(rawDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorizeSchedule(ctx, claims, scheduleID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListBySchedule(ctx, scheduleID, date)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list attendance")
	}
	return records, nil
}

// StudentHistory returns a student's marks with present and absent totals.
func (s *AttendanceService) StudentHistory(ctx context.Context, claims *models.JWTClaims, studentID string) (*models.AttendanceHistory, error) {
	if err := ensureStudentOwns(claims, studentID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load attendance history")
	}
	history := &models.AttendanceHistory{StudentID: studentID, Records: records}
	if history.Records == nil {
		history.Records = []models.AttendanceHistoryEntry{}
	}
	for _, r := range records {
		switch r.Status {
		case models.AttendancePresent:
			history.Present++
		case models.AttendanceAbsent:
			history.Absent++
		}
	}
	return history, nil
}
