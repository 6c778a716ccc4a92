package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/internal/models"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context) ([]models.ScheduleDetail, error)
	ListByCourseOffering(ctx context.Context, courseOfferingID string) ([]models.ScheduleDetail, error)
	ListByPackageOffering(ctx context.Context, packageOfferingID string) ([]models.ScheduleDetail, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleDetail, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, id string, upd models.ScheduleUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type scheduleCycleLookup interface {
	FindByID(ctx context.Context, id string) (*models.Cycle, error)
}

// CreateScheduleRequest describes payload for creating a schedule.
type CreateScheduleRequest struct {
	CourseOfferingID string           `json:"course_offering_id" validate:"required,uuid"`
	DayOfWeek        models.DayOfWeek `json:"day_of_week" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime        string           `json:"start_time" validate:"required"`
	EndTime          string           `json:"end_time" validate:"required"`
	Classroom        *string          `json:"classroom" validate:"omitempty,max=50"`
}

// ScheduleService manages weekly class slots.
type ScheduleService struct {
	repo      scheduleRepository
	cycles    scheduleCycleLookup
	cache     *CacheService
	ttl       time.Duration
	location  *time.Location
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService. Calendar times are rendered in loc (UTC when nil).
func NewScheduleService(repo scheduleRepository, cycles scheduleCycleLookup, cache *CacheService, ttl time.Duration, loc *time.Location, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ScheduleService{repo: repo, cycles: cycles, cache: cache, ttl: ttl, location: loc, validator: validate, logger: logger}
}

// parseClock accepts HH:MM or HH:MM:SS and returns the canonical HH:MM:SS form.
func parseClock(value string) (string, time.Duration, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second
			return t.Format("15:04:05"), offset, nil
		}
	}
	return "", 0, fmt.Errorf("invalid time %q, expected HH:MM or HH:MM:SS", value)
}

func normaliseRange(start, end string) (string, string, error) {
	startClock, startOffset, err := parseClock(start)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	endClock, endOffset, err := parseClock(end)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if endOffset <= startOffset {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return startClock, endClock, nil
}

// List returns every schedule.
func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleDetail, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:schedules", func() ([]models.ScheduleDetail, error) {
		schedules, err := s.repo.List(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list schedules")
		}
		return schedules, nil
	})
}

// ListByCourseOffering returns the schedules of a course offering.
func (s *ScheduleService) ListByCourseOffering(ctx context.Context, courseOfferingID string) ([]models.ScheduleDetail, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:schedules:course:"+courseOfferingID, func() ([]models.ScheduleDetail, error) {
		schedules, err := s.repo.ListByCourseOffering(ctx, courseOfferingID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list schedules")
		}
		return schedules, nil
	})
}

// ListByPackageOffering returns the schedules reachable from a package offering.
func (s *ScheduleService) ListByPackageOffering(ctx context.Context, packageOfferingID string) ([]models.ScheduleDetail, error) {
	return cachedList(ctx, s.cache, s.ttl, "catalog:schedules:package:"+packageOfferingID, func() ([]models.ScheduleDetail, error) {
		schedules, err := s.repo.ListByPackageOffering(ctx, packageOfferingID)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to list schedules")
		}
		return schedules, nil
	})
}

// Get returns one schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "schedule")
	}
	return schedule, nil
}

// Create validates and stores a schedule.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.ScheduleDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	start, end, err := normaliseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	schedule := &models.Schedule{
		CourseOfferingID: req.CourseOfferingID,
		DayOfWeek:        req.DayOfWeek,
		StartTime:        start,
		EndTime:          end,
		Classroom:        req.Classroom,
	}
	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, writeError(err, "schedule")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return s.Get(ctx, schedule.ID)
}

// Update applies a partial update; the resulting range must stay ordered.
func (s *ScheduleService) Update(ctx context.Context, id string, upd models.ScheduleUpdate) (*models.ScheduleDetail, error) {
	if upd.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validator.Struct(upd); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if upd.StartTime != nil || upd.EndTime != nil {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		start, end := current.StartTime, current.EndTime
		if upd.StartTime != nil {
			start = *upd.StartTime
		}
		if upd.EndTime != nil {
			end = *upd.EndTime
		}
		start, end, err = normaliseRange(start, end)
		if err != nil {
			return nil, err
		}
		upd.StartTime, upd.EndTime = &start, &end
	}
	found, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, writeError(err, "schedule")
	}
	if err := notFoundUnless(found, "schedule"); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return s.Get(ctx, id)
}

// Delete removes a schedule and its attendance.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return deleteError(err, "schedule")
	}
	if err := notFoundUnless(found, "schedule"); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return nil
}

// Calendar renders a course offering's weekly schedules as an iCalendar feed bounded by its cycle.
func (s *ScheduleService) Calendar(ctx context.Context, courseOfferingID string) ([]byte, error) {
	schedules, err := s.repo.ListByCourseOffering(ctx, courseOfferingID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list schedules")
	}
	if len(schedules) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering has no schedules")
	}
	cycle, err := s.cycles.FindByID(ctx, schedules[0].CycleID)
	if err != nil {
		return nil, lookupError(err, "cycle")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//academia-api//schedules//ES")
	cal.SetXWRCalName(fmt.Sprintf("%s %s", schedules[0].CourseName, schedules[0].GroupLabel))

	until := time.Date(cycle.EndDate.Year(), cycle.EndDate.Month(), cycle.EndDate.Day(), 23, 59, 59, 0, s.location).UTC()
	stamp := time.Now().UTC()
	for _, sch := range schedules {
		start, end, ok := s.firstOccurrence(sch.Schedule, cycle.StartDate)
		if !ok || start.After(until) {
			continue
		}
		event := cal.AddEvent(sch.ID + "@academia-api")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s (%s)", sch.CourseName, sch.GroupLabel))
		if sch.Classroom != nil {
			event.SetLocation(*sch.Classroom)
		}
		if sch.TeacherName != nil {
			event.SetDescription("Docente: " + *sch.TeacherName)
		}
		event.AddRrule("FREQ=WEEKLY;UNTIL=" + until.Format("20060102T150405Z"))
	}
	return []byte(cal.Serialize()), nil
}

// firstOccurrence finds the first session on or after from.
func (s *ScheduleService) firstOccurrence(sch models.Schedule, from time.Time) (time.Time, time.Time, bool) {
	weekday, ok := sch.DayOfWeek.Weekday()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	_, startOffset, err := parseClock(sch.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	_, endOffset, err := parseClock(sch.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, s.location)
	for day.Weekday() != weekday {
		day = day.AddDate(0, 0, 1)
	}
	return day.Add(startOffset), day.Add(endOffset), true
}
