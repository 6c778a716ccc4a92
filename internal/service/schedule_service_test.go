package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type mockScheduleRepo struct {
	schedules map[string]models.ScheduleDetail
	created   *models.Schedule
	lastUpd   models.ScheduleUpdate
}

func (m *mockScheduleRepo) List(ctx context.Context) ([]models.ScheduleDetail, error) {
	list := make([]models.ScheduleDetail, 0, len(m.schedules))
	for _, s := range m.schedules {
		list = append(list, s)
	}
	return list, nil
}

func (m *mockScheduleRepo) ListByCourseOffering(ctx context.Context, courseOfferingID string) ([]models.ScheduleDetail, error) {
	var list []models.ScheduleDetail
	for _, s := range m.schedules {
		if s.CourseOfferingID == courseOfferingID {
			list = append(list, s)
		}
	}
	return list, nil
}

func (m *mockScheduleRepo) ListByPackageOffering(ctx context.Context, packageOfferingID string) ([]models.ScheduleDetail, error) {
	return nil, nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id string) (*models.ScheduleDetail, error) {
	if s, ok := m.schedules[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	schedule.ID = "sch-new"
	m.created = schedule
	if m.schedules == nil {
		m.schedules = map[string]models.ScheduleDetail{}
	}
	m.schedules[schedule.ID] = models.ScheduleDetail{Schedule: *schedule}
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, id string, upd models.ScheduleUpdate) (bool, error) {
	m.lastUpd = upd
	_, ok := m.schedules[id]
	return ok, nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id string) (bool, error) {
	_, ok := m.schedules[id]
	return ok, nil
}

type stubCycleLookup struct {
	cycle *models.Cycle
}

func (s stubCycleLookup) FindByID(ctx context.Context, id string) (*models.Cycle, error) {
	if s.cycle == nil || s.cycle.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.cycle, nil
}

func TestScheduleServiceCreateNormalisesTimes(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, stubCycleLookup{}, nil, time.Minute, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateScheduleRequest{
		CourseOfferingID: "6f1c2f0e-8a55-4f7e-9d43-0b8e7c5d2a11",
		DayOfWeek:        models.Monday,
		StartTime:        "08:00",
		EndTime:          "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", repo.created.StartTime)
	assert.Equal(t, "09:30:00", repo.created.EndTime)
}

func TestScheduleServiceCreateRejectsInvertedRange(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, stubCycleLookup{}, nil, time.Minute, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateScheduleRequest{
		CourseOfferingID: "6f1c2f0e-8a55-4f7e-9d43-0b8e7c5d2a11",
		DayOfWeek:        models.Monday,
		StartTime:        "10:00",
		EndTime:          "10:00",
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Create(context.Background(), CreateScheduleRequest{
		CourseOfferingID: "6f1c2f0e-8a55-4f7e-9d43-0b8e7c5d2a11",
		DayOfWeek:        "funday",
		StartTime:        "10:00",
		EndTime:          "11:00",
	})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestScheduleServiceUpdateChecksMergedRange(t *testing.T) {
	repo := &mockScheduleRepo{schedules: map[string]models.ScheduleDetail{
		"sch-1": {Schedule: models.Schedule{ID: "sch-1", StartTime: "08:00:00", EndTime: "10:00:00"}},
	}}
	svc := NewScheduleService(repo, stubCycleLookup{}, nil, time.Minute, nil, nil, nil)

	start := "10:30"
	_, err := svc.Update(context.Background(), "sch-1", models.ScheduleUpdate{StartTime: &start})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	start = "09:00"
	_, err = svc.Update(context.Background(), "sch-1", models.ScheduleUpdate{StartTime: &start})
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", *repo.lastUpd.StartTime)
	assert.Equal(t, "10:00:00", *repo.lastUpd.EndTime)
}

func TestScheduleServiceCalendar(t *testing.T) {
	room := "A-101"
	repo := &mockScheduleRepo{schedules: map[string]models.ScheduleDetail{
		"sch-1": {
			Schedule:   models.Schedule{ID: "sch-1", CourseOfferingID: "co-1", DayOfWeek: models.Wednesday, StartTime: "08:00:00", EndTime: "10:00:00", Classroom: &room},
			CourseName: "Algebra",
			GroupLabel: "A",
			CycleID:    "cy-1",
		},
	}}
	cycle := &models.Cycle{ID: "cy-1", StartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)}
	svc := NewScheduleService(repo, stubCycleLookup{cycle: cycle}, nil, time.Minute, time.UTC, nil, nil)

	feed, err := svc.Calendar(context.Background(), "co-1")
	require.NoError(t, err)
	body := string(feed)
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Contains(t, body, "DTSTART:20240306T080000Z")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;UNTIL=20240628T235959Z")
	assert.Contains(t, body, "LOCATION:A-101")
	assert.Contains(t, body, "SUMMARY:Algebra (A)")

	_, err = svc.Calendar(context.Background(), "co-empty")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
