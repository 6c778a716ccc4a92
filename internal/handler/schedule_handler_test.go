package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/service"
)

const (
	offeringAlgebra = "5b0d6a3e-2c4f-4b8e-9a1d-7f6e5d4c3b2a"
	cycleSpring     = "c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e5f"
)

type fakeScheduleRepo struct {
	byOffering map[string][]models.ScheduleDetail
	listed     string
}

func (f *fakeScheduleRepo) List(context.Context) ([]models.ScheduleDetail, error) {
	f.listed = "all"
	return []models.ScheduleDetail{}, nil
}

func (f *fakeScheduleRepo) ListByCourseOffering(_ context.Context, id string) ([]models.ScheduleDetail, error) {
	f.listed = "course:" + id
	return f.byOffering[id], nil
}

func (f *fakeScheduleRepo) ListByPackageOffering(_ context.Context, id string) ([]models.ScheduleDetail, error) {
	f.listed = "package:" + id
	return []models.ScheduleDetail{}, nil
}

func (f *fakeScheduleRepo) FindByID(context.Context, string) (*models.ScheduleDetail, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeScheduleRepo) Create(context.Context, *models.Schedule) error { return nil }

func (f *fakeScheduleRepo) Update(context.Context, string, models.ScheduleUpdate) (bool, error) {
	return false, nil
}

func (f *fakeScheduleRepo) Delete(context.Context, string) (bool, error) { return false, nil }

type fakeCycleLookup struct{}

func (fakeCycleLookup) FindByID(_ context.Context, id string) (*models.Cycle, error) {
	if id != cycleSpring {
		return nil, sql.ErrNoRows
	}
	return &models.Cycle{
		ID:        cycleSpring,
		Name:      "2024-I",
		StartDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
	}, nil
}

func newScheduleHandlerFixture() (*ScheduleHandler, *fakeScheduleRepo) {
	room := "A-101"
	repo := &fakeScheduleRepo{byOffering: map[string][]models.ScheduleDetail{
		offeringAlgebra: {{
			Schedule:   models.Schedule{ID: "sch-1", CourseOfferingID: offeringAlgebra, DayOfWeek: models.DayOfWeek("wednesday"), StartTime: "08:00:00", EndTime: "10:00:00", Classroom: &room},
			CourseName: "Algebra",
			GroupLabel: "A",
			CycleID:    cycleSpring,
		}},
	}}
	svc := service.NewScheduleService(repo, fakeCycleLookup{}, nil, time.Minute, time.UTC, nil, nil)
	return NewScheduleHandler(svc), repo
}

func TestScheduleHandlerListDispatchesOnQuery(t *testing.T) {
	h, repo := newScheduleHandlerFixture()

	c, rec := newTestContext(http.MethodGet, "/schedules?course_offering_id="+offeringAlgebra, nil)
	h.List(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "course:"+offeringAlgebra, repo.listed)
	var items []models.ScheduleDetail
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &items))
	assert.Len(t, items, 1)

	c, _ = newTestContext(http.MethodGet, "/schedules?package_offering_id=pkg-1", nil)
	h.List(c)
	assert.Equal(t, "package:pkg-1", repo.listed)

	c, _ = newTestContext(http.MethodGet, "/schedules", nil)
	h.List(c)
	assert.Equal(t, "all", repo.listed)
}

func TestScheduleHandlerCreateRejectsInvertedRange(t *testing.T) {
	h, _ := newScheduleHandlerFixture()

	c, rec := newTestContext(http.MethodPost, "/schedules", map[string]string{
		"course_offering_id": offeringAlgebra,
		"day_of_week":        "monday",
		"start_time":         "10:00",
		"end_time":           "09:00",
	})
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)
}

func TestScheduleHandlerCalendar(t *testing.T) {
	h, _ := newScheduleHandlerFixture()

	c, rec := newTestContext(http.MethodGet, "/course-offerings/"+offeringAlgebra+"/calendar.ics", nil)
	c.AddParam("id", offeringAlgebra)
	h.Calendar(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/calendar"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".ics")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR"))
}

func TestScheduleHandlerGetMissing(t *testing.T) {
	h, _ := newScheduleHandlerFixture()

	c, rec := newTestContext(http.MethodGet, "/schedules/nope", nil)
	c.AddParam("id", "nope")
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
