package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

const (
	studentA      = "0b6f4a53-6f0e-4c55-9a57-3f7c0f1f2a01"
	courseOffer   = "5a0c1c8e-2a42-4f6a-8d0e-0d9e6c1b7a11"
	packageOffer  = "8e2d9f40-51b5-4f0e-b7a1-9c3e2d4f6a22"
	unknownOffer  = "c1d2e3f4-0000-4000-8000-000000000001"
	existingOffer = "d4c3b2a1-1111-4111-8111-111111111111"
)

type mockEnrollmentRepo struct {
	db          *sqlx.DB
	prices      map[string]float64
	existing    map[string]bool
	enrollments map[string]models.Enrollment
	createErr   error
	seq         int
}

func newMockEnrollmentRepo(db *sqlx.DB) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{
		db:          db,
		prices:      map[string]float64{courseOffer: 250, packageOffer: 600, existingOffer: 100},
		existing:    map[string]bool{studentA + existingOffer: true},
		enrollments: map[string]models.Enrollment{},
	}
}

func (m *mockEnrollmentRepo) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return m.db.BeginTxx(ctx, opts)
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.seq++
	enrollment.ID = "enr-" + string(rune('0'+m.seq))
	m.enrollments[enrollment.ID] = *enrollment
	m.existing[enrollment.StudentID+enrollment.Ref().ID] = true
	return nil
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, exec sqlx.ExtContext, studentID string, ref models.OfferingRef) (bool, error) {
	return m.existing[studentID+ref.ID], nil
}

func (m *mockEnrollmentRepo) ResolvePrice(ctx context.Context, exec sqlx.ExtContext, ref models.OfferingRef) (float64, error) {
	if price, ok := m.prices[ref.ID]; ok {
		return price, nil
	}
	return 0, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	e, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.EnrollmentDetail{Enrollment: *e, StudentName: "Ana Quispe", ItemName: "Algebra"}, nil
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	var list []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		total := 250.0
		list = append(list, models.EnrollmentDetail{Enrollment: e, StudentDNI: "70000001", StudentName: "Ana Quispe", ItemName: "Algebra", TotalAmount: &total})
	}
	return list, nil
}

func (m *mockEnrollmentRepo) ListByOffering(ctx context.Context, ref models.OfferingRef, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	var list []models.EnrollmentDetail
	for _, e := range m.enrollments {
		if e.Ref().ID == ref.ID && e.Status == status {
			list = append(list, models.EnrollmentDetail{Enrollment: e})
		}
	}
	return list, nil
}

func (m *mockEnrollmentRepo) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (bool, error) {
	e, ok := m.enrollments[id]
	if !ok {
		return false, nil
	}
	e.Status = status
	m.enrollments[id] = e
	return true, nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) (bool, error) {
	_, ok := m.enrollments[id]
	delete(m.enrollments, id)
	return ok, nil
}

type enrollmentFixture struct {
	svc      *EnrollmentService
	repo     *mockEnrollmentRepo
	payments *PaymentService
	payRepo  *mockPaymentRepo
	mock     sqlmock.Sqlmock
}

func newEnrollmentFixture(t *testing.T) enrollmentFixture {
	t.Helper()
	db, mock := newTxMock(t)
	repo := newMockEnrollmentRepo(db)
	payRepo := newMockPaymentRepo()
	payments := NewPaymentService(payRepo, repo, nil, nil, nil, PaymentConfig{}, nil)
	return enrollmentFixture{
		svc:      NewEnrollmentService(repo, payments, nil, nil, nil),
		repo:     repo,
		payments: payments,
		payRepo:  payRepo,
		mock:     mock,
	}
}

func TestEnrollmentServiceEnrollBatch(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	results, err := f.svc.Enroll(context.Background(), studentClaims(studentA), EnrollRequest{Items: []models.OfferingRef{
		{Type: models.OfferingCourse, ID: courseOffer},
		{Type: models.OfferingPackage, ID: packageOffer},
	}})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 250.0, results[0].Amount)
	assert.Equal(t, 600.0, results[1].Amount)
	assert.NotEmpty(t, results[1].PlanID)
	assert.NotEmpty(t, results[1].InstallmentID)

	pkg := f.repo.enrollments[results[1].EnrollmentID]
	assert.Equal(t, models.OfferingPackage, pkg.EnrollmentType)
	assert.Nil(t, pkg.CourseOfferingID)
	assert.Equal(t, models.EnrollmentStatusPending, pkg.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestEnrollmentServiceEnrollDuplicateRollsBack(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Enroll(context.Background(), studentClaims(studentA), EnrollRequest{Items: []models.OfferingRef{
		{Type: models.OfferingCourse, ID: courseOffer},
		{Type: models.OfferingCourse, ID: existingOffer},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEnrollment)
	assert.True(t, strings.HasPrefix(appErrors.FromError(err).Message, "item 2:"))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestEnrollmentServiceEnrollStoreRace(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.repo.createErr = repository.ErrDuplicate
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Enroll(context.Background(), studentClaims(studentA), EnrollRequest{Items: []models.OfferingRef{
		{Type: models.OfferingCourse, ID: courseOffer},
	}})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateEnrollment)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestEnrollmentServiceEnrollUnknownOffering(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Enroll(context.Background(), studentClaims(studentA), EnrollRequest{Items: []models.OfferingRef{
		{Type: models.OfferingCourse, ID: unknownOffer},
	}})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestEnrollmentServiceEnrollValidation(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Enroll(ctx, adminClaims(), EnrollRequest{Items: []models.OfferingRef{{Type: models.OfferingCourse, ID: courseOffer}}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Enroll(ctx, studentClaims(studentA), EnrollRequest{Items: []models.OfferingRef{{Type: "diploma", ID: courseOffer}}})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Enroll(ctx, studentClaims(studentA), EnrollRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Enroll(ctx, studentClaims(studentA), EnrollRequest{StudentID: packageOffer, Items: []models.OfferingRef{{Type: models.OfferingCourse, ID: courseOffer}}})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestEnrollmentServiceSetStatusGate(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	results, err := f.svc.Enroll(ctx, adminClaims(), EnrollRequest{StudentID: studentA, Items: []models.OfferingRef{{Type: models.OfferingCourse, ID: courseOffer}}})
	require.NoError(t, err)
	id := results[0].EnrollmentID

	_, err = f.svc.SetStatus(ctx, id, "archived")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.SetStatus(ctx, "enr-missing", models.EnrollmentStatusAccepted)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = f.svc.SetStatus(ctx, id, models.EnrollmentStatusAccepted)
	assert.ErrorIs(t, err, appErrors.ErrPaymentIncomplete)
	assert.Equal(t, models.EnrollmentStatusPending, f.repo.enrollments[id].Status)

	rejected, err := f.svc.SetStatus(ctx, id, models.EnrollmentStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusRejected, rejected.Status)

	_, err = f.payments.Approve(ctx, results[0].InstallmentID)
	require.NoError(t, err)

	accepted, err := f.svc.SetStatus(ctx, id, models.EnrollmentStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusAccepted, accepted.Status)
}

func TestEnrollmentServiceAcceptWithoutPlan(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.repo.enrollments["enr-orphan"] = models.Enrollment{ID: "enr-orphan", StudentID: studentA, Status: models.EnrollmentStatusPending}

	_, err := f.svc.SetStatus(context.Background(), "enr-orphan", models.EnrollmentStatusAccepted)
	assert.ErrorIs(t, err, appErrors.ErrPaymentIncomplete)
}

func TestEnrollmentServiceReadsAndExport(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()
	f.repo.enrollments["enr-a"] = *models.NewEnrollment(studentA, models.OfferingRef{Type: models.OfferingCourse, ID: courseOffer})
	f.repo.enrollments["enr-b"] = *models.NewEnrollment("someone-else", models.OfferingRef{Type: models.OfferingCourse, ID: courseOffer})

	own, err := f.svc.List(ctx, studentClaims(studentA), models.EnrollmentFilter{})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	_, err = f.svc.Get(ctx, studentClaims(studentA), "enr-b")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	accepted, err := f.svc.ListByOffering(ctx, models.OfferingRef{Type: models.OfferingCourse, ID: courseOffer}, "")
	require.NoError(t, err)
	assert.Empty(t, accepted)

	file, err := f.svc.Export(ctx, models.EnrollmentFilter{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))
	assert.Contains(t, string(file.Data), "DNI,Student,Type,Item")
	assert.Contains(t, string(file.Data), "70000001,Ana Quispe,course,Algebra")

	_, err = f.svc.Export(ctx, models.EnrollmentFilter{}, "docx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	require.NoError(t, f.svc.Delete(ctx, "enr-a"))
	assert.ErrorIs(t, f.svc.Delete(ctx, "enr-a"), appErrors.ErrNotFound)
}
