package service

import (
	"context"
	"database/sql"
	"io"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type mockPaymentRepo struct {
	plans        map[string]models.PaymentPlan
	installments map[string]models.Installment
	owners       map[string]models.InstallmentOwner
	createErr    error
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{
		plans:        map[string]models.PaymentPlan{},
		installments: map[string]models.Installment{},
		owners:       map[string]models.InstallmentOwner{},
	}
}

func (m *mockPaymentRepo) CreatePlan(ctx context.Context, exec sqlx.ExtContext, plan *models.PaymentPlan) error {
	if m.createErr != nil {
		return m.createErr
	}
	plan.ID = "plan-" + plan.EnrollmentID
	m.plans[plan.EnrollmentID] = *plan
	return nil
}

func (m *mockPaymentRepo) CreateInstallment(ctx context.Context, exec sqlx.ExtContext, inst *models.Installment) error {
	inst.ID = "inst-" + inst.PaymentPlanID
	m.installments[inst.ID] = *inst
	return nil
}

func (m *mockPaymentRepo) FindPlanByEnrollment(ctx context.Context, enrollmentID string) (*models.PaymentPlan, error) {
	if p, ok := m.plans[enrollmentID]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPaymentRepo) Balance(ctx context.Context, planID string) (float64, error) {
	for _, p := range m.plans {
		if p.ID != planID {
			continue
		}
		paid := 0.0
		for _, i := range m.installments {
			if i.PaymentPlanID == planID && i.Status == models.InstallmentStatusPaid {
				paid += i.Amount
			}
		}
		return p.TotalAmount - paid, nil
	}
	return 0, sql.ErrNoRows
}

func (m *mockPaymentRepo) ListInstallments(ctx context.Context, planID string) ([]models.Installment, error) {
	var list []models.Installment
	for _, i := range m.installments {
		if i.PaymentPlanID == planID {
			list = append(list, i)
		}
	}
	return list, nil
}

func (m *mockPaymentRepo) FindInstallment(ctx context.Context, id string) (*models.Installment, error) {
	if i, ok := m.installments[id]; ok {
		return &i, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPaymentRepo) FindInstallmentOwner(ctx context.Context, id string) (*models.InstallmentOwner, error) {
	o, ok := m.owners[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	o.VoucherURL = m.installments[id].VoucherURL
	return &o, nil
}

func (m *mockPaymentRepo) SetVoucher(ctx context.Context, id, voucherURL, mime string) (bool, error) {
	i, ok := m.installments[id]
	if !ok || i.Status == models.InstallmentStatusPaid {
		return false, nil
	}
	i.VoucherURL = &voucherURL
	i.VoucherMIME = &mime
	i.Status = models.InstallmentStatusPendingApproval
	m.installments[id] = i
	return true, nil
}

func (m *mockPaymentRepo) Approve(ctx context.Context, id string) (bool, error) {
	i, ok := m.installments[id]
	if !ok {
		return false, nil
	}
	now := time.Now()
	i.Status = models.InstallmentStatusPaid
	i.PaidAt = &now
	m.installments[id] = i
	return true, nil
}

func (m *mockPaymentRepo) Reject(ctx context.Context, id string) (bool, error) {
	i, ok := m.installments[id]
	if !ok {
		return false, nil
	}
	i.Status = models.InstallmentStatusPending
	i.VoucherURL = nil
	i.VoucherMIME = nil
	i.PaidAt = nil
	m.installments[id] = i
	return true, nil
}

func (m *mockPaymentRepo) ListPendingApproval(ctx context.Context) ([]models.PendingInstallment, error) {
	var list []models.PendingInstallment
	for _, i := range m.installments {
		if i.Status == models.InstallmentStatusPendingApproval {
			list = append(list, models.PendingInstallment{Installment: i})
		}
	}
	return list, nil
}

type mockEnrollmentLookup map[string]models.Enrollment

func (m mockEnrollmentLookup) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

type paymentFixture struct {
	svc   *PaymentService
	repo  *mockPaymentRepo
	store *storage.LocalStorage
}

func newPaymentFixture(t *testing.T) paymentFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := newMockPaymentRepo()
	enrollments := mockEnrollmentLookup{"enr-1": {ID: "enr-1", StudentID: "stu-1"}}
	svc := NewPaymentService(repo, enrollments, store, storage.NewSignedURLSigner("secret", time.Minute), nil, PaymentConfig{MaxVoucherBytes: 1024}, nil)
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC) }

	_, _, err = svc.OpenPlan(context.Background(), nil, "enr-1", 350.004)
	require.NoError(t, err)
	repo.owners["inst-plan-enr-1"] = models.InstallmentOwner{
		InstallmentID: "inst-plan-enr-1",
		EnrollmentID:  "enr-1",
		StudentID:     "stu-1",
		StudentName:   "Ana Quispe",
		StudentDNI:    "70000001",
		ItemName:      "Algebra",
	}
	return paymentFixture{svc: svc, repo: repo, store: store}
}

func studentClaims(id string) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Role: models.RoleStudent, RelatedID: id}
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
}

func TestPaymentServiceOpenPlan(t *testing.T) {
	f := newPaymentFixture(t)

	plan := f.repo.plans["enr-1"]
	assert.Equal(t, 350.0, plan.TotalAmount)
	assert.Equal(t, 1, plan.Installments)

	inst := f.repo.installments["inst-plan-enr-1"]
	assert.Equal(t, 1, inst.Number)
	assert.Equal(t, 350.0, inst.Amount)
	assert.Equal(t, models.InstallmentStatusPending, inst.Status)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), inst.DueDate)
}

func TestUrgency(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	due := func(days int) models.Installment {
		return models.Installment{Status: models.InstallmentStatusPending, DueDate: today.AddDate(0, 0, days)}
	}

	assert.Equal(t, models.UrgencyOverdue, Urgency(due(-1), today))
	assert.Equal(t, models.UrgencyUpcoming, Urgency(due(0), today))
	assert.Equal(t, models.UrgencyUpcoming, Urgency(due(7), today))
	assert.Equal(t, models.UrgencyPending, Urgency(due(8), today))

	paid := due(-3)
	paid.Status = models.InstallmentStatusPaid
	assert.Empty(t, Urgency(paid, today))
}

func TestPaymentServicePlanByEnrollment(t *testing.T) {
	f := newPaymentFixture(t)

	summary, err := f.svc.PlanByEnrollment(context.Background(), studentClaims("stu-1"), "enr-1")
	require.NoError(t, err)
	assert.Equal(t, 350.0, summary.Balance)
	assert.Equal(t, 350.0, summary.Pending)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, models.UrgencyUpcoming, summary.Items[0].Urgency)

	_, err = f.svc.PlanByEnrollment(context.Background(), studentClaims("stu-2"), "enr-1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = f.svc.PlanByEnrollment(context.Background(), adminClaims(), "enr-missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPaymentServiceSubmitVoucher(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitVoucher(ctx, studentClaims("stu-2"), "inst-plan-enr-1", VoucherUpload{Data: pngHeader})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = f.svc.SubmitVoucher(ctx, studentClaims("stu-1"), "inst-plan-enr-1", VoucherUpload{Data: []byte("plain text receipt")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.SubmitVoucher(ctx, studentClaims("stu-1"), "inst-plan-enr-1", VoucherUpload{Data: make([]byte, 2048)})
	assert.ErrorIs(t, err, appErrors.ErrPayloadTooLarge)

	inst, err := f.svc.SubmitVoucher(ctx, studentClaims("stu-1"), "inst-plan-enr-1", VoucherUpload{Filename: "voucher.png", Data: pngHeader})
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentStatusPendingApproval, inst.Status)
	require.NotNil(t, inst.VoucherMIME)
	assert.Equal(t, "image/png", *inst.VoucherMIME)

	file, err := f.store.Open(*inst.VoucherURL)
	require.NoError(t, err)
	stored, err := io.ReadAll(file)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	assert.Equal(t, pngHeader, stored)

	_, err = f.svc.SubmitVoucher(ctx, studentClaims("stu-1"), "inst-missing", VoucherUpload{Data: pngHeader})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestPaymentServiceApproveRejectAndGate(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	inst, err := f.svc.SubmitVoucher(ctx, studentClaims("stu-1"), "inst-plan-enr-1", VoucherUpload{Data: pngHeader})
	require.NoError(t, err)
	key := *inst.VoucherURL

	pending, err := f.svc.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	rejected, err := f.svc.Reject(ctx, "inst-plan-enr-1")
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentStatusPending, rejected.Status)
	assert.Nil(t, rejected.VoucherURL)
	_, err = f.store.Open(key)
	assert.Error(t, err)

	balance, found, err := f.svc.planBalance(ctx, "enr-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 350.0, balance)

	approved, err := f.svc.Approve(ctx, "inst-plan-enr-1")
	require.NoError(t, err)
	assert.Equal(t, models.InstallmentStatusPaid, approved.Status)
	assert.NotNil(t, approved.PaidAt)

	balance, _, err = f.svc.planBalance(ctx, "enr-1")
	require.NoError(t, err)
	assert.Zero(t, balance)

	_, err = f.svc.SubmitVoucher(ctx, studentClaims("stu-1"), "inst-plan-enr-1", VoucherUpload{Data: pngHeader})
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	_, err = f.svc.Approve(ctx, "inst-missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = f.svc.Reject(ctx, "inst-missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, found, err = f.svc.planBalance(ctx, "enr-without-plan")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPaymentServiceVoucherLink(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.VoucherLink(ctx, adminClaims(), "inst-plan-enr-1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, err = f.svc.SubmitVoucher(ctx, studentClaims("stu-1"), "inst-plan-enr-1", VoucherUpload{Data: pngHeader})
	require.NoError(t, err)

	link, err := f.svc.VoucherLink(ctx, adminClaims(), "inst-plan-enr-1")
	require.NoError(t, err)
	assert.NotEmpty(t, link.Token)

	voucher, err := f.svc.OpenVoucher(ctx, link.Token)
	require.NoError(t, err)
	defer voucher.File.Close()
	assert.Equal(t, "image/png", voucher.ContentType)

	_, err = f.svc.OpenVoucher(ctx, link.Token+"x")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestPaymentServiceReceipt(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.Receipt(ctx, studentClaims("stu-1"), "inst-plan-enr-1")
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	_, err = f.svc.Approve(ctx, "inst-plan-enr-1")
	require.NoError(t, err)

	doc, err := f.svc.Receipt(ctx, studentClaims("stu-1"), "inst-plan-enr-1")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(doc[:4]))

	_, err = f.svc.Receipt(ctx, studentClaims("stu-9"), "inst-plan-enr-1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestPaymentServiceDueDateFollowsLocalDay(t *testing.T) {
	lima := time.FixedZone("PET", -5*60*60)
	repo := newMockPaymentRepo()
	svc := NewPaymentService(repo, mockEnrollmentLookup{}, nil, nil, nil, PaymentConfig{Location: lima}, nil)
	// 20:30 in Lima is already the next day in UTC.
	svc.now = func() time.Time { return time.Date(2024, 5, 10, 20, 30, 0, 0, lima) }

	_, inst, err := svc.OpenPlan(context.Background(), nil, "enr-9", 120)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), inst.DueDate)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), svc.today())
}

func TestPaymentServiceMalformedInstallmentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewPaymentRepository(sqlx.NewDb(db, "sqlmock"))
	svc := NewPaymentService(repo, mockEnrollmentLookup{}, nil, nil, nil, PaymentConfig{}, nil)
	invalid := &pq.Error{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

	mock.ExpectExec("UPDATE installments SET status").WillReturnError(invalid)
	_, err = svc.Approve(context.Background(), "abc")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	mock.ExpectQuery("FROM installments i").WillReturnError(invalid)
	_, err = svc.Reject(context.Background(), "abc")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
