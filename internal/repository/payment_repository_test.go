package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
)

func TestPaymentRepositoryBalance(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FILTER (WHERE i.status = 'paid')")).
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(0.0))

	balance, err := repo.Balance(context.Background(), "plan-1")
	require.NoError(t, err)
	assert.Zero(t, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryCreatePlanAndInstallment(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payment_plans").
		WithArgs(sqlmock.AnyArg(), "enr-1", 200.0, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO installments").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1, sqlmock.AnyArg(), 200.0, models.InstallmentStatusPending, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	plan := &models.PaymentPlan{EnrollmentID: "enr-1", TotalAmount: 200, Installments: 1}
	require.NoError(t, repo.CreatePlan(context.Background(), tx, plan))
	inst := &models.Installment{PaymentPlanID: plan.ID, Number: 1, DueDate: time.Now().AddDate(0, 0, 7), Amount: 200}
	require.NoError(t, repo.CreateInstallment(context.Background(), tx, inst))
	require.NoError(t, tx.Commit())
	assert.Equal(t, models.InstallmentStatusPending, inst.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositorySetVoucherSkipsPaid(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status <> $6")).
		WithArgs("inst-1", "vouchers/a.pdf", "application/pdf", models.InstallmentStatusPendingApproval, sqlmock.AnyArg(), models.InstallmentStatusPaid).
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.SetVoucher(context.Background(), "inst-1", "vouchers/a.pdf", "application/pdf")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryApproveAndReject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET status = $2, paid_at = $3")).
		WithArgs("inst-1", models.InstallmentStatusPaid, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("voucher_url = NULL")).
		WithArgs("inst-2", models.InstallmentStatusPending, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Approve(context.Background(), "inst-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Reject(context.Background(), "inst-2")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryListPendingApproval(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "payment_plan_id", "installment_number", "due_date", "amount", "status", "voucher_url", "voucher_mime", "paid_at", "updated_at",
		"enrollment_id", "student_id", "student_name", "student_dni", "item_name"}).
		AddRow("inst-1", "plan-1", 1, now, 120.0, "pending_approval", "vouchers/x.png", "image/png", nil, now, "enr-1", "stu-1", "Ana Ruiz", "12345678", "Algebra")
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY i.due_date, i.installment_number")).
		WithArgs(models.InstallmentStatusPendingApproval).
		WillReturnRows(rows)

	pending, err := repo.ListPendingApproval(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].HasVoucher())
	assert.Equal(t, "Ana Ruiz", pending[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
