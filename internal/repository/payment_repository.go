package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// PaymentRepository persists payment plans and installments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const planColumns = `id, enrollment_id, total_amount, installments, created_at`

const installmentColumns = `i.id, i.payment_plan_id, i.installment_number, i.due_date, i.amount, i.status, i.voucher_url, i.voucher_mime, i.paid_at, i.updated_at`

const installmentOwnerJoins = `
        JOIN payment_plans pp ON pp.id = i.payment_plan_id
        JOIN enrollments e ON e.id = pp.enrollment_id
        JOIN students s ON s.id = e.student_id` + offeringJoins

// CreatePlan inserts a payment plan.
func (r *PaymentRepository) CreatePlan(ctx context.Context, exec sqlx.ExtContext, plan *models.PaymentPlan) error {
	target := pick(r.db, exec)
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	plan.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO payment_plans (id, enrollment_id, total_amount, installments, created_at)
        VALUES (:id, :enrollment_id, :total_amount, :installments, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, plan); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create payment plan: %w", err)
	}
	return nil
}

// CreateInstallment inserts an installment.
func (r *PaymentRepository) CreateInstallment(ctx context.Context, exec sqlx.ExtContext, inst *models.Installment) error {
	target := pick(r.db, exec)
	if inst.ID == "" {
		inst.ID = uuid.NewString()
	}
	if inst.Status == "" {
		inst.Status = models.InstallmentStatusPending
	}
	inst.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO installments (id, payment_plan_id, installment_number, due_date, amount, status, voucher_url, voucher_mime, paid_at, updated_at)
        VALUES (:id, :payment_plan_id, :installment_number, :due_date, :amount, :status, :voucher_url, :voucher_mime, :paid_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, inst); err != nil {
		return fmt.Errorf("create installment: %w", err)
	}
	return nil
}

// FindPlanByEnrollment returns the plan opened for an enrollment.
func (r *PaymentRepository) FindPlanByEnrollment(ctx context.Context, enrollmentID string) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	if err := r.db.GetContext(ctx, &plan, `SELECT `+planColumns+` FROM payment_plans WHERE enrollment_id = $1`, enrollmentID); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Balance returns total_amount minus the sum of paid installments.
func (r *PaymentRepository) Balance(ctx context.Context, planID string) (float64, error) {
	const query = `SELECT pp.total_amount - COALESCE(SUM(i.amount) FILTER (WHERE i.status = 'paid'), 0)
        FROM payment_plans pp
        LEFT JOIN installments i ON i.payment_plan_id = pp.id
        WHERE pp.id = $1
        GROUP BY pp.id, pp.total_amount`
	var balance float64
	if err := r.db.GetContext(ctx, &balance, query, planID); err != nil {
		return 0, err
	}
	return balance, nil
}

// ListInstallments returns a plan's installments ordered by number.
func (r *PaymentRepository) ListInstallments(ctx context.Context, planID string) ([]models.Installment, error) {
	var installments []models.Installment
	query := `SELECT ` + installmentColumns + ` FROM installments i WHERE i.payment_plan_id = $1 ORDER BY i.installment_number`
	if err := r.db.SelectContext(ctx, &installments, query, planID); err != nil {
		return nil, fmt.Errorf("list installments: %w", err)
	}
	return installments, nil
}

// FindInstallment fetches an installment.
func (r *PaymentRepository) FindInstallment(ctx context.Context, id string) (*models.Installment, error) {
	var inst models.Installment
	if err := r.db.GetContext(ctx, &inst, `SELECT `+installmentColumns+` FROM installments i WHERE i.id = $1`, id); err != nil {
		return nil, err
	}
	return &inst, nil
}

// FindInstallmentOwner resolves the student and item an installment belongs to.
func (r *PaymentRepository) FindInstallmentOwner(ctx context.Context, id string) (*models.InstallmentOwner, error) {
	query := `SELECT i.id AS installment_id, e.id AS enrollment_id, s.id AS student_id,
        s.first_name || ' ' || s.last_name AS student_name, s.dni AS student_dni,
        COALESCE(c.name, p.name, '') AS item_name, i.voucher_url
        FROM installments i` + installmentOwnerJoins + `
        WHERE i.id = $1`
	var owner models.InstallmentOwner
	if err := r.db.GetContext(ctx, &owner, query, id); err != nil {
		return nil, err
	}
	return &owner, nil
}

// SetVoucher records a voucher and moves an unpaid installment to pending_approval.
func (r *PaymentRepository) SetVoucher(ctx context.Context, id, voucherURL, mime string) (bool, error) {
	const query = `UPDATE installments SET voucher_url = $2, voucher_mime = $3, status = $4, updated_at = $5
        WHERE id = $1 AND status <> $6`
	res, err := r.db.ExecContext(ctx, query, id, voucherURL, mime, models.InstallmentStatusPendingApproval, time.Now().UTC(), models.InstallmentStatusPaid)
	if err != nil {
		return false, fmt.Errorf("set voucher: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Approve marks an installment paid, stamping paid_at on every call.
func (r *PaymentRepository) Approve(ctx context.Context, id string) (bool, error) {
	now := time.Now().UTC()
	const query = `UPDATE installments SET status = $2, paid_at = $3, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.InstallmentStatusPaid, now)
	if err != nil {
		return false, fmt.Errorf("approve installment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Reject returns an installment to pending and clears its voucher.
func (r *PaymentRepository) Reject(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE installments SET status = $2, voucher_url = NULL, voucher_mime = NULL, paid_at = NULL, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, models.InstallmentStatusPending, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("reject installment: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListPendingApproval returns installments awaiting review, earliest due first.
func (r *PaymentRepository) ListPendingApproval(ctx context.Context) ([]models.PendingInstallment, error) {
	query := `SELECT ` + installmentColumns + `, e.id AS enrollment_id, s.id AS student_id,
        s.first_name || ' ' || s.last_name AS student_name, s.dni AS student_dni,
        COALESCE(c.name, p.name, '') AS item_name
        FROM installments i` + installmentOwnerJoins + `
        WHERE i.status = $1
        ORDER BY i.due_date, i.installment_number`
	var pending []models.PendingInstallment
	if err := r.db.SelectContext(ctx, &pending, query, models.InstallmentStatusPendingApproval); err != nil {
		return nil, fmt.Errorf("list pending installments: %w", err)
	}
	return pending, nil
}
