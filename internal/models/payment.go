package models

import "time"

// InstallmentStatus tracks the voucher review lifecycle.
type InstallmentStatus string

const (
	InstallmentStatusPending         InstallmentStatus = "pending"
	InstallmentStatusPendingApproval InstallmentStatus = "pending_approval"
	InstallmentStatusPaid            InstallmentStatus = "paid"
)

// Urgency labels for unpaid installments.
const (
	UrgencyOverdue  = "overdue"
	UrgencyUpcoming = "upcoming"
	UrgencyPending  = "pending"
)

// PaymentPlan is the debt opened by an enrollment.
type PaymentPlan struct {
	ID           string    `db:"id" json:"id"`
	EnrollmentID string    `db:"enrollment_id" json:"enrollment_id"`
	TotalAmount  float64   `db:"total_amount" json:"total_amount"`
	Installments int       `db:"installments" json:"installments_count"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Installment is one payable part of a plan.
type Installment struct {
	ID            string            `db:"id" json:"id"`
	PaymentPlanID string            `db:"payment_plan_id" json:"payment_plan_id"`
	Number        int               `db:"installment_number" json:"installment_number"`
	DueDate       time.Time         `db:"due_date" json:"due_date"`
	Amount        float64           `db:"amount" json:"amount"`
	Status        InstallmentStatus `db:"status" json:"status"`
	VoucherURL    *string           `db:"voucher_url" json:"-"`
	VoucherMIME   *string           `db:"voucher_mime" json:"voucher_mime,omitempty"`
	PaidAt        *time.Time        `db:"paid_at" json:"paid_at,omitempty"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// HasVoucher reports whether a voucher reference is stored.
func (i Installment) HasVoucher() bool {
	return i.VoucherURL != nil && *i.VoucherURL != ""
}

// InstallmentView adds the derived urgency label.
type InstallmentView struct {
	Installment
	HasVoucher bool   `json:"has_voucher"`
	Urgency    string `json:"urgency,omitempty"`
}

// PlanSummary is a plan with its installments and derived totals.
type PlanSummary struct {
	PaymentPlan
	Paid    float64           `json:"paid"`
	Pending float64           `json:"pending"`
	Balance float64           `json:"balance"`
	Items   []InstallmentView `json:"installments"`
}

// InstallmentOwner carries the enrollment context of an installment.
type InstallmentOwner struct {
	InstallmentID string  `db:"installment_id"`
	EnrollmentID  string  `db:"enrollment_id"`
	StudentID     string  `db:"student_id"`
	StudentName   string  `db:"student_name"`
	StudentDNI    string  `db:"student_dni"`
	ItemName      string  `db:"item_name"`
	VoucherURL    *string `db:"voucher_url"`
}

// PendingInstallment is a row of the approval queue.
type PendingInstallment struct {
	Installment
	EnrollmentID string `db:"enrollment_id" json:"enrollment_id"`
	StudentID    string `db:"student_id" json:"student_id"`
	StudentName  string `db:"student_name" json:"student_name"`
	StudentDNI   string `db:"student_dni" json:"student_dni"`
	ItemName     string `db:"item_name" json:"item_name"`
}
