package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/internal/models"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/export"
	"github.com/noah-isme/academia-api/pkg/storage"
)

type paymentRepository interface {
	CreatePlan(ctx context.Context, exec sqlx.ExtContext, plan *models.PaymentPlan) error
	CreateInstallment(ctx context.Context, exec sqlx.ExtContext, inst *models.Installment) error
	FindPlanByEnrollment(ctx context.Context, enrollmentID string) (*models.PaymentPlan, error)
	Balance(ctx context.Context, planID string) (float64, error)
	ListInstallments(ctx context.Context, planID string) ([]models.Installment, error)
	FindInstallment(ctx context.Context, id string) (*models.Installment, error)
	FindInstallmentOwner(ctx context.Context, id string) (*models.InstallmentOwner, error)
	SetVoucher(ctx context.Context, id, voucherURL, mime string) (bool, error)
	Approve(ctx context.Context, id string) (bool, error)
	Reject(ctx context.Context, id string) (bool, error)
	ListPendingApproval(ctx context.Context) ([]models.PendingInstallment, error)
}

type enrollmentLookup interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

type voucherStorage interface {
	Save(key string, data []byte) (string, error)
	Open(key string) (*os.File, error)
	Delete(key string) error
}

type voucherSigner interface {
	Generate(ownerID, key string) (string, time.Time, error)
	Parse(token string) (ownerID, key string, err error)
}

// PaymentConfig tunes plan creation and voucher intake.
type PaymentConfig struct {
	InstallmentDueDays int
	MaxVoucherBytes    int64
	AllowedMIMEs       []string
	Institution        string
	// Location fixes the calendar day used for due dates and urgency.
	Location           *time.Location
}

// VoucherUpload is a submitted voucher file.
type VoucherUpload struct {
	Filename string
	Data     []byte
}

// VoucherLink is a signed, expiring download link for a voucher.
type VoucherLink struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VoucherFile is an opened voucher ready to stream.
type VoucherFile struct {
	File        *os.File
	ContentType string
	Filename    string
}

// PaymentService opens payment plans and runs the voucher approval flow.
type PaymentService struct {
	repo        paymentRepository
	enrollments enrollmentLookup
	storage     voucherStorage
	signer      voucherSigner
	metrics     *MetricsService
	config      PaymentConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService constructs PaymentService.
func NewPaymentService(repo paymentRepository, enrollments enrollmentLookup, store voucherStorage, signer voucherSigner, metrics *MetricsService, cfg PaymentConfig, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.InstallmentDueDays <= 0 {
		cfg.InstallmentDueDays = 7
	}
	if cfg.MaxVoucherBytes <= 0 {
		cfg.MaxVoucherBytes = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "application/pdf"}
	}
	if cfg.Institution == "" {
		cfg.Institution = "Academia"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &PaymentService{
		repo:        repo,
		enrollments: enrollments,
		storage:     store,
		signer:      signer,
		metrics:     metrics,
		config:      cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// today is the local calendar day of the institution, stored as a UTC date.
func (s *PaymentService) today() time.Time {
	now := s.now().In(s.config.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// OpenPlan creates a single-installment plan for an enrollment within the caller's transaction.
func (s *PaymentService) OpenPlan(ctx context.Context, exec sqlx.ExtContext, enrollmentID string, total float64) (*models.PaymentPlan, *models.Installment, error) {
	total = roundCents(total)
	plan := &models.PaymentPlan{EnrollmentID: enrollmentID, TotalAmount: total, Installments: 1}
	if err := s.repo.CreatePlan(ctx, exec, plan); err != nil {
		return nil, nil, err
	}
	inst := &models.Installment{
		PaymentPlanID: plan.ID,
		Number:        1,
		DueDate:       s.today().AddDate(0, 0, s.config.InstallmentDueDays),
		Amount:        total,
		Status:        models.InstallmentStatusPending,
	}
	if err := s.repo.CreateInstallment(ctx, exec, inst); err != nil {
		return nil, nil, err
	}
	return plan, inst, nil
}

// Balance returns the unpaid remainder of a plan.
func (s *PaymentService) Balance(ctx context.Context, planID string) (float64, error) {
	balance, err := s.repo.Balance(ctx, planID)
	if err != nil {
		return 0, lookupError(err, "payment plan")
	}
	return roundCents(balance), nil
}

// Urgency labels an installment relative to today.
func Urgency(inst models.Installment, today time.Time) string {
	if inst.Status == models.InstallmentStatusPaid {
		return ""
	}
	due := time.Date(inst.DueDate.Year(), inst.DueDate.Month(), inst.DueDate.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case due.Before(today):
		return models.UrgencyOverdue
	case !due.After(today.AddDate(0, 0, 7)):
		return models.UrgencyUpcoming
	default:
		return models.UrgencyPending
	}
}

// PlanByEnrollment returns the plan of an enrollment with its installments and totals.
func (s *PaymentService) PlanByEnrollment(ctx context.Context, claims *models.JWTClaims, enrollmentID string) (*models.PlanSummary, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, lookupError(err, "enrollment")
	}
	if err := ensureStudentOwns(claims, enrollment.StudentID); err != nil {
		return nil, err
	}
	plan, err := s.repo.FindPlanByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, lookupError(err, "payment plan")
	}
	installments, err := s.repo.ListInstallments(ctx, plan.ID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list installments")
	}

	today := s.today()
	summary := &models.PlanSummary{PaymentPlan: *plan, Items: make([]models.InstallmentView, 0, len(installments))}
	for _, inst := range installments {
		if inst.Status == models.InstallmentStatusPaid {
			summary.Paid += inst.Amount
		} else {
			summary.Pending += inst.Amount
		}
		summary.Items = append(summary.Items, models.InstallmentView{
			Installment: inst,
			HasVoucher:  inst.HasVoucher(),
			Urgency:     Urgency(inst, today),
		})
	}
	summary.Paid = roundCents(summary.Paid)
	summary.Pending = roundCents(summary.Pending)
	summary.Balance = roundCents(plan.TotalAmount - summary.Paid)
	return summary, nil
}

// ensureStudentOwns blocks students from touching records of other students.
func ensureStudentOwns(claims *models.JWTClaims, studentID string) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role == models.RoleStudent && claims.RelatedID != studentID {
		return appErrors.ErrForbidden
	}
	return nil
}

func (s *PaymentService) owner(ctx context.Context, installmentID string) (*models.InstallmentOwner, error) {
	owner, err := s.repo.FindInstallmentOwner(ctx, installmentID)
	if err != nil {
		return nil, lookupError(err, "installment")
	}
	return owner, nil
}

func (s *PaymentService) allowed(mime *mimetype.MIME) bool {
	for _, candidate := range s.config.AllowedMIMEs {
		if mime.Is(candidate) {
			return true
		}
	}
	return false
}

// SubmitVoucher stores a voucher file and moves the installment to pending_approval.
func (s *PaymentService) SubmitVoucher(ctx context.Context, claims *models.JWTClaims, installmentID string, upload VoucherUpload) (*models.Installment, error) {
	if len(upload.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "voucher file is empty")
	}
	if int64(len(upload.Data)) > s.config.MaxVoucherBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("voucher exceeds %d bytes", s.config.MaxVoucherBytes))
	}
	detected := mimetype.Detect(upload.Data)
	if !s.allowed(detected) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("voucher type %s is not allowed", detected.String()))
	}

	owner, err := s.owner(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureStudentOwns(claims, owner.StudentID); err != nil {
		return nil, err
	}
	current, err := s.repo.FindInstallment(ctx, installmentID)
	if err != nil {
		return nil, lookupError(err, "installment")
	}
	if current.Status == models.InstallmentStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "installment is already paid")
	}

	key := path.Join(owner.StudentID, installmentID, uuid.NewString()+detected.Extension())
	stored, err := s.storage.Save(key, upload.Data)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to store voucher")
	}
	contentType := strings.SplitN(detected.String(), ";", 2)[0]
	updated, err := s.repo.SetVoucher(ctx, installmentID, stored, contentType)
	if err != nil {
		s.discard(stored)
		return nil, appErrors.Internal(err, "failed to record voucher")
	}
	if !updated {
		s.discard(stored)
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "installment is already paid")
	}
	if owner.VoucherURL != nil && *owner.VoucherURL != "" && *owner.VoucherURL != stored {
		s.discard(*owner.VoucherURL)
	}
	s.metrics.VoucherSubmitted()
	s.logger.Info("voucher submitted", zap.String("installment_id", installmentID), zap.String("mime", contentType))
	return s.installment(ctx, installmentID)
}

func (s *PaymentService) discard(key string) {
	if err := s.storage.Delete(key); err != nil {
		s.logger.Warn("failed to delete voucher file", zap.String("key", key), zap.Error(err))
	}
}

func (s *PaymentService) installment(ctx context.Context, id string) (*models.Installment, error) {
	inst, err := s.repo.FindInstallment(ctx, id)
	if err != nil {
		return nil, lookupError(err, "installment")
	}
	return inst, nil
}

// Approve marks an installment paid.
func (s *PaymentService) Approve(ctx context.Context, installmentID string) (*models.Installment, error) {
	found, err := s.repo.Approve(ctx, installmentID)
	if err != nil {
		return nil, storeError(err, "installment", "failed to approve installment")
	}
	if err := notFoundUnless(found, "installment"); err != nil {
		return nil, err
	}
	s.metrics.InstallmentReviewed("approved")
	return s.installment(ctx, installmentID)
}

// Reject returns an installment to pending and discards its voucher.
func (s *PaymentService) Reject(ctx context.Context, installmentID string) (*models.Installment, error) {
	owner, err := s.owner(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	found, err := s.repo.Reject(ctx, installmentID)
	if err != nil {
		return nil, storeError(err, "installment", "failed to reject installment")
	}
	if err := notFoundUnless(found, "installment"); err != nil {
		return nil, err
	}
	if owner.VoucherURL != nil && *owner.VoucherURL != "" {
		s.discard(*owner.VoucherURL)
	}
	s.metrics.InstallmentReviewed("rejected")
	return s.installment(ctx, installmentID)
}

// ListPending returns installments awaiting review ordered by due date.
func (s *PaymentService) ListPending(ctx context.Context) ([]models.PendingInstallment, error) {
	items, err := s.repo.ListPendingApproval(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list pending installments")
	}
	return items, nil
}

// VoucherLink signs a short-lived download link for an installment's voucher.
func (s *PaymentService) VoucherLink(ctx context.Context, claims *models.JWTClaims, installmentID string) (*VoucherLink, error) {
	owner, err := s.owner(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureStudentOwns(claims, owner.StudentID); err != nil {
		return nil, err
	}
	if owner.VoucherURL == nil || *owner.VoucherURL == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "installment has no voucher")
	}
	token, expiresAt, err := s.signer.Generate(owner.InstallmentID, *owner.VoucherURL)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign voucher link")
	}
	return &VoucherLink{Token: token, ExpiresAt: expiresAt}, nil
}

// OpenVoucher resolves a signed token to the stored voucher file.
func (s *PaymentService) OpenVoucher(ctx context.Context, token string) (*VoucherFile, error) {
	installmentID, key, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	inst, err := s.installment(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if inst.VoucherURL == nil || *inst.VoucherURL != key {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "voucher was replaced or removed")
	}
	file, err := s.storage.Open(key)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "voucher file not found")
	}
	contentType := "application/octet-stream"
	if inst.VoucherMIME != nil && *inst.VoucherMIME != "" {
		contentType = *inst.VoucherMIME
	}
	return &VoucherFile{File: file, ContentType: contentType, Filename: path.Base(key)}, nil
}

// Receipt renders a PDF receipt for a paid installment.
func (s *PaymentService) Receipt(ctx context.Context, claims *models.JWTClaims, installmentID string) ([]byte, error) {
	owner, err := s.owner(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if err := ensureStudentOwns(claims, owner.StudentID); err != nil {
		return nil, err
	}
	inst, err := s.installment(ctx, installmentID)
	if err != nil {
		return nil, err
	}
	if inst.Status != models.InstallmentStatusPaid || inst.PaidAt == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "installment is not paid")
	}
	doc, err := export.RenderReceipt(export.Receipt{
		Number:      receiptNumber(inst.ID),
		Institution: s.config.Institution,
		StudentName: owner.StudentName,
		StudentDNI:  owner.StudentDNI,
		Concept:     owner.ItemName,
		Installment: inst.Number,
		Amount:      inst.Amount,
		PaidAt:      *inst.PaidAt,
		GeneratedAt: s.now().In(s.config.Location),
	})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render receipt")
	}
	return doc, nil
}

func receiptNumber(id string) string {
	compact := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(compact) > 12 {
		compact = compact[:12]
	}
	return compact
}

// planBalance returns the plan balance of an enrollment; a missing plan reports found=false.
func (s *PaymentService) planBalance(ctx context.Context, enrollmentID string) (balance float64, found bool, err error) {
	plan, err := s.repo.FindPlanByEnrollment(ctx, enrollmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, appErrors.Internal(err, "failed to load payment plan")
	}
	balance, err = s.repo.Balance(ctx, plan.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, appErrors.Internal(err, "failed to compute balance")
	}
	return roundCents(balance), true, nil
}
