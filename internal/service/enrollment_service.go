package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
	"github.com/noah-isme/academia-api/pkg/export"
)

type enrollmentRepository interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error
	Exists(ctx context.Context, exec sqlx.ExtContext, studentID string, ref models.OfferingRef) (bool, error)
	ResolvePrice(ctx context.Context, exec sqlx.ExtContext, ref models.OfferingRef) (float64, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error)
	ListByOffering(ctx context.Context, ref models.OfferingRef, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type enrollmentPayments interface {
	OpenPlan(ctx context.Context, exec sqlx.ExtContext, enrollmentID string, total float64) (*models.PaymentPlan, *models.Installment, error)
	planBalance(ctx context.Context, enrollmentID string) (float64, bool, error)
}

// EnrollRequest enrolls a student in one or more offerings. StudentID is only honoured for admins.
type EnrollRequest struct {
	StudentID string               `json:"student_id" validate:"omitempty,uuid"`
	Items     []models.OfferingRef `json:"items" validate:"required,min=1,dive"`
}

// SetStatusRequest changes an enrollment status.
type SetStatusRequest struct {
	Status models.EnrollmentStatus `json:"status" validate:"required"`
}

// ExportedFile is a rendered export ready for download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// EnrollmentService runs enrollments, the status gate and enrollment reads.
type EnrollmentService struct {
	repo      enrollmentRepository
	payments  enrollmentPayments
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, payments enrollmentPayments, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, payments: payments, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// Enroll creates every requested enrollment and its payment plan in one transaction.
func (s *EnrollmentService) Enroll(ctx context.Context, claims *models.JWTClaims, req EnrollRequest) (results []models.EnrollmentResult, err error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	studentID, err := enrollingStudent(claims, req.StudentID)
	if err != nil {
		return nil, err
	}

	tx, err := s.repo.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	results = make([]models.EnrollmentResult, 0, len(req.Items))
	for i, ref := range req.Items {
		var result *models.EnrollmentResult
		result, err = s.enrollOne(ctx, tx, studentID, ref, i+1)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Internal(err, "failed to commit enrollment")
	}

	for _, r := range results {
		s.metrics.EnrollmentCreated(string(r.Offering.Type))
	}
	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.Int("items", len(results)))
	return results, nil
}

func enrollingStudent(claims *models.JWTClaims, requested string) (string, error) {
	switch claims.Role {
	case models.RoleStudent:
		if requested != "" && requested != claims.RelatedID {
			return "", appErrors.Clone(appErrors.ErrForbidden, "students can only enroll themselves")
		}
		return claims.RelatedID, nil
	case models.RoleAdmin:
		if requested == "" {
			return "", appErrors.Clone(appErrors.ErrValidation, "student_id is required")
		}
		return requested, nil
	}
	return "", appErrors.ErrForbidden
}

func (s *EnrollmentService) enrollOne(ctx context.Context, tx *sqlx.Tx, studentID string, ref models.OfferingRef, position int) (*models.EnrollmentResult, error) {
	duplicate := appErrors.Clone(appErrors.ErrDuplicateEnrollment, fmt.Sprintf("item %d: student already enrolled in %s", position, ref))

	exists, err := s.repo.Exists(ctx, tx, studentID, ref)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to check enrollment")
	}
	if exists {
		return nil, duplicate
	}
	price, err := s.repo.ResolvePrice(ctx, tx, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("item %d: %s not found", position, ref))
		}
		return nil, appErrors.Internal(err, "failed to resolve offering price")
	}

	enrollment := models.NewEnrollment(studentID, ref)
	if err := s.repo.Create(ctx, tx, enrollment); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, duplicate
		case errors.Is(err, repository.ErrForeignKey):
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("item %d: student or offering not found", position))
		}
		return nil, appErrors.Internal(err, "failed to create enrollment")
	}
	plan, inst, err := s.payments.OpenPlan(ctx, tx, enrollment.ID, price)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to open payment plan")
	}
	return &models.EnrollmentResult{
		EnrollmentID:  enrollment.ID,
		PlanID:        plan.ID,
		InstallmentID: inst.ID,
		Offering:      ref,
		Amount:        plan.TotalAmount,
	}, nil
}

// SetStatus moves an enrollment to a new status. Accepting requires a settled payment plan.
func (s *EnrollmentService) SetStatus(ctx context.Context, id string, status models.EnrollmentStatus) (*models.EnrollmentDetail, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid status %q", status))
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, lookupError(err, "enrollment")
	}
	if status == models.EnrollmentStatusAccepted {
		balance, found, err := s.payments.planBalance(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found || balance > 0 {
			return nil, appErrors.ErrPaymentIncomplete
		}
	}
	found, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, storeError(err, "enrollment", "failed to update enrollment status")
	}
	if err := notFoundUnless(found, "enrollment"); err != nil {
		return nil, err
	}
	s.logger.Info("enrollment status changed", zap.String("enrollment_id", id), zap.String("status", string(status)))
	return s.Get(ctx, nil, id)
}

// Get returns one enrollment; students may only read their own.
func (s *EnrollmentService) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.EnrollmentDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "enrollment")
	}
	if claims != nil {
		if err := ensureStudentOwns(claims, detail.StudentID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// List returns enrollments; students are pinned to their own records.
func (s *EnrollmentService) List(ctx context.Context, claims *models.JWTClaims, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	if claims != nil && claims.Role == models.RoleStudent {
		filter.StudentID = claims.RelatedID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid status %q", filter.Status))
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrollments")
	}
	return items, nil
}

// ListByOffering returns enrollments of one offering, accepted ones unless another status is asked.
func (s *EnrollmentService) ListByOffering(ctx context.Context, ref models.OfferingRef, status models.EnrollmentStatus) ([]models.EnrollmentDetail, error) {
	if err := s.validator.Struct(ref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid offering reference")
	}
	if status == "" {
		status = models.EnrollmentStatusAccepted
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid status %q", status))
	}
	items, err := s.repo.ListByOffering(ctx, ref, status)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list enrollments")
	}
	return items, nil
}

// Delete removes an enrollment with its plan and installments.
func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "enrollment", "failed to delete enrollment")
	}
	return notFoundUnless(found, "enrollment")
}

var enrollmentExportHeaders = []string{"DNI", "Student", "Type", "Item", "Group", "Cycle", "Status", "Amount", "Enrolled at"}

// Export renders the filtered enrollment list as CSV, PDF or XLSX.
func (s *EnrollmentService) Export(ctx context.Context, filter models.EnrollmentFilter, rawFormat string) (*ExportedFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	items, err := s.List(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Title: "Enrollments", Headers: enrollmentExportHeaders}
	for _, item := range items {
		amount := ""
		if item.TotalAmount != nil {
			amount = fmt.Sprintf("%.2f", *item.TotalAmount)
		}
		data.Rows = append(data.Rows, map[string]string{
			"DNI":         item.StudentDNI,
			"Student":     item.StudentName,
			"Type":        string(item.EnrollmentType),
			"Item":        item.ItemName,
			"Group":       item.GroupLabel,
			"Cycle":       item.CycleName,
			"Status":      string(item.Status),
			"Amount":      amount,
			"Enrolled at": item.EnrolledAt.Format("2006-01-02"),
		})
	}

	renderer := export.RendererFor(format)
	body, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to render export")
	}
	return &ExportedFile{
		Filename:    fmt.Sprintf("enrollments-%s.%s", s.now().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        body,
	}, nil
}
