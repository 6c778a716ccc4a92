package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByDNI(ctx context.Context, dni string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, id string, upd models.StudentUpdate) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type studentTokenIssuer interface {
	IssueStudentToken(student *models.Student) (*models.LoginResponse, error)
}

// RegisterStudentRequest holds the self-registration payload.
type RegisterStudentRequest struct {
	DNI         string  `json:"dni" validate:"required,min=6,max=20"`
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Password    string  `json:"password" validate:"required,min=6"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	ParentName  *string `json:"parent_name" validate:"omitempty,max=150"`
	ParentPhone *string `json:"parent_phone" validate:"omitempty,max=30"`
	ParentEmail *string `json:"parent_email" validate:"omitempty,email"`
}

// StudentRegistration is the created student with a ready-to-use token.
type StudentRegistration struct {
	Student *models.Student       `json:"student"`
	Auth    *models.LoginResponse `json:"auth"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	tokens    studentTokenIssuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, tokens studentTokenIssuer, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, tokens: tokens, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to list students")
	}
	return students, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Internal(err, "failed to load student")
	}
	return student, nil
}

// Register creates a student account and signs the student in.
func (s *StudentService) Register(ctx context.Context, req RegisterStudentRequest) (*StudentRegistration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	exists, err := s.repo.ExistsByDNI(ctx, req.DNI)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to validate dni")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "dni already registered")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}
	student := &models.Student{
		DNI:          req.DNI,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		ParentName:   req.ParentName,
		ParentPhone:  req.ParentPhone,
		ParentEmail:  req.ParentEmail,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "dni already registered")
		}
		return nil, appErrors.Internal(err, "failed to create student")
	}

	auth, err := s.tokens.IssueStudentToken(student)
	if err != nil {
		return nil, err
	}
	return &StudentRegistration{Student: student, Auth: auth}, nil
}

// Update applies a partial update.
func (s *StudentService) Update(ctx context.Context, id string, upd models.StudentUpdate) (*models.Student, error) {
	if upd.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validator.Struct(upd); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	found, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, storeError(err, "student", "failed to update student")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return s.Get(ctx, id)
}

// Delete removes a student together with enrollments, plans, installments and attendance.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storeError(err, "student", "failed to delete student")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}
