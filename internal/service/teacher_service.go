package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, exec sqlx.ExtContext, teacher *models.Teacher) error
	Update(ctx context.Context, id string, upd models.TeacherUpdate) (bool, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, id string) (bool, error)
	ListStudents(ctx context.Context, teacherID string) ([]models.TeacherStudent, error)
}

type teacherUserRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	UpdatePasswordByRelated(ctx context.Context, relatedID, hash string) (bool, error)
	DeleteByRelated(ctx context.Context, exec sqlx.ExtContext, relatedID string) error
}

// CreateTeacherRequest represents payload for creating teachers.
type CreateTeacherRequest struct {
	DNI            string  `json:"dni" validate:"required,min=6,max=20"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Specialization *string `json:"specialization" validate:"omitempty,max=150"`
}

// TeacherService orchestrates teacher operations and their login accounts.
type TeacherService struct {
	tx        txProvider
	repo      teacherRepository
	users     teacherUserRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService. cache holds catalog entries that embed teacher names.
func NewTeacherService(tx txProvider, repo teacherRepository, users teacherUserRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{tx: tx, repo: repo, users: users, cache: cache, validator: validate, logger: logger}
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list teachers")
	}
	return teachers, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "teacher")
	}
	return teacher, nil
}

// Create stores the teacher and provisions a TEACHER account whose username and password are the DNI.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (teacher *models.Teacher, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.DNI), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	teacher = &models.Teacher{
		DNI:            req.DNI,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Email:          req.Email,
		Specialization: req.Specialization,
	}
	if err = s.repo.Create(ctx, tx, teacher); err != nil {
		return nil, s.createError(err)
	}
	user := &models.User{
		Username:     req.DNI,
		PasswordHash: string(hash),
		Role:         models.RoleTeacher,
		RelatedID:    &teacher.ID,
		Active:       true,
	}
	if err = s.users.Create(ctx, tx, user); err != nil {
		return nil, s.createError(err)
	}
	if err = tx.Commit(); err != nil {
		return nil, appErrors.Internal(err, "failed to commit teacher")
	}
	return teacher, nil
}

func (s *TeacherService) createError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return appErrors.Clone(appErrors.ErrConflict, "dni already registered")
	}
	return appErrors.Internal(err, "failed to create teacher")
}

// Update applies a partial update.
func (s *TeacherService) Update(ctx context.Context, id string, upd models.TeacherUpdate) (*models.Teacher, error) {
	if upd.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validator.Struct(upd); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	found, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, storeError(err, "teacher", "failed to update teacher")
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return s.Get(ctx, id)
}

// Delete removes the teacher and its account; assigned offerings lose their teacher.
func (s *TeacherService) Delete(ctx context.Context, id string) (err error) {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.users.DeleteByRelated(ctx, tx, id); err != nil {
		return storeError(err, "teacher", "failed to delete teacher account")
	}
	found, err := s.repo.Delete(ctx, tx, id)
	if err != nil {
		return storeError(err, "teacher", "failed to delete teacher")
	}
	if !found {
		err = appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		return err
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Internal(err, "failed to commit teacher deletion")
	}
	s.cache.Invalidate(ctx, catalogCachePattern)
	return nil
}

// ResetPassword sets the teacher account password back to the DNI.
func (s *TeacherService) ResetPassword(ctx context.Context, id string) error {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(teacher.DNI), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}
	found, err := s.users.UpdatePasswordByRelated(ctx, id, string(hash))
	if err != nil {
		return storeError(err, "teacher", "failed to reset password")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher account not found")
	}
	s.logger.Info("teacher password reset", zap.String("teacher_id", id))
	return nil
}

// Students lists students with accepted enrollments in the teacher's course offerings.
func (s *TeacherService) Students(ctx context.Context, teacherID string) ([]models.TeacherStudent, error) {
	students, err := s.repo.ListStudents(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list teacher students")
	}
	return students, nil
}
