package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, role models.UserRole) ([]models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error
	SetActive(ctx context.Context, id string, active bool) (bool, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateAdminRequest represents payload for creating administrator accounts.
type CreateAdminRequest struct {
	Username string `json:"username" validate:"required,min=4,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuditMeta carries request details recorded in the audit trail.
type AuditMeta struct {
	ActorID   string
	IP        string
	UserAgent string
}

// UserService manages staff accounts.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// List returns staff accounts, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	switch role {
	case "", models.RoleAdmin, models.RoleTeacher:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be ADMIN or TEACHER")
	}
	users, err := s.repo.List(ctx, role)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list users")
	}
	return users, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user")
	}
	return user, nil
}

// CreateAdmin adds an administrator account.
func (s *UserService) CreateAdmin(ctx context.Context, req CreateAdminRequest, meta AuditMeta) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create user payload")
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(passwordHash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := s.repo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "username already exists")
		}
		return nil, appErrors.Internal(err, "failed to create user")
	}

	s.audit(ctx, meta, models.AuditActionCreate, user.ID, map[string]interface{}{"username": user.Username, "role": user.Role})
	return user, nil
}

// SetActive enables or disables login for an account. Admins cannot disable themselves.
func (s *UserService) SetActive(ctx context.Context, id string, active bool, meta AuditMeta) (*models.User, error) {
	if !active && id == meta.ActorID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot deactivate your own account")
	}
	found, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, storeError(err, "user", "failed to update user")
	}
	if err := notFoundUnless(found, "user"); err != nil {
		return nil, err
	}
	s.audit(ctx, meta, models.AuditActionStatusChange, id, map[string]interface{}{"active": active})
	return s.Get(ctx, id)
}

func (s *UserService) audit(ctx context.Context, meta AuditMeta, action, resourceID string, details map[string]interface{}) {
	payload, _ := json.Marshal(details)
	entry := &models.AuditLog{
		Action:     action,
		Resource:   "users",
		ResourceID: &resourceID,
		Details:    payload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}
	if meta.ActorID != "" {
		actor := meta.ActorID
		entry.UserID = &actor
	}
	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record user audit log", zap.String("action", action), zap.Error(err))
	}
}
