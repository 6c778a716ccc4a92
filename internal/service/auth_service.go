package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academia-api/internal/models"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type authUserRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type authStudentRepository interface {
	FindByDNI(ctx context.Context, dni string) (*models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdatePassword(ctx context.Context, id, hash string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService logs staff and students in by DNI and issues access tokens.
type AuthService struct {
	users     authUserRepository
	students  authStudentRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users authUserRepository, students authStudentRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{users: users, students: students, validator: validate, logger: logger, config: config}
}

// Login authenticates staff accounts first and falls back to student records.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.users.FindByUsername(ctx, req.DNI)
	switch {
	case err == nil:
		return s.loginStaff(ctx, user, req)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Internal(err, "failed to fetch user")
	}

	student, err := s.students.FindByDNI(ctx, req.DNI)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Internal(err, "failed to fetch student")
	}
	if bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.ErrInvalidCredentials
	}
	return s.IssueStudentToken(student)
}

func (s *AuthService) loginStaff(ctx context.Context, user *models.User, req models.LoginRequest) (*models.LoginResponse, error) {
	if !user.Active {
		return nil, appErrors.ErrInactiveAccount
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, appErrors.ErrInvalidCredentials
	}

	relatedID := ""
	if user.RelatedID != nil {
		relatedID = *user.RelatedID
	}
	info := models.UserInfo{ID: user.ID, Username: user.Username, Role: user.Role, RelatedID: relatedID}
	resp, err := s.issue(info)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("failed to update last login", zap.Error(err))
	}
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &user.ID,
		Action:     models.AuditActionLogin,
		Resource:   "auth",
		ResourceID: &user.ID,
		Details:    []byte(`{"status":"success"}`),
		IPAddress:  req.IP,
		UserAgent:  req.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record login audit log", zap.Error(err))
	}
	return resp, nil
}

// IssueStudentToken signs a token for a student principal.
func (s *AuthService) IssueStudentToken(student *models.Student) (*models.LoginResponse, error) {
	return s.issue(models.UserInfo{
		ID:        student.ID,
		Username:  student.DNI,
		FullName:  student.FullName(),
		Role:      models.RoleStudent,
		RelatedID: student.ID,
	})
}

// ChangePassword verifies the old password and stores a new hash for the principal.
func (s *AuthService) ChangePassword(ctx context.Context, claims *models.JWTClaims, req models.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid change password payload")
	}

	var current string
	if claims.Role == models.RoleStudent {
		student, err := s.students.FindByID(ctx, claims.RelatedID)
		if err != nil {
			return s.principalError(err)
		}
		current = student.PasswordHash
	} else {
		user, err := s.users.FindByID(ctx, claims.UserID)
		if err != nil {
			return s.principalError(err)
		}
		current = user.PasswordHash
	}

	if bcrypt.CompareHashAndPassword([]byte(current), []byte(req.OldPassword)) != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "old password does not match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Internal(err, "failed to hash password")
	}

	if claims.Role == models.RoleStudent {
		err = s.students.UpdatePassword(ctx, claims.RelatedID, string(hash))
	} else {
		err = s.users.UpdatePassword(ctx, claims.UserID, string(hash))
	}
	if err != nil {
		return appErrors.Internal(err, "failed to update password")
	}
	return nil
}

func (s *AuthService) principalError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, "account not found")
	}
	return appErrors.Internal(err, "failed to load account")
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) issue(info models.UserInfo) (*models.LoginResponse, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID:    info.ID,
		Role:      info.Role,
		RelatedID: info.RelatedID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   info.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to create access token")
	}
	return &models.LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		User:        info,
		IssuedAt:    issuedAt,
	}, nil
}
