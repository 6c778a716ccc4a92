package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academia-api/internal/models"
)

// UserRepository handles persistence for staff accounts and the audit trail.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, role, related_id, active, last_login, created_at, updated_at`

// FindByUsername retrieves an active or inactive user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = $1`, username); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID retrieves a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns staff accounts, optionally filtered by role.
func (r *UserRepository) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{}
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY username`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetActive toggles whether the account may log in.
func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET active = $1, updated_at = $2 WHERE id = $3`, active, time.Now().UTC(), id)
	if err != nil {
		return false, fmt.Errorf("set user active: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Create inserts a user, optionally inside a transaction.
func (r *UserRepository) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, username, password_hash, role, related_id, active, created_at, updated_at)
        VALUES (:id, :username, :password_hash, :role, :related_id, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, pick(r.db, exec), query, user); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UpdatePasswordByRelated replaces the password hash of the account linked to a teacher.
func (r *UserRepository) UpdatePasswordByRelated(ctx context.Context, relatedID, hash string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = $2 WHERE related_id = $3`, hash, time.Now().UTC(), relatedID)
	if err != nil {
		return false, fmt.Errorf("update user password: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpdatePassword replaces the password hash of a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the last successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// DeleteByRelated removes accounts linked to a teacher record.
func (r *UserRepository) DeleteByRelated(ctx context.Context, exec sqlx.ExtContext, relatedID string) error {
	if _, err := pick(r.db, exec).ExecContext(ctx, `DELETE FROM users WHERE related_id = $1`, relatedID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, details, ip_address, user_agent, created_at)
        VALUES (:id, :user_id, :action, :resource, :resource_id, :details, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
