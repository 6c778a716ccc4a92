package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	auditLogs []*models.AuditLog
}

func (m *mockUserRepo) List(ctx context.Context, role models.UserRole) ([]models.User, error) {
	var users []models.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) Create(ctx context.Context, exec sqlx.ExtContext, user *models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	user.ID = "user-" + user.Username
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.Active = active
	return true, nil
}

func (m *mockUserRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func TestUserServiceCreateAdmin(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{}}
	svc := NewUserService(repo, nil, nil)
	meta := AuditMeta{ActorID: "root", IP: "127.0.0.1", UserAgent: "test"}

	user, err := svc.CreateAdmin(context.Background(), CreateAdminRequest{Username: " secretaria ", Password: "s3cretpass"}, meta)
	require.NoError(t, err)
	assert.Equal(t, "secretaria", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.Active)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cretpass")))

	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionCreate, repo.auditLogs[0].Action)
	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(repo.auditLogs[0].Details, &details))
	assert.Equal(t, "secretaria", details["username"])

	_, err = svc.CreateAdmin(context.Background(), CreateAdminRequest{Username: "secretaria", Password: "otherpass1"}, meta)
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = svc.CreateAdmin(context.Background(), CreateAdminRequest{Username: "abc", Password: "short"}, meta)
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUserServiceSetActive(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1":   {ID: "u1", Username: "12345678", Role: models.RoleTeacher, Active: true},
		"root": {ID: "root", Username: "admin", Role: models.RoleAdmin, Active: true},
	}}
	svc := NewUserService(repo, nil, nil)
	meta := AuditMeta{ActorID: "root"}

	user, err := svc.SetActive(context.Background(), "u1", false, meta)
	require.NoError(t, err)
	assert.False(t, user.Active)

	_, err = svc.SetActive(context.Background(), "root", false, meta)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.SetActive(context.Background(), "missing", true, meta)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUserServiceList(t *testing.T) {
	repo := &mockUserRepo{users: map[string]*models.User{
		"u1":   {ID: "u1", Role: models.RoleTeacher},
		"root": {ID: "root", Role: models.RoleAdmin},
	}}
	svc := NewUserService(repo, nil, nil)

	teachers, err := svc.List(context.Background(), models.RoleTeacher)
	require.NoError(t, err)
	assert.Len(t, teachers, 1)

	_, err = svc.List(context.Background(), models.RoleStudent)
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
