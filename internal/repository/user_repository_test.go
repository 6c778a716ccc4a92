package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestUserRepositoryFindByUsername(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "related_id", "active", "last_login", "created_at", "updated_at"}).
		AddRow("u1", "12345678", "hash", string(models.RoleTeacher), "t1", true, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = $1")).
		WithArgs("12345678").
		WillReturnRows(rows)

	user, err := repo.FindByUsername(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, user.Role)
	require.NotNil(t, user.RelatedID)
	assert.Equal(t, "t1", *user.RelatedID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByUsernameNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE username").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByUsername(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), nil, &models.User{Username: "12345678", Role: models.RoleTeacher, Active: true})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryUpdatePasswordByRelated(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET password_hash = $1, updated_at = $2 WHERE related_id = $3")).
		WithArgs("hash", sqlmock.AnyArg(), "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.UpdatePasswordByRelated(context.Background(), "t1", "hash")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateAuditLog(context.Background(), &models.AuditLog{Action: models.AuditActionCreate, Resource: "students"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListByRole(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "related_id", "active", "last_login", "created_at", "updated_at"}).
		AddRow("u1", "admin", "hash", string(models.RoleAdmin), nil, true, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = $1 ORDER BY username")).
		WithArgs(models.RoleAdmin).
		WillReturnRows(rows)

	users, err := repo.List(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Nil(t, users[0].RelatedID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositorySetActive(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET active = $1")).
		WithArgs(false, sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.SetActive(context.Background(), "u1", false)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}
