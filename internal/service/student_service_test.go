package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/academia-api/internal/models"
	"github.com/noah-isme/academia-api/internal/repository"
	appErrors "github.com/noah-isme/academia-api/pkg/errors"
)

type mockStudentRepo struct {
	students   map[string]models.Student
	lastFilter models.StudentFilter
	listTotal  int
	createErr  error
	deleted    []string
	err        error
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	list := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		list = append(list, s)
	}
	return list, m.listTotal, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByDNI(ctx context.Context, dni string) (bool, error) {
	for _, s := range m.students {
		if s.DNI == dni {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	student.ID = "generated"
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, id string, upd models.StudentUpdate) (bool, error) {
	s, ok := m.students[id]
	if !ok {
		return false, nil
	}
	if upd.ParentEmail != nil {
		s.ParentEmail = upd.ParentEmail
	}
	if upd.FirstName != nil {
		s.FirstName = *upd.FirstName
	}
	m.students[id] = s
	return true, nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.students[id]; !ok {
		return false, nil
	}
	m.deleted = append(m.deleted, id)
	delete(m.students, id)
	return true, nil
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) IssueStudentToken(student *models.Student) (*models.LoginResponse, error) {
	return &models.LoginResponse{AccessToken: "token-" + student.ID, TokenType: "Bearer"}, nil
}

func TestStudentServiceRegister(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, stubTokenIssuer{}, nil, nil)

	res, err := svc.Register(context.Background(), RegisterStudentRequest{DNI: "12345678", FirstName: "Ana", LastName: "Ruiz", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "token-generated", res.Auth.AccessToken)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.students["generated"].PasswordHash), []byte("secret1")))

	_, err = svc.Register(context.Background(), RegisterStudentRequest{DNI: "12345678", FirstName: "Otra", LastName: "Persona", Password: "secret2"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestStudentServiceRegisterRaceMapsDuplicate(t *testing.T) {
	repo := &mockStudentRepo{createErr: repository.ErrDuplicate}
	svc := NewStudentService(repo, stubTokenIssuer{}, nil, nil)

	_, err := svc.Register(context.Background(), RegisterStudentRequest{DNI: "12345678", FirstName: "Ana", LastName: "Ruiz", Password: "secret1"})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestStudentServiceRegisterValidation(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, stubTokenIssuer{}, nil, nil)
	_, err := svc.Register(context.Background(), RegisterStudentRequest{DNI: "12"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestStudentServiceListNormalisesPaging(t *testing.T) {
	repo := &mockStudentRepo{listTotal: 3}
	svc := NewStudentService(repo, stubTokenIssuer{}, nil, nil)

	_, pagination, err := svc.List(context.Background(), models.StudentFilter{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 3, pagination.TotalCount)
	assert.Equal(t, 20, repo.lastFilter.PageSize)
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s-1": {ID: "s-1", DNI: "12345678", FirstName: "Ana"}}}
	svc := NewStudentService(repo, stubTokenIssuer{}, nil, nil)

	_, err := svc.Update(context.Background(), "s-1", models.StudentUpdate{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	email := "parent@example.com"
	student, err := svc.Update(context.Background(), "s-1", models.StudentUpdate{ParentEmail: &email})
	require.NoError(t, err)
	require.NotNil(t, student.ParentEmail)
	assert.Equal(t, email, *student.ParentEmail)

	_, err = svc.Update(context.Background(), "missing", models.StudentUpdate{ParentEmail: &email})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"s-1": {ID: "s-1"}}}
	svc := NewStudentService(repo, stubTokenIssuer{}, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "s-1"))
	assert.Equal(t, []string{"s-1"}, repo.deleted)
	assert.ErrorIs(t, svc.Delete(context.Background(), "s-1"), appErrors.ErrNotFound)
}
