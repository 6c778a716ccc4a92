package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
)

func TestTeacherRepositoryCreateInTx(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teachers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	teacher := &models.Teacher{DNI: "87654321", FirstName: "Luis", LastName: "Soto"}
	require.NoError(t, repo.Create(context.Background(), tx, teacher))
	require.NoError(t, tx.Commit())
	assert.NotEmpty(t, teacher.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryCreateDuplicateDNI(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec("INSERT INTO teachers").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), nil, &models.Teacher{DNI: "87654321"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTeacherRepositoryDeleteUnassignsOfferings(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE course_offerings SET teacher_id = NULL")).WithArgs("t1", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM teachers WHERE id = $1")).WithArgs("t1").WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.Delete(context.Background(), nil, "t1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	rows := sqlmock.NewRows([]string{"student_id", "dni", "first_name", "last_name", "course_offering_id", "course_name", "group_label"}).
		AddRow("s1", "12345678", "Ana", "Perez", "co1", "Algebra", "A")
	mock.ExpectQuery("FROM course_offerings co").WithArgs("t1", models.EnrollmentStatusAccepted).WillReturnRows(rows)

	students, err := repo.ListStudents(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Algebra", students[0].CourseName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "dni", "first_name", "last_name", "phone", "email", "specialization", "created_at", "updated_at"}).
		AddRow("t1", "87654321", "Luis", "Soto", nil, "luis@example.com", "Math", now, now)
	mock.ExpectQuery("FROM teachers WHERE id").WithArgs("t1").WillReturnRows(rows)

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Math", *teacher.Specialization)
}
