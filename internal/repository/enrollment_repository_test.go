package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/academia-api/internal/models"
)

func TestEnrollmentRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").WillReturnError(&pq.Error{Code: "23505"})

	enrollment := models.NewEnrollment("stu-1", models.OfferingRef{Type: models.OfferingCourse, ID: "co-1"})
	err := repo.Create(context.Background(), nil, enrollment)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateInsideTransaction(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrollments").
		WithArgs(sqlmock.AnyArg(), "stu-1", models.OfferingPackage, nil, "po-1", models.EnrollmentStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := repo.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	enrollment := models.NewEnrollment("stu-1", models.OfferingRef{Type: models.OfferingPackage, ID: "po-1"})
	require.NoError(t, repo.Create(context.Background(), tx, enrollment))
	require.NoError(t, tx.Commit())
	assert.NotEmpty(t, enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExistsUsesVariantColumn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1 AND package_offering_id = $2")).
		WithArgs("stu-1", "po-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), nil, "stu-1", models.OfferingRef{Type: models.OfferingPackage, ID: "po-1"})
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryResolvePrice(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(co.price_override, c.base_price)")).
		WithArgs("co-1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(150.0))
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(po.price_override, p.base_price)")).
		WithArgs("po-x").
		WillReturnError(sql.ErrNoRows)

	price, err := repo.ResolvePrice(context.Background(), nil, models.OfferingRef{Type: models.OfferingCourse, ID: "co-1"})
	require.NoError(t, err)
	assert.InDelta(t, 150.0, price, 0.001)

	_, err = repo.ResolvePrice(context.Background(), nil, models.OfferingRef{Type: models.OfferingPackage, ID: "po-x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "enrollment_type", "course_offering_id", "package_offering_id", "status", "enrolled_at", "updated_at",
		"student_name", "student_dni", "item_name", "group_label", "cycle_name", "total_amount"}).
		AddRow("enr-1", "stu-1", "course", "co-1", nil, "accepted", now, now, "Ana Ruiz", "12345678", "Algebra", "A", "2024-I", 150.0)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE e.student_id = $1 AND e.status = $2 ORDER BY e.enrolled_at DESC")).
		WithArgs("stu-1", models.EnrollmentStatusAccepted).
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), models.EnrollmentFilter{StudentID: "stu-1", Status: models.EnrollmentStatusAccepted})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Algebra", list[0].ItemName)
	require.NotNil(t, list[0].TotalAmount)
	assert.Equal(t, models.OfferingRef{Type: models.OfferingCourse, ID: "co-1"}, list[0].Ref())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM installments").WithArgs("enr-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM payment_plans").WithArgs("enr-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM enrollments").WithArgs("enr-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	found, err := repo.Delete(context.Background(), "enr-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDeleteRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM installments").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := repo.Delete(context.Background(), "enr-1")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
