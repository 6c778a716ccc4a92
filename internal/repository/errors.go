package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrForeignKey is returned when a write breaks a foreign key: a missing parent or a row still in use.
	ErrForeignKey = errors.New("foreign key violation")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidText         = "22P02"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

// IsInvalidID reports whether the store rejected a malformed identifier, such as a non-UUID id.
func IsInvalidID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == invalidText
}

// deleteByID removes a row and reports whether it existed.
func deleteByID(ctx context.Context, exec sqlx.ExecerContext, table, id string) (bool, error) {
	res, err := exec.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrForeignKey
		}
		return false, fmt.Errorf("delete %s: %w", table, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func pick(db *sqlx.DB, exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return db
}

// setClause accumulates fixed "column = $n" assignments for partial updates.
type setClause struct {
	parts []string
	args  []interface{}
}

func (s *setClause) add(column string, value interface{}) {
	s.args = append(s.args, value)
	s.parts = append(s.parts, fmt.Sprintf("%s = $%d", column, len(s.args)))
}

func (s *setClause) empty() bool { return len(s.parts) == 0 }

// update renders the statement, stamping updated_at and filtering by id.
func (s *setClause) update(table, id string) (string, []interface{}) {
	s.add("updated_at", time.Now().UTC())
	args := append(s.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(s.parts, ", "), len(args))
	return query, args
}
