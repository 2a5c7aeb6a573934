package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when a requested row does not exist or is inactive
	ErrNotFound = errors.New("not found")

	// ErrDuplicateAnswer is returned when a user re-submits an answer for a
	// question they already answered. The unique constraint on
	// user_answers(user_id, question_id) is the source of truth: under
	// concurrent duplicate submissions exactly one insert succeeds.
	ErrDuplicateAnswer = errors.New("question already answered")

	// ErrDuplicateEntry is returned when a write collides with a unique key,
	// such as a category name or quiz title that is already taken.
	ErrDuplicateEntry = errors.New("already exists")

	// ErrInUse is returned when a delete is blocked by rows that still
	// reference the entity.
	ErrInUse = errors.New("still in use")
)

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
)

// isDuplicateEntry reports whether err is a MySQL unique-constraint violation
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// isRowReferenced reports whether err is a MySQL foreign-key violation raised
// when deleting a parent row that child rows still point at
func isRowReferenced(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlRowIsReferenced
}
