package errors

import (
	"context"
	stderrs "errors"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// codeBySQLState covers what the result writers run into
// Anything else, contention included, is ErrorCodeDB
var codeBySQLState = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// serialization_failure, deadlock_detected, lock_not_available
var retryableSQLStates = []string{"40001", "40P01", "55P03"}

// pgx loses the PgError on a failed commit; these messages stand in for it
var retryableMessages = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"serialization failure",
	"canceling statement due to lock timeout",
	"could not obtain lock on row",
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// DBErrorCode maps the PgError in err; ok is false when there is none
func DBErrorCode(err error) (ErrorCode, bool) {
	pe, ok := pgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, known := codeBySQLState[pe.Code]; known {
		return c, true
	}
	return ErrorCodeDB, true
}

// FromPostgres codes err for the wire with msg; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresWithField is FromPostgres plus the column postgres blamed
// With only a constraint name the part after the table prefix is used,
// so result_query_id_check names query_id
func FromPostgresWithField(err error, msg string) error {
	out := FromPostgres(err, msg)
	pe, ok := pgError(err)
	if !ok {
		return out
	}
	if col := strings.TrimSpace(pe.ColumnName); col != "" {
		return WithField(out, col)
	}
	_, tail, found := strings.Cut(strings.TrimSpace(pe.ConstraintName), "_")
	tail = strings.TrimSuffix(strings.TrimSuffix(tail, "_pkey"), "_check")
	if !found || tail == "" || tail == "pkey" {
		return out
	}
	return WithField(out, tail)
}

// Retryable reports whether running the transaction again may succeed
// Cancellation never is
func Retryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	root := Root(err)
	if pe, ok := pgError(root); ok {
		return slices.Contains(retryableSQLStates, pe.Code)
	}
	msg := strings.ToLower(root.Error())
	return slices.ContainsFunc(retryableMessages, func(m string) bool { return strings.Contains(msg, m) })
}
