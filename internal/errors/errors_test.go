package errors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	plain := Unauthorized("credential rejected")
	assert.Equal(t, "credential rejected", plain.Error())

	wrapped := Wrap(errors.New("boom"), ErrCodeInternal, "sign-in failed")
	assert.Equal(t, "sign-in failed: boom", wrapped.Error())
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := Wrap(cause, ErrCodeUnavailable, "backend unreachable")

	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("outer: %w", err), &appErr)
	assert.Equal(t, ErrCodeUnavailable, appErr.Code)
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "unauthorized", err: Unauthorized("x"), check: IsUnauthorized},
		{name: "forbidden", err: Forbidden("x"), check: IsForbidden},
		{name: "validation", err: Validation("x"), check: IsValidation},
		{name: "not found", err: NotFound("x"), check: IsNotFound},
		{name: "conflict", err: Conflict("x"), check: IsConflict},
		{name: "unavailable", err: Unavailable("x"), check: IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))
			assert.True(t, tt.check(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.check(errors.New("plain")))
			assert.False(t, tt.check(nil))
		})
	}
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "ignored %d", 1))
}

func TestGetCodeAndField(t *testing.T) {
	assert.Equal(t, ErrCodeValidation, GetCode(ValidationField("email", "email is required")))
	assert.Equal(t, "email", GetField(ValidationField("email", "email is required")))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
	assert.Equal(t, "", GetField(errors.New("plain")))
}

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "no rows", err: sql.ErrNoRows, want: ErrCodeNotFound},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, want: ErrCodeCanceled},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: ErrCodeConflict},
		{name: "check violation", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, want: ErrCodeValidation},
		{name: "fk violation", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapDBError(tt.err)
			assert.Equal(t, tt.want, GetCode(mapped))
			require.ErrorIs(t, mapped, tt.err)
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, MapDBError(nil))
	})

	t.Run("unrecognized passes through", func(t *testing.T) {
		orig := errors.New("plain")
		assert.Equal(t, orig, MapDBError(orig))
	})
}
