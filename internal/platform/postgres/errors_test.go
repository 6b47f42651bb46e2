package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnflow/learnflow-api/internal/store"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name: "unique_violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: "users_email_key",
			},
			expectedError: store.ErrDuplicate,
		},
		{
			name: "foreign_key_violation",
			err: &pgconn.PgError{
				Code:           foreignKeyViolationCode,
				ConstraintName: "notes_owner_id_fkey",
			},
			expectedError: store.ErrInvalidEntity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)

			if tc.err == nil {
				assert.NoError(t, mapped)
				return
			}

			require.Error(t, mapped)
			if tc.expectedError != nil {
				assert.ErrorIs(t, mapped, tc.expectedError)
			}
		})
	}

	t.Run("unmapped_error_passes_through", func(t *testing.T) {
		original := errors.New("connection reset by peer")
		assert.Same(t, original, MapError(original))
	})

	t.Run("wrapped_pg_error_is_unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("insert failed: %w", &pgconn.PgError{Code: uniqueViolationCode})
		assert.ErrorIs(t, MapError(wrapped), store.ErrDuplicate)
	})
}

func TestViolationPredicates(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: uniqueViolationCode}
	fkErr := &pgconn.PgError{Code: foreignKeyViolationCode}

	assert.True(t, IsUniqueViolation(uniqueErr))
	assert.False(t, IsUniqueViolation(fkErr))
	assert.False(t, IsUniqueViolation(errors.New("plain error")))
	assert.False(t, IsUniqueViolation(nil))

	assert.True(t, IsForeignKeyViolation(fkErr))
	assert.False(t, IsForeignKeyViolation(uniqueErr))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestViolatedConstraint(t *testing.T) {
	uniqueErr := fmt.Errorf("insert failed: %w", &pgconn.PgError{
		Code:           uniqueViolationCode,
		ConstraintName: "users_username_key",
	})
	assert.Equal(t, "users_username_key", violatedConstraint(uniqueErr))

	fkErr := &pgconn.PgError{
		Code:           foreignKeyViolationCode,
		ConstraintName: "notes_owner_id_fkey",
	}
	assert.Equal(t, "", violatedConstraint(fkErr))
	assert.Equal(t, "", violatedConstraint(errors.New("plain error")))
	assert.Equal(t, "", violatedConstraint(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	notFound := errors.New("thing not found")

	t.Run("rows_affected", func(t *testing.T) {
		assert.NoError(t, checkRowsAffected(mockResult{rowsAffected: 1}, notFound))
	})

	t.Run("zero_rows_returns_not_found", func(t *testing.T) {
		assert.ErrorIs(t, checkRowsAffected(mockResult{rowsAffected: 0}, notFound), notFound)
	})

	t.Run("rows_affected_error_propagates", func(t *testing.T) {
		driverErr := errors.New("driver does not support RowsAffected")
		err := checkRowsAffected(mockResult{err: driverErr}, notFound)
		require.Error(t, err)
		assert.ErrorIs(t, err, driverErr)
		assert.NotErrorIs(t, err, notFound)
	})
}
