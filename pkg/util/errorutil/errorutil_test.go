package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_NotFoundSentinels(t *testing.T) {
	for _, err := range []error{ErrNotFound, pgx.ErrNoRows, fmt.Errorf("get designation: %w", ErrNotFound)} {
		de := ToDomainError(err)
		require.Equal(t, "NOT_FOUND", de.Code)
		require.Equal(t, http.StatusNotFound, de.HTTPStatus)
		require.True(t, IsNotFound(err))
	}
}

func TestToDomainError_KeepsDomainErrors(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewConflict("RECONCILIATION_BUSY", "busy", nil))
	de := ToDomainError(err)
	require.Equal(t, "RECONCILIATION_BUSY", de.Code)
	require.Equal(t, http.StatusConflict, de.HTTPStatus)
}

func TestToDomainError_Internal(t *testing.T) {
	cause := errors.New("boom")
	de := ToDomainError(cause)
	require.Equal(t, "INTERNAL_ERROR", de.Code)
	require.ErrorIs(t, de, cause)
	require.Nil(t, MapError(nil))
}
