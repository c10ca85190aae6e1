package utils_test

import (
	"errors"
	"fmt"
	"testing"

	"AccountAPI/internal/utils"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestIsPGUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	require.True(t, utils.IsPGUniqueViolation(unique))
	require.True(t, utils.IsPGUniqueViolation(fmt.Errorf("insert user: %w", unique)))

	require.False(t, utils.IsPGUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.False(t, utils.IsPGUniqueViolation(errors.New("plain error")))
	require.False(t, utils.IsPGUniqueViolation(nil))
}
