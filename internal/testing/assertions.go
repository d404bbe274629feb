package testing

import (
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/stretchr/testify/require"
)

// RequireResult asserts that an operation finished with the expected code.
func RequireResult(t *testing.T, res tx.ApplyResult, expected tx.Result) {
	t.Helper()
	require.Equal(t, expected.String(), res.Result.String(),
		"Expected %s, got %s: %s", expected, res.Result, res.Message)
}

// RequireSuccess asserts that an operation was applied.
func RequireSuccess(t *testing.T, res tx.ApplyResult) {
	t.Helper()
	RequireResult(t, res, tx.TesSUCCESS)
	require.True(t, res.Applied, "Expected operation to be applied")
}

// RequireNotApplied asserts that an operation failed with the expected code
// and left the ledger untouched.
func RequireNotApplied(t *testing.T, res tx.ApplyResult, expected tx.Result) {
	t.Helper()
	RequireResult(t, res, expected)
	require.False(t, res.Applied, "Expected operation not to be applied")
	require.Empty(t, res.Events, "Expected no events from a failed operation")
}

// RequireBalance asserts that owner holds exactly expected units of mint.
func RequireBalance(t *testing.T, env *TestEnv, mint, owner types.AccountID, expected uint64) {
	t.Helper()
	actual := env.Balance(mint, owner)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d, got %d", owner, expected, actual)
}
