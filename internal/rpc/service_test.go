package rpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	jtx "github.com/LeJamon/goDoomsday/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrors(t *testing.T) {
	svc := NewService(jtx.NewTestEnv(t).Engine())

	_, err := svc.Submit("create_mint", json.RawMessage(`{"name":`), "", "")
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))

	_, err = svc.Quote(10, "sideways")
	assert.True(t, IsBadRequest(err))

	// No pool is a state error, not a bad request.
	_, err = svc.Quote(10, "doom-to-life")
	assert.ErrorIs(t, err, tx.ErrEntryNotFound)
	assert.False(t, IsBadRequest(err))

	assert.False(t, IsBadRequest(errors.New("plain")))
}
