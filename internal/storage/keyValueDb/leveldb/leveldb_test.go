package leveldb

import (
	"context"
	"testing"

	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelDB(t *testing.T) {
	manager := NewManager(t.TempDir(), nil)
	t.Cleanup(func() { _ = manager.Close() })
	ctx := context.Background()

	db, err := manager.OpenDB("state")
	require.NoError(t, err)

	t.Run("Write Read Delete", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))

		got, err := db.Read(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, "v", string(got))

		require.NoError(t, db.Delete(ctx, []byte("k")))
		_, err = db.Read(ctx, []byte("k"))
		assert.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
	})

	t.Run("Batch and Iterator", func(t *testing.T) {
		ops := []keyValueDb.BatchOperation{
			{Type: keyValueDb.BatchPut, Key: []byte("a1"), Value: []byte("1")},
			{Type: keyValueDb.BatchPut, Key: []byte("a2"), Value: []byte("2")},
			{Type: keyValueDb.BatchPut, Key: []byte("a3"), Value: []byte("3")},
			{Type: keyValueDb.BatchDelete, Key: []byte("a2")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		iter, err := db.Iterator(ctx, []byte("a"), []byte("b"))
		require.NoError(t, err)
		defer iter.Close()

		var pairs []string
		for iter.Next() {
			pairs = append(pairs, string(iter.Key())+"="+string(iter.Value()))
		}
		require.NoError(t, iter.Error())
		assert.Equal(t, []string{"a1=1", "a3=3"}, pairs)
	})

	t.Run("Closed", func(t *testing.T) {
		require.NoError(t, manager.CloseDB("state"))
		_, err := db.Read(ctx, []byte("a1"))
		assert.ErrorIs(t, err, keyValueDb.ErrDBClosed)
	})
}
