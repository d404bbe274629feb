package memory

import (
	"context"
	"testing"

	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	ctx := context.Background()
	db := NewDB()

	t.Run("Write and Read", func(t *testing.T) {
		require.NoError(t, db.Write(ctx, []byte("test-key"), []byte("test-value")))

		got, err := db.Read(ctx, []byte("test-key"))
		require.NoError(t, err)
		assert.Equal(t, "test-value", string(got))
	})

	t.Run("Read returns a copy", func(t *testing.T) {
		got, err := db.Read(ctx, []byte("test-key"))
		require.NoError(t, err)
		got[0] = 'X'

		again, err := db.Read(ctx, []byte("test-key"))
		require.NoError(t, err)
		assert.Equal(t, "test-value", string(again))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, db.Delete(ctx, []byte("test-key")))

		_, err := db.Read(ctx, []byte("test-key"))
		assert.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
	})

	t.Run("Batch Operations", func(t *testing.T) {
		ops := []keyValueDb.BatchOperation{
			{Type: keyValueDb.BatchPut, Key: []byte("key1"), Value: []byte("value1")},
			{Type: keyValueDb.BatchPut, Key: []byte("key2"), Value: []byte("value2")},
			{Type: keyValueDb.BatchDelete, Key: []byte("key1")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		_, err := db.Read(ctx, []byte("key1"))
		assert.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)

		value, err := db.Read(ctx, []byte("key2"))
		require.NoError(t, err)
		assert.Equal(t, "value2", string(value))
	})

	t.Run("Batch rejects unknown ops atomically", func(t *testing.T) {
		ops := []keyValueDb.BatchOperation{
			{Type: keyValueDb.BatchPut, Key: []byte("key3"), Value: []byte("value3")},
			{Type: keyValueDb.BatchOpType(42), Key: []byte("key4")},
		}
		err := db.Batch(ctx, ops)
		require.ErrorIs(t, err, keyValueDb.ErrBatchOperationFailed)

		_, err = db.Read(ctx, []byte("key3"))
		assert.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
	})

	t.Run("Iterator is ordered and end-exclusive", func(t *testing.T) {
		for _, k := range []string{"c", "a", "b", "d"} {
			require.NoError(t, db.Write(ctx, []byte(k), []byte("value-"+k)))
		}

		iter, err := db.Iterator(ctx, []byte("a"), []byte("d"))
		require.NoError(t, err)
		defer iter.Close()

		var keys []string
		for iter.Next() {
			keys = append(keys, string(iter.Key()))
			assert.Equal(t, "value-"+string(iter.Key()), string(iter.Value()))
		}
		require.NoError(t, iter.Error())
		assert.Equal(t, []string{"a", "b", "c"}, keys)
	})

	t.Run("Closed", func(t *testing.T) {
		require.NoError(t, db.Close())

		_, err := db.Read(ctx, []byte("a"))
		assert.ErrorIs(t, err, keyValueDb.ErrDBClosed)
		assert.ErrorIs(t, db.Write(ctx, []byte("a"), nil), keyValueDb.ErrDBClosed)
	})
}

func TestManagerReusesOpenDB(t *testing.T) {
	m := NewManager()
	a, err := m.OpenDB("state")
	require.NoError(t, err)
	b, err := m.OpenDB("state")
	require.NoError(t, err)
	assert.Same(t, a, b)

	require.NoError(t, m.CloseDB("state"))
	assert.Error(t, m.CloseDB("state"))
	require.NoError(t, m.Close())
}
