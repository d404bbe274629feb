package pebble

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Manager {
	manager := NewManager(t.TempDir(), 0, nil)
	t.Cleanup(func() {
		_ = manager.Close()
	})
	return manager
}

func TestPebbleDB(t *testing.T) {
	manager := setupTestDB(t)
	ctx := context.Background()

	t.Run("Database Lifecycle", func(t *testing.T) {
		db, err := manager.OpenDB("test")
		require.NoError(t, err)

		key := []byte("lifecycle-test")
		value := []byte("test-value")
		require.NoError(t, db.Write(ctx, key, value))

		got, err := db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, got)

		require.NoError(t, manager.CloseDB("test"))

		_, err = os.Stat(filepath.Join(manager.path, "test.db"))
		assert.NoError(t, err, "database directory was not created")

		// Reopening sees the persisted value.
		db, err = manager.OpenDB("test")
		require.NoError(t, err)
		got, err = db.Read(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("Missing Key", func(t *testing.T) {
		db, err := manager.OpenDB("missing-test")
		require.NoError(t, err)

		_, err = db.Read(ctx, []byte("nope"))
		assert.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)
	})

	t.Run("Batch Operations", func(t *testing.T) {
		db, err := manager.OpenDB("batch-test")
		require.NoError(t, err)

		ops := []keyValueDb.BatchOperation{
			{Type: keyValueDb.BatchPut, Key: []byte("batch1"), Value: []byte("value1")},
			{Type: keyValueDb.BatchPut, Key: []byte("batch2"), Value: []byte("value2")},
			{Type: keyValueDb.BatchDelete, Key: []byte("batch1")},
		}
		require.NoError(t, db.Batch(ctx, ops))

		_, err = db.Read(ctx, []byte("batch1"))
		assert.ErrorIs(t, err, keyValueDb.ErrKeyNotFound)

		value, err := db.Read(ctx, []byte("batch2"))
		require.NoError(t, err)
		assert.Equal(t, "value2", string(value))
	})

	t.Run("Iterator", func(t *testing.T) {
		db, err := manager.OpenDB("iterator-test")
		require.NoError(t, err)

		testData := map[string]string{
			"iter1": "value1",
			"iter2": "value2",
			"iter3": "value3",
		}
		for k, v := range testData {
			require.NoError(t, db.Write(ctx, []byte(k), []byte(v)))
		}

		iter, err := db.Iterator(ctx, []byte("iter1"), []byte("iter3"))
		require.NoError(t, err)

		var keys []string
		for iter.Next() {
			key := string(iter.Key())
			assert.Equal(t, testData[key], string(iter.Value()))
			keys = append(keys, key)
		}
		require.NoError(t, iter.Error())
		require.NoError(t, iter.Close())
		assert.Equal(t, []string{"iter1", "iter2"}, keys)
	})

	t.Run("Concurrent Access", func(t *testing.T) {
		db, err := manager.OpenDB("concurrent-test")
		require.NoError(t, err)

		const numGoroutines = 10
		const numOperations = 50

		errCh := make(chan error, numGoroutines)
		for i := 0; i < numGoroutines; i++ {
			go func(id int) {
				var err error
				for j := 0; j < numOperations; j++ {
					key := []byte(fmt.Sprintf("concurrent-%d-%d", id, j))
					if err = db.Write(ctx, key, key); err != nil {
						break
					}
					if _, err = db.Read(ctx, key); err != nil {
						break
					}
				}
				errCh <- err
			}(i)
		}

		for i := 0; i < numGoroutines; i++ {
			assert.NoError(t, <-errCh)
		}
	})
}
