package state

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	for _, comp := range []string{"none", "lz4"} {
		t.Run(comp, func(t *testing.T) {
			db := memory.NewDB()
			store, err := NewStore(db, Options{Compression: comp, CacheSize: 2})
			require.NoError(t, err)

			ev := keylet.Event(1)
			payload := bytes.Repeat([]byte("doomsday"), 64)

			got, err := store.Read(ev)
			require.NoError(t, err)
			assert.Nil(t, got)

			require.NoError(t, store.Insert(ev, payload))
			assert.ErrorIs(t, store.Insert(ev, payload), tx.ErrEntryExists)

			got, err = store.Read(ev)
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			// A fresh store over the same database decodes from disk.
			reopened, err := NewStore(db, Options{})
			require.NoError(t, err)
			got, err = reopened.Read(ev)
			require.NoError(t, err)
			assert.Equal(t, payload, got)

			require.NoError(t, store.Update(ev, []byte("short")))
			got, err = store.Read(ev)
			require.NoError(t, err)
			assert.Equal(t, []byte("short"), got)

			require.NoError(t, store.Erase(ev))
			exists, err := store.Exists(ev)
			require.NoError(t, err)
			assert.False(t, exists)
			assert.ErrorIs(t, store.Update(ev, payload), tx.ErrEntryNotFound)
		})
	}
}

func TestStoreRejectsUnknownCompression(t *testing.T) {
	_, err := NewStore(memory.NewDB(), Options{Compression: "zstd"})
	assert.Error(t, err)
}

func TestStoreCommitBatchAndForEach(t *testing.T) {
	db := memory.NewDB()
	store, err := NewStore(db, Options{Compression: "lz4"})
	require.NoError(t, err)

	require.NoError(t, store.CommitBatch([]tx.StagedWrite{
		{Key: keylet.Event(1).Key, Data: []byte("one")},
		{Key: keylet.Event(2).Key, Data: []byte("two")},
		{Key: keylet.Event(3).Key, Data: []byte("three")},
	}))
	require.NoError(t, store.CommitBatch([]tx.StagedWrite{
		{Key: keylet.Event(2).Key},
	}))

	// Non-entry keys in the same database are ignored.
	require.NoError(t, db.Write(t.Context(), []byte("journal/meta"), []byte("x")))

	seen := map[string]bool{}
	require.NoError(t, store.ForEach(func(_ [32]byte, data []byte) bool {
		seen[string(data)] = true
		return true
	}))
	assert.Equal(t, map[string]bool{"one": true, "three": true}, seen)

	count := 0
	require.NoError(t, store.ForEach(func([32]byte, []byte) bool {
		count++
		return false
	}))
	assert.Equal(t, 1, count)
}

func TestStoreWithApplyStateTable(t *testing.T) {
	store, err := NewStore(memory.NewDB(), Options{})
	require.NoError(t, err)

	table := tx.NewApplyStateTable(store)
	require.NoError(t, table.Insert(keylet.Pool(), []byte("pool")))
	require.NoError(t, table.Insert(keylet.Platform(), []byte("platform")))

	exists, err := store.Exists(keylet.Pool())
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = table.Apply()
	require.NoError(t, err)

	got, err := store.Read(keylet.Platform())
	require.NoError(t, err)
	assert.Equal(t, "platform", string(got))
}

// pausingDB holds the next Read after it has fetched its value until
// release is closed.
type pausingDB struct {
	*memory.DB
	armed   atomic.Bool
	fetched chan struct{}
	release chan struct{}
}

func (d *pausingDB) Read(ctx context.Context, key []byte) ([]byte, error) {
	v, err := d.DB.Read(ctx, key)
	if d.armed.CompareAndSwap(true, false) {
		close(d.fetched)
		<-d.release
	}
	return v, err
}

func TestStoreReadDoesNotCacheOverCommit(t *testing.T) {
	db := &pausingDB{DB: memory.NewDB(), fetched: make(chan struct{}), release: make(chan struct{})}
	store, err := NewStore(db, Options{})
	require.NoError(t, err)
	pool := keylet.Pool()
	require.NoError(t, store.Insert(pool, []byte("old")))
	store.cache.Purge()

	db.armed.Store(true)
	readDone := make(chan []byte, 1)
	go func() {
		got, _ := store.Read(pool)
		readDone <- got
	}()
	<-db.fetched

	commitDone := make(chan error, 1)
	go func() {
		commitDone <- store.CommitBatch([]tx.StagedWrite{{Key: pool.Key, Data: []byte("new")}})
	}()
	select {
	case <-commitDone:
		t.Fatal("commit finished while a read was filling the cache")
	case <-time.After(50 * time.Millisecond):
	}

	close(db.release)
	assert.Equal(t, "old", string(<-readDone))
	require.NoError(t, <-commitDone)

	got, err := store.Read(pool)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}
