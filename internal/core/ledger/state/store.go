// Package state persists ledger entries in a keyValueDb.
package state

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/storage/compression"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Value codec tags, stored as the first byte of every value.
const (
	codecNone byte = 0
	codecLZ4  byte = 1
)

// DefaultCacheSize is the number of decoded entries kept in memory.
const DefaultCacheSize = 4096

// keyPrefix namespaces ledger entries inside the database.
var keyPrefix = []byte("s/")

// Options configures a Store.
type Options struct {
	// Compression is "none" or "lz4".
	Compression string
	CacheSize   int
	Logger      *slog.Logger
}

// Store is a tx.LedgerView backed by a keyValueDb. Decoded entries are kept
// in an LRU cache and values are optionally lz4 compressed.
//
// Reads hold mu shared from the database read until the cache fill, and
// commits hold it exclusively, so a read never caches bytes older than a
// concurrent commit.
type Store struct {
	mu     sync.RWMutex
	db     keyValueDb.DB
	cache  *lru.Cache[[32]byte, []byte]
	codec  byte
	comp   map[byte]compression.Compressor
	logger *slog.Logger
}

var _ tx.LedgerView = (*Store)(nil)
var _ tx.BatchCommitter = (*Store)(nil)

// NewStore wraps db. Existing values remain readable whatever the configured
// compression, since each value records its own codec.
func NewStore(db keyValueDb.DB, opts Options) (*Store, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[[32]byte, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create entry cache: %w", err)
	}

	none, err := compression.Get("none")
	if err != nil {
		return nil, err
	}
	lz4, err := compression.Get("lz4")
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:     db,
		cache:  cache,
		comp:   map[byte]compression.Compressor{codecNone: none, codecLZ4: lz4},
		logger: opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	switch opts.Compression {
	case "", "none":
		s.codec = codecNone
	case "lz4":
		s.codec = codecLZ4
	default:
		return nil, fmt.Errorf("unsupported compression %q", opts.Compression)
	}
	return s, nil
}

func dbKey(key [32]byte) []byte {
	return append(append(make([]byte, 0, len(keyPrefix)+32), keyPrefix...), key[:]...)
}

func (s *Store) encode(data []byte) ([]byte, error) {
	payload, err := s.comp[s.codec].Compress(data)
	if err != nil {
		return nil, err
	}
	return append([]byte{s.codec}, payload...), nil
}

func (s *Store) decode(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty value")
	}
	c, ok := s.comp[raw[0]]
	if !ok {
		return nil, fmt.Errorf("unknown value codec %d", raw[0])
	}
	return c.Decompress(raw[1:])
}

func (s *Store) get(key [32]byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(key)
}

func (s *Store) getLocked(key [32]byte) ([]byte, error) {
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}
	raw, err := s.db.Read(context.Background(), dbKey(key))
	if errors.Is(err, keyValueDb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry %x: %w", key[:4], err)
	}
	data, err := s.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode entry %x: %w", key[:4], err)
	}
	s.cache.Add(key, data)
	return data, nil
}

// Read returns a copy of the entry, or nil if absent.
func (s *Store) Read(k keylet.Keylet) ([]byte, error) {
	data, err := s.get(k.Key)
	if data == nil || err != nil {
		return nil, err
	}
	return bytes.Clone(data), nil
}

func (s *Store) Exists(k keylet.Keylet) (bool, error) {
	data, err := s.get(k.Key)
	return data != nil, err
}

func (s *Store) Insert(k keylet.Keylet, data []byte) error {
	return s.writeIf(k, false, tx.ErrEntryExists, data)
}

func (s *Store) Update(k keylet.Keylet, data []byte) error {
	return s.writeIf(k, true, tx.ErrEntryNotFound, data)
}

func (s *Store) Erase(k keylet.Keylet) error {
	return s.writeIf(k, true, tx.ErrEntryNotFound, nil)
}

// writeIf commits data (nil erases) when the entry's existence matches want.
func (s *Store) writeIf(k keylet.Keylet, want bool, mismatch error, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.getLocked(k.Key)
	if err != nil {
		return err
	}
	if (cur != nil) != want {
		return mismatch
	}
	return s.commitLocked([]tx.StagedWrite{{Key: k.Key, Data: data}})
}

// CommitBatch writes all changes in one database batch.
func (s *Store) CommitBatch(writes []tx.StagedWrite) error {
	if len(writes) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(writes)
}

func (s *Store) commitLocked(writes []tx.StagedWrite) error {
	ops := make([]keyValueDb.BatchOperation, 0, len(writes))
	for _, w := range writes {
		if w.Data == nil {
			ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchDelete, Key: dbKey(w.Key)})
			continue
		}
		value, err := s.encode(w.Data)
		if err != nil {
			return fmt.Errorf("failed to encode entry %x: %w", w.Key[:4], err)
		}
		ops = append(ops, keyValueDb.BatchOperation{Type: keyValueDb.BatchPut, Key: dbKey(w.Key), Value: value})
	}

	if err := s.db.Batch(context.Background(), ops); err != nil {
		// The cache may hold entries the batch meant to replace; drop it.
		s.cache.Purge()
		return fmt.Errorf("failed to commit %d entries: %w", len(ops), err)
	}

	for _, w := range writes {
		if w.Data == nil {
			s.cache.Remove(w.Key)
		} else {
			s.cache.Add(w.Key, bytes.Clone(w.Data))
		}
	}
	s.logger.Debug("committed ledger batch", "entries", len(writes))
	return nil
}

// ForEach visits every entry in key order. fn must not call back into the
// store.
func (s *Store) ForEach(fn func(key [32]byte, data []byte) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	end := append(bytes.Clone(keyPrefix[:len(keyPrefix)-1]), keyPrefix[len(keyPrefix)-1]+1)
	iter, err := s.db.Iterator(context.Background(), keyPrefix, end)
	if err != nil {
		return fmt.Errorf("failed to iterate entries: %w", err)
	}
	defer iter.Close()

	for iter.Next() {
		raw := iter.Key()
		if len(raw) != len(keyPrefix)+32 {
			continue
		}
		var key [32]byte
		copy(key[:], raw[len(keyPrefix):])
		data, err := s.decode(iter.Value())
		if err != nil {
			return fmt.Errorf("failed to decode entry %x: %w", key[:4], err)
		}
		if !fn(key, data) {
			break
		}
	}
	return iter.Error()
}
