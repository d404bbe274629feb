package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var syncWrite = &opt.WriteOptions{Sync: true}

// DB adapts a goleveldb handle to keyValueDb.DB.
type DB struct {
	db *leveldb.DB
}

// Open opens or creates a leveldb database at path.
func Open(path string) (*DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}
	return &DB{db: db}, nil
}

func (l *DB) Read(ctx context.Context, key []byte) ([]byte, error) {
	if l.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}
	data, err := l.db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, keyValueDb.ErrKeyNotFound
	}
	if errors.Is(err, leveldb.ErrClosed) {
		return nil, keyValueDb.ErrDBClosed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key: %w", err)
	}
	return data, nil
}

func (l *DB) Write(ctx context.Context, key, value []byte) error {
	if l.db == nil {
		return keyValueDb.ErrDBClosed
	}
	if err := l.db.Put(key, value, syncWrite); err != nil {
		return fmt.Errorf("failed to write key: %w", err)
	}
	return nil
}

func (l *DB) Delete(ctx context.Context, key []byte) error {
	if l.db == nil {
		return keyValueDb.ErrDBClosed
	}
	if err := l.db.Delete(key, syncWrite); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (l *DB) Batch(ctx context.Context, ops []keyValueDb.BatchOperation) error {
	if l.db == nil {
		return keyValueDb.ErrDBClosed
	}

	batch := new(leveldb.Batch)
	for _, op := range ops {
		switch op.Type {
		case keyValueDb.BatchPut:
			batch.Put(op.Key, op.Value)
		case keyValueDb.BatchDelete:
			batch.Delete(op.Key)
		default:
			return fmt.Errorf("%w: unknown batch operation type: %d", keyValueDb.ErrBatchOperationFailed, op.Type)
		}
	}

	if err := l.db.Write(batch, syncWrite); err != nil {
		return fmt.Errorf("%w: %v", keyValueDb.ErrBatchOperationFailed, err)
	}
	return nil
}

func (l *DB) Iterator(ctx context.Context, start, end []byte) (keyValueDb.Iterator, error) {
	if l.db == nil {
		return nil, keyValueDb.ErrDBClosed
	}
	it := l.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return &dbIterator{it: it}, nil
}

// Close releases the underlying handle.
func (l *DB) Close() error {
	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

type dbIterator struct {
	it         iterator.Iterator
	key, value []byte
}

func (i *dbIterator) Next() bool {
	if !i.it.Next() {
		return false
	}
	// goleveldb reuses its buffers between calls.
	i.key = append([]byte(nil), i.it.Key()...)
	i.value = append([]byte(nil), i.it.Value()...)
	return true
}

func (i *dbIterator) Key() []byte   { return i.key }
func (i *dbIterator) Value() []byte { return i.value }
func (i *dbIterator) Error() error  { return i.it.Error() }

func (i *dbIterator) Close() error {
	i.it.Release()
	return nil
}
