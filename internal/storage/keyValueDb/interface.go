// Package keyValueDb is the byte-level storage under the ledger state store.
// Backends live in subpackages: memory for tests and scenario replay, pebble
// as the default on disk, leveldb for operators migrating older data dirs.
package keyValueDb

import (
	"context"
	"errors"
)

var (
	ErrDBClosed             = errors.New("keyValueDb is closed")
	ErrKeyNotFound          = errors.New("key not found")
	ErrBatchOperationFailed = errors.New("batch operation failed")

	// ErrUnknownBackend is wrapped when storage.backend names no known engine.
	ErrUnknownBackend = errors.New("unknown keyValueDb backend")
)

// DB is one named key space. Ledger entries are stored under their 32-byte
// keylet, journal metadata never goes here.
type DB interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch applies every operation or none of them.
	Batch(ctx context.Context, ops []BatchOperation) error

	// Iterator walks keys in [start, end). A nil bound is open.
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)
}

type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// Manager owns the DBs opened under one data directory.
type Manager interface {
	OpenDB(name string) (DB, error)
	CloseDB(name string) error
	Close() error
}

type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)

func (t BatchOpType) String() string {
	switch t {
	case BatchPut:
		return "put"
	case BatchDelete:
		return "delete"
	default:
		return "unknown"
	}
}
