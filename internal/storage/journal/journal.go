// Package journal keeps an append-only record of every processed operation
// in a relational database. The journal is the audit trail of a node and
// the input of replay.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/google/uuid"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Entry is one journaled operation.
type Entry struct {
	ID        uuid.UUID
	Seq       uint64
	Type      tx.Type
	Caller    types.AccountID
	Result    tx.Result
	AppliedAt time.Time

	// Payload is the msgpack encoding of the operation fields.
	Payload []byte
}

// NewEntry builds the journal entry for an engine record.
func NewEntry(rec tx.Record) (*Entry, error) {
	payload, err := tx.EncodeOperation(rec.Op)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:        uuid.New(),
		Seq:       rec.Seq,
		Type:      rec.Op.OpType(),
		Caller:    rec.Caller,
		Result:    rec.Result,
		AppliedAt: rec.At,
		Payload:   payload,
	}, nil
}

// Operation decodes the journaled operation.
func (e *Entry) Operation() (tx.Operation, error) {
	return tx.DecodeOperation(e.Type, e.Payload)
}

// Filter selects entries for List. Zero fields match everything.
type Filter struct {
	// FromSeq excludes entries with a lower sequence number.
	FromSeq uint64
	Type    tx.Type
	Caller  types.AccountID

	// AppliedOnly skips operations that did not succeed.
	AppliedOnly bool
	Limit       int
}

// Journal stores entries in sqlite or postgres.
type Journal struct {
	mu      sync.RWMutex
	db      *sql.DB
	driver  string
	timeout time.Duration
	logger  *slog.Logger
}

// Open connects to the database described by cfg and creates the schema.
func Open(ctx context.Context, cfg *Config, logger *slog.Logger) (*Journal, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: journal disabled", ErrInvalidDriver)
	}
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Driver == DriverSQLite && !strings.HasPrefix(cfg.DSN, "file:") && cfg.DSN != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0o755); err != nil {
			return nil, fmt.Errorf("journal.Open: %w", err)
		}
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("journal.Open: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		// sqlite serializes writers anyway
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DefaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal.Open: ping: %w", err)
	}

	j := &Journal{
		db:      db,
		driver:  cfg.Driver,
		timeout: cfg.DefaultTimeout,
		logger:  logger.With("component", "journal"),
	}
	if err := j.initSchema(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal.Open: schema: %w", err)
	}
	j.logger.Info("journal opened", "driver", cfg.Driver)
	return j, nil
}

// OpenSQLite opens a sqlite journal at path with default settings.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	return Open(ctx, NewConfig(path), logger)
}

func (j *Journal) initSchema(ctx context.Context) error {
	blob := "BLOB"
	if j.driver == DriverPostgres {
		blob = "BYTEA"
	}
	queries := []string{
		`CREATE TABLE IF NOT EXISTS operations (
			id TEXT PRIMARY KEY,
			seq BIGINT NOT NULL UNIQUE,
			op_type INTEGER NOT NULL,
			caller TEXT NOT NULL,
			result INTEGER NOT NULL,
			applied_at BIGINT NOT NULL,
			payload ` + blob + ` NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_operations_caller ON operations(caller)`,
		`CREATE INDEX IF NOT EXISTS idx_operations_type ON operations(op_type)`,
	}
	for _, q := range queries {
		if _, err := j.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// rebind rewrites ? placeholders as $n for postgres.
func (j *Journal) rebind(query string) string {
	if j.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// conn returns the open database or ErrClosed. Callers hold j.mu.
func (j *Journal) conn() (*sql.DB, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	return j.db, nil
}

// Append stores e. Sequence numbers are unique.
func (j *Journal) Append(ctx context.Context, e *Entry) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	db, err := j.conn()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	payload := e.Payload
	if payload == nil {
		payload = []byte{}
	}
	_, err = db.ExecContext(ctx, j.rebind(
		`INSERT INTO operations (id, seq, op_type, caller, result, applied_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		e.ID.String(), int64(e.Seq), int(e.Type), e.Caller.String(),
		int(e.Result), e.AppliedAt.UnixNano(), payload,
	)
	if err != nil {
		return fmt.Errorf("journal.Append: seq %d: %w", e.Seq, err)
	}
	return nil
}

const selectColumns = `SELECT id, seq, op_type, caller, result, applied_at, payload FROM operations`

// Get returns the entry with the given id.
func (j *Journal) Get(ctx context.Context, id uuid.UUID) (*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	db, err := j.conn()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	row := db.QueryRowContext(ctx, j.rebind(selectColumns+` WHERE id = ?`), id.String())
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("journal.Get: %w", err)
	}
	return e, nil
}

// List returns the entries matching f in sequence order.
func (j *Journal) List(ctx context.Context, f Filter) ([]*Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	db, err := j.conn()
	if err != nil {
		return nil, err
	}

	query := selectColumns + ` WHERE seq >= ?`
	args := []any{int64(f.FromSeq)}
	if f.Type != 0 {
		query += ` AND op_type = ?`
		args = append(args, int(f.Type))
	}
	if !f.Caller.IsZero() {
		query += ` AND caller = ?`
		args = append(args, f.Caller.String())
	}
	if f.AppliedOnly {
		query += ` AND result = ?`
		args = append(args, int(tx.TesSUCCESS))
	}
	query += ` ORDER BY seq`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, j.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("journal.List: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("journal.List: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal.List: %w", err)
	}
	return out, nil
}

// LastSeq returns the highest journaled sequence number, or 0.
func (j *Journal) LastSeq(ctx context.Context) (uint64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	db, err := j.conn()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	var seq sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(seq) FROM operations`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("journal.LastSeq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

// Close closes the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var (
		id, caller     string
		seq, appliedAt int64
		opType, result int
		payload        []byte
	)
	if err := s.Scan(&id, &seq, &opType, &caller, &result, &appliedAt, &payload); err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", id, err)
	}
	acc, err := types.ParseAccountID(caller)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", id, err)
	}
	return &Entry{
		ID:        uid,
		Seq:       uint64(seq),
		Type:      tx.Type(opType),
		Caller:    acc,
		Result:    tx.Result(result),
		AppliedAt: time.Unix(0, appliedAt).UTC(),
		Payload:   payload,
	}, nil
}
