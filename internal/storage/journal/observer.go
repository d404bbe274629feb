package journal

import (
	"context"
	"log/slog"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
)

// Observer appends every engine record to a journal.
type Observer struct {
	journal *Journal
	logger  *slog.Logger
}

var _ tx.Observer = (*Observer)(nil)

// NewObserver returns an engine observer writing to j.
func NewObserver(j *Journal, logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{journal: j, logger: logger.With("component", "journal")}
}

// OperationApplied journals rec. Failures are logged and never affect the
// ledger.
func (o *Observer) OperationApplied(rec tx.Record) {
	e, err := NewEntry(rec)
	if err != nil {
		o.logger.Error("encode failed", "seq", rec.Seq, "op", rec.Op.OpType(), "error", err)
		return
	}
	if err := o.journal.Append(context.Background(), e); err != nil {
		o.logger.Error("append failed", "seq", rec.Seq, "op", rec.Op.OpType(), "error", err)
	}
}
