package journal

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
)

// Mismatch is a replayed operation whose result differs from the journal.
type Mismatch struct {
	Seq  uint64
	Type tx.Type
	Want tx.Result
	Got  tx.Result
}

func (m Mismatch) String() string {
	return fmt.Sprintf("seq %d %s: journaled %s, replayed %s", m.Seq, m.Type, m.Want, m.Got)
}

// ReplayReport summarizes a replay.
type ReplayReport struct {
	Replayed   int
	Applied    int
	Mismatches []Mismatch
}

// OK reports whether every operation reproduced its journaled result.
func (r *ReplayReport) OK() bool {
	return len(r.Mismatches) == 0
}

// replayClock reports the journaled time of the entry being replayed.
type replayClock struct {
	now time.Time
}

func (c *replayClock) Now() time.Time { return c.now }

// Replay re-applies entries in order against view, each at its journaled
// time and as its journaled caller. Signatures are not re-checked.
func Replay(ctx context.Context, entries []*Entry, view tx.LedgerView, tokens tx.TokenLedgerFactory, logger *slog.Logger) (*ReplayReport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "replay")

	clock := &replayClock{}
	var startSeq uint64
	if len(entries) > 0 && entries[0].Seq > 0 {
		startSeq = entries[0].Seq - 1
	}
	engine := tx.NewEngine(view, tx.EngineConfig{
		Clock:    clock,
		Tokens:   tokens,
		Logger:   logger,
		StartSeq: startSeq,
	})

	report := &ReplayReport{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		op, err := e.Operation()
		if err != nil {
			return report, fmt.Errorf("replay seq %d: %w", e.Seq, err)
		}

		clock.now = e.AppliedAt
		res := engine.Apply(op, e.Caller)
		report.Replayed++
		if res.Applied {
			report.Applied++
		}
		if res.Result != e.Result {
			m := Mismatch{Seq: e.Seq, Type: e.Type, Want: e.Result, Got: res.Result}
			logger.Warn("result mismatch", "seq", e.Seq, "op", e.Type, "journaled", e.Result, "replayed", res.Result)
			report.Mismatches = append(report.Mismatches, m)
		}
	}
	logger.Info("replay finished", "replayed", report.Replayed, "applied", report.Applied, "mismatches", len(report.Mismatches))
	return report, nil
}

// DiffState returns the keys whose entries differ between want and got,
// including keys present in only one of them.
func DiffState(want, got tx.LedgerView) ([][32]byte, error) {
	entries := make(map[[32]byte][]byte)
	err := want.ForEach(func(key [32]byte, data []byte) bool {
		entries[key] = bytes.Clone(data)
		return true
	})
	if err != nil {
		return nil, err
	}

	var diff [][32]byte
	err = got.ForEach(func(key [32]byte, data []byte) bool {
		w, ok := entries[key]
		if !ok || !bytes.Equal(w, data) {
			diff = append(diff, key)
		}
		delete(entries, key)
		return true
	})
	if err != nil {
		return nil, err
	}
	for key := range entries {
		diff = append(diff, key)
	}
	return diff, nil
}
