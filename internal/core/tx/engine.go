package tx

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// ErrNoVerifier is returned by Submit when the engine has no signature verifier.
var ErrNoVerifier = errors.New("no signature verifier configured")

// Verifier authenticates a signed operation and returns the signer identity.
type Verifier interface {
	Verify(op Operation, pubKey, sig []byte) (types.AccountID, error)
}

// Record describes one processed operation. Observers receive a Record
// for every submission, applied or not.
type Record struct {
	Seq      uint64
	Op       Operation
	Caller   types.AccountID
	Result   Result
	At       time.Time
	Duration time.Duration
	Events   []Event
	Metadata *Metadata
}

// Observer is notified after each operation, while the engine lock is held.
type Observer interface {
	OperationApplied(rec Record)
}

// EngineConfig holds configuration for the operation engine
type EngineConfig struct {
	// Clock supplies ctx.Now. Defaults to the system clock.
	Clock Clock

	// Tokens binds the token ledger to each sandbox. Required.
	Tokens TokenLedgerFactory

	// Verifier checks signatures for Submit.
	Verifier Verifier

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// StartSeq is the last sequence number already used, e.g. from the journal.
	StartSeq uint64

	Observers []Observer
}

// ApplyResult contains the result of applying an operation
type ApplyResult struct {
	// Result is the operation result code
	Result Result

	// Applied indicates if the operation changed the ledger
	Applied bool

	// Seq is the engine sequence number assigned to the operation
	Seq uint64

	// Metadata contains the changes made by the operation
	Metadata *Metadata

	// Events are the domain events the operation emitted
	Events []Event

	// Message is a human-readable result message
	Message string
}

// Engine applies operations against a ledger view one at a time.
type Engine struct {
	mu     sync.Mutex
	view   LedgerView
	config EngineConfig
	logger *slog.Logger
	seq    uint64
}

func NewEngine(view LedgerView, config EngineConfig) *Engine {
	if config.Clock == nil {
		config.Clock = SystemClock{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		view:   view,
		config: config,
		logger: logger.With("component", "engine"),
		seq:    config.StartSeq,
	}
}

// View returns the committed ledger view. Callers must not write to it.
func (e *Engine) View() LedgerView {
	return e.view
}

// Read runs fn against the committed view while no operation is applying,
// so every read inside fn sees the same ledger state.
func (e *Engine) Read(fn func(view LedgerView) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.view)
}

// Clock returns the engine's time source.
func (e *Engine) Clock() Clock {
	return e.config.Clock
}

// AddObserver registers an observer for subsequent operations.
func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config.Observers = append(e.config.Observers, o)
}

// Submit verifies the signature over op and applies it as the signer.
func (e *Engine) Submit(op Operation, pubKey, sig []byte) ApplyResult {
	if e.config.Verifier == nil {
		e.logger.Error("submit rejected", "op", op.OpType(), "error", ErrNoVerifier)
		return ApplyResult{Result: TefBAD_SIGNATURE, Message: TefBAD_SIGNATURE.Message()}
	}
	caller, err := e.config.Verifier.Verify(op, pubKey, sig)
	if err != nil {
		e.logger.Info("signature rejected", "op", op.OpType(), "error", err)
		return ApplyResult{Result: TefBAD_SIGNATURE, Message: TefBAD_SIGNATURE.Message()}
	}
	return e.Apply(op, caller)
}

// Apply processes an operation on behalf of an already authenticated caller.
func (e *Engine) Apply(op Operation, caller types.AccountID) ApplyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	now := e.config.Clock.Now()
	e.seq++
	seq := e.seq

	var (
		result   Result
		metadata *Metadata
		events   []Event
	)

	// Step 1: stateless validation
	if err := op.Validate(); err != nil {
		result = ResultOf(err)
		e.logger.Debug("validation failed", "op", op.OpType(), "seq", seq, "error", err)
	} else {
		// Step 2: sandboxed apply
		result, metadata, events = e.doApply(op, caller, now, seq)
	}

	logger := e.logger.With("op", op.OpType().String(), "caller", caller.String(), "seq", seq, "result", result.String())
	if result.IsSuccess() {
		logger.Debug("operation applied")
	} else {
		logger.Info("operation failed")
	}

	rec := Record{
		Seq:      seq,
		Op:       op,
		Caller:   caller,
		Result:   result,
		At:       now,
		Duration: time.Since(start),
		Events:   events,
		Metadata: metadata,
	}
	for _, o := range e.config.Observers {
		o.OperationApplied(rec)
	}

	return ApplyResult{
		Result:   result,
		Applied:  result.IsSuccess(),
		Seq:      seq,
		Metadata: metadata,
		Events:   events,
		Message:  result.Message(),
	}
}

func (e *Engine) doApply(op Operation, caller types.AccountID, now time.Time, seq uint64) (Result, *Metadata, []Event) {
	if e.config.Tokens == nil {
		e.logger.Error("engine has no token ledger")
		return TefINTERNAL, nil, nil
	}

	table := NewApplyStateTable(e.view)
	ctx := &ApplyContext{
		View:   table,
		Caller: caller,
		Now:    now.Unix(),
		Tokens: e.config.Tokens(table),
		Seq:    seq,
		Logger: e.logger.With("op", op.OpType().String(), "seq", seq),
	}

	result := op.Apply(ctx)
	if !result.IsSuccess() {
		// Any non-tes result leaves the ledger untouched.
		table.Discard()
		return result, nil, nil
	}

	metadata, err := table.Apply()
	if err != nil {
		e.logger.Error("commit failed", "op", op.OpType(), "seq", seq, "error", err)
		return TefINTERNAL, nil, nil
	}
	return result, metadata, ctx.Events()
}
