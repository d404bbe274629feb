package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	_ "github.com/LeJamon/goDoomsday/internal/core/tx/all"
	"github.com/LeJamon/goDoomsday/internal/core/tx/amm"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/LeJamon/goDoomsday/internal/crypto"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/memory"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Mint names created during setup.
const (
	DoomMintName = "DOOM"
	LifeMintName = "LIFE"
)

// Options configures a run.
type Options struct {
	Logger *slog.Logger

	// Observers are attached to the engine of every run, e.g. metrics.
	Observers []tx.Observer

	// Parallel bounds RunFiles concurrency. Zero runs every file at once.
	Parallel int
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index int
	Actor string
	Op    string
	Want  tx.Result
	Got   tx.Result
	Seq   uint64
}

// Passed reports whether the step produced its expected result.
func (s StepResult) Passed() bool {
	return s.Want == s.Got
}

// CheckResult is the outcome of one balance check.
type CheckResult struct {
	Check
	Got uint64
}

// Passed reports whether the balance matched.
func (c CheckResult) Passed() bool {
	return c.Got == c.Balance
}

// Result is the outcome of one scenario.
type Result struct {
	Name   string
	File   string
	Steps  []StepResult
	Checks []CheckResult

	// Pool holds the final AMM reserves, nil when no pool was created.
	Pool *amm.Pool
}

// Passed reports whether every step and check passed.
func (r *Result) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed() {
			return false
		}
	}
	for _, c := range r.Checks {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// Failures returns a line per failed step or check.
func (r *Result) Failures() []string {
	var out []string
	for _, s := range r.Steps {
		if !s.Passed() {
			out = append(out, fmt.Sprintf("step %d %s by %s: want %s, got %s", s.Index, s.Op, s.Actor, s.Want, s.Got))
		}
	}
	for _, c := range r.Checks {
		if !c.Passed() {
			out = append(out, fmt.Sprintf("check %s %s: want %d, got %d", c.Account, c.Mint, c.Balance, c.Got))
		}
	}
	return out
}

// scenarioClock is advanced by steps.
type scenarioClock struct {
	now time.Time
}

func (c *scenarioClock) Now() time.Time { return c.now }

type account struct {
	key *crypto.KeyPair
	id  types.AccountID
}

// runner holds the ledger of one scenario run.
type runner struct {
	sc       *Scenario
	store    *state.Store
	engine   *tx.Engine
	clock    *scenarioClock
	accounts map[string]*account
	mints    map[string]types.AccountID
	logger   *slog.Logger
}

// accountKey derives the key of a scenario account from its name.
func accountKey(name string) (*account, error) {
	key, err := crypto.KeyPairFromSeed([]byte("doomsday-scenario:" + name))
	if err != nil {
		return nil, err
	}
	return &account{key: key, id: key.AccountID()}, nil
}

// AccountID returns the address a scenario gives to the account name.
func AccountID(name string) (types.AccountID, error) {
	acc, err := accountKey(name)
	if err != nil {
		return types.ZeroAccount, err
	}
	return acc.id, nil
}

func newRunner(sc *Scenario, opts Options) (*runner, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store, err := state.NewStore(memory.NewDB(), state.Options{Logger: logger})
	if err != nil {
		return nil, err
	}

	r := &runner{
		sc:       sc,
		store:    store,
		clock:    &scenarioClock{now: sc.Start},
		accounts: make(map[string]*account),
		mints: map[string]types.AccountID{
			DoomMintName: keylet.NamedMint(DoomMintName),
			LifeMintName: keylet.NamedMint(LifeMintName),
			"LP":         keylet.LPMint(),
		},
		logger: logger.With("scenario", sc.Name),
	}
	r.engine = tx.NewEngine(store, tx.EngineConfig{
		Clock:     r.clock,
		Tokens:    token.Factory(),
		Verifier:  crypto.Verifier{},
		Logger:    r.logger,
		Observers: opts.Observers,
	})

	names := []string{sc.Authority}
	for _, acc := range sc.Accounts {
		names = append(names, acc.Name)
	}
	for _, name := range names {
		acc, err := accountKey(name)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", name, err)
		}
		r.accounts[name] = acc
	}
	return r, nil
}

func (r *runner) submit(actor string, op tx.Operation) (tx.ApplyResult, error) {
	acc := r.accounts[actor]
	pub, sig, err := crypto.SignOperation(acc.key, op)
	if err != nil {
		return tx.ApplyResult{}, fmt.Errorf("sign %s: %w", op.OpType(), err)
	}
	return r.engine.Submit(op, pub, sig), nil
}

// setup creates the mints and funds the declared accounts.
func (r *runner) setup() error {
	ops := []tx.Operation{
		&token.CreateMint{Name: DoomMintName},
		&token.CreateMint{Name: LifeMintName},
	}
	for _, acc := range r.sc.Accounts {
		id := r.accounts[acc.Name].id
		if acc.Doom > 0 {
			ops = append(ops, &token.Issue{Mint: r.mints[DoomMintName], To: id, Amount: acc.Doom})
		}
		if acc.Life > 0 {
			ops = append(ops, &token.Issue{Mint: r.mints[LifeMintName], To: id, Amount: acc.Life})
		}
	}
	for _, op := range ops {
		res, err := r.submit(r.sc.Authority, op)
		if err != nil {
			return err
		}
		if !res.Applied {
			return fmt.Errorf("setup %s: %s", op.OpType(), res.Result)
		}
	}
	return nil
}

// resolve replaces "@" references in decoded yaml values.
func (r *runner) resolve(v any) (any, error) {
	switch val := v.(type) {
	case string:
		if !strings.HasPrefix(val, "@") {
			return val, nil
		}
		ref := val[1:]
		if name, ok := strings.CutPrefix(ref, "mint:"); ok {
			if id, ok := r.mints[name]; ok {
				return id.String(), nil
			}
			return nil, fmt.Errorf("%w %q", ErrUnknownRef, val)
		}
		if acc, ok := r.accounts[ref]; ok {
			return acc.id.String(), nil
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownRef, val)
	case map[string]any:
		for k, item := range val {
			resolved, err := r.resolve(item)
			if err != nil {
				return nil, err
			}
			val[k] = resolved
		}
		return val, nil
	case []any:
		for i, item := range val {
			resolved, err := r.resolve(item)
			if err != nil {
				return nil, err
			}
			val[i] = resolved
		}
		return val, nil
	default:
		return v, nil
	}
}

// buildOp creates the operation of a step from its arguments.
func (r *runner) buildOp(st *Step) (tx.Operation, error) {
	op, err := tx.NewFromName(st.Op)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, st.Op)
	}
	if st.Args.Kind == 0 {
		return op, nil
	}

	var raw any
	if err := st.Args.Decode(&raw); err != nil {
		return nil, err
	}
	raw, err = r.resolve(raw)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, op); err != nil {
		return nil, fmt.Errorf("%s args: %w", st.Op, err)
	}
	return op, nil
}

func (r *runner) run(ctx context.Context) (*Result, error) {
	res := &Result{Name: r.sc.Name}
	if err := r.setup(); err != nil {
		return nil, err
	}

	for i := range r.sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		st := &r.sc.Steps[i]
		want := tx.TesSUCCESS
		if st.Expect != "" {
			code, ok := tx.ResultFromString(st.Expect)
			if !ok {
				return nil, fmt.Errorf("step %d: unknown result %q", i+1, st.Expect)
			}
			want = code
		}

		op, err := r.buildOp(st)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.clock.now = r.clock.now.Add(st.Advance)

		applied, err := r.submit(st.Actor, op)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		sr := StepResult{Index: i + 1, Actor: st.Actor, Op: st.Op, Want: want, Got: applied.Result, Seq: applied.Seq}
		if !sr.Passed() {
			r.logger.Info("unexpected result", "step", sr.Index, "op", sr.Op, "want", want, "got", applied.Result)
		}
		res.Steps = append(res.Steps, sr)
	}

	ledger := token.NewLedger(r.store)
	for _, c := range r.sc.Checks {
		mint, ok := r.mints[c.Mint]
		if !ok {
			return nil, fmt.Errorf("check %s: %w mint %q", c.Account, ErrUnknownRef, c.Mint)
		}
		bal, err := ledger.Balance(mint, r.accounts[c.Account].id)
		if err != nil {
			return nil, fmt.Errorf("check %s %s: %w", c.Account, c.Mint, err)
		}
		res.Checks = append(res.Checks, CheckResult{Check: c, Got: bal})
	}

	pool, err := amm.Load(r.store)
	if err != nil {
		return nil, err
	}
	res.Pool = pool
	return res, nil
}

// Run executes sc on a fresh in-memory ledger. Steps with an unexpected
// result are reported in the Result; setup and argument errors are returned.
func Run(ctx context.Context, sc *Scenario, opts Options) (*Result, error) {
	r, err := newRunner(sc, opts)
	if err != nil {
		return nil, err
	}
	return r.run(ctx)
}

// RunFiles loads and runs every file concurrently, each on its own ledger.
// Results are returned in the order of paths.
func RunFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i, path := range paths {
		g.Go(func() error {
			sc, err := Load(path)
			if err != nil {
				return err
			}
			res, err := Run(ctx, sc, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			res.File = path
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
