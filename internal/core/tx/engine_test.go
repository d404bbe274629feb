package tx

import (
	"errors"
	"testing"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterOp inserts or bumps an event-keyed counter and then returns want.
type counterOp struct {
	id      uint64
	invalid bool
	want    Result
}

func (o *counterOp) OpType() Type { return TypeCreateEvent }

func (o *counterOp) Validate() error {
	if o.invalid {
		return Errorf(TemINVALID_TITLE, "empty")
	}
	return nil
}

func (o *counterOp) Apply(ctx *ApplyContext) Result {
	k := keylet.Event(o.id)
	data, err := ctx.View.Read(k)
	if err != nil {
		return TefINTERNAL
	}
	if data == nil {
		if err := ctx.View.Insert(k, []byte{1}); err != nil {
			return TefINTERNAL
		}
	} else if err := ctx.View.Update(k, []byte{data[0] + 1}); err != nil {
		return TefINTERNAL
	}
	ctx.Emit(EventBet, "DOOM", 5)
	return o.want
}

type nopTokens struct{}

func (nopTokens) CreateMint(string, types.AccountID, Authorization) error { return nil }
func (nopTokens) Transfer(Authorization, types.AccountID, types.AccountID, types.AccountID, uint64) error {
	return nil
}

func (nopTokens) Mint(Authorization, types.AccountID, types.AccountID, uint64) error {
	return nil
}

func (nopTokens) Burn(Authorization, types.AccountID, types.AccountID, uint64) error {
	return nil
}

func (nopTokens) Balance(types.AccountID, types.AccountID) (uint64, error) {
	return 0, nil
}

type recorder struct {
	records []Record
}

func (r *recorder) OperationApplied(rec Record) { r.records = append(r.records, rec) }

type stubVerifier struct {
	caller types.AccountID
	err    error
}

func (v stubVerifier) Verify(Operation, []byte, []byte) (types.AccountID, error) {
	return v.caller, v.err
}

func newTestEngine(view LedgerView, obs *recorder) *Engine {
	return NewEngine(view, EngineConfig{
		Clock:     FixedClock(time.Unix(1_700_000_000, 0)),
		Tokens:    func(LedgerView) TokenLedger { return nopTokens{} },
		Observers: []Observer{obs},
	})
}

func TestEngineApply(t *testing.T) {
	caller := types.AccountID{7}

	t.Run("success commits and emits", func(t *testing.T) {
		view := newMockLedgerView()
		obs := &recorder{}
		engine := newTestEngine(view, obs)

		res := engine.Apply(&counterOp{id: 1, want: TesSUCCESS}, caller)
		require.Equal(t, TesSUCCESS, res.Result)
		assert.True(t, res.Applied)
		assert.Equal(t, uint64(1), res.Seq)
		require.Len(t, res.Events, 1)
		assert.Equal(t, []byte{1}, view.data[keylet.Event(1).Key])

		require.Len(t, obs.records, 1)
		assert.Equal(t, caller, obs.records[0].Caller)
		assert.Equal(t, int64(1_700_000_000), obs.records[0].At.Unix())
	})

	t.Run("failure discards the sandbox", func(t *testing.T) {
		view := newMockLedgerView()
		obs := &recorder{}
		engine := newTestEngine(view, obs)

		res := engine.Apply(&counterOp{id: 1, want: TecEVENT_ENDED}, caller)
		assert.Equal(t, TecEVENT_ENDED, res.Result)
		assert.False(t, res.Applied)
		assert.Empty(t, res.Events)
		assert.Empty(t, view.data)
		require.Len(t, obs.records, 1)
		assert.Equal(t, TecEVENT_ENDED, obs.records[0].Result)
	})

	t.Run("validation error keeps its code", func(t *testing.T) {
		view := newMockLedgerView()
		engine := newTestEngine(view, &recorder{})

		res := engine.Apply(&counterOp{id: 1, invalid: true}, caller)
		assert.Equal(t, TemINVALID_TITLE, res.Result)
		assert.Empty(t, view.data)
	})

	t.Run("sequence increments per submission", func(t *testing.T) {
		engine := newTestEngine(newMockLedgerView(), &recorder{})
		engine.Apply(&counterOp{id: 1, want: TesSUCCESS}, caller)
		engine.Apply(&counterOp{id: 1, want: TecEVENT_ENDED}, caller)
		res := engine.Apply(&counterOp{id: 1, want: TesSUCCESS}, caller)
		assert.Equal(t, uint64(3), res.Seq)
	})
}

func TestEngineRead(t *testing.T) {
	view := newMockLedgerView()
	engine := newTestEngine(view, &recorder{})
	engine.Apply(&counterOp{id: 1, want: TesSUCCESS}, types.AccountID{7})

	var got []byte
	require.NoError(t, engine.Read(func(v LedgerView) error {
		var err error
		got, err = v.Read(keylet.Event(1))
		return err
	}))
	assert.Equal(t, []byte{1}, got)

	boom := errors.New("boom")
	assert.ErrorIs(t, engine.Read(func(LedgerView) error { return boom }), boom)
}

func TestEngineSubmit(t *testing.T) {
	view := newMockLedgerView()
	engine := newTestEngine(view, &recorder{})

	res := engine.Submit(&counterOp{id: 1, want: TesSUCCESS}, nil, nil)
	assert.Equal(t, TefBAD_SIGNATURE, res.Result)

	engine.config.Verifier = stubVerifier{err: errors.New("bad sig")}
	res = engine.Submit(&counterOp{id: 1, want: TesSUCCESS}, nil, nil)
	assert.Equal(t, TefBAD_SIGNATURE, res.Result)

	engine.config.Verifier = stubVerifier{caller: types.AccountID{9}}
	res = engine.Submit(&counterOp{id: 1, want: TesSUCCESS}, nil, nil)
	assert.Equal(t, TesSUCCESS, res.Result)
}

func TestResultCodes(t *testing.T) {
	tests := []struct {
		result Result
		token  string
		tec    bool
		tef    bool
		tem    bool
	}{
		{TesSUCCESS, "tesSUCCESS", false, false, false},
		{TecSLIPPAGE_EXCEEDED, "tecSLIPPAGE_EXCEEDED", true, false, false},
		{TecLEGACY_SCHEMA, "tecLEGACY_SCHEMA", true, false, false},
		{TefUNAUTHORIZED_ORACLE, "tefUNAUTHORIZED_ORACLE", false, true, false},
		{TemINVALID_FEE_BPS, "temINVALID_FEE_BPS", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.token, tt.result.String())
			assert.Equal(t, tt.tec, tt.result.IsTec())
			assert.Equal(t, tt.tef, tt.result.IsTef())
			assert.Equal(t, tt.tem, tt.result.IsTem())
			assert.NotEqual(t, "Unknown result.", tt.result.Message())

			parsed, ok := ResultFromString(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.result, parsed)
		})
	}
}

func TestResultOf(t *testing.T) {
	assert.Equal(t, TesSUCCESS, ResultOf(nil))
	assert.Equal(t, TemMALFORMED, ResultOf(errors.New("plain")))
	assert.Equal(t, TemINVALID_SIDE, ResultOf(Errorf(TemINVALID_SIDE, "side %d", 3)))
}

func TestTokenResult(t *testing.T) {
	assert.Equal(t, TesSUCCESS, TokenResult(nil))
	assert.Equal(t, TecINSUFFICIENT_FUNDS, TokenResult(ErrInsufficientFunds))
	assert.Equal(t, TefUNAUTHORIZED, TokenResult(ErrUnauthorized))
	assert.Equal(t, TecNO_ENTRY, TokenResult(ErrUnknownMint))
	assert.Equal(t, TefINTERNAL, TokenResult(errors.New("disk")))
}

func TestTypeNames(t *testing.T) {
	for _, typ := range AllTypes() {
		got, ok := TypeFromName(typ.String())
		require.True(t, ok, typ.String())
		assert.Equal(t, typ, got)
	}
	_, ok := TypeFromName("payment")
	assert.False(t, ok)
}
