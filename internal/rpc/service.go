package rpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/amm"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// BadRequestError reports a request that could not be decoded.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string { return e.Err.Error() }
func (e *BadRequestError) Unwrap() error { return e.Err }

func badRequest(err error) error {
	return &BadRequestError{Err: err}
}

// IsBadRequest reports whether err came from an undecodable request.
func IsBadRequest(err error) bool {
	var br *BadRequestError
	return errors.As(err, &br)
}

// Service runs the submit and quote commands against an engine. Every
// transport shares it.
type Service struct {
	engine *tx.Engine
}

func NewService(engine *tx.Engine) *Service {
	return &Service{engine: engine}
}

// Submit decodes, verifies and applies a signed operation. A decoded
// operation always gets a SubmitResult, even when it is not applied.
func (s *Service) Submit(name string, fields json.RawMessage, publicKey, signature string) (*SubmitResult, error) {
	op, err := tx.NewFromName(name)
	if err != nil {
		return nil, badRequest(fmt.Errorf("%w: %q", err, name))
	}
	if len(fields) > 0 {
		dec := json.NewDecoder(bytes.NewReader(fields))
		dec.DisallowUnknownFields()
		if err := dec.Decode(op); err != nil {
			return nil, badRequest(fmt.Errorf("decode %s fields: %w", name, err))
		}
	}
	pub, err := hex.DecodeString(publicKey)
	if err != nil {
		return nil, badRequest(fmt.Errorf("public_key: %w", err))
	}
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return nil, badRequest(fmt.Errorf("signature: %w", err))
	}

	res := s.engine.Submit(op, pub, sig)
	return &SubmitResult{
		Seq:     res.Seq,
		Result:  res.Result.String(),
		Applied: res.Applied,
		Message: res.Message,
		Events:  convertEvents(res.Events),
	}, nil
}

// Quote prices a swap of amount in direction against the committed pool.
// A pool without liquidity quotes zero; a missing pool is tx.ErrEntryNotFound.
func (s *Service) Quote(amount uint64, direction string) (*QuoteResult, error) {
	dir, err := types.ParseDirection(direction)
	if err != nil {
		return nil, badRequest(err)
	}
	var out uint64
	err = s.engine.Read(func(view tx.LedgerView) error {
		var err error
		out, err = amm.Quote(view, amount, dir)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		AmountIn:  amount,
		AmountOut: out,
		Fee:       amm.SwapFee(amount),
		Direction: dir.String(),
	}, nil
}
