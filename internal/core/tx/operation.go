package tx

import (
	"errors"
	"fmt"
)

// Operation is the interface every ledger operation implements.
type Operation interface {
	// OpType returns the operation type
	OpType() Type

	// Validate performs stateless checks. A non-nil error carries a tem code.
	Validate() error

	// Apply runs the operation against the sandboxed view in ctx.
	Apply(ctx *ApplyContext) Result
}

// ResultError is a validation failure that carries its result code.
type ResultError struct {
	Result Result
	Msg    string
}

func (e *ResultError) Error() string {
	if e.Msg == "" {
		return e.Result.String()
	}
	return e.Result.String() + ": " + e.Msg
}

// Errorf returns a *ResultError for r with a formatted message.
func Errorf(r Result, format string, args ...any) error {
	return &ResultError{Result: r, Msg: fmt.Sprintf(format, args...)}
}

// ResultOf extracts the result code from a validation error.
// Errors that carry no code map to temMALFORMED.
func ResultOf(err error) Result {
	if err == nil {
		return TesSUCCESS
	}
	var re *ResultError
	if errors.As(err, &re) {
		return re.Result
	}
	return TemMALFORMED
}
