package rpc

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
)

// Commands accepted on the websocket.
const (
	CommandPing        = "ping"
	CommandSubscribe   = "subscribe"
	CommandUnsubscribe = "unsubscribe"
	CommandSubmit      = "submit"
	CommandQuote       = "quote"
)

// Request is one client message. Submit carries an operation name, its
// fields as a JSON object, and the hex public key and signature over the
// operation digest. Quote carries an amount and a direction.
type Request struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Command string          `json:"command"`

	Operation string          `json:"operation,omitempty"`
	Fields    json.RawMessage `json:"fields,omitempty"`
	PublicKey string          `json:"public_key,omitempty"`
	Signature string          `json:"signature,omitempty"`

	Amount    uint64 `json:"amount,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// Response answers a Request with the same id.
type Response struct {
	Type   string          `json:"type"`
	ID     json.RawMessage `json:"id,omitempty"`
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Result any             `json:"result,omitempty"`
}

// SubmitResult is the Result of a submit command.
type SubmitResult struct {
	Seq     uint64  `json:"seq"`
	Result  string  `json:"result"`
	Applied bool    `json:"applied"`
	Message string  `json:"message,omitempty"`
	Events  []Event `json:"events,omitempty"`
}

// QuoteResult is the Result of a quote command.
type QuoteResult struct {
	AmountIn  uint64 `json:"amount_in"`
	AmountOut uint64 `json:"amount_out"`
	Fee       uint64 `json:"fee"`
	Direction string `json:"direction"`
}

type Event struct {
	Kind   string `json:"kind"`
	Label  string `json:"label,omitempty"`
	Amount uint64 `json:"amount"`
}

// OperationMessage is pushed to subscribers after every operation,
// applied or not.
type OperationMessage struct {
	Type      string    `json:"type"`
	Seq       uint64    `json:"seq"`
	Operation string    `json:"operation"`
	Caller    string    `json:"caller"`
	Result    string    `json:"result"`
	Applied   bool      `json:"applied"`
	At        time.Time `json:"at"`
	Events    []Event   `json:"events,omitempty"`
}

func convertEvents(events []tx.Event) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = Event{Kind: e.Kind, Label: e.Label, Amount: e.Amount}
	}
	return out
}

// NewOperationMessage converts an engine record for subscribers.
func NewOperationMessage(rec tx.Record) OperationMessage {
	return OperationMessage{
		Type:      "operation",
		Seq:       rec.Seq,
		Operation: rec.Op.OpType().String(),
		Caller:    rec.Caller.String(),
		Result:    rec.Result.String(),
		Applied:   rec.Result == tx.TesSUCCESS,
		At:        rec.At.UTC(),
		Events:    convertEvents(rec.Events),
	}
}
