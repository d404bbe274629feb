// Package prediction implements the pari-mutuel prediction market: event
// lifecycle, bets, claims and refunds.
package prediction

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Field bounds
const (
	MaxTitleLen       = 128
	MaxDescriptionLen = 512

	// bpsDenominator is 100% in basis points.
	bpsDenominator = 10000
)

// ErrOutcomeMismatch is returned when a decoded event has an outcome that
// disagrees with its status.
var ErrOutcomeMismatch = errors.New("event outcome does not match status")

// Status is the lifecycle state of an event. Resolved and Cancelled are
// terminal.
type Status uint8

const (
	StatusActive Status = iota
	StatusResolved
	StatusCancelled
)

func (s Status) Valid() bool {
	return s <= StatusCancelled
}

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusResolved:
		return "Resolved"
	case StatusCancelled:
		return "Cancelled"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "active":
		*s = StatusActive
	case "resolved":
		*s = StatusResolved
	case "cancelled", "canceled":
		*s = StatusCancelled
	default:
		return fmt.Errorf("unknown event status %q", text)
	}
	return nil
}

// Event is a binary prediction on which users stake DOOM or LIFE.
type Event struct {
	ID          uint64
	Creator     types.AccountID
	Title       string
	Description string

	// Deadline closes betting; ResolutionDeadline bounds resolution.
	Deadline           int64
	ResolutionDeadline int64

	Status  Status
	Outcome types.Outcome

	DoomPool     uint64
	LifePool     uint64
	TotalBettors uint64

	CreatedAt  int64
	ResolvedAt int64 // 0 until resolved
}

// Key returns the ledger key of event id.
func Key(id uint64) keylet.Keylet {
	return keylet.Event(id)
}

// Vault returns the custody account holding the stakes of side s.
func Vault(id uint64, s types.Side) types.AccountID {
	return keylet.SideVault(keylet.Event(id), s)
}

func vaultCapability(id uint64, s types.Side) token.Capability {
	return token.VaultCapability(keylet.Event(id), s)
}

func (e *Event) Encode() []byte {
	size := entry.DiscriminatorSize + 8 + types.AccountIDSize +
		2 + len(e.Title) + 2 + len(e.Description) + 2*8 + 2 + 3*8 + 2*8
	return entry.NewEncoder(entry.TypeEvent, size).
		Uint64(e.ID).
		Account(e.Creator).
		String(e.Title).
		String(e.Description).
		Int64(e.Deadline).
		Int64(e.ResolutionDeadline).
		Uint8(uint8(e.Status)).
		Uint8(uint8(e.Outcome)).
		Uint64(e.DoomPool).
		Uint64(e.LifePool).
		Uint64(e.TotalBettors).
		Int64(e.CreatedAt).
		Int64(e.ResolvedAt).
		Bytes()
}

// DecodeEvent reads an event record. It rejects a Resolved event without an
// outcome and an unresolved event carrying one.
func DecodeEvent(data []byte) (*Event, error) {
	d, err := entry.NewDecoder(data, entry.TypeEvent)
	if err != nil {
		return nil, err
	}
	e := &Event{
		ID:                 d.Uint64(),
		Creator:            d.Account(),
		Title:              d.String(MaxTitleLen),
		Description:        d.String(MaxDescriptionLen),
		Deadline:           d.Int64(),
		ResolutionDeadline: d.Int64(),
		Status:             Status(d.Uint8()),
		Outcome:            types.Outcome(d.Uint8()),
		DoomPool:           d.Uint64(),
		LifePool:           d.Uint64(),
		TotalBettors:       d.Uint64(),
		CreatedAt:          d.Int64(),
		ResolvedAt:         d.Int64(),
	}
	switch {
	case !e.Status.Valid():
		d.Fail(fmt.Errorf("unknown event status %d", e.Status))
	case !e.Outcome.Valid():
		d.Fail(fmt.Errorf("unknown outcome %d", e.Outcome))
	case (e.Status == StatusResolved) != e.Outcome.IsSet():
		d.Fail(fmt.Errorf("%w: %s with outcome %s", ErrOutcomeMismatch, e.Status, e.Outcome))
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("event %d: %w", e.ID, err)
	}
	return e, nil
}

// IsBettingOpen reports whether bets are accepted at now.
func (e *Event) IsBettingOpen(now int64) bool {
	return e.Status == StatusActive && now < e.Deadline
}

// CanResolve reports whether the oracle may resolve the event at now.
func (e *Event) CanResolve(now int64) bool {
	return e.Status == StatusActive && now >= e.Deadline && now <= e.ResolutionDeadline
}

// Pool returns the amount staked on side s.
func (e *Event) Pool(s types.Side) uint64 {
	if s == types.SideDoom {
		return e.DoomPool
	}
	return e.LifePool
}

func (e *Event) addStake(s types.Side, amount uint64) error {
	pool, err := fixedpoint.Add(e.Pool(s), amount)
	if err != nil {
		return err
	}
	if s == types.SideDoom {
		e.DoomPool = pool
	} else {
		e.LifePool = pool
	}
	return nil
}

// TotalPool returns the stakes of both sides, saturating at the u64 maximum.
func (e *Event) TotalPool() uint64 {
	return fixedpoint.SaturatingAdd(e.DoomPool, e.LifePool)
}

// Odds returns the implied probability of each side in basis points. An
// event without stakes is 5000/5000.
func (e *Event) Odds() (doomBps, lifeBps uint64) {
	total := e.TotalPool()
	if total == 0 {
		return bpsDenominator / 2, bpsDenominator / 2
	}
	// pool <= total so neither division can overflow
	doomBps, _ = fixedpoint.MulDiv(e.DoomPool, bpsDenominator, total)
	lifeBps, _ = fixedpoint.MulDiv(e.LifePool, bpsDenominator, total)
	return doomBps, lifeBps
}

// WinningSide returns the side that won, or false if the event is not
// resolved.
func (e *Event) WinningSide() (types.Side, bool) {
	if e.Status != StatusResolved {
		return 0, false
	}
	return e.Outcome.Side()
}

// LoadEvent reads event id, returning nil if it does not exist.
func LoadEvent(view tx.LedgerView, id uint64) (*Event, error) {
	data, err := view.Read(keylet.Event(id))
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeEvent(data)
}

// ListEvents returns every event in the view ordered by id.
func ListEvents(view tx.LedgerView) ([]*Event, error) {
	var events []*Event
	var decodeErr error
	err := view.ForEach(func(_ [32]byte, data []byte) bool {
		if t, err := entry.TypeOf(data); err != nil || t != entry.TypeEvent {
			return true
		}
		ev, err := DecodeEvent(data)
		if err != nil {
			decodeErr = err
			return false
		}
		events = append(events, ev)
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, decodeErr
}

func loadEventForApply(ctx *tx.ApplyContext, id uint64) (*Event, tx.Result) {
	ev, err := LoadEvent(ctx.View, id)
	if err != nil {
		ctx.Logger.Error("load event", "event", id, "error", err)
		return nil, tx.TefINTERNAL
	}
	if ev == nil {
		return nil, tx.TecNO_ENTRY
	}
	return ev, tx.TesSUCCESS
}

func saveEvent(view tx.LedgerView, ev *Event) error {
	return view.Update(keylet.Event(ev.ID), ev.Encode())
}
