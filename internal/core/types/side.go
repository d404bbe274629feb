package types

import (
	"fmt"
	"strings"
)

// Side is one of the two tokens of the protocol.
type Side uint8

const (
	SideDoom Side = iota
	SideLife
)

// Valid reports whether s names a known side.
func (s Side) Valid() bool {
	return s == SideDoom || s == SideLife
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideDoom {
		return SideLife
	}
	return SideDoom
}

func (s Side) String() string {
	switch s {
	case SideDoom:
		return "DOOM"
	case SideLife:
		return "LIFE"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// ParseSide parses "doom" or "life", case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DOOM":
		return SideDoom, nil
	case "LIFE":
		return SideLife, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Outcome is the final result of an event. The zero value is unset.
type Outcome uint8

const (
	OutcomeUnset Outcome = iota
	OutcomeDoom
	OutcomeLife
)

// OutcomeFor returns the outcome in which side s wins.
func OutcomeFor(s Side) Outcome {
	if s == SideDoom {
		return OutcomeDoom
	}
	return OutcomeLife
}

// Valid reports whether o is one of the three known states.
func (o Outcome) Valid() bool {
	return o <= OutcomeLife
}

// IsSet reports whether an outcome has been recorded.
func (o Outcome) IsSet() bool {
	return o == OutcomeDoom || o == OutcomeLife
}

// Side returns the winning side, or false when the outcome is unset.
func (o Outcome) Side() (Side, bool) {
	switch o {
	case OutcomeDoom:
		return SideDoom, true
	case OutcomeLife:
		return SideLife, true
	}
	return 0, false
}

func (o Outcome) String() string {
	switch o {
	case OutcomeUnset:
		return "UNSET"
	case OutcomeDoom:
		return "DOOM"
	case OutcomeLife:
		return "LIFE"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// ParseOutcome parses a side name into the matching set outcome.
func ParseOutcome(s string) (Outcome, error) {
	side, err := ParseSide(s)
	if err != nil {
		return OutcomeUnset, fmt.Errorf("unknown outcome %q", s)
	}
	return OutcomeFor(side), nil
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Direction is the direction of a swap.
type Direction uint8

const (
	DoomToLife Direction = iota
	LifeToDoom
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DoomToLife || d == LifeToDoom
}

// In returns the side paid into the pool.
func (d Direction) In() Side {
	if d == DoomToLife {
		return SideDoom
	}
	return SideLife
}

// Out returns the side paid out of the pool.
func (d Direction) Out() Side {
	return d.In().Opposite()
}

func (d Direction) String() string {
	switch d {
	case DoomToLife:
		return "DOOM->LIFE"
	case LifeToDoom:
		return "LIFE->DOOM"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection accepts "doom-to-life", "life-to-doom" and the arrow forms.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DOOM-TO-LIFE", "DOOM->LIFE", "DOOM_TO_LIFE":
		return DoomToLife, nil
	case "LIFE-TO-DOOM", "LIFE->DOOM", "LIFE_TO_DOOM":
		return LifeToDoom, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	v, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
