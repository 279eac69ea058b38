// Package ledger holds the per-team counters mutated by admin commands.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// NaipeCount is the number of suits every team tracks
	NaipeCount = 22

	// InitialSoldiers is the soldier count of a freshly created team
	InitialSoldiers = 10000
)

// Op is the direction of a counter adjustment
type Op int

const (
	Add Op = iota
	Remove
)

func (o Op) String() string {
	if o == Remove {
		return "remove"
	}
	return "add"
}

// ParseOp accepts "add" and "remove"
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(s) {
	case "add":
		return Add, nil
	case "remove":
		return Remove, nil
	}
	return Add, fmt.Errorf("unknown operation: %q", s)
}

// Kind selects one counter of a naipe triple
type Kind int

const (
	Rock Kind = iota
	Paper
	Scissors
)

// Kinds returns the three counter kinds in display order
func Kinds() []Kind {
	return []Kind{Rock, Paper, Scissors}
}

func (k Kind) String() string {
	switch k {
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	default:
		return "rock"
	}
}

// Label is the name the decree and the team summary use for the kind
func (k Kind) Label() string {
	switch k {
	case Paper:
		return "Papel"
	case Scissors:
		return "Tesoura"
	default:
		return "Pedra"
	}
}

// ParseKind accepts the English names and the Portuguese ones used in the decree
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "rock", "pedra":
		return Rock, nil
	case "paper", "papel":
		return Paper, nil
	case "scissors", "tesoura":
		return Scissors, nil
	}
	return Rock, fmt.Errorf("unknown mission kind: %q", s)
}

// Naipe is a triple of mission counters. Counters never go below zero.
type Naipe struct {
	Rock     uint32 `json:"rock"`
	Paper    uint32 `json:"paper"`
	Scissors uint32 `json:"scissors"`
}

// Get returns the counter of the given kind
func (n Naipe) Get(k Kind) uint32 {
	switch k {
	case Paper:
		return n.Paper
	case Scissors:
		return n.Scissors
	default:
		return n.Rock
	}
}

func (n *Naipe) counter(k Kind) *uint32 {
	switch k {
	case Paper:
		return &n.Paper
	case Scissors:
		return &n.Scissors
	default:
		return &n.Rock
	}
}

// Bump moves the selected counter by one, clamping at zero
func (n *Naipe) Bump(k Kind, op Op) uint32 {
	c := n.counter(k)
	if op == Add {
		*c++
	} else if *c > 0 {
		*c--
	}
	return *c
}

// Ledger is the state of one team
type Ledger struct {
	Soldiers int64   `json:"soldiers"`
	Naipes   []Naipe `json:"naipes"`
}

// New returns the ledger a team starts with
func New() Ledger {
	return Ledger{
		Soldiers: InitialSoldiers,
		Naipes:   make([]Naipe, NaipeCount),
	}
}

// Normalize pads a ledger loaded from an older or hand-edited document to NaipeCount triples
func (l *Ledger) Normalize() {
	if len(l.Naipes) < NaipeCount {
		l.Naipes = append(l.Naipes, make([]Naipe, NaipeCount-len(l.Naipes))...)
	}
}

// ErrSoldiersOverflow is returned when an adjustment would leave the int64 range
var ErrSoldiersOverflow = errors.New("soldier count out of range")

// AdjustSoldiers applies a signed change to the soldier count. The total is
// not clamped, but a change that would overflow is rejected and leaves the
// ledger untouched.
func (l *Ledger) AdjustSoldiers(op Op, amount int64) (int64, error) {
	delta := amount
	if op == Remove {
		if amount == math.MinInt64 {
			return l.Soldiers, ErrSoldiersOverflow
		}
		delta = -amount
	}

	if (delta > 0 && l.Soldiers > math.MaxInt64-delta) || (delta < 0 && l.Soldiers < math.MinInt64-delta) {
		return l.Soldiers, ErrSoldiersOverflow
	}
	l.Soldiers += delta
	return l.Soldiers, nil
}

// RangeError reports a naipe index outside 1..NaipeCount
type RangeError struct {
	Index int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("naipe %d out of range 1..%d", e.Index, NaipeCount)
}

// ValidIndex reports whether index addresses a naipe (1-based)
func ValidIndex(index int) bool {
	return index >= 1 && index <= NaipeCount
}

// BumpNaipe moves one counter of the naipe at the 1-based index by one.
func (l *Ledger) BumpNaipe(index int, k Kind, op Op) (uint32, error) {
	if !ValidIndex(index) {
		return 0, &RangeError{Index: index}
	}
	l.Normalize()
	return l.Naipes[index-1].Bump(k, op), nil
}
