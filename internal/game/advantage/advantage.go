// Package advantage defines the five-state roll qualifier used by the grue
// check engine and the algebra for folding two qualifiers into one.
package advantage

import (
	"fmt"
	"strings"
)

// State is a roll qualifier. The zero value is None, the neutral element of
// Combine.
type State int

const (
	// None applies no qualifier; the first of the two draws stands.
	None State = iota
	// Canceled marks advantage and disadvantage as having neutralized each
	// other; it resolves like None but absorbs further qualifiers.
	Canceled
	// Advantage keeps the higher of the two draws.
	Advantage
	// Disadvantage keeps the lower of the two draws.
	Disadvantage
	// Fail forces the roll to resolve to 0 without consulting the draws.
	Fail
)

// String returns the lowercase label for the state.
func (s State) String() string {
	switch s {
	case None:
		return "none"
	case Canceled:
		return "canceled"
	case Advantage:
		return "advantage"
	case Disadvantage:
		return "disadvantage"
	case Fail:
		return "fail"
	default:
		return "unknown"
	}
}

// Parse converts a textual qualifier into a State. Matching is
// case-insensitive and accepts the short forms "adv" and "dis" alongside the
// full names.
//
// Postcondition: Returns a valid State or a descriptive error.
func Parse(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "canceled", "cancelled":
		return Canceled, nil
	case "advantage", "adv":
		return Advantage, nil
	case "disadvantage", "dis":
		return Disadvantage, nil
	case "fail":
		return Fail, nil
	default:
		return None, fmt.Errorf("advantage: unknown state %q", s)
	}
}

// Combine folds two independently determined qualifiers into the single
// effective qualifier for one roll. The left operand is the accumulator:
// None yields the right operand, Canceled and Fail absorb everything to
// their right, and opposing qualifiers neutralize to Canceled.
//
// The full table (rows are a, columns are b):
//
//	             None          Canceled  Advantage  Disadvantage  Fail
//	None         None          Canceled  Advantage  Disadvantage  Fail
//	Canceled     Canceled      Canceled  Canceled   Canceled      Canceled
//	Advantage    Advantage     Canceled  Advantage  Canceled      Fail
//	Disadvantage Disadvantage  Canceled  Canceled   Disadvantage  Fail
//	Fail         Fail          Fail      Fail       Fail          Fail
//
// Precondition: a and b are valid States. Panics otherwise.
// Postcondition: Returns one of the five States per the table above.
func Combine(a, b State) State {
	switch a {
	case None:
		return b
	case Canceled:
		return Canceled
	case Advantage:
		switch b {
		case None, Advantage:
			return Advantage
		case Canceled, Disadvantage:
			return Canceled
		case Fail:
			return Fail
		}
	case Disadvantage:
		switch b {
		case None, Disadvantage:
			return Disadvantage
		case Canceled, Advantage:
			return Canceled
		case Fail:
			return Fail
		}
	case Fail:
		return Fail
	}
	panic(fmt.Sprintf("advantage: Combine called with invalid state pair (%d, %d)", a, b))
}
