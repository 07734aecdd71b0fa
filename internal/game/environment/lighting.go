// Package environment maps ambient table conditions to roll qualifiers for
// vision-based checks.
package environment

import (
	"fmt"
	"strings"

	"github.com/rollforgrue/grue/internal/game/advantage"
)

// Lighting is the ambient visibility level at the table.
type Lighting int

const (
	Dark Lighting = iota
	Dim
	Light
)

// String returns the lowercase label for the lighting level.
func (l Lighting) String() string {
	switch l {
	case Dark:
		return "dark"
	case Dim:
		return "dim"
	case Light:
		return "light"
	default:
		return "unknown"
	}
}

// ParseLighting converts a textual lighting level into a Lighting.
// Matching is case-insensitive.
//
// Postcondition: Returns a valid Lighting or a descriptive error.
func ParseLighting(s string) (Lighting, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dark":
		return Dark, nil
	case "dim":
		return Dim, nil
	case "light":
		return Light, nil
	default:
		return Dark, fmt.Errorf("environment: unknown lighting %q", s)
	}
}

// LightingAdvantage derives the qualifier a vision-based check suffers under
// the given lighting, for a character with or without darkvision:
//
//	Dark  + darkvision → Disadvantage; Dark  without → Fail
//	Dim   + darkvision → None;         Dim   without → Disadvantage
//	Light              → None either way
//
// Pure function, no state.
//
// Precondition: l is a valid Lighting. Panics otherwise.
func LightingAdvantage(l Lighting, darkvision bool) advantage.State {
	switch l {
	case Dark:
		if darkvision {
			return advantage.Disadvantage
		}
		return advantage.Fail
	case Dim:
		if darkvision {
			return advantage.None
		}
		return advantage.Disadvantage
	case Light:
		return advantage.None
	default:
		panic(fmt.Sprintf("environment: LightingAdvantage called with invalid lighting %d", l))
	}
}
