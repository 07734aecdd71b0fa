// Package character defines the player-character model: ability and
// proficiency enumerations, the PC aggregate, and its check operations.
package character

import (
	"fmt"
	"strings"
)

// Ability is one of the six ability-score categories.
type Ability int

const (
	Strength Ability = iota
	Dexterity
	Constitution
	Intelligence
	Wisdom
	Charisma
)

// String returns the lowercase ability name.
func (a Ability) String() string {
	switch a {
	case Strength:
		return "strength"
	case Dexterity:
		return "dexterity"
	case Constitution:
		return "constitution"
	case Intelligence:
		return "intelligence"
	case Wisdom:
		return "wisdom"
	case Charisma:
		return "charisma"
	default:
		return "unknown"
	}
}

// ParseAbility converts a textual ability name into an Ability. Matching is
// case-insensitive and requires the full name.
//
// Postcondition: Returns a valid Ability or a descriptive error.
func ParseAbility(s string) (Ability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strength":
		return Strength, nil
	case "dexterity":
		return Dexterity, nil
	case "constitution":
		return Constitution, nil
	case "intelligence":
		return Intelligence, nil
	case "wisdom":
		return Wisdom, nil
	case "charisma":
		return Charisma, nil
	default:
		return Strength, fmt.Errorf("character: unknown ability %q", s)
	}
}
