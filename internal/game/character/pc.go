package character

import (
	"errors"
	"fmt"

	"github.com/rollforgrue/grue/internal/game/advantage"
	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/environment"
	"github.com/rollforgrue/grue/internal/game/sheet"
)

// Lookup errors. Sheet validation guarantees every required key is present,
// so hitting one of these at check time is an invariant violation rather
// than a recoverable runtime condition. The one legitimate path is querying
// an optional proficiency (stealth) a sheet chose not to carry.
var (
	ErrAbilityMissing     = errors.New("character: ability not on sheet")
	ErrProficiencyMissing = errors.New("character: proficiency not on sheet")
)

// PC is one character at the table, ready to roll checks.
//
// A PC does not own its Dice: the engine is shared with the table session
// and must outlive every PC referencing it. A PC is never mutated after
// construction except insofar as rolling consumes shared generator state.
type PC struct {
	name                  string
	abilities             map[Ability]int
	proficiencies         map[Proficiency]Level
	proficiencyAdvantages map[Proficiency]advantage.State
	proficiencyBonus      int
	darkvision            bool
	dice                  *dice.Dice
}

// FromSheet constructs a PC from a sheet record. The sheet is validated
// first, so no partially valid character is ever observable.
//
// Precondition: d must be non-nil.
// Postcondition: Returns a PC whose maps cover every key the sheet defines,
// or a non-nil error.
func FromSheet(s *sheet.Sheet, d *dice.Dice) (*PC, error) {
	if s == nil {
		return nil, errors.New("character: sheet must not be nil")
	}
	if d == nil {
		return nil, errors.New("character: dice must not be nil")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	abilities := make(map[Ability]int, len(s.Abilities))
	for name, score := range s.Abilities {
		a, err := ParseAbility(name)
		if err != nil {
			return nil, err
		}
		abilities[a] = score
	}

	proficiencies := make(map[Proficiency]Level, len(s.Proficiencies))
	for name, level := range s.Proficiencies {
		p, err := ParseProficiency(name)
		if err != nil {
			return nil, err
		}
		proficiencies[p] = Level(level)
	}

	proficiencyAdvantages := make(map[Proficiency]advantage.State, len(s.ProficiencyAdvantages))
	for name, value := range s.ProficiencyAdvantages {
		p, err := ParseProficiency(name)
		if err != nil {
			return nil, err
		}
		switch value {
		case -1:
			proficiencyAdvantages[p] = advantage.Disadvantage
		case 0:
			proficiencyAdvantages[p] = advantage.None
		case 1:
			proficiencyAdvantages[p] = advantage.Advantage
		default:
			return nil, fmt.Errorf("character: proficiency advantage for %s must be -1, 0, or 1, got %d", p, value)
		}
	}

	return &PC{
		name:                  s.Name,
		abilities:             abilities,
		proficiencies:         proficiencies,
		proficiencyAdvantages: proficiencyAdvantages,
		proficiencyBonus:      s.Bonus(),
		darkvision:            s.HasDarkvision(),
		dice:                  d,
	}, nil
}

// Name returns the character's display name.
func (pc *PC) Name() string { return pc.name }

// HasDarkvision reports whether the character can see in darkness.
func (pc *PC) HasDarkvision() bool { return pc.darkvision }

// Bonus returns the character's proficiency bonus.
func (pc *PC) Bonus() int { return pc.proficiencyBonus }

// AbilityScore returns the raw score for a.
func (pc *PC) AbilityScore(a Ability) (int, error) {
	score, ok := pc.abilities[a]
	if !ok {
		return 0, fmt.Errorf("%w: %s (%s)", ErrAbilityMissing, a, pc.name)
	}
	return score, nil
}

// AbilityModifier returns the D20-style modifier for a:
// (score - 10) / 2, integer division truncating toward zero, so
// scores 10 and 11 yield 0, 8 yields -1, 20 yields +5, and 1 yields -4.
func (pc *PC) AbilityModifier(a Ability) (int, error) {
	score, err := pc.AbilityScore(a)
	if err != nil {
		return 0, err
	}
	return (score - 10) / 2, nil
}

// ProficiencyLevel returns the character's training level in p.
func (pc *PC) ProficiencyLevel(p Proficiency) (Level, error) {
	level, ok := pc.proficiencies[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s (%s)", ErrProficiencyMissing, p, pc.name)
	}
	return level, nil
}

// ProficiencyModifier returns proficiency bonus × training level for p.
func (pc *PC) ProficiencyModifier(p Proficiency) (int, error) {
	level, err := pc.ProficiencyLevel(p)
	if err != nil {
		return 0, err
	}
	return pc.proficiencyBonus * int(level), nil
}

// IntrinsicAdvantage returns the qualifier the sheet grants the character on
// checks with p, or None when the sheet grants nothing.
func (pc *PC) IntrinsicAdvantage(p Proficiency) advantage.State {
	return pc.proficiencyAdvantages[p]
}

// Check rolls a d20 check: total modifier = proficiency modifier + ability
// modifier; the character's intrinsic qualifier for p is folded in ahead of
// the caller's qualifier. The die size is fixed at 20 for all checks.
//
// Postcondition: two draws were consumed from the shared generator.
func (pc *PC) Check(a Ability, p Proficiency, adv advantage.State) (int, error) {
	profMod, err := pc.ProficiencyModifier(p)
	if err != nil {
		return 0, err
	}
	abilityMod, err := pc.AbilityModifier(a)
	if err != nil {
		return 0, err
	}
	combined := advantage.Combine(pc.IntrinsicAdvantage(p), adv)
	return pc.dice.Roll(20, profMod+abilityMod, combined), nil
}

// PerceptionCheck rolls a Wisdom (Perception) check under the given
// lighting, folding the environment qualifier into the caller's one, and
// DISCARDS the roll value. The no-return contract is deliberate: callers
// that need the result use SightCheck or Check instead.
func (pc *PC) PerceptionCheck(adv advantage.State, lighting environment.Lighting) error {
	combined := advantage.Combine(adv, environment.LightingAdvantage(lighting, pc.darkvision))
	_, err := pc.Check(Wisdom, Perception, combined)
	return err
}

// SightCheck is the value-returning generalization of PerceptionCheck: any
// ability/proficiency check made under lighting conditions, with the
// environment qualifier folded into the caller's one.
func (pc *PC) SightCheck(a Ability, p Proficiency, adv advantage.State, lighting environment.Lighting) (int, error) {
	combined := advantage.Combine(adv, environment.LightingAdvantage(lighting, pc.darkvision))
	return pc.Check(a, p, combined)
}
