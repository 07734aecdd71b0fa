// Package table manages one sitting: a party of characters sharing a dice
// engine and an ambient lighting level.
package table

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rollforgrue/grue/internal/game/advantage"
	"github.com/rollforgrue/grue/internal/game/character"
	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/environment"
	"github.com/rollforgrue/grue/internal/game/sheet"
)

// Table is one table session. Every seated character rolls through the
// table's single dice engine, and vision-based checks read the table's
// current lighting.
//
// A Table is NOT safe for concurrent use: it is confined to one goroutine by
// construction. Hosts that need parallel tables create one Table — and
// therefore one generator — per goroutine.
type Table struct {
	id       string
	dice     *dice.Dice
	lighting environment.Lighting
	party    map[string]*character.PC
	order    []string // seating order, for stable listings
	logger   *zap.Logger
}

// New creates an empty table around the given dice engine, starting under
// full light.
//
// Precondition: d and logger must be non-nil.
func New(d *dice.Dice, logger *zap.Logger) *Table {
	return &Table{
		id:       uuid.New().String(),
		dice:     d,
		lighting: environment.Light,
		party:    make(map[string]*character.PC),
		logger:   logger,
	}
}

// ID returns the table's unique session identifier.
func (t *Table) ID() string { return t.id }

// AddSheet validates a sheet record, builds the character, and seats it at
// the table.
//
// Postcondition: Returns the seated PC, or an error if the sheet is invalid
// or a character with the same name is already seated.
func (t *Table) AddSheet(s *sheet.Sheet) (*character.PC, error) {
	pc, err := character.FromSheet(s, t.dice)
	if err != nil {
		return nil, err
	}
	if _, exists := t.party[pc.Name()]; exists {
		return nil, fmt.Errorf("table: character %q already seated", pc.Name())
	}
	t.party[pc.Name()] = pc
	t.order = append(t.order, pc.Name())
	t.logger.Info("character seated",
		zap.String("table_id", t.id),
		zap.String("name", pc.Name()),
		zap.Bool("darkvision", pc.HasDarkvision()),
	)
	return pc, nil
}

// PC returns the seated character with the given name.
//
// Postcondition: Returns (pc, true) if found, or (nil, false) otherwise.
func (t *Table) PC(name string) (*character.PC, bool) {
	pc, ok := t.party[name]
	return pc, ok
}

// Names returns the party names in seating order.
//
// Postcondition: Returns a copy; mutating it does not affect the table.
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Size returns the number of seated characters.
func (t *Table) Size() int { return len(t.party) }

// Lighting returns the table's current ambient lighting.
func (t *Table) Lighting() environment.Lighting { return t.lighting }

// SetLighting changes the table's ambient lighting for subsequent
// vision-based checks.
func (t *Table) SetLighting(l environment.Lighting) {
	t.lighting = l
	t.logger.Info("lighting changed",
		zap.String("table_id", t.id),
		zap.String("lighting", l.String()),
	)
}

// Check rolls a plain d20 check for the named character. Ambient lighting
// does not apply; use SightCheck for that.
func (t *Table) Check(name string, a character.Ability, p character.Proficiency, adv advantage.State) (int, error) {
	pc, ok := t.party[name]
	if !ok {
		return 0, fmt.Errorf("table: character %q not seated", name)
	}
	return pc.Check(a, p, adv)
}

// PerceptionCheck rolls the void-form Wisdom (Perception) check for the
// named character under the table's lighting. The roll value is discarded
// by contract.
func (t *Table) PerceptionCheck(name string, adv advantage.State) error {
	pc, ok := t.party[name]
	if !ok {
		return fmt.Errorf("table: character %q not seated", name)
	}
	return pc.PerceptionCheck(adv, t.lighting)
}

// SightCheck rolls a lighting-qualified check for the named character under
// the table's lighting and returns the result.
func (t *Table) SightCheck(name string, a character.Ability, p character.Proficiency, adv advantage.State) (int, error) {
	pc, ok := t.party[name]
	if !ok {
		return 0, fmt.Errorf("table: character %q not seated", name)
	}
	return pc.SightCheck(a, p, adv, t.lighting)
}

// Roll evaluates a parsed dice expression on the table's engine, outside any
// character's modifiers.
func (t *Table) Roll(expr dice.Expression) dice.Result {
	return t.dice.RollExpr(expr)
}
