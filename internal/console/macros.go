package console

import (
	"fmt"

	"github.com/rollforgrue/grue/internal/game/advantage"
	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/environment"
	"github.com/rollforgrue/grue/internal/game/table"
	"github.com/rollforgrue/grue/internal/scripting"
)

// WireMacros points mgr's grue callbacks at tbl, so macros act on the same
// party, lighting, and generator the console commands do. Arguments cross
// the scripting boundary as plain strings; parse failures surface as Lua
// errors inside the offending macro. grue.sight_check applies the same sight
// policy as the spot command.
func WireMacros(mgr *scripting.Manager, tbl *table.Table) {
	mgr.Roll = func(sides, modifier int) (int, error) {
		if sides < 2 {
			return 0, fmt.Errorf("console: dice must have at least 2 sides, got %d", sides)
		}
		raw := fmt.Sprintf("1d%d", sides)
		if modifier != 0 {
			raw = fmt.Sprintf("1d%d%+d", sides, modifier)
		}
		res := tbl.Roll(dice.Expression{Raw: raw, Count: 1, Sides: sides, Modifier: modifier})
		return res.Total(), nil
	}

	mgr.Check = func(name, ability, proficiency, qualifier string) (int, error) {
		a, p, adv, err := parseCheckArgs(ability, proficiency, qualifier)
		if err != nil {
			return 0, err
		}
		return tbl.Check(name, a, p, adv)
	}

	mgr.SightCheck = func(name, ability, proficiency, qualifier string) (int, error) {
		a, p, adv, err := parseCheckArgs(ability, proficiency, qualifier)
		if err != nil {
			return 0, err
		}
		if !p.SightAffected() {
			return 0, fmt.Errorf("console: %s is not a sight-based proficiency", p)
		}
		return tbl.SightCheck(name, a, p, adv)
	}

	mgr.Perception = func(name, qualifier string) error {
		adv, err := advantage.Parse(qualifier)
		if err != nil {
			return err
		}
		return tbl.PerceptionCheck(name, adv)
	}

	mgr.Lighting = func() string {
		return tbl.Lighting().String()
	}

	mgr.SetLighting = func(level string) error {
		l, err := environment.ParseLighting(level)
		if err != nil {
			return err
		}
		tbl.SetLighting(l)
		return nil
	}

	mgr.Party = tbl.Names
}
