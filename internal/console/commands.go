// Package console provides the interactive table prompt: a line parser, a
// command registry, and the built-in commands for running checks.
package console

import (
	"fmt"
	"strings"

	"github.com/rollforgrue/grue/internal/game/advantage"
	"github.com/rollforgrue/grue/internal/game/character"
	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/environment"
)

// Categories for organizing commands.
const (
	CategoryParty  = "party"
	CategoryChecks = "checks"
	CategoryTable  = "table"
	CategorySystem = "system"
)

// categoryOrder fixes the help listing order.
var categoryOrder = []string{CategoryParty, CategoryChecks, CategoryTable, CategorySystem}

// Command defines one console command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed by the help command.
	Help string
	// Category groups the command for help output.
	Category string
	// Run executes the command and returns the text to print.
	Run func(c *Console, in Input) string
}

// BuiltinCommands returns all built-in console commands.
func BuiltinCommands() []Command {
	return []Command{
		// Party commands
		{Name: "party", Aliases: []string{"who"}, Help: "List seated characters", Category: CategoryParty, Run: handleParty},
		{Name: "sheet", Aliases: []string{"sh"}, Help: "Show a character's scores and modifiers (sheet <name>)", Category: CategoryParty, Run: handleSheet},

		// Check commands
		{Name: "check", Aliases: []string{"c"}, Help: "Roll a check (check <name> <ability> <proficiency> [adv|dis])", Category: CategoryChecks, Run: handleCheck},
		{Name: "perception", Aliases: []string{"per"}, Help: "Roll a perception check for its log trail (perception <name> [adv|dis])", Category: CategoryChecks, Run: handlePerception},
		{Name: "spot", Aliases: nil, Help: "Roll a sight-based check under current lighting (spot <name> <ability> <proficiency> [adv|dis])", Category: CategoryChecks, Run: handleSpot},
		{Name: "roll", Aliases: []string{"r"}, Help: "Roll a dice expression (roll 2d6+3)", Category: CategoryChecks, Run: handleRoll},

		// Table commands
		{Name: "light", Aliases: []string{"lighting"}, Help: "Show or set ambient lighting (light [dark|dim|light])", Category: CategoryTable, Run: handleLight},

		// System commands
		{Name: "macro", Aliases: []string{"m"}, Help: "Invoke a loaded macro (macro <name> [args...])", Category: CategorySystem, Run: handleMacro},
		{Name: "macros", Aliases: nil, Help: "List loaded macros", Category: CategorySystem, Run: handleMacros},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Run: handleHelp},
		{Name: "quit", Aliases: []string{"exit"}, Help: "Leave the table", Category: CategorySystem, Run: handleQuit},
	}
}

// abilityOrder and proficiencyOrder fix the sheet display order.
var (
	abilityOrder = []character.Ability{
		character.Strength, character.Dexterity, character.Constitution,
		character.Intelligence, character.Wisdom, character.Charisma,
	}
	proficiencyOrder = []character.Proficiency{
		character.Insight, character.Investigation, character.Perception, character.Stealth,
	}
)

func handleParty(c *Console, _ Input) string {
	names := c.table.Names()
	if len(names) == 0 {
		return "Nobody is seated."
	}
	return fmt.Sprintf("Seated (%d): %s", len(names), strings.Join(names, ", "))
}

func handleSheet(c *Console, in Input) string {
	if len(in.Args) != 1 {
		return "Usage: sheet <name>"
	}
	pc, ok := c.table.PC(in.Args[0])
	if !ok {
		return fmt.Sprintf("%s: not seated", in.Args[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (proficiency bonus %+d, darkvision %s)\n",
		pc.Name(), pc.Bonus(), yesNo(pc.HasDarkvision()))
	for _, a := range abilityOrder {
		score, err := pc.AbilityScore(a)
		if err != nil {
			continue
		}
		mod, _ := pc.AbilityModifier(a)
		fmt.Fprintf(&b, "  %-13s %3d (%+d)\n", a, score, mod)
	}
	for _, p := range proficiencyOrder {
		level, err := pc.ProficiencyLevel(p)
		if err != nil {
			// Optional proficiencies a sheet chose not to carry are omitted.
			continue
		}
		mod, _ := pc.ProficiencyModifier(p)
		fmt.Fprintf(&b, "  %-13s lvl %d (%+d)", p, level, mod)
		if adv := pc.IntrinsicAdvantage(p); adv != advantage.None {
			fmt.Fprintf(&b, ", %s", adv)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func handleCheck(c *Console, in Input) string {
	if len(in.Args) < 3 || len(in.Args) > 4 {
		return "Usage: check <name> <ability> <proficiency> [adv|dis]"
	}
	name := in.Args[0]
	a, p, adv, err := parseCheckArgs(in.Args[1], in.Args[2], optionalArg(in.Args, 3))
	if err != nil {
		return err.Error()
	}
	result, err := c.table.Check(name, a, p, adv)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s checks %s (%s): %d", name, a, p, result)
}

func handlePerception(c *Console, in Input) string {
	if len(in.Args) < 1 || len(in.Args) > 2 {
		return "Usage: perception <name> [adv|dis]"
	}
	name := in.Args[0]
	adv, err := advantage.Parse(optionalArg(in.Args, 1))
	if err != nil {
		return err.Error()
	}
	if err := c.table.PerceptionCheck(name, adv); err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s makes a perception check.", name)
}

func handleSpot(c *Console, in Input) string {
	if len(in.Args) < 3 || len(in.Args) > 4 {
		return "Usage: spot <name> <ability> <proficiency> [adv|dis]"
	}
	name := in.Args[0]
	a, p, adv, err := parseCheckArgs(in.Args[1], in.Args[2], optionalArg(in.Args, 3))
	if err != nil {
		return err.Error()
	}
	if !p.SightAffected() {
		return fmt.Sprintf("%s is not a sight-based proficiency; use check", p)
	}
	result, err := c.table.SightCheck(name, a, p, adv)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s spots with %s (%s): %d", name, a, p, result)
}

func handleRoll(c *Console, in Input) string {
	if len(in.Args) == 0 {
		return "Usage: roll <expression> (e.g. 2d6+3)"
	}
	// Rejoin so "roll 2d6 + 3" parses the same as "roll 2d6+3".
	expr, err := dice.ParseExpression(strings.Join(in.Args, ""))
	if err != nil {
		return err.Error()
	}
	return c.table.Roll(expr).String()
}

func handleLight(c *Console, in Input) string {
	if len(in.Args) == 0 {
		return fmt.Sprintf("Lighting: %s", c.table.Lighting())
	}
	l, err := environment.ParseLighting(in.Args[0])
	if err != nil {
		return err.Error()
	}
	c.table.SetLighting(l)
	return fmt.Sprintf("Lighting is now %s.", l)
}

func handleMacro(c *Console, in Input) string {
	if c.macros == nil {
		return "Macros are disabled."
	}
	if len(in.Args) == 0 {
		return "Usage: macro <name> [args...]"
	}
	out, err := c.macros.Call(in.Args[0], in.Args[1:]...)
	if err != nil {
		return err.Error()
	}
	if out == "" {
		return "ok"
	}
	return out
}

func handleMacros(c *Console, _ Input) string {
	if c.macros == nil {
		return "Macros are disabled."
	}
	names := c.macros.Names()
	if len(names) == 0 {
		return "No macros are loaded."
	}
	return "Macros: " + strings.Join(names, ", ")
}

func handleHelp(c *Console, _ Input) string {
	byCategory := c.reg.CommandsByCategory()
	var b strings.Builder
	for _, cat := range categoryOrder {
		cmds := byCategory[cat]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s:\n", cat)
		for _, cmd := range cmds {
			if len(cmd.Aliases) > 0 {
				fmt.Fprintf(&b, "  %s (%s) - %s\n", cmd.Name, strings.Join(cmd.Aliases, ", "), cmd.Help)
			} else {
				fmt.Fprintf(&b, "  %s - %s\n", cmd.Name, cmd.Help)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func handleQuit(c *Console, _ Input) string {
	c.Stop()
	return "Goodbye."
}

// parseCheckArgs parses the textual ability/proficiency/qualifier triple
// shared by check, spot, and the macro callbacks. An empty qualifier means
// None.
func parseCheckArgs(ability, proficiency, qualifier string) (character.Ability, character.Proficiency, advantage.State, error) {
	a, err := character.ParseAbility(ability)
	if err != nil {
		return 0, 0, advantage.None, err
	}
	p, err := character.ParseProficiency(proficiency)
	if err != nil {
		return 0, 0, advantage.None, err
	}
	adv, err := advantage.Parse(qualifier)
	if err != nil {
		return 0, 0, advantage.None, err
	}
	return a, p, adv, nil
}

func optionalArg(args []string, idx int) string {
	if len(args) <= idx {
		return ""
	}
	return args[idx]
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
