package console

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/environment"
	"github.com/rollforgrue/grue/internal/game/sheet"
	"github.com/rollforgrue/grue/internal/game/table"
	"github.com/rollforgrue/grue/internal/scripting"
)

// scriptedSource returns a fixed sequence of draw values with no bounds
// clamping, cycling when exhausted.
type scriptedSource struct {
	values []int
	calls  int
}

func (s *scriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("scriptedSource: n <= 0")
	}
	v := s.values[s.calls%len(s.values)]
	s.calls++
	return v
}

// testSheet is wisdom 14, perception level 1, bonus 2 (check modifier +4),
// darkvision off, intrinsic advantage on investigation, and no stealth.
func testSheet(name string) *sheet.Sheet {
	bonus := 2
	dark := false
	return &sheet.Sheet{
		Name: name,
		Abilities: map[string]int{
			"strength": 16, "dexterity": 9, "constitution": 15,
			"intelligence": 8, "wisdom": 14, "charisma": 11,
		},
		Proficiencies:         map[string]int{"insight": 0, "investigation": 1, "perception": 1},
		ProficiencyAdvantages: map[string]int{"investigation": 1},
		ProficiencyBonus:      &bonus,
		Darkvision:            &dark,
	}
}

// newTestConsole builds a console over a single-character table. draws is
// the scripted generator sequence; nil seats nobody.
func newTestConsole(t testing.TB, draws []int, names ...string) (*Console, *bytes.Buffer) {
	t.Helper()
	if draws == nil {
		draws = []int{9, 4}
	}
	tbl := table.New(dice.NewDice(&scriptedSource{values: draws}, zap.NewNop()), zap.NewNop())
	for _, name := range names {
		_, err := tbl.AddSheet(testSheet(name))
		require.NoError(t, err)
	}
	out := &bytes.Buffer{}
	return New(tbl, nil, strings.NewReader(""), out, zap.NewNop()), out
}

func args(words ...string) Input {
	return Input{Args: words}
}

func TestHandleParty_Empty(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	assert.Equal(t, "Nobody is seated.", handleParty(c, args()))
}

func TestHandleParty_ListsSeatingOrder(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna", "Yendor")
	assert.Equal(t, "Seated (2): Brogna, Yendor", handleParty(c, args()))
}

func TestHandleSheet_Usage(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	assert.Equal(t, "Usage: sheet <name>", handleSheet(c, args()))
}

func TestHandleSheet_NotSeated(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	assert.Equal(t, "Nobody: not seated", handleSheet(c, args("Nobody")))
}

func TestHandleSheet_RendersScores(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	out := handleSheet(c, args("Brogna"))

	assert.Contains(t, out, "Brogna (proficiency bonus +2, darkvision no)")
	assert.Contains(t, out, "strength")
	assert.Contains(t, out, "(+3)") // strength 16
	assert.Contains(t, out, "wisdom")
	assert.Contains(t, out, "investigation")
	assert.Contains(t, out, ", advantage", "intrinsic qualifiers must be shown")
	assert.NotContains(t, out, "stealth", "absent optional proficiencies must be omitted")
}

func TestHandleCheck_Usage(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	usage := "Usage: check <name> <ability> <proficiency> [adv|dis]"
	assert.Equal(t, usage, handleCheck(c, args()))
	assert.Equal(t, usage, handleCheck(c, args("Brogna", "wisdom")))
	assert.Equal(t, usage, handleCheck(c, args("Brogna", "wisdom", "perception", "adv", "extra")))
}

func TestHandleCheck_UnknownAbility(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	out := handleCheck(c, args("Brogna", "luck", "perception"))
	assert.Contains(t, out, `unknown ability "luck"`)
}

func TestHandleCheck_NotSeated(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	out := handleCheck(c, args("Nobody", "wisdom", "perception"))
	assert.Contains(t, out, `"Nobody" not seated`)
}

// TestHandleCheck_Success pins the draw 10 + wisdom +2 + perception +2 path.
func TestHandleCheck_Success(t *testing.T) {
	c, _ := newTestConsole(t, []int{9, 4}, "Brogna")
	out := handleCheck(c, args("Brogna", "wisdom", "perception"))
	assert.Equal(t, "Brogna checks wisdom (perception): 14", out)
}

// TestHandleCheck_IntrinsicAdvantage verifies the sheet's investigation
// qualifier picks the higher draw: max(10, 15) - 1 + 2 = 16.
func TestHandleCheck_IntrinsicAdvantage(t *testing.T) {
	c, _ := newTestConsole(t, []int{9, 14}, "Brogna")
	out := handleCheck(c, args("Brogna", "intelligence", "investigation"))
	assert.Equal(t, "Brogna checks intelligence (investigation): 16", out)
}

func TestHandleCheck_BadQualifier(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	out := handleCheck(c, args("Brogna", "wisdom", "perception", "sideways"))
	assert.Contains(t, out, `unknown state "sideways"`)
}

func TestHandlePerception_Usage(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	assert.Equal(t, "Usage: perception <name> [adv|dis]", handlePerception(c, args()))
}

func TestHandlePerception_AcknowledgesWithoutValue(t *testing.T) {
	c, _ := newTestConsole(t, []int{9, 4}, "Brogna")
	out := handlePerception(c, args("Brogna"))
	assert.Equal(t, "Brogna makes a perception check.", out)
	assert.NotContains(t, out, "14", "the void form must not leak the roll value")
}

func TestHandlePerception_NotSeated(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	out := handlePerception(c, args("Nobody"))
	assert.Contains(t, out, `"Nobody" not seated`)
}

func TestHandleSpot_RejectsStealth(t *testing.T) {
	c, _ := newTestConsole(t, nil, "Brogna")
	out := handleSpot(c, args("Brogna", "dexterity", "stealth"))
	assert.Equal(t, "stealth is not a sight-based proficiency; use check", out)
}

// TestHandleSpot_DarkWithoutDarkvision pins the forced-failure path: the
// check resolves to 0 regardless of draws.
func TestHandleSpot_DarkWithoutDarkvision(t *testing.T) {
	c, _ := newTestConsole(t, []int{9, 4}, "Brogna")
	c.table.SetLighting(environment.Dark)
	out := handleSpot(c, args("Brogna", "wisdom", "perception"))
	assert.Equal(t, "Brogna spots with wisdom (perception): 0", out)
}

func TestHandleSpot_UnderLight(t *testing.T) {
	c, _ := newTestConsole(t, []int{9, 4}, "Brogna")
	out := handleSpot(c, args("Brogna", "wisdom", "perception"))
	assert.Equal(t, "Brogna spots with wisdom (perception): 14", out)
}

func TestHandleRoll_Usage(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	assert.Equal(t, "Usage: roll <expression> (e.g. 2d6+3)", handleRoll(c, args()))
}

func TestHandleRoll_BadExpression(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	out := handleRoll(c, args("banana"))
	assert.Contains(t, out, "missing 'd'")
}

func TestHandleRoll_AuditString(t *testing.T) {
	c, _ := newTestConsole(t, []int{2, 4})
	out := handleRoll(c, args("2d6+3"))
	assert.Equal(t, "2d6+3 → [3 5] +3 = 11", out)
}

// TestHandleRoll_RejoinsSpacedExpression verifies "roll 2d6 + 3" works.
func TestHandleRoll_RejoinsSpacedExpression(t *testing.T) {
	c, _ := newTestConsole(t, []int{2, 4})
	out := handleRoll(c, args("2d6", "+", "3"))
	assert.Equal(t, "2d6+3 → [3 5] +3 = 11", out)
}

func TestHandleLight_ShowsCurrent(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	assert.Equal(t, "Lighting: light", handleLight(c, args()))
}

func TestHandleLight_Sets(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	assert.Equal(t, "Lighting is now dim.", handleLight(c, args("dim")))
	assert.Equal(t, environment.Dim, c.table.Lighting())
}

func TestHandleLight_Unknown(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	out := handleLight(c, args("pitch-black"))
	assert.Contains(t, out, `unknown lighting`)
}

func TestHandleMacro_Disabled(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	assert.Equal(t, "Macros are disabled.", handleMacro(c, args("anything")))
	assert.Equal(t, "Macros are disabled.", handleMacros(c, args()))
}

// newMacroConsole builds a console whose macro manager has luaSrc loaded.
func newMacroConsole(t testing.TB, draws []int, luaSrc string, names ...string) (*Console, *bytes.Buffer) {
	t.Helper()
	if draws == nil {
		draws = []int{9, 4}
	}
	tbl := table.New(dice.NewDice(&scriptedSource{values: draws}, zap.NewNop()), zap.NewNop())
	for _, name := range names {
		_, err := tbl.AddSheet(testSheet(name))
		require.NoError(t, err)
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.lua"), []byte(luaSrc), 0644))
	mgr := scripting.NewManager(zap.NewNop())
	t.Cleanup(mgr.Close)
	require.NoError(t, mgr.Load(dir, 0))

	out := &bytes.Buffer{}
	return New(tbl, mgr, strings.NewReader(""), out, zap.NewNop()), out
}

func TestHandleMacro_Usage(t *testing.T) {
	c, _ := newMacroConsole(t, nil, `function noop() end`)
	assert.Equal(t, "Usage: macro <name> [args...]", handleMacro(c, args()))
}

func TestHandleMacro_InvokesWithArgs(t *testing.T) {
	c, _ := newMacroConsole(t, nil, `
		function greet(name)
			return "hail, " .. name
		end
	`, "Brogna")
	assert.Equal(t, "hail, Brogna", handleMacro(c, args("greet", "Brogna")))
}

func TestHandleMacro_SilentMacroAcknowledged(t *testing.T) {
	c, _ := newMacroConsole(t, nil, `function noop() end`)
	assert.Equal(t, "ok", handleMacro(c, args("noop")))
}

func TestHandleMacro_Undefined(t *testing.T) {
	c, _ := newMacroConsole(t, nil, `function noop() end`)
	out := handleMacro(c, args("missing"))
	assert.Contains(t, out, `"missing" not defined`)
}

func TestHandleMacros_Lists(t *testing.T) {
	c, _ := newMacroConsole(t, nil, `
		function zulu() end
		function alpha() end
	`)
	assert.Equal(t, "Macros: alpha, zulu", handleMacros(c, args()))
}

func TestHandleHelp_ListsEveryCategory(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	out := handleHelp(c, args())
	for _, cat := range categoryOrder {
		assert.Contains(t, out, cat+":")
	}
	assert.Contains(t, out, "check (c)")
	assert.Contains(t, out, "quit (exit)")
}

func TestHandleQuit(t *testing.T) {
	c, _ := newTestConsole(t, nil)
	assert.Equal(t, "Goodbye.", handleQuit(c, args()))
	assert.True(t, c.done.Load())
}
