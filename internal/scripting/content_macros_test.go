package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rollforgrue/grue/internal/console"
	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/environment"
	"github.com/rollforgrue/grue/internal/game/sheet"
	"github.com/rollforgrue/grue/internal/game/table"
	"github.com/rollforgrue/grue/internal/scripting"
)

// These tests load the macros shipped under content/macros against a real
// table, exactly as cmd/grue wires them.

// repoRoot walks up from the test's working directory to find the module root.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	root := wd
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			return root
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("could not find repo root from %s", wd)
		}
		root = parent
	}
}

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

// contentSheet is wisdom 14, perception level 1, bonus 2 (sight check
// modifier +4), darkvision off.
func contentSheet(name string) *sheet.Sheet {
	bonus := 2
	dark := false
	return &sheet.Sheet{
		Name: name,
		Abilities: map[string]int{
			"strength": 10, "dexterity": 10, "constitution": 10,
			"intelligence": 10, "wisdom": 14, "charisma": 10,
		},
		Proficiencies:    map[string]int{"insight": 0, "investigation": 0, "perception": 1},
		ProficiencyBonus: &bonus,
		Darkvision:       &dark,
	}
}

// newContentEnv loads content/macros into a manager wired to a fresh table.
func newContentEnv(t *testing.T, draws []int, names ...string) (*scripting.Manager, *table.Table) {
	t.Helper()
	tbl := table.New(dice.NewDice(&scriptedSource{values: draws}, zap.NewNop()), zap.NewNop())
	for _, name := range names {
		_, err := tbl.AddSheet(contentSheet(name))
		require.NoError(t, err)
	}
	mgr := scripting.NewManager(zap.NewNop())
	t.Cleanup(mgr.Close)
	console.WireMacros(mgr, tbl)
	require.NoError(t, mgr.Load(filepath.Join(repoRoot(t), "content", "macros"), 0))
	return mgr, tbl
}

func TestContentMacros_Load(t *testing.T) {
	mgr, _ := newContentEnv(t, []int{0})
	assert.Equal(t, []string{"light_torch", "lucky", "scout", "snuff_torch"}, mgr.Names())
}

func TestScout_ReportsBestSpotter(t *testing.T) {
	// Brogna draws 10 (+4 = 14), Yendor draws 20 (+4 = 24).
	mgr, _ := newContentEnv(t, []int{9, 4, 19, 0}, "Brogna", "Yendor")

	out, err := mgr.Call("scout")
	require.NoError(t, err)
	assert.Equal(t, "Yendor spots best under light: 24", out)
}

func TestScout_DarknessBlindsEveryone(t *testing.T) {
	mgr, tbl := newContentEnv(t, []int{9, 4, 19, 0}, "Brogna", "Yendor")
	tbl.SetLighting(environment.Dark)

	out, err := mgr.Call("scout")
	require.NoError(t, err)
	assert.Equal(t, "Brogna spots best under dark: 0", out)
}

func TestScout_EmptyParty(t *testing.T) {
	mgr, _ := newContentEnv(t, []int{0})

	out, err := mgr.Call("scout")
	require.NoError(t, err)
	assert.Equal(t, "nobody is seated", out)
}

func TestTorchMacros_StepLighting(t *testing.T) {
	mgr, tbl := newContentEnv(t, []int{0})
	tbl.SetLighting(environment.Dark)

	out, err := mgr.Call("light_torch")
	require.NoError(t, err)
	assert.Equal(t, "lighting: dim", out)
	assert.Equal(t, environment.Dim, tbl.Lighting())

	out, err = mgr.Call("light_torch")
	require.NoError(t, err)
	assert.Equal(t, "lighting: light", out)

	// Already lit: another torch changes nothing.
	out, err = mgr.Call("light_torch")
	require.NoError(t, err)
	assert.Equal(t, "lighting: light", out)

	out, err = mgr.Call("snuff_torch")
	require.NoError(t, err)
	assert.Equal(t, "lighting: dark", out)
	assert.Equal(t, environment.Dark, tbl.Lighting())
}

func TestLucky_RollsThroughTableGenerator(t *testing.T) {
	mgr, _ := newContentEnv(t, []int{2, 15})

	out, err := mgr.Call("lucky", "6")
	require.NoError(t, err)
	assert.Equal(t, "3", out)

	// No argument defaults to a d20.
	out, err = mgr.Call("lucky")
	require.NoError(t, err)
	assert.Equal(t, "16", out)
}

// TestShippedContent_EndToEnd seats the shipped sheets and runs the shipped
// scout macro, the full cmd/grue wiring in miniature.
func TestShippedContent_EndToEnd(t *testing.T) {
	root := repoRoot(t)
	sheets, err := sheet.LoadDirectory(filepath.Join(root, "content", "sheets"))
	require.NoError(t, err)
	require.NotEmpty(t, sheets)

	tbl := table.New(dice.NewDice(&scriptedSource{values: []int{9, 4}}, zap.NewNop()), zap.NewNop())
	for _, s := range sheets {
		_, err := tbl.AddSheet(s)
		require.NoError(t, err)
	}

	mgr := scripting.NewManager(zap.NewNop())
	t.Cleanup(mgr.Close)
	console.WireMacros(mgr, tbl)
	require.NoError(t, mgr.Load(filepath.Join(root, "content", "macros"), 0))

	// Yendor rolls with intrinsic advantage: max(10, 5) + 8 = 18.
	out, err := mgr.Call("scout")
	require.NoError(t, err)
	assert.Equal(t, "Yendor spots best under light: 18", out)
}
