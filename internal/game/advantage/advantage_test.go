package advantage_test

import (
	"fmt"
	"testing"

	"github.com/rollforgrue/grue/internal/game/advantage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var allStates = []advantage.State{
	advantage.None,
	advantage.Canceled,
	advantage.Advantage,
	advantage.Disadvantage,
	advantage.Fail,
}

// TestCombine_TruthTable verifies all 25 ordered pairs of the combine table.
func TestCombine_TruthTable(t *testing.T) {
	n, c, a, d, f := advantage.None, advantage.Canceled, advantage.Advantage, advantage.Disadvantage, advantage.Fail

	// expected[row][col] for rows/cols in allStates order.
	expected := [5][5]advantage.State{
		{n, c, a, d, f}, // None combined with x yields x
		{c, c, c, c, c}, // Canceled absorbs, including Fail
		{a, c, a, c, f}, // Advantage
		{d, c, c, d, f}, // Disadvantage
		{f, f, f, f, f}, // Fail absorbs everything
	}

	for i, left := range allStates {
		for j, right := range allStates {
			got := advantage.Combine(left, right)
			assert.Equal(t, expected[i][j], got,
				"Combine(%s, %s) must be %s, got %s", left, right, expected[i][j], got)
		}
	}
}

// TestCombine_OrderSensitivePairs pins the two pairs where operand order
// changes the result: cancellation to the left of a fail wins, but a fail to
// the left of a cancellation wins.
func TestCombine_OrderSensitivePairs(t *testing.T) {
	assert.Equal(t, advantage.Canceled, advantage.Combine(advantage.Canceled, advantage.Fail))
	assert.Equal(t, advantage.Fail, advantage.Combine(advantage.Fail, advantage.Canceled))
}

// TestCombine_NoneIsLeftIdentity verifies None combined with any state yields
// that state unchanged.
func TestCombine_NoneIsLeftIdentity(t *testing.T) {
	for _, s := range allStates {
		assert.Equal(t, s, advantage.Combine(advantage.None, s))
	}
}

// TestCombine_Diagonal verifies combining a state with itself is the identity
// for every state.
func TestCombine_Diagonal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.SampledFrom(allStates).Draw(rt, "state")
		assert.Equal(rt, s, advantage.Combine(s, s))
	})
}

// TestCombine_ClosedOverDomain verifies Combine never produces a value
// outside the five declared states.
func TestCombine_ClosedOverDomain(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.SampledFrom(allStates).Draw(rt, "a")
		b := rapid.SampledFrom(allStates).Draw(rt, "b")
		got := advantage.Combine(a, b)
		assert.Contains(rt, allStates, got, "Combine(%s, %s) left the domain", a, b)
	})
}

// TestCombine_PanicsOnInvalidState verifies the precondition: Combine rejects
// values outside the declared enumeration.
func TestCombine_PanicsOnInvalidState(t *testing.T) {
	assert.Panics(t, func() { advantage.Combine(advantage.State(42), advantage.Fail) })
	assert.Panics(t, func() { advantage.Combine(advantage.Advantage, advantage.State(42)) })
}

// TestState_String verifies every state renders its lowercase label and
// unknown values render "unknown".
func TestState_String(t *testing.T) {
	labels := []string{"none", "canceled", "advantage", "disadvantage", "fail"}
	for i, s := range allStates {
		assert.Equal(t, labels[i], s.String())
	}
	assert.Equal(t, "unknown", advantage.State(42).String())
}

// TestParse verifies textual names, short forms, and case-insensitivity.
func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want advantage.State
	}{
		{"none", advantage.None},
		{"", advantage.None},
		{"canceled", advantage.Canceled},
		{"cancelled", advantage.Canceled},
		{"advantage", advantage.Advantage},
		{"adv", advantage.Advantage},
		{"ADV", advantage.Advantage},
		{"disadvantage", advantage.Disadvantage},
		{"dis", advantage.Disadvantage},
		{"fail", advantage.Fail},
		{"  Fail  ", advantage.Fail},
	}
	for _, tc := range cases {
		got, err := advantage.Parse(tc.in)
		require.NoError(t, err, "Parse(%q)", tc.in)
		assert.Equal(t, tc.want, got, "Parse(%q)", tc.in)
	}
}

// TestParse_Unknown verifies unknown names are rejected with an error naming
// the offending input.
func TestParse_Unknown(t *testing.T) {
	_, err := advantage.Parse("lucky")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lucky")
}

// TestParse_RoundTrip verifies Parse(s.String()) == s for every state.
func TestParse_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.SampledFrom(allStates).Draw(rt, "state")
		got, err := advantage.Parse(s.String())
		require.NoError(rt, err)
		assert.Equal(rt, s, got, fmt.Sprintf("round trip through %q", s.String()))
	})
}
