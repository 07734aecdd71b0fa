// Package dice provides the randomness abstraction and the advantage-aware
// roll engine for the grue check resolver.
package dice

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rollforgrue/grue/internal/game/advantage"
)

// Dice is the roll engine for one table session. It owns a Source and logs
// every draw it makes.
//
// A Dice is bound to a single goroutine, like its Source; it is created once
// per session and must outlive every character that rolls through it.
type Dice struct {
	src    Source
	logger *zap.Logger
}

// NewDice creates a roll engine over src that logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewDice(src Source, logger *zap.Logger) *Dice {
	return &Dice{src: src, logger: logger}
}

// RollFlat draws one uniformly distributed value in [1, sides] and adds
// modifier. Each invocation emits exactly one draw event of the form
// "Rolling 1d{sides} + {modifier} = {result}".
//
// The engine assumes sides <= 100 and modifier within ±100 by convention;
// the check layer never produces values outside those ranges.
//
// Precondition: sides >= 1. Panics otherwise.
func (d *Dice) RollFlat(sides, modifier int) int {
	if sides < 1 {
		panic("dice: RollFlat called with sides < 1")
	}
	result := d.src.Intn(sides) + 1 + modifier
	d.logger.Debug(fmt.Sprintf("Rolling 1d%d + %d = %d", sides, modifier, result),
		zap.Int("sides", sides),
		zap.Int("modifier", modifier),
		zap.Int("result", result),
	)
	return result
}

// Roll performs a qualified roll: it always draws exactly two flat rolls so
// that generator consumption is uniform across advantage states, then selects
// per the qualifier.
//
//	None, Canceled → the first draw
//	Advantage      → the higher draw
//	Disadvantage   → the lower draw
//	Fail           → the literal value 0, both draws discarded
//
// Precondition: sides >= 1; adv is a valid advantage.State.
// Postcondition: exactly two draw events were emitted, even for Fail.
func (d *Dice) Roll(sides, modifier int, adv advantage.State) int {
	first := d.RollFlat(sides, modifier)
	second := d.RollFlat(sides, modifier)
	switch adv {
	case advantage.None, advantage.Canceled:
		return first
	case advantage.Advantage:
		return max(first, second)
	case advantage.Disadvantage:
		return min(first, second)
	case advantage.Fail:
		return 0
	default:
		panic(fmt.Sprintf("dice: Roll called with invalid advantage state %d", adv))
	}
}
