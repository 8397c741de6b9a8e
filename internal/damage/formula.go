// Package damage implements dice-formula parsing/rolling, resistance and
// weakness resolution with type-tag grouping, temp-HP absorption, and
// condition-value semantics. Grounded on the teacher's
// internal/world/status/burning_damage.go (config-object damage helpers)
// and conditions.go's OnApply/OnTick/OnExpire handler shape, generalized
// from the teacher's flat-float lava damage to the spec's dice-formula and
// resistance/weakness/immunity model.
package damage

import (
	"fmt"
	"regexp"
	"strconv"

	"tactics-engine/internal/rng"
)

// Formula is a parsed damage expression: "N d S [+-]M" or a bare signed
// integer flat amount.
type Formula struct {
	Dice  int
	Sides int
	Flat  int
}

var diceFormulaPattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)
var flatFormulaPattern = regexp.MustCompile(`^[+-]?\d+$`)

// ParseFormula parses a formula string per the grammar in §4.6.
func ParseFormula(s string) (Formula, error) {
	if m := diceFormulaPattern.FindStringSubmatch(s); m != nil {
		dice, _ := strconv.Atoi(m[1])
		sides, _ := strconv.Atoi(m[2])
		flat := 0
		if m[3] != "" {
			flat, _ = strconv.Atoi(m[3])
		}
		return Formula{Dice: dice, Sides: sides, Flat: flat}, nil
	}
	if flatFormulaPattern.MatchString(s) {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return Formula{}, fmt.Errorf("damage: invalid flat formula %q: %w", s, err)
		}
		return Formula{Flat: flat}, nil
	}
	return Formula{}, fmt.Errorf("damage: unrecognized formula %q", s)
}

// RollDamage rolls the formula, sums the dice plus the flat modifier,
// multiplies by multiplier, and clamps the result at 0.
func RollDamage(r *rng.Source, formula string, multiplier float64) (int, error) {
	f, err := ParseFormula(formula)
	if err != nil {
		return 0, err
	}
	sum := 0
	for i := 0; i < f.Dice; i++ {
		sum += r.Randint(1, f.Sides)
	}
	total := float64(sum+f.Flat) * multiplier
	raw := int(total)
	// int() truncates toward zero, which floors the non-negative case; a
	// negative total (e.g. from a negative flat formula) is clamped to 0 below.
	if raw < 0 {
		raw = 0
	}
	return raw, nil
}
