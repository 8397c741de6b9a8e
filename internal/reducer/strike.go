package reducer

import (
	"tactics-engine/internal/battle"
	"tactics-engine/internal/checks"
	"tactics-engine/internal/damage"
	"tactics-engine/internal/eventlog"
	"tactics-engine/internal/grid"
)

func (c *context) applyStrike(cmd Command) ([]eventlog.Event, error) {
	p := cmd.Strike
	actor := c.state.Units[cmd.Actor]
	target, ok := c.state.Units[p.Target]
	if !ok {
		return nil, newReductionError(CodeUnknownTarget, "unknown strike target %q", p.Target)
	}
	if !grid.HasTileLineOfEffect(c.state.Map, actor.Position, target.Position) {
		return nil, newReductionError(CodeNoLineOfEffect, "no line of effect from %s to %s", actor.ID, target.ID)
	}
	if err := requireAction(actor, 1); err != nil {
		return nil, err
	}

	coverGrade := grid.ComputeCoverGrade(c.state.Map, actor.Position, target.Position)
	effectiveAC := target.AC + coverGrade.ACBonus()

	result := checks.ResolveCheck(c.rng, actor.AttackMod, effectiveAC)

	var multiplier float64
	switch result.Degree {
	case checks.CriticalSuccess:
		multiplier = 2
	case checks.Success:
		multiplier = 1
	default:
		multiplier = 0
	}

	payload := map[string]any{
		"actor":       actor.ID,
		"target":      target.ID,
		"die":         result.Die,
		"total":       result.Total,
		"effectiveAc": effectiveAC,
		"degree":      string(result.Degree),
		"coverGrade":  string(coverGrade),
	}

	if multiplier > 0 {
		raw, err := damage.RollDamage(c.rng, actor.DamageFormula, multiplier)
		if err != nil {
			return nil, newReductionError(CodeInvalidPayload, "strike damage formula: %v", err)
		}
		mod := damage.ApplyModifiers(raw, actor.AttackDamageType, target.Resistances, target.Weaknesses, target.Immunities, actor.AttackDamageBypass)
		pool := damage.ApplyToPool(target.HP, target.TempHP.Amount, mod.Applied)
		target.HP = pool.NewHP
		target.TempHP.Amount = pool.NewTempHP
		battle.SyncUnconscious(target)

		payload["damage"] = map[string]any{
			"raw":      raw,
			"applied":  mod.Applied,
			"absorbed": pool.Absorbed,
			"immune":   mod.Immune,
		}
	}

	if p.EmitForecast {
		payload["forecast"] = strikeForecast(actor, effectiveAC)
	}

	var events []eventlog.Event
	events = c.emit(events, "strike", payload)
	return events, nil
}

// strikeForecast buckets the attacker's hit chance against the target's
// effective AC into a coarse qualitative DPR bucket, per §4.11's
// "precomputed forecast (expected DPR bucket)".
func strikeForecast(actor *battle.Unit, effectiveAC int) string {
	needed := effectiveAC - actor.AttackMod
	switch {
	case needed <= 6:
		return "high"
	case needed <= 12:
		return "medium"
	case needed <= 19:
		return "low"
	default:
		return "negligible"
	}
}
