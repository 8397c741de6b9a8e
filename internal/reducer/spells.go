package reducer

import (
	"tactics-engine/internal/battle"
	"tactics-engine/internal/checks"
	"tactics-engine/internal/damage"
	"tactics-engine/internal/eventlog"
)

// applySaveBased implements the shared shape of cast_spell and save_damage:
// roll a save, compute the basic-save multiplier, roll and apply damage.
func (c *context) applySaveBased(cmd Command, p *SaveBasedPayload, eventType string, defaultCost int) ([]eventlog.Event, error) {
	actor := c.state.Units[cmd.Actor]
	target, ok := c.state.Units[p.Target]
	if !ok || !target.Alive() {
		return nil, newReductionError(CodeUnknownTarget, "unknown or dead target %q", p.Target)
	}

	cost := p.ActionCost
	if cost <= 0 {
		cost = defaultCost
	}
	if err := requireAction(actor, cost); err != nil {
		return nil, err
	}

	profile := checks.SaveProfile{Fortitude: target.Fortitude, Reflex: target.Reflex, Will: target.Will}
	result := checks.ResolveSave(c.rng, checks.SaveType(p.SaveType), profile, p.DC)
	multiplier := checks.BasicSaveMultiplier(result.Degree)

	raw, err := damage.RollDamage(c.rng, p.Damage, multiplier)
	if err != nil {
		return nil, newReductionError(CodeInvalidPayload, "%s damage formula: %v", eventType, err)
	}
	mod := damage.ApplyModifiers(raw, p.DamageType, target.Resistances, target.Weaknesses, target.Immunities, p.DamageBypass)
	pool := damage.ApplyToPool(target.HP, target.TempHP.Amount, mod.Applied)
	target.HP = pool.NewHP
	target.TempHP.Amount = pool.NewTempHP
	battle.SyncUnconscious(target)

	payload := map[string]any{
		"actor":    actor.ID,
		"target":   target.ID,
		"spellId":  p.SpellID,
		"save":     map[string]any{"die": result.Die, "total": result.Total, "dc": result.DC, "degree": string(result.Degree)},
		"damage":   map[string]any{"raw": raw, "applied": mod.Applied, "absorbed": pool.Absorbed, "immune": mod.Immune},
		"forecast": spellForecast(multiplier),
	}
	var events []eventlog.Event
	events = c.emit(events, eventType, payload)
	return events, nil
}

func spellForecast(multiplier float64) string {
	switch {
	case multiplier >= 1.5:
		return "punishing"
	case multiplier >= 1.0:
		return "reliable"
	case multiplier > 0:
		return "partial"
	default:
		return "negated"
	}
}

func (c *context) applyAreaSaveDamage(cmd Command) ([]eventlog.Event, error) {
	p := cmd.AreaSaveDamage
	actor := c.state.Units[cmd.Actor]

	tiles := feetToTiles(p.RadiusFeet)
	targets := c.targetsInRadius(actor, p.CenterX, p.CenterY, tiles, p.IncludeActor)

	resolutions := make([]map[string]any, 0, len(targets))
	for _, target := range targets {
		profile := checks.SaveProfile{Fortitude: target.Fortitude, Reflex: target.Reflex, Will: target.Will}
		result := checks.ResolveSave(c.rng, checks.SaveType(p.SaveType), profile, p.DC)
		multiplier := basicMultiplierForMode(p.Mode, result.Degree)

		raw, err := damage.RollDamage(c.rng, p.Damage, multiplier)
		if err != nil {
			return nil, newReductionError(CodeInvalidPayload, "area_save_damage damage formula: %v", err)
		}
		mod := damage.ApplyModifiers(raw, p.DamageType, target.Resistances, target.Weaknesses, target.Immunities, p.DamageBypass)
		pool := damage.ApplyToPool(target.HP, target.TempHP.Amount, mod.Applied)
		target.HP = pool.NewHP
		target.TempHP.Amount = pool.NewTempHP
		battle.SyncUnconscious(target)

		resolutions = append(resolutions, map[string]any{
			"target": target.ID,
			"save":   map[string]any{"die": result.Die, "total": result.Total, "dc": result.DC, "degree": string(result.Degree)},
			"damage": map[string]any{"raw": raw, "applied": mod.Applied, "absorbed": pool.Absorbed, "immune": mod.Immune},
		})
	}

	var events []eventlog.Event
	events = c.emit(events, "area_save_damage", map[string]any{
		"actor":       actor.ID,
		"center":      map[string]any{"x": p.CenterX, "y": p.CenterY},
		"radiusTiles": tiles,
		"resolutions": resolutions,
	})
	return events, nil
}

// feetToTiles converts a feet-denominated radius to tiles per §4.11:
// max(1, (feet+4) // 5).
func feetToTiles(feet int) int {
	tiles := (feet + 4) / 5
	if tiles < 1 {
		tiles = 1
	}
	return tiles
}

// basicMultiplierForMode resolves the damage multiplier for a degree under
// the save mode named in §4.13 step 2: basic uses the four-step curve,
// negates deals full on fail/crit-fail and none otherwise, standard always
// deals full.
func basicMultiplierForMode(mode string, degree checks.Degree) float64 {
	switch mode {
	case "negates":
		if degree == checks.Failure || degree == checks.CriticalFailure {
			return 1.0
		}
		return 0.0
	case "standard":
		return 1.0
	default:
		return checks.BasicSaveMultiplier(degree)
	}
}
