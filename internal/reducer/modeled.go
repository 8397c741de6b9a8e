package reducer

import (
	"strings"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/checks"
	"tactics-engine/internal/damage"
	"tactics-engine/internal/effect"
)

// durationRoundsPerUnit converts maximum_duration's unit into rounds, per
// §4.13: round=1, minute=10, hour=600, day=14400.
func durationRoundsPerUnit(unit string) int {
	switch unit {
	case "minute":
		return 10
	case "hour":
		return 600
	case "day":
		return 14400
	default:
		return 1
	}
}

// applyModeledEffects runs the effects list against a single target per
// §4.13's five-step procedure, returning a summary outcome for the event
// payload plus any effect-lifecycle events produced.
func (c *context) applyModeledEffects(actor, target *battle.Unit, descriptors []EffectDescriptor) (map[string]any, []effect.LifecycleEvent) {
	outcome := map[string]any{"target": target.ID}
	var lifecycle []effect.LifecycleEvent

	var afflictionDescriptor *EffectDescriptor
	var saveDescriptor *EffectDescriptor
	var damageDescriptor *EffectDescriptor
	var conditionDescriptors []EffectDescriptor
	var lethalDescriptor *EffectDescriptor
	var specialDescriptor *EffectDescriptor

	for i := range descriptors {
		d := &descriptors[i]
		switch d.Kind {
		case "affliction":
			afflictionDescriptor = d
		case "save_check":
			if saveDescriptor == nil {
				saveDescriptor = d
			}
		case "damage":
			damageDescriptor = d
		case "apply_condition":
			conditionDescriptors = append(conditionDescriptors, *d)
		case "instant_death", "special_lethality":
			lethalDescriptor = d
		case "transform", "teleport":
			specialDescriptor = d
		}
	}

	shouldApplySecondary := true

	if afflictionDescriptor != nil {
		saveType, _ := afflictionDescriptor.Payload["save_type"].(string)
		dc := payloadInt(afflictionDescriptor.Payload, "dc")
		profile := checks.SaveProfile{Fortitude: target.Fortitude, Reflex: target.Reflex, Will: target.Will}
		result := checks.ResolveSave(c.rng, checks.SaveType(strings.ToLower(saveType)), profile, dc)
		outcome["save"] = map[string]any{"die": result.Die, "total": result.Total, "dc": dc, "degree": string(result.Degree)}

		contracted := result.Degree == checks.Failure || result.Degree == checks.CriticalFailure
		outcome["contracted"] = contracted
		if contracted {
			initialStage := 1
			if result.Degree == checks.CriticalFailure {
				initialStage = 2
			}
			amount := payloadInt(afflictionDescriptor.Payload, "maximum_duration_amount")
			unit, _ := afflictionDescriptor.Payload["maximum_duration_unit"].(string)
			durationRounds := amount * durationRoundsPerUnit(unit)
			rawText, _ := afflictionDescriptor.Payload["raw_text"].(string)

			e := c.buildEffect(actor.ID, target.ID, string(battle.EffectAffliction), nil, &durationRounds, string(battle.TickTurnEnd))
			e.Affliction = &battle.AfflictionPayload{
				SaveType:              saveType,
				DC:                    dc,
				MaximumDurationRounds: durationRounds,
				Stages:                payloadStages(afflictionDescriptor.Payload),
				CurrentStage:          initialStage,
				PersistentConditions:  effect.InferPersistentConditions(rawText),
			}
			lifecycle = append(lifecycle, effect.Apply(c.state, e, c.rng)...)
			outcome["effectId"] = e.ID
		}
		return outcome, lifecycle
	}

	if saveDescriptor != nil {
		saveType, _ := saveDescriptor.Payload["save_type"].(string)
		dc := payloadInt(saveDescriptor.Payload, "dc")
		mode, _ := saveDescriptor.Payload["mode"].(string)
		profile := checks.SaveProfile{Fortitude: target.Fortitude, Reflex: target.Reflex, Will: target.Will}
		result := checks.ResolveSave(c.rng, checks.SaveType(strings.ToLower(saveType)), profile, dc)
		outcome["save"] = map[string]any{"die": result.Die, "total": result.Total, "dc": dc, "degree": string(result.Degree)}
		shouldApplySecondary = result.Degree == checks.Failure || result.Degree == checks.CriticalFailure

		if damageDescriptor != nil {
			multiplier := basicMultiplierForMode(mode, result.Degree)
			outcome["damage"] = c.applyModeledDamage(target, damageDescriptor, multiplier)
		}
	} else if damageDescriptor != nil {
		outcome["damage"] = c.applyModeledDamage(target, damageDescriptor, 1.0)
	}

	if shouldApplySecondary {
		applied := make([]string, 0, len(conditionDescriptors))
		skipped := make([]string, 0)
		for _, d := range conditionDescriptors {
			name, _ := d.Payload["condition"].(string)
			value := payloadInt(d.Payload, "value")
			if value == 0 {
				value = 1
			}
			if battle.IsImmuneToCondition(name, target.ConditionImmunities) {
				skipped = append(skipped, name)
				continue
			}
			target.Conditions = battle.ApplyCondition(target.Conditions, name, value)
			applied = append(applied, name)
		}
		battle.SyncUnconscious(target)
		if len(applied) > 0 {
			outcome["conditionsApplied"] = applied
		}
		if len(skipped) > 0 {
			outcome["conditionsSkipped"] = skipped
		}
	}

	if lethalDescriptor != nil {
		target.HP = 0
		battle.SyncUnconscious(target)
		outcome["instantDeath"] = true
	}

	if specialDescriptor != nil {
		flag, _ := specialDescriptor.Payload["flag"].(string)
		if flag != "" {
			c.state.Flags[flag] = true
			outcome["specialFlag"] = flag
		}
	}

	return outcome, lifecycle
}

func (c *context) applyModeledDamage(target *battle.Unit, d *EffectDescriptor, multiplier float64) map[string]any {
	formula, _ := d.Payload["formula"].(string)
	damageType, _ := d.Payload["damage_type"].(string)
	bypass := payloadStringSlice(d.Payload, "damage_bypass")

	raw, err := damage.RollDamage(c.rng, formula, multiplier)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	mod := damage.ApplyModifiers(raw, damageType, target.Resistances, target.Weaknesses, target.Immunities, bypass)
	pool := damage.ApplyToPool(target.HP, target.TempHP.Amount, mod.Applied)
	target.HP = pool.NewHP
	target.TempHP.Amount = pool.NewTempHP
	battle.SyncUnconscious(target)

	return map[string]any{"raw": raw, "applied": mod.Applied, "absorbed": pool.Absorbed, "immune": mod.Immune}
}
