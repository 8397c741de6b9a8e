// Package effect implements the durable-effect lifecycle and the affliction
// stage-progression state machine: on_apply/on_tick/on_expire handlers keyed
// by effect kind, and the integer-stage save ladder that backs poisons,
// diseases, and curses. Grounded on the teacher's conditions.go
// OnApply/OnTick/OnExpire handler shape (generalized here from wall-clock
// durations to round-counted ones) and on internal/world/status's
// instance-table-keyed-by-generated-id pattern.
package effect

import (
	"regexp"
	"strings"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/checks"
	"tactics-engine/internal/damage"
	"tactics-engine/internal/rng"
)

// LifecycleEvent is a generic (type, payload) pair the reducer promotes into
// a full eventlog entry once it has an event id and round to attach.
type LifecycleEvent struct {
	Type    string
	Payload map[string]any
}

// payloadInt reads a numeric field out of an opaque effect payload.
// JSON-decoded documents hand back numbers as float64, never int, so a bare
// type assertion against int always misses.
func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// persistentConditionPattern extracts condition names named by affliction
// source text such as "Any sickened condition persists." per §4.10.
var persistentConditionPattern = regexp.MustCompile(`(?i)any\s+([a-z_]+)\s+condition\s+persists`)

// InferPersistentConditions scans raw source text for the "Any X condition
// persists" pattern and returns the normalized condition names it names.
func InferPersistentConditions(rawText string) []string {
	matches := persistentConditionPattern.FindAllStringSubmatch(rawText, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, battle.NormalizeConditionName(m[1]))
	}
	return out
}

// Apply runs an effect's kind-specific on_apply handler, attaching it to
// state.Effects and mutating the target unit in place. It returns the
// lifecycle events the apply produced.
func Apply(state *battle.BattleState, e *battle.Effect, r *rng.Source) []LifecycleEvent {
	state.Effects[e.ID] = e
	target := state.Units[e.TargetUnitID]

	var events []LifecycleEvent
	switch e.Kind {
	case battle.EffectTempHP:
		if target != nil {
			amount := payloadInt(e.Payload, "amount")
			source, _ := e.Payload["source"].(string)
			target.TempHP = battle.TempHP{Amount: amount, Source: source, OwnerEffect: e.ID}
		}
	case battle.EffectCondition:
		if target != nil {
			name, _ := e.Payload["condition"].(string)
			value := payloadInt(e.Payload, "value")
			if value == 0 {
				value = 1
			}
			if !battle.IsImmuneToCondition(name, target.ConditionImmunities) {
				target.Conditions = battle.ApplyCondition(target.Conditions, name, value)
				battle.SyncUnconscious(target)
			}
		}
	case battle.EffectAffliction:
		if target != nil && e.Affliction != nil {
			applyAfflictionStage(r, target, e.Affliction, e.Affliction.CurrentStage)
		}
	}

	events = append(events, LifecycleEvent{
		Type: "effect_applied",
		Payload: map[string]any{
			"effectId": e.ID,
			"kind":     string(e.Kind),
			"targetId": e.TargetUnitID,
		},
	})
	return events
}

// ProcessTiming iterates effects in insertion order (the caller supplies
// them already ordered) and ticks every effect whose tick_timing matches
// `when` and whose target is the active unit, per §4.9.
func ProcessTiming(state *battle.BattleState, effectIDsInOrder []string, r *rng.Source, when battle.TickTiming, activeUnitID string) []LifecycleEvent {
	var events []LifecycleEvent
	for _, id := range effectIDsInOrder {
		e, ok := state.Effects[id]
		if !ok {
			continue
		}
		if e.TickTiming != when || e.TargetUnitID != activeUnitID {
			continue
		}
		events = append(events, tick(state, e, r)...)
	}
	return events
}

func tick(state *battle.BattleState, e *battle.Effect, r *rng.Source) []LifecycleEvent {
	var events []LifecycleEvent
	target := state.Units[e.TargetUnitID]

	switch e.Kind {
	case battle.EffectPersistentDamage:
		if target != nil {
			formula, _ := e.Payload["formula"].(string)
			damageType, _ := e.Payload["damageType"].(string)
			if formula != "" {
				raw, err := damage.RollDamage(r, formula, 1.0)
				if err == nil {
					mod := damage.ApplyModifiers(raw, damageType, target.Resistances, target.Weaknesses, target.Immunities, nil)
					pool := damage.ApplyToPool(target.HP, target.TempHP.Amount, mod.Applied)
					target.HP = pool.NewHP
					target.TempHP.Amount = pool.NewTempHP
					battle.SyncUnconscious(target)
					events = append(events, LifecycleEvent{
						Type: "effect_tick",
						Payload: map[string]any{
							"effectId": e.ID,
							"damage":   mod.Applied,
						},
					})
				}
			}
		}
	case battle.EffectAffliction:
		if target != nil && e.Affliction != nil {
			events = append(events, tickAffliction(state, target, e, r)...)
		}
	}

	if _, stillActive := state.Effects[e.ID]; stillActive && e.DurationRounds != nil {
		*e.DurationRounds--
		if *e.DurationRounds <= 0 {
			events = append(events, expire(state, e)...)
		}
	}
	return events
}

func tickAffliction(state *battle.BattleState, target *battle.Unit, e *battle.Effect, r *rng.Source) []LifecycleEvent {
	a := e.Affliction
	profile := checks.SaveProfile{Fortitude: target.Fortitude, Reflex: target.Reflex, Will: target.Will}
	saveType := checks.SaveType(strings.ToLower(a.SaveType))
	result := checks.ResolveSave(r, saveType, profile, a.DC)

	n := len(a.Stages)
	switch result.Degree {
	case checks.CriticalSuccess:
		return expire(state, e)
	case checks.Success:
		a.CurrentStage--
		if a.CurrentStage <= 0 {
			return expire(state, e)
		}
	case checks.CriticalFailure:
		if a.CurrentStage < n {
			a.CurrentStage++
		}
	}

	applied := applyAfflictionStage(r, target, a, a.CurrentStage)
	payload := map[string]any{
		"effectId": e.ID,
		"degree":   string(result.Degree),
		"stage":    a.CurrentStage,
	}
	if applied != nil {
		payload["damage"] = applied
	}
	return []LifecycleEvent{{Type: "affliction_tick", Payload: payload}}
}

// applyAfflictionStage applies the named stage's conditions and, if the
// stage carries a damage formula, rolls and applies it fresh on stage entry
// per §4.10. Returns the rolled-damage summary, or nil if the stage dealt
// none.
func applyAfflictionStage(r *rng.Source, target *battle.Unit, a *battle.AfflictionPayload, stage int) map[string]any {
	for _, s := range a.Stages {
		if s.Stage != stage {
			continue
		}
		for name, value := range s.Conditions {
			if battle.IsImmuneToCondition(name, target.ConditionImmunities) {
				continue
			}
			target.Conditions = battle.ApplyCondition(target.Conditions, name, value)
		}

		var applied map[string]any
		if s.Damage != "" && r != nil {
			if raw, err := damage.RollDamage(r, s.Damage, 1.0); err == nil {
				mod := damage.ApplyModifiers(raw, "", target.Resistances, target.Weaknesses, target.Immunities, nil)
				pool := damage.ApplyToPool(target.HP, target.TempHP.Amount, mod.Applied)
				target.HP = pool.NewHP
				target.TempHP.Amount = pool.NewTempHP
				applied = map[string]any{"raw": raw, "applied": mod.Applied}
			}
		}
		battle.SyncUnconscious(target)
		return applied
	}
	return nil
}

// expire removes the effect, clears any condition it installed (inferred
// from the payload), releases any temp_hp it owns, and propagates persistent
// conditions from an expiring affliction.
func expire(state *battle.BattleState, e *battle.Effect) []LifecycleEvent {
	delete(state.Effects, e.ID)
	target := state.Units[e.TargetUnitID]
	if target == nil {
		return []LifecycleEvent{{Type: "effect_expired", Payload: map[string]any{"effectId": e.ID}}}
	}

	if target.TempHP.OwnerEffect == e.ID {
		target.TempHP = battle.TempHP{}
	}

	switch e.Kind {
	case battle.EffectCondition:
		if name, ok := e.Payload["condition"].(string); ok {
			target.Conditions = battle.ClearCondition(target.Conditions, name)
		}
	case battle.EffectAffliction:
		if e.Affliction != nil {
			for _, name := range e.Affliction.PersistentConditions {
				target.Conditions = battle.ApplyCondition(target.Conditions, name, 1)
			}
		}
	}
	battle.SyncUnconscious(target)

	return []LifecycleEvent{{Type: "effect_expired", Payload: map[string]any{"effectId": e.ID, "kind": string(e.Kind)}}}
}
