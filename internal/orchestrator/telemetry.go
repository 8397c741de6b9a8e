package orchestrator

import (
	"context"

	"tactics-engine/internal/eventlog"
	"tactics-engine/logging"
	"tactics-engine/logging/combat"
	"tactics-engine/logging/lifecycle"
	"tactics-engine/logging/status_effects"
)

// publishDelta translates newly-appended reducer events into diagnostic
// telemetry, one best-effort mapping per event type. These events never
// feed back into the engine and never influence the replay hash; a nil
// publisher (the default) makes this a no-op.
func (l *loop) publishDelta(events []eventlog.Event) {
	if l.pub == nil {
		return
	}
	for _, ev := range events {
		l.publishOne(ev)
	}
}

func (l *loop) publishOne(ev eventlog.Event) {
	ctx := l.ctx
	actor, _ := ev.Payload["actor"].(string)
	target, _ := ev.Payload["target"].(string)

	switch ev.Type {
	case "strike":
		die, _ := ev.Payload["die"].(int)
		total, _ := ev.Payload["total"].(int)
		effectiveAC, _ := ev.Payload["effectiveAc"].(int)
		degree, _ := ev.Payload["degree"].(string)
		combat.Strike(ctx, l.pub, ev.Round, entityRef(actor), entityRef(target), combat.StrikePayload{
			Die: die, Total: total, EffectiveAC: effectiveAC, Degree: degree,
		}, nil)
		l.publishDamage(ev, target)
	case "cast_spell", "save_damage":
		saveInfo, _ := ev.Payload["save"].(map[string]any)
		die, _ := saveInfo["die"].(int)
		total, _ := saveInfo["total"].(int)
		dc, _ := saveInfo["dc"].(int)
		degree, _ := saveInfo["degree"].(string)
		combat.Save(ctx, l.pub, ev.Round, entityRef(actor), entityRef(target), combat.SavePayload{
			Die: die, Total: total, DC: dc, Degree: degree,
		}, nil)
		l.publishDamage(ev, target)
	case "spawn_unit":
		unitID, _ := ev.Payload["unitId"].(string)
		policy, _ := ev.Payload["placementPolicy"].(string)
		position, _ := ev.Payload["position"].(map[string]any)
		x, _ := position["x"].(int)
		y, _ := position["y"].(int)
		lifecycle.UnitSpawned(ctx, l.pub, ev.Round, lifecycle.UnitSpawnedPayload{
			UnitID: unitID, Policy: policy, X: x, Y: y,
		}, nil)
	case "effect_applied":
		effectID, _ := ev.Payload["effectId"].(string)
		kind, _ := ev.Payload["kind"].(string)
		targetID, _ := ev.Payload["targetId"].(string)
		status_effects.Applied(ctx, l.pub, ev.Round, logging.EntityRef{}, entityRef(targetID), status_effects.AppliedPayload{
			EffectID: effectID, Kind: kind,
		}, nil)
	case "effect_expired":
		effectID, _ := ev.Payload["effectId"].(string)
		kind, _ := ev.Payload["kind"].(string)
		status_effects.Expired(ctx, l.pub, ev.Round, entityRef(""), status_effects.ExpiredPayload{
			EffectID: effectID, Kind: kind, Round: ev.Round,
		}, nil)
	case "affliction_tick":
		effectID, _ := ev.Payload["effectId"].(string)
		stage, _ := ev.Payload["stage"].(int)
		status_effects.AfflictionStage(ctx, l.pub, ev.Round, entityRef(""), status_effects.AfflictionStagePayload{
			EffectID: effectID, FromStage: stage, ToStage: stage,
		}, nil)
	}
}

// publishDamage emits a combat.Damage event (and a defeat event when the
// target's hp reached zero) for any event whose payload carries a "damage"
// sub-object, covering strike/cast_spell/save_damage alike.
func (l *loop) publishDamage(ev eventlog.Event, targetID string) {
	damagePayload, ok := ev.Payload["damage"].(map[string]any)
	if !ok {
		return
	}
	raw, _ := damagePayload["raw"].(int)
	applied, _ := damagePayload["applied"].(int)
	absorbed, _ := damagePayload["absorbed"].(int)
	immune, _ := damagePayload["immune"].(bool)
	combat.Damage(l.ctx, l.pub, ev.Round, entityRef(targetID), combat.DamagePayload{
		Raw: raw, Applied: applied, Absorbed: absorbed, Immune: immune,
	}, nil)

	if u, ok := l.state.Units[targetID]; ok && !u.Alive() {
		combat.Defeat(l.ctx, l.pub, ev.Round, entityRef(targetID), combat.DefeatPayload{Command: string(ev.Type)}, nil)
	}
}

func entityRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: "unit"}
}

// publishBattleStarted announces the scenario's start, once state is
// assembled and before the first step runs.
func publishBattleStarted(ctx context.Context, pub logging.Publisher, seed uint32, enginePhase int) {
	if pub == nil {
		return
	}
	lifecycle.BattleStarted(ctx, pub, lifecycle.BattleStartedPayload{Seed: seed, EnginePhase: enginePhase}, nil)
}

// publishBattleEnded announces why the loop stopped and how many events it
// produced.
func publishBattleEnded(ctx context.Context, pub logging.Publisher, round int, stop StopReason, eventCount int) {
	if pub == nil {
		return
	}
	lifecycle.BattleEnded(ctx, pub, round, lifecycle.BattleEndedPayload{StopReason: string(stop), EventCount: eventCount}, nil)
}
