package reducer

import (
	"tactics-engine/internal/battle"
	"tactics-engine/internal/effect"
	"tactics-engine/internal/eventlog"
	"tactics-engine/internal/rng"
)

// context bundles everything a single command handler needs: the working
// state copy and the rng the reducer steps.
type context struct {
	state *battle.BattleState
	rng   *rng.Source
}

// emit mints a fresh event id/round/active-unit triple and appends it to out.
func (c *context) emit(out []eventlog.Event, eventType string, payload map[string]any) []eventlog.Event {
	id, _ := c.state.NextEventID()
	return append(out, eventlog.Event{
		EventID:    id,
		Round:      c.state.RoundNumber,
		ActiveUnit: c.state.ActiveUnitID(),
		Type:       eventType,
		Payload:    payload,
	})
}

// emitLifecycle promotes effect lifecycle events (which carry no id yet)
// into full eventlog events.
func (c *context) emitLifecycle(out []eventlog.Event, lifecycle []effect.LifecycleEvent) []eventlog.Event {
	for _, le := range lifecycle {
		out = c.emit(out, le.Type, le.Payload)
	}
	return out
}

// Apply is the reducer's single entry point: apply(state, command, rng) ->
// (next_state, events). It operates on a deep copy of state and never
// mutates the caller's reference, per §4.11.
func Apply(state *battle.BattleState, cmd Command, r *rng.Source) (*battle.BattleState, []eventlog.Event, error) {
	next := state.Clone()
	c := &context{state: next, rng: r}

	if cmd.Type != CommandSpawnUnit {
		if err := requireActive(next, cmd.Actor); err != nil {
			return nil, nil, err
		}
	}

	var events []eventlog.Event
	var err error

	switch cmd.Type {
	case CommandMove:
		events, err = c.applyMove(cmd)
	case CommandStrike:
		events, err = c.applyStrike(cmd)
	case CommandEndTurn:
		events, err = c.applyEndTurn(cmd)
	case CommandCastSpell:
		events, err = c.applySaveBased(cmd, cmd.CastSpell, "cast_spell", 2)
	case CommandSaveDamage:
		events, err = c.applySaveBased(cmd, cmd.SaveDamage, "save_damage", 1)
	case CommandAreaSaveDamage:
		events, err = c.applyAreaSaveDamage(cmd)
	case CommandApplyEffect:
		events, err = c.applyApplyEffect(cmd)
	case CommandUseFeat:
		events, err = c.applyFeatOrItem(cmd, cmd.UseFeat, "use_feat", cmd.UseFeat.FeatID)
	case CommandUseItem:
		events, err = c.applyFeatOrItem(cmd, cmd.UseItem, "use_item", cmd.UseItem.ItemID)
	case CommandInteract:
		events, err = c.applyInteract(cmd)
	case CommandSetFlag:
		events, err = c.applySetFlag(cmd)
	case CommandSpawnUnit:
		events, err = c.applySpawnUnit(cmd)
	case CommandTriggerHazardSource:
		events, err = c.applyTriggerHazardSource(cmd)
	case CommandRunHazardRoutine:
		events, err = c.applyRunHazardRoutine(cmd)
	default:
		err = newReductionError(CodeUnknownCommand, "unknown command type %q", cmd.Type)
	}

	if err != nil {
		return nil, nil, err
	}
	return next, events, nil
}

func requireActive(state *battle.BattleState, actor string) error {
	active := state.ActiveUnitID()
	if actor != active {
		return newReductionError(CodeNotActiveUnit, "actor %s is not active unit %s", actor, active)
	}
	u, ok := state.Units[actor]
	if !ok || !u.Alive() {
		return newReductionError(CodeUnitDead, "actor %s is not alive", actor)
	}
	return nil
}

func requireAction(u *battle.Unit, cost int) error {
	if u.ActionsRemaining < cost {
		return newReductionError(CodeNoActionsLeft, "unit %s has %d actions remaining, needs %d", u.ID, u.ActionsRemaining, cost)
	}
	u.ActionsRemaining -= cost
	return nil
}
