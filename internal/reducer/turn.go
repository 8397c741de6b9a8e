package reducer

import (
	"sort"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/effect"
	"tactics-engine/internal/eventlog"
	"tactics-engine/internal/turnorder"
)

// orderedEffectIDs returns effect ids in insertion (ascending sequence)
// order, matching §4.9's "iterate effects in insertion order". Effect ids
// are minted as zero-padded ordinals, so a lexicographic sort reproduces
// insertion order exactly.
func orderedEffectIDs(state *battle.BattleState) []string {
	ids := make([]string, 0, len(state.Effects))
	for id := range state.Effects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *context) applyEndTurn(cmd Command) ([]eventlog.Event, error) {
	var events []eventlog.Event
	departing := c.state.ActiveUnitID()

	events = c.emit(events, "end_turn", map[string]any{"actor": departing})

	tickEnd := effect.ProcessTiming(c.state, orderedEffectIDs(c.state), c.rng, battle.TickTurnEnd, departing)
	events = c.emitLifecycle(events, tickEnd)

	nextIndex, nextRound := turnorder.Advance(
		c.state.TurnOrder,
		c.state.TurnIndex,
		c.state.RoundNumber,
		func(id string) bool { return c.state.Units[id] != nil && c.state.Units[id].Alive() },
		func(id string) {
			u := c.state.Units[id]
			u.ActionsRemaining = 3
			u.ReactionAvailable = true
		},
	)
	c.state.TurnIndex = nextIndex
	c.state.RoundNumber = nextRound

	active := c.state.ActiveUnitID()
	events = c.emit(events, "turn_start", map[string]any{"actor": active, "round": c.state.RoundNumber})

	tickStart := effect.ProcessTiming(c.state, orderedEffectIDs(c.state), c.rng, battle.TickTurnStart, active)
	events = c.emitLifecycle(events, tickStart)

	return events, nil
}

// unitAdapter satisfies turnorder.Unit over a *battle.Unit.
type unitAdapter struct{ u *battle.Unit }

func (a unitAdapter) ID() string      { return a.u.ID }
func (a unitAdapter) Initiative() int { return a.u.Initiative }
func (a unitAdapter) Alive() bool     { return a.u.Alive() }
