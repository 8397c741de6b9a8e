package reducer

import (
	"tactics-engine/internal/battle"
	"tactics-engine/internal/effect"
	"tactics-engine/internal/eventlog"
	"tactics-engine/internal/grid"
)

// HazardSourceLookup resolves a (hazard_id, source_name, source_type) triple
// to its effects list and raw descriptive text, matching the effect-model
// catalog's lookup key from §6.
type HazardSourceLookup func(hazardID, sourceName, sourceType string) (descriptors []EffectDescriptor, rawText string, ok bool)

func (c *context) applyTriggerHazardSource(cmd Command) ([]eventlog.Event, error) {
	return c.runHazard(cmd, cmd.TriggerHazard, "trigger_hazard_source")
}

func (c *context) applyRunHazardRoutine(cmd Command) ([]eventlog.Event, error) {
	p := cmd.RunHazardRoutine
	rewritten := *p
	switch p.TargetPolicy {
	case "nearest_enemy", "nearest_enemy_area_center":
		actor := c.state.Units[cmd.Actor]
		nearest := c.nearestEnemy(actor)
		if nearest != nil {
			if p.TargetPolicy == "nearest_enemy" {
				rewritten.Target = nearest.ID
			} else {
				x, y := nearest.Position.X, nearest.Position.Y
				rewritten.CenterX, rewritten.CenterY = &x, &y
			}
		}
	}

	events, err := c.runHazard(cmd, &rewritten, "run_hazard_routine")
	if err != nil || p.TargetPolicy != "all_enemies" {
		return events, err
	}
	return events, nil
}

func (c *context) nearestEnemy(actor *battle.Unit) *battle.Unit {
	var nearest *battle.Unit
	best := -1
	for _, id := range c.sortedUnitIDs() {
		u := c.state.Units[id]
		if !u.Alive() || u.Team == actor.Team {
			continue
		}
		dist := grid.Manhattan(actor.Position, u.Position)
		if best == -1 || dist < best {
			best, nearest = dist, u
		}
	}
	return nearest
}

// runHazard is the shared body of trigger_hazard_source/run_hazard_routine:
// take the catalog's effects list that the orchestrator resolved and
// attached to the payload (the reducer itself never touches IO), select
// targets per §4.12, and apply modeled effects per §4.13.
//
// The descriptors arrive on the payload via WithResolvedDescriptors rather
// than through an injected lookup, since the reducer must
// stay a pure function of (state, command, rng): the orchestrator resolves
// the catalog lookup before constructing the command.
func (c *context) runHazard(cmd Command, p *HazardPayload, eventType string) ([]eventlog.Event, error) {
	actor := c.state.Units[cmd.Actor]

	descriptors, ok := hazardDescriptorsFromPayload(p)
	if !ok {
		return nil, newReductionError(CodeInvalidPayload, "hazard source (%s,%s,%s) has no resolved effects", p.HazardID, p.SourceName, p.SourceType)
	}

	targets, err := c.SelectTargets(actor, p.Target, p.CenterX, p.CenterY, descriptors)
	if err != nil {
		return nil, err
	}

	if p.TargetPolicy == "all_enemies" {
		targets = filterEnemiesOf(targets, actor.Team)
	}

	resolutions := make([]map[string]any, 0, len(targets))
	var allLifecycle []effect.LifecycleEvent
	for _, target := range targets {
		outcome, lifecycle := c.applyModeledEffects(actor, target, descriptors)
		resolutions = append(resolutions, outcome)
		allLifecycle = append(allLifecycle, lifecycle...)
	}

	var events []eventlog.Event
	events = c.emit(events, eventType, map[string]any{
		"actor":      actor.ID,
		"hazardId":   p.HazardID,
		"sourceName": p.SourceName,
		"sourceType": p.SourceType,
		"targets":    resolutions,
	})
	events = c.emitLifecycle(events, allLifecycle)
	return events, nil
}

func filterEnemiesOf(units []*battle.Unit, team string) []*battle.Unit {
	out := make([]*battle.Unit, 0, len(units))
	for _, u := range units {
		if u.Team != team {
			out = append(out, u)
		}
	}
	return out
}

// hazardDescriptorsFromPayload extracts the pre-resolved effects list the
// orchestrator attaches via WithResolvedDescriptors before dispatching the
// command; the
// reducer performs no catalog IO of its own.
func hazardDescriptorsFromPayload(p *HazardPayload) ([]EffectDescriptor, bool) {
	if len(p.resolvedDescriptors) == 0 {
		return nil, false
	}
	return p.resolvedDescriptors, true
}
