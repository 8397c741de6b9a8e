package reducer

import (
	"tactics-engine/internal/battle"
	"tactics-engine/internal/effect"
	"tactics-engine/internal/eventlog"
)

// buildEffect mints a new effect id and constructs a battle.Effect from the
// common (target, kind, payload, duration, timing) shape shared by
// apply_effect, use_feat, use_item, and interact.
func (c *context) buildEffect(sourceID, targetID, kind string, payload map[string]any, durationRounds *int, tickTiming string) *battle.Effect {
	id := c.state.NextEffectID()
	var duration *int
	if durationRounds != nil {
		d := *durationRounds
		duration = &d
	}
	return &battle.Effect{
		ID:             id,
		Kind:           battle.EffectKind(kind),
		SourceUnitID:   sourceID,
		TargetUnitID:   targetID,
		Payload:        payload,
		DurationRounds: duration,
		TickTiming:     battle.TickTiming(tickTiming),
	}
}

func (c *context) applyApplyEffect(cmd Command) ([]eventlog.Event, error) {
	p := cmd.ApplyEffect
	actor := c.state.Units[cmd.Actor]
	if _, ok := c.state.Units[p.Target]; !ok {
		return nil, newReductionError(CodeUnknownTarget, "unknown target %q", p.Target)
	}

	e := c.buildEffect(actor.ID, p.Target, p.EffectKind, p.Payload, p.DurationRounds, p.TickTiming)
	lifecycle := effect.Apply(c.state, e, c.rng)

	var events []eventlog.Event
	events = c.emit(events, "apply_effect_command", map[string]any{
		"actor":    actor.ID,
		"target":   p.Target,
		"effectId": e.ID,
		"kind":     p.EffectKind,
	})
	events = c.emitLifecycle(events, lifecycle)
	return events, nil
}

func (c *context) applyFeatOrItem(cmd Command, p *FeatItemPayload, eventType, domainID string) ([]eventlog.Event, error) {
	actor := c.state.Units[cmd.Actor]
	if _, ok := c.state.Units[p.Target]; !ok {
		return nil, newReductionError(CodeUnknownTarget, "unknown target %q", p.Target)
	}
	cost := p.ActionCost
	if cost <= 0 {
		cost = 1
	}
	if err := requireAction(actor, cost); err != nil {
		return nil, err
	}

	e := c.buildEffect(actor.ID, p.Target, p.EffectKind, p.Payload, p.DurationRounds, p.TickTiming)
	lifecycle := effect.Apply(c.state, e, c.rng)

	payload := map[string]any{
		"actor":    actor.ID,
		"target":   p.Target,
		"effectId": e.ID,
	}
	if eventType == "use_feat" {
		payload["featId"] = domainID
	} else {
		payload["itemId"] = domainID
	}

	var events []eventlog.Event
	events = c.emit(events, eventType, payload)
	events = c.emitLifecycle(events, lifecycle)
	return events, nil
}

func (c *context) applyInteract(cmd Command) ([]eventlog.Event, error) {
	p := cmd.Interact
	actor := c.state.Units[cmd.Actor]

	target := p.Target
	if target == "" {
		target = actor.ID
	}
	cost := p.ActionCost
	if cost <= 0 {
		cost = 1
	}
	if err := requireAction(actor, cost); err != nil {
		return nil, err
	}

	var events []eventlog.Event
	events = c.emit(events, "interact", map[string]any{
		"actor":      actor.ID,
		"interactId": p.InteractID,
		"target":     target,
	})

	if p.Flag != "" && p.FlagValue != nil {
		c.state.Flags[p.Flag] = *p.FlagValue
	}

	if p.EffectKind != "" {
		if _, ok := c.state.Units[target]; ok {
			e := c.buildEffect(actor.ID, target, p.EffectKind, p.Payload, p.Duration, p.TickTiming)
			lifecycle := effect.Apply(c.state, e, c.rng)
			events = c.emitLifecycle(events, lifecycle)
		}
	}
	return events, nil
}

func (c *context) applySetFlag(cmd Command) ([]eventlog.Event, error) {
	p := cmd.SetFlag
	c.state.Flags[p.Flag] = p.Value

	var events []eventlog.Event
	events = c.emit(events, "set_flag", map[string]any{"flag": p.Flag, "value": p.Value})
	return events, nil
}
