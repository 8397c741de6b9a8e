package reducer

import (
	"sort"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/grid"
)

// targetsInRadius returns every alive unit within tiles of (cx,cy) that has
// line of effect from the center, excluding the actor unless includeActor,
// per area_save_damage's contract in §4.11.
func (c *context) targetsInRadius(actor *battle.Unit, cx, cy, tiles int, includeActor bool) []*battle.Unit {
	center := grid.Point{X: cx, Y: cy}
	var out []*battle.Unit
	for _, id := range c.sortedUnitIDs() {
		u := c.state.Units[id]
		if !u.Alive() {
			continue
		}
		if u.ID == actor.ID && !includeActor {
			continue
		}
		if grid.Manhattan(center, u.Position) > tiles {
			continue
		}
		if !grid.HasTileLineOfEffect(c.state.Map, center, u.Position) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func (c *context) sortedUnitIDs() []string {
	ids := make([]string, 0, len(c.state.Units))
	for id := range c.state.Units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EffectDescriptor is one entry of a hazard source's "effects" list: an
// opaque kind-tagged payload the modeled-effect applier interprets.
type EffectDescriptor struct {
	Kind    string
	Payload map[string]any
}

// SelectTargets implements §4.12's modeled target selection. explicitTarget,
// when non-empty, short-circuits to that single unit (after an LOE check).
// descriptors is consulted only for its first "area" descriptor, matching
// the spec's "if one descriptor is an area, branch on shape" wording.
func (c *context) SelectTargets(actor *battle.Unit, explicitTarget string, centerX, centerY *int, descriptors []EffectDescriptor) ([]*battle.Unit, error) {
	if explicitTarget != "" {
		target, ok := c.state.Units[explicitTarget]
		if !ok {
			return nil, newReductionError(CodeUnknownTarget, "unknown target %q", explicitTarget)
		}
		if !grid.HasTileLineOfEffect(c.state.Map, actor.Position, target.Position) {
			return nil, newReductionError(CodeNoLineOfEffect, "no line of effect to %s", explicitTarget)
		}
		return []*battle.Unit{target}, nil
	}

	for _, d := range descriptors {
		if d.Kind != "area" {
			continue
		}
		shape, _ := d.Payload["shape"].(string)
		switch shape {
		case "line":
			if centerX == nil || centerY == nil {
				return nil, newReductionError(CodeInvalidPayload, "line area requires a center")
			}
			return c.lineTargets(actor, *centerX, *centerY), nil
		case "cone":
			if centerX == nil || centerY == nil {
				return nil, newReductionError(CodeInvalidPayload, "cone area requires a center")
			}
			sizeFeet := payloadInt(d.Payload, "size_feet")
			return c.coneTargets(actor, *centerX, *centerY, feetToTiles(sizeFeet)), nil
		case "within_radius", "burst", "radius", "emanation":
			if centerX == nil || centerY == nil {
				return nil, newReductionError(CodeInvalidPayload, "%s area requires a center", shape)
			}
			sizeFeet := payloadInt(d.Payload, "size_feet")
			return c.targetsInRadius(actor, *centerX, *centerY, feetToTiles(sizeFeet), false), nil
		case "size_miles":
			return c.allExceptActor(actor), nil
		}
	}

	return c.allAliveWithLOE(actor), nil
}

func (c *context) lineTargets(actor *battle.Unit, cx, cy int) []*battle.Unit {
	path := grid.Line(actor.Position.X, actor.Position.Y, cx, cy)
	tiles := make(map[grid.Point]bool, len(path))
	for i, p := range path {
		if i == 0 {
			continue // skip origin
		}
		if c.state.Map.IsBlocked(p) {
			break
		}
		tiles[p] = true
	}
	var out []*battle.Unit
	for _, id := range c.sortedUnitIDs() {
		u := c.state.Units[id]
		if u.Alive() && tiles[u.Position] {
			out = append(out, u)
		}
	}
	return out
}

func (c *context) coneTargets(actor *battle.Unit, cx, cy, tiles int) []*battle.Unit {
	cone := grid.Cone(actor.Position.X, actor.Position.Y, cx, cy, tiles)
	set := make(map[grid.Point]bool, len(cone))
	for _, p := range cone {
		set[p] = true
	}
	var out []*battle.Unit
	for _, id := range c.sortedUnitIDs() {
		u := c.state.Units[id]
		if !u.Alive() || u.ID == actor.ID || !set[u.Position] {
			continue
		}
		if grid.HasTileLineOfEffect(c.state.Map, actor.Position, u.Position) {
			out = append(out, u)
		}
	}
	return out
}

func (c *context) allAliveWithLOE(actor *battle.Unit) []*battle.Unit {
	var out []*battle.Unit
	for _, id := range c.sortedUnitIDs() {
		u := c.state.Units[id]
		if !u.Alive() || u.ID == actor.ID {
			continue
		}
		if grid.HasTileLineOfEffect(c.state.Map, actor.Position, u.Position) {
			out = append(out, u)
		}
	}
	return out
}

func (c *context) allExceptActor(actor *battle.Unit) []*battle.Unit {
	var out []*battle.Unit
	for _, id := range c.sortedUnitIDs() {
		u := c.state.Units[id]
		if u.Alive() && u.ID != actor.ID {
			out = append(out, u)
		}
	}
	return out
}
