package reducer

import (
	"sort"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/eventlog"
	"tactics-engine/internal/grid"
	"tactics-engine/internal/turnorder"
)

func (c *context) applySpawnUnit(cmd Command) ([]eventlog.Event, error) {
	p := cmd.SpawnUnit
	spec := p.Unit

	if spec.ID == "" {
		return nil, newReductionError(CodeInvalidPayload, "spawn_unit requires a non-empty id")
	}
	if _, exists := c.state.Units[spec.ID]; exists {
		return nil, newReductionError(CodeDuplicateUnitID, "unit id %q already exists", spec.ID)
	}
	if spec.HP <= 0 {
		return nil, newReductionError(CodeInvalidPayload, "spawn_unit requires hp > 0")
	}
	if spec.Team == "" {
		return nil, newReductionError(CodeInvalidPayload, "spawn_unit requires a non-empty team")
	}

	occupied := c.occupiedTiles()
	position, err := c.resolveSpawnPosition(spec.Position, p.PlacementPolicy, occupied)
	if err != nil {
		return nil, err
	}

	u := battle.NewUnit(spec.ID, spec.Team)
	u.HP, u.MaxHP = spec.HP, spec.MaxHP
	if u.MaxHP == 0 {
		u.MaxHP = spec.HP
	}
	u.Position = position
	u.Initiative = spec.Initiative
	u.AttackMod = spec.AttackMod
	u.AC = spec.AC
	u.DamageFormula = spec.Damage
	u.Fortitude, u.Reflex, u.Will = spec.Fortitude, spec.Reflex, spec.Will
	u.Resistances = spec.Resistances
	u.Weaknesses = spec.Weaknesses
	u.Immunities = spec.Immunities
	u.ConditionImmunities = spec.ConditionImmunities

	c.state.Units[u.ID] = u

	activeID := c.state.ActiveUnitID()
	unitList := make([]turnorder.Unit, 0, len(c.state.Units))
	for _, unit := range c.state.Units {
		unitList = append(unitList, unitAdapter{unit})
	}
	order, index := turnorder.RebuildPreservingActive(unitList, activeID)
	c.state.TurnOrder = order
	c.state.TurnIndex = index

	if p.SpendAction {
		if actor, ok := c.state.Units[cmd.Actor]; ok {
			_ = requireAction(actor, 1)
		}
	}

	var events []eventlog.Event
	events = c.emit(events, "spawn_unit", map[string]any{
		"unitId":          u.ID,
		"placementPolicy": p.PlacementPolicy,
		"position":        map[string]any{"x": position.X, "y": position.Y},
	})
	return events, nil
}

func (c *context) resolveSpawnPosition(requested grid.Point, policy string, occupied map[grid.Point]bool) (grid.Point, error) {
	if policy == "exact" {
		if !c.state.Map.Passable(requested, occupied) {
			return grid.Point{}, newReductionError(CodeInvalidPlacement, "requested spawn tile (%d,%d) is unavailable", requested.X, requested.Y)
		}
		return requested, nil
	}

	candidates := make([]grid.Point, 0, c.state.Map.Width*c.state.Map.Height)
	for y := 0; y < c.state.Map.Height; y++ {
		for x := 0; x < c.state.Map.Width; x++ {
			candidates = append(candidates, grid.Point{X: x, Y: y})
		}
	}
	sortByDistanceThenYX(candidates, requested)
	for _, p := range candidates {
		if c.state.Map.Passable(p, occupied) {
			return p, nil
		}
	}
	return grid.Point{}, newReductionError(CodeInvalidPlacement, "no open tile available for nearest_open placement")
}

// sortByDistanceThenYX orders candidates by Manhattan distance to requested,
// then by y, then by x, per §4.11's nearest_open tie-breaking rule.
func sortByDistanceThenYX(candidates []grid.Point, requested grid.Point) {
	sort.Slice(candidates, func(i, j int) bool {
		di := grid.Manhattan(candidates[i], requested)
		dj := grid.Manhattan(candidates[j], requested)
		if di != dj {
			return di < dj
		}
		if candidates[i].Y != candidates[j].Y {
			return candidates[i].Y < candidates[j].Y
		}
		return candidates[i].X < candidates[j].X
	})
}
