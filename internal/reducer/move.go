package reducer

import (
	"tactics-engine/internal/eventlog"
	"tactics-engine/internal/grid"
)

func (c *context) applyMove(cmd Command) ([]eventlog.Event, error) {
	p := cmd.Move
	actor := c.state.Units[cmd.Actor]
	dest := grid.Point{X: p.X, Y: p.Y}

	if grid.Manhattan(actor.Position, dest) != 1 {
		return nil, newReductionError(CodeInvalidMove, "move destination must be exactly one tile away")
	}
	if !c.state.Map.InBounds(dest) {
		return nil, newReductionError(CodeInvalidMove, "destination (%d,%d) is out of bounds", dest.X, dest.Y)
	}
	occupied := c.occupiedTiles()
	if !c.state.Map.Passable(dest, occupied) {
		return nil, newReductionError(CodeInvalidMove, "destination (%d,%d) is blocked or occupied", dest.X, dest.Y)
	}
	if err := requireAction(actor, 1); err != nil {
		return nil, err
	}

	from := actor.Position
	actor.Position = dest

	var events []eventlog.Event
	events = c.emit(events, "move", map[string]any{
		"actor":            actor.ID,
		"from":             map[string]any{"x": from.X, "y": from.Y},
		"to":               map[string]any{"x": dest.X, "y": dest.Y},
		"actionsRemaining": actor.ActionsRemaining,
	})
	return events, nil
}

// occupiedTiles builds the occupancy set grid.Map.Passable consults, from
// every alive unit's current position.
func (c *context) occupiedTiles() map[grid.Point]bool {
	occupied := make(map[grid.Point]bool, len(c.state.Units))
	for _, u := range c.state.Units {
		if u.Alive() {
			occupied[u.Position] = true
		}
	}
	return occupied
}
