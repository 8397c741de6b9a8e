package orchestrator

import (
	"encoding/json"
	"sort"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/grid"
)

// enemyPolicy is the decoded enemy_policy{} block.
type enemyPolicy struct {
	Enabled          bool     `json:"enabled"`
	Teams            []string `json:"teams,omitempty"`
	Action           string   `json:"action"`
	ContentEntryID   string   `json:"content_entry_id,omitempty"`
	DC               int      `json:"dc,omitempty"`
	IncludeRationale bool     `json:"include_rationale,omitempty"`
	AutoEndTurn      bool     `json:"auto_end_turn,omitempty"`
}

func (l *loop) decodeEnemyPolicy() (enemyPolicy, bool) {
	if l.doc.EnemyPolicy == nil {
		return enemyPolicy{}, false
	}
	body, err := json.Marshal(l.doc.EnemyPolicy)
	if err != nil {
		return enemyPolicy{}, false
	}
	var p enemyPolicy
	if err := json.Unmarshal(body, &p); err != nil {
		return enemyPolicy{}, false
	}
	return p, true
}

// decideEnemyPolicy implements §4.14's enemy-policy tier: once the script
// is exhausted, if the active unit belongs to a configured team, emit a
// policy-driven command. Returns ok=false when no policy applies, in which
// case the loop treats the script as exhausted.
func (l *loop) decideEnemyPolicy() (map[string]any, bool) {
	policy, ok := l.decodeEnemyPolicy()
	if !ok || !policy.Enabled {
		return nil, false
	}
	actor := l.state.Units[l.state.ActiveUnitID()]
	if actor == nil || !l.onPolicyTeam(policy, actor.Team) {
		return nil, false
	}

	var cmd map[string]any
	switch policy.Action {
	case "strike_nearest":
		cmd = l.decideStrikeNearest(actor)
	case "cast_spell_entry_nearest":
		cmd = l.decideCastSpellEntryNearest(actor, policy)
	case "use_feat_entry_self":
		cmd = map[string]any{"actor": actor.ID, "type": "use_feat", "target": actor.ID, "content_entry_id": policy.ContentEntryID}
	case "use_item_entry_self":
		cmd = map[string]any{"actor": actor.ID, "type": "use_item", "target": actor.ID, "content_entry_id": policy.ContentEntryID}
	case "interact_entry_self":
		cmd = map[string]any{"actor": actor.ID, "type": "interact", "target": actor.ID, "interact_id": policy.ContentEntryID}
	default:
		cmd = map[string]any{"actor": actor.ID, "type": "end_turn"}
	}

	if policy.IncludeRationale {
		l.emitOrchestratorEvent("ev_policy_", "enemy_policy_decision", map[string]any{
			"actor": actor.ID, "action": policy.Action, "command": cmd,
		})
	}

	return cmd, true
}

func (l *loop) onPolicyTeam(policy enemyPolicy, team string) bool {
	if len(policy.Teams) == 0 {
		return true
	}
	for _, t := range policy.Teams {
		if t == team {
			return true
		}
	}
	return false
}

func (l *loop) decideStrikeNearest(actor *battle.Unit) map[string]any {
	target := l.nearestEnemyChebyshev(actor)
	if target == nil {
		return map[string]any{"actor": actor.ID, "type": "end_turn"}
	}
	if actor.Reach >= chebyshev(actor.Position, target.Position) {
		return map[string]any{"actor": actor.ID, "type": "strike", "target": target.ID}
	}
	step := stepToward(actor.Position, target.Position)
	if step == actor.Position {
		return map[string]any{"actor": actor.ID, "type": "end_turn"}
	}
	return map[string]any{"actor": actor.ID, "type": "move", "x": step.X, "y": step.Y}
}

func (l *loop) decideCastSpellEntryNearest(actor *battle.Unit, policy enemyPolicy) map[string]any {
	target := l.nearestEnemyChebyshev(actor)
	if target == nil {
		return map[string]any{"actor": actor.ID, "type": "end_turn"}
	}
	return map[string]any{
		"actor": actor.ID, "type": "cast_spell", "target": target.ID,
		"content_entry_id": policy.ContentEntryID, "dc": policy.DC,
	}
}

// nearestEnemyChebyshev returns the nearest (Chebyshev distance,
// lexicographic id tiebreak via the sorted id scan) living enemy with a
// clear line of effect from actor, per §4.14's strike_nearest/
// cast_spell_entry_nearest dispatch rule. Candidates behind LOE-blocking
// terrain are skipped entirely rather than selected and then rejected by
// the reducer.
func (l *loop) nearestEnemyChebyshev(actor *battle.Unit) *battle.Unit {
	ids := l.sortedUnitIDs()
	var nearest *battle.Unit
	best := -1
	for _, id := range ids {
		u := l.state.Units[id]
		if !u.Alive() || u.Team == actor.Team {
			continue
		}
		if !grid.HasTileLineOfEffect(l.state.Map, actor.Position, u.Position) {
			continue
		}
		dist := chebyshev(actor.Position, u.Position)
		if best == -1 || dist < best {
			best, nearest = dist, u
		}
	}
	return nearest
}

func (l *loop) sortedUnitIDs() []string {
	ids := make([]string, 0, len(l.state.Units))
	for id := range l.state.Units {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func chebyshev(a, b grid.Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// stepToward returns the single-tile step from a toward b (greedy, one axis
// at a time), or a unchanged if a equals b.
func stepToward(a, b grid.Point) grid.Point {
	next := a
	if a.X < b.X {
		next.X++
	} else if a.X > b.X {
		next.X--
	} else if a.Y < b.Y {
		next.Y++
	} else if a.Y > b.Y {
		next.Y--
	}
	return next
}
