package orchestrator

import (
	"encoding/json"
)

// objective is a decoded objectives[] entry (or one expanded from an
// objective_packs[] entry).
type objective struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Team   string `json:"team,omitempty"`
	X      *int   `json:"x,omitempty"`
	Y      *int   `json:"y,omitempty"`
	UnitID string `json:"unit_id,omitempty"`
	Flag   string `json:"flag,omitempty"`
	Value  *bool  `json:"value,omitempty"`
	Round  int    `json:"round,omitempty"`
	// Result is "victory" or "defeat"; defaults to "victory" when empty.
	Result string `json:"result,omitempty"`
}

func decodeObjectives(raw []map[string]any) []objective {
	out := make([]objective, 0, len(raw))
	for _, r := range raw {
		body, err := json.Marshal(r)
		if err != nil {
			continue
		}
		var o objective
		if err := json.Unmarshal(body, &o); err != nil {
			continue
		}
		if o.Result == "" {
			o.Result = "victory"
		}
		out = append(out, o)
	}
	return out
}

// objectivePack is a decoded objective_packs[] entry, expanded into one or
// more concrete objectives per §4.14.
type objectivePack struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Team          string `json:"team,omitempty"`
	ProtectTeam   string `json:"protect_team,omitempty"`
	Round         int    `json:"round,omitempty"`
	X             *int   `json:"x,omitempty"`
	Y             *int   `json:"y,omitempty"`
	UnitID        string `json:"unit_id,omitempty"`
	DefeatOnDeath *bool  `json:"defeat_on_death,omitempty"`
}

func expandObjectivePacks(raw []map[string]any) []objective {
	var out []objective
	for _, r := range raw {
		body, err := json.Marshal(r)
		if err != nil {
			continue
		}
		var p objectivePack
		if err := json.Unmarshal(body, &p); err != nil {
			continue
		}

		switch p.Type {
		case "eliminate_team":
			out = append(out, objective{ID: p.ID, Type: "team_eliminated", Team: p.Team, Result: "victory"})
		case "escape_unit":
			out = append(out, objective{ID: p.ID + ":reach", Type: "unit_reach_tile", UnitID: p.UnitID, X: p.X, Y: p.Y, Result: "victory"})
			if p.DefeatOnDeath == nil || *p.DefeatOnDeath {
				out = append(out, objective{ID: p.ID + ":death", Type: "unit_dead", UnitID: p.UnitID, Result: "defeat"})
			}
		case "holdout":
			out = append(out, objective{ID: p.ID + ":round", Type: "round_at_least", Round: p.Round, Result: "victory"})
			out = append(out, objective{ID: p.ID + ":protect", Type: "team_eliminated", Team: p.ProtectTeam, Result: "defeat"})
		}
	}
	return out
}

// objectiveMet evaluates a single objective against the current state.
func (l *loop) objectiveMet(o objective) bool {
	switch o.Type {
	case "team_eliminated":
		for _, u := range l.state.Units {
			if u.Team == o.Team && u.Alive() {
				return false
			}
		}
		return true
	case "unit_reach_tile":
		u, ok := l.state.Units[o.UnitID]
		if !ok || !u.Alive() || o.X == nil || o.Y == nil {
			return false
		}
		return u.Position.X == *o.X && u.Position.Y == *o.Y
	case "flag_set":
		want := true
		if o.Value != nil {
			want = *o.Value
		}
		return l.state.Flags[o.Flag] == want
	case "round_at_least":
		return l.state.RoundNumber >= o.Round
	case "unit_dead":
		u, ok := l.state.Units[o.UnitID]
		return ok && !u.Alive()
	case "unit_alive":
		u, ok := l.state.Units[o.UnitID]
		return ok && u.Alive()
	default:
		return false
	}
}

// checkObjectives evaluates every objective, emits an objective_update when
// the set of met statuses changed, and appends a battle_end event (and
// reports true to stop the loop) when any defeat objective is met or every
// victory objective is met.
func (l *loop) checkObjectives() bool {
	statuses := make(map[string]bool, len(l.objectives))
	changed := false
	anyDefeatMet := false
	allVictoryMet := true
	hasVictory := false

	for _, o := range l.objectives {
		met := l.objectiveMet(o)
		statuses[o.ID] = met
		if l.lastObjectiveStatuses[o.ID] != met {
			changed = true
		}
		if o.Result == "defeat" {
			if met {
				anyDefeatMet = true
			}
		} else {
			hasVictory = true
			if !met {
				allVictoryMet = false
			}
		}
	}
	l.lastObjectiveStatuses = statuses

	if changed {
		l.emitOrchestratorEvent("ev_obj_", "objective_update", map[string]any{"statuses": statuses})
	}

	if anyDefeatMet {
		l.emitBattleEnd("defeat")
		return true
	}
	if hasVictory && allVictoryMet {
		l.emitBattleEnd("victory")
		return true
	}
	if len(l.objectives) == 0 && len(l.initialTeams) > 1 {
		// With no authored objectives, fall back to the "ties for
		// winner_team" elimination rule: a lone surviving team wins, no
		// survivors is a draw, otherwise the battle continues. Only
		// meaningful once the battle started with more than one team.
		if winner, draw := l.soleSurvivingTeam(); winner != "" || draw {
			outcome := "victory"
			if draw {
				outcome = "draw"
			}
			l.emitBattleEnd(outcome)
			return true
		}
	}

	return false
}

// soleSurvivingTeam implements the "ties for winner_team" rule: if exactly
// one team has alive units, that team wins; if zero teams do, it's a draw;
// otherwise the battle has not terminated on this basis.
func (l *loop) soleSurvivingTeam() (winner string, draw bool) {
	aliveTeams := make(map[string]bool)
	for _, u := range l.state.Units {
		if u.Alive() {
			aliveTeams[u.Team] = true
		}
	}
	if len(aliveTeams) == 0 {
		return "", true
	}
	if len(aliveTeams) == 1 {
		for team := range aliveTeams {
			return team, false
		}
	}
	return "", false
}

func (l *loop) emitBattleEnd(outcome string) {
	l.emitOrchestratorEvent("ev_done_", "battle_end", map[string]any{"outcome": outcome})
}
