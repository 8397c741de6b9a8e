package orchestrator

import (
	"encoding/json"
	"fmt"
	"sort"
)

// hazardRoutine is a decoded hazard_routines[] entry: a cadence-gated
// trigger of a named hazard source against the active unit's turn.
type hazardRoutine struct {
	ID            string `json:"id"`
	UnitID        string `json:"unit_id"`
	HazardID      string `json:"hazard_id"`
	SourceName    string `json:"source_name"`
	SourceType    string `json:"source_type,omitempty"`
	TargetPolicy  string `json:"target_policy,omitempty"`
	Target        string `json:"target,omitempty"`
	CenterX       *int   `json:"center_x,omitempty"`
	CenterY       *int   `json:"center_y,omitempty"`
	ModelPath     string `json:"model_path,omitempty"`

	StartRound    int  `json:"start_round"`
	EndRound      *int `json:"end_round,omitempty"`
	CadenceRounds int  `json:"cadence_rounds"`
	MaxTriggers   *int `json:"max_triggers,omitempty"`
	Priority      int  `json:"priority,omitempty"`

	EnabledFlag  string `json:"enabled_flag,omitempty"`
	DisabledFlag string `json:"disabled_flag,omitempty"`
	AutoEndTurn  bool   `json:"auto_end_turn,omitempty"`
}

func decodeHazardRoutines(raw []map[string]any) []hazardRoutine {
	out := make([]hazardRoutine, 0, len(raw))
	for _, r := range raw {
		body, err := json.Marshal(r)
		if err != nil {
			continue
		}
		var hr hazardRoutine
		if err := json.Unmarshal(body, &hr); err != nil {
			continue
		}
		if hr.CadenceRounds <= 0 {
			hr.CadenceRounds = 1
		}
		out = append(out, hr)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (l *loop) hazardEligible(hr hazardRoutine) bool {
	if l.state.ActiveUnitID() != hr.UnitID {
		return false
	}
	if hr.MaxTriggers != nil && l.hazardFired[hr.ID] >= *hr.MaxTriggers {
		return false
	}
	round := l.state.RoundNumber
	turnKey := fmt.Sprintf("%d:%d:%s", round, l.state.TurnIndex, hr.ID)
	if l.hazardTurnFired[turnKey] {
		return false
	}
	if round < hr.StartRound {
		return false
	}
	if hr.EndRound != nil && round > *hr.EndRound {
		return false
	}
	if (round-hr.StartRound)%hr.CadenceRounds != 0 {
		return false
	}
	if hr.EnabledFlag != "" && !l.state.Flags[hr.EnabledFlag] {
		return false
	}
	if hr.DisabledFlag != "" && l.state.Flags[hr.DisabledFlag] {
		return false
	}
	return true
}

// runEligibleHazardRoutine runs every eligible hazard routine for the
// active unit, in (priority, id) order, per priority tier 2.
func (l *loop) runEligibleHazardRoutine() bool {
	ran := false
	for _, hr := range l.hazardRoutines {
		if !l.hazardEligible(hr) {
			continue
		}

		cmd := map[string]any{
			"actor":         hr.UnitID,
			"type":          "run_hazard_routine",
			"hazard_id":     hr.HazardID,
			"source_name":   hr.SourceName,
			"source_type":   hr.SourceType,
			"target_policy": hr.TargetPolicy,
		}
		if hr.Target != "" {
			cmd["target"] = hr.Target
		}
		if hr.CenterX != nil {
			cmd["center_x"] = *hr.CenterX
		}
		if hr.CenterY != nil {
			cmd["center_y"] = *hr.CenterY
		}

		turnKey := fmt.Sprintf("%d:%d:%s", l.state.RoundNumber, l.state.TurnIndex, hr.ID)
		l.hazardTurnFired[turnKey] = true
		l.hazardFired[hr.ID]++

		if err := l.dispatch(cmd); err != nil {
			l.emitCommandError(cmd, err)
			l.fatalErr = err
			return true
		}
		l.autoExecuted++
		ran = true

		if hr.AutoEndTurn {
			endTurn := map[string]any{"actor": hr.UnitID, "type": "end_turn"}
			if err := l.dispatch(endTurn); err != nil {
				l.emitCommandError(endTurn, err)
				l.fatalErr = err
				return true
			}
			l.autoExecuted++
		}
	}
	return ran
}
