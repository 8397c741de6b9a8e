package orchestrator

import (
	"encoding/json"
	"fmt"
)

// missionEvent is a decoded mission-event block: a trigger condition, the
// common gates shared by every trigger kind, and the command branches it
// runs once eligible.
type missionEvent struct {
	MissionID string `json:"mission_id"`
	Trigger   string `json:"trigger"`
	Once      bool   `json:"once,omitempty"`

	UnitID string `json:"unit_id,omitempty"`
	Flag   string `json:"flag,omitempty"`
	Value  *bool  `json:"value,omitempty"`

	Round      *int   `json:"round,omitempty"`
	StartRound *int   `json:"start_round,omitempty"`
	EndRound   *int   `json:"end_round,omitempty"`
	ActiveUnit string `json:"active_unit,omitempty"`

	EnabledFlag  string `json:"enabled_flag,omitempty"`
	DisabledFlag string `json:"disabled_flag,omitempty"`

	IfFlag      string `json:"if_flag,omitempty"`
	IfFlagValue *bool  `json:"if_flag_value,omitempty"`

	Commands     []map[string]any `json:"commands,omitempty"`
	ThenCommands []map[string]any `json:"then_commands,omitempty"`
	ElseCommands []map[string]any `json:"else_commands,omitempty"`
}

func decodeMissionEvents(raw []map[string]any) []missionEvent {
	out := make([]missionEvent, 0, len(raw))
	for _, r := range raw {
		body, err := json.Marshal(r)
		if err != nil {
			continue
		}
		var me missionEvent
		if err := json.Unmarshal(body, &me); err != nil {
			continue
		}
		out = append(out, me)
	}
	return out
}

// compileReinforcementWaves turns each reinforcement_waves[] entry into a
// round_start-triggered mission event, per §6's "compiled to mission events
// with trigger round_start".
func compileReinforcementWaves(raw []map[string]any) []missionEvent {
	waves := decodeMissionEvents(raw)
	out := make([]missionEvent, 0, len(waves))
	for i := range waves {
		w := waves[i]
		w.Trigger = "round_start"
		if w.MissionID == "" {
			w.MissionID = fmt.Sprintf("reinforcement_wave_%d", i)
		}
		out = append(out, w)
	}
	return out
}

// missionEligible reports whether a mission event should fire this step, given
// the loop's current round/turn/flags/unit liveness.
func (l *loop) missionEligible(me missionEvent) bool {
	round := l.state.RoundNumber
	turnIndex := l.state.TurnIndex

	switch me.Trigger {
	case "turn_start":
		// always eligible while iterating
	case "round_start":
		if turnIndex != 0 {
			return false
		}
	case "unit_dead":
		u, ok := l.state.Units[me.UnitID]
		if !ok || u.Alive() {
			return false
		}
	case "unit_alive":
		u, ok := l.state.Units[me.UnitID]
		if !ok || !u.Alive() {
			return false
		}
	case "flag_set":
		want := true
		if me.Value != nil {
			want = *me.Value
		}
		if l.state.Flags[me.Flag] != want {
			return false
		}
	default:
		return false
	}

	if me.Round != nil && round != *me.Round {
		return false
	}
	if me.StartRound != nil && round < *me.StartRound {
		return false
	}
	if me.EndRound != nil && round > *me.EndRound {
		return false
	}
	if me.ActiveUnit != "" && l.state.ActiveUnitID() != me.ActiveUnit {
		return false
	}
	if me.EnabledFlag != "" && !l.state.Flags[me.EnabledFlag] {
		return false
	}
	if me.DisabledFlag != "" && l.state.Flags[me.DisabledFlag] {
		return false
	}

	key := fmt.Sprintf("%d:%d:%s", round, turnIndex, me.MissionID)
	if l.missionFired[key] {
		return false
	}
	if me.Once && l.missionFiredEver(me.MissionID) {
		return false
	}
	return true
}

// missionFiredEver reports whether a "once" mission event has already fired
// in any prior round/turn, by scanning the per-turn fired-key set for any
// key ending in this mission's id.
func (l *loop) missionFiredEver(missionID string) bool {
	suffix := ":" + missionID
	for key := range l.missionFired {
		if len(key) >= len(suffix) && key[len(key)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}

// runEligibleMissionEvent runs at most one eligible mission event, per
// priority tier 1.
func (l *loop) runEligibleMissionEvent() bool {
	for _, me := range l.missionEvents {
		if !l.missionEligible(me) {
			continue
		}

		branch := me.Commands
		if me.IfFlag != "" {
			want := true
			if me.IfFlagValue != nil {
				want = *me.IfFlagValue
			}
			if l.state.Flags[me.IfFlag] == want {
				branch = me.ThenCommands
			} else {
				branch = me.ElseCommands
			}
		}

		key := fmt.Sprintf("%d:%d:%s", l.state.RoundNumber, l.state.TurnIndex, me.MissionID)
		l.missionFired[key] = true

		l.emitOrchestratorEvent("ev_mission_", "mission_event", map[string]any{
			"mission_id": me.MissionID,
			"trigger":    me.Trigger,
		})
		for _, cmd := range branch {
			if err := l.dispatch(cmd); err != nil {
				l.emitCommandError(cmd, err)
				l.fatalErr = err
				return true
			}
			l.autoExecuted++
		}
		return true
	}
	return false
}
