package reducer

import (
	"testing"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/grid"
	"tactics-engine/internal/rng"
)

func hazardState() *battle.BattleState {
	haz := battle.NewUnit("haz", "hazards")
	haz.HP, haz.MaxHP = 1, 1
	haz.Position = grid.Point{X: 0, Y: 0}

	target := battle.NewUnit("target", "players")
	target.HP, target.MaxHP = 20, 20
	target.Fortitude = 2
	target.Position = grid.Point{X: 1, Y: 0}

	return &battle.BattleState{
		BattleID:  "hazard",
		Seed:      5150,
		RoundNumber: 1,
		TurnOrder: []string{"haz", "target"},
		Units:     map[string]*battle.Unit{"haz": haz, "target": target},
		Map:       grid.Map{Width: 6, Height: 6},
		Effects:   map[string]*battle.Effect{},
		Flags:     map[string]bool{},
	}
}

func TestTriggerHazardSourceAppliesAffliction(t *testing.T) {
	state := hazardState()
	r := rng.New(5150)

	payload := (&HazardPayload{
		HazardID: "h1", SourceName: "s1", SourceType: "trigger_action", Target: "target",
	}).WithResolvedDescriptors([]EffectDescriptor{{
		Kind: "affliction",
		Payload: map[string]any{
			"save_type": "fortitude", "dc": 18,
			"maximum_duration_amount": 4, "maximum_duration_unit": "round",
			"raw_text": "Any sickened condition persists.",
			"stages": []battle.AfflictionStage{
				{Stage: 1, Conditions: map[string]int{"sickened": 1}},
				{Stage: 2, Conditions: map[string]int{"sickened": 2}, Damage: "1d6"},
			},
		},
	}})

	next, events, err := Apply(state, Command{Actor: "haz", Type: CommandTriggerHazardSource, TriggerHazard: payload}, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) == 0 || events[0].Type != "trigger_hazard_source" {
		t.Fatalf("expected a trigger_hazard_source event, got %+v", events)
	}

	target := next.Units["target"]
	if target.Conditions["sickened"] == 0 && target.HP == 20 {
		// Both a failed save (stage applied) and a success (no effect) are
		// valid outcomes depending on the roll; only assert internal
		// consistency rather than a specific degree.
		if len(next.Effects) != 0 {
			t.Fatalf("no affliction contracted but an effect was stored: %+v", next.Effects)
		}
	}
}

func TestRunHazardRoutineNearestEnemyRewritesTarget(t *testing.T) {
	state := hazardState()
	r := rng.New(1)

	payload := (&HazardPayload{
		HazardID: "h1", SourceName: "s1", SourceType: "routine", TargetPolicy: "nearest_enemy",
	}).WithResolvedDescriptors([]EffectDescriptor{{
		Kind:    "damage",
		Payload: map[string]any{"formula": "1", "damage_type": "fire"},
	}})

	_, events, err := Apply(state, Command{Actor: "haz", Type: CommandRunHazardRoutine, RunHazardRoutine: payload}, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected at least one event")
	}
}
