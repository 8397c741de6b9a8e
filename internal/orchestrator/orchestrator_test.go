package orchestrator

import (
	"testing"

	"tactics-engine/internal/contentpack"
	"tactics-engine/internal/effectmodel"
	"tactics-engine/internal/scenario"
)

func mustParseEffectModel(t *testing.T, raw string) *effectmodel.Catalog {
	t.Helper()
	catalog, err := effectmodel.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected effect-model parse error: %v", err)
	}
	return catalog
}

func mustValidate(t *testing.T, raw string) *scenario.Document {
	t.Helper()
	doc, err := scenario.Validate([]byte(raw))
	if err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
	return doc
}

func TestRunTwoUnitMeleeSequence(t *testing.T) {
	doc := mustValidate(t, `{
		"battle_id": "melee", "seed": 101,
		"map": {"width": 6, "height": 6},
		"units": [
			{"id": "pc", "team": "players", "hp": 20, "initiative": 15, "attack_mod": 6, "ac": 16, "damage": "1d8+3", "position": [1,1]},
			{"id": "enemy", "team": "enemies", "hp": 20, "initiative": 10, "attack_mod": 5, "ac": 15, "damage": "1d6+2", "position": [3,3]}
		],
		"commands": [
			{"actor": "pc", "type": "strike", "target": "enemy"},
			{"actor": "pc", "type": "end_turn"},
			{"actor": "enemy", "type": "end_turn"}
		]
	}`)

	result, err := Run(doc, nil, nil, Config{EnginePhase: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExecutedCommands != 3 {
		t.Fatalf("expected 3 executed commands, got %d", result.ExecutedCommands)
	}
	if len(result.ReplayHash) != 64 {
		t.Fatalf("expected a 64-char hex replay hash, got %q", result.ReplayHash)
	}

	again, err := Run(doc, nil, nil, Config{EnginePhase: 7})
	if err != nil {
		t.Fatalf("unexpected error on rerun: %v", err)
	}
	if again.ReplayHash != result.ReplayHash {
		t.Fatal("expected the same seed/scenario to produce an identical replay hash")
	}
}

func TestRunStopsOnScriptExhaustionWithoutEnemyPolicy(t *testing.T) {
	doc := mustValidate(t, `{
		"battle_id": "empty", "seed": 1,
		"map": {"width": 4, "height": 4},
		"units": [{"id": "pc", "team": "players", "hp": 10, "position": [0,0]}]
	}`)
	result, err := Run(doc, nil, nil, Config{EnginePhase: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.StopReason != StopScriptExhausted {
		t.Fatalf("got stop reason %q", result.StopReason)
	}
}

func TestRunAreaSaveDamageExcludesTargetsWithoutLineOfEffect(t *testing.T) {
	doc := mustValidate(t, `{
		"battle_id": "fireball", "seed": 7,
		"map": {"width": 6, "height": 6, "blocked": [[1,0]]},
		"units": [
			{"id": "caster", "team": "players", "hp": 20, "position": [0,0]},
			{"id": "blocked", "team": "enemies", "hp": 20, "fortitude": 2, "position": [2,0]},
			{"id": "clear", "team": "enemies", "hp": 20, "fortitude": 2, "position": [0,2]}
		],
		"commands": [
			{"actor": "caster", "type": "area_save_damage", "center_x": 0, "center_y": 0, "radius_feet": 10, "dc": 5, "save_type": "Reflex", "damage": "1d4", "mode": "basic"},
			{"actor": "caster", "type": "end_turn"}
		]
	}`)

	result, err := Run(doc, nil, nil, Config{EnginePhase: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resolutions []map[string]any
	for _, ev := range result.Events {
		if ev.Type != "area_save_damage" {
			continue
		}
		raw, ok := ev.Payload["resolutions"].([]map[string]any)
		if !ok {
			t.Fatalf("area_save_damage payload missing resolutions list: %#v", ev.Payload["resolutions"])
		}
		resolutions = raw
	}
	if resolutions == nil {
		t.Fatal("expected an area_save_damage event")
	}
	hit := map[string]bool{}
	for _, r := range resolutions {
		id, _ := r["target"].(string)
		hit[id] = true
	}
	if hit["blocked"] {
		t.Fatal("expected the target behind the blocked tile to be excluded from resolutions")
	}
	if !hit["clear"] {
		t.Fatal("expected the target with a clear line of effect to be included in resolutions")
	}
}

func TestRunEnemyPolicyMaterializesContentEntryThenAutoEndsTurn(t *testing.T) {
	doc := mustValidate(t, `{
		"battle_id": "policy", "seed": 42,
		"map": {"width": 6, "height": 6},
		"units": [
			{"id": "pc", "team": "players", "hp": 20, "fortitude": 2, "initiative": 5, "position": [0,0]},
			{"id": "foe", "team": "enemies", "hp": 20, "initiative": 1, "position": [1,0]}
		],
		"commands": [
			{"actor": "pc", "type": "end_turn"}
		],
		"enemy_policy": {
			"enabled": true, "teams": ["enemies"], "action": "cast_spell_entry_nearest",
			"content_entry_id": "spell.arc_flash", "dc": 22,
			"include_rationale": true, "auto_end_turn": true
		}
	}`)

	pack, err := contentpack.Parse([]byte(`{
		"pack_id": "core", "version": "1.0.0",
		"compatibility": {"min_engine_phase": 1, "max_engine_phase": 10},
		"entries": [
			{"id": "spell.arc_flash", "kind": "spell", "tags": ["fire"], "payload": {
				"command_type": "cast_spell", "save_type": "Reflex", "damage": "2d6", "damage_type": "fire"
			}}
		]
	}`))
	if err != nil {
		t.Fatalf("unexpected content pack parse error: %v", err)
	}

	result, err := Run(doc, pack, nil, Config{EnginePhase: 7, MaxSteps: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var sawDecision, sawSpell bool
	for _, ev := range result.Events {
		switch ev.Type {
		case "enemy_policy_decision":
			sawDecision = true
			cmd, _ := ev.Payload["command"].(map[string]any)
			if cmd["content_entry_id"] != "spell.arc_flash" {
				t.Fatalf("expected the decision to record the content entry id, got %#v", cmd)
			}
		case "cast_spell":
			sawSpell = true
			if ev.Payload["damage"] == nil {
				t.Fatal("expected the materialized cast_spell's damage resolution in the event payload")
			}
		}
	}
	if !sawDecision {
		t.Fatal("expected an enemy_policy_decision event")
	}
	if !sawSpell {
		t.Fatal("expected a materialized cast_spell event")
	}
	if result.StopReason != StopScriptExhausted {
		t.Fatalf("expected the script to exhaust after the auto end_turn, got %q", result.StopReason)
	}
}

func TestRunHazardRoutineCadenceRespectsMaxTriggers(t *testing.T) {
	doc := mustValidate(t, `{
		"battle_id": "cadence", "seed": 5150,
		"map": {"width": 6, "height": 6},
		"units": [
			{"id": "haz", "team": "hazards", "hp": 1, "position": [0,0]},
			{"id": "target", "team": "players", "hp": 20, "fortitude": 2, "position": [1,0]}
		],
		"hazard_routines": [
			{"id": "r1", "unit_id": "haz", "hazard_id": "h1", "source_name": "s1", "source_type": "routine", "start_round": 1, "cadence_rounds": 2, "max_triggers": 2, "priority": 0, "target": "target"}
		],
		"commands": [
			{"actor": "haz", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"},
			{"actor": "haz", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"},
			{"actor": "haz", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"},
			{"actor": "haz", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"},
			{"actor": "haz", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"}
		]
	}`)

	catalogJSON := `{"hazards":{"entries":[{"hazard_id":"h1","sources":[
		{"source_type":"routine","source_name":"s1","effects":[{"kind":"damage","payload":{"formula":"1","damage_type":"fire"}}]}
	]}]}}`
	catalog := mustParseEffectModel(t, catalogJSON)

	result, err := Run(doc, nil, catalog, Config{EnginePhase: 7, MaxSteps: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AutoExecutedCommands != 2 {
		t.Fatalf("expected the routine to fire exactly twice (rounds 1 and 3; max_triggers stops round 5), got %d auto-executed commands", result.AutoExecutedCommands)
	}
}

func TestRunAfflictionProgressesThroughStagesWithoutExpiringOnFailure(t *testing.T) {
	doc := mustValidate(t, `{
		"battle_id": "dose", "seed": 5150,
		"map": {"width": 6, "height": 6},
		"units": [
			{"id": "caster", "team": "players", "hp": 20, "initiative": 10, "position": [0,0]},
			{"id": "target", "team": "enemies", "hp": 30, "fortitude": -100, "initiative": 1, "position": [1,0]}
		],
		"commands": [
			{"actor": "caster", "type": "trigger_hazard_source", "hazard_id": "h1", "source_name": "s1", "source_type": "trigger_action", "target": "target"},
			{"actor": "caster", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"},
			{"actor": "caster", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"},
			{"actor": "caster", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"},
			{"actor": "caster", "type": "end_turn"},
			{"actor": "target", "type": "end_turn"}
		]
	}`)

	catalogJSON := `{"hazards":{"entries":[{"hazard_id":"h1","sources":[
		{"source_type":"trigger_action","source_name":"s1","raw_text":"Any sickened condition persists.","effects":[
			{"kind":"affliction","payload":{
				"save_type":"fortitude","dc":18,
				"maximum_duration_amount":4,"maximum_duration_unit":"round",
				"stages":[
					{"stage":1,"conditions":{"sickened":1}},
					{"stage":2,"conditions":{"sickened":2},"damage":"1d6"}
				]
			}}
		]}
	]}]}}`
	catalog := mustParseEffectModel(t, catalogJSON)

	result, err := Run(doc, nil, catalog, Config{EnginePhase: 7, MaxSteps: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	target := result.FinalState.Units["target"]
	if target == nil {
		t.Fatal("expected target to survive in the final state")
	}
	// target's fortitude is so far below the DC that every re-rolled save
	// lands on failure or critical_failure (never success or
	// critical_success), so the affliction can only hold or escalate its
	// stage and is never cured by a save. Its 4-round duration runs out on
	// the fourth tick, but expiry does not clear stage conditions, so
	// sickened must still be present at either stage's value.
	stage, ok := target.Conditions["sickened"]
	if !ok {
		t.Fatal("expected the target to still carry the sickened condition after repeated failed saves")
	}
	if stage != 1 && stage != 2 {
		t.Fatalf("expected sickened stage to be 1 or 2, got %d", stage)
	}

	var sawAfflictionTick bool
	for _, ev := range result.Events {
		if ev.Type == "affliction_tick" {
			sawAfflictionTick = true
		}
	}
	if !sawAfflictionTick {
		t.Fatal("expected at least one affliction_tick lifecycle event")
	}
}

func TestRunHoldoutObjectivePackEndsInVictoryWhenProtectedTeamSurvives(t *testing.T) {
	doc := mustValidate(t, `{
		"battle_id": "siege", "seed": 9,
		"map": {"width": 6, "height": 6},
		"units": [
			{"id": "pc", "team": "pc", "hp": 20, "initiative": 10, "position": [0,0]},
			{"id": "foe", "team": "enemies", "hp": 20, "initiative": 1, "position": [4,4]}
		],
		"commands": [
			{"actor": "pc", "type": "end_turn"},
			{"actor": "foe", "type": "end_turn"},
			{"actor": "pc", "type": "end_turn"},
			{"actor": "foe", "type": "end_turn"},
			{"actor": "pc", "type": "end_turn"},
			{"actor": "foe", "type": "end_turn"}
		],
		"objective_packs": [
			{"id": "hold", "type": "holdout", "round": 3, "protect_team": "pc"}
		]
	}`)

	result, err := Run(doc, nil, nil, Config{EnginePhase: 7, MaxSteps: 50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.StopReason != StopBattleEnd {
		t.Fatalf("expected the holdout pack to end the battle, got stop reason %q", result.StopReason)
	}

	var outcome string
	for _, ev := range result.Events {
		if ev.Type == "battle_end" {
			outcome, _ = ev.Payload["outcome"].(string)
		}
	}
	if outcome != "victory" {
		t.Fatalf("expected a victory outcome once pc survives to round 3, got %q", outcome)
	}
}
