package effect

import (
	"testing"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/grid"
	"tactics-engine/internal/rng"
)

func newState() *battle.BattleState {
	u := battle.NewUnit("target", "enemy")
	u.HP, u.MaxHP = 20, 20
	u.Fortitude = 2
	u.Position = grid.Point{X: 0, Y: 0}
	return &battle.BattleState{
		TurnOrder: []string{"target"},
		Units:     map[string]*battle.Unit{"target": u},
		Map:       grid.Map{Width: 6, Height: 6},
		Effects:   map[string]*battle.Effect{},
		Flags:     map[string]bool{},
	}
}

func TestInferPersistentConditionsMatchesPattern(t *testing.T) {
	text := "The poison burns through the veins. Any sickened condition persists after the toxin clears."
	got := InferPersistentConditions(text)
	if len(got) != 1 || got[0] != "sickened" {
		t.Fatalf("got %v, want [sickened]", got)
	}
}

func TestInferPersistentConditionsNoMatch(t *testing.T) {
	if got := InferPersistentConditions("a mundane strike"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestApplyTempHPTracksOwner(t *testing.T) {
	s := newState()
	e := &battle.Effect{
		ID: "eff_0001", Kind: battle.EffectTempHP, TargetUnitID: "target",
		Payload: map[string]any{"amount": 5, "source": "shield spell"},
	}
	Apply(s, e, rng.New(1))
	target := s.Units["target"]
	if target.TempHP.Amount != 5 || target.TempHP.OwnerEffect != "eff_0001" {
		t.Fatalf("got %+v", target.TempHP)
	}
}

func TestExpireReleasesOwnedTempHP(t *testing.T) {
	s := newState()
	duration := 1
	e := &battle.Effect{
		ID: "eff_0001", Kind: battle.EffectTempHP, TargetUnitID: "target",
		Payload: map[string]any{"amount": 5, "source": "shield spell"},
		DurationRounds: &duration, TickTiming: battle.TickTurnEnd,
	}
	r := rng.New(1)
	Apply(s, e, r)
	ProcessTiming(s, []string{"eff_0001"}, r, battle.TickTurnEnd, "target")

	target := s.Units["target"]
	if target.TempHP.Amount != 0 {
		t.Fatalf("expected owned temp hp released on expiry, got %+v", target.TempHP)
	}
	if _, ok := s.Effects["eff_0001"]; ok {
		t.Fatal("expected effect to be removed")
	}
}

func TestAfflictionInitialApplyStage1(t *testing.T) {
	s := newState()
	affliction := &battle.AfflictionPayload{
		SaveType: "fortitude", DC: 18, MaximumDurationRounds: 4,
		Stages: []battle.AfflictionStage{
			{Stage: 1, Conditions: map[string]int{"sickened": 1}},
			{Stage: 2, Conditions: map[string]int{"sickened": 2}, Damage: "1d6"},
		},
		CurrentStage: 1,
	}
	duration := 4
	e := &battle.Effect{
		ID: "eff_0001", Kind: battle.EffectAffliction, TargetUnitID: "target",
		Affliction: affliction, DurationRounds: &duration, TickTiming: battle.TickTurnEnd,
	}
	Apply(s, e, rng.New(1))
	if s.Units["target"].Conditions["sickened"] != 1 {
		t.Fatalf("got %+v, want sickened=1", s.Units["target"].Conditions)
	}
}

func TestAfflictionTickSuccessReducesStage(t *testing.T) {
	s := newState()
	s.Units["target"].Fortitude = 30
	affliction := &battle.AfflictionPayload{
		SaveType: "fortitude", DC: 1,
		Stages: []battle.AfflictionStage{
			{Stage: 1, Conditions: map[string]int{"sickened": 1}},
		},
		CurrentStage: 1,
	}
	e := &battle.Effect{
		ID: "eff_0001", Kind: battle.EffectAffliction, TargetUnitID: "target",
		Affliction: affliction, TickTiming: battle.TickTurnEnd,
	}
	s.Effects["eff_0001"] = e
	r := rng.New(5150)

	ProcessTiming(s, []string{"eff_0001"}, r, battle.TickTurnEnd, "target")

	if _, ok := s.Effects["eff_0001"]; ok {
		t.Fatal("expected affliction at stage 1 to be removed once the save succeeds")
	}
}
