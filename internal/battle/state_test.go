package battle

import (
	"testing"

	"tactics-engine/internal/grid"
)

func newTestState() *BattleState {
	pc := NewUnit("pc", "players")
	pc.HP, pc.MaxHP = 20, 20
	pc.Position = grid.Point{X: 1, Y: 1}

	return &BattleState{
		BattleID:  "b1",
		Seed:      101,
		RoundNumber: 1,
		TurnOrder: []string{"pc"},
		Units:     map[string]*Unit{"pc": pc},
		Map:       grid.Map{Width: 6, Height: 6},
		Effects:   map[string]*Effect{},
		Flags:     map[string]bool{},
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newTestState()
	clone := s.Clone()

	clone.Units["pc"].HP = 1
	clone.Flags["seen"] = true
	clone.TurnOrder[0] = "other"

	if s.Units["pc"].HP != 20 {
		t.Fatalf("mutating clone's unit mutated original hp: %d", s.Units["pc"].HP)
	}
	if s.Flags["seen"] {
		t.Fatal("mutating clone's flags mutated original")
	}
	if s.TurnOrder[0] != "pc" {
		t.Fatalf("mutating clone's turn order mutated original: %v", s.TurnOrder)
	}
}

func TestNextEventIDPreIncrements(t *testing.T) {
	s := newTestState()
	id, seq := s.NextEventID()
	if id != "ev_000001" || seq != 1 {
		t.Fatalf("got (%s, %d), want (ev_000001, 1)", id, seq)
	}
	id2, seq2 := s.NextEventID()
	if id2 != "ev_000002" || seq2 != 2 {
		t.Fatalf("got (%s, %d), want (ev_000002, 2)", id2, seq2)
	}
}

func TestNextEffectIDOrdinal(t *testing.T) {
	s := newTestState()
	if got := s.NextEffectID(); got != "eff_0001" {
		t.Fatalf("got %s, want eff_0001", got)
	}
	if got := s.NextEffectID(); got != "eff_0002" {
		t.Fatalf("got %s, want eff_0002", got)
	}
}

func TestActiveUnitID(t *testing.T) {
	s := newTestState()
	if got := s.ActiveUnitID(); got != "pc" {
		t.Fatalf("got %q, want pc", got)
	}
	s.TurnIndex = 5
	if got := s.ActiveUnitID(); got != "" {
		t.Fatalf("out-of-range turn index should return empty, got %q", got)
	}
}
