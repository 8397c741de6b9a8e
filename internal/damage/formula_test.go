package damage

import (
	"testing"

	"tactics-engine/internal/rng"
)

func TestParseFormulaDice(t *testing.T) {
	f, err := ParseFormula("2d6+3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Dice != 2 || f.Sides != 6 || f.Flat != 3 {
		t.Fatalf("got %+v, want {2 6 3}", f)
	}
}

func TestParseFormulaDiceNegativeFlat(t *testing.T) {
	f, err := ParseFormula("1d4-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Dice != 1 || f.Sides != 4 || f.Flat != -2 {
		t.Fatalf("got %+v, want {1 4 -2}", f)
	}
}

func TestParseFormulaFlat(t *testing.T) {
	f, err := ParseFormula("-5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Dice != 0 || f.Sides != 0 || f.Flat != -5 {
		t.Fatalf("got %+v, want {0 0 -5}", f)
	}
}

func TestParseFormulaInvalid(t *testing.T) {
	if _, err := ParseFormula("2d"); err == nil {
		t.Fatal("expected an error for a malformed formula")
	}
}

func TestRollDamageDeterministic(t *testing.T) {
	r := rng.New(101)
	got, err := RollDamage(r, "2d6+3", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2 := rng.New(101)
	want, err := RollDamage(r2, "2d6+3", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("same seed produced different rolls: %d vs %d", got, want)
	}
}

func TestRollDamageMultiplierHalvesAndFloors(t *testing.T) {
	r := rng.New(1)
	for i := 0; i < 50; i++ {
		got, err := RollDamage(r, "7", 0.5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 3 {
			t.Fatalf("7 * 0.5 should floor to 3, got %d", got)
		}
	}
}

func TestRollDamageClampsAtZero(t *testing.T) {
	r := rng.New(1)
	got, err := RollDamage(r, "-10", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("negative total should clamp to 0, got %d", got)
	}
}

func TestRollDamageCriticalSuccessZeroesOut(t *testing.T) {
	r := rng.New(1)
	got, err := RollDamage(r, "3d6+4", 0.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("multiplier 0.0 should always produce 0, got %d", got)
	}
}
