package grid

import "testing"

func TestLineOfEffectCornerPinch(t *testing.T) {
	m := Map{Width: 5, Height: 5, Blocked: map[Point]bool{
		{1, 0}: true,
		{0, 1}: true,
	}}
	if HasTileLineOfEffect(m, Point{0, 0}, Point{1, 1}) {
		t.Fatal("expected corner pinch to block diagonal LOE")
	}
}

func TestLineOfEffectSingleBlockedSideStillLegal(t *testing.T) {
	m := Map{Width: 5, Height: 5, Blocked: map[Point]bool{
		{1, 0}: true,
	}}
	if !HasTileLineOfEffect(m, Point{0, 0}, Point{1, 1}) {
		t.Fatal("expected LOE with only one blocked adjacent tile")
	}
}

func TestLineOfEffectBlockedTargetTileBreaksLine(t *testing.T) {
	m := Map{Width: 5, Height: 5, Blocked: map[Point]bool{
		{2, 0}: true,
	}}
	if HasTileLineOfEffect(m, Point{0, 0}, Point{2, 0}) {
		t.Fatal("blocked terrain on the target tile should break line of effect")
	}
}

func TestCoverGradeScaling(t *testing.T) {
	none := Map{Width: 5, Height: 5}
	if g := ComputeCoverGrade(none, Point{0, 0}, Point{0, 3}); g != CoverNone {
		t.Fatalf("expected none, got %s", g)
	}

	one := Map{Width: 5, Height: 5, Blocked: map[Point]bool{{1, 3}: true}}
	if g := ComputeCoverGrade(one, Point{0, 0}, Point{0, 3}); g != CoverStandard {
		t.Fatalf("expected standard, got %s", g)
	}

	two := Map{Width: 5, Height: 5, Blocked: map[Point]bool{{1, 3}: true, {-1, 3}: true}}
	if g := ComputeCoverGrade(two, Point{0, 0}, Point{0, 3}); g != CoverGreater {
		t.Fatalf("expected greater, got %s", g)
	}
}

func TestCoverGradeBlockedWhenNoLOE(t *testing.T) {
	m := Map{Width: 5, Height: 5, Blocked: map[Point]bool{{0, 1}: true, {1, 0}: true}}
	if g := ComputeCoverGrade(m, Point{0, 0}, Point{1, 1}); g != CoverBlocked {
		t.Fatalf("expected blocked, got %s", g)
	}
}

func TestCoverGradeACBonus(t *testing.T) {
	cases := map[CoverGrade]int{
		CoverNone:     0,
		CoverStandard: 2,
		CoverGreater:  4,
		CoverBlocked:  0,
	}
	for grade, want := range cases {
		if got := grade.ACBonus(); got != want {
			t.Fatalf("%s.ACBonus() = %d, want %d", grade, got, want)
		}
	}
}
