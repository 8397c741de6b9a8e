package grid

import "testing"

func TestManhattan(t *testing.T) {
	if got := Manhattan(Point{0, 0}, Point{3, 4}); got != 7 {
		t.Fatalf("manhattan = %d, want 7", got)
	}
}

func TestLineIncludesEndpoints(t *testing.T) {
	pts := Line(0, 0, 3, 0)
	if len(pts) != 4 {
		t.Fatalf("expected 4 points, got %d", len(pts))
	}
	if pts[0] != (Point{0, 0}) || pts[len(pts)-1] != (Point{3, 0}) {
		t.Fatalf("unexpected endpoints: %v", pts)
	}
}

func TestLineDiagonal(t *testing.T) {
	pts := Line(0, 0, 2, 2)
	want := []Point{{0, 0}, {1, 1}, {2, 2}}
	if len(pts) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(pts), pts)
	}
	for i, p := range want {
		if pts[i] != p {
			t.Fatalf("point %d = %v, want %v", i, pts[i], p)
		}
	}
}

func TestRadiusIncludesCenter(t *testing.T) {
	pts := Radius(5, 5, 0)
	if len(pts) != 1 || pts[0] != (Point{5, 5}) {
		t.Fatalf("radius 0 should be just the center, got %v", pts)
	}
}

func TestRadiusCount(t *testing.T) {
	pts := Radius(0, 0, 1)
	if len(pts) != 5 {
		t.Fatalf("radius 1 diamond should have 5 tiles, got %d", len(pts))
	}
}

func TestConeOriginEqualsFacing(t *testing.T) {
	pts := Cone(2, 2, 2, 2, 5)
	if len(pts) != 1 || pts[0] != (Point{2, 2}) {
		t.Fatalf("expected single origin tile, got %v", pts)
	}
}

func TestConeForwardTileIncluded(t *testing.T) {
	pts := Cone(0, 0, 1, 0, 3)
	found := false
	for _, p := range pts {
		if p == (Point{2, 0}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected forward tile to be included in cone: %v", pts)
	}
}

func TestPassableRespectsOccupancy(t *testing.T) {
	m := Map{Width: 5, Height: 5}
	occupied := map[Point]bool{{1, 1}: true}
	if m.Passable(Point{1, 1}, occupied) {
		t.Fatal("expected occupied tile to be impassable")
	}
	if !m.Passable(Point{2, 2}, occupied) {
		t.Fatal("expected empty tile to be passable")
	}
}
