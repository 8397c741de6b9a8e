package turnorder

import (
	"reflect"
	"testing"
)

func TestBuildSortsByInitiativeDescThenIDAsc(t *testing.T) {
	units := toUnits([]fakeUnit{
		{id: "b", initiative: 10, alive: true},
		{id: "a", initiative: 10, alive: true},
		{id: "c", initiative: 15, alive: true},
	})
	got := Build(units)
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestNextIndexWraps(t *testing.T) {
	if got := NextIndex(2, 3); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
	if got := NextIndex(0, 3); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
}

func TestAdvanceSkipsDeadAndIncrementsRoundOnWrap(t *testing.T) {
	order := []string{"a", "b", "c"}
	alive := map[string]bool{"a": true, "b": false, "c": true}
	var reset string
	index, round := Advance(order, 0, 1, func(id string) bool { return alive[id] }, func(id string) { reset = id })
	if index != 2 || round != 1 {
		t.Fatalf("got (index=%d round=%d), want (2, 1)", index, round)
	}
	if reset != "c" {
		t.Fatalf("got reset=%q, want c", reset)
	}
}

func TestAdvanceIncrementsRoundOnWrapToZero(t *testing.T) {
	order := []string{"a", "b"}
	alive := map[string]bool{"a": true, "b": true}
	index, round := Advance(order, 1, 3, func(id string) bool { return alive[id] }, nil)
	if index != 0 || round != 4 {
		t.Fatalf("got (index=%d round=%d), want (0, 4)", index, round)
	}
}

func TestRebuildPreservingActiveKeepsSameUnitIndex(t *testing.T) {
	units := toUnits([]fakeUnit{
		{id: "b", initiative: 10, alive: true},
		{id: "a", initiative: 20, alive: true},
	})
	order, index := RebuildPreservingActive(units, "b")
	if order[index] != "b" {
		t.Fatalf("expected active unit to remain b at index %d, order=%v", index, order)
	}
}
