// Package turnorder builds and advances the initiative-sorted turn order.
// Grounded on the teacher's journal sequence-counter idiom (monotonic index
// bookkeeping) generalized from a log cursor to a combatant cursor, and on
// the stable-sort-by-(primary,secondary) shape used throughout the pack's
// scheduling code.
package turnorder

import "sort"

// Unit is the minimal view turnorder needs of a combatant: its id,
// initiative, and whether it is still standing.
type Unit interface {
	ID() string
	Initiative() int
	Alive() bool
}

// Build sorts unit ids by descending initiative, ties broken by ascending
// id, per §4.8.
func Build(units []Unit) []string {
	sorted := append([]Unit(nil), units...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Initiative() != sorted[j].Initiative() {
			return sorted[i].Initiative() > sorted[j].Initiative()
		}
		return sorted[i].ID() < sorted[j].ID()
	})
	order := make([]string, len(sorted))
	for i, u := range sorted {
		order[i] = u.ID()
	}
	return order
}

// NextIndex computes the following index in a turn order of length n,
// wrapping to 0.
func NextIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	return (i + 1) % n
}

// RebuildPreservingActive rebuilds the turn order from the current unit set
// while keeping the turn index pointed at the same active unit id (used by
// spawn_unit, which inserts mid-battle), per §3's "Spawn rebuilds the order
// while preserving the currently active unit's index."
func RebuildPreservingActive(units []Unit, activeID string) (order []string, index int) {
	order = Build(units)
	for i, id := range order {
		if id == activeID {
			return order, i
		}
	}
	return order, 0
}

// Advance implements §4.8's advancement procedure: step forward, incrementing
// round on wrap, skipping dead units, and resetting the landed unit's
// per-turn resources. isAlive is consulted by id; onReset lets the caller
// apply the resource reset to its own unit storage.
func Advance(order []string, currentIndex, round int, isAlive func(id string) bool, onReset func(id string)) (nextIndex, nextRound int) {
	n := len(order)
	if n == 0 {
		return currentIndex, round
	}
	index := currentIndex
	for {
		next := NextIndex(index, n)
		if next <= index {
			round++
		}
		index = next
		if isAlive(order[index]) {
			if onReset != nil {
				onReset(order[index])
			}
			return index, round
		}
		if index == currentIndex {
			// Every unit is dead; stop looping to avoid spinning forever.
			return index, round
		}
	}
}
