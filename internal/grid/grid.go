// Package grid implements the tile-space primitives shared by targeting,
// movement validation, and hazard geometry: bounds checks, Manhattan
// distance, Bresenham lines, radius and cone enumeration.
//
// The shapes here are grounded in the teacher's geometry helpers
// (internal/world/geometry.go, internal/combat/geometry.go) adapted from
// continuous pixel coordinates to discrete tile coordinates.
package grid

import "math"

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Map captures the bounds, blocked tiles, and occupancy the grid primitives
// reason about. Occupied is supplied by the caller (battle state owns unit
// positions); Map itself only tracks static terrain.
type Map struct {
	Width, Height int
	Blocked       map[Point]bool
	// MovementCost maps a tile to its movement cost; absent tiles cost 1.
	MovementCost map[Point]int
}

// InBounds reports whether (x,y) lies within the map's dimensions.
func (m Map) InBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < m.Width && p.Y < m.Height
}

// IsBlocked reports whether a tile is marked impassable terrain.
func (m Map) IsBlocked(p Point) bool {
	if m.Blocked == nil {
		return false
	}
	return m.Blocked[p]
}

// Cost returns the movement cost of entering a tile, defaulting to 1.
func (m Map) Cost(p Point) int {
	if m.MovementCost == nil {
		return 1
	}
	if c, ok := m.MovementCost[p]; ok {
		return c
	}
	return 1
}

// Passable reports whether a tile is in-bounds, unblocked, and (per the
// caller-supplied occupancy set) unoccupied.
func (m Map) Passable(p Point, occupied map[Point]bool) bool {
	if !m.InBounds(p) || m.IsBlocked(p) {
		return false
	}
	if occupied != nil && occupied[p] {
		return false
	}
	return true
}

// Clone returns a deep copy of the map so callers holding a BattleState can
// mutate their copy's blocked/cost tables without aliasing the original.
func (m Map) Clone() Map {
	next := Map{Width: m.Width, Height: m.Height}
	if m.Blocked != nil {
		next.Blocked = make(map[Point]bool, len(m.Blocked))
		for p, v := range m.Blocked {
			next.Blocked[p] = v
		}
	}
	if m.MovementCost != nil {
		next.MovementCost = make(map[Point]int, len(m.MovementCost))
		for p, v := range m.MovementCost {
			next.MovementCost[p] = v
		}
	}
	return next
}

// Manhattan returns the Manhattan (taxicab) distance between two points.
func Manhattan(a, b Point) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Radius enumerates every tile within Manhattan distance r of (cx,cy),
// including the center tile.
func Radius(cx, cy, r int) []Point {
	if r < 0 {
		return nil
	}
	out := make([]Point, 0, (2*r+1)*(2*r+1))
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if absInt(dx)+absInt(dy) <= r {
				out = append(out, Point{cx + dx, cy + dy})
			}
		}
	}
	return out
}

// Line walks a classic Bresenham path from (x0,y0) to (x1,y1) inclusive of
// both endpoints, in traversal order.
func Line(x0, y0, x1, y1 int) []Point {
	points := make([]Point, 0)
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)
	err := dx + dy

	x, y := x0, y0
	for {
		points = append(points, Point{x, y})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return points
}

// Cone enumerates tiles within Euclidean distance len of the origin whose
// direction from the origin has a unit-vector dot product with the facing
// vector of at least cos(45 degrees). If facing equals origin, only the
// origin tile is returned.
func Cone(ox, oy, fx, fy, length int) []Point {
	if fx == ox && fy == oy {
		return []Point{{ox, oy}}
	}
	fdx := float64(fx - ox)
	fdy := float64(fy - oy)
	flen := math.Hypot(fdx, fdy)
	fux, fuy := fdx/flen, fdy/flen

	const cos45 = 0.7071067811865476
	out := make([]Point, 0)
	for dx := -length; dx <= length; dx++ {
		for dy := -length; dy <= length; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dist := math.Hypot(float64(dx), float64(dy))
			if dist > float64(length) {
				continue
			}
			ux, uy := float64(dx)/dist, float64(dy)/dist
			dot := ux*fux + uy*fuy
			if dot >= cos45 {
				out = append(out, Point{ox + dx, oy + dy})
			}
		}
	}
	return out
}
