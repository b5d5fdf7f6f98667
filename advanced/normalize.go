package advanced

import (
	"math"

	"github.com/pkg/errors"
)

// Normalize turns the caller's ordered points into the arena and the index
// polygon every later step works on. Consecutive duplicate points (including a
// closing point equal to the first) are dropped. The result always winds
// counterclockwise: a polygon with negative signed area is reversed.
//
// Fewer than three distinct points, or a zero signed area (all points
// collinear), yields ErrInvalidPolygon. The area is judged relative to the
// bounding box, so tiny polygons are as valid as large ones.
func Normalize(points []*Point) (*Arena, IndexPolygon, error) {
	distinct := make([]*Point, 0, len(points))
	for _, p := range points {
		if p == nil {
			return nil, nil, errors.Wrap(ErrInvalidPolygon, "nil point")
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return nil, nil, errors.Wrapf(ErrInvalidPolygon, "non-finite point (%g, %g)", p.X, p.Y)
		}
		if len(distinct) > 0 && samePoint(distinct[len(distinct)-1], p) {
			continue
		}
		distinct = append(distinct, p)
	}
	for len(distinct) > 1 && samePoint(distinct[0], distinct[len(distinct)-1]) {
		distinct = distinct[:len(distinct)-1]
	}

	if len(distinct) < 3 {
		return nil, nil, errors.Wrapf(ErrInvalidPolygon, "need at least 3 distinct points, got %d", len(distinct))
	}

	// Measured in the unit frame, so the cutoff is relative to the size of the
	// bounding box.
	arena := NewArena(distinct)
	area := SignedArea(arena.local)
	if math.Abs(area) < Epsilon {
		return nil, nil, errors.Wrap(ErrInvalidPolygon, "polygon has zero area")
	}

	poly := make(IndexPolygon, len(distinct))
	for i := range poly {
		poly[i] = i
	}
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}
	return arena, poly, nil
}

func samePoint(a, b *Point) bool {
	return a == b || (a.X == b.X && a.Y == b.Y)
}
