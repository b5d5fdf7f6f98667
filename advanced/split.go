package advanced

import "github.com/pkg/errors"

// arc returns the vertices from position from to position to inclusive,
// walking forward.
func arc(poly IndexPolygon, from, to int) IndexPolygon {
	n := CircularIndex(to-from, len(poly)) + 1
	result := make(IndexPolygon, n)
	for i := range result {
		result[i] = poly.At(from + i)
	}
	return result
}

// SplitPolygon cuts the polygon along the diagonal between the vertices with
// arena indexes r and c. The first half runs forward from r to c, the second
// from c back around to r. Both keep the original order, so both stay
// counterclockwise.
func SplitPolygon(poly IndexPolygon, r, c int) ([2]IndexPolygon, error) {
	pos := mustPosition(poly, r)
	cpos := mustPosition(poly, c)
	halves := [2]IndexPolygon{arc(poly, pos, cpos), arc(poly, cpos, pos)}
	for _, half := range halves {
		if len(half) < 3 {
			return halves, errors.Wrapf(ErrDegenerateSplit, "splitting %d-%d leaves a piece with %d vertices", r, c, len(half))
		}
	}
	return halves, nil
}

// ApplyPlan carries out a split plan, adding the Steiner point to the arena
// first if the plan has one.
func ApplyPlan(arena *Arena, poly IndexPolygon, plan *SplitPlan) ([2]IndexPolygon, error) {
	target := plan.Target
	if plan.Steiner != nil {
		if plan.local != nil {
			target = arena.add(plan.Steiner, plan.local)
		} else {
			target = arena.Add(plan.Steiner)
		}
		poly = poly.InsertAfter(plan.SteinerEdge, target)
	}
	return SplitPolygon(poly, plan.Reflex, target)
}
