package advanced

import (
	"math"

	"github.com/pkg/errors"
)

// Visibility for the reflex-vertex splitting method of Zhu, Tang and Xu.
//
// Extending the two edges that meet at a reflex vertex past the vertex gives
// two rays into the polygon. Any diagonal leaving the vertex between those
// rays leaves both of the vertex's new angles at or below 180°, so the rays
// bound where a good split target can be. Rather than testing every vertex of
// the polygon, only the stretch of boundary between the points where the two
// rays first meet the boundary is searched.

func neighbors(arena *Arena, poly IndexPolygon, pos int) (prev, v, next *Point) {
	return arena.At(poly.At(pos - 1)), arena.At(poly[pos]), arena.At(poly.At(pos + 1))
}

// castRay finds the nearest point where the ray from the vertex at pos in
// direction dir meets the boundary. The two edges incident to the vertex are
// ignored, and so are edges parallel to the ray: the edges around them are hit
// instead.
func castRay(arena *Arena, poly IndexPolygon, pos int, dir Point) (RayHit, bool) {
	origin := arena.At(poly[pos])
	far := &Point{X: origin.X + dir.X, Y: origin.Y + dir.Y}
	best := RayHit{Edge: -1, Distance: math.Inf(1)}
	for offset := 1; offset < len(poly)-1; offset++ {
		k := CircularIndex(pos+offset, len(poly))
		t, u, ok := intersectParams(origin, far, arena.At(poly[k]), arena.At(poly.At(k+1)))
		if !ok || t <= Epsilon || u < -Epsilon || u > 1+Epsilon {
			continue
		}
		if t < best.Distance-Epsilon {
			best = RayHit{
				Edge:     k,
				Point:    &Point{X: origin.X + t*dir.X, Y: origin.Y + t*dir.Y},
				Distance: t,
			}
		}
	}
	return best, best.Edge >= 0
}

// Search range by positions rather than arena indexes.
type searchRange struct {
	candidates  []int
	first, last RayHit
}

func findSearchRangeAt(arena *Arena, poly IndexPolygon, pos int) (*searchRange, error) {
	prev, v, next := neighbors(arena, poly, pos)
	if !turnsRight(prev, v, next) {
		fatalf("search range requested for convex vertex %d", poly[pos])
	}

	first, ok := castRay(arena, poly, pos, Vector(prev, v))
	if !ok {
		return nil, errors.Wrapf(ErrNoVisiblePoint, "extension of the edge into vertex %d never meets the boundary", poly[pos])
	}
	last, ok := castRay(arena, poly, pos, Vector(next, v))
	if !ok {
		return nil, errors.Wrapf(ErrNoVisiblePoint, "extension of the edge out of vertex %d never meets the boundary", poly[pos])
	}

	m := len(poly)
	firstOffset := CircularIndex(first.Edge-pos, m)
	lastOffset := CircularIndex(last.Edge-pos, m)
	if firstOffset > lastOffset {
		// Only possible when the boundary crosses itself
		return nil, errors.Wrapf(ErrNoVisiblePoint, "search range of vertex %d is inverted", poly[pos])
	}

	sr := &searchRange{first: first, last: last}
	// The range runs from the start of the first edge to the end of the last
	// edge, but never includes the vertex itself or its neighbors.
	for offset := max(firstOffset, 2); offset <= min(lastOffset+1, m-2); offset++ {
		sr.candidates = append(sr.candidates, CircularIndex(pos+offset, m))
	}
	return sr, nil
}

// Arena indexes and caller coordinates instead of positions and local
// coordinates.
func (sr *searchRange) export(arena *Arena, poly IndexPolygon, r int) *SearchRange {
	first, last := sr.first, sr.last
	first.Point = arena.frame.toWorld(first.Point)
	last.Point = arena.frame.toWorld(last.Point)
	return &SearchRange{
		Reflex:     r,
		Candidates: positionsToIndexes(poly, sr.candidates),
		First:      first,
		Last:       last,
	}
}

// FindSearchRange computes the candidate split targets for the reflex vertex
// with arena index r.
func FindSearchRange(arena *Arena, poly IndexPolygon, r int) (*SearchRange, error) {
	pos := mustPosition(poly, r)
	sr, err := findSearchRangeAt(arena, poly, pos)
	if err != nil {
		return nil, err
	}
	return sr.export(arena, poly, r), nil
}

// Does direction d leave the vertex at pos through the polygon's interior?
func leavesThroughInterior(arena *Arena, poly IndexPolygon, pos int, d Point) bool {
	prev, v, next := neighbors(arena, poly, pos)
	// The interior sweeps counterclockwise from the outgoing edge to the
	// incoming one.
	return insideSweep(Vector(v, next), Vector(v, prev), d)
}

// Is the open segment from the vertex at pos to p clear of every edge? Edges
// incident to the vertex, and the edges at positions in skip, are not tested.
func segmentClear(arena *Arena, poly IndexPolygon, pos int, p *Point, skip ...int) bool {
	origin := arena.At(poly[pos])
	m := len(poly)
edges:
	for k := range poly {
		if k == pos || k == CircularIndex(pos-1, m) {
			continue
		}
		for _, s := range skip {
			if k == s {
				continue edges
			}
		}
		if SegmentCrosses(origin, p, arena.At(poly[k]), arena.At(poly.At(k+1))) {
			return false
		}
	}
	return true
}

func isVisibleAt(arena *Arena, poly IndexPolygon, pos, cpos int) bool {
	m := len(poly)
	if cpos == pos || cpos == CircularIndex(pos+1, m) || cpos == CircularIndex(pos-1, m) {
		return false
	}
	r := arena.At(poly[pos])
	c := arena.At(poly[cpos])
	if !leavesThroughInterior(arena, poly, pos, Vector(r, c)) || !leavesThroughInterior(arena, poly, cpos, Vector(c, r)) {
		return false
	}
	return segmentClear(arena, poly, pos, c, cpos, CircularIndex(cpos-1, m))
}

// IsVisible reports whether the segment between the vertices with arena
// indexes r and c lies inside the polygon: it must leave both vertices through
// their interior angle, and cross no edge other than those incident to r or c.
// Passing through another vertex counts as crossing.
func IsVisible(arena *Arena, poly IndexPolygon, r, c int) bool {
	return isVisibleAt(arena, poly, mustPosition(poly, r), mustPosition(poly, c))
}

func visibleCandidatesAt(arena *Arena, poly IndexPolygon, pos int) (*searchRange, []int, error) {
	sr, err := findSearchRangeAt(arena, poly, pos)
	if err != nil {
		return nil, nil, err
	}
	var visible []int
	for _, cpos := range sr.candidates {
		if isVisibleAt(arena, poly, pos, cpos) {
			visible = append(visible, cpos)
		}
	}
	if len(visible) == 0 {
		return sr, nil, errors.Wrapf(ErrNoVisiblePoint, "none of the %d vertices in the search range of vertex %d is visible",
			len(sr.candidates), poly[pos])
	}
	return sr, visible, nil
}

// VisibleCandidates returns the search range of reflex vertex r along with the
// arena indexes of the candidates visible from it. An empty visible set is
// ErrNoVisiblePoint.
func VisibleCandidates(arena *Arena, poly IndexPolygon, r int) (*SearchRange, []int, error) {
	pos := mustPosition(poly, r)
	sr, visible, err := visibleCandidatesAt(arena, poly, pos)
	if sr == nil {
		return nil, nil, err
	}
	return sr.export(arena, poly, r), positionsToIndexes(poly, visible), err
}

func mustPosition(poly IndexPolygon, idx int) int {
	pos := poly.Position(idx)
	if pos < 0 {
		fatalf("vertex %d is not part of polygon %v", idx, poly)
	}
	return pos
}

func positionsToIndexes(poly IndexPolygon, positions []int) []int {
	if positions == nil {
		return nil
	}
	indexes := make([]int, len(positions))
	for i, pos := range positions {
		indexes[i] = poly[pos]
	}
	return indexes
}
