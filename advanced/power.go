package advanced

import (
	"math"

	"github.com/pkg/errors"
)

// Power of a visible point. The published method ranks candidate split
// targets by a "power" that favours targets which resolve the reflex angle,
// which are reflex themselves, and which don't leave slivers, without fixing
// a formula. We use
//
//	power = 4·[resolves r] + 2·[c is reflex and the diagonal resolves c]
//	      + cos(angle between rc and the bisector at r)
//	      + 2·min(A1, A2)/(A1 + A2)
//
// where A1 and A2 are the areas of the two pieces the diagonal produces. The
// weights keep the terms strictly ordered: resolving r always beats not
// resolving it, and resolving two reflex vertices at once beats any
// difference in angle and balance.
const (
	resolveWeight = 4.0
	reflexWeight  = 2.0
	angleWeight   = 1.0
	balanceWeight = 1.0
)

// Would a diagonal leaving the vertex at pos in direction d leave both of the
// vertex's angles at 180° or less?
func resolves(arena *Arena, poly IndexPolygon, pos int, d Point) bool {
	prev, v, next := neighbors(arena, poly, pos)
	return sinAngle(Vector(v, next), d) >= -Epsilon && sinAngle(d, Vector(v, prev)) >= -Epsilon
}

// Unit vector splitting the interior angle at pos in half.
func bisectorAt(arena *Arena, poly IndexPolygon, pos int) Point {
	prev, v, next := neighbors(arena, poly, pos)
	in := Vector(prev, v).Unit()
	out := Vector(next, v).Unit()
	bisector := Point{X: in.X + out.X, Y: in.Y + out.Y}
	if bisector.Length() < Epsilon {
		// Straight angle
		return Point{X: -in.Y, Y: in.X}
	}
	return bisector.Unit()
}

// Area enclosed by walking the boundary forward from position from to
// position to, then straight back.
func arcArea(arena *Arena, poly IndexPolygon, from, to int) float64 {
	var sum float64
	n := CircularIndex(to-from, len(poly))
	for i := 0; i <= n; i++ {
		p := arena.At(poly.At(from + i))
		q := arena.At(poly.At(from + (i+1)%(n+1)))
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(sum / 2)
}

func powerAt(arena *Arena, poly IndexPolygon, pos, cpos int) (power float64, resolving bool) {
	r := arena.At(poly[pos])
	c := arena.At(poly[cpos])
	d := Vector(r, c)

	if resolves(arena, poly, pos, d) {
		power += resolveWeight
		resolving = true
	}
	if classifyAt(arena, poly, cpos) == Reflex && resolves(arena, poly, cpos, Vector(c, r)) {
		power += reflexWeight
	}
	power += angleWeight * d.Unit().Dot(bisectorAt(arena, poly, pos))

	a1 := arcArea(arena, poly, pos, cpos)
	a2 := arcArea(arena, poly, cpos, pos)
	if a1+a2 > 0 {
		power += balanceWeight * 2 * math.Min(a1, a2) / (a1 + a2)
	}
	return power, resolving
}

// Power scores splitting reflex vertex r towards vertex c. Higher is better.
func Power(arena *Arena, poly IndexPolygon, r, c int) float64 {
	power, _ := powerAt(arena, poly, mustPosition(poly, r), mustPosition(poly, c))
	return power
}

// PlanSplit picks where to split the polygon at reflex vertex r. The visible
// candidate with the highest power wins, ties going to the lowest arena index.
//
// If no visible candidate resolves r and both extension rays end on the same
// edge, there is no vertex between them to split to. The split then goes along
// r's bisector to a new Steiner point on that edge. ErrParallelLines surfaces
// here if the bisector cannot meet the edge.
func PlanSplit(arena *Arena, poly IndexPolygon, r int) (*SplitPlan, error) {
	pos := mustPosition(poly, r)
	sr, visible, err := visibleCandidatesAt(arena, poly, pos)
	if err != nil {
		return nil, err
	}

	best := -1
	var bestPower float64
	var bestResolves bool
	for _, cpos := range visible {
		power, resolving := powerAt(arena, poly, pos, cpos)
		if best < 0 || power > bestPower+Epsilon ||
			(math.Abs(power-bestPower) <= Epsilon && poly[cpos] < poly[best]) {
			best, bestPower, bestResolves = cpos, power, resolving
		}
	}

	if !bestResolves && sr.first.Edge == sr.last.Edge {
		plan, err := steinerPlan(arena, poly, pos, sr.first.Edge)
		if err != nil {
			return nil, err
		}
		if plan != nil {
			return plan, nil
		}
	}

	return &SplitPlan{Reflex: r, Target: poly[best], SteinerEdge: -1, Power: bestPower}, nil
}

// Plan a split from the vertex at pos along its bisector to the edge starting
// at position edge. Returns nil if the bisector doesn't land strictly inside
// the edge, or if the way there is blocked.
func steinerPlan(arena *Arena, poly IndexPolygon, pos, edge int) (*SplitPlan, error) {
	r := arena.At(poly[pos])
	bisector := bisectorAt(arena, poly, pos)
	a := arena.At(poly[edge])
	b := arena.At(poly.At(edge + 1))

	steiner, err := Intersect(r, &Point{X: r.X + bisector.X, Y: r.Y + bisector.Y}, a, b)
	if err != nil {
		return nil, errors.Wrapf(err, "bisector of vertex %d", poly[pos])
	}
	edgeVector := Vector(a, b)
	u := Vector(a, steiner).Dot(edgeVector) / edgeVector.Dot(edgeVector)
	if u <= Epsilon || u >= 1-Epsilon || Vector(r, steiner).Dot(bisector) <= 0 {
		return nil, nil
	}
	if !segmentClear(arena, poly, pos, steiner, edge) {
		return nil, nil
	}
	return &SplitPlan{
		Reflex:      poly[pos],
		Target:      -1,
		Steiner:     arena.frame.toWorld(steiner),
		SteinerEdge: edge,
		Power:       resolveWeight + angleWeight,
		local:       steiner,
	}, nil
}
