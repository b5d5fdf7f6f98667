package advanced

import (
	"math"

	"github.com/pkg/errors"
)

// Orientation test. Cross returns the z component of (b-a)×(c-a), which is
// positive when a, b, c make a left turn, negative for a right turn and zero
// when they are collinear.
func Cross(a, b, c *Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// Shoelace formula. Counterclockwise polygons have positive area.
func SignedArea(points []*Point) float64 {
	var sum float64
	for i, p := range points {
		q := points[CircularIndex(i+1, len(points))]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Does the boundary turn right at b on its way from a to c? The cutoff scales
// with both edge lengths, so it bounds the sine of the turn rather than the
// raw cross product.
func turnsRight(a, b, c *Point) bool {
	return Cross(a, b, c) < -Epsilon*Vector(a, b).Length()*Vector(b, c).Length()
}

func IsCCW(points []*Point) bool {
	return SignedArea(points) > 0
}

func IsCW(points []*Point) bool {
	return SignedArea(points) < 0
}

// Solve a + t(b-a) = c + u(d-c) for t and u. ok is false when the lines are
// parallel (or either segment is degenerate).
func intersectParams(a, b, c, d *Point) (t, u float64, ok bool) {
	r := Vector(a, b)
	s := Vector(c, d)
	denom := r.Det(s)
	if math.Abs(denom) <= Epsilon*r.Length()*s.Length() {
		return 0, 0, false
	}
	q := Vector(a, c)
	return q.Det(s) / denom, q.Det(r) / denom, true
}

// Intersect returns the intersection of the lines supporting segments ab and
// cd. It does not check whether the point lies within either segment; that is
// up to the caller. Parallel lines have no intersection and yield
// ErrParallelLines.
func Intersect(a, b, c, d *Point) (*Point, error) {
	t, _, ok := intersectParams(a, b, c, d)
	if !ok {
		return nil, errors.Wrapf(ErrParallelLines, "(%g, %g)-(%g, %g) and (%g, %g)-(%g, %g)",
			a.X, a.Y, b.X, b.Y, c.X, c.Y, d.X, d.Y)
	}
	return &Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}, nil
}

// Does the open segment ab cross the closed segment cd? Touching an endpoint
// of cd counts as crossing, parallel segments never cross. This is the yes/no
// form of Intersect, where ErrParallelLines is simply "no".
func SegmentCrosses(a, b, c, d *Point) bool {
	t, u, ok := intersectParams(a, b, c, d)
	if !ok {
		return false
	}
	return t > Epsilon && t < 1-Epsilon && u >= -Epsilon && u <= 1+Epsilon
}

// Det of two directions, as the sine of the angle between them.
func sinAngle(a, b Point) float64 {
	l := a.Length() * b.Length()
	if l == 0 {
		return 0
	}
	return a.Det(b) / l
}

// Is the direction d strictly inside the counterclockwise sweep from the
// direction "from" to the direction "to"? Sweeps wider than 180° are handled.
func insideSweep(from, to, d Point) bool {
	if from.Det(to) >= 0 && !(from.Det(to) == 0 && from.Dot(to) < 0) {
		// Sweep of at most 180°
		return sinAngle(from, d) > Epsilon && sinAngle(d, to) > Epsilon
	}
	// Reflex sweep: inside unless within the complementary convex sweep
	return !(sinAngle(to, d) >= -Epsilon && sinAngle(d, from) >= -Epsilon)
}
