package advanced

import "math"

// Tolerance is used when comparing coordinates and areas for equality.
const Tolerance = 1e-6

// Epsilon is the tolerance for geometric predicates. Turns whose sine is
// within Epsilon of zero are treated as straight. Since the arena works in the
// unit square, it is relative to the size of the polygon.
const Epsilon = 1e-9

// To compensate for imprecision in floats, equality is tolerance based.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Tolerance
}

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}

// Vector from one point to another.
func Vector(from, to *Point) Point {
	return Point{to.X - from.X, to.Y - from.Y}
}

func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) Unit() Point {
	l := p.Length()
	if l == 0 {
		return p
	}
	return Point{p.X / l, p.Y / l}
}

func (p Point) Dot(other Point) float64 {
	return p.X*other.X + p.Y*other.Y
}

// Det is the z component of the cross product of two vectors.
func (p Point) Det(other Point) float64 {
	return p.X*other.Y - p.Y*other.X
}

func newFrame(points []*Point) frame {
	if len(points) == 0 {
		return frame{scale: 1}
	}
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	f := frame{origin: Point{minX, minY}, scale: 1}
	extent := math.Max(maxX-minX, maxY-minY)
	if extent > 0 && !math.IsInf(extent, 0) {
		_, exp := math.Frexp(extent)
		f.scale = math.Ldexp(1, exp)
	}
	return f
}

func (f frame) toLocal(p *Point) *Point {
	return &Point{(p.X - f.origin.X) / f.scale, (p.Y - f.origin.Y) / f.scale}
}

func (f frame) toWorld(p *Point) *Point {
	return &Point{f.origin.X + p.X*f.scale, f.origin.Y + p.Y*f.scale}
}

// NewArena creates an arena over points. The local frame is fixed by their
// bounding box.
func NewArena(points []*Point) *Arena {
	a := &Arena{
		Points: make([]*Point, len(points)),
		local:  make([]*Point, len(points)),
		frame:  newFrame(points),
	}
	copy(a.Points, points)
	for i, p := range points {
		a.local[i] = a.frame.toLocal(p)
	}
	return a
}

// At returns the vertex with index i in local coordinates. This is what every
// geometric test uses.
func (a *Arena) At(i int) *Point {
	return a.local[i]
}

// Add appends a point given in the caller's coordinates and returns its
// index.
func (a *Arena) Add(p *Point) int {
	return a.add(p, a.frame.toLocal(p))
}

func (a *Arena) add(p, local *Point) int {
	a.Points = append(a.Points, p)
	a.local = append(a.local, local)
	return len(a.Points) - 1
}

func (a *Arena) Polygon(poly IndexPolygon) Polygon {
	points := make([]*Point, len(poly))
	for i, idx := range poly {
		points[i] = a.Points[idx]
	}
	return Polygon{Points: points}
}

// SignedArea of the polygon in the caller's units. It is summed in local
// coordinates, which keeps it accurate for small polygons far from the
// origin.
func (a *Arena) SignedArea(poly IndexPolygon) float64 {
	var sum float64
	for i, idx := range poly {
		p := a.local[idx]
		q := a.local[poly[CircularIndex(i+1, len(poly))]]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2 * a.frame.scale * a.frame.scale
}

// Position of an arena index in the polygon, or -1.
func (poly IndexPolygon) Position(idx int) int {
	for i, v := range poly {
		if v == idx {
			return i
		}
	}
	return -1
}

// Vertex at a circular position.
func (poly IndexPolygon) At(pos int) int {
	return poly[CircularIndex(pos, len(poly))]
}

// InsertAfter returns a new polygon with idx placed between position pos and
// the following vertex.
func (poly IndexPolygon) InsertAfter(pos int, idx int) IndexPolygon {
	pos = CircularIndex(pos, len(poly))
	result := make(IndexPolygon, 0, len(poly)+1)
	result = append(result, poly[:pos+1]...)
	result = append(result, idx)
	result = append(result, poly[pos+1:]...)
	return result
}

func (poly Polygon) Reverse() Polygon {
	newPoly := Polygon{}
	for i := len(poly.Points) - 1; i >= 0; i-- {
		newPoly.Points = append(newPoly.Points, poly.Points[i])
	}
	return newPoly
}

func (poly Polygon) SignedArea() float64 {
	return SignedArea(poly.Points)
}

func (poly Polygon) Area() float64 {
	return math.Abs(poly.SignedArea())
}

// Even-odd point-in-polygon test. Points exactly on the boundary may land on
// either side.
func (poly Polygon) ContainsPointByEvenOdd(p *Point) bool {
	return poly.CrossingCount(p)%2 == 1
}

// Crossing count helper for even odd rule
func (poly Polygon) CrossingCount(p *Point) int {
	crossingCount := 0
	for i, vertex := range poly.Points {
		nextVertex := poly.Points[CircularIndex(i+1, len(poly.Points))]
		if (vertex.Y > p.Y) == (nextVertex.Y > p.Y) {
			continue
		}
		x := vertex.X + (p.Y-vertex.Y)*(nextVertex.X-vertex.X)/(nextVertex.Y-vertex.Y)
		if p.X < x {
			crossingCount++
		}
	}
	return crossingCount
}

func (list PolygonList) ContainsPointByEvenOdd(p *Point) bool {
	count := 0
	for _, poly := range list {
		count += poly.CrossingCount(p)
	}
	return count%2 == 1
}

func (list PolygonList) Area() float64 {
	var area float64
	for _, poly := range list {
		area += poly.Area()
	}
	return area
}
