package advanced

type Point struct {
	X float64
	Y float64
}

// Note that all points handled by the decomposition are pointers. Input points
// are returned as-is in the output, so callers can rely on identity, and we
// never modify a point value from the original polygon, since some
// applications require exact equality and we cannot tolerate loss of
// precision.
type Polygon struct {
	Points []*Point
}

type PolygonList []Polygon

// An Arena holds every vertex of a decomposition exactly once. Polygons are
// index lists into it, so splitting never copies coordinates. The arena is
// append-only: Steiner points are added at the end, existing entries never
// change.
//
// Points are the caller's points (plus Steiner points) and are what the
// output is made of. The geometry works on a copy of them moved into the unit
// square, so that tolerances mean the same thing whatever the size and
// position of the input.
type Arena struct {
	Points []*Point
	local  []*Point
	frame  frame
}

// Maps caller coordinates into the unit square: subtract origin, divide by
// scale. scale is a power of two, so the division is exact.
type frame struct {
	origin Point
	scale  float64
}

// An IndexPolygon is a counterclockwise polygon expressed as indexes into an
// Arena.
type IndexPolygon []int

type VertexClass int

const (
	Convex VertexClass = iota
	Reflex
)

func (c VertexClass) String() string {
	if c == Reflex {
		return "reflex"
	}
	return "convex"
}

// A RayHit is the nearest point where the extension of an edge through a
// reflex vertex meets the boundary of the polygon.
type RayHit struct {
	// Position in the polygon of the first vertex of the edge that was hit
	Edge int
	// Where the edge was hit
	Point *Point
	// Ray parameter of the hit, in units of the extended edge's length
	Distance float64
}

// The candidate split targets for one reflex vertex. First is where the
// extension of the incoming edge meets the boundary, Last is where the
// extension of the outgoing edge does. Walking the boundary forward from the
// reflex vertex, First always comes before Last, and Candidates lists the
// vertices from the start of First's edge to the end of Last's edge, in
// boundary order.
type SearchRange struct {
	Reflex      int
	Candidates  []int
	First, Last RayHit
}

// A SplitPlan cuts a polygon along the segment from Reflex to Target. If
// Steiner is set, the target is a new vertex which must first be inserted after
// position SteinerEdge of the polygon, and Target is unused.
type SplitPlan struct {
	Reflex      int
	Target      int
	Steiner     *Point
	SteinerEdge int
	Power       float64

	// Steiner in the arena's local coordinates
	local *Point
}

type Stats struct {
	Rounds        int
	Splits        int
	SteinerPoints int
}

type Result struct {
	Polygons PolygonList
	// Pieces that could not be split, only populated in best effort mode
	Failures []*PieceError
	Stats    Stats
}
