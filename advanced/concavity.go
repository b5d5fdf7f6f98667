package advanced

// Vertex classification. A vertex is reflex when its interior angle exceeds
// 180°, which for a counterclockwise polygon means its neighbors make a right
// turn through it. Collinear vertices count as convex.
//
// Classification is never cached: every piece is classified afresh whenever
// it is looked at, which is a cheap linear scan.

func classifyAt(arena *Arena, poly IndexPolygon, pos int) VertexClass {
	prev := arena.At(poly.At(pos - 1))
	v := arena.At(poly[pos])
	next := arena.At(poly.At(pos + 1))
	if turnsRight(prev, v, next) {
		return Reflex
	}
	return Convex
}

// Classify returns the class of every vertex, by position.
func Classify(arena *Arena, poly IndexPolygon) []VertexClass {
	classes := make([]VertexClass, len(poly))
	for pos := range poly {
		classes[pos] = classifyAt(arena, poly, pos)
	}
	return classes
}

// ReflexVertices returns the arena indexes of the reflex vertices in boundary
// order. An empty result means the polygon is convex.
func ReflexVertices(arena *Arena, poly IndexPolygon) []int {
	var reflex []int
	for pos, idx := range poly {
		if classifyAt(arena, poly, pos) == Reflex {
			reflex = append(reflex, idx)
		}
	}
	return reflex
}

func IsConvex(arena *Arena, poly IndexPolygon) bool {
	for pos := range poly {
		if classifyAt(arena, poly, pos) == Reflex {
			return false
		}
	}
	return true
}
