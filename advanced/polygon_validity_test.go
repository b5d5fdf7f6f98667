package advanced

// This contains no actual tests. It is just a helper for testing
// decomposition validity.

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to check that a decomposition is valid. The rules are:
// 1. Every piece is counterclockwise and convex.
// 2. The sum of the areas of the pieces equals the area of the input.
// 3. Sampling a grid over the input, every point inside the input lies in
//    exactly one piece, and every point outside lies in none.
//
// Rules 1 and 2 are checked after mapping everything into the unit square
// around the input, so they are equally strict at any scale.
func AssertValidDecomposition(t *testing.T, input []*Point, pieces PolygonList) {
	t.Helper()
	require.NotEmpty(t, pieces)
	f := newFrame(input)
	toLocal := func(points []*Point) []*Point {
		local := make([]*Point, len(points))
		for i, p := range points {
			local[i] = f.toLocal(p)
		}
		return local
	}

	var area float64
	for _, piece := range pieces {
		local := toLocal(piece.Points)
		require.True(t, IsCCW(local), "clockwise piece: %v", piece.Points)
		for i, p := range local {
			prev := local[CircularIndex(i-1, len(local))]
			next := local[CircularIndex(i+1, len(local))]
			require.GreaterOrEqual(t, Cross(prev, p, next), -Tolerance, "reflex vertex %v in piece %v", *piece.Points[i], piece.Points)
		}
		area += math.Abs(SignedArea(local))
	}
	require.InDelta(t, math.Abs(SignedArea(toLocal(input))), area, Tolerance, "sum of the piece areas must equal the area of the input")

	validatePiecesBySampling(t, Polygon{Points: input}, pieces)
}

func validatePiecesBySampling(t *testing.T, input Polygon, pieces PolygonList) {
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, p := range input.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	// Odd step and offsets, so that samples stay off the vertices and edges of
	// shapes built on round coordinates
	step := math.Max(maxX-minX, maxY-minY) / 53
	failures := 0
	for y := minY - step*0.5 + 0.0123*step; y <= maxY+step; y += step {
		for x := minX - step*0.5 + 0.0371*step; x <= maxX+step; x += step {
			p := &Point{X: x, Y: y}
			count := 0
			for _, piece := range pieces {
				if piece.ContainsPointByEvenOdd(p) {
					count++
				}
			}
			expected := 0
			if input.ContainsPointByEvenOdd(p) {
				expected = 1
			}
			if !assert.Equal(t, expected, count, "point %v is covered by the wrong number of pieces", *p) {
				failures++
				if failures > 10 {
					t.FailNow()
				}
			}
		}
	}
}
