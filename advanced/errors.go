package advanced

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// Fewer than three distinct points, or zero area.
	ErrInvalidPolygon = errors.New("invalid polygon")
	// An intersection point was needed between two parallel lines.
	ErrParallelLines = errors.New("parallel lines")
	// A reflex vertex has no visible split target in its search range.
	ErrNoVisiblePoint = errors.New("no visible point")
	// A split would produce a piece with fewer than three vertices.
	ErrDegenerateSplit = errors.New("degenerate split")
	// The decomposition did not converge within the configured number of rounds.
	ErrDepthExceeded = errors.New("decomposition depth exceeded")
)

// PieceError reports which piece and which vertex a decomposition got stuck
// on. It unwraps to one of the sentinel errors above.
type PieceError struct {
	// Piece id, in order of creation. The input polygon is piece 0.
	Piece int
	// Arena index of the offending vertex, or -1
	Vertex int
	Point  *Point
	// The piece as it was when the error occurred
	Polygon Polygon
	Err     error
}

func (e *PieceError) Error() string {
	if e.Point == nil {
		return fmt.Sprintf("piece %d: %v", e.Piece, e.Err)
	}
	return fmt.Sprintf("piece %d, vertex %d (%g, %g): %v", e.Piece, e.Vertex, e.Point.X, e.Point.Y, e.Err)
}

func (e *PieceError) Unwrap() error {
	return e.Err
}
