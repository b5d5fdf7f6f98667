// A convex decomposition package for Go.
//
// This package splits a simple polygon, which may be concave, into convex
// polygons that exactly cover it without overlapping. Pieces reuse the input
// points. Where no vertex makes a good split, a new point is placed on the
// boundary.
package convexify

import "github.com/osuushi/convexify/advanced"

type Point = advanced.Point
type Polygon = advanced.Polygon
type PolygonList = advanced.PolygonList
type Result = advanced.Result
type Stats = advanced.Stats
type PieceError = advanced.PieceError
type Option = advanced.Option
type Observer = advanced.Observer

var (
	ErrInvalidPolygon  = advanced.ErrInvalidPolygon
	ErrParallelLines   = advanced.ErrParallelLines
	ErrNoVisiblePoint  = advanced.ErrNoVisiblePoint
	ErrDegenerateSplit = advanced.ErrDegenerateSplit
	ErrDepthExceeded   = advanced.ErrDepthExceeded
)

var (
	WithBestEffort = advanced.WithBestEffort
	WithWorkers    = advanced.WithWorkers
	WithMaxDepth   = advanced.WithMaxDepth
	WithLogger     = advanced.WithLogger
	WithObserver   = advanced.WithObserver
)

// Decompose splits a simple polygon into convex polygons. The points may wind
// either way, and consecutive duplicates are ignored. Every output polygon
// winds counterclockwise.
//
// If some piece cannot be split, the error is a *PieceError saying which piece
// and vertex caused the problem.
func Decompose(points []*Point, options ...Option) (result PolygonList, err error) {
	defer func() {
		recoveredErr := advanced.HandleDecomposePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	decomposed, err := advanced.NewDecomposer(options...).Decompose(points)
	if err != nil {
		return nil, err
	}
	return decomposed.Polygons, nil
}

// DecomposePartial is Decompose in best effort mode: pieces that cannot be
// split are reported in Result.Failures, and the rest of the polygon is still
// decomposed. Invalid input, and internal errors, still fail the whole call.
func DecomposePartial(points []*Point, options ...Option) (result *Result, err error) {
	defer func() {
		recoveredErr := advanced.HandleDecomposePanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	options = append(options[:len(options):len(options)], advanced.WithBestEffort(true))
	return advanced.NewDecomposer(options...).Decompose(points)
}
