package advanced

import (
	"bytes"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decompose(t *testing.T, input []*Point, options ...Option) *Result {
	t.Helper()
	result, err := NewDecomposer(options...).Decompose(input)
	require.NoError(t, err)
	return result
}

func assertPieces(t *testing.T, expected [][]Point, actual PolygonList) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i, piece := range actual {
		require.Len(t, piece.Points, len(expected[i]), "piece %d", i)
		for j, p := range piece.Points {
			assertPoint(t, expected[i][j], p)
		}
	}
}

func TestDecompose_Dart(t *testing.T) {
	input := Dart()
	result := decompose(t, input)
	AssertValidDecomposition(t, input, result.Polygons)

	// The split runs from the reflex vertex straight down to a new point on the
	// bottom edge
	assertPieces(t, [][]Point{
		{{2, 1}, {0, 4}, {0, 0}, {2, 0}},
		{{2, 0}, {4, 0}, {4, 4}, {2, 1}},
	}, result.Polygons)
	assert.Same(t, input[3], result.Polygons[0].Points[0])
	assert.Same(t, result.Polygons[0].Points[3], result.Polygons[1].Points[0], "both pieces share the Steiner point")
	assert.Equal(t, Stats{Rounds: 2, Splits: 1, SteinerPoints: 1}, result.Stats)
}

func TestDecompose_LShape(t *testing.T) {
	input := LShape()
	result := decompose(t, input)
	AssertValidDecomposition(t, input, result.Polygons)
	assertPieces(t, [][]Point{
		{{2, 2}, {2, 4}, {0, 4}, {0, 0}},
		{{0, 0}, {4, 0}, {4, 2}, {2, 2}},
	}, result.Polygons)
	assert.Equal(t, Stats{Rounds: 2, Splits: 1}, result.Stats)
}

func TestDecompose_UShape(t *testing.T) {
	input := UShape()
	result := decompose(t, input)
	AssertValidDecomposition(t, input, result.Polygons)
	assertPieces(t, [][]Point{
		{{6, 0}, {6, 4}, {4, 4}, {4, 2}},
		{{2, 2}, {2, 4}, {0, 4}, {0, 0}},
		{{0, 0}, {6, 0}, {4, 2}, {2, 2}},
	}, result.Polygons)
	assert.Equal(t, Stats{Rounds: 3, Splits: 2}, result.Stats)
}

func TestDecompose_Chevron(t *testing.T) {
	input := Chevron()
	result := decompose(t, input)
	AssertValidDecomposition(t, input, result.Polygons)
	assertPieces(t, [][]Point{
		{{5, 10}, {0, 0}, {10, 10}},
		{{10, 10}, {0, 20}, {5, 10}},
	}, result.Polygons)
}

func TestDecompose_Notch(t *testing.T) {
	// The vertex at (0, 5) can't be split on its own, but once the wedge tips
	// are joined it can.
	input := Notch()
	result := decompose(t, input)
	AssertValidDecomposition(t, input, result.Polygons)
	assert.Len(t, result.Polygons, 3)
	assert.Equal(t, Stats{Rounds: 3, Splits: 2, SteinerPoints: 1}, result.Stats)
}

func TestDecompose_Star(t *testing.T) {
	for name, input := range map[string][]*Point{
		"simple":    SimpleStar(),
		"clockwise": reversed(SimpleStar()),
		"7 tips":    Star(7, 10, 3),
		"12 tips":   Star(12, 10, 3),
	} {
		input := input
		t.Run(name, func(t *testing.T) {
			result := decompose(t, input)
			AssertValidDecomposition(t, input, result.Polygons)
		})
	}
}

func TestDecompose_Spiral(t *testing.T) {
	for _, turns := range []int{1, 2, 3} {
		input := Spiral(turns, 12)
		result := decompose(t, input)
		AssertValidDecomposition(t, input, result.Polygons)
	}
}

func TestDecompose_Fixtures(t *testing.T) {
	for _, name := range []string{"comb", "stairs", "cross", "notch"} {
		name := name
		t.Run(name, func(t *testing.T) {
			input := LoadFixture(name)
			result := decompose(t, input)
			AssertValidDecomposition(t, input, result.Polygons)
		})
	}
}

func TestDecompose_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		input := RandomStar(rng, 15, 10)
		result := decompose(t, input)
		AssertValidDecomposition(t, input, result.Polygons)
	}
}

func TestDecompose_Scaled(t *testing.T) {
	shapes := map[string][]*Point{
		"dart":   Dart(),
		"L":      LShape(),
		"U":      UShape(),
		"notch":  Notch(),
		"star":   Star(7, 10, 3),
		"spiral": Spiral(2, 12),
		"comb":   LoadFixture("comb"),
		"stairs": LoadFixture("stairs"),
		"cross":  LoadFixture("cross"),
	}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		shapes[fmt.Sprintf("random %d", i)] = RandomStar(rng, 15, 1)
	}

	for name, shape := range shapes {
		for _, scale := range []float64{1e-6, 1e-5, 1e-4, 1e4} {
			shape, scale := shape, scale
			t.Run(fmt.Sprintf("%s x %g", name, scale), func(t *testing.T) {
				input := transformed(shape, scale, 7.123456, 50.98765)
				result := decompose(t, input)
				AssertValidDecomposition(t, input, result.Polygons)
			})
		}
	}
}

// A dart a few micrometers across, far from the origin, splits exactly like
// the unit sized one.
func TestDecompose_TinyDart(t *testing.T) {
	input := transformed(Dart(), 1e-6, 7.123456, 50.98765)
	result := decompose(t, input)
	AssertValidDecomposition(t, input, result.Polygons)
	require.Len(t, result.Polygons, 2)
	assert.Equal(t, Stats{Rounds: 2, Splits: 1, SteinerPoints: 1}, result.Stats)
	assert.Same(t, input[3], result.Polygons[0].Points[0])

	steiner := result.Polygons[0].Points[3]
	assert.InDelta(t, 7.123456+2e-6, steiner.X, 1e-12)
	assert.InDelta(t, 50.98765, steiner.Y, 1e-12)
}

func TestDecompose_Convex(t *testing.T) {
	square := points(0, 0, 1, 0, 1, 1, 0, 1)
	result := decompose(t, square)
	require.Len(t, result.Polygons, 1)
	assert.Equal(t, square, result.Polygons[0].Points)
	for i, p := range square {
		assert.Same(t, p, result.Polygons[0].Points[i])
	}
	assert.Equal(t, Stats{Rounds: 1}, result.Stats)

	// Clockwise input comes back counterclockwise
	triangle := points(0, 0, 0, 1, 1, 0)
	result = decompose(t, triangle)
	require.Len(t, result.Polygons, 1)
	assert.Equal(t, reversed(triangle), result.Polygons[0].Points)
}

func TestDecompose_Idempotent(t *testing.T) {
	for _, input := range [][]*Point{Dart(), UShape(), SimpleStar(), Spiral(2, 12)} {
		for _, piece := range decompose(t, input).Polygons {
			again := decompose(t, piece.Points)
			require.Len(t, again.Polygons, 1)
			assert.Equal(t, piece.Points, again.Polygons[0].Points)
		}
	}
}

func TestDecompose_Invalid(t *testing.T) {
	_, err := NewDecomposer().Decompose(points(0, 0, 1, 1))
	assert.True(t, errors.Is(err, ErrInvalidPolygon), "got %v", err)

	_, err = NewDecomposer().Decompose(points(0, 0, 1, 1, 2, 2, 3, 3))
	assert.True(t, errors.Is(err, ErrInvalidPolygon), "got %v", err)
}

func TestDecompose_Workers(t *testing.T) {
	for _, input := range [][]*Point{Spiral(3, 12), Star(12, 10, 3), LoadFixture("comb")} {
		sequential := decompose(t, input)
		for _, workers := range []int{2, 4, 16} {
			parallel := decompose(t, input, WithWorkers(workers))
			assert.Equal(t, sequential.Polygons, parallel.Polygons)
			assert.Equal(t, sequential.Stats, parallel.Stats)
		}
	}
}

func TestDecompose_SharedDecomposer(t *testing.T) {
	d := NewDecomposer(WithWorkers(2))
	var wg sync.WaitGroup
	results := make([]*Result, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := d.Decompose(Spiral(2, 12))
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()
	for _, result := range results {
		require.NotNil(t, result)
		assert.Equal(t, results[0].Polygons, result.Polygons)
	}
}

func TestDecompose_MaxDepth(t *testing.T) {
	_, err := NewDecomposer(WithMaxDepth(1)).Decompose(Dart())
	assert.True(t, errors.Is(err, ErrDepthExceeded), "got %v", err)

	decompose(t, Dart(), WithMaxDepth(2))
}

// Planner that can never split at the vertex with the given arena index
func blockingPlanner(blocked int) func(*Arena, IndexPolygon, int) (*SplitPlan, error) {
	return func(arena *Arena, poly IndexPolygon, r int) (*SplitPlan, error) {
		if r == blocked {
			return nil, errors.Wrapf(ErrNoVisiblePoint, "vertex %d is blocked", r)
		}
		return PlanSplit(arena, poly, r)
	}
}

func TestDecompose_Strict(t *testing.T) {
	d := NewDecomposer()
	d.planner = blockingPlanner(5)

	result, err := d.Decompose(UShape())
	assert.Nil(t, result)
	require.True(t, errors.Is(err, ErrNoVisiblePoint), "got %v", err)

	var pieceErr *PieceError
	require.True(t, errors.As(err, &pieceErr))
	assert.Equal(t, 1, pieceErr.Piece)
	assert.Equal(t, 5, pieceErr.Vertex)
	assert.Equal(t, Point{2, 2}, *pieceErr.Point)
	assert.Len(t, pieceErr.Polygon.Points, 6)
	assert.Contains(t, pieceErr.Error(), "piece 1, vertex 5 (2, 2)")
}

func TestDecompose_BestEffort(t *testing.T) {
	d := NewDecomposer(WithBestEffort(true))
	d.planner = blockingPlanner(5)

	result, err := d.Decompose(UShape())
	require.NoError(t, err)
	assertPieces(t, [][]Point{{{6, 0}, {6, 4}, {4, 4}, {4, 2}}}, result.Polygons)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Piece)
	assert.True(t, errors.Is(result.Failures[0], ErrNoVisiblePoint))

	// The failed piece and the emitted ones still cover the input
	pieces := append(PolygonList{result.Failures[0].Polygon}, result.Polygons...)
	assert.InDelta(t, 20, pieces.Area(), Tolerance)
}

func TestDecompose_FatalInBestEffort(t *testing.T) {
	d := NewDecomposer(WithBestEffort(true))
	d.planner = func(*Arena, IndexPolygon, int) (*SplitPlan, error) {
		return nil, errors.Wrap(ErrParallelLines, "bisector")
	}
	_, err := d.Decompose(LShape())
	assert.True(t, errors.Is(err, ErrParallelLines), "got %v", err)
}

func TestDecompose_PlannerPanic(t *testing.T) {
	d := NewDecomposer(WithWorkers(4))
	d.planner = func(*Arena, IndexPolygon, int) (*SplitPlan, error) {
		fatalf("kaboom!")
		return nil, nil
	}
	_, err := d.Decompose(UShape())
	assert.EqualError(t, err, "piece 0: kaboom!")
}

type recordingObserver struct {
	convex []int
	splits []SplitPlan
	failed []*PieceError
}

func (o *recordingObserver) PieceConvex(id int, poly Polygon)  { o.convex = append(o.convex, id) }
func (o *recordingObserver) PieceSplit(id int, plan SplitPlan) { o.splits = append(o.splits, plan) }
func (o *recordingObserver) PieceFailed(err *PieceError)       { o.failed = append(o.failed, err) }

func TestDecompose_Observer(t *testing.T) {
	observer := &recordingObserver{}
	decompose(t, Dart(), WithObserver(observer))
	assert.Equal(t, []int{1, 2}, observer.convex)
	require.Len(t, observer.splits, 1)
	assert.Equal(t, 3, observer.splits[0].Reflex)
	assert.Equal(t, 5, observer.splits[0].Target, "Steiner points get their arena index")
	assertPoint(t, Point{2, 0}, observer.splits[0].Steiner)
	assert.Empty(t, observer.failed)

	observer = &recordingObserver{}
	d := NewDecomposer(WithBestEffort(true), WithObserver(observer))
	d.planner = blockingPlanner(5)
	_, err := d.Decompose(UShape())
	require.NoError(t, err)
	require.Len(t, observer.failed, 1)
	assert.Equal(t, 5, observer.failed[0].Vertex)
}

func TestDecompose_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	decompose(t, LShape(), WithLogger(logger))
	assert.Contains(t, buf.String(), "msg=\"split piece\"")
	assert.Contains(t, buf.String(), "msg=\"piece is convex\"")
	assert.Contains(t, buf.String(), "round=2")
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	decompose(t, LShape())
	assert.Contains(t, buf.String(), "split piece")

	SetLogger(nil)
	buf.Reset()
	decompose(t, LShape())
	assert.Empty(t, buf.String())
}
