package advanced

import (
	"log/slog"

	"github.com/osuushi/convexify/dbg"
	"github.com/pkg/errors"
)

// Observer receives progress events from a decomposition. Events are
// delivered on the goroutine that called Decompose, in a deterministic order.
type Observer interface {
	// A piece turned out to be convex and was added to the result.
	PieceConvex(id int, poly Polygon)
	// A piece was split in two.
	PieceSplit(id int, plan SplitPlan)
	PieceFailed(err *PieceError)
}

type Option func(*Decomposer)

// WithBestEffort makes pieces that cannot be split show up in
// Result.Failures instead of failing the whole decomposition.
func WithBestEffort(bestEffort bool) Option {
	return func(d *Decomposer) { d.bestEffort = bestEffort }
}

// WithWorkers sets how many pieces are planned in parallel. Values below 2
// plan on the calling goroutine.
func WithWorkers(n int) Option {
	return func(d *Decomposer) { d.workers = n }
}

// WithMaxDepth bounds the number of rounds. Zero or less uses the default of
// 2n+16 for an n vertex input.
func WithMaxDepth(n int) Option {
	return func(d *Decomposer) { d.maxDepth = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Decomposer) { d.logger = l }
}

func WithObserver(o Observer) Option {
	return func(d *Decomposer) { d.observer = o }
}

// A Decomposer splits simple polygons into convex pieces. It holds only
// settings, so one Decomposer can be shared between goroutines.
type Decomposer struct {
	bestEffort bool
	workers    int
	maxDepth   int
	logger     *slog.Logger
	observer   Observer
	planner    func(*Arena, IndexPolygon, int) (*SplitPlan, error)
}

func NewDecomposer(options ...Option) *Decomposer {
	d := &Decomposer{workers: 1, planner: PlanSplit}
	for _, option := range options {
		option(d)
	}
	return d
}

// A piece of the polygon still waiting to be made convex.
type piece struct {
	id   int
	poly IndexPolygon
}

// Pieces log as a readable name, which is only generated when the record is
// actually handled.
func (p *piece) LogValue() slog.Value {
	return slog.StringValue(dbg.Name(p.id))
}

// State of a single Decompose call.
type decomposition struct {
	Decomposer
	arena  *Arena
	nextID int
	result *Result
}

// Decompose splits the polygon into convex pieces. The input may wind either
// way; every output polygon is counterclockwise. Input points are reused in
// the output, and any Steiner points are new.
//
// In strict mode (the default), a piece that cannot be split fails the whole
// call with a *PieceError. In best effort mode such pieces are collected in
// Result.Failures and everything else is still returned. ErrDegenerateSplit,
// ErrParallelLines and ErrDepthExceeded are fatal either way.
func (d *Decomposer) Decompose(points []*Point) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = HandleDecomposePanicRecover(r)
		}
	}()

	arena, poly, err := Normalize(points)
	if err != nil {
		return nil, err
	}

	s := &decomposition{
		Decomposer: *d,
		arena:      arena,
		nextID:     1,
		result:     &Result{},
	}
	if s.logger == nil {
		s.logger = Logger()
	}
	if s.planner == nil {
		s.planner = PlanSplit
	}
	maxDepth := s.maxDepth
	if maxDepth <= 0 {
		maxDepth = 2*len(poly) + 16
	}

	pending := []piece{{id: 0, poly: poly}}
	for len(pending) > 0 {
		if s.result.Stats.Rounds >= maxDepth {
			return nil, errors.Wrapf(ErrDepthExceeded, "%d pieces still pending after %d rounds", len(pending), maxDepth)
		}
		s.result.Stats.Rounds++
		s.logger.Debug("decomposition round", "round", s.result.Stats.Rounds, "pending", len(pending))

		steps := s.planRound(pending)
		next := make([]piece, 0, 2*len(pending))
		for i, st := range steps {
			halves, err := s.apply(&pending[i], st)
			if err != nil {
				return nil, err
			}
			next = append(next, halves...)
		}
		pending = next
	}
	return s.result, nil
}

// apply carries out one planned step on the coordinator goroutine, returning
// the new pieces.
func (s *decomposition) apply(p *piece, st step) ([]piece, error) {
	switch {
	case st.convex:
		poly := s.arena.Polygon(p.poly)
		s.logger.Debug("piece is convex", "piece", p, "vertices", len(p.poly))
		s.result.Polygons = append(s.result.Polygons, poly)
		if s.observer != nil {
			s.observer.PieceConvex(p.id, poly)
		}
		return nil, nil

	case st.err != nil:
		pieceErr := s.pieceError(p, st.vertex, st.err)
		if !isNoVisiblePoint(st.err) {
			return nil, pieceErr
		}
		if s.observer != nil {
			s.observer.PieceFailed(pieceErr)
		}
		if !s.bestEffort {
			return nil, pieceErr
		}
		s.logger.Debug("giving up on piece", "piece", p, "error", st.err)
		s.result.Failures = append(s.result.Failures, pieceErr)
		return nil, nil
	}

	plan := st.plan
	halves, err := ApplyPlan(s.arena, p.poly, plan)
	if err != nil {
		return nil, s.pieceError(p, plan.Reflex, err)
	}
	if plan.Steiner != nil {
		s.result.Stats.SteinerPoints++
		// Record where the point ended up, for observers
		plan.Target = len(s.arena.Points) - 1
	}
	s.result.Stats.Splits++
	s.logger.Debug("split piece", "piece", p, "reflex", plan.Reflex, "target", plan.Target,
		"steiner", plan.Steiner != nil, "power", plan.Power)
	if s.observer != nil {
		s.observer.PieceSplit(p.id, *plan)
	}

	result := make([]piece, len(halves))
	for i, half := range halves {
		result[i] = piece{id: s.nextID, poly: half}
		s.nextID++
	}
	return result, nil
}

func (s *decomposition) pieceError(p *piece, vertex int, err error) *PieceError {
	pieceErr := &PieceError{
		Piece:   p.id,
		Vertex:  vertex,
		Polygon: s.arena.Polygon(p.poly),
		Err:     err,
	}
	if vertex >= 0 && vertex < len(s.arena.Points) {
		pieceErr.Point = s.arena.At(vertex)
	}
	return pieceErr
}

func isNoVisiblePoint(err error) bool {
	return errors.Is(err, ErrNoVisiblePoint)
}
