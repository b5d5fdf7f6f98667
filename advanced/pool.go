package advanced

import (
	"github.com/sourcegraph/conc/iter"
)

// A step is what planning decided for one piece in a round.
type step struct {
	convex bool
	plan   *SplitPlan
	// Set when every reflex vertex reported ErrNoVisiblePoint, or planning hit
	// a fatal error.
	err    error
	vertex int
}

// planRound plans every pending piece against the arena as it stands at the
// start of the round. Nothing touches the arena while planning, so the pieces
// can be planned in parallel. Results come back in the same order as the
// pieces regardless of the number of workers.
func (s *decomposition) planRound(pending []piece) []step {
	if s.workers <= 1 || len(pending) < 2 {
		steps := make([]step, len(pending))
		for i := range pending {
			steps[i] = s.planStep(&pending[i])
		}
		return steps
	}
	mapper := iter.Mapper[piece, step]{MaxGoroutines: s.workers}
	return mapper.Map(pending, s.planStep)
}

// planStep never panics: internal errors are recovered and reported in the
// step so that one bad piece can't take down the worker goroutines.
func (s *decomposition) planStep(p *piece) (result step) {
	defer func() {
		if r := recover(); r != nil {
			result = step{err: HandleDecomposePanicRecover(r), vertex: -1}
		}
	}()

	reflex := ReflexVertices(s.arena, p.poly)
	if len(reflex) == 0 {
		return step{convex: true}
	}

	var firstErr error
	for _, r := range reflex {
		plan, err := s.planner(s.arena, p.poly, r)
		if err == nil {
			return step{plan: plan}
		}
		if !isNoVisiblePoint(err) {
			return step{err: err, vertex: r}
		}
		s.logger.Debug("no split from reflex vertex",
			"piece", p, "vertex", r, "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return step{err: firstErr, vertex: reflex[0]}
}
