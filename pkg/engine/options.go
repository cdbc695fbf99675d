package engine

import (
	"github.com/gnames/gnmsf/pkg/cluster"
	"github.com/gnames/gnmsf/pkg/ent/model"
	"github.com/gnames/gnmsf/pkg/quorum"
)

// Gate decides whether a model may be searched on a replicon. It carries
// inter-model rules that are decided outside of the engine.
type Gate func(m *model.Model, repliconID string) bool

// Progress is called after each finished replicon. Calls are serialized.
type Progress func(done, total int)

// Option configures an Engine.
type Option func(*Engine)

// OptJobsNumber sets how many replicons are processed at once.
func OptJobsNumber(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.jobs = n
		}
	}
}

// OptWeights sets the scoring weights.
func OptWeights(w quorum.Weights) Option {
	return func(e *Engine) {
		e.weights = w
	}
}

// OptMaxCandidates bounds the candidates of one model on one replicon.
// Zero means no bound.
func OptMaxCandidates(n int) Option {
	return func(e *Engine) {
		e.maxCandidates = max(n, 0)
	}
}

// OptMaxSwapRounds caps local exchange rounds of conflict resolution.
func OptMaxSwapRounds(n int) Option {
	return func(e *Engine) {
		e.maxSwapRounds = max(n, 0)
	}
}

// OptDefaultTopology sets the topology of replicons missing from the
// topology map given to Run.
func OptDefaultTopology(t cluster.Topology) Option {
	return func(e *Engine) {
		e.defaultTopology = t
	}
}

// OptGate sets the predicate that can exclude a model from a replicon.
func OptGate(g Gate) Option {
	return func(e *Engine) {
		e.gate = g
	}
}

// OptProgress sets a callback reporting finished replicons.
func OptProgress(p Progress) Option {
	return func(e *Engine) {
		e.progress = p
	}
}
