// Package evolve wraps weight training in a population-based search
// over network topologies. Each iteration mutates every individual's
// graph, re-trains the weights of every mutant in parallel, breeds
// offspring by crossover, and keeps the lowest-error half.
package evolve

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/baldhumanity/evonet-go/evonet"
	"github.com/baldhumanity/evonet-go/evonet/nn"
)

// newArcWeight is the weight a connectivity mutation starts a fresh arc
// at: small enough not to disturb the trained behaviour, large enough
// for the trainer to pick it up.
const newArcWeight = 1e-3

// addArcAttempts bounds the search for an unconnected node pair in a
// densely connected graph.
const addArcAttempts = 20

var (
	// ErrBadPopulation indicates an odd population size or one of size ≤ 1.
	ErrBadPopulation = errors.New("evolve: population size must be even and greater than 1")
	// ErrMissingState indicates a config without an RNG or id generator.
	ErrMissingState = errors.New("evolve: config needs both an RNG and an id generator")
)

// Config parameterises an evolutionary run. RNG and IDs are consumed
// only on the calling goroutine, so a fixed seed gives a fully
// deterministic run. A nil Logger means slog.Default(). Workers limits
// the parallel training fan-out; zero or less means GOMAXPROCS. A
// non-empty CheckpointPath makes the run snapshot its population there
// after every iteration.
type Config struct {
	Train          *evonet.TrainConfig
	Samples        []nn.Sample
	RNG            *rand.Rand
	IDs            *evonet.IDGenerator
	PopulationSize int
	TargetError    float64
	Iterations     int
	Logger         *slog.Logger
	Workers        int
	CheckpointPath string
}

func (c *Config) validate() error {
	if c.Train == nil {
		return fmt.Errorf("%w: training configuration is required", evonet.ErrBadConfig)
	}
	if err := c.Train.Validate(); err != nil {
		return err
	}
	if c.RNG == nil || c.IDs == nil {
		return ErrMissingState
	}
	if c.PopulationSize <= 1 || c.PopulationSize%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrBadPopulation, c.PopulationSize)
	}
	if c.TargetError < 0 {
		return fmt.Errorf("%w: target error cannot be negative", evonet.ErrBadConfig)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations cannot be negative", evonet.ErrBadConfig)
	}
	return nil
}

// individual is one population member: a topology plus the error its
// trained weights achieved.
type individual struct {
	mutator *evonet.Mutator
	err     float64
}

// Evolution holds the state of one run.
type Evolution struct {
	conf       *Config
	logger     *slog.Logger
	workers    int
	iterations int
}

// New validates the config and prepares a run.
func New(conf *Config) (*Evolution, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}
	logger := conf.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := conf.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Evolution{conf: conf, logger: logger, workers: workers}, nil
}

// Run evolves seed and returns the lowest-error individual found. With
// a zero iteration budget, or a seed already at or below the target
// error, the seed comes back untouched.
func Run(seed *evonet.Mutator, conf *Config) (*evonet.Mutator, error) {
	evolution, err := New(conf)
	if err != nil {
		return nil, err
	}
	return evolution.Run(seed)
}

// Run executes the evolutionary loop on seed.
func (e *Evolution) Run(seed *evonet.Mutator) (*evonet.Mutator, error) {
	seedError, err := e.errorOf(seed)
	if err != nil {
		return nil, err
	}
	if e.conf.Iterations == 0 || seedError <= e.conf.TargetError {
		e.logger.Info("evolution not started",
			slog.Float64("error", seedError),
			slog.Float64("target", e.conf.TargetError),
			slog.Int("iterations", e.conf.Iterations))
		return seed, nil
	}

	population := make([]individual, e.conf.PopulationSize)
	for i := range population {
		population[i] = individual{mutator: seed.Clone(), err: seedError}
	}

	for {
		mutated := e.mutate(population)
		trained, err := e.train(mutated)
		if err != nil {
			return nil, err
		}
		e.iterations++
		e.report(trained)
		if e.conf.CheckpointPath != "" {
			if err := e.checkpoint(trained); err != nil {
				e.logger.Warn("checkpoint failed", slog.String("path", e.conf.CheckpointPath), slog.Any("error", err))
			}
		}
		if e.terminate(trained) {
			population = trained
			break
		}
		offspring, err := e.propagate(trained)
		if err != nil {
			return nil, err
		}
		population = selectBest(append(offspring, trained...), e.conf.PopulationSize)
	}

	best := selectBest(population, 1)[0]
	e.logger.Info("evolution finished",
		slog.Int("iterations", e.iterations),
		slog.Float64("error", best.err),
		slog.Float64("seed_error", seedError))
	return best.mutator, nil
}

// mutate draws exactly one topology mutation for every individual and
// returns the mutated topologies. A draw that finds nothing to act on
// (no arc to split or remove, or no unconnected pair within
// addArcAttempts tries) leaves that individual unchanged. All random
// draws happen here, on the driver goroutine, in population order.
func (e *Evolution) mutate(population []individual) []*evonet.Mutator {
	rng := e.conf.RNG
	mutated := make([]*evonet.Mutator, len(population))
	for i := range population {
		m := population[i].mutator
		switch rng.Intn(3) {
		case 0:
			if arc, ok := m.RandomArc(rng); ok {
				if err := m.Split(e.conf.IDs, arc); err != nil {
					panic(err)
				}
			}
		case 1:
			for attempt := 0; attempt < addArcAttempts; attempt++ {
				src := m.RandomNode(rng)
				dst := m.RandomNode(rng)
				if m.Graph().HasArc(evonet.Arc{Src: src, Dst: dst}) {
					continue
				}
				if err := m.AddArc(src, dst, newArcWeight); err != nil {
					panic(err)
				}
				break
			}
		case 2:
			if arc, ok := m.RandomArc(rng); ok {
				if err := m.RemoveArc(arc); err != nil {
					panic(err)
				}
				m.RemoveUseless()
			}
		}
		mutated[i] = m
	}
	return mutated
}

// train compiles and trains every mutant in parallel. Each worker owns
// its individual's network buffer exclusively; results land at their
// input index, so the outcome is identical to sequential evaluation.
func (e *Evolution) train(mutated []*evonet.Mutator) ([]individual, error) {
	trained := make([]individual, len(mutated))
	var group errgroup.Group
	group.SetLimit(e.workers)
	for i, m := range mutated {
		i, m := i, m
		group.Go(func() error {
			buf := nn.Compile(m)
			errValue, err := buf.Train(e.conf.Train, e.conf.Samples)
			if err != nil {
				return err
			}
			rebuilt, err := nn.MutatorFromNetwork(buf.AsNetwork())
			if err != nil {
				return err
			}
			trained[i] = individual{mutator: rebuilt, err: errValue}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return trained, nil
}

// terminate reports whether the loop is done: the iteration budget is
// spent or some individual reached the target error.
func (e *Evolution) terminate(population []individual) bool {
	if e.iterations >= e.conf.Iterations {
		return true
	}
	for _, ind := range population {
		if ind.err <= e.conf.TargetError {
			return true
		}
	}
	return false
}

// propagate breeds one offspring per individual by pairing two
// independent shuffles of the population index-wise and unioning each
// pair. Offspring are scored but not trained; training them waits for
// the next iteration's mutate step.
func (e *Evolution) propagate(population []individual) ([]individual, error) {
	left := e.conf.RNG.Perm(len(population))
	right := e.conf.RNG.Perm(len(population))
	offspring := make([]individual, len(population))
	for i := range population {
		child := population[left[i]].mutator.Union(population[right[i]].mutator)
		errValue, err := e.errorOf(child)
		if err != nil {
			return nil, err
		}
		offspring[i] = individual{mutator: child, err: errValue}
	}
	return offspring, nil
}

func (e *Evolution) errorOf(m *evonet.Mutator) (float64, error) {
	return nn.Compile(m).AsNetwork().Error(&e.conf.Train.ApplyConfig, e.conf.Samples)
}

func (e *Evolution) report(population []individual) {
	errs := make([]float64, len(population))
	for i, ind := range population {
		errs[i] = ind.err
	}
	e.logger.Info("iteration complete",
		slog.Int("iteration", e.iterations),
		slog.Int("total", e.conf.Iterations),
		slog.Float64("best", evonet.Min(errs)),
		slog.Float64("mean", evonet.Mean(errs)),
		slog.Float64("median", evonet.Median(errs)))
}

// selectBest keeps the count lowest-error individuals. The sort is
// stable, so ties keep their population order.
func selectBest(population []individual, count int) []individual {
	sort.SliceStable(population, func(i, j int) bool {
		return population[i].err < population[j].err
	})
	if count > len(population) {
		count = len(population)
	}
	return population[:count]
}
