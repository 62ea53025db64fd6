package agent

import (
	"errors"
	"math"
	"math/rand"

	"earl/internal/scape"
)

var (
	ErrNoActions = errors.New("action set must not be empty")
	ErrNoFitness = errors.New("fitness function is required")
	ErrBadConfig = errors.New("invalid agent configuration")

	// ErrDegenerateWeights means the effective weight vector cannot be
	// normalized into a distribution. The caller decides the recovery,
	// typically ResetWeights followed by a retried tick.
	ErrDegenerateWeights = errors.New("weight sum is zero or not finite")

	ErrActionCountMismatch = errors.New("snapshot action count does not match supplied actions")
)

// Agent maps a fixed, ordered action set to evolving selection weights,
// adjusted from scalar fitness feedback after every tick. Action index is
// the stable identity throughout the agent's lifetime.
//
// The agent is single-threaded: Tick must not be invoked concurrently, and
// independent agents share no state, including their random streams.
type Agent struct {
	actions []scape.Action
	fitness scape.FitnessFunc
	cfg     Config
	rng     *rand.Rand

	weights      []float64
	history      []float64
	bestFitness  float64
	lastFitness  float64
	tickCount    int
	mutationStep float64
}

// New constructs an agent with uniform weights, zeroed history and no
// recorded best fitness. The action order supplied here fixes action
// identity for the rest of the agent's life.
func New(actions []scape.Action, fitness scape.FitnessFunc, cfg Config) (*Agent, error) {
	if len(actions) == 0 {
		return nil, ErrNoActions
	}
	if fitness == nil {
		return nil, ErrNoFitness
	}
	cfg = cfg.WithDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	a := &Agent{
		actions:      actions,
		fitness:      fitness,
		cfg:          cfg,
		rng:          newRand(cfg),
		weights:      make([]float64, len(actions)),
		history:      make([]float64, len(actions)),
		bestFitness:  math.Inf(-1),
		mutationStep: cfg.MutationStepInit,
	}
	a.ResetWeights()
	return a, nil
}

func newRand(cfg Config) *rand.Rand {
	if cfg.Rand != nil {
		return cfg.Rand
	}
	return rand.New(rand.NewSource(cfg.Seed))
}

// Tick runs one full select-execute-evaluate-update cycle. A returned error
// means no state changed: selection failure is the only error path and it
// precedes every mutation of agent state.
func (a *Agent) Tick() error {
	idx, err := a.selectAction()
	if err != nil {
		return err
	}

	a.actions[idx]()
	observed := a.fitness()
	a.lastFitness = observed

	if observed > a.bestFitness {
		// The first observation only establishes the baseline; a
		// proportional bonus over -Inf would be unbounded.
		if !math.IsInf(a.bestFitness, -1) {
			a.weights[idx] += a.cfg.ReinforceGain * (observed - a.bestFitness)
		}
		a.bestFitness = observed
		a.history[idx] += a.cfg.HistoryIncrement
	}

	for i := range a.history {
		a.history[i] *= a.cfg.HistoryDecay
	}

	a.mutateWeights()
	a.adaptMutationStep()
	a.tickCount++
	return nil
}

// selectAction samples an index from the categorical distribution obtained
// by normalizing the effective weights. History enters selection only here,
// as an additive overlay; the stored weights never absorb it.
func (a *Agent) selectAction() (int, error) {
	effective := a.effectiveWeights()
	total := 0.0
	for _, w := range effective {
		total += w
	}
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return 0, ErrDegenerateWeights
	}

	target := a.rng.Float64() * total
	acc := 0.0
	for i, w := range effective {
		acc += w
		if target < acc {
			return i, nil
		}
	}
	return len(effective) - 1, nil
}

func (a *Agent) effectiveWeights() []float64 {
	effective := make([]float64, len(a.weights))
	for i := range a.weights {
		effective[i] = a.weights[i] + a.cfg.HistoryBiasStrength*a.history[i]
	}
	return effective
}

// mutateWeights perturbs every weight with zero-mean uniform noise scaled by
// the current mutation step, clamping results at zero.
func (a *Agent) mutateWeights() {
	for i := range a.weights {
		noise := (a.rng.Float64()*2 - 1) * a.mutationStep
		w := a.weights[i] + noise
		if w < 0 {
			w = 0
		}
		a.weights[i] = w
	}
}

// adaptMutationStep resizes the mutation step from the weight vector's
// population variance: a spread-out vector explores harder, a converged one
// fine-tunes.
func (a *Agent) adaptMutationStep() {
	step := a.cfg.VarianceGain * populationVariance(a.weights)
	a.mutationStep = clamp(step, a.cfg.MutationStepMin, a.cfg.MutationStepMax)
}

// ResetWeights restores the uniform distribution. It is the recovery path
// after ErrDegenerateWeights; the agent never resets on its own.
func (a *Agent) ResetWeights() {
	for i := range a.weights {
		a.weights[i] = 1.0 / float64(len(a.weights))
	}
}

// SelectionProbabilities returns the normalized effective weights, the
// distribution the next Tick would sample from.
func (a *Agent) SelectionProbabilities() ([]float64, error) {
	effective := a.effectiveWeights()
	total := 0.0
	for _, w := range effective {
		total += w
	}
	if total <= 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return nil, ErrDegenerateWeights
	}
	for i := range effective {
		effective[i] /= total
	}
	return effective, nil
}

func (a *Agent) TickCount() int {
	return a.tickCount
}

// LastFitness is the fitness observed on the most recent tick. It is zero
// before the first tick.
func (a *Agent) LastFitness() float64 {
	return a.lastFitness
}

// BestFitness is the highest fitness observed so far, -Inf before the first
// tick. It is non-decreasing across any sequence of ticks.
func (a *Agent) BestFitness() float64 {
	return a.bestFitness
}

func (a *Agent) MutationStep() float64 {
	return a.mutationStep
}

func (a *Agent) ActionCount() int {
	return len(a.actions)
}

func (a *Agent) Weights() []float64 {
	return append([]float64(nil), a.weights...)
}

func (a *Agent) History() []float64 {
	return append([]float64(nil), a.history...)
}
