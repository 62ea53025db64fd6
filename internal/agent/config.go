package agent

import (
	"fmt"
	"math/rand"
)

const (
	defaultReinforceGain       = 1.0
	defaultHistoryIncrement    = 1.0
	defaultHistoryDecay        = 0.9
	defaultHistoryBiasStrength = 0.1
	defaultMutationStepInit    = 0.05
	defaultMutationStepMin     = 0.01
	defaultMutationStepMax     = 0.25
	defaultVarianceGain        = 0.1
)

// Config holds the numeric knobs of the learning rule. Zero values are
// replaced by defaults; explicit values are validated at construction.
type Config struct {
	// ReinforceGain scales the weight bonus applied to the chosen action
	// when a tick improves on the best fitness seen so far.
	ReinforceGain float64
	// HistoryIncrement is the fixed credit added to the chosen action's
	// history entry on an improving tick.
	HistoryIncrement float64
	// HistoryDecay multiplies every history entry once per tick; must be
	// in [0, 1).
	HistoryDecay float64
	// HistoryBiasStrength scales the history overlay added to each weight
	// at selection time.
	HistoryBiasStrength float64

	MutationStepInit float64
	MutationStepMin  float64
	MutationStepMax  float64
	// VarianceGain maps the weight vector's population variance to the
	// next mutation step before clamping.
	VarianceGain float64

	// Seed initializes the agent's private random stream. Rand, when set,
	// takes precedence over Seed.
	Seed int64
	Rand *rand.Rand
}

// WithDefaults returns the config with zero fields replaced by defaults.
// New and Restore apply it before validating.
func (c Config) WithDefaults() Config {
	if c.ReinforceGain == 0 {
		c.ReinforceGain = defaultReinforceGain
	}
	if c.HistoryIncrement == 0 {
		c.HistoryIncrement = defaultHistoryIncrement
	}
	if c.HistoryDecay == 0 {
		c.HistoryDecay = defaultHistoryDecay
	}
	if c.HistoryBiasStrength == 0 {
		c.HistoryBiasStrength = defaultHistoryBiasStrength
	}
	if c.MutationStepInit == 0 {
		c.MutationStepInit = defaultMutationStepInit
	}
	if c.MutationStepMin == 0 {
		c.MutationStepMin = defaultMutationStepMin
	}
	if c.MutationStepMax == 0 {
		c.MutationStepMax = defaultMutationStepMax
	}
	if c.VarianceGain == 0 {
		c.VarianceGain = defaultVarianceGain
	}
	return c
}

func (c Config) validate() error {
	if c.ReinforceGain <= 0 {
		return fmt.Errorf("%w: reinforce gain must be > 0", ErrBadConfig)
	}
	if c.HistoryIncrement <= 0 {
		return fmt.Errorf("%w: history increment must be > 0", ErrBadConfig)
	}
	if c.HistoryDecay < 0 || c.HistoryDecay >= 1 {
		return fmt.Errorf("%w: history decay must be in [0, 1)", ErrBadConfig)
	}
	if c.HistoryBiasStrength < 0 {
		return fmt.Errorf("%w: history bias strength must be >= 0", ErrBadConfig)
	}
	if c.MutationStepMin <= 0 || c.MutationStepMax <= 0 {
		return fmt.Errorf("%w: mutation step bounds must be > 0", ErrBadConfig)
	}
	if c.MutationStepMin > c.MutationStepMax {
		return fmt.Errorf("%w: mutation step min %g exceeds max %g", ErrBadConfig, c.MutationStepMin, c.MutationStepMax)
	}
	if c.MutationStepInit < c.MutationStepMin || c.MutationStepInit > c.MutationStepMax {
		return fmt.Errorf("%w: initial mutation step %g outside [%g, %g]", ErrBadConfig, c.MutationStepInit, c.MutationStepMin, c.MutationStepMax)
	}
	if c.VarianceGain <= 0 {
		return fmt.Errorf("%w: variance gain must be > 0", ErrBadConfig)
	}
	return nil
}
