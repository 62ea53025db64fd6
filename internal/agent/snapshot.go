package agent

import (
	"fmt"
	"math"

	"earl/internal/model"
	"earl/internal/scape"
)

// Snapshot captures the full serializable agent state. The returned record
// shares no memory with the agent. Best fitness is flagged rather than
// stored when still -Inf, since JSON cannot carry infinities.
func (a *Agent) Snapshot() model.AgentSnapshot {
	snap := model.AgentSnapshot{
		ActionCount:  len(a.actions),
		Weights:      append([]float64(nil), a.weights...),
		History:      append([]float64(nil), a.history...),
		LastFitness:  a.lastFitness,
		TickCount:    a.tickCount,
		MutationStep: a.mutationStep,
	}
	if !math.IsInf(a.bestFitness, -1) {
		snap.BestFitness = a.bestFitness
		snap.BestRecorded = true
	}
	return snap
}

// Restore reconstructs an agent from a snapshot. The action set and fitness
// function are not persisted and must be re-supplied by the caller; the
// supplied action count has to match the one recorded at save time.
func Restore(snap model.AgentSnapshot, actions []scape.Action, fitness scape.FitnessFunc, cfg Config) (*Agent, error) {
	if len(actions) == 0 {
		return nil, ErrNoActions
	}
	if fitness == nil {
		return nil, ErrNoFitness
	}
	if snap.ActionCount != len(actions) {
		return nil, fmt.Errorf("%w: snapshot has %d, supplied %d", ErrActionCountMismatch, snap.ActionCount, len(actions))
	}
	if len(snap.Weights) != len(actions) || len(snap.History) != len(actions) {
		return nil, fmt.Errorf("%w: state vectors have %d and %d entries", ErrActionCountMismatch, len(snap.Weights), len(snap.History))
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
		weights:      append([]float64(nil), snap.Weights...),
		history:      append([]float64(nil), snap.History...),
		bestFitness:  math.Inf(-1),
		lastFitness:  snap.LastFitness,
		tickCount:    snap.TickCount,
		mutationStep: snap.MutationStep,
	}
	if snap.BestRecorded {
		a.bestFitness = snap.BestFitness
	}
	if a.mutationStep <= 0 {
		a.mutationStep = cfg.MutationStepInit
	}
	return a, nil
}
