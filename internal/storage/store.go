package storage

import (
	"context"

	"earl/internal/model"
)

// Store defines persistence operations for agent snapshots and run records.
type Store interface {
	Init(ctx context.Context) error
	SaveAgent(ctx context.Context, snap model.AgentSnapshot) error
	GetAgent(ctx context.Context, id string) (model.AgentSnapshot, bool, error)
	SaveFitnessHistory(ctx context.Context, runID string, history []float64) error
	GetFitnessHistory(ctx context.Context, runID string) ([]float64, bool, error)
	SaveRunSummary(ctx context.Context, summary model.RunSummaryRecord) error
	GetRunSummary(ctx context.Context, runID string) (model.RunSummaryRecord, bool, error)
}

func copySnapshot(snap model.AgentSnapshot) model.AgentSnapshot {
	snap.Weights = append([]float64(nil), snap.Weights...)
	snap.History = append([]float64(nil), snap.History...)
	return snap
}
