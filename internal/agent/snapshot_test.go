package agent

import (
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"earl/internal/scape"
	"earl/internal/storage"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	sc := scape.NewCounterScape(10)
	ag, err := New(sc.Actions(), sc.Fitness, Config{Seed: 7})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	for i := 0; i < 25; i++ {
		if err := ag.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i+1, err)
		}
	}

	snap := ag.Snapshot()
	restored, err := Restore(snap, sc.Actions(), sc.Fitness, Config{Seed: 7})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if restored.TickCount() != ag.TickCount() {
		t.Fatalf("tick count mismatch: %d vs %d", restored.TickCount(), ag.TickCount())
	}
	if restored.BestFitness() != ag.BestFitness() {
		t.Fatalf("best fitness mismatch: %g vs %g", restored.BestFitness(), ag.BestFitness())
	}
	if restored.LastFitness() != ag.LastFitness() {
		t.Fatalf("last fitness mismatch: %g vs %g", restored.LastFitness(), ag.LastFitness())
	}
	if restored.MutationStep() != ag.MutationStep() {
		t.Fatalf("mutation step mismatch: %g vs %g", restored.MutationStep(), ag.MutationStep())
	}
	if !reflect.DeepEqual(restored.Weights(), ag.Weights()) {
		t.Fatalf("weights mismatch: %v vs %v", restored.Weights(), ag.Weights())
	}
	if !reflect.DeepEqual(restored.History(), ag.History()) {
		t.Fatalf("history mismatch: %v vs %v", restored.History(), ag.History())
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	sc := scape.NewCounterScape(10)
	ag, err := New(sc.Actions(), sc.Fitness, Config{Seed: 17})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}
	for i := 0; i < 40; i++ {
		if err := ag.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i+1, err)
		}
	}

	path := filepath.Join(t.TempDir(), "agent.json")
	if err := storage.SaveSnapshotFile(path, ag.Snapshot()); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	loaded, err := storage.LoadSnapshotFile(path)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}

	restored, err := Restore(loaded, sc.Actions(), sc.Fitness, Config{Seed: 17})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.TickCount() != ag.TickCount() ||
		restored.BestFitness() != ag.BestFitness() ||
		restored.LastFitness() != ag.LastFitness() ||
		restored.MutationStep() != ag.MutationStep() ||
		!reflect.DeepEqual(restored.Weights(), ag.Weights()) ||
		!reflect.DeepEqual(restored.History(), ag.History()) {
		t.Fatalf("state changed across file round trip:\nsaved   %+v\nrestored %+v", ag.Snapshot(), restored.Snapshot())
	}

	// The restored agent must keep working.
	if err := restored.Tick(); err != nil {
		t.Fatalf("tick after restore: %v", err)
	}
	if restored.TickCount() != ag.TickCount()+1 {
		t.Fatalf("expected tick count %d, got %d", ag.TickCount()+1, restored.TickCount())
	}
}

func TestSnapshotOfFreshAgentKeepsUnrecordedBest(t *testing.T) {
	ag, err := New(noopActions(2), constantFitness(1), Config{Seed: 2})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}

	snap := ag.Snapshot()
	if snap.BestRecorded {
		t.Fatal("fresh agent must not record a best fitness")
	}

	restored, err := Restore(snap, noopActions(2), constantFitness(1), Config{Seed: 2})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !math.IsInf(restored.BestFitness(), -1) {
		t.Fatalf("expected -Inf best fitness after restore, got %g", restored.BestFitness())
	}
	if restored.TickCount() != 0 {
		t.Fatalf("expected uninitialized agent, tick count %d", restored.TickCount())
	}
}

func TestRestoreRejectsActionCountMismatch(t *testing.T) {
	ag, err := New(noopActions(2), constantFitness(1), Config{Seed: 5})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}

	_, err = Restore(ag.Snapshot(), noopActions(3), constantFitness(1), Config{Seed: 5})
	if !errors.Is(err, ErrActionCountMismatch) {
		t.Fatalf("expected ErrActionCountMismatch, got %v", err)
	}
}

func TestSnapshotSharesNoMemoryWithAgent(t *testing.T) {
	ag, err := New(noopActions(3), constantFitness(1), Config{Seed: 8})
	if err != nil {
		t.Fatalf("new agent: %v", err)
	}

	snap := ag.Snapshot()
	snap.Weights[0] = 99
	snap.History[0] = 99
	if ag.Weights()[0] == 99 || ag.History()[0] == 99 {
		t.Fatal("snapshot aliases the agent's state vectors")
	}
}
