package stats

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteRunArtifactsAndReadCurve(t *testing.T) {
	baseDir := t.TempDir()

	runDir, err := WriteRunArtifacts(baseDir, RunArtifacts{
		Config: RunConfig{
			RunID: "counter-1-100",
			Scape: "counter",
			Ticks: 2000,
			Seed:  1,
		},
		BestByTick:       []float64{-10, -9, -9, -8},
		FinalBestFitness: -8,
		FinalWeights:     []float64{0.9, 0.1},
		FinalHistory:     []float64{1.1, 0},
	})
	if err != nil {
		t.Fatalf("write artifacts: %v", err)
	}

	for _, name := range []string{"config.json", "fitness_history.json", "agent_state.json"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	curve, ok, err := ReadFitnessCurve(baseDir, "counter-1-100")
	if err != nil {
		t.Fatalf("read curve: %v", err)
	}
	if !ok {
		t.Fatal("expected fitness curve")
	}
	if len(curve) != 4 || curve[3] != -8 {
		t.Fatalf("unexpected curve: %v", curve)
	}
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	if _, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{}); err == nil {
		t.Fatal("expected run id error")
	}
}

func TestRunIndexAppendAndList(t *testing.T) {
	baseDir := t.TempDir()

	entries := []RunIndexEntry{
		{RunID: "a", Scape: "counter", CreatedAtUTC: "2026-01-01T00:00:00Z", FinalBestFitness: -3},
		{RunID: "b", Scape: "constant", CreatedAtUTC: "2026-01-02T00:00:00Z", FinalBestFitness: 5},
		{RunID: "c", Scape: "counter", CreatedAtUTC: "2026-01-03T00:00:00Z", FinalBestFitness: 0},
	}
	for _, entry := range entries {
		if err := AppendRunIndex(baseDir, entry); err != nil {
			t.Fatalf("append %s: %v", entry.RunID, err)
		}
	}

	listed, err := ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(listed))
	}
	if listed[0].RunID != "c" || listed[2].RunID != "a" {
		t.Fatalf("expected newest first, got %v", listed)
	}

	// Re-appending a known run id updates in place.
	if err := AppendRunIndex(baseDir, RunIndexEntry{RunID: "b", Scape: "constant", CreatedAtUTC: "2026-01-02T00:00:00Z", FinalBestFitness: 7}); err != nil {
		t.Fatalf("update b: %v", err)
	}
	listed, err = ListRunIndex(baseDir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 entries after update, got %d", len(listed))
	}
	for _, entry := range listed {
		if entry.RunID == "b" && entry.FinalBestFitness != 7 {
			t.Fatalf("expected updated entry, got %+v", entry)
		}
	}
}

func TestListRunIndexEmpty(t *testing.T) {
	listed, err := ListRunIndex(t.TempDir())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty index, got %v", listed)
	}
}
