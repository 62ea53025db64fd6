package storage

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"earl/internal/model"
)

func sampleSnapshot() model.AgentSnapshot {
	return model.AgentSnapshot{
		ID:           "run-1",
		ActionCount:  2,
		Weights:      []float64{0.7, 0.3},
		History:      []float64{1.2, 0},
		BestFitness:  -1,
		BestRecorded: true,
		LastFitness:  -4,
		TickCount:    17,
		MutationStep: 0.03,
	}
}

func TestSnapshotCodecRoundTrip(t *testing.T) {
	input := sampleSnapshot()
	data, err := EncodeSnapshot(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	output, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	input.SchemaVersion = CurrentSchemaVersion
	input.CodecVersion = CurrentCodecVersion
	if !reflect.DeepEqual(output, input) {
		t.Fatalf("round trip mismatch:\nin  %+v\nout %+v", input, output)
	}
}

func TestDecodeSnapshotRejectsVersionMismatch(t *testing.T) {
	data := []byte(`{"schema_version":99,"codec_version":1,"action_count":1,"weights":[1],"history":[0]}`)
	if _, err := DecodeSnapshot(data); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestDecodeSnapshotRejectsMalformedVectors(t *testing.T) {
	cases := []string{
		`{"schema_version":1,"codec_version":1,"action_count":3,"weights":[1,2],"history":[0,0,0]}`,
		`{"schema_version":1,"codec_version":1,"action_count":2,"weights":[1,2],"history":[0]}`,
		`{"schema_version":1,"codec_version":1,"action_count":0,"weights":[],"history":[]}`,
	}
	for _, raw := range cases {
		if _, err := DecodeSnapshot([]byte(raw)); !errors.Is(err, ErrMalformedSnapshot) {
			t.Fatalf("expected ErrMalformedSnapshot for %s, got %v", raw, err)
		}
	}
}

func TestDecodeSnapshotRejectsTruncatedPayload(t *testing.T) {
	data, err := EncodeSnapshot(sampleSnapshot())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeSnapshot(data[:len(data)/2]); err == nil {
		t.Fatal("expected decode error for truncated payload")
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	input := sampleSnapshot()

	if err := SaveSnapshotFile(path, input); err != nil {
		t.Fatalf("save: %v", err)
	}
	output, err := LoadSnapshotFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	input.SchemaVersion = CurrentSchemaVersion
	input.CodecVersion = CurrentCodecVersion
	if !reflect.DeepEqual(output, input) {
		t.Fatalf("file round trip mismatch:\nin  %+v\nout %+v", input, output)
	}
}

func TestLoadSnapshotFileMissing(t *testing.T) {
	if _, err := LoadSnapshotFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestRunSummaryCodecRoundTrip(t *testing.T) {
	input := model.RunSummaryRecord{
		RunID:        "run-9",
		Scape:        "counter",
		Seed:         42,
		TicksRun:     500,
		BestFitness:  0,
		LastFitness:  -1,
		GoalReached:  true,
		CreatedAtUTC: "2026-01-02T03:04:05Z",
	}
	data, err := EncodeRunSummary(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeRunSummary(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	input.SchemaVersion = CurrentSchemaVersion
	input.CodecVersion = CurrentCodecVersion
	if !reflect.DeepEqual(output, input) {
		t.Fatalf("round trip mismatch:\nin  %+v\nout %+v", input, output)
	}
}
