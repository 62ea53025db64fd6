package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"earl/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var (
	ErrVersionMismatch = errors.New("record version mismatch")

	// ErrMalformedSnapshot covers stored state whose vectors disagree with
	// the recorded action count.
	ErrMalformedSnapshot = errors.New("snapshot state vectors disagree with action count")
)

func EncodeSnapshot(snap model.AgentSnapshot) ([]byte, error) {
	snap.SchemaVersion = CurrentSchemaVersion
	snap.CodecVersion = CurrentCodecVersion
	return json.Marshal(snap)
}

func DecodeSnapshot(data []byte) (model.AgentSnapshot, error) {
	var snap model.AgentSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.AgentSnapshot{}, fmt.Errorf("decode agent snapshot: %w", err)
	}
	if err := checkVersion(snap.VersionedRecord); err != nil {
		return model.AgentSnapshot{}, err
	}
	if snap.ActionCount <= 0 || len(snap.Weights) != snap.ActionCount || len(snap.History) != snap.ActionCount {
		return model.AgentSnapshot{}, ErrMalformedSnapshot
	}
	return snap, nil
}

func EncodeRunSummary(summary model.RunSummaryRecord) ([]byte, error) {
	summary.SchemaVersion = CurrentSchemaVersion
	summary.CodecVersion = CurrentCodecVersion
	return json.Marshal(summary)
}

func DecodeRunSummary(data []byte) (model.RunSummaryRecord, error) {
	var summary model.RunSummaryRecord
	if err := json.Unmarshal(data, &summary); err != nil {
		return model.RunSummaryRecord{}, fmt.Errorf("decode run summary: %w", err)
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return model.RunSummaryRecord{}, err
	}
	return summary, nil
}

func EncodeFitnessHistory(history []float64) ([]byte, error) {
	return json.Marshal(history)
}

func DecodeFitnessHistory(data []byte) ([]float64, error) {
	var history []float64
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decode fitness history: %w", err)
	}
	return history, nil
}

// SaveSnapshotFile serializes an agent snapshot to an explicit destination
// path. There is no process-wide default location.
func SaveSnapshotFile(path string, snap model.AgentSnapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func LoadSnapshotFile(path string) (model.AgentSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.AgentSnapshot{}, err
	}
	return DecodeSnapshot(data)
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
