package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// AgentSnapshot is the full serializable agent state. Action callables and
// the fitness function are environment-owned and never persisted; only the
// action count is recorded so a load can verify the re-supplied action set.
type AgentSnapshot struct {
	VersionedRecord
	ID           string    `json:"id,omitempty"`
	ActionCount  int       `json:"action_count"`
	Weights      []float64 `json:"weights"`
	History      []float64 `json:"history"`
	BestFitness  float64   `json:"best_fitness"`
	BestRecorded bool      `json:"best_recorded"`
	LastFitness  float64   `json:"last_fitness"`
	TickCount    int       `json:"tick_count"`
	MutationStep float64   `json:"mutation_step"`
}

type RunSummaryRecord struct {
	VersionedRecord
	RunID        string  `json:"run_id"`
	Scape        string  `json:"scape"`
	Seed         int64   `json:"seed"`
	TicksRun     int     `json:"ticks_run"`
	BestFitness  float64 `json:"best_fitness"`
	LastFitness  float64 `json:"last_fitness"`
	GoalReached  bool    `json:"goal_reached"`
	CreatedAtUTC string  `json:"created_at_utc"`
}
