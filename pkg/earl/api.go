package earl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"earl/internal/agent"
	"earl/internal/model"
	"earl/internal/scape"
	"earl/internal/stats"
	"earl/internal/storage"
)

const (
	defaultBenchmarksDir = "benchmarks"
	defaultDBPath        = "earl.db"
	defaultTicks         = 2000
	defaultScape         = "counter"
)

type Options struct {
	StoreKind     string
	DBPath        string
	BenchmarksDir string
}

// Client wires agents, scapes, persistence and run artifacts together. The
// driving loop lives here: the agent itself only exposes Tick and observers,
// and stopping policy is this layer's decision.
type Client struct {
	store         storage.Store
	initialized   bool
	benchmarksDir string
}

// AgentParams overrides the agent's learning knobs. Zero fields keep the
// agent defaults.
type AgentParams struct {
	ReinforceGain       float64
	HistoryIncrement    float64
	HistoryDecay        float64
	HistoryBiasStrength float64
	MutationStepInit    float64
	MutationStepMin     float64
	MutationStepMax     float64
	VarianceGain        float64
}

type RunRequest struct {
	Scape        string
	Ticks        int
	Seed         int64
	FitnessGoal  *float64
	SnapshotPath string
	Params       AgentParams
}

type ResumeRequest struct {
	// SnapshotPath or RunID names the saved state; exactly one must be set.
	SnapshotPath string
	RunID        string

	Scape       string
	Ticks       int
	Seed        int64
	FitnessGoal *float64
	Params      AgentParams

	// NewSnapshotPath, when set, receives the state after the resumed run.
	NewSnapshotPath string
}

type RunSummary struct {
	RunID        string
	Scape        string
	TicksRun     int
	TickCount    int
	BestFitness  float64
	LastFitness  float64
	GoalReached  bool
	ArtifactsDir string
	SnapshotPath string
}

type RunsRequest struct {
	Limit int
}

type RunItem struct {
	RunID            string
	Scape            string
	Seed             int64
	TicksRun         int
	GoalReached      bool
	FinalBestFitness float64
	CreatedAtUTC     string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	benchmarksDir := opts.BenchmarksDir
	if benchmarksDir == "" {
		benchmarksDir = defaultBenchmarksDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:         store,
		benchmarksDir: benchmarksDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Run constructs a fresh agent on the named scape and ticks it until the
// budget is spent or the fitness goal is reached.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if req.Scape == "" {
		req.Scape = defaultScape
	}
	if req.Ticks <= 0 {
		req.Ticks = defaultTicks
	}

	sc, err := scape.New(req.Scape)
	if err != nil {
		return RunSummary{}, err
	}

	cfg := agentConfig(req.Params, req.Seed)
	ag, err := agent.New(sc.Actions(), sc.Fitness, cfg)
	if err != nil {
		return RunSummary{}, err
	}

	runID := fmt.Sprintf("%s-%d-%d", req.Scape, req.Seed, time.Now().UTC().UnixNano())
	return c.drive(ctx, runID, sc, ag, req.Ticks, req.Seed, req.FitnessGoal, req.Params, req.SnapshotPath)
}

// Resume reloads a saved agent, re-binds the named scape's actions and
// fitness function, and continues ticking. The scape's own state is not
// persisted; it restarts from its initial condition.
func (c *Client) Resume(ctx context.Context, req ResumeRequest) (RunSummary, error) {
	if (req.SnapshotPath == "") == (req.RunID == "") {
		return RunSummary{}, errors.New("resume requires exactly one of snapshot path or run id")
	}
	if req.Scape == "" {
		req.Scape = defaultScape
	}
	if req.Ticks <= 0 {
		req.Ticks = defaultTicks
	}

	var snap model.AgentSnapshot
	if req.SnapshotPath != "" {
		loaded, err := storage.LoadSnapshotFile(req.SnapshotPath)
		if err != nil {
			return RunSummary{}, err
		}
		snap = loaded
	} else {
		if err := c.ensureStore(ctx); err != nil {
			return RunSummary{}, err
		}
		loaded, ok, err := c.store.GetAgent(ctx, req.RunID)
		if err != nil {
			return RunSummary{}, err
		}
		if !ok {
			return RunSummary{}, fmt.Errorf("agent snapshot not found for run id: %s", req.RunID)
		}
		snap = loaded
	}

	sc, err := scape.New(req.Scape)
	if err != nil {
		return RunSummary{}, err
	}

	cfg := agentConfig(req.Params, req.Seed)
	ag, err := agent.Restore(snap, sc.Actions(), sc.Fitness, cfg)
	if err != nil {
		return RunSummary{}, err
	}

	runID := fmt.Sprintf("%s-%d-%d", req.Scape, req.Seed, time.Now().UTC().UnixNano())
	return c.drive(ctx, runID, sc, ag, req.Ticks, req.Seed, req.FitnessGoal, req.Params, req.NewSnapshotPath)
}

func (c *Client) drive(ctx context.Context, runID string, sc scape.Scape, ag *agent.Agent, ticks int, seed int64, goal *float64, params AgentParams, snapshotPath string) (RunSummary, error) {
	if err := c.ensureStore(ctx); err != nil {
		return RunSummary{}, err
	}

	bestByTick := make([]float64, 0, ticks)
	ticksRun := 0
	goalReached := false
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return RunSummary{}, err
		}
		if err := ag.Tick(); err != nil {
			return RunSummary{}, fmt.Errorf("tick %d: %w", ag.TickCount()+1, err)
		}
		ticksRun++
		bestByTick = append(bestByTick, ag.BestFitness())
		if goal != nil && ag.BestFitness() >= *goal {
			goalReached = true
			break
		}
	}

	snap := ag.Snapshot()
	snap.ID = runID
	if err := c.store.SaveAgent(ctx, snap); err != nil {
		return RunSummary{}, err
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, bestByTick); err != nil {
		return RunSummary{}, err
	}

	now := time.Now().UTC()
	summary := model.RunSummaryRecord{
		RunID:        runID,
		Scape:        sc.Name(),
		Seed:         seed,
		TicksRun:     ticksRun,
		BestFitness:  ag.LastFitness(),
		LastFitness:  ag.LastFitness(),
		GoalReached:  goalReached,
		CreatedAtUTC: now.Format(time.RFC3339Nano),
	}
	if snap.BestRecorded {
		summary.BestFitness = snap.BestFitness
	}
	if err := c.store.SaveRunSummary(ctx, summary); err != nil {
		return RunSummary{}, err
	}

	cfg := agentConfig(params, seed).WithDefaults()
	runDir, err := stats.WriteRunArtifacts(c.benchmarksDir, stats.RunArtifacts{
		Config: stats.RunConfig{
			RunID:               runID,
			Scape:               sc.Name(),
			Ticks:               ticks,
			Seed:                seed,
			FitnessGoal:         goal,
			ReinforceGain:       cfg.ReinforceGain,
			HistoryIncrement:    cfg.HistoryIncrement,
			HistoryDecay:        cfg.HistoryDecay,
			HistoryBiasStrength: cfg.HistoryBiasStrength,
			MutationStepInit:    cfg.MutationStepInit,
			MutationStepMin:     cfg.MutationStepMin,
			MutationStepMax:     cfg.MutationStepMax,
			VarianceGain:        cfg.VarianceGain,
		},
		BestByTick:       bestByTick,
		FinalBestFitness: summary.BestFitness,
		FinalWeights:     ag.Weights(),
		FinalHistory:     ag.History(),
	})
	if err != nil {
		return RunSummary{}, err
	}
	if err := stats.AppendRunIndex(c.benchmarksDir, stats.RunIndexEntry{
		RunID:            runID,
		Scape:            sc.Name(),
		Seed:             seed,
		TicksRun:         ticksRun,
		GoalReached:      goalReached,
		FinalBestFitness: summary.BestFitness,
		CreatedAtUTC:     summary.CreatedAtUTC,
	}); err != nil {
		return RunSummary{}, err
	}

	if snapshotPath != "" {
		if err := storage.SaveSnapshotFile(snapshotPath, snap); err != nil {
			return RunSummary{}, err
		}
	}

	return RunSummary{
		RunID:        runID,
		Scape:        sc.Name(),
		TicksRun:     ticksRun,
		TickCount:    ag.TickCount(),
		BestFitness:  summary.BestFitness,
		LastFitness:  ag.LastFitness(),
		GoalReached:  goalReached,
		ArtifactsDir: filepath.Clean(runDir),
		SnapshotPath: snapshotPath,
	}, nil
}

func (c *Client) Runs(_ context.Context, req RunsRequest) ([]RunItem, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	entries, err := stats.ListRunIndex(c.benchmarksDir)
	if err != nil {
		return nil, err
	}
	if len(entries) > req.Limit {
		entries = entries[:req.Limit]
	}

	out := make([]RunItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, RunItem{
			RunID:            e.RunID,
			Scape:            e.Scape,
			Seed:             e.Seed,
			TicksRun:         e.TicksRun,
			GoalReached:      e.GoalReached,
			FinalBestFitness: e.FinalBestFitness,
			CreatedAtUTC:     e.CreatedAtUTC,
		})
	}
	return out, nil
}

func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	if runID == "" {
		return nil, errors.New("run id is required")
	}
	if err := c.ensureStore(ctx); err != nil {
		return nil, err
	}

	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("fitness history not found for run id: %s", runID)
	}
	return history, nil
}

// Inspect returns the stored agent snapshot for a run.
func (c *Client) Inspect(ctx context.Context, runID string) (model.AgentSnapshot, error) {
	if runID == "" {
		return model.AgentSnapshot{}, errors.New("run id is required")
	}
	if err := c.ensureStore(ctx); err != nil {
		return model.AgentSnapshot{}, err
	}

	snap, ok, err := c.store.GetAgent(ctx, runID)
	if err != nil {
		return model.AgentSnapshot{}, err
	}
	if !ok {
		return model.AgentSnapshot{}, fmt.Errorf("agent snapshot not found for run id: %s", runID)
	}
	return snap, nil
}

func (c *Client) Scapes() []string {
	return scape.Names()
}

func (c *Client) ensureStore(ctx context.Context) error {
	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

func agentConfig(p AgentParams, seed int64) agent.Config {
	return agent.Config{
		ReinforceGain:       p.ReinforceGain,
		HistoryIncrement:    p.HistoryIncrement,
		HistoryDecay:        p.HistoryDecay,
		HistoryBiasStrength: p.HistoryBiasStrength,
		MutationStepInit:    p.MutationStepInit,
		MutationStepMin:     p.MutationStepMin,
		MutationStepMax:     p.MutationStepMax,
		VarianceGain:        p.VarianceGain,
		Seed:                seed,
	}
}
