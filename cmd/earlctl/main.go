package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"

	earlapi "earl/pkg/earl"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "run":
		return runRun(ctx, args[1:])
	case "resume":
		return runResume(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "fitness":
		return runFitness(ctx, args[1:])
	case "inspect":
		return runInspect(ctx, args[1:])
	case "scapes":
		return runScapes(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

type storeFlags struct {
	kind       *string
	dbPath     *string
	benchmarks *string
}

func addStoreFlags(fs *flag.FlagSet) storeFlags {
	return storeFlags{
		kind:       fs.String("store", "", "store backend: memory|sqlite"),
		dbPath:     fs.String("db-path", "earl.db", "sqlite database path"),
		benchmarks: fs.String("benchmarks", "benchmarks", "run artifacts directory"),
	}
}

func (f storeFlags) client() (*earlapi.Client, error) {
	return earlapi.New(earlapi.Options{
		StoreKind:     *f.kind,
		DBPath:        *f.dbPath,
		BenchmarksDir: *f.benchmarks,
	})
}

func addParamFlags(fs *flag.FlagSet) *earlapi.AgentParams {
	p := &earlapi.AgentParams{}
	fs.Float64Var(&p.ReinforceGain, "reinforce-gain", 0, "weight bonus per unit of fitness improvement (0 = default)")
	fs.Float64Var(&p.HistoryIncrement, "history-increment", 0, "history credit per improving tick (0 = default)")
	fs.Float64Var(&p.HistoryDecay, "history-decay", 0, "per-tick history decay factor (0 = default)")
	fs.Float64Var(&p.HistoryBiasStrength, "history-bias", 0, "history overlay strength at selection (0 = default)")
	fs.Float64Var(&p.MutationStepInit, "step-init", 0, "initial mutation step (0 = default)")
	fs.Float64Var(&p.MutationStepMin, "step-min", 0, "minimum mutation step (0 = default)")
	fs.Float64Var(&p.MutationStepMax, "step-max", 0, "maximum mutation step (0 = default)")
	fs.Float64Var(&p.VarianceGain, "variance-gain", 0, "weight variance to mutation step gain (0 = default)")
	return p
}

func parseGoal(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	goal, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid goal: %s", raw)
	}
	return &goal, nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	store := addStoreFlags(fs)
	scapeName := fs.String("scape", "counter", "scape name")
	ticks := fs.Int("ticks", 2000, "tick budget")
	seed := fs.Int64("seed", 0, "random seed")
	goalRaw := fs.String("goal", "", "stop once best fitness reaches this value")
	snapshotPath := fs.String("snapshot", "", "write the final agent snapshot to this path")
	params := addParamFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	goal, err := parseGoal(*goalRaw)
	if err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, earlapi.RunRequest{
		Scape:        *scapeName,
		Ticks:        *ticks,
		Seed:         *seed,
		FitnessGoal:  goal,
		SnapshotPath: *snapshotPath,
		Params:       *params,
	})
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func runResume(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("resume", flag.ContinueOnError)
	store := addStoreFlags(fs)
	scapeName := fs.String("scape", "counter", "scape name")
	ticks := fs.Int("ticks", 2000, "tick budget")
	seed := fs.Int64("seed", 0, "random seed")
	goalRaw := fs.String("goal", "", "stop once best fitness reaches this value")
	snapshotPath := fs.String("snapshot", "", "load the agent snapshot from this path")
	runID := fs.String("run", "", "load the stored agent snapshot for this run id")
	newSnapshotPath := fs.String("out-snapshot", "", "write the resumed agent snapshot to this path")
	params := addParamFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	goal, err := parseGoal(*goalRaw)
	if err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Resume(ctx, earlapi.ResumeRequest{
		SnapshotPath:    *snapshotPath,
		RunID:           *runID,
		Scape:           *scapeName,
		Ticks:           *ticks,
		Seed:            *seed,
		FitnessGoal:     goal,
		Params:          *params,
		NewSnapshotPath: *newSnapshotPath,
	})
	if err != nil {
		return err
	}

	printSummary(summary)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	store := addStoreFlags(fs)
	limit := fs.Int("limit", 20, "maximum entries to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	items, err := client.Runs(ctx, earlapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, item := range items {
		fmt.Printf("%s  scape=%s seed=%d ticks=%d best=%g goal_reached=%t created=%s\n",
			item.RunID, item.Scape, item.Seed, item.TicksRun, item.FinalBestFitness, item.GoalReached, item.CreatedAtUTC)
	}
	return nil
}

func runFitness(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fitness", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run", "", "run id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.FitnessHistory(ctx, *runID)
	if err != nil {
		return err
	}
	return printJSON(history)
}

func runInspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	store := addStoreFlags(fs)
	runID := fs.String("run", "", "run id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := store.client()
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	snap, err := client.Inspect(ctx, *runID)
	if err != nil {
		return err
	}
	return printJSON(snap)
}

func runScapes(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("scapes", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := earlapi.New(earlapi.Options{StoreKind: "memory"})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	for _, name := range client.Scapes() {
		fmt.Println(name)
	}
	return nil
}

func printSummary(summary earlapi.RunSummary) {
	fmt.Printf("run id: %s\n", summary.RunID)
	fmt.Printf("scape: %s\n", summary.Scape)
	fmt.Printf("ticks run: %d (agent total %d)\n", summary.TicksRun, summary.TickCount)
	fmt.Printf("best fitness: %g\n", summary.BestFitness)
	fmt.Printf("last fitness: %g\n", summary.LastFitness)
	if summary.GoalReached {
		fmt.Println("fitness goal reached")
	}
	fmt.Printf("artifacts: %s\n", summary.ArtifactsDir)
	if summary.SnapshotPath != "" {
		fmt.Printf("snapshot: %s\n", summary.SnapshotPath)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: earlctl <run|resume|runs|fitness|inspect|scapes> [flags]", msg)
}
