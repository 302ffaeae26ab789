package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/flockgrid/internal/boids"
	"github.com/san-kum/flockgrid/internal/compute"
	"github.com/san-kum/flockgrid/internal/config"
	"github.com/san-kum/flockgrid/internal/metrics"
	"github.com/san-kum/flockgrid/internal/sim"
	"github.com/san-kum/flockgrid/internal/storage"
	"github.com/san-kum/flockgrid/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	particles  int
	steps      int
	dt         float64
	strategy   string
	seed       int64
	workers    int
	sceneScale float64
	maxSpeed   float64
	configFile string
	preset     string
	saveRun    bool
	tolerance  float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "flockgrid",
		Short: "parallel boids flocking with uniform grid neighbor search",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flockgrid", "data directory")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "worker goroutines (0 = all cpus)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark all strategies",
		RunE:  benchStrategies,
	}
	benchCmd.Flags().IntVar(&steps, "steps", 100, "steps per measurement")
	benchCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	benchCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "check that all strategies agree on the same seeded flock",
		RunE:  compareStrategies,
	}
	addSimFlags(compareCmd)
	compareCmd.Flags().Float64Var(&tolerance, "tolerance", 1e-3, "max allowed divergence from brute force")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, benchCmd, compareCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&particles, "n", config.DefaultParticles, "number of particles")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().StringVar(&strategy, "strategy", config.DefaultStrategy, "velocity strategy (brute/scattered/coherent)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().Float64Var(&sceneScale, "scale", config.DefaultSceneScale, "half-extent of the simulation space")
	cmd.Flags().Float64Var(&maxSpeed, "max-speed", config.DefaultMaxSpeed, "speed limit")
}

// resolveConfig merges preset, config file and flags: the preset seeds the
// config, the file overrides it, and explicitly set flags win over both.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("n") {
		cfg.Particles = particles
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = float32(dt)
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = strategy
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("scale") {
		cfg.SceneScale = float32(sceneScale)
	}
	if cmd.Flags().Changed("max-speed") {
		cfg.MaxSpeed = float32(maxSpeed)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flockParams(cfg *config.Config) boids.Params {
	return boids.Params{
		CohesionDistance:   cfg.Cohesion.Distance,
		SeparationDistance: cfg.Separation.Distance,
		AlignmentDistance:  cfg.Alignment.Distance,
		CohesionScale:      cfg.Cohesion.Scale,
		SeparationScale:    cfg.Separation.Scale,
		AlignmentScale:     cfg.Alignment.Scale,
		MaxSpeed:           cfg.MaxSpeed,
		SceneScale:         cfg.SceneScale,
	}
}

func newFlock(cfg *config.Config) (*boids.Simulation, error) {
	strat, err := boids.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return boids.New(cfg.Particles, flockParams(cfg), strat, cfg.Seed, compute.New(cfg.Workers))
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	flock, err := newFlock(cfg)
	if err != nil {
		return err
	}
	defer flock.Close()

	runner := sim.NewRunner(flock)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}

	fmt.Printf("running %d particles, %d steps, strategy %s...\n", cfg.Particles, cfg.Steps, cfg.Strategy)
	result, err := runner.Run(context.Background(), sim.Config{
		Dt:            cfg.Dt,
		Steps:         cfg.Steps,
		ValidateState: true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("completed %d steps in %v (%.0f steps/sec)\n\n",
		result.StepsTaken, result.Elapsed,
		float64(result.StepsTaken)/result.Elapsed.Seconds())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tFINAL")
	for name, val := range result.Metrics {
		fmt.Fprintf(w, "%s\t%.6f\n", name, val)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if history := result.History["polarization"]; len(history) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(history,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("polarization"),
		))
	}

	if saveRun {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Strategy:  cfg.Strategy,
			Particles: cfg.Particles,
			Steps:     result.StepsTaken,
			Dt:        float64(cfg.Dt),
			Seed:      cfg.Seed,
			ElapsedMS: float64(result.Elapsed.Microseconds()) / 1000,
			Metrics:   result.Metrics,
		}, flock)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	flock, err := newFlock(cfg)
	if err != nil {
		return err
	}

	return viz.Run(flock, cfg.Dt, func() (*boids.Simulation, error) {
		return newFlock(cfg)
	})
}

func benchStrategies(cmd *cobra.Command, args []string) error {
	sizes := []int{1000, 5000, 20000}
	params := boids.DefaultParams()

	fmt.Printf("benchmarking %d steps per strategy, seed %d\n\n", steps, seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tSTRATEGY\tTIME\tSTEPS/SEC\tSPEEDUP")

	for _, n := range sizes {
		var baseline time.Duration
		for _, strat := range boids.Strategies {
			flock, err := boids.New(n, params, strat, seed, compute.New(workers))
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < steps; i++ {
				if err := flock.Step(float32(dt)); err != nil {
					flock.Close()
					return err
				}
			}
			elapsed := time.Since(start)
			flock.Close()

			if strat == boids.BruteForce {
				baseline = elapsed
			}
			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\t%.1fx\n",
				n, strat, elapsed.Round(time.Millisecond),
				float64(steps)/elapsed.Seconds(),
				baseline.Seconds()/elapsed.Seconds())
		}
	}

	return w.Flush()
}

func compareStrategies(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	cmp := sim.NewComparison(cfg.Particles, flockParams(cfg), cfg.Seed)
	fmt.Printf("comparing strategies: %d particles, %d steps, seed %d\n\n",
		cfg.Particles, cfg.Steps, cfg.Seed)

	result, err := cmp.Run(context.Background(), cfg.Dt, cfg.Steps)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STRATEGY\tTIME\tMAX_VEL_DIV\tMAX_POS_DIV")
	agree := true
	for i, strat := range result.Strategies {
		fmt.Fprintf(w, "%s\t%v\t%.2e\t%.2e\n",
			strat, result.Elapsed[i].Round(time.Millisecond),
			result.MaxVelocityDivergence[i], result.MaxPositionDivergence[i])
		if result.MaxVelocityDivergence[i] > tolerance || result.MaxPositionDivergence[i] > tolerance {
			agree = false
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !agree {
		return fmt.Errorf("strategies diverge beyond tolerance %.1e", tolerance)
	}
	fmt.Printf("\nall strategies agree within %.1e\n", tolerance)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTRATEGY\tN\tSTEPS\tDT\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.3f\t%.0fms\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Strategy,
			run.Particles,
			run.Steps,
			run.Dt,
			run.ElapsedMS,
		)
	}
	return w.Flush()
}
