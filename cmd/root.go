package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hyperplace/hyperplace/place"
	"github.com/hyperplace/hyperplace/place/problem"
)

var (
	// Shared CLI flags
	problemPath string  // Path to the YAML problem file
	logLevel    string  // Log verbosity level
	seed        int64   // Master seed; 0 draws one from the clock
	cacheLimit  int     // Steiner memo subset-cardinality bound
	iterations  int     // Annealing iteration count
	initialTemp float64 // Annealing initial temperature
	numRounds   int     // Refinement round bound
	stopParam   float64 // Refinement early-stop fraction
	pinAnchors  bool    // Keep anchors fixed during refinement rounds
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hyperplace",
	Short: "Topology-aware hypergraph placement optimizer",
}

// refineCmd runs capacity repair plus label-propagation refinement.
var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a placement with capacity-aware local search",
	Run: func(cmd *cobra.Command, args []string) {
		state, rng := loadState()

		cfg := place.DefaultRefineConfig()
		cfg.NumRounds = numRounds
		cfg.StopParameter = stopParam
		cfg.ReallocateAnchors = !pinAnchors

		start := time.Now()
		changed, err := place.Refine(state, cfg, rng.ForSubsystem(place.SubsystemRefine))
		if err != nil {
			logrus.Fatalf("refinement failed: %v", err)
		}
		report(state, changed, start)
	},
}

// annealCmd runs the simulated-annealing search.
var annealCmd = &cobra.Command{
	Use:   "anneal",
	Short: "Optimize a placement with simulated annealing",
	Run: func(cmd *cobra.Command, args []string) {
		state, rng := loadState()

		cfg := place.DefaultAnnealConfig()
		cfg.Iterations = iterations
		cfg.InitialTemperature = initialTemp

		start := time.Now()
		if err := place.Anneal(state, cfg, rng.ForSubsystem(place.SubsystemAnneal)); err != nil {
			logrus.Fatalf("annealing failed: %v", err)
		}
		report(state, true, start)
	},
}

// costCmd prints the cost of the placement declared in the problem file.
var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Report validity and cost of the placement in the problem file",
	Run: func(cmd *cobra.Command, args []string) {
		hg, network, placement, err := loadProblem()
		if err != nil {
			logrus.Fatalf("loading problem: %v", err)
		}
		if placement == nil {
			logrus.Fatalf("problem file %s declares no placement", problemPath)
		}
		dist := place.NewDistribution(hg, network, placement)
		cost, err := dist.Cost()
		if err != nil {
			logrus.Fatalf("placement is invalid: %v", err)
		}
		fmt.Printf("valid placement, cost=%d\n", cost)
	},
}

// loadProblem parses and builds the problem file after configuring logging.
func loadProblem() (*place.Hypergraph, *place.Network, place.Placement, error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	p, err := problem.Load(problemPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return p.Build()
}

// loadState builds the optimizer state for a search command, generating an
// initial placement when the problem file does not declare one.
func loadState() (*place.OptimizerState, *place.PartitionedRNG) {
	hg, network, placement, err := loadProblem()
	if err != nil {
		logrus.Fatalf("loading problem: %v", err)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
		logrus.Infof("no seed supplied, using %d", seed)
	}
	rng := place.NewPartitionedRNG(place.NewSearchKey(seed))

	if placement == nil {
		placement, err = place.RandomPartitioner{}.Partition(hg, network, rng.ForSubsystem(place.SubsystemPartition))
		if err != nil {
			logrus.Fatalf("initial partitioning failed: %v", err)
		}
	}

	state, err := place.NewOptimizerState(place.NewDistribution(hg, network, placement), cacheLimit)
	if err != nil {
		logrus.Fatalf("building optimizer state: %v", err)
	}
	logrus.Infof("loaded problem %s: %d vertices, %d hyperedges, %d servers, initial cost=%d",
		problemPath, len(hg.Vertices()), len(hg.Hyperedges()), network.NumServers(), state.Cost())
	return state, rng
}

// report prints the search outcome.
func report(state *place.OptimizerState, changed bool, start time.Time) {
	logrus.Infof("search took %v (placement changed: %v)", time.Since(start), changed)
	fmt.Printf("final cost=%d\n", state.Cost())
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&problemPath, "problem", "", "Path to the YAML problem file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Master seed for all randomness (0 = derive from clock)")
	rootCmd.PersistentFlags().IntVar(&cacheLimit, "cache-limit", place.DefaultCacheLimit, "Largest server-subset cardinality kept in the Steiner memo")

	refineCmd.Flags().IntVar(&numRounds, "rounds", place.DefaultNumRounds, "Maximum number of refinement rounds")
	refineCmd.Flags().Float64Var(&stopParam, "stop-parameter", place.DefaultStopParameter, "Stop once moved/frontier falls below this fraction")
	refineCmd.Flags().BoolVar(&pinAnchors, "pin-anchors", false, "Keep anchor vertices fixed during refinement rounds")

	annealCmd.Flags().IntVar(&iterations, "iterations", place.DefaultIterations, "Number of annealing iterations")
	annealCmd.Flags().Float64Var(&initialTemp, "initial-temperature", place.DefaultInitialTemperature, "Initial temperature of the cooling schedule")

	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(annealCmd)
	rootCmd.AddCommand(costCmd)
}
