package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/clinic-sim/clinic-sim/sim"
)

var (
	// CLI flags for the simulation scenario
	seed           int64  // Seed for the shared random stream
	logLevel       string // Log verbosity level
	configPath     string // Optional YAML scenario file
	systemTimesOut string // Optional output file for counted system times

	meanInterarrival    float64 // Mean minutes between patient arrivals
	priorityProbability float64 // Proportion of expedited patients
	fastProbability     float64 // Proportion of fast-test patients

	registrationCapacity int // Registration desk staff
	samplingCapacity     int // Sample collection staff
	fastMachineCapacity  int // Fast test machines
	slowMachineCapacity  int // Slow test machines
	verificationEnabled  bool
	verificationCapacity int // Verification staff

	horizonMinutes float64 // Total simulated minutes
	warmUpMinutes  float64 // Warm-up window excluded from aggregates
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "labsim",
	Short: "Discrete-event simulator for clinical laboratory queues",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the laboratory simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultConfig()
		if configPath != "" {
			loaded, err := sim.LoadConfig(configPath)
			if err != nil {
				logrus.Fatalf("unable to read scenario config: %v", err)
			}
			cfg = *loaded
		}

		// Flags override the scenario file only when set explicitly.
		applyFlagOverrides(cmd, &cfg)

		runID := uuid.NewString()
		logrus.Infof("Starting simulation run %s: horizon=%.0fmin warm-up=%.0fmin seed=%d",
			runID, cfg.Horizon, cfg.WarmUp, seed)

		log, err := sim.RunSimulation(cfg, seed)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		summary := sim.Summarize(log)
		summary.Print()

		bottleneck := sim.AnalyzeBottleneck(log)
		fmt.Println("=== Bottleneck ===")
		fmt.Printf("Stage    : %s\n", bottleneck.Stage)
		fmt.Printf("Mean wait: %.2f min\n", bottleneck.MeanWait)
		fmt.Printf("Severity : %.1f%% of total wait\n", bottleneck.Severity)

		util := sim.EstimateUtilization(log, cfg)
		fmt.Println("=== Utilization (modal estimate) ===")
		fmt.Printf("registration : %.1f%%\n", util.Registration)
		fmt.Printf("sampling     : %.1f%%\n", util.Sampling)
		fmt.Printf("fast machines: %.1f%%\n", util.FastMachines)
		fmt.Printf("slow machines: %.1f%%\n", util.SlowMachines)
		if cfg.VerificationEnabled {
			fmt.Printf("verification : %.1f%%\n", util.Verification)
		}

		fmt.Println("=== Recommendations ===")
		for _, rec := range sim.Recommend(bottleneck, util, cfg) {
			fmt.Printf("[%s] %s\n    %s\n    %s\n", rec.Level, rec.Title, rec.Detail, rec.Impact)
		}

		if systemTimesOut != "" {
			log.SaveSystemTimes(systemTimesOut)
		}

		logrus.Infof("Simulation run %s complete.", runID)
	},
}

// applyFlagOverrides copies explicitly-set flags over the scenario config.
func applyFlagOverrides(cmd *cobra.Command, cfg *sim.Config) {
	flags := cmd.Flags()
	if flags.Changed("mean-interarrival") {
		cfg.MeanInterarrival = meanInterarrival
	}
	if flags.Changed("p-expedited") {
		cfg.PriorityProbability = priorityProbability
	}
	if flags.Changed("p-fast") {
		cfg.FastProbability = fastProbability
	}
	if flags.Changed("registration-capacity") {
		cfg.RegistrationCapacity = registrationCapacity
	}
	if flags.Changed("sampling-capacity") {
		cfg.SamplingCapacity = samplingCapacity
	}
	if flags.Changed("fast-machine-capacity") {
		cfg.FastMachineCapacity = fastMachineCapacity
	}
	if flags.Changed("slow-machine-capacity") {
		cfg.SlowMachineCapacity = slowMachineCapacity
	}
	if flags.Changed("verification") {
		cfg.VerificationEnabled = verificationEnabled
	}
	if flags.Changed("verification-capacity") {
		cfg.VerificationCapacity = verificationCapacity
	}
	if flags.Changed("horizon") {
		cfg.Horizon = horizonMinutes
	}
	if flags.Changed("warm-up") {
		cfg.WarmUp = warmUpMinutes
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the shared random stream")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML scenario file (flags override its values)")
	runCmd.Flags().StringVar(&systemTimesOut, "system-times-out", "", "Write counted system times to this file")

	// Arrival process
	runCmd.Flags().Float64Var(&meanInterarrival, "mean-interarrival", 5.0, "Mean minutes between patient arrivals")
	runCmd.Flags().Float64Var(&priorityProbability, "p-expedited", 0.20, "Proportion of expedited patients")
	runCmd.Flags().Float64Var(&fastProbability, "p-fast", 0.70, "Proportion of fast-test patients")

	// Resource capacities
	runCmd.Flags().IntVar(&registrationCapacity, "registration-capacity", 1, "Registration desk staff")
	runCmd.Flags().IntVar(&samplingCapacity, "sampling-capacity", 2, "Sample collection staff")
	runCmd.Flags().IntVar(&fastMachineCapacity, "fast-machine-capacity", 1, "Fast test machines")
	runCmd.Flags().IntVar(&slowMachineCapacity, "slow-machine-capacity", 1, "Slow test machines")
	runCmd.Flags().BoolVar(&verificationEnabled, "verification", true, "Enable the verification stage")
	runCmd.Flags().IntVar(&verificationCapacity, "verification-capacity", 1, "Verification staff")

	// Run window
	runCmd.Flags().Float64Var(&horizonMinutes, "horizon", 480, "Total simulated minutes")
	runCmd.Flags().Float64Var(&warmUpMinutes, "warm-up", 30, "Warm-up minutes excluded from aggregates")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
