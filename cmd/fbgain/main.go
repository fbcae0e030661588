package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/fbgain/internal/config"
	"github.com/san-kum/fbgain/internal/lti"
	"github.com/san-kum/fbgain/internal/place"
	"github.com/san-kum/fbgain/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	model      string
	r          float64
	l          float64
	c          float64
	poles      []string
	dt         float64
	duration   float64
	integrator string
	controller string
	reference  float64
	adaptive   bool
	kp         float64
	ki         float64
	kd         float64
	noSave     bool
	column     string
	outPath    string
	polePlot   string
)

// errReported marks failures main has already printed.
var errReported = errors.New("reported")

var logger = slog.Default()

func main() {
	rootCmd := &cobra.Command{
		Use:           "fbgain",
		Short:         "state feedback gain design by pole placement",
		Long:          "With no command, places the poles of the series RLC example at -20±10j and prints A, B and F.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
		RunE: runExample,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fbgain", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	placeCmd := &cobra.Command{
		Use:   "place",
		Short: "check controllability and compute the feedback gain",
		RunE:  runPlace,
	}
	addDesignFlags(placeCmd)
	placeCmd.Flags().StringVar(&polePlot, "plot", "", "write a pole map image (png, svg, pdf)")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "place poles and simulate the closed loop",
		RunE:  runSimulate,
	}
	addDesignFlags(simulateCmd)
	addSimulationFlags(simulateCmd)
	simulateCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator...]",
		Short: "simulate one design with several integrators in parallel",
		RunE:  runCompare,
	}
	addDesignFlags(compareCmd)
	addSimulationFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "y0", "trace column (x0.., y0.., u0..)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "compare the response spectrum with the placed poles",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "y0", "trace column to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run to an image or JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (.png, .svg, .pdf, .json)")
	exportCmd.Flags().StringVar(&column, "column", "y0", "trace column for image export")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "move the dominant pole pair interactively",
		RunE:  runTune,
	}
	addDesignFlags(tuneCmd)
	addSimulationFlags(tuneCmd)
	tuneCmd.Flags().StringVarP(&outPath, "out", "o", "", "save the tuned design to a YAML file")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search pole pairs for the best simulated response",
		RunE:  runSearch,
	}
	addDesignFlags(searchCmd)
	addSimulationFlags(searchCmd)
	addSearchFlags(searchCmd)
	searchCmd.Flags().StringVarP(&outPath, "out", "o", "", "save the best design to a YAML file")

	watchCmd := &cobra.Command{
		Use:   "watch [config]",
		Short: "re-run placement whenever a design file changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}

	rootCmd.AddCommand(placeCmd, simulateCmd, compareCmd, listCmd, plotCmd, analyzeCmd, exportCmd, presetsCmd, tuneCmd, searchCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// runExample is the fixed RLC design: r=10 Ω, l=100 mH, c=100 µF, poles at
// -20±10j.
func runExample(cmd *cobra.Command, args []string) error {
	sys, err := lti.SeriesRLC(config.DefaultR, config.DefaultL, config.DefaultC)
	if err != nil {
		return err
	}

	ok, err := place.IsControllable(sys.A, sys.B)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("uncontrollable")
		return errReported
	}

	fmt.Println(viz.FormatMatrix("A = ", sys.A))
	fmt.Println(viz.FormatMatrix("B = ", sys.B))

	f, err := place.Gain(sys.A, sys.B, []complex128{-20 + 10i, -20 - 10i})
	if err != nil {
		return err
	}
	fmt.Println(viz.FormatMatrix("F = ", f))
	return nil
}

func addDesignFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "design file (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a preset design")
	cmd.Flags().StringVar(&model, "model", config.ModelRLC, "model (rlc, tf); also selects the --preset family")
	cmd.Flags().Float64Var(&r, "r", config.DefaultR, "resistance (ohm)")
	cmd.Flags().Float64Var(&l, "l", config.DefaultL, "inductance (H)")
	cmd.Flags().Float64Var(&c, "c", config.DefaultC, "capacitance (F)")
	cmd.Flags().StringSliceVar(&poles, "poles", nil, "desired poles, e.g. -20+10j,-20-10j")
}

func addSimulationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4, rk45)")
	cmd.Flags().StringVar(&controller, "controller", "feedback", "controller (feedback, pid, none, step)")
	cmd.Flags().Float64Var(&reference, "reference", 0, "output reference")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step size")
	cmd.Flags().Float64Var(&kp, "kp", config.DefaultKp, "pid kp")
	cmd.Flags().Float64Var(&ki, "ki", config.DefaultKi, "pid ki")
	cmd.Flags().Float64Var(&kd, "kd", config.DefaultKd, "pid kd")
}

// loadConfig resolves defaults, then preset, then config file, then any
// flag set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	if changed("model") {
		cfg.Model = model
	}
	if changed("r") {
		cfg.Circuit.R = r
	}
	if changed("l") {
		cfg.Circuit.L = l
	}
	if changed("c") {
		cfg.Circuit.C = c
	}
	if changed("poles") {
		cfg.Poles = poles
	}
	if changed("dt") {
		cfg.Simulation.Dt = dt
	}
	if changed("time") {
		cfg.Simulation.Duration = duration
	}
	if changed("integrator") {
		cfg.Simulation.Integrator = integrator
	}
	if changed("controller") {
		cfg.Simulation.Controller = controller
	}
	if changed("reference") {
		cfg.Simulation.Reference = reference
	}
	if changed("adaptive") {
		cfg.Simulation.Adaptive = adaptive
	}
	if changed("kp") {
		cfg.Simulation.PID.Kp = kp
	}
	if changed("ki") {
		cfg.Simulation.PID.Ki = ki
	}
	if changed("kd") {
		cfg.Simulation.PID.Kd = kd
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config resolved", "model", cfg.Model, "poles", cfg.Poles, "preset", preset, "file", configFile)
	return cfg, nil
}
