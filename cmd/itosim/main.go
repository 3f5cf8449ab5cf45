package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/san-kum/itosim/internal/analysis"
	"github.com/san-kum/itosim/internal/config"
	"github.com/san-kum/itosim/internal/export"
	"github.com/san-kum/itosim/internal/integrators"
	"github.com/san-kum/itosim/internal/logging"
	"github.com/san-kum/itosim/internal/noise"
	"github.com/san-kum/itosim/internal/schedule"
	"github.com/san-kum/itosim/internal/sim"
	"github.com/san-kum/itosim/internal/store"
	"github.com/san-kum/itosim/internal/tui"
	"github.com/san-kum/itosim/internal/viz"
)

var (
	// Config file and preset
	configFile string
	preset     string
	logLevel   string
	// Run parameters, applied only when set on the command line
	tMax         float64
	samples      int
	trajectories int
	bins         int
	speed        int
	function     string
	functionG    string
	seed         uint64
	// Per-command options
	logFile   string
	theme     string
	jsonOut   bool
	stopAfter time.Duration
	frameRate int
	outDir    string
	format    string
	draws     int
	noiseDt   float64
)

// main runs the interactive simulator when no subcommand is given. It exits
// with status 1 on any error.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "itosim",
		Short:        "Brownian motion and Itô integral simulator",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "yaml config file")
	pf.StringVar(&preset, "preset", "", "integrand preset, see itosim presets")
	pf.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pf.Float64Var(&tMax, "t-max", config.DefaultTMax, "end of the time interval")
	pf.IntVar(&samples, "samples", config.DefaultNumSamples, "steps per trajectory")
	pf.IntVar(&trajectories, "trajectories", config.DefaultNumTrajectories, "number of trajectories")
	pf.IntVar(&bins, "bins", config.DefaultNumBins, "histogram bins")
	pf.IntVar(&speed, "speed", config.DefaultSpeed, "animation speed, 1 to 100")
	pf.StringVar(&function, "f", config.DefaultFunction, "integrand f(t, B_t) against dB")
	pf.StringVar(&functionG, "g", config.DefaultFunctionG, "integrand g(t, B_t) against dt")
	pf.Uint64Var(&seed, "seed", 0, "random seed, 0 seeds from the clock")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive simulator",
		RunE:  runLive,
	}
	for _, c := range []*cobra.Command{rootCmd, liveCmd} {
		c.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
		c.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "compute every trajectory and print charts and statistics",
		RunE:  runBatch,
	}
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "print the run as JSON")

	animateCmd := &cobra.Command{
		Use:   "animate",
		Short: "animate a run in the terminal",
		RunE:  runAnimate,
	}
	animateCmd.Flags().DurationVar(&stopAfter, "stop-after", 0, "stop the run after this long")
	animateCmd.Flags().IntVar(&frameRate, "fps", 30, "maximum repaints per second, 0 for every step")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "compute a run and write chart images",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	renderCmd.Flags().StringVar(&format, "format", "png", "png or svg")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list integrand presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tF\tG\tNOTE")
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, p.Function, p.FunctionG, p.Description)
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init PATH",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
	configCmd.AddCommand(configInitCmd)

	checkNoiseCmd := &cobra.Command{
		Use:   "check-noise",
		Short: "sample Brownian increments and compare their moments with N(0, dt)",
		RunE:  checkNoise,
	}
	checkNoiseCmd.Flags().IntVar(&draws, "draws", 100000, "number of increments")
	checkNoiseCmd.Flags().Float64Var(&noiseDt, "dt", 0.01, "step size")

	rootCmd.AddCommand(liveCmd, runCmd, animateCmd, renderCmd, presetsCmd, configCmd, checkNoiseCmd)
	return rootCmd
}

// resolveConfig layers the defaults, the preset, the config file and the
// flags set on the command line, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	if configFile != "" {
		if err := config.Merge(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("t-max") {
		cfg.TMax = tMax
	}
	if flags.Changed("samples") {
		cfg.NumSamples = samples
	}
	if flags.Changed("trajectories") {
		cfg.NumTrajectories = trajectories
	}
	if flags.Changed("bins") {
		cfg.NumBins = bins
	}
	if flags.Changed("speed") {
		cfg.AnimationSpeed = speed
	}
	if flags.Changed("f") {
		cfg.Function = function
	}
	if flags.Changed("g") {
		cfg.FunctionG = functionG
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, nil
}

func newNormal(cfg *config.Config, logger *slog.Logger) *noise.BoxMuller {
	s := cfg.Seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	logger.Debug("random source seeded", "seed", s)
	return noise.NewBoxMuller(s)
}

func colorOutput() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if logFile != "" {
		l, closer, err := logging.OpenFile(logLevel, logFile)
		if err != nil {
			return err
		}
		defer closer.Close()
		logger = l
	}

	m := viz.NewModel(cfg.ToSim(), newNormal(cfg, logger), logger, theme)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logLevel, os.Stderr)
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	var r sim.Renderer = tui.NewPrinter(cmd.OutOrStdout(), colorOutput())
	if jsonOut {
		r = sim.NopRenderer{}
	}
	d := sim.New(r, nil, newNormal(cfg, logger), logger)
	if err := d.Recompute(cmd.Context(), cfg.ToSim()); err != nil {
		return err
	}
	if !jsonOut {
		return nil
	}

	snap, _ := d.Snapshot()
	summary, _ := d.Summary()
	return store.WriteJSON(cmd.OutOrStdout(), store.Export{
		TMax:       cfg.TMax,
		NumSamples: cfg.NumSamples,
		Function:   cfg.Function,
		FunctionG:  cfg.FunctionG,
		Seed:       cfg.Seed,
		Step:       summary.Step,
		Mean:       summary.Mean,
		StdDev:     summary.StdDev,
		Terminal:   d.TerminalValues(),
		Snapshot:   snap,
	})
}

func runAnimate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	loop := schedule.NewLoop()
	d := sim.New(tui.NewLivePrinter(cmd.OutOrStdout(), frameRate, colorOutput()), loop, newNormal(cfg, logger), logger)
	if err := d.Start(cfg.ToSim()); err != nil {
		return err
	}

	if stopAfter > 0 {
		deadline := time.Now().Add(stopAfter)
		var watch schedule.Task
		watch = loop.Repeat(d.Period(), func() {
			if d.State() != sim.Running {
				watch.Cancel()
				return
			}
			if !time.Now().Before(deadline) {
				watch.Cancel()
				_ = d.Stop()
			}
		})
	}

	err = loop.Run(ctx)
	if d.State() == sim.Running {
		_ = d.Stop()
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return err
	}
	return d.Err()
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if _, _, err := export.Provider(format); err != nil {
		return err
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	charts := export.NewCharts()
	d := sim.New(charts, nil, newNormal(cfg, logger), logger)
	if err := d.Recompute(cmd.Context(), cfg.ToSim()); err != nil {
		return err
	}

	paths, err := charts.WriteFiles(outDir, format)
	if err != nil {
		return err
	}
	summary, _ := d.Summary()
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary.String())
	return nil
}

func checkNoise(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if draws < 2 {
		return fmt.Errorf("--draws must be at least 2, got %d", draws)
	}
	logger := logging.NewLogger(logLevel, os.Stderr)

	stepper := integrators.NewEulerMaruyama(newNormal(cfg, logger))
	stats, err := analysis.CheckIncrements(stepper, noiseDt, draws)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "draws\t%d\n", stats.Draws)
	fmt.Fprintf(w, "mean\t%.6f\t(expected 0)\n", stats.Mean)
	fmt.Fprintf(w, "variance\t%.6f\t(expected %.6f)\n", stats.Variance, stats.Dt)
	return w.Flush()
}
