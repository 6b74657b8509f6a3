// roguestats computes per-level monster spawn statistics for Rogue from a
// spawn log written by roguemonsters.
//
// Usage:
//
//	roguestats [flags] [infile]
//	roguestats serve <infile>
//	roguestats history
//	roguestats cache list|clear
//	roguestats xplevels
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lawnchairsociety/roguestats/internal/cache"
	"github.com/lawnchairsociety/roguestats/internal/config"
	"github.com/lawnchairsociety/roguestats/internal/engine"
	"github.com/lawnchairsociety/roguestats/internal/history"
	"github.com/lawnchairsociety/roguestats/internal/logger"
	"github.com/lawnchairsociety/roguestats/internal/report"
	"github.com/lawnchairsociety/roguestats/internal/stats"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the global flags and the loaded configuration.
type app struct {
	configPath string
	envFile    string
	quiet      bool
	verbose    bool

	levelWeight  int
	wanderWeight int
	format       string
	noCache      bool

	cfg *config.Config
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "roguestats [infile]",
		Short: "Monster spawn statistics for Rogue",
		Long: `Reads a spawn log (one line of level monsters followed by one line of
wander monsters, per level) and prints, for every level, the percentage of
each monster, the range of levels each monster appears in, and the monsters
and levels ordered by frequency.

Reads standard input when infile is omitted or "-".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: a.runAnalyze,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "roguestats.yaml", "Path to config YAML file")
	pf.StringVar(&a.envFile, "env-file", ".env", "Path to .env file")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Only log warnings and errors")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug messages")

	f := root.Flags()
	f.IntVarP(&a.levelWeight, "level-weight", "l", 1, "Weight of level monsters (sign is ignored)")
	f.IntVarP(&a.wanderWeight, "wander-weight", "w", 1, "Weight of wander monsters (sign is ignored)")
	f.StringVarP(&a.format, "format", "f", "", "Output format: text, json or yaml (default from config)")
	f.BoolVar(&a.noCache, "no-cache", false, "Neither read nor write the cache")

	root.AddCommand(
		newServeCmd(a),
		newHistoryCmd(a),
		newCacheCmd(a),
		newXPLevelsCmd(),
	)
	return root
}

// setup loads the configuration and initializes logging.
func (a *app) setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	cfg, cfgErr := config.LoadConfig(a.configPath)
	switch {
	case a.verbose:
		cfg.Logging.Level = "DEBUG"
	case a.quiet:
		cfg.Logging.Level = "WARNING"
	}
	if err := logger.InitializeWriter(cmd.ErrOrStderr(), cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfgErr != nil {
		logger.Warning("Using default configuration", "path", a.configPath, "error", cfgErr)
		cfg = config.DefaultConfig()
		cfg.ApplyEnv()
	}
	a.cfg = cfg
	return nil
}

// weights returns the flag weights, falling back to the configured ones.
func (a *app) weights(cmd *cobra.Command) stats.Weights {
	w := a.cfg.Weights
	if cmd.Flags().Changed("level-weight") {
		w.Level = a.levelWeight
	}
	if cmd.Flags().Changed("wander-weight") {
		w.Wander = a.wanderWeight
	}
	return stats.NewWeights(w.Level, w.Wander)
}

// openCache returns nil when caching is turned off.
func (a *app) openCache() *cache.Store {
	if a.noCache || a.cfg.Cache.Disabled {
		return nil
	}
	store, err := cache.New(a.cfg.Cache.StoreConfig())
	if err != nil {
		logger.Warning("Cache disabled", "error", err)
		return nil
	}
	return store
}

// openEngine builds the engine and returns a function releasing its resources.
func (a *app) openEngine() (*engine.Engine, func()) {
	var opts []engine.Option
	closeFn := func() {}

	if a.cfg.History.Enabled {
		h, err := history.Open(a.cfg.History.Config)
		if err != nil {
			logger.Warning("Run history disabled", "error", err)
		} else {
			opts = append(opts, engine.WithRecorder(h))
			closeFn = func() { h.Close() }
		}
	}
	return engine.New(a.openCache(), opts...), closeFn
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	formatName := a.cfg.Output.Format
	if a.format != "" {
		formatName = a.format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}

	src := engine.File("")
	if len(args) == 1 {
		src = engine.File(args[0])
	}
	if src.IsStdin() {
		src.Reader = cmd.InOrStdin()
	}

	eng, closeFn := a.openEngine()
	defer closeFn()

	res, err := eng.Analyze(src, a.weights(cmd))
	if err != nil {
		logger.Error("Analysis failed", "source", src.Name, "error", err)
		return err
	}
	return report.Render(cmd.OutOrStdout(), res.Report, format, a.cfg.Output.TextOptions())
}
