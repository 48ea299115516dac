package main

import (
	"fmt"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/dirnator/cmd/dirnator/prompt"
	"github.com/jamesainslie/dirnator/pkg/dirnator/config"
	"github.com/jamesainslie/dirnator/pkg/dirnator/history"
	"github.com/jamesainslie/dirnator/pkg/dirnator/logging"
	"github.com/jamesainslie/dirnator/pkg/dirnator/tuner"
	"github.com/jamesainslie/dirnator/pkg/dirnator/types"
)

var logger = logging.Get("cli")

// runFlags are bound to viper keys of the same name.
var runFlags = []string{"mode", "root", "out", "workers", "fast", "fmt", "preset", "runs", "name", "verify"}

// cli holds the state shared by the commands of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New()}

	cmd := &cobra.Command{
		Use:   "dirnator",
		Short: "Map, benchmark and stress-test directory trees",
		Long: heredoc.Doc(`
			dirnator crawls a directory tree with a pool of workers and reports
			what it found and how fast it got there.

			Modes:
			  map     scan once and write the directory map (text, binary, JSON)
			  bench   scan a ladder of worker counts and rank them by elapsed time
			  stress  repeat the ladder for several cycles, printing every scan
			  disk    measure sequential and small-file throughput of --out

			Without --mode, dirnator asks on a terminal and maps otherwise.
		`),
		Example: heredoc.Doc(`
			dirnator --mode map --root ~/src --fmt text
			dirnator --mode bench --root /srv --runs 3
			dirnator --mode stress --preset hard
			dirnator view dirnator/out/dirnator_bench_1700000000.json
			dirnator history
		`),
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runRoot,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/dirnator/config.yaml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "debug output on stderr")

	f := cmd.Flags()
	f.StringP("mode", "m", "", "map, bench, stress or disk (prompt when omitted)")
	f.StringP("root", "r", config.DefaultRoot, "tree to scan")
	f.StringP("out", "o", config.DefaultOut, "report directory")
	f.IntP("workers", "w", 0, "worker count (default: derived from CPU cores)")
	f.Bool("fast", false, "bias the derived worker count upward")
	f.String("fmt", config.DefaultFormat, "map report formats: text, bin or both")
	f.String("preset", config.DefaultPreset, "sweep shape: light, balanced, hard or extreme")
	f.Int("runs", config.DefaultRuns, "bench repetitions per worker count")
	f.String("name", config.DefaultName, "tag for map report file names")
	f.Bool("verify", false, "cross-check map scans with an independent walk")
	f.Bool("no-history", false, "do not record this run in the history")

	for _, name := range runFlags {
		_ = c.v.BindPFlag(name, f.Lookup(name))
	}
	_ = c.v.BindPFlag("no_history", f.Lookup("no-history"))

	cmd.AddCommand(newViewCmd(), newHistoryCmd(c), newConfigCmd(c), newVersionCmd())
	return cmd
}

// setup reads the config file and initializes logging before any command.
func (c *cli) setup(_ *cobra.Command, _ []string) error {
	if err := config.ReadFile(c.v, c.cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if err := logging.Init(cfg.LoggingConfig(c.verbose)); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// runRoot resolves the run, checks the root and dispatches on the mode.
func (c *cli) runRoot(cmd *cobra.Command, _ []string) error {
	run, err := config.Resolve(c.v, types.ModeMenu)
	if err != nil {
		return err
	}

	resources, err := tuner.Detect()
	if err != nil {
		logger.Warn("detecting system resources, using defaults", "error", err)
	}
	hw := resources.Hardware()

	if run.Mode == types.ModeMenu {
		run, err = c.ask(cmd, run, hw)
		if err != nil {
			return err
		}
	}

	if err := config.CheckRoot(run.Root); err != nil {
		return err
	}

	rec, err := history.NewRecord(run.Mode, run.Root, hw)
	if err != nil {
		logger.Warn("creating history record", "error", err)
	}

	m := &modes{
		run:    run,
		hw:     hw,
		cores:  resources.CPUCores,
		ts:     time.Now().Unix(),
		out:    cmd.OutOrStdout(),
		status: newStatusLine(cmd.ErrOrStderr()),
		rec:    rec,
	}
	if err := m.execute(); err != nil {
		logger.Error("run failed", "mode", run.Mode, "root", run.Root, "error", err)
		return err
	}

	c.record(rec)
	return nil
}

// ask falls back to the interactive prompt on a terminal and to map mode
// everywhere else.
func (c *cli) ask(cmd *cobra.Command, run config.Run, hw types.Hardware) (config.Run, error) {
	if !isTerminal(cmd.InOrStdin()) {
		run.Mode = types.ModeMap
		return run, nil
	}

	// Console logging would draw over the prompt.
	if c.verbose {
		quiet := c.cfg.LoggingConfig(c.verbose)
		quiet.Quiet = true
		if err := logging.Init(quiet); err == nil {
			defer func() { _ = logging.Init(c.cfg.LoggingConfig(c.verbose)) }()
		}
	}

	answers, err := prompt.Run(prompt.Answers{Root: run.Root, Out: run.Out}, hw, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return run, err
	}

	run.Mode = answers.Mode
	run.Root = answers.Root
	run.Fast = answers.Fast
	run.Out = answers.Out
	return run, nil
}

// record stores a completed run unless history is disabled. Store failures
// are logged and never fail the run.
func (c *cli) record(rec *history.Record) {
	if rec == nil || !c.cfg.History.Enabled || c.v.GetBool("no_history") {
		return
	}

	store, err := history.Open(c.cfg.HistoryPath())
	if err != nil {
		logger.Warn("opening history", "error", err)
		return
	}
	defer store.Close()

	if err := store.Put(rec); err != nil {
		logger.Warn("recording run", "id", rec.ID, "error", err)
		return
	}
	logger.Debug("run recorded", "id", rec.ID, "mode", rec.Mode)
}

// openHistory opens the configured history store.
func (c *cli) openHistory() (*history.Store, error) {
	return history.Open(c.cfg.HistoryPath())
}

// isTerminal reports whether stream is a terminal file.
func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
