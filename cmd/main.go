package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/okian/fracture/internal/adapters/http/api"
	"github.com/okian/fracture/internal/adapters/tui"
	"github.com/okian/fracture/internal/app"
	"github.com/okian/fracture/internal/clock"
	"github.com/okian/fracture/internal/config"
	"github.com/okian/fracture/internal/rehearsal"
	"github.com/okian/fracture/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// The terminal may have been released just now, so write plainly.
		os.Stderr.WriteString("fracture: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var headless bool
	root := &cobra.Command{
		Use:   "fracture",
		Short: "A fractured signal, stabilised in the terminal",
		Long: `fracture plays the landing experience in the terminal: a timed signal
sequence, a reveal, and a coherence map that stabilises as signatures arrive.

Configuration is read from defaults, then the YAML file named by
FRACTURE_CONFIG, then FRACTURE_* environment variables.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExperience(cmd.Context(), headless)
		},
	}
	root.Flags().BoolVar(&headless, "headless", false, "run on the wall clock without the terminal UI, logging to stderr")
	root.AddCommand(newRehearseCmd(), newVersionCmd())
	return root
}

func newRehearseCmd() *cobra.Command {
	var (
		seed    int64
		timeout time.Duration
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "rehearse",
		Short: "Play the journey headless on simulated time and report its timeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx, true)
			if err != nil {
				return err
			}
			defer syncLogger()

			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if verbose {
				_ = logger.SetLevelString("debug")
			}

			report, err := rehearsal.Run(ctx, rehearsal.Config{
				Experience:        cfg,
				SignaturesTimeout: timeout,
				Verbose:           verbose,
				Logger:            logger.Named("rehearsal"),
			})
			if report != nil {
				if perr := rehearsal.Print(cmd.OutOrStdout(), report, verbose); perr != nil && err == nil {
					err = fmt.Errorf("print report: %w", perr)
				}
			}
			return err
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for every random source (default: configured seed)")
	cmd.Flags().DurationVar(&timeout, "signatures-timeout", rehearsal.DefaultSignaturesTimeout,
		"simulated time allowed between signing and the final phase")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level and list every signature")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "fracture", version)
			return err
		},
	}
}

// setup loads configuration and initializes the global logger. The
// interactive UI owns the terminal, so it logs to the configured file.
func setup(ctx context.Context, toStderr bool) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	if toStderr || cfg.LogFile == "" {
		err = logger.Init(logger.WithOutput(os.Stderr))
	} else {
		err = logger.InitFile(cfg.LogFile)
	}
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}

func syncLogger() {
	if err := logger.Sync(); err != nil {
		os.Stderr.WriteString("failed to close log file: " + err.Error() + "\n")
	}
}

// runExperience plays the experience until the user quits or ctx is done,
// serving diagnostics alongside when an address is configured.
func runExperience(ctx context.Context, headless bool) error {
	cfg, err := setup(ctx, headless)
	if err != nil {
		return err
	}
	defer syncLogger()
	log := logger.Named("fracture")

	exp, err := app.New(cfg, app.WithLogger(log.Named("experience")))
	if err != nil {
		return err
	}
	if err := exp.Start(ctx); err != nil {
		return fmt.Errorf("start experience: %w", err)
	}
	defer exp.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Addr != "" {
		srv := api.NewServer(exp, api.WithLogger(log.Named("api")))
		g.Go(func() error { return srv.ListenAndServe(gctx, cfg.Addr) })
	}

	if headless {
		driver := clock.NewDriver(exp,
			clock.WithInterval(cfg.FrameInterval()),
			clock.WithFixedStep(),
			clock.WithDriverLogger(log.Named("driver")),
		)
		g.Go(func() error { return driver.Run(gctx) })
		log.Info(ctx, "running headless", logger.Duration("interval", cfg.FrameInterval()))
		return g.Wait()
	}

	model, err := tui.New(gctx, exp, cfg, tui.WithLogger(log.Named("tui")))
	if err != nil {
		cancel()
		return errors.Join(err, g.Wait())
	}
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(gctx),
	)
	g.Go(func() error {
		// Quitting the UI ends the run.
		defer cancel()
		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("terminal ui: %w", err)
		}
		return nil
	})
	return g.Wait()
}
