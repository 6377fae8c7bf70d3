package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mcoot/bakery2048/internal/config"
	"github.com/mcoot/bakery2048/internal/factory"
	"github.com/mcoot/bakery2048/internal/model"
)

var (
	cfg     config.Config
	cfgErr  error
	app     *factory.App
	out     *Output
	verbose bool
	noColor bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg, cfgErr = config.Load()

	rootCmd := &cobra.Command{
		Use:   "bakery",
		Short: "Record keeper for Bakery 2048",
		Long: `bakery keeps the records behind Bakery 2048: registered players and
their game statistics, the catalog of bakery tiles, and the power-ups
players can buy.

Data is kept in one JSON document per kind, in a data directory, in redis,
or only in memory for the life of the command.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return cfgErr
			}
			if noColor {
				color.NoColor = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			out = NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())

			a, err := factory.New(cfg, newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			app = a

			// Unreadable data leaves that kind empty; the command still runs
			if err := app.Load(cmd.Context()); err != nil {
				out.PrintWarning(fmt.Sprintf("some data could not be loaded: %v", err))
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Data directory for file storage (env: BAKERY_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&cfg.Storage, "storage", cfg.Storage, "Storage backend: file, memory, redis (env: BAKERY_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL (env: BAKERY_REDIS_URL)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json (env: BAKERY_OUTPUT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newTileCmd())
	rootCmd.AddCommand(newPowerUpCmd())
	rootCmd.AddCommand(newSeedCmd())

	return rootCmd
}

// Execute runs the root command and exits with a status matching the error
func Execute() {
	rootCmd := NewRootCmd()
	errOut := func() *Output {
		return NewOutput(cfg.Output, rootCmd.OutOrStdout(), rootCmd.ErrOrStderr())
	}

	defer func() {
		if r := recover(); r != nil {
			slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
			)
			errOut().PrintError(fmt.Errorf("internal error: %v", r))
			os.Exit(ExitInternal)
		}
	}()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		errOut().PrintError(err)
		os.Exit(classify(err).exit)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// finish prints a changed entity. When only the save failed the entity is
// still printed, since the change was applied, and the error is returned.
func finish(entity any, err error) error {
	if err != nil && !errors.Is(err, model.ErrPersistFailed) {
		return err
	}
	out.Print(entity)
	return err
}

// confirmDelete guards destructive commands
func confirmDelete(yes bool) error {
	if !yes {
		return errors.New("refusing to delete without --yes")
	}
	return nil
}
