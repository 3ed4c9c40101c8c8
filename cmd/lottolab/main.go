package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"lottolab/adapters/store"
	"lottolab/app"
	"lottolab/internal"
	"lottolab/internal/config"
	"lottolab/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Debug("No .env file found, using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "lottolab",
		Short:         "Fairness diagnostics and statistics for 6/45 lottery draws",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $LOTTOLAB_CONFIG)")

	rootCmd.AddCommand(
		newImportCmd(&configPath),
		newExportCmd(&configPath),
		newAnalyzeCmd(&configPath),
		newRecommendCmd(&configPath),
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
	)
	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

// openContainer loads configuration and wires the services over the
// configured database
func openContainer(ctx context.Context, configPath string) (*container.Container, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.InitWithDatabase(ctx); err != nil {
		_ = c.Shutdown(ctx)
		return nil, err
	}
	return c, nil
}

func newImportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import draws from a CSV or Excel history file",
		Long: `Import draws from a CSV or Excel file into the database.

Rows that fail validation are reported and skipped. Draws already stored are
left untouched. Without an argument the configured history file is used.

Example: lottolab import data/lotto.xlsx`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			path := c.Config.Data.HistoryFile
			if len(args) == 1 {
				path = args[0]
			}
			res, err := c.Ingest.ImportFile(cmd.Context(), path)
			if err != nil {
				return err
			}
			return printIngest(cmd.OutOrStdout(), res)
		},
	}
}

func printIngest(w io.Writer, res *app.IngestResult) error {
	fmt.Fprintf(w, "Source:   %s\n", res.Source)
	fmt.Fprintf(w, "Rows:     %d\n", res.Received)
	fmt.Fprintf(w, "Inserted: %d\n", res.Inserted)
	fmt.Fprintf(w, "Stored:   %d (latest draw %d)\n", res.Total, res.LatestNo)
	if len(res.Errors) > 0 {
		fmt.Fprintf(w, "Rejected: %d\n", len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return nil
}

func newExportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the stored history to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			n, err := c.Ingest.ExportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d draws to %s\n", n, args[0])
			return nil
		},
	}
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var q float64
	var includeBonus bool
	var top int
	var format string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the fairness diagnostics over the stored history",
		Long: `Run the uniformity and pair co-occurrence tests over every stored draw,
with Benjamini-Hochberg control of the false discovery rate across pairs.

Example: lottolab analyze --q 0.1 --include-bonus --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			req := c.DefaultAnalysis()
			if cmd.Flags().Changed("q") {
				req.Q = q
			}
			if cmd.Flags().Changed("include-bonus") {
				req.IncludeBonus = includeBonus
			}
			if !cmd.Flags().Changed("top") {
				top = c.Config.Analysis.TopPairs
			}

			report, err := c.Analysis.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			switch format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "markdown", "md":
				_, err := io.WriteString(cmd.OutOrStdout(), app.RenderMarkdown(report, top))
				return err
			default:
				return fmt.Errorf("unknown format %q (use markdown or json)", format)
			}
		},
	}

	cmd.Flags().Float64Var(&q, "q", 0.05, "False discovery rate for the pair tests")
	cmd.Flags().BoolVar(&includeBonus, "include-bonus", false, "Count the bonus ball as a seventh number")
	cmd.Flags().IntVar(&top, "top", 10, "Number of strongest pair signals to list")
	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown or json")

	return cmd
}

func newRecommendCmd(configPath *string) *cobra.Command {
	var seed int64
	var lookback int
	var includeBonus bool

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest tickets from frequency heuristics",
		Long: `Suggest one ticket per heuristic (hot, cold, balanced, weighted recent).

These picks describe the history; they do not improve the odds of any draw.

Example: lottolab recommend --seed 7 --lookback 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			req := app.RecommendRequest{
				IncludeBonus: c.Config.Analysis.IncludeBonus,
				Lookback:     c.Config.Analysis.Lookback,
				Seed:         c.Config.Analysis.Seed,
			}
			if cmd.Flags().Changed("seed") {
				req.Seed = seed
			}
			if cmd.Flags().Changed("lookback") {
				req.Lookback = lookback
			}
			if cmd.Flags().Changed("include-bonus") {
				req.IncludeBonus = includeBonus
			}

			recs, err := c.Recommendations.Recommend(cmd.Context(), req)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Based on %d draws (seed %d)\n", recs.BasedOnDraws, recs.Seed)
			for _, t := range recs.Tickets {
				fmt.Fprintf(w, "%-16s %s  sum=%d odd=%d low=%d\n",
					t.Strategy, joinInts(t.Numbers), t.Features.Sum, t.Features.OddCount, t.Features.LowCount)
			}
			fmt.Fprintf(w, "Bonus candidates: %s\n", joinInts(recs.BonusCandidates))
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic picks")
	cmd.Flags().IntVar(&lookback, "lookback", 200, "Number of recent draws to weigh")
	cmd.Flags().BoolVar(&includeBonus, "include-bonus", false, "Count the bonus ball in frequencies")

	return cmd
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func newServeCmd(configPath *string) *cobra.Command {
	var importFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and the JSON API",
		Long: `Serve the HTML dashboard and the stateless JSON API until interrupted.

A refresh schedule or file watch, when configured, keeps the stored history in
step with the history file in the background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := openContainer(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			if importFirst {
				if _, err := c.Refresher().RunOnce(cmd.Context()); err != nil {
					internal.DefaultLogger.Warn("initial import failed: %v", err)
				}
			}
			return c.Serve(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&importFirst, "import", false, "Import the configured history file before serving")

	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(cmd *cobra.Command, fn func(*store.Migrator) error) error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		db, dialect, err := store.Open(cmd.Context(), cfg.Database.URL)
		if err != nil {
			return err
		}
		defer db.Close()

		m, err := store.NewMigrator(db, dialect)
		if err != nil {
			return err
		}
		return fn(m)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(m *store.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
				return nil
			})
		},
	}

	down := &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (one step by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return run(cmd, func(m *store.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(m *store.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}
