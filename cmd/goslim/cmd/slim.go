package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/goslim/internal/config"
	"github.com/dbsmedya/goslim/internal/dump"
	"github.com/dbsmedya/goslim/internal/logger"
	"github.com/dbsmedya/goslim/internal/mysqlexec"
	"github.com/dbsmedya/goslim/internal/pipeline"
	"github.com/dbsmedya/goslim/internal/progress"
	"github.com/dbsmedya/goslim/internal/workspace"
)

var (
	slimRestoreSpecs []string
	slimNoProgress   bool
)

var slimCmd = &cobra.Command{
	Use:   "slim <dump.sql> [dump.sql...]",
	Short: "Derive slim dumps from full MySQL dumps",
	Long: `Slim imports each full dump into an ephemeral workspace database, exports
the complete schema plus the row data of all non-excluded tables, and writes
the result as <base>_slim.sql into the output directory.

Each file is its own unit of work: a failing file is recorded and the batch
moves on to the next one. Workspaces are dropped on every exit path.

Example:
  goslim slim --config goslim.yaml backups/shop.sql backups/crm.sql
  goslim slim shop.sql --restore shop.sql=shop_staging`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSlim,
}

func init() {
	slimCmd.Flags().StringArrayVar(&slimRestoreSpecs, "restore", nil,
		"Restore a slim dump into a target database, as <path>=<database> (repeatable)")
	slimCmd.Flags().BoolVar(&slimNoProgress, "no-progress", false,
		"Disable the terminal progress bar")

	rootCmd.AddCommand(slimCmd)
}

func runSlim(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	restoreTargets, err := buildRestoreTargets(cfg, slimRestoreSpecs)
	if err != nil {
		return err
	}

	exclusions, err := dump.LoadExclusions(cfg.Exclusions.File)
	if err != nil {
		return fmt.Errorf("failed to load exclusions: %w", err)
	}

	log.Infow("Starting slim run",
		"files", len(args),
		"excluded_tables", exclusions.Len(),
		"output_dir", cfg.Output.Dir,
	)

	// Cancellation is honored between items only; an in-flight item always
	// runs to completion or failure.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("Received shutdown signal - finishing current file...")
		cancel()
	}()

	db, err := workspace.Connect(ctx, &cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL server: %w", err)
	}
	defer db.Close()

	manager := workspace.NewManager(db, log)
	session := mysqlexec.NewSession(&cfg.Connection, log)

	var sink progress.Sink
	if !slimNoProgress {
		sink = progress.NewThrottle(progress.NewBarSink(), progress.DefaultInterval)
	}

	orch, err := pipeline.New(cfg, session, manager, exclusions, sink, log)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	items := make([]pipeline.Item, 0, len(args))
	for _, path := range args {
		target, _ := restoreTargets.Get(path)
		items = append(items, pipeline.Item{Path: path, RestoreTarget: target})
	}

	result, err := orch.Run(ctx, items)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	printSummary(result)

	if result.Failed > 0 {
		return fmt.Errorf("batch completed with %d failed file(s)", result.Failed)
	}
	return nil
}

// loadConfigAndLogger loads the config file, applies CLI overrides,
// validates, and builds the logger. Shared by the pipeline-facing commands.
func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.OutputDir, overrides.ExclusionsFile)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, log, nil
}

// buildRestoreTargets merges the config restore map with --restore flags,
// flags taking precedence. Insertion order is preserved for deterministic
// reporting.
func buildRestoreTargets(cfg *config.Config, specs []string) (*orderedmap.OrderedMap[string, string], error) {
	targets := orderedmap.NewOrderedMap[string, string]()

	for path, database := range cfg.Restore {
		targets.Set(path, database)
	}

	for _, spec := range specs {
		path, database, ok := strings.Cut(spec, "=")
		if !ok || path == "" || database == "" {
			return nil, fmt.Errorf("invalid --restore value %q (expected <path>=<database>)", spec)
		}
		targets.Set(path, database)
	}

	return targets, nil
}

// printSummary renders the per-item outcome table after a batch.
func printSummary(result *pipeline.BatchResult) {
	fmt.Printf("\n=== Slim Complete ===\n")
	fmt.Printf("Files: %d  Succeeded: %d  Failed: %d  Duration: %s\n\n",
		len(result.Items), result.Succeeded, result.Failed, result.Duration.Round(10*time.Millisecond))

	nameWidth := 4
	for _, item := range result.Items {
		if w := runewidth.StringWidth(item.Name); w > nameWidth {
			nameWidth = w
		}
	}

	for _, item := range result.Items {
		name := runewidth.FillRight(item.Name, nameWidth)

		if !item.Success {
			color.Red.Printf("  %s  FAILED   %s\n", name, item.Error)
			continue
		}

		line := fmt.Sprintf("  %s  %-8s  %s -> %s (saved %d%%)",
			name,
			strings.ToUpper(item.Outcome.String()),
			humanize.Bytes(uint64(item.OriginalBytes)),
			humanize.Bytes(uint64(item.SlimBytes)),
			item.SavingsPercent,
		)
		color.Green.Println(line)

		if item.Restore != nil {
			fmt.Printf("  %s  restored to %s (%d tables, %s)\n",
				runewidth.FillRight("", nameWidth),
				item.Restore.Database,
				item.Restore.Tables,
				humanize.Bytes(uint64(item.Restore.SizeBytes)),
			)
		}
		if item.RestoreError != "" {
			color.Yellow.Printf("  %s  restore failed: %s\n",
				runewidth.FillRight("", nameWidth), item.RestoreError)
		}
	}
}
