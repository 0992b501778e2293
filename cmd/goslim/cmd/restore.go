package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/goslim/internal/dump"
	"github.com/dbsmedya/goslim/internal/mysqlexec"
	"github.com/dbsmedya/goslim/internal/pipeline"
	"github.com/dbsmedya/goslim/internal/progress"
	"github.com/dbsmedya/goslim/internal/workspace"
)

var restoreTarget string

var restoreCmd = &cobra.Command{
	Use:   "restore <dump.sql>",
	Short: "Restore an existing dump into a named target database",
	Long: `Restore recreates the target database (dropping any existing one with the
same name) and streams the given dump file into it. This is the same path the
slim pipeline takes when a per-file restore target is configured, usable on
its own for a dump that was already produced.

Example:
  goslim restore shop_slim.sql --target shop_staging`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().StringVarP(&restoreTarget, "target", "t", "",
		"Target database name (required)")
	restoreCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	file, err := dump.NewFile(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := workspace.Connect(ctx, &cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL server: %w", err)
	}
	defer db.Close()

	manager := workspace.NewManager(db, log)
	session := mysqlexec.NewSession(&cfg.Connection, log)

	log.Infow("Restoring dump", "path", file.Path, "target", restoreTarget)

	if err := manager.Recreate(ctx, restoreTarget); err != nil {
		return fmt.Errorf("failed to prepare target database: %w", err)
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open dump file: %w", err)
	}
	defer f.Close()

	sink := progress.NewThrottle(progress.NewBarSink(), progress.DefaultInterval)
	reporter := progress.NewReporter(sink, 0, 1, file.Name)
	counter := reporter.NewCounter(pipeline.RestorePhase(restoreTarget), file.SizeBytes, 100)

	if err := session.Import(ctx, restoreTarget, f, counter.Bytes); err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	counter.Done()

	tables, err := manager.TableCount(ctx, restoreTarget)
	if err != nil {
		return err
	}
	size, err := manager.SizeBytes(ctx, restoreTarget)
	if err != nil {
		return err
	}

	color.Green.Printf("Restored %s into %s (%d tables, %s)\n",
		file.Name, restoreTarget, tables, humanize.Bytes(uint64(size)))
	return nil
}
