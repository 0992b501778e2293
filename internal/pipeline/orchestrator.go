// Package pipeline provides the batch orchestration for goslim: it sequences
// each input dump file through workspace creation, import, slim composition,
// cleanup, and optional restore, collecting one result per item and
// continuing past per-item failures.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dbsmedya/goslim/internal/config"
	"github.com/dbsmedya/goslim/internal/dump"
	"github.com/dbsmedya/goslim/internal/logger"
	"github.com/dbsmedya/goslim/internal/mysqlexec"
	"github.com/dbsmedya/goslim/internal/progress"
	"github.com/dbsmedya/goslim/internal/workspace"
)

// Phase labels carried by progress events.
const (
	PhaseImport   = "Importing full dump…"
	PhaseExport   = "Exporting slim dump…"
	PhaseCleanup  = "Cleaning up…"
	PhaseComplete = "Complete"
)

// RestorePhase returns the phase label for a restore into the named target.
func RestorePhase(target string) string {
	return fmt.Sprintf("Restoring to %s…", target)
}

// itemState tracks an item's position in its processing sequence.
type itemState int

const (
	stateInit itemState = iota
	stateWorkspaceReady
	stateImported
	stateComposed
	stateCleaned
	stateRestoring
	stateRestored
	stateDone
	stateFailed
)

// String returns the state name for logging.
func (s itemState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateWorkspaceReady:
		return "workspace_ready"
	case stateImported:
		return "imported"
	case stateComposed:
		return "composed"
	case stateCleaned:
		return "cleaned"
	case stateRestoring:
		return "restoring"
	case stateRestored:
		return "restored"
	case stateDone:
		return "done"
	default:
		return "failed"
	}
}

// Lifecycle is the workspace surface the orchestrator depends on.
// *workspace.Manager implements it; tests substitute fakes.
type Lifecycle interface {
	Exists(ctx context.Context, name string) (bool, error)
	Recreate(ctx context.Context, name string) error
	Drop(ctx context.Context, name string) error
	TableCount(ctx context.Context, name string) (int, error)
	SizeBytes(ctx context.Context, name string) (int64, error)
}

// Item is one input dump file to process, with an optional restore target.
type Item struct {
	Path          string
	RestoreTarget string
}

// Orchestrator drives a batch of dump files through the slimming pipeline.
// Items are processed strictly sequentially: all items share one MySQL
// server, and ephemeral workspace names could otherwise collide.
type Orchestrator struct {
	cfg        *config.Config
	client     mysqlexec.Client
	workspaces Lifecycle
	composer   *dump.Composer
	exclusions *dump.ExclusionSet
	sink       progress.Sink
	logger     *logger.Logger
}

// New creates an Orchestrator. The exclusion set must already be loaded; a
// nil sink discards progress events.
func New(cfg *config.Config, client mysqlexec.Client, workspaces Lifecycle, exclusions *dump.ExclusionSet, sink progress.Sink, log *logger.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if workspaces == nil {
		return nil, fmt.Errorf("workspace manager is nil")
	}
	if exclusions == nil {
		exclusions = dump.NewExclusionSet()
	}
	if sink == nil {
		sink = progress.Discard
	}
	if log == nil {
		log = logger.NewDefault()
	}

	composer, err := dump.NewComposer(client, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create composer: %w", err)
	}

	return &Orchestrator{
		cfg:        cfg,
		client:     client,
		workspaces: workspaces,
		composer:   composer,
		exclusions: exclusions,
		sink:       sink,
		logger:     log,
	}, nil
}

// Run processes every item in order and returns the full ordered result set.
// A per-item failure is recorded and the batch continues; Run itself only
// fails when it cannot iterate at all. Cancellation is honored between
// items, never inside one.
func (o *Orchestrator) Run(ctx context.Context, items []Item) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no input dump files given")
	}

	result := &BatchResult{StartedAt: time.Now()}

	o.logger.Infow("Starting batch",
		"items", len(items),
		"excluded_tables", o.exclusions.Len(),
		"output_dir", o.cfg.Output.Dir,
	)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("batch interrupted before item %d: %w", i+1, err)
		}

		// The cancellable context gates the loop only. The item itself runs
		// under a detached context so an in-flight import or export is never
		// killed mid-stream; it finishes or fails on its own terms.
		res := o.processItem(context.WithoutCancel(ctx), i, len(items), item)
		result.Items = append(result.Items, res)
		if res.Success {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	last := len(items) - 1
	o.sink.Publish(progress.Event{
		ItemIndex: last,
		ItemCount: len(items),
		ItemName:  result.Items[last].Name,
		Phase:     PhaseComplete,
		Percent:   100,
	})

	result.CompletedAt = time.Now()
	result.Duration = result.CompletedAt.Sub(result.StartedAt)

	o.logger.Infow("Batch completed",
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"duration", result.Duration,
	)

	return result, nil
}

// processItem runs the per-item sequence. Any error is caught at this
// boundary and converted into a failure result; a workspace created along
// the way is dropped before the result is returned, on success and failure
// alike, without masking the primary error.
func (o *Orchestrator) processItem(ctx context.Context, index, count int, item Item) ItemResult {
	name := dump.BaseName(item.Path)
	log := o.logger.WithItem(name)
	reporter := progress.NewReporter(o.sink, index, count, name)

	res := ItemResult{Name: name, Path: item.Path}
	state := stateInit

	fail := func(err error) ItemResult {
		state = stateFailed
		log.Errorw("Item failed", "state", state.String(), "error", err)
		res.Success = false
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		return res
	}

	file, err := dump.NewFile(item.Path)
	if err != nil {
		return fail(err)
	}
	res.OriginalBytes = file.SizeBytes

	workspaceName := workspace.NameFor(item.Path, o.cfg.Output.WorkspaceSuffix)
	outputPath := filepath.Join(o.cfg.Output.Dir, file.Name+o.cfg.Output.Suffix)

	// Workspace cleanup runs unconditionally once the workspace exists.
	// Secondary cleanup errors are logged and swallowed so they never hide
	// the primary failure.
	workspaceLive := false
	defer func() {
		if !workspaceLive {
			return
		}
		if err := o.workspaces.Drop(context.WithoutCancel(ctx), workspaceName); err != nil {
			log.Warnw("Failed to drop workspace during cleanup",
				"workspace", workspaceName, "error", err)
		}
	}()

	log.Infow("Processing dump file",
		"path", item.Path,
		"size_bytes", file.SizeBytes,
		"workspace", workspaceName,
	)

	if err := o.workspaces.Recreate(ctx, workspaceName); err != nil {
		return fail(fmt.Errorf("failed to prepare workspace: %w", err))
	}
	workspaceLive = true
	state = stateWorkspaceReady

	if err := o.importDump(ctx, workspaceName, file, reporter); err != nil {
		return fail(err)
	}
	state = stateImported
	log.Debugw("Import complete", "state", state.String())

	exportCounter := reporter.NewCounter(PhaseExport, file.SizeBytes, progress.UnknownTotalMax)
	if err := o.composer.Compose(ctx, workspaceName, o.exclusions, outputPath, exportCounter.Bytes); err != nil {
		return fail(err)
	}
	exportCounter.Done()
	state = stateComposed

	reporter.Emit(PhaseCleanup, 0)
	if err := o.workspaces.Drop(ctx, workspaceName); err != nil {
		return fail(fmt.Errorf("failed to drop workspace: %w", err))
	}
	workspaceLive = false
	reporter.Emit(PhaseCleanup, 100)
	state = stateCleaned

	slimInfo, err := os.Stat(outputPath)
	if err != nil {
		return fail(fmt.Errorf("failed to stat slim dump: %w", err))
	}

	res.Success = true
	res.Outcome = OutcomeDumped
	res.SlimBytes = slimInfo.Size()
	res.SavingsPercent = SavingsPercent(res.OriginalBytes, res.SlimBytes)
	res.OutputPath = outputPath

	if item.RestoreTarget != "" {
		state = stateRestoring
		summary, err := o.restore(ctx, item.RestoreTarget, outputPath, reporter)
		if err != nil {
			// The slim dump exists and is usable; record the restore
			// failure without demoting the item.
			log.Errorw("Restore failed after successful dump",
				"target", item.RestoreTarget, "error", err)
			res.RestoreError = err.Error()
		} else {
			state = stateRestored
			res.Outcome = OutcomeRestored
			res.Restore = summary
		}
	}

	state = stateDone
	log.Infow("Item complete",
		"state", state.String(),
		"outcome", res.Outcome.String(),
		"original_bytes", res.OriginalBytes,
		"slim_bytes", res.SlimBytes,
		"savings_percent", res.SavingsPercent,
	)
	return res
}

// importDump streams the input file into the named database, reporting
// progress against the known source size.
func (o *Orchestrator) importDump(ctx context.Context, database string, file dump.File, reporter *progress.Reporter) error {
	f, err := os.Open(file.Path)
	if err != nil {
		return fmt.Errorf("failed to open dump file: %w", err)
	}
	defer f.Close()

	counter := reporter.NewCounter(PhaseImport, file.SizeBytes, 100)
	if err := o.client.Import(ctx, database, f, counter.Bytes); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	counter.Done()
	return nil
}

// restore recreates the target database, streams the slim dump into it, and
// queries the target's table count and size for the result record.
func (o *Orchestrator) restore(ctx context.Context, target, slimPath string, reporter *progress.Reporter) (*RestoreSummary, error) {
	phase := RestorePhase(target)

	slim, err := dump.NewFile(slimPath)
	if err != nil {
		return nil, err
	}

	if err := o.workspaces.Recreate(ctx, target); err != nil {
		return nil, fmt.Errorf("failed to prepare target database: %w", err)
	}

	f, err := os.Open(slimPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open slim dump: %w", err)
	}
	defer f.Close()

	counter := reporter.NewCounter(phase, slim.SizeBytes, 100)
	if err := o.client.Import(ctx, target, f, counter.Bytes); err != nil {
		return nil, fmt.Errorf("restore import failed: %w", err)
	}
	counter.Done()

	tables, err := o.workspaces.TableCount(ctx, target)
	if err != nil {
		return nil, err
	}
	size, err := o.workspaces.SizeBytes(ctx, target)
	if err != nil {
		return nil, err
	}

	return &RestoreSummary{
		Database:  target,
		Tables:    tables,
		SizeBytes: size,
	}, nil
}
