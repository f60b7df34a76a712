// Package engine executes configured actions against the filesystem.
//
// Actions run strictly in list order. A failing request never aborts the
// run: every outcome is recorded in the ExecutionReport and the caller
// decides the exit code from it. Re-running the engine over an unchanged
// configuration is idempotent.
package engine

import (
	"github.com/rs/zerolog"

	"github.com/lf-/polkadots/pkg/actions"
	"github.com/lf-/polkadots/pkg/errors"
	"github.com/lf-/polkadots/pkg/filesystem"
	"github.com/lf-/polkadots/pkg/logging"
	"github.com/lf-/polkadots/pkg/types"
)

// Options contains configuration for the engine
type Options struct {
	// RepoRoot is the dotfile repository all relative sources resolve under
	RepoRoot string

	// DryRun reports what would happen without touching the filesystem
	DryRun bool

	// Overwrite allows replacing a destination symlink that points
	// somewhere else. Regular files and directories are never replaced.
	Overwrite bool

	Logger zerolog.Logger

	// FS defaults to the OS filesystem
	FS types.FS
}

// Engine applies actions to the filesystem and records outcomes
type Engine struct {
	repoRoot  string
	dryRun    bool
	overwrite bool
	logger    zerolog.Logger
	fs        types.FS
}

// New creates an engine instance
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = logging.GetLogger("engine")
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	return &Engine{
		repoRoot:  opts.RepoRoot,
		dryRun:    opts.DryRun,
		overwrite: opts.Overwrite,
		logger:    logger,
		fs:        fs,
	}
}

// Run executes all actions in order and returns the aggregated report
func (e *Engine) Run(list []actions.Action) *types.ExecutionReport {
	report := &types.ExecutionReport{DryRun: e.dryRun}

	for _, action := range list {
		e.logger.Debug().
			Str("kind", action.Kind()).
			Str("action", action.Describe()).
			Bool("dry_run", e.dryRun).
			Msg("Executing action")

		e.execute(action, report)
	}

	return report
}

// execute dispatches over the closed action variant set
func (e *Engine) execute(action actions.Action, report *types.ExecutionReport) {
	switch a := action.(type) {
	case *actions.SymlinkAction:
		e.executeSymlink(a, report)
	case *actions.CopyAction:
		e.executeCopy(a, report)
	case *actions.MkdirAction:
		e.executeMkdir(a, report)
	case *actions.CatAction:
		e.executeCat(a, report)
	default:
		e.record(report, types.RequestResult{
			Action:  action.Describe(),
			Outcome: types.OutcomeError,
			Err: errors.Newf(errors.ErrActionInvalid,
				"unhandled action kind %s", action.Kind()),
		})
	}
}

// record adds a result to the report and logs it at a level matching the
// outcome
func (e *Engine) record(report *types.ExecutionReport, result types.RequestResult) {
	report.Add(result)

	event := e.logger.Info()
	switch result.Outcome {
	case types.OutcomeError:
		event = e.logger.Error().Err(result.Err)
	case types.OutcomeConflict:
		event = e.logger.Warn().Err(result.Err)
	case types.OutcomeSkipped:
		event = e.logger.Warn()
	}

	msg := result.Message
	if msg == "" {
		msg = "Request " + string(result.Outcome)
	}

	event.
		Str("source", result.Source).
		Str("destination", result.Destination).
		Str("outcome", string(result.Outcome)).
		Str("action", result.Action).
		Msg(msg)
}
