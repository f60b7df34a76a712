package engine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/lf-/polkadots/pkg/actions"
	"github.com/lf-/polkadots/pkg/errors"
	"github.com/lf-/polkadots/pkg/paths"
	"github.com/lf-/polkadots/pkg/types"
)

// executeSymlink expands a symlink action into link requests and applies
// the link creation protocol to each
func (e *Engine) executeSymlink(a *actions.SymlinkAction, report *types.ExecutionReport) {
	source := paths.Intuitive(a.Source, e.repoRoot)
	destination := paths.Intuitive(a.Destination, e.repoRoot)

	if !a.DirMode {
		e.link(a.Describe(), source, destination, report)
		return
	}

	children, err := e.listChildren(source)
	if err != nil {
		e.record(report, types.RequestResult{
			Action:      a.Describe(),
			Source:      source,
			Destination: destination,
			Outcome:     types.OutcomeError,
			Err:         err,
		})
		return
	}

	for _, child := range children {
		e.link(a.Describe(), filepath.Join(source, child), filepath.Join(destination, child), report)
	}
}

// listChildren returns the direct children of dir, sorted lexicographically
// so expansion order is deterministic
func (e *Engine) listChildren(dir string) ([]string, error) {
	info, err := e.fs.Lstat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrSourceNotFound,
				"source %s does not exist", dir)
		}
		return nil, errors.Wrapf(err, errors.ErrPermission,
			"cannot stat source %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrNotADirectory,
			"dir_mode source %s is not a directory", dir)
	}

	entries, err := e.fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPermission,
			"cannot list source directory %s", dir)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// link applies the link creation protocol for a single request:
//
//   - missing destination: create the symlink (create-new semantics, the
//     parent directory must already exist)
//   - destination is a symlink to the same target: already correct
//   - destination is a symlink elsewhere: conflict, unless overwrite
//   - destination is anything else: conflict, never touched
func (e *Engine) link(action, source, destination string, report *types.ExecutionReport) {
	result := types.RequestResult{
		Action:      action,
		Source:      source,
		Destination: destination,
	}

	if _, err := e.fs.Lstat(source); err != nil {
		result.Outcome = types.OutcomeError
		if os.IsNotExist(err) {
			result.Err = errors.Wrapf(err, errors.ErrSourceNotFound,
				"source %s does not exist", source)
		} else {
			result.Err = errors.Wrapf(err, errors.ErrPermission,
				"cannot stat source %s", source)
		}
		e.record(report, result)
		return
	}

	destInfo, lerr := e.fs.Lstat(destination)
	switch {
	case lerr == nil && destInfo.Mode()&fs.ModeSymlink != 0:
		e.record(report, e.linkOverExisting(result, source, destination))

	case lerr == nil:
		kind := "file"
		if destInfo.IsDir() {
			kind = "directory"
		}
		result.Outcome = types.OutcomeConflict
		result.Err = errors.Newf(errors.ErrConflict,
			"destination %s is an existing %s", destination, kind).
			WithDetail("kind", kind)
		e.record(report, result)

	case os.IsNotExist(lerr):
		e.record(report, e.linkFresh(result, source, destination))

	default:
		result.Outcome = types.OutcomeError
		result.Err = errors.Wrapf(lerr, errors.ErrPermission,
			"cannot stat destination %s", destination)
		e.record(report, result)
	}
}

// linkFresh creates a symlink at a destination that does not exist yet
func (e *Engine) linkFresh(result types.RequestResult, source, destination string) types.RequestResult {
	parent := filepath.Dir(destination)
	info, err := e.fs.Stat(parent)
	if err != nil || !info.IsDir() {
		result.Outcome = types.OutcomeError
		result.Err = errors.Newf(errors.ErrMissingParent,
			"parent directory %s does not exist", parent)
		return result
	}

	if e.dryRun {
		result.Outcome = types.OutcomeCreated
		result.Message = "Would create symlink"
		return result
	}

	// os.Symlink has create-new semantics, so a concurrent appearance of
	// the destination surfaces as EEXIST rather than being clobbered
	if err := e.fs.Symlink(source, destination); err != nil {
		switch {
		case os.IsExist(err):
			result.Outcome = types.OutcomeConflict
			result.Err = errors.Wrapf(err, errors.ErrConflict,
				"destination %s appeared during the run", destination)
		case os.IsPermission(err):
			result.Outcome = types.OutcomeError
			result.Err = errors.Wrapf(err, errors.ErrPermission,
				"cannot create symlink at %s", destination)
		default:
			result.Outcome = types.OutcomeError
			result.Err = errors.Wrapf(err, errors.ErrSymlinkCreate,
				"cannot create symlink at %s", destination)
		}
		return result
	}

	result.Outcome = types.OutcomeCreated
	result.Message = "Created symlink"
	return result
}

// linkOverExisting handles a destination that is already a symlink
func (e *Engine) linkOverExisting(result types.RequestResult, source, destination string) types.RequestResult {
	current, err := e.fs.Readlink(destination)
	if err != nil {
		result.Outcome = types.OutcomeError
		result.Err = errors.Wrapf(err, errors.ErrPermission,
			"cannot read existing link %s", destination)
		return result
	}

	if sameTarget(destination, current, source) {
		result.Outcome = types.OutcomeAlreadyCorrect
		result.Message = "Already linked"
		return result
	}

	if !e.overwrite {
		result.Outcome = types.OutcomeConflict
		result.Err = errors.Newf(errors.ErrConflict,
			"destination %s is a symlink to %s", destination, current).
			WithDetail("current_target", current)
		return result
	}

	if e.dryRun {
		result.Outcome = types.OutcomeCreated
		result.Message = "Would replace symlink to " + current
		return result
	}

	// Only links are ever removed; anything else was rejected above
	if err := e.fs.Remove(destination); err != nil {
		result.Outcome = types.OutcomeError
		result.Err = errors.Wrapf(err, errors.ErrPermission,
			"cannot remove existing link %s", destination)
		return result
	}
	if err := e.fs.Symlink(source, destination); err != nil {
		result.Outcome = types.OutcomeError
		result.Err = errors.Wrapf(err, errors.ErrSymlinkCreate,
			"cannot create symlink at %s", destination)
		return result
	}

	result.Outcome = types.OutcomeCreated
	result.Message = "Replaced symlink to " + current
	return result
}

// sameTarget reports whether an existing link at destination, currently
// pointing at target, already resolves to source. Relative link targets
// resolve against the link's own directory.
func sameTarget(destination, target, source string) bool {
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(destination), target)
	}
	return filepath.Clean(target) == filepath.Clean(source)
}
