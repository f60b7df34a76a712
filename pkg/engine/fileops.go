package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/lf-/polkadots/pkg/actions"
	"github.com/lf-/polkadots/pkg/errors"
	"github.com/lf-/polkadots/pkg/paths"
	"github.com/lf-/polkadots/pkg/types"
)

// executeCopy copies one file, or with DirMode every direct child of the
// source directory. Existing destination files are skipped unless the
// action allows overwriting.
func (e *Engine) executeCopy(a *actions.CopyAction, report *types.ExecutionReport) {
	source := paths.Intuitive(a.Source, e.repoRoot)
	destination := paths.Intuitive(a.Destination, e.repoRoot)

	files := []string{source}
	if a.DirMode {
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
		files = files[:0]
		for _, child := range children {
			files = append(files, filepath.Join(source, child))
		}
	}

	for _, f := range files {
		e.copyFile(a, f, destination, report)
	}
}

func (e *Engine) copyFile(a *actions.CopyAction, source, destination string, report *types.ExecutionReport) {
	result := types.RequestResult{
		Action:      a.Describe(),
		Source:      source,
		Destination: destination,
	}

	// Copying into an existing directory targets destination/basename
	if info, err := e.fs.Stat(destination); err == nil && info.IsDir() {
		result.Destination = filepath.Join(destination, filepath.Base(source))
	}

	srcInfo, err := e.fs.Lstat(source)
	if err != nil {
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
	if srcInfo.IsDir() {
		result.Outcome = types.OutcomeError
		result.Err = errors.Newf(errors.ErrFileCopy,
			"cannot copy directory %s", source)
		e.record(report, result)
		return
	}

	if _, err := e.fs.Lstat(result.Destination); err == nil && !a.Overwrite {
		result.Outcome = types.OutcomeSkipped
		result.Message = "Destination exists and overwrite is disabled"
		e.record(report, result)
		return
	}

	if e.dryRun {
		result.Outcome = types.OutcomeCreated
		result.Message = "Would copy file"
		e.record(report, result)
		return
	}

	data, err := e.fs.ReadFile(source)
	if err != nil {
		result.Outcome = types.OutcomeError
		result.Err = errors.Wrapf(err, errors.ErrFileCopy,
			"cannot read source %s", source)
		e.record(report, result)
		return
	}

	if err := e.fs.WriteFile(result.Destination, data, srcInfo.Mode().Perm()); err != nil {
		result.Outcome = types.OutcomeError
		switch {
		case os.IsNotExist(err):
			result.Err = errors.Wrapf(err, errors.ErrMissingParent,
				"parent directory of %s does not exist", result.Destination)
		case os.IsPermission(err):
			result.Err = errors.Wrapf(err, errors.ErrPermission,
				"cannot write %s", result.Destination)
		default:
			result.Err = errors.Wrapf(err, errors.ErrFileWrite,
				"cannot write %s", result.Destination)
		}
		e.record(report, result)
		return
	}

	result.Outcome = types.OutcomeCreated
	result.Message = "Copied file"
	e.record(report, result)
}

// executeMkdir creates a directory, optionally with its parents. An
// existing directory is an idempotent no-op.
func (e *Engine) executeMkdir(a *actions.MkdirAction, report *types.ExecutionReport) {
	dir := paths.Intuitive(a.Directory, e.repoRoot)
	result := types.RequestResult{
		Action:      a.Describe(),
		Destination: dir,
	}

	if info, err := e.fs.Stat(dir); err == nil {
		if info.IsDir() {
			result.Outcome = types.OutcomeAlreadyCorrect
			result.Message = "Directory exists"
		} else {
			result.Outcome = types.OutcomeConflict
			result.Err = errors.Newf(errors.ErrConflict,
				"%s exists and is not a directory", dir)
		}
		e.record(report, result)
		return
	}

	if e.dryRun {
		result.Outcome = types.OutcomeCreated
		result.Message = "Would create directory"
		e.record(report, result)
		return
	}

	mkdir := e.fs.Mkdir
	if a.Parents {
		mkdir = e.fs.MkdirAll
	}
	if err := mkdir(dir, 0755); err != nil {
		result.Outcome = types.OutcomeError
		switch {
		case os.IsNotExist(err):
			result.Err = errors.Wrapf(err, errors.ErrMissingParent,
				"parent directory of %s does not exist", dir)
		case os.IsPermission(err):
			result.Err = errors.Wrapf(err, errors.ErrPermission,
				"cannot create directory %s", dir)
		default:
			result.Err = errors.Wrapf(err, errors.ErrDirCreate,
				"cannot create directory %s", dir)
		}
		e.record(report, result)
		return
	}

	result.Outcome = types.OutcomeCreated
	result.Message = "Created directory"
	e.record(report, result)
}

// executeCat concatenates the sources in order and atomically replaces the
// destination with the result
func (e *Engine) executeCat(a *actions.CatAction, report *types.ExecutionReport) {
	destination := paths.Intuitive(a.Destination, e.repoRoot)

	sources := make([]string, 0, len(a.Sources))
	for _, s := range a.Sources {
		sources = append(sources, paths.Intuitive(s, e.repoRoot))
	}

	result := types.RequestResult{
		Action:      a.Describe(),
		Source:      strings.Join(sources, ", "),
		Destination: destination,
	}

	var buf bytes.Buffer
	for _, s := range sources {
		data, err := e.fs.ReadFile(s)
		if err != nil {
			result.Outcome = types.OutcomeError
			if os.IsNotExist(err) {
				result.Err = errors.Wrapf(err, errors.ErrSourceNotFound,
					"source %s does not exist", s)
			} else {
				result.Err = errors.Wrapf(err, errors.ErrPermission,
					"cannot read source %s", s)
			}
			e.record(report, result)
			return
		}
		buf.Write(data)
	}

	if e.dryRun {
		result.Outcome = types.OutcomeCreated
		result.Message = "Would write concatenated file"
		e.record(report, result)
		return
	}

	if err := e.fs.WriteFileAtomic(destination, buf.Bytes(), 0644); err != nil {
		result.Outcome = types.OutcomeError
		switch {
		case os.IsNotExist(err):
			result.Err = errors.Wrapf(err, errors.ErrMissingParent,
				"parent directory of %s does not exist", destination)
		case os.IsPermission(err):
			result.Err = errors.Wrapf(err, errors.ErrPermission,
				"cannot write %s", destination)
		default:
			result.Err = errors.Wrapf(err, errors.ErrFileWrite,
				"cannot write %s", destination)
		}
		e.record(report, result)
		return
	}

	result.Outcome = types.OutcomeCreated
	result.Message = "Wrote concatenated file"
	e.record(report, result)
}
