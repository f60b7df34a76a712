package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lf-/polkadots/pkg/actions"
	"github.com/lf-/polkadots/pkg/errors"
	"github.com/lf-/polkadots/pkg/testutil"
	"github.com/lf-/polkadots/pkg/types"
)

func TestCopySingleFile(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "etc/gitconfig", "[core]")

	dest := filepath.Join(home, ".gitconfig")
	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CopyAction{Source: "etc/gitconfig", Destination: dest},
	})

	require.False(t, report.Failed())
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "[core]", string(content))
	assert.False(t, testutil.IsSymlink(t, dest), "copy must produce a regular file")
}

func TestCopyIntoDirectoryUsesBasename(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "scripts/backup.sh", "#!/bin/sh")
	bin := testutil.CreateDir(t, home, "bin")

	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CopyAction{Source: "scripts/backup.sh", Destination: bin},
	})

	require.False(t, report.Failed())
	assert.Equal(t, filepath.Join(bin, "backup.sh"), report.Results[0].Destination)
	assert.True(t, testutil.Exists(t, filepath.Join(bin, "backup.sh")))
}

func TestCopySkipsExistingWithoutOverwrite(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "profile", "new")
	dest := testutil.CreateFile(t, home, ".profile", "old")

	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CopyAction{Source: "profile", Destination: dest},
	})

	// A skip is not a failure, matching how overwrite=false always behaved
	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeSkipped, report.Results[0].Outcome)
	assert.False(t, report.Failed())

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old", string(content))
}

func TestCopyOverwrite(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "profile", "new")
	dest := testutil.CreateFile(t, home, ".profile", "old")

	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CopyAction{Source: "profile", Destination: dest, Overwrite: true},
	})

	require.False(t, report.Failed())
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestCopyDirMode(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "bin/one", "1")
	testutil.CreateFile(t, repo, "bin/two", "2")
	dest := testutil.CreateDir(t, home, "bin")

	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CopyAction{Source: "bin", Destination: dest, DirMode: true},
	})

	require.Len(t, report.Results, 2)
	require.False(t, report.Failed())
	assert.True(t, testutil.Exists(t, filepath.Join(dest, "one")))
	assert.True(t, testutil.Exists(t, filepath.Join(dest, "two")))
}

func TestCopyMissingSource(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()

	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CopyAction{Source: "nope", Destination: filepath.Join(home, "nope")},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeError, report.Results[0].Outcome)
	assert.True(t, errors.IsErrorCode(report.Results[0].Err, errors.ErrSourceNotFound))
}

func TestMkdir(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()

	dir := filepath.Join(home, ".local", "share", "app")
	report := newEngine(t, repo).Run([]actions.Action{
		&actions.MkdirAction{Directory: dir, Parents: true},
	})

	require.False(t, report.Failed())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Second run is a no-op
	report = newEngine(t, repo).Run([]actions.Action{
		&actions.MkdirAction{Directory: dir, Parents: true},
	})
	assert.Equal(t, types.OutcomeAlreadyCorrect, report.Results[0].Outcome)
}

func TestMkdirNoParents(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()

	dir := filepath.Join(home, "missing", "leaf")
	report := newEngine(t, repo).Run([]actions.Action{
		&actions.MkdirAction{Directory: dir, Parents: false},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeError, report.Results[0].Outcome)
	assert.True(t, errors.IsErrorCode(report.Results[0].Err, errors.ErrMissingParent))
}

func TestMkdirConflictWithFile(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	occupied := testutil.CreateFile(t, home, "target", "file")

	report := newEngine(t, repo).Run([]actions.Action{
		&actions.MkdirAction{Directory: occupied, Parents: true},
	})

	assert.Equal(t, types.OutcomeConflict, report.Results[0].Outcome)
	assert.True(t, errors.IsErrorCode(report.Results[0].Err, errors.ErrConflict))
}

func TestCatConcatenatesInOrder(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "ssh/base", "Host *\n")
	testutil.CreateFile(t, repo, "ssh/work", "Host work\n")

	dest := filepath.Join(home, "config")
	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CatAction{Sources: []string{"ssh/base", "ssh/work"}, Destination: dest},
	})

	require.False(t, report.Failed())
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Host *\nHost work\n", string(content))
}

func TestCatOverwritesDestination(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "part", "fresh")
	dest := testutil.CreateFile(t, home, "out", "stale")

	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CatAction{Sources: []string{"part"}, Destination: dest},
	})

	require.False(t, report.Failed())
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(content))
}

func TestCatMissingSource(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "first", "1")

	dest := filepath.Join(home, "out")
	report := newEngine(t, repo).Run([]actions.Action{
		&actions.CatAction{Sources: []string{"first", "second"}, Destination: dest},
	})

	require.Len(t, report.Results, 1)
	assert.Equal(t, types.OutcomeError, report.Results[0].Outcome)
	assert.True(t, errors.IsErrorCode(report.Results[0].Err, errors.ErrSourceNotFound))
	assert.False(t, testutil.Exists(t, dest), "missing source must leave the destination alone")
}

func TestReportShape(t *testing.T) {
	repo := t.TempDir()
	home := t.TempDir()
	testutil.CreateFile(t, repo, "vimrc", "x")

	dest := filepath.Join(home, ".vimrc")
	report := newEngine(t, repo).Run([]actions.Action{
		&actions.SymlinkAction{Source: "vimrc", Destination: dest},
	})

	want := []types.RequestResult{
		{
			Action:      "link vimrc to " + dest,
			Source:      filepath.Join(repo, "vimrc"),
			Destination: dest,
			Outcome:     types.OutcomeCreated,
			Message:     "Created symlink",
		},
	}

	if diff := cmp.Diff(want, report.Results); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}
