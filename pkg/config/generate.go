package config

import (
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/lf-/polkadots/pkg/actions"
	"github.com/lf-/polkadots/pkg/errors"
	"github.com/lf-/polkadots/pkg/logging"
	"github.com/lf-/polkadots/pkg/paths"
)

// Starter returns the contents of a starter config.toml with one example
// of each action kind.
func Starter() ([]byte, error) {
	sample := fileConfig{
		Actions: []actions.Descriptor{
			{
				Type:        actions.KindSymlink,
				Source:      "vim/vimrc",
				Destination: "~/.vimrc",
			},
			{
				Type:        actions.KindSymlink,
				Source:      "config",
				Destination: "~/.config",
				DirMode:     true,
			},
			{
				Type:      actions.KindMkdir,
				Directory: "~/.local/share/polkadots",
			},
			{
				Type:        actions.KindCat,
				Sources:     []string{"ssh/config.base", "ssh/config.local"},
				Destination: "~/.ssh/config",
			},
		},
	}

	out, err := toml.Marshal(sample)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal starter config")
	}
	return out, nil
}

// WriteStarter lays out a new-style config directory at dir: a dotfile_repo
// file pointing at repo and a starter config.toml. Existing files are never
// overwritten.
func WriteStarter(dir, repo string) ([]string, error) {
	logger := logging.GetLogger("config.generate")

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create config directory %s", dir)
	}

	starter, err := Starter()
	if err != nil {
		return nil, err
	}

	var written []string
	files := []struct {
		name    string
		content []byte
	}{
		{paths.RepoFileName, []byte(repo + "\n")},
		{"config.toml", starter},
	}

	for _, f := range files {
		target := filepath.Join(dir, f.name)
		if _, err := os.Stat(target); err == nil {
			logger.Warn().Str("path", target).Msg("File already exists, skipping")
			continue
		}

		// Atomic write so a half-written config is never observed
		if err := renameio.WriteFile(target, f.content, 0644); err != nil {
			return written, errors.Wrapf(err, errors.ErrFileWrite,
				"failed to write %s", target)
		}
		written = append(written, target)
		logger.Info().Str("path", target).Msg("Wrote config file")
	}

	return written, nil
}
