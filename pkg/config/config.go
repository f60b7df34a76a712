// Package config loads polkadots configuration.
//
// Two layouts are supported:
//
//   - a legacy single file (config.json, or .toml/.yaml) with a
//     dotfile_repo field and an actions list
//   - a new-style directory (--config2) containing a dotfile_repo file
//     naming the repository root and a config.toml/.yaml/.json with the
//     actions list
//
// The old executable config format is gone on purpose: configuration is
// declarative data, parsed with koanf, never run.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lf-/polkadots/pkg/actions"
	"github.com/lf-/polkadots/pkg/errors"
	"github.com/lf-/polkadots/pkg/logging"
	"github.com/lf-/polkadots/pkg/paths"
)

// Config is a fully loaded and validated configuration
type Config struct {
	// DotfileRepo is the resolved repository root, absolute
	DotfileRepo string

	// Actions in configuration order
	Actions []actions.Action
}

// fileConfig is the raw on-disk shape
type fileConfig struct {
	DotfileRepo string               `koanf:"dotfile_repo" toml:"dotfile_repo"`
	Actions     []actions.Descriptor `koanf:"actions" toml:"actions"`
}

// Load reads a legacy single-file configuration. The parser is chosen by
// file extension (.json, .toml, .yaml/.yml).
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")
	logger.Info().Str("path", path).Msg("Loading config")

	raw, err := loadFile(path)
	if err != nil {
		return nil, err
	}

	if raw.DotfileRepo == "" {
		return nil, errors.Newf(errors.ErrConfigValid,
			"config %s does not set dotfile_repo", path)
	}

	return build(raw.DotfileRepo, raw.Actions)
}

// LoadDir reads a new-style configuration directory: a dotfile_repo file
// with the repository root on a single line, next to a config.toml (or
// .yaml/.json) holding the actions.
func LoadDir(dir string) (*Config, error) {
	logger := logging.GetLogger("config")
	logger.Info().Str("dir", dir).Msg("Loading config directory")

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"cannot read config directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrConfigLoad,
			"config path %s is not a directory", dir)
	}

	repoFile := filepath.Join(dir, paths.RepoFileName)
	repoBytes, err := os.ReadFile(repoFile)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"cannot read repository file %s", repoFile)
	}
	repo := strings.TrimRight(string(repoBytes), " \t\r\n")
	if repo == "" {
		return nil, errors.Newf(errors.ErrConfigValid,
			"repository file %s is empty", repoFile)
	}

	configPath, err := findConfigFile(dir)
	if err != nil {
		return nil, err
	}

	raw, err := loadFile(configPath)
	if err != nil {
		return nil, err
	}

	// The sibling dotfile_repo file is authoritative for this layout
	return build(repo, raw.Actions)
}

// loadFile parses one config file into its raw shape via koanf
func loadFile(path string) (*fileConfig, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad,
			"failed to load config from %s", path)
	}

	var raw fileConfig
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse,
			"failed to parse config %s", path)
	}
	return &raw, nil
}

// parserFor picks a koanf parser based on the file extension
func parserFor(path string) (koanf.Parser, error) {
	switch filepath.Ext(path) {
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigParse,
			"unsupported config format %q", filepath.Ext(path))
	}
}

// findConfigFile locates the actions file inside a config directory,
// preferring TOML
func findConfigFile(dir string) (string, error) {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml", "config.json"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.Newf(errors.ErrConfigLoad,
		"no config.toml, config.yaml, or config.json in %s", dir)
}

// build validates the raw config into a Config with decoded actions and an
// absolute repository root
func build(repo string, descriptors []actions.Descriptor) (*Config, error) {
	expanded := paths.ExpandPath(repo)
	if !filepath.IsAbs(expanded) {
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid,
				"cannot resolve dotfile repository %s", repo)
		}
		expanded = abs
	}

	decoded, err := actions.DecodeAll(descriptors)
	if err != nil {
		return nil, err
	}

	return &Config{
		DotfileRepo: expanded,
		Actions:     decoded,
	}, nil
}
