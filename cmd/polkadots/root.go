package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lf-/polkadots/pkg/config"
	"github.com/lf-/polkadots/pkg/engine"
	"github.com/lf-/polkadots/pkg/logging"
	"github.com/lf-/polkadots/pkg/paths"
)

// Set via ldflags at release time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	verbosity  int
	configPath string
	profile    string
	config2    bool
	dryRun     bool
	force      bool

	rootCmd = &cobra.Command{
		Use:   "polkadots",
		Short: "Yet another dotfile manager",
		Long: `polkadots reads a declarative configuration describing symlink, copy,
mkdir, and cat actions and applies them to your system. Runs are idempotent:
links that already point at the right place are left alone, and anything
else occupying a destination is reported as a conflict rather than clobbered.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config to use rather than the default. With -2, a directory")
	rootCmd.Flags().StringVarP(&profile, "profile", "p", "", "Load the named profile from the profiles directory")
	rootCmd.Flags().BoolVarP(&config2, "config2", "2", false, "Use the new directory-based config format")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Don't execute any actions, only report what would happen")
	rootCmd.Flags().BoolVar(&force, "force", false, "Replace destination symlinks that point somewhere else")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genconfigCmd)
}

// runSync loads the configuration and runs the action engine over it
func runSync(cmd *cobra.Command) error {
	logger := logging.GetLogger("cmd.sync")

	path := configPath
	if path == "" {
		path = paths.ConfigPath(paths.ConfigDir(), profile, config2)
	}

	logger.Info().
		Str("config", path).
		Bool("config2", config2).
		Bool("dryRun", dryRun).
		Bool("force", force).
		Msg("Starting sync")

	var (
		cfg *config.Config
		err error
	)
	if config2 {
		cfg, err = config.LoadDir(path)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return err
	}

	eng := engine.New(engine.Options{
		RepoRoot:  cfg.DotfileRepo,
		DryRun:    dryRun,
		Overwrite: force,
		Logger:    logging.GetLogger("engine"),
	})
	report := eng.Run(cfg.Actions)

	renderReport(cmd.OutOrStdout(), report)

	if report.Failed() {
		failed := 0
		for _, res := range report.Results {
			if !res.Succeeded() {
				failed++
			}
		}
		return fmt.Errorf("%d of %d requests failed", failed, len(report.Results))
	}

	logger.Info().Int("requests", len(report.Results)).Msg("Sync finished")
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "polkadots version %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", date)
	},
}

var genconfigRepo string

var genconfigCmd = &cobra.Command{
	Use:   "genconfig [dir]",
	Short: "Write a starter config directory",
	Long: `Write a starter new-style config directory: a dotfile_repo file naming
your dotfile repository and a config.toml with one example of each action.
Existing files are never overwritten.

Without an argument the config is written to the default location
(~/.config/polkadots).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := paths.ConfigDir()
		if len(args) == 1 {
			dir = args[0]
		}

		written, err := config.WriteStarter(dir, genconfigRepo)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		}
		if len(written) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "nothing to do, config files already exist")
		}
		return nil
	},
}

func init() {
	genconfigCmd.Flags().StringVar(&genconfigRepo, "repo", "~/dotfiles", "Dotfile repository path to write into dotfile_repo")
}
