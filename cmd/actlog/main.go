// Command actlog reads ACT network logs: it decodes events, indexes zones
// and encounters, extracts encounter windows and converts them to timelines.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/actlog/actlog-go/internal/config"
	"github.com/actlog/actlog-go/pkg/actlog/profile"
)

var (
	// global flags
	configPath  string
	profilePath string
	logDir      string
	noCache     bool
	quiet       bool
	verbose     bool

	// loaded in PersistentPreRunE
	cfg  config.Config
	prof *profile.Profile
)

// logger discards output unless --verbose is set.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var rootCmd = &cobra.Command{
	Use:   "actlog",
	Short: "Inspect ACT network logs",
	Long: `actlog decodes ACT network logs (Network_*.log).

When no file is given, the newest log in the ACT log directory is used.
The directory is taken from --log-dir, the ACTLOG_LOGDIR environment
variable, general.log_dir in the config file, or the default ACT location.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/actlog/config.toml)")
	pf.StringVar(&profilePath, "profile", "", "Heuristics profile (YAML)")
	pf.StringVarP(&logDir, "log-dir", "d", "", "ACT log directory (auto-detected if not specified)")
	pf.BoolVar(&noCache, "no-cache", false, "Skip the SQLite index cache")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Log diagnostics to stderr")
}

func setup(cmd *cobra.Command, _ []string) error {
	if verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	path := profilePath
	if path == "" {
		path = cfg.General.Profile
	}
	if path != "" {
		prof, err = profile.Load(path)
		if err != nil {
			return fmt.Errorf("profile: %w", err)
		}
		logger.Debug("profile loaded", "pet_names", len(prof.PetNames), "color_rules", len(prof.StatusColors))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
