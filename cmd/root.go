package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentic-research/sdfpack/internal/config"
	"github.com/agentic-research/sdfpack/internal/logging"
	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// hostFS is the filesystem every command reads scenes from and writes packages to.
// Paths handed to it are absolute.
var hostFS billy.Filesystem = osfs.New("/")

var (
	configPath string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to an sdfpack.toml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

var rootCmd = &cobra.Command{
	Use:           "sdfpack",
	Short:         "sdfpack: export scene collections as Gazebo model packages",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadConfig returns the config file named by --config, or the defaults.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	path, err := filepath.Abs(configPath)
	if err != nil {
		return nil, err
	}
	return config.Load(hostFS, path)
}

// newLogger builds the run logger on stderr. Every line carries a run ID so
// interleaved watch runs can be told apart.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*log.Logger, error) {
	l, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return l.With("run", uuid.NewString()), nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
