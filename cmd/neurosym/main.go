package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"neurosym/internal/config"
)

const version = "1.0.0"

var (
	// Global flags
	cfgPath string
	verbose bool

	// Loaded configuration and logger, set up in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "neurosym",
	Short: "neurosym - NeuroSymbiotic Coherence Training engine",
	Long: `neurosym scores the alignment of four biometric channels (breath, heart,
movement, neural) into a single coherence value and drives a per-session
training-phase progression from it.

The train command runs the synthetic demo loop; analyze scores a snapshot
from a YAML file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}

		logger, err = buildLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// buildLogger constructs the zap logger from config; --verbose forces
// development output at debug level.
func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if lc.Development || verbose {
		zcfg = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if lc.Level != "" {
		var err error
		level, err = zapcore.ParseLevel(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the neurosym version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "neurosym %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "neurosym.yaml", "path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
