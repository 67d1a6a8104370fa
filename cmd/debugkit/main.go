package main

import (
	"fmt"
	"os"

	"debugkit/internal/config"
	"debugkit/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "debugkit",
	Short: "debugkit - small debugging exercises and the services around them",
	Long: `debugkit bundles the classic debugging exercises (array sum, division,
email validation, a concurrent data processing service) together with the
validators, rate limiter and user service they are practised against.

Every exercise runs with hard-coded sample inputs unless the config file
overrides them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := logging.Initialize(loaded.Logging); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg = loaded
		logger = logging.Get(logging.CategoryBoot)
		logger.Debug("config loaded", zap.String("path", configPath), zap.String("version", cfg.Version))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "debugkit.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(sumCmd)
	rootCmd.AddCommand(divideCmd)
	rootCmd.AddCommand(validateEmailCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(shippingCmd)
	rootCmd.AddCommand(checkEmailCmd)
	rootCmd.AddCommand(rateLimitDemoCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(validateProfileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
