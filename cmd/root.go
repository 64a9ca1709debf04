package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Nitrolaunch/nitroctl/internal/logging"
)

var (
	verbose    bool
	jsonLogs   bool
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "nitroctl",
	Short: "Nitrolaunch instance management CLI",
	Long: `nitroctl manages Minecraft instances and templates through a
running Nitrolaunch daemon.

Instances inherit configuration from templates:
  - Fields left unset fall back to the parent templates
  - When several parents set a field, the last listed one wins
  - Packages from every level are merged into one install set`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonLogs, os.Stderr)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
