package cli

import (
	"github.com/spf13/cobra"
)

type GlobalFlags struct {
	EnvFile  string
	LogLevel string
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:           "ai-forum-web",
	Short:         "AI Forum web front end",
	Long:          "ai-forum-web serves the AI Forum pages, their navigation bar and the toxicity check API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "log level override (default: LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(navbarCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. Without a subcommand the server is started.
func Execute() error {
	return rootCmd.Execute()
}
