package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "staybnb",
	Short: "Staybnb property rental web server",
	Long: `Staybnb lets hosts register, sign in and list properties with photos.

Configuration is read from the environment (see .env.example).`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
