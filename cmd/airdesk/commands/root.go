// Package commands implements the Airdesk CLI commands.
package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:   "airdesk",
	Short: "Airdesk - Air India customer support chatbot",
	Long: `Airdesk answers flight search queries, baggage and airline policy
questions, and general chat for Air India customers. Run "airdesk chat"
for an interactive session or "airdesk index" to build the policy
knowledge index.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
