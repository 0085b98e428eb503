package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "telegem",
	Short: "Telegram assistant bot backed by Gemini",
	Long: `telegem is a Telegram bot that answers chat messages with Gemini,
analyzes uploaded documents and images, and runs web searches on demand.
Registered users, conversation history and file analyses live in PostgreSQL.

Running telegem without a subcommand starts the bot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
