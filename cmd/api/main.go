package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/goaltracker/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "goaltracker",
		Short: "GoalTracker API Server",
		Long:  `GoalTracker is a personal goal and daily task tracking service with point scoring, streaks and AI-assisted task generation.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
