package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Login activity dashboard service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFiles(envFiles)
		},
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Extra env files loaded before .env (variables already set win)")
	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())

	return root
}

// loadEnvFiles exports files into the process environment without overriding
// variables that are already set.
func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
