package cli

import (
	"github.com/spf13/cobra"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/app"
)

const (
	migrateUp   = "up"
	migrateDown = "down"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the auth_events and app_mail_settings schema",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{migrateUp, migrateDown},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RunMigrations(migrateAction(args))
		},
	}
}

func migrateAction(args []string) string {
	if len(args) == 0 {
		return migrateUp
	}
	return args[0]
}
