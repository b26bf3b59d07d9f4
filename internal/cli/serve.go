package cli

import (
	"github.com/spf13/cobra"
	"github.com/sukhrobfullstackdev/magic-dashboard-sub000/internal/app"
)

func newServeCmd() *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the timeline, detail and stats API and run the stats refresher",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrateFirst {
				if err := app.RunMigrations(migrateUp); err != nil {
					return err
				}
			}

			app.RunServer()
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "Apply pending schema migrations before serving")

	return cmd
}
