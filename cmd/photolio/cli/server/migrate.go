package server

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwantia/photolio/pkg/db/migrations"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending metadata store migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Migrate(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		},
	}

	cmd.AddCommand(newMigrateRollbackCommand())
	cmd.AddCommand(newMigrateStatusCommand())

	return cmd
}

func newMigrateRollbackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rollback",
		Short: "Roll back the last applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := migrations.NewMigrator(st.DB()).Rollback(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Rolled back last migration")
			return nil
		},
	}
}

func newMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			statuses, err := migrations.NewMigrator(st.DB()).Status(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tAPPLIED\tDESCRIPTION")
			for _, s := range statuses {
				fmt.Fprintf(w, "%d\t%t\t%s\n", s.Version, s.Applied, s.Description)
			}
			return w.Flush()
		},
	}
}
