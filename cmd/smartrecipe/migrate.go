package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/chrisjnielson44/Group-20-SmartRecipeApp/pkg/flags"
)

func NewMigrateCommand() *cobra.Command {
	f := flags.NewPostgresDatabaseFlags()

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates or initializes the PostgreSQL database to the latest schema.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbc, err := f.GetDBClient()
			if err != nil {
				return errors.WithMessage(err, "could not connect to db")
			}
			defer dbc.Close()

			if err := dbc.UpdateSchema(); err != nil {
				return errors.WithMessage(err, "could not migrate db")
			}

			return nil
		},
	}

	f.BindFlags(cmd.Flags())

	return cmd
}
