package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agro/database"
)

func newMigrateCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Open(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", cfg.DBDriver)
			return nil
		},
	}
}

func newSeedCommand(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo producers into an empty database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.Open(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			seeded, err := database.Seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !seeded {
				color.New(color.FgYellow).Fprintln(out, "database already has producers, nothing seeded")
				return nil
			}
			color.New(color.FgGreen).Fprintf(out, "seeded %d demo producers\n", len(database.DemoProducers()))
			return nil
		},
	}
}
