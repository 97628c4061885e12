package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agro/config"
	"agro/pkg/logging"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "agro",
		Short:         "Rural producer registry",
		Long:          "agro keeps rural producers, their farms and crops, and serves the registry over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "yaml config file (default ./agro.yaml when present)")

	load := func() (config.AppConfig, *zap.Logger, error) {
		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return config.AppConfig{}, nil, err
		}
		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return config.AppConfig{}, nil, err
		}
		return cfg, log, nil
	}

	root.AddCommand(newServeCommand(load))
	root.AddCommand(newMigrateCommand(load))
	root.AddCommand(newSeedCommand(load))
	root.AddCommand(newTaxIDCommand())
	root.AddCommand(newVersionCommand())
	return root
}

type loader func() (config.AppConfig, *zap.Logger, error)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "agro "+Version)
		},
	}
}
