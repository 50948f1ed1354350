// Package main provides the pharmadistrib binary: the REST/gRPC server and
// maintenance commands over the persisted store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tair/pharmadistrib/internal/config"
	"github.com/tair/pharmadistrib/pkg/logger"
)

const (
	Version = "1.0.0"
	appName = "pharmadistrib"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Pharmaceutical distribution platform",
		Long: `PharmaDistrib serves the catalogue, cart, orders, logistics, quality,
compliance and finance API over a single persisted store.

Configuration is layered: defaults, then the --config YAML file, then
environment variables.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		serveCmd(flags),
		snapshotCmd(flags),
		exportCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

// loadConfig resolves the configuration and initializes logging from it
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.logLevel != "" {
		cfg.Service.LogLevel = flags.logLevel
	}

	logger.Init(cfg.Service.Name, cfg.Service.IsDevelopment())
	logger.SetLevel(cfg.Service.LogLevel)
	return cfg, nil
}
