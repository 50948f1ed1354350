package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tair/pharmadistrib/internal/app"
	"github.com/tair/pharmadistrib/internal/config"
	"github.com/tair/pharmadistrib/internal/store"
	"github.com/tair/pharmadistrib/pkg/logger"
)

func snapshotCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Export or import the persisted store",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "export [file]",
			Short: "Write the store snapshot as JSON to file or stdout",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(flags)
				if err != nil {
					return err
				}
				return withStore(cmd.Context(), cfg, func(s *store.Store) error {
					data, err := store.Encode(s.State())
					if err != nil {
						return err
					}
					if len(args) == 0 {
						_, err = cmd.OutOrStdout().Write(append(data, '\n'))
						return err
					}
					return os.WriteFile(args[0], data, 0o644)
				})
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Replace the store with a JSON snapshot (use - for stdin)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(flags)
				if err != nil {
					return err
				}
				data, err := readInput(cmd.InOrStdin(), args[0])
				if err != nil {
					return err
				}
				state, err := store.Decode(data)
				if err != nil {
					return fmt.Errorf("invalid snapshot: %w", err)
				}
				return withStore(cmd.Context(), cfg, func(s *store.Store) error {
					if err := s.Execute(cmd.Context(), &store.ReplaceState{State: state}); err != nil {
						return err
					}
					logger.Logger.Info().
						Int("products", len(state.Products)).
						Int("orders", len(state.Orders)).
						Int("users", len(state.Users)).
						Msg("Snapshot imported")
					return nil
				})
			},
		},
	)

	return cmd
}

// withStore opens the configured store without any of the serving components
func withStore(ctx context.Context, cfg *config.Config, fn func(*store.Store) error) error {
	slot, cleanup, err := app.ProvideSlot(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := app.ProvideStore(ctx, cfg, slot, store.NewMetrics(prometheus.NewRegistry()))
	if err != nil {
		return err
	}
	return fn(s)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
