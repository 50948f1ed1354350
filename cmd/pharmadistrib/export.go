package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tair/pharmadistrib/internal/export"
	"github.com/tair/pharmadistrib/internal/store"
)

func exportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "export <entity>",
		Short:     "Print the tabular export of an entity as JSON",
		Long:      "Entities: " + strings.Join(export.Entities(), ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: export.Entities(),
		RunE: func(cmd *cobra.Command, args []string) error {
			prepare, ok := export.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown entity %q (want one of %s)", args[0], strings.Join(export.Entities(), ", "))
			}
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), cfg, func(s *store.Store) error {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(prepare(s.State(), time.Now()))
			})
		},
	}
}
