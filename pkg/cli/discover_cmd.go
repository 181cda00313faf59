package cli

import (
	"github.com/spf13/cobra"
)

func newDiscoverCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "discover <connection-id>",
		Short: "Run discovery for a connection and print the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*dbPath)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cfg, quietLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := a.Discovery.RunDiscovery(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
}
