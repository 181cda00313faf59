package cli

import (
	"github.com/spf13/cobra"

	"metacat/internal/storagepath"
)

func newPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Work with storage paths",
	}
	cmd.AddCommand(newPathParseCmd())
	return cmd
}

func newPathParseCmd() *cobra.Command {
	var (
		account   string
		container string
	)

	cmd := &cobra.Command{
		Use:   "parse <raw-path>",
		Short: "Normalize a raw storage path into its canonical location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := storagepath.Normalize(args[0], storagepath.Hints{
				Account:   account,
				Container: container,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"kind":      location.Kind,
				"account":   location.Account,
				"container": location.Container,
				"path":      location.Path,
				"protocol":  location.Protocol,
				"method":    location.Method,
				"canonical": location.String(),
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "Account hint for bare container/path inputs")
	cmd.Flags().StringVar(&container, "container", "", "Container hint for bare container/path inputs")
	return cmd
}
