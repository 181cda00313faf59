package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"metacat/internal/service"
)

func newLineageCmd(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Extract and inspect lineage",
	}
	cmd.AddCommand(newLineageSQLCmd(dbPath))
	cmd.AddCommand(newLineageInferCmd(dbPath))
	return cmd
}

func newLineageSQLCmd(dbPath *string) *cobra.Command {
	var (
		file         string
		dialect      string
		connectorID  string
		sourceSystem string
		jobID        string
		jobName      string
	)

	cmd := &cobra.Command{
		Use:   "sql [statement]",
		Short: "Extract lineage from a SQL statement",
		Long:  "Extract lineage from a SQL statement given as an argument, via --file, or on stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sqlText, err := readSQL(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := loadConfig(*dbPath)
			if err != nil {
				return err
			}
			a, cleanup, err := openApp(cfg, quietLogger())
			if err != nil {
				return err
			}
			defer cleanup()

			result, err := a.Lineage.ExtractFromSQL(cmd.Context(), service.SQLLineageRequest{
				SQL:          sqlText,
				Dialect:      dialect,
				ConnectorID:  connectorID,
				SourceSystem: sourceSystem,
				JobID:        jobID,
				JobName:      jobName,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the SQL statement from a file")
	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect hint")
	cmd.Flags().StringVar(&connectorID, "connector", "", "Connector scope for table-to-asset resolution")
	cmd.Flags().StringVar(&sourceSystem, "source-system", "", "System that produced the statement")
	cmd.Flags().StringVar(&jobID, "job-id", "", "Job ID for relationship provenance")
	cmd.Flags().StringVar(&jobName, "job-name", "", "Job name for relationship provenance")
	return cmd
}

func newLineageInferCmd(dbPath *string) *cobra.Command {
	var minMatchRatio float64

	cmd := &cobra.Command{
		Use:   "infer <source-asset-id> <target-asset-id>",
		Short: "Infer column lineage between two assets from their schemas",
		Args:  cobra.ExactArgs(2),
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

			rel, err := a.Lineage.InferBetweenAssets(cmd.Context(), args[0], args[1], minMatchRatio)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rel)
		},
	}
	cmd.Flags().Float64Var(&minMatchRatio, "min-match-ratio", 0, "Minimum fraction of source columns that must match (default 0.3)")
	return cmd
}

func readSQL(args []string, file string, stdin io.Reader) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read sql file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("no SQL given: pass a statement, --file, or stdin")
		}
		return string(data), nil
	}
}
