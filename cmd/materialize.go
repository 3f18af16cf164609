package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uengine-oss/robo-data-fabric/internal/sqlgen"
)

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Copy a subset of an external table into a local cache table",
	Long: `Builds and submits a materialized-table request. The SQL shown is a
preview of the statement the server will run; the request itself is sent as
structured fields. Use --dry-run to only print the preview.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("name")
		sourceDB, _ := cmd.Flags().GetString("source-db")
		sourceTable, _ := cmd.Flags().GetString("source-table")
		columns, _ := cmd.Flags().GetStringSlice("columns")
		where, _ := cmd.Flags().GetString("where")
		limit, _ := cmd.Flags().GetInt("limit")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		out := cmd.OutOrStdout()
		preview := sqlgen.BuildMaterializedSQL(target, sourceDB, sourceTable, columns, where, limit)
		fmt.Fprintln(out, preview)

		if dryRun {
			return nil
		}
		if preview == sqlgen.Placeholder {
			return fmt.Errorf("--name, --source-db and --source-table are required")
		}

		if !queries.CreateMaterializedTable(target, sourceDB, sourceTable, columns, where, limit) {
			return fmt.Errorf("%s", queries.Err())
		}
		fmt.Fprintf(out, "\nMaterialized table '%s' created.\n", target)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(materializeCmd)
	materializeCmd.Flags().String("name", "", "Target table name")
	materializeCmd.Flags().String("source-db", "", "Source database name")
	materializeCmd.Flags().String("source-table", "", "Source table name")
	materializeCmd.Flags().StringSlice("columns", nil, "Columns to copy (default: all)")
	materializeCmd.Flags().String("where", "", "Optional WHERE predicate")
	materializeCmd.Flags().Int("limit", 0, "Optional row limit")
	materializeCmd.Flags().Bool("dry-run", false, "Print the SQL preview without creating the table")
}
