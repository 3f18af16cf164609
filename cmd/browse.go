package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse <source> [table]",
	Short: "Browse a data source's tables, schema and sample rows",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasources.FetchDatasources()
		if msg := datasources.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}

		ds, ok := datasources.Find(args[0])
		if !ok {
			return fmt.Errorf("unknown data source: %s", args[0])
		}

		datasources.SelectDatasource(ds)
		if msg := datasources.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			tables := datasources.Tables()
			if len(tables) == 0 {
				fmt.Fprintf(out, "No tables in '%s'.\n", ds.Name)
				return nil
			}
			rows := make([][]string, 0, len(tables))
			for _, t := range tables {
				rows = append(rows, []string{t})
			}
			renderStringTable(cmd, []string{"table"}, rows)
			return nil
		}

		datasources.SelectTable(args[1])
		if msg := datasources.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}

		fmt.Fprintf(out, "Schema of %s.%s:\n", ds.Name, args[1])
		renderSchema(cmd, datasources.Schema())
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Sample rows:")
		renderTableData(cmd, datasources.Sample())
		return nil
	},
}

// sampleLimit is the row cap used when no explicit limit is given; the
// persisted config can override it.
var sampleLimit = 10

var sampleCmd = &cobra.Command{
	Use:   "sample <source> <table>",
	Short: "Fetch sample rows from a table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit := sampleLimit
		if cmd.Flags().Changed("limit") {
			limit, _ = cmd.Flags().GetInt("limit")
		}
		data, err := api.GetSampleData(args[0], args[1], limit)
		if err != nil {
			return err
		}
		renderTableData(cmd, data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().Int("limit", 10, "Maximum number of rows to fetch (default from config)")
}
