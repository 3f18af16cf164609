package cmd

import (
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Execute a federated SQL query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := queries.ExecuteQuery(args[0])
		renderQueryResult(cmd, result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
