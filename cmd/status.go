package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the query server's connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		queries.CheckStatus()
		printStatus(cmd)
		return nil
	},
}

func printStatus(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	st := queries.Status()
	if st == nil {
		fmt.Fprintln(out, "Status: unknown")
		return
	}
	if st.Connected {
		if st.Version != "" {
			fmt.Fprintf(out, "Connected (server version %s)\n", st.Version)
		} else {
			fmt.Fprintln(out, "Connected")
		}
		return
	}
	if st.Error != "" {
		fmt.Fprintf(out, "Disconnected: %s\n", st.Error)
	} else {
		fmt.Fprintln(out, "Disconnected")
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
