package cmd

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Summarize data sources, models, jobs and knowledge bases",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Independent refreshes run concurrently; each populates or errors
		// its own slice of state, a failing one does not block the rest.
		var wg sync.WaitGroup
		for _, fetch := range []func(){
			queries.CheckStatus,
			datasources.FetchDatasources,
			queries.FetchModels,
			queries.FetchJobs,
			queries.FetchKnowledgeBases,
		} {
			wg.Add(1)
			go func(f func()) {
				defer wg.Done()
				f()
			}(fetch)
		}
		wg.Wait()

		out := cmd.OutOrStdout()
		printStatus(cmd)
		fmt.Fprintln(out)

		rows := [][]string{
			{"Data sources", fmt.Sprintf("%d", len(datasources.Catalog()))},
			{"Models", fmt.Sprintf("%d", len(queries.Models()))},
			{"Jobs", fmt.Sprintf("%d", len(queries.Jobs()))},
			{"Knowledge bases", fmt.Sprintf("%d", len(queries.KnowledgeBases()))},
		}
		renderStringTable(cmd, []string{"object", "count"}, rows)

		if msg := datasources.Err(); msg != "" {
			fmt.Fprintf(out, "Warning: data sources: %s\n", msg)
		}
		if msg := queries.Err(); msg != "" {
			fmt.Fprintf(out, "Warning: catalogs: %s\n", msg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
