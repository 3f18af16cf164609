package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List ML models on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		queries.FetchModels()
		if msg := queries.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		rows := [][]string{}
		for _, m := range queries.Models() {
			rows = append(rows, []string{m.Name, m.Status, m.Predict, m.Engine})
		}
		renderStringTable(cmd, []string{"name", "status", "predict", "engine"}, rows)
		return nil
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List scheduled jobs on the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		queries.FetchJobs()
		if msg := queries.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		rows := [][]string{}
		for _, j := range queries.Jobs() {
			rows = append(rows, []string{j.Name, j.Schedule, j.NextRun})
		}
		renderStringTable(cmd, []string{"name", "schedule", "next run"}, rows)
		return nil
	},
}

var kbsCmd = &cobra.Command{
	Use:     "kbs",
	Short:   "List knowledge bases on the server",
	Aliases: []string{"knowledge-bases"},
	RunE: func(cmd *cobra.Command, args []string) error {
		queries.FetchKnowledgeBases()
		if msg := queries.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		rows := [][]string{}
		for _, kb := range queries.KnowledgeBases() {
			rows = append(rows, []string{kb.Name, kb.Model})
		}
		renderStringTable(cmd, []string{"name", "model"}, rows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(kbsCmd)
}
