package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/uengine-oss/robo-data-fabric/internal/forms"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage registered data sources",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasources.FetchDatasources()
		if msg := datasources.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}

		catalog := datasources.Catalog()
		if len(catalog) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No data sources registered. Use 'fabricctl sources add' to create one.")
			return nil
		}
		rows := make([][]string, 0, len(catalog))
		for _, ds := range catalog {
			rows = append(rows, []string{ds.Name, ds.Engine, fmt.Sprintf("%d", len(ds.Tables))})
		}
		renderStringTable(cmd, []string{"name", "engine", "tables"}, rows)
		return nil
	},
}

var sourcesTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported data source engines",
	RunE: func(cmd *cobra.Command, args []string) error {
		datasources.FetchTypes()
		if msg := datasources.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}

		rows := [][]string{}
		for _, t := range datasources.Types() {
			rows = append(rows, []string{t.Type, t.DisplayName, fmt.Sprintf("%d", len(t.Fields))})
		}
		renderStringTable(cmd, []string{"type", "display name", "fields"}, rows)
		return nil
	},
}

var sourcesAddCmd = &cobra.Command{
	Use:   "add [type]",
	Short: "Register a new data source (interactive)",
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasources.FetchTypes()
		if msg := datasources.Err(); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		types := datasources.Types()
		if len(types) == 0 {
			return fmt.Errorf("server returned no data source types")
		}

		out := cmd.OutOrStdout()
		reader := bufio.NewReader(cmd.InOrStdin())

		wizard := forms.NewWizard()
		wizard.Open(types)

		typeID := ""
		if len(args) == 1 {
			typeID = args[0]
		} else {
			fmt.Fprintln(out, "Available engines:")
			for _, t := range types {
				fmt.Fprintf(out, "  %-16s %s\n", t.Type, t.DisplayName)
			}
			fmt.Fprint(out, "Engine: ")
			line, _ := reader.ReadString('\n')
			typeID = strings.TrimSpace(line)
		}

		if err := wizard.ChooseType(typeID); err != nil {
			return err
		}
		chosen, _ := wizard.ChosenType()

		prompter := forms.NewPrompter()
		prompter.In = reader
		prompter.Out = out

		for {
			fmt.Fprint(out, "Connection name: ")
			line, _ := reader.ReadString('\n')
			name := strings.TrimSpace(line)

			values, err := prompter.PromptFields(chosen.Fields)
			if err != nil {
				return err
			}

			ok := wizard.Submit(name, values, func(name, engine string, parameters map[string]interface{}) (bool, string) {
				created := datasources.CreateDatasource(name, engine, parameters)
				return created, datasources.Err()
			})
			if ok {
				fmt.Fprintf(out, "Data source '%s' created.\n", name)
				wizard.Close()
				return nil
			}

			fmt.Fprintf(out, "Error: %s\n", wizard.Err())
			fmt.Fprint(out, "Retry? [y/N]: ")
			answer, _ := reader.ReadString('\n')
			if strings.TrimSpace(strings.ToLower(answer)) != "y" {
				wizard.Close()
				return fmt.Errorf("data source creation aborted")
			}
		}
	},
}

var sourcesRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Short:   "Delete a data source",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if !datasources.DeleteDatasource(name) {
			return fmt.Errorf("%s", datasources.Err())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Data source '%s' deleted.\n", name)
		return nil
	},
}

var sourcesTestCmd = &cobra.Command{
	Use:   "test <name>",
	Short: "Test connectivity of a data source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := api.TestConnection(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if resp.Success {
			fmt.Fprintf(out, "OK: %s\n", resp.Message)
		} else {
			fmt.Fprintf(out, "Failed: %s\n", resp.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesTypesCmd)
	sourcesCmd.AddCommand(sourcesAddCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	sourcesCmd.AddCommand(sourcesTestCmd)
}
