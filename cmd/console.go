package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/uengine-oss/robo-data-fabric/internal/config"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive SQL console",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd)
	},
}

var consoleKeywords = []string{
	"help", "status", "sources", "use ", "tables", "desc ", "sample ",
	"history", "clear", "set display wide", "set display narrow",
	"set display width ", "set limit ", "exit", "quit",
}

// makeConsoleCompleter completes console keywords plus the names the stores
// currently hold: data sources after "use", tables after "desc"/"sample".
func makeConsoleCompleter() liner.Completer {
	return func(line string) []string {
		lower := strings.ToLower(line)

		complete := func(prefix string, candidates []string) []string {
			rest := strings.TrimSpace(line[len(prefix):])
			out := []string{}
			for _, c := range candidates {
				if strings.HasPrefix(strings.ToLower(c), strings.ToLower(rest)) {
					out = append(out, prefix+c)
				}
			}
			return out
		}

		switch {
		case strings.HasPrefix(lower, "use "):
			names := []string{}
			for _, ds := range datasources.Catalog() {
				names = append(names, ds.Name)
			}
			return complete(line[:4], names)
		case strings.HasPrefix(lower, "desc "):
			return complete(line[:5], datasources.Tables())
		case strings.HasPrefix(lower, "sample "):
			return complete(line[:7], datasources.Tables())
		}

		out := []string{}
		for _, kw := range consoleKeywords {
			if strings.HasPrefix(kw, lower) {
				out = append(out, kw)
			}
		}
		return out
	}
}

func runConsole(cmd *cobra.Command) error {
	queries.CheckStatus()

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(makeConsoleCompleter())

	historyPath, _ := config.GetHistoryPath()
	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("Data Fabric console (Backend: %s)\n", api.BaseURL)
	printStatus(cmd)
	fmt.Println("Type 'help' for commands, ';' at the end of a line to execute SQL.")

	var multiLineSql []string

	for {
		prompt := "fabric> "
		if len(multiLineSql) > 0 {
			prompt = "     -> "
		}

		input, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Println("^C")
				multiLineSql = nil
				continue
			}
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if len(multiLineSql) == 0 {
			handled, shouldBreak := dispatchConsoleCommand(cmd, line, input)
			if shouldBreak {
				break
			}
			if handled {
				continue
			}
		}

		multiLineSql = append(multiLineSql, input)

		if strings.HasSuffix(input, ";") {
			sql := strings.TrimSuffix(strings.Join(multiLineSql, "\n"), ";")
			multiLineSql = nil

			line.AppendHistory(strings.ReplaceAll(sql, "\n", " ") + ";")

			result := queries.ExecuteQuery(sql)
			renderQueryResult(cmd, result)
		}
	}

	if f, err := os.Create(historyPath); err == nil {
		line.WriteHistory(f)
		f.Close()
	}

	return nil
}

// dispatchConsoleCommand handles non-SQL console input. It reports whether
// the line was consumed and whether the loop should stop.
func dispatchConsoleCommand(cmd *cobra.Command, line *liner.State, input string) (handled bool, shouldBreak bool) {
	fields := strings.Fields(input)
	word := strings.ToLower(fields[0])
	args := fields[1:]

	switch word {
	case "exit", "quit":
		return true, true

	case "help":
		printConsoleHelp(cmd)
		return true, false

	case "status":
		line.AppendHistory(input)
		queries.CheckStatus()
		printStatus(cmd)
		return true, false

	case "sources":
		line.AppendHistory(input)
		datasources.FetchDatasources()
		if msg := datasources.Err(); msg != "" {
			fmt.Printf("Error: %s\n", msg)
			return true, false
		}
		for _, ds := range datasources.Catalog() {
			marker := " "
			if sel, ok := datasources.Selected(); ok && sel.Name == ds.Name {
				marker = "*"
			}
			fmt.Printf("%s %-24s %s\n", marker, ds.Name, ds.Engine)
		}
		return true, false

	case "use":
		if len(args) != 1 {
			fmt.Println("Usage: use <source>")
			return true, false
		}
		line.AppendHistory(input)
		ds, ok := datasources.Find(args[0])
		if !ok {
			datasources.FetchDatasources()
			ds, ok = datasources.Find(args[0])
		}
		if !ok {
			fmt.Printf("Error: unknown data source: %s\n", args[0])
			return true, false
		}
		datasources.SelectDatasource(ds)
		if msg := datasources.Err(); msg != "" {
			fmt.Printf("Error: %s\n", msg)
			return true, false
		}
		fmt.Printf("Using '%s' (%d tables)\n", ds.Name, len(datasources.Tables()))
		return true, false

	case "tables":
		line.AppendHistory(input)
		if _, ok := datasources.Selected(); !ok {
			fmt.Println("Error: no data source selected. Use 'use <source>' first.")
			return true, false
		}
		for _, t := range datasources.Tables() {
			fmt.Println(t)
		}
		return true, false

	case "desc":
		if len(args) != 1 {
			fmt.Println("Usage: desc <table>")
			return true, false
		}
		line.AppendHistory(input)
		if _, ok := datasources.Selected(); !ok {
			fmt.Println("Error: no data source selected. Use 'use <source>' first.")
			return true, false
		}
		datasources.SelectTable(args[0])
		if msg := datasources.Err(); msg != "" {
			fmt.Printf("Error: %s\n", msg)
			return true, false
		}
		renderSchema(cmd, datasources.Schema())
		fmt.Println()
		renderTableData(cmd, datasources.Sample())
		return true, false

	case "sample":
		if len(args) < 1 || len(args) > 2 {
			fmt.Println("Usage: sample <table> [limit]")
			return true, false
		}
		line.AppendHistory(input)
		sel, ok := datasources.Selected()
		if !ok {
			fmt.Println("Error: no data source selected. Use 'use <source>' first.")
			return true, false
		}
		limit := sampleLimit
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 {
				fmt.Println("Error: limit must be a positive number")
				return true, false
			}
			limit = n
		}
		data, err := api.GetSampleData(sel.Name, args[0], limit)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return true, false
		}
		renderTableData(cmd, data)
		return true, false

	case "history":
		recent := queries.Recent()
		if len(recent) == 0 {
			fmt.Println("No queries yet.")
			return true, false
		}
		for i, entry := range recent {
			flag := "ok"
			if !entry.Success {
				flag = "err"
			}
			fmt.Printf("%2d  [%s] %s  %s\n",
				i+1, flag, entry.Timestamp.Format("15:04:05"),
				truncateWithEllipsis(entry.Query, 60))
		}
		return true, false

	case "clear":
		queries.ClearResult()
		datasources.ClearError()
		return true, false

	case "set":
		line.AppendHistory(input)
		handleConsoleSet(args)
		return true, false
	}

	return false, false
}

// handleConsoleSet applies and persists display settings. A failed save is a
// warning; the in-memory setting still takes effect for the session.
func handleConsoleSet(args []string) {
	for i := range args {
		args[i] = strings.ToLower(args[i])
	}
	persist := func(mutate func(cfg *config.Config)) {
		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Warning: could not load config: %v\n", err)
			return
		}
		mutate(cfg)
		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Warning: could not save config: %v\n", err)
		}
	}

	if len(args) == 2 && args[0] == "display" {
		switch args[1] {
		case "wide":
			displayWide = true
			persist(func(cfg *config.Config) { cfg.DisplayWide = true })
			fmt.Println("Display mode set to wide.")
			return
		case "narrow":
			displayWide = false
			persist(func(cfg *config.Config) { cfg.DisplayWide = false })
			fmt.Println("Display mode set to narrow.")
			return
		}
	}

	if len(args) == 3 && args[0] == "display" && args[1] == "width" {
		w, err := strconv.Atoi(args[2])
		if err != nil || w <= 0 {
			fmt.Println("Error: invalid width")
			return
		}
		displayMaxColWidth = w
		persist(func(cfg *config.Config) { cfg.Display.MaxColWidth = w })
		fmt.Printf("Display column width set to %d.\n", w)
		return
	}

	if len(args) == 2 && args[0] == "limit" {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			fmt.Println("Error: invalid limit")
			return
		}
		sampleLimit = n
		persist(func(cfg *config.Config) { cfg.SampleLimit = n })
		fmt.Printf("Default sample limit set to %d.\n", n)
		return
	}

	fmt.Println("Usage: set display wide|narrow|width <n>, set limit <n>")
}

func printConsoleHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  status            Check server connectivity")
	fmt.Fprintln(out, "  sources           List registered data sources")
	fmt.Fprintln(out, "  use <source>      Select a data source and load its tables")
	fmt.Fprintln(out, "  tables            List tables of the selected source")
	fmt.Fprintln(out, "  desc <table>      Show schema and sample rows of a table")
	fmt.Fprintln(out, "  sample <table> [n]  Fetch up to n sample rows (default 10)")
	fmt.Fprintln(out, "  history           Show the last 10 queries")
	fmt.Fprintln(out, "  clear             Clear the current result and errors")
	fmt.Fprintln(out, "  set display wide|narrow|width <n>  Display settings (persisted)")
	fmt.Fprintln(out, "  set limit <n>     Default sample row limit (persisted)")
	fmt.Fprintln(out, "  exit | quit       Leave the console")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Anything else is treated as SQL; end a statement with ';' to run it.")
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
