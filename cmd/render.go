package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
)

var (
	displayWide        bool
	displayMaxColWidth = 32
)

func truncateWithEllipsis(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// usePlainSymbols decides whether to draw tables with ASCII symbols: either
// the operator asked for it or stdout is not a terminal.
func usePlainSymbols(cmd *cobra.Command) bool {
	plain, _ := cmd.Flags().GetBool("plain")
	if plain {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func newRenderTable(cmd *cobra.Command) *tablewriter.Table {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	// Preserve column names exactly as returned by the backend.
	table.Options(tablewriter.WithConfig(tablewriter.Config{
		Header: tw.CellConfig{
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
	}))
	if usePlainSymbols(cmd) {
		table.Options(tablewriter.WithSymbols(&tw.SymbolASCII{}))
	}
	return table
}

func formatCell(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	cell := fmt.Sprintf("%v", v)
	cell = strings.ReplaceAll(cell, "\r\n", " ")
	cell = strings.ReplaceAll(cell, "\n", " ")
	cell = strings.ReplaceAll(cell, "\t", " ")
	if displayWide {
		return cell
	}
	return truncateWithEllipsis(cell, displayMaxColWidth)
}

func renderStringTable(cmd *cobra.Command, headers []string, rows [][]string) {
	table := newRenderTable(cmd)
	hs := make([]any, len(headers))
	for i, h := range headers {
		hs[i] = h
	}
	table.Header(hs...)
	for _, row := range rows {
		values := make([]any, len(row))
		for i, cell := range row {
			if displayWide {
				values[i] = cell
			} else {
				values[i] = truncateWithEllipsis(cell, displayMaxColWidth)
			}
		}
		table.Append(values...)
	}
	table.Render()
}

// renderQueryResult prints a federated query outcome: a table for tabular
// results, an acknowledgement for DDL/DML, the error message otherwise.
func renderQueryResult(cmd *cobra.Command, res *client.QueryResult) {
	out := cmd.OutOrStdout()

	switch res.Type {
	case client.ResultError:
		fmt.Fprintf(out, "Error: %s\n", res.Error)
	case client.ResultTable:
		table := newRenderTable(cmd)
		hs := make([]any, len(res.Columns))
		for i, col := range res.Columns {
			hs[i] = col
		}
		table.Header(hs...)
		for _, row := range res.Data {
			values := make([]any, len(row))
			for i, cell := range row {
				values[i] = formatCell(cell)
			}
			table.Append(values...)
		}
		table.Render()
		fmt.Fprintf(out, "\n(%d rows, %.2fs)\n", res.RowCount, res.ExecutionTime)
	default:
		fmt.Fprintf(out, "OK (%.2fs)\n", res.ExecutionTime)
	}
}

func renderTableData(cmd *cobra.Command, data *client.TableData) {
	table := newRenderTable(cmd)
	hs := make([]any, len(data.Columns))
	for i, col := range data.Columns {
		hs[i] = col
	}
	table.Header(hs...)
	for _, row := range data.Data {
		values := make([]any, len(row))
		for i, cell := range row {
			values[i] = formatCell(cell)
		}
		table.Append(values...)
	}
	table.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "\n(%d rows)\n", data.TotalRows)
}

func renderSchema(cmd *cobra.Command, columns []client.Column) {
	rows := make([][]string, 0, len(columns))
	for _, col := range columns {
		rows = append(rows, []string{col.Name, col.Type, col.Nullable, col.Key})
	}
	renderStringTable(cmd, []string{"column", "type", "nullable", "key"}, rows)
}
