// Package sqlgen renders the CREATE TABLE ... AS SELECT statement behind the
// materialized-table builder. The rendered text is a preview of what the
// server will run; the actual request is sent as structured fields.
package sqlgen

import (
	"fmt"
	"strings"
)

// Placeholder is returned while the builder form is incomplete.
const Placeholder = "-- Fill in the target name, source database and source table to preview the SQL"

// BuildMaterializedSQL deterministically renders the statement for the given
// builder inputs. An empty column list means all columns. It never fails:
// missing required parts yield Placeholder.
func BuildMaterializedSQL(target, sourceDB, sourceTable string, columns []string, where string, limit int) string {
	target = strings.TrimSpace(target)
	sourceDB = strings.TrimSpace(sourceDB)
	sourceTable = strings.TrimSpace(sourceTable)

	if target == "" || sourceDB == "" || sourceTable == "" {
		return Placeholder
	}

	cols := "*"
	if len(columns) > 0 {
		cols = strings.Join(columns, ", ")
	}

	lines := []string{
		fmt.Sprintf("CREATE TABLE mindsdb.%s AS", target),
		fmt.Sprintf("SELECT %s", cols),
		fmt.Sprintf("FROM %s.%s", sourceDB, sourceTable),
	}
	if strings.TrimSpace(where) != "" {
		lines = append(lines, fmt.Sprintf("WHERE %s", strings.TrimSpace(where)))
	}
	if limit > 0 {
		lines = append(lines, fmt.Sprintf("LIMIT %d", limit))
	}

	return strings.Join(lines, "\n") + ";"
}
