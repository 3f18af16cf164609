package client

import "fmt"

// FieldDescriptor describes one connection-form input field for an engine.
// Type is the wire value ("text", "number", "password"); the forms package
// normalizes it into a closed kind set.
type FieldDescriptor struct {
	Name        string      `json:"name"`
	Label       string      `json:"label"`
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// DataSourceType is a static engine template driving dynamic form generation.
type DataSourceType struct {
	Type        string            `json:"type"`
	DisplayName string            `json:"display_name"`
	Icon        string            `json:"icon"`
	Fields      []FieldDescriptor `json:"fields"`
}

type DataSourceTypesResponse struct {
	Types []DataSourceType `json:"types"`
}

// DataSource is a registered external system. Name is the unique key.
type DataSource struct {
	Name   string   `json:"name"`
	Engine string   `json:"engine"`
	Tables []string `json:"tables"`
}

type DataSourceListResponse struct {
	Datasources []DataSource `json:"datasources"`
}

type CreateDataSourceRequest struct {
	Name       string                 `json:"name"`
	Engine     string                 `json:"engine"`
	Parameters map[string]interface{} `json:"parameters"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

type TableRef struct {
	Name string `json:"name"`
}

type TablesResponse struct {
	Tables []TableRef `json:"tables"`
}

// Column is one column of a table schema. Nullable and Key are passed
// through from the backend's DESCRIBE output ("YES"/"NO", "PRI", ...).
type Column struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable string `json:"nullable"`
	Key      string `json:"key"`
}

type TableSchemaResponse struct {
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
}

// TableData is a capped sample of a table's rows. Cell values are
// heterogeneous and may be null.
type TableData struct {
	Columns   []string        `json:"columns"`
	Data      [][]interface{} `json:"data"`
	TotalRows int             `json:"total_rows"`
}

type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

// Result kinds reported by the federated query endpoint.
const (
	ResultTable = "table"
	ResultOK    = "ok"
	ResultError = "error"
)

// QueryResult is the outcome of one query execution. ExecutionTime is in
// seconds.
type QueryResult struct {
	Type          string          `json:"type"`
	Columns       []string        `json:"columns"`
	Data          [][]interface{} `json:"data"`
	RowCount      int             `json:"row_count"`
	Error         string          `json:"error,omitempty"`
	ExecutionTime float64         `json:"execution_time,omitempty"`
}

type ServerStatus struct {
	Connected bool   `json:"connected"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

type MaterializedTableRequest struct {
	TableName      string   `json:"table_name"`
	SourceDatabase string   `json:"source_database"`
	SourceTable    string   `json:"source_table"`
	Columns        []string `json:"columns,omitempty"`
	WhereClause    string   `json:"where_clause,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

type MaterializedTableResponse struct {
	Message string `json:"message"`
}

type Model struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Predict string `json:"predict,omitempty"`
	Engine  string `json:"engine,omitempty"`
}

type Job struct {
	Name     string `json:"name"`
	Schedule string `json:"schedule,omitempty"`
	NextRun  string `json:"next_run,omitempty"`
}

type KnowledgeBase struct {
	Name  string `json:"name"`
	Model string `json:"model,omitempty"`
}

// APIError is a non-2xx response from the backend. Detail carries the
// server's human-readable message when the body had one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Detail != "" {
		return fmt.Sprintf("API error: %s", e.Detail)
	}
	return fmt.Sprintf("API error: status=%d", e.Status)
}
