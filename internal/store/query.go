package store

import (
	"sync"
	"time"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
)

// recentHistorySize bounds the derived recent-history view. The underlying
// log keeps every entry of the session in chronological order.
const recentHistorySize = 10

// HistoryEntry records one query execution attempt.
type HistoryEntry struct {
	Query     string
	Timestamp time.Time
	Success   bool
}

// QueryStore holds the current query text, the last result, the session's
// query history, the remote-object catalogs and the server connectivity
// status.
type QueryStore struct {
	notifier

	api *client.Client

	mu             sync.Mutex
	query          string
	result         *client.QueryResult
	history        []HistoryEntry
	status         *client.ServerStatus
	models         []client.Model
	jobs           []client.Job
	knowledgeBases []client.KnowledgeBase
	loading        bool
	err            string
}

func NewQueryStore(api *client.Client) *QueryStore {
	return &QueryStore{api: api}
}

// CheckStatus refreshes the server connectivity status. A transport failure
// is stored as a disconnected status carrying the failure message; it never
// propagates to the caller.
func (s *QueryStore) CheckStatus() {
	status, err := s.api.GetStatus()
	if err != nil {
		status = &client.ServerStatus{Connected: false, Error: errMessage(err, "")}
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
	s.notify()
}

// ExecuteQuery runs text against the federated query endpoint and stores the
// result. Exactly one history entry is appended per call: a server-reported
// query error and a transport failure both count, the latter as a locally
// synthesized error-kind result so the result panel stays consistent with
// the query that was actually attempted.
func (s *QueryStore) ExecuteQuery(text string) *client.QueryResult {
	s.mu.Lock()
	s.query = text
	s.err = ""
	s.loading = true
	s.mu.Unlock()
	s.notify()

	result, err := s.api.ExecuteQuery(text)
	if err != nil {
		result = &client.QueryResult{
			Type:    client.ResultError,
			Columns: []string{},
			Data:    [][]interface{}{},
			Error:   errMessage(err, ""),
		}
	}

	s.mu.Lock()
	s.result = result
	if result.Type == client.ResultError {
		s.err = result.Error
	}
	s.history = append(s.history, HistoryEntry{
		Query:     text,
		Timestamp: time.Now(),
		Success:   result.Type != client.ResultError,
	})
	s.loading = false
	s.mu.Unlock()
	s.notify()

	return result
}

// CreateMaterializedTable forwards the builder form to the server.
func (s *QueryStore) CreateMaterializedTable(target, sourceDB, sourceTable string, columns []string, where string, limit int) bool {
	s.mu.Lock()
	s.err = ""
	s.loading = true
	s.mu.Unlock()
	s.notify()

	_, err := s.api.CreateMaterializedTable(&client.MaterializedTableRequest{
		TableName:      target,
		SourceDatabase: sourceDB,
		SourceTable:    sourceTable,
		Columns:        columns,
		WhereClause:    where,
		Limit:          limit,
	})

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.notify()
	}()
	s.loading = false
	if err != nil {
		s.err = errMessage(err, "Failed to create materialized table")
		return false
	}
	return true
}

// FetchModels replaces the model catalog. Catalog fetches are independent:
// a failure sets the shared error field but leaves the other catalogs alone.
func (s *QueryStore) FetchModels() {
	models, err := s.api.ListModels()

	s.mu.Lock()
	if err != nil {
		s.err = errMessage(err, "")
	} else {
		s.models = models
	}
	s.mu.Unlock()
	s.notify()
}

func (s *QueryStore) FetchJobs() {
	jobs, err := s.api.ListJobs()

	s.mu.Lock()
	if err != nil {
		s.err = errMessage(err, "")
	} else {
		s.jobs = jobs
	}
	s.mu.Unlock()
	s.notify()
}

func (s *QueryStore) FetchKnowledgeBases() {
	kbs, err := s.api.ListKnowledgeBases()

	s.mu.Lock()
	if err != nil {
		s.err = errMessage(err, "")
	} else {
		s.knowledgeBases = kbs
	}
	s.mu.Unlock()
	s.notify()
}

// ClearResult clears the current result and the error together.
func (s *QueryStore) ClearResult() {
	s.mu.Lock()
	s.result = nil
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

// SetQuery replaces the editable query text without executing it. Used to
// restore a history entry into the editor.
func (s *QueryStore) SetQuery(text string) {
	s.mu.Lock()
	s.query = text
	s.mu.Unlock()
	s.notify()
}

func (s *QueryStore) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *QueryStore) Result() *client.QueryResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// History returns the full chronological log.
func (s *QueryStore) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// Recent returns the last entries, most recent first, capped at ten.
func (s *QueryStore) Recent() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.history)
	if n > recentHistorySize {
		n = recentHistorySize
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(s.history) - 1; i >= len(s.history)-n; i-- {
		out = append(out, s.history[i])
	}
	return out
}

func (s *QueryStore) Status() *client.ServerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Connected reports whether the last status refresh saw a live server.
func (s *QueryStore) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status != nil && s.status.Connected
}

func (s *QueryStore) Models() []client.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.models
}

func (s *QueryStore) Jobs() []client.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs
}

func (s *QueryStore) KnowledgeBases() []client.KnowledgeBase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.knowledgeBases
}

func (s *QueryStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *QueryStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError clears the error field without side effects.
func (s *QueryStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.notify()
}
