package store

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/uengine-oss/robo-data-fabric/internal/client"
)

// DatasourceStore owns the catalog of registered data sources and the
// cascading selection state: selecting a source fetches its tables,
// selecting a table fetches schema plus sample rows.
//
// Fetches issued for a selection are tagged with the selection generation at
// issue time; a result whose generation no longer matches is discarded, so a
// slow fetch for an old selection can never overwrite a newer one.
type DatasourceStore struct {
	notifier

	api *client.Client

	mu            sync.Mutex
	generation    uint64
	types         []client.DataSourceType
	catalog       []client.DataSource
	selected      *client.DataSource
	tables        []string
	selectedTable string
	schema        []client.Column
	sample        *client.TableData
	loading       bool
	err           string
}

func NewDatasourceStore(api *client.Client) *DatasourceStore {
	return &DatasourceStore{api: api}
}

// FetchTypes loads the engine type catalog. On failure the catalog stays
// empty and the error field is set.
func (s *DatasourceStore) FetchTypes() {
	s.begin()

	types, err := s.api.ListTypes()

	s.mu.Lock()
	if err != nil {
		s.types = nil
		s.err = errMessage(err, "")
	} else {
		s.types = types
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// FetchDatasources replaces the full catalog. On failure the previous
// catalog is kept as-is.
func (s *DatasourceStore) FetchDatasources() {
	s.begin()

	catalog, err := s.api.ListDatasources()

	s.mu.Lock()
	if err != nil {
		s.err = errMessage(err, "")
	} else {
		s.catalog = catalog
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// CreateDatasource registers a new source and, on success, appends the
// server-returned entity to the catalog. Name uniqueness is the server's
// call; no client-side dedup is attempted.
func (s *DatasourceStore) CreateDatasource(name, engine string, parameters map[string]interface{}) bool {
	s.begin()

	created, err := s.api.CreateDatasource(&client.CreateDataSourceRequest{
		Name:       name,
		Engine:     engine,
		Parameters: parameters,
	})

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.notify()
	}()
	s.loading = false
	if err != nil {
		s.err = errMessage(err, "Failed to create data source")
		return false
	}
	s.catalog = append(s.catalog, *created)
	return true
}

// DeleteDatasource removes a source optimistically after the server
// acknowledges. If the deleted source was selected, all derived selection
// state is cleared in the same step.
func (s *DatasourceStore) DeleteDatasource(name string) bool {
	s.begin()

	_, err := s.api.DeleteDatasource(name)

	s.mu.Lock()
	defer func() {
		s.mu.Unlock()
		s.notify()
	}()
	s.loading = false
	if err != nil {
		s.err = errMessage(err, "Failed to delete data source")
		return false
	}

	kept := s.catalog[:0]
	for _, ds := range s.catalog {
		if ds.Name != name {
			kept = append(kept, ds)
		}
	}
	s.catalog = kept

	if s.selected != nil && s.selected.Name == name {
		s.generation++
		s.selected = nil
		s.clearSelectionStateLocked()
	}
	return true
}

// SelectDatasource makes ds the active selection, clears table-level state
// and fetches the table list before returning.
func (s *DatasourceStore) SelectDatasource(ds client.DataSource) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	copied := ds
	s.selected = &copied
	s.clearSelectionStateLocked()
	s.err = ""
	s.loading = true
	s.mu.Unlock()
	s.notify()

	s.fetchTablesFor(ds.Name, gen)
}

// FetchTables reloads the table list for the named source under the current
// selection generation.
func (s *DatasourceStore) FetchTables(name string) {
	s.mu.Lock()
	gen := s.generation
	s.err = ""
	s.loading = true
	s.mu.Unlock()
	s.notify()

	s.fetchTablesFor(name, gen)
}

func (s *DatasourceStore) fetchTablesFor(name string, gen uint64) {
	tables, err := s.api.ListTables(name)

	s.mu.Lock()
	if gen != s.generation {
		// Selection moved on while this fetch was in flight.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.tables = nil
		s.err = errMessage(err, "")
	} else {
		s.tables = tables
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// SelectTable marks the table selected and fetches its schema and a 10-row
// sample concurrently. Results are applied together: either both land or the
// error path fires and neither is updated.
func (s *DatasourceStore) SelectTable(table string) {
	s.mu.Lock()
	if s.selected == nil {
		s.err = "No data source selected"
		s.mu.Unlock()
		s.notify()
		return
	}
	source := s.selected.Name
	gen := s.generation
	s.selectedTable = table
	s.err = ""
	s.loading = true
	s.mu.Unlock()
	s.notify()

	var (
		schema *client.TableSchemaResponse
		sample *client.TableData
	)
	var g errgroup.Group
	g.Go(func() error {
		resp, err := s.api.GetTableSchema(source, table)
		if err != nil {
			return err
		}
		schema = resp
		return nil
	})
	g.Go(func() error {
		resp, err := s.api.GetSampleData(source, table, 10)
		if err != nil {
			return err
		}
		sample = resp
		return nil
	})
	err := g.Wait()

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.err = errMessage(err, "")
	} else {
		s.schema = schema.Columns
		s.sample = sample
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// ClearError clears the error field without side effects.
func (s *DatasourceStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *DatasourceStore) begin() {
	s.mu.Lock()
	s.err = ""
	s.loading = true
	s.mu.Unlock()
	s.notify()
}

func (s *DatasourceStore) clearSelectionStateLocked() {
	s.tables = nil
	s.selectedTable = ""
	s.schema = nil
	s.sample = nil
}

func (s *DatasourceStore) Types() []client.DataSourceType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.types
}

func (s *DatasourceStore) Catalog() []client.DataSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.DataSource, len(s.catalog))
	copy(out, s.catalog)
	return out
}

// Find returns the catalog entry with the given name.
func (s *DatasourceStore) Find(name string) (client.DataSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ds := range s.catalog {
		if ds.Name == name {
			return ds, true
		}
	}
	return client.DataSource{}, false
}

func (s *DatasourceStore) Selected() (client.DataSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return client.DataSource{}, false
	}
	return *s.selected, true
}

func (s *DatasourceStore) Tables() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.tables))
	copy(out, s.tables)
	return out
}

func (s *DatasourceStore) SelectedTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTable
}

func (s *DatasourceStore) Schema() []client.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema
}

func (s *DatasourceStore) Sample() *client.TableData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample
}

func (s *DatasourceStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *DatasourceStore) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
