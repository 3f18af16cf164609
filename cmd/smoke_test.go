package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/uengine-oss/robo-data-fabric/internal/config"
)

// resetCommandFlags restores every flag in the command tree to its default
// value; the command tree is a package-global singleton shared across tests,
// so flag values set by one invocation (including cobra's implicit --help
// flag) would otherwise leak into the next.
func resetCommandFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetCommandFlags(sub)
	}
}

// executeRootCmd runs the cobra root command with the given args and captures stdout/stderr.
func executeRootCmd(t *testing.T, args ...string) (stdout string, stderr string, err error) {
	t.Helper()

	// Cobra commands are global singletons in this package; avoid parallel execution.
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	resetCommandFlags(rootCmd)
	rootCmd.SetOut(outBuf)
	rootCmd.SetErr(errBuf)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// TestCLI_HelpSmoke verifies that the CLI command tree is wired and can render help.
func TestCLI_HelpSmoke(t *testing.T) {
	stdout, _, err := executeRootCmd(t, "--help")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !strings.Contains(stdout, "Usage:") || !strings.Contains(stdout, "fabricctl [command]") {
		t.Fatalf("expected help output to include usage for fabricctl, got: %q", stdout)
	}
	if !strings.Contains(strings.ToLower(stdout), "run without a subcommand") {
		t.Fatalf("expected help output to describe default console behavior, got: %q", stdout)
	}
}

// TestCLI_SubcommandHelpSmoke verifies key subcommands can render help without backend access.
func TestCLI_SubcommandHelpSmoke(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "sources_help", args: []string{"sources", "--help"}},
		{name: "sources_add_help", args: []string{"sources", "add", "--help"}},
		{name: "query_help", args: []string{"query", "--help"}},
		{name: "browse_help", args: []string{"browse", "--help"}},
		{name: "materialize_help", args: []string{"materialize", "--help"}},
		{name: "dashboard_help", args: []string{"dashboard", "--help"}},
		{name: "models_help", args: []string{"models", "--help"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			stdout, _, err := executeRootCmd(t, tc.args...)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			want := tc.args[0]
			if !strings.Contains(strings.ToLower(stdout), want) {
				t.Fatalf("expected help output to contain %q, got: %q", want, stdout)
			}
		})
	}
}

// TestCLI_MaterializeDryRun verifies the SQL preview prints without touching
// the backend.
func TestCLI_MaterializeDryRun(t *testing.T) {
	stdout, _, err := executeRootCmd(t,
		"materialize", "--dry-run",
		"--name", "cached_data",
		"--source-db", "mysql_db",
		"--source-table", "orders",
		"--columns", "id,amount",
		"--where", "amount > 100",
		"--limit", "50",
	)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	want := "CREATE TABLE mindsdb.cached_data AS\n" +
		"SELECT id, amount\n" +
		"FROM mysql_db.orders\n" +
		"WHERE amount > 100\n" +
		"LIMIT 50;\n"
	if stdout != want {
		t.Fatalf("unexpected preview output:\n got: %q\nwant: %q", stdout, want)
	}
}

// TestCLI_MaterializeDryRunIncomplete verifies an incomplete form prints the
// placeholder instead of broken SQL.
func TestCLI_MaterializeDryRunIncomplete(t *testing.T) {
	stdout, _, err := executeRootCmd(t, "materialize", "--dry-run", "--name", "cached_data")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(stdout, "-- Fill in the target name") {
		t.Fatalf("expected placeholder preview, got: %q", stdout)
	}
}

// TestCLI_QueryAgainstFakeBackend runs a query end to end against a local
// fake server selected via --server.
func TestCLI_QueryAgainstFakeBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"type":           "table",
			"columns":        []string{"id", "name"},
			"data":           [][]interface{}{{1, "alpha"}},
			"row_count":      1,
			"execution_time": 0.05,
		})
	}))
	defer srv.Close()

	stdout, _, err := executeRootCmd(t, "--server", srv.URL, "--plain", "query", "SELECT * FROM mysql_db.users")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	for _, want := range []string{"id", "name", "alpha", "(1 rows, 0.05s)"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected query output to contain %q, got: %q", want, stdout)
		}
	}
}

// TestCLI_SourcesListAgainstFakeBackend verifies the sources list rendering.
func TestCLI_SourcesListAgainstFakeBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/datasources" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"datasources": []map[string]interface{}{
				{"name": "mysql_db", "engine": "mysql", "tables": []string{"orders", "users"}},
			},
		})
	}))
	defer srv.Close()

	stdout, _, err := executeRootCmd(t, "--server", srv.URL, "--plain", "sources", "list")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	for _, want := range []string{"mysql_db", "mysql"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected sources output to contain %q, got: %q", want, stdout)
		}
	}
}

// writeTestConfig isolates HOME in a temp dir and writes a config file there.
func writeTestConfig(t *testing.T, contents string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	dir := filepath.Join(home, ".fabricctl")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

// TestCLI_ConfigDisplayAndSampleDefaults verifies the persisted config is
// applied at startup: column width caps rendering and the sample limit is
// used when no --limit flag is given.
func TestCLI_ConfigDisplayAndSampleDefaults(t *testing.T) {
	writeTestConfig(t, `{"display": {"max_col_width": 8}, "sample_limit": 3}`)
	defer func() {
		displayWide = false
		displayMaxColWidth = 32
		sampleLimit = 10
	}()

	var sawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/datasources/mysql_db/tables/orders/sample" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		sawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"columns": ["note"], "data": [["abcdefghijklmnop"]], "total_rows": 1}`))
	}))
	defer srv.Close()

	stdout, _, err := executeRootCmd(t, "--server", srv.URL, "--plain", "sample", "mysql_db", "orders")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if sawQuery != "limit=3" {
		t.Fatalf("expected the configured sample limit, got query %q", sawQuery)
	}
	if !strings.Contains(stdout, "abcde...") {
		t.Fatalf("expected cells truncated to the configured width, got: %q", stdout)
	}
	if strings.Contains(stdout, "abcdefghijklmnop") {
		t.Fatalf("expected no untruncated cell, got: %q", stdout)
	}
}

// TestCLI_ConfigDisplayWide verifies wide mode disables cell truncation.
func TestCLI_ConfigDisplayWide(t *testing.T) {
	writeTestConfig(t, `{"display_wide": true, "display": {"max_col_width": 8}}`)
	defer func() {
		displayWide = false
		displayMaxColWidth = 32
		sampleLimit = 10
	}()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"columns": ["note"], "data": [["abcdefghijklmnop"]], "total_rows": 1}`))
	}))
	defer srv.Close()

	stdout, _, err := executeRootCmd(t, "--server", srv.URL, "--plain", "sample", "mysql_db", "orders")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(stdout, "abcdefghijklmnop") {
		t.Fatalf("expected full cell in wide mode, got: %q", stdout)
	}
}

// TestCLI_SampleLimitFlagOverridesConfig verifies an explicit --limit wins
// over the configured default.
func TestCLI_SampleLimitFlagOverridesConfig(t *testing.T) {
	writeTestConfig(t, `{"sample_limit": 3}`)
	defer func() {
		displayWide = false
		displayMaxColWidth = 32
		sampleLimit = 10
	}()

	var sawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"columns": [], "data": [], "total_rows": 0}`))
	}))
	defer srv.Close()

	_, _, err := executeRootCmd(t, "--server", srv.URL, "sample", "mysql_db", "orders", "--limit", "7")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if sawQuery != "limit=7" {
		t.Fatalf("expected the explicit limit to win, got query %q", sawQuery)
	}
}

// TestConsoleSetPersistsConfig verifies set commands persist to the config
// file and take effect in memory.
func TestConsoleSetPersistsConfig(t *testing.T) {
	writeTestConfig(t, `{}`)
	defer func() {
		displayWide = false
		displayMaxColWidth = 32
		sampleLimit = 10
	}()

	handleConsoleSet([]string{"display", "wide"})
	handleConsoleSet([]string{"display", "width", "12"})
	handleConsoleSet([]string{"limit", "5"})

	if !displayWide || displayMaxColWidth != 12 || sampleLimit != 5 {
		t.Fatalf("expected in-memory settings applied, got wide=%v width=%d limit=%d",
			displayWide, displayMaxColWidth, sampleLimit)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if !cfg.DisplayWide || cfg.Display.MaxColWidth != 12 || cfg.SampleLimit != 5 {
		t.Fatalf("expected settings persisted, got wide=%v width=%d limit=%d",
			cfg.DisplayWide, cfg.Display.MaxColWidth, cfg.SampleLimit)
	}
}

// TestConsoleSetRejectsInvalidValues verifies bad input leaves settings
// untouched.
func TestConsoleSetRejectsInvalidValues(t *testing.T) {
	writeTestConfig(t, `{}`)
	defer func() {
		displayWide = false
		displayMaxColWidth = 32
		sampleLimit = 10
	}()
	displayMaxColWidth = 32
	sampleLimit = 10

	handleConsoleSet([]string{"display", "width", "zero"})
	handleConsoleSet([]string{"display", "width", "-1"})
	handleConsoleSet([]string{"limit", "0"})

	if displayMaxColWidth != 32 || sampleLimit != 10 {
		t.Fatalf("expected settings unchanged, got width=%d limit=%d",
			displayMaxColWidth, sampleLimit)
	}
}

// TestCLI_SourcesListEmpty verifies the empty-catalog hint.
func TestCLI_SourcesListEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"datasources": []}`))
	}))
	defer srv.Close()

	stdout, _, err := executeRootCmd(t, "--server", srv.URL, "sources", "list")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !strings.Contains(stdout, "No data sources registered") {
		t.Fatalf("expected empty-catalog hint, got: %q", stdout)
	}
}
