package client

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

// The backend speaks snake_case JSON throughout; a camelCase tag sneaking
// into a DTO silently drops the field. Any capital letter inside a json tag
// is treated as a violation.
func TestClientDtoJsonTagsAreSnakeCase(t *testing.T) {
	camelCaseJsonTag := regexp.MustCompile("json:\\\"[^\\\"]*[A-Z][^\\\"]*\\\"")

	entries := 0
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" {
			return nil
		}
		if filepath.Base(path) == "json_tag_guard_test.go" {
			return nil
		}

		entries++
		b, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		if camelCaseJsonTag.Match(b) {
			t.Errorf("camelCase json tag found in %s", path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to scan package: %v", err)
	}
	if entries == 0 {
		t.Fatal("guardrail scan found no Go files")
	}
}
