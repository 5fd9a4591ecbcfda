package favorites

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func exportFixture(t *testing.T) []Entry {
	t.Helper()
	s := newTestStore(t)
	s.AddFavoriteMovie("Inception", "Sci-Fi")
	s.AddFavoriteMovie("Heat", "")
	entries, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	return entries
}

func TestExportEntries_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportEntries(exportFixture(t), "JSON", &buf); err != nil {
		t.Fatalf("ExportEntries failed: %v", err)
	}

	var exports []EntryExport
	if err := json.Unmarshal(buf.Bytes(), &exports); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if len(exports) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(exports))
	}
	if exports[0] != (EntryExport{ID: "1", Title: "Inception", Genre: "Sci-Fi", AddedDate: "2024-03-09 14:30:05"}) {
		t.Errorf("unexpected first entry: %+v", exports[0])
	}
	if strings.Contains(buf.String(), `"genre": ""`) {
		t.Error("empty genre should be omitted")
	}
}

func TestExportEntries_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportEntries(exportFixture(t), "yaml", &buf); err != nil {
		t.Fatalf("ExportEntries failed: %v", err)
	}

	var exports []EntryExport
	if err := yaml.Unmarshal(buf.Bytes(), &exports); err != nil {
		t.Fatalf("Failed to parse YAML output: %v", err)
	}
	if len(exports) != 2 || exports[1].Title != "Heat" || exports[1].ID != "2" {
		t.Errorf("unexpected entries: %+v", exports)
	}
}

func TestExportEntries_UnsupportedFormat(t *testing.T) {
	err := ExportEntries(nil, "xml", &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Errorf("Expected 'unsupported export format' error, got: %v", err)
	}
}
