package favorites

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExportFormat represents supported export formats
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// EntryExport is the portable form of an entry. Values are written as they
// appear in the CSV file.
type EntryExport struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Genre     string `json:"genre,omitempty" yaml:"genre,omitempty"`
	AddedDate string `json:"added_date" yaml:"added_date"`
}

// ExportEntries writes entries as JSON or YAML.
func ExportEntries(entries []Entry, format string, w io.Writer) error {
	exports := make([]EntryExport, len(entries))
	for i, e := range entries {
		exports[i] = EntryExport{
			ID:        e.IDString(),
			Title:     e.Title,
			Genre:     e.Genre,
			AddedDate: e.AddedString(),
		}
	}

	switch ExportFormat(strings.ToLower(format)) {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(exports)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(exports); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, yaml)", format)
	}
}
