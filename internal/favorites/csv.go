package favorites

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// errMissingTitle marks a row rejected at the load boundary.
var errMissingTitle = errors.New("row has no title")

// decodeEntries reads a CSV table with a header row. Columns are located by
// header name, so reordered or extra columns are tolerated. Rows without a
// title are skipped and reported through skip with their 1-based line number.
func decodeEntries(r io.Reader, skip func(line int, err error)) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	entries := []Entry{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		entry, err := parseRow(field(record, "id"), field(record, "title"), field(record, "genre"), field(record, "added_date"))
		if err != nil {
			if skip != nil {
				skip(line, err)
			}
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func parseRow(id, title, genre, added string) (Entry, error) {
	if strings.TrimSpace(title) == "" {
		return Entry{}, errMissingTitle
	}

	entry := Entry{Title: title, Genre: genre}

	if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil && n > 0 {
		entry.ID = n
	} else {
		entry.rawID = id
	}

	if t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(added), time.Local); err == nil {
		entry.AddedAt = t
	} else {
		entry.rawAdded = added
	}

	return entry, nil
}

// encodeEntries writes the header followed by one row per entry.
func encodeEntries(w io.Writer, entries []Entry) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, e := range entries {
		id := e.rawID
		if e.ID > 0 {
			id = strconv.Itoa(e.ID)
		}
		if err := writer.Write([]string{id, e.Title, e.Genre, e.AddedString()}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
