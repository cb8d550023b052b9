package sink

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ragkit/internal/chunk"
)

// WriteJSONL writes records as line-delimited JSON, one record per line.
func WriteJSONL(w io.Writer, records []chunk.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
		}
	}
	return nil
}

// WriteCSV writes records as CSV with the metadata flattened into columns.
// The header is "id", "text", then the union of metadata keys sorted
// alphabetically; embeddings are omitted.
func WriteCSV(w io.Writer, records []chunk.Record) error {
	keySet := make(map[string]bool)
	for _, rec := range records {
		for k := range rec.Metadata {
			keySet[k] = true
		}
	}
	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cw := csv.NewWriter(w)
	header := append([]string{"id", "text"}, keys...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := make([]string, 0, len(header))
		row = append(row, rec.ID, rec.Text)
		for _, k := range keys {
			row = append(row, formatValue(rec.Metadata[k]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", rec.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteFile writes records to path, choosing the format from the extension:
// ".csv" selects CSV, everything else line-delimited JSON. Parent
// directories are created as needed.
func WriteFile(path string, records []chunk.Record) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return WriteCSV(f, records)
	}
	return WriteJSONL(f, records)
}

// formatValue renders a metadata value for a CSV cell. Scalars print
// directly; slices and maps fall back to their JSON encoding.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	case int, int32, int64, float32, float64, bool:
		return fmt.Sprintf("%v", val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(raw)
	}
}
