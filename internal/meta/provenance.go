// Package meta resolves per-document metadata: externally supplied
// provenance, path-derived jurisdiction, and content-derived date and
// version, merged in strict precedence order. It also labels chunks
// with their normative strength.
package meta

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ProvenanceEntry carries authoritative metadata supplied alongside the
// input archive. Empty fields are treated as absent.
type ProvenanceEntry struct {
	SourceURL  string `json:"source_url"`
	DocDate    string `json:"doc_date"`
	DocVersion string `json:"doc_version"`
}

// ProvenanceMap is keyed by document identity: full path, filename, or
// filename stem.
type ProvenanceMap map[string]ProvenanceEntry

// LoadProvenanceMap reads a JSONL or CSV provenance map. A file that
// cannot be parsed is a configuration error: the caller must not start
// processing.
func LoadProvenanceMap(path string) (ProvenanceMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open provenance map: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json":
		return parseJSONLMap(f)
	case ".csv":
		return parseCSVMap(f)
	default:
		return nil, fmt.Errorf("provenance map %s: unsupported format (want .jsonl or .csv)", path)
	}
}

func parseJSONLMap(r io.Reader) (ProvenanceMap, error) {
	mp := ProvenanceMap{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row struct {
			Path     string `json:"path"`
			Filename string `json:"filename"`
			Stem     string `json:"stem"`
			ProvenanceEntry
		}
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("provenance map line %d: %w", lineNo, err)
		}
		key := firstNonEmpty(row.Path, row.Filename, row.Stem)
		if key == "" {
			return nil, fmt.Errorf("provenance map line %d: no path, filename, or stem key", lineNo)
		}
		mp[key] = row.ProvenanceEntry
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read provenance map: %w", err)
	}
	return mp, nil
}

func parseCSVMap(r io.Reader) (ProvenanceMap, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse provenance csv: %w", err)
	}
	if len(rows) == 0 {
		return ProvenanceMap{}, nil
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	mp := ProvenanceMap{}
	for n, row := range rows[1:] {
		key := firstNonEmpty(get(row, "path"), get(row, "filename"), get(row, "stem"))
		if key == "" {
			return nil, fmt.Errorf("provenance csv row %d: no path, filename, or stem key", n+2)
		}
		mp[key] = ProvenanceEntry{
			SourceURL:  get(row, "source_url"),
			DocDate:    get(row, "doc_date"),
			DocVersion: get(row, "doc_version"),
		}
	}
	return mp, nil
}

// Lookup resolves the entry for a document, trying the exact path, then
// the filename, then the filename stem.
func (m ProvenanceMap) Lookup(sourcePath string) (ProvenanceEntry, bool) {
	if m == nil {
		return ProvenanceEntry{}, false
	}
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	for _, key := range []string{sourcePath, base, stem} {
		if e, ok := m[key]; ok {
			return e, true
		}
	}
	return ProvenanceEntry{}, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
