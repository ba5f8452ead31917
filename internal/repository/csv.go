package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang-p2p-risk/pkg/apperror"
)

// table is a CSV file split into its (lower-cased) header and data rows.
// Blank lines and lines starting with # are skipped.
type table struct {
	path   string
	header []string
	rows   [][]string
	// lines holds the 1-based file line of every row for error messages.
	lines []int
}

func readTable(path string, requireHeader bool) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	t := &table{path: path}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperror.InvalidInput("repository.readTable", "%s: %v", path, err)
		}
		line, _ := r.FieldPos(0)
		if t.header == nil && len(t.rows) == 0 && (requireHeader || !numericRow(record)) {
			t.header = make([]string, len(record))
			for i, h := range record {
				t.header[i] = strings.ToLower(strings.TrimSpace(h))
			}
			continue
		}
		t.rows = append(t.rows, record)
		t.lines = append(t.lines, line)
	}

	if requireHeader && t.header == nil {
		return nil, apperror.InvalidInput("repository.readTable", "%s: missing header row", path)
	}
	return t, nil
}

// column returns the index of the first header matching one of names, or -1.
func (t *table) column(names ...string) int {
	for i, h := range t.header {
		for _, n := range names {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func (t *table) invalid(row int, format string, args ...interface{}) error {
	return apperror.InvalidInput("repository.load", "%s line %d: %s", t.path, t.lines[row], fmt.Sprintf(format, args...))
}

// float parses the cell at col; ok is false for a blank or missing cell.
func (t *table) float(row, col int) (float64, bool, error) {
	record := t.rows[row]
	if col < 0 || col >= len(record) {
		return 0, false, nil
	}
	cell := strings.TrimSpace(record[col])
	if cell == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, t.invalid(row, "column %q: %q is not a number", t.name(col), cell)
	}
	return v, true, nil
}

func (t *table) cell(row, col int) string {
	record := t.rows[row]
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func (t *table) name(col int) string {
	if col < len(t.header) {
		return t.header[col]
	}
	return strconv.Itoa(col)
}

func numericRow(record []string) bool {
	for _, cell := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
			return false
		}
	}
	return len(record) > 0
}
