package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rebeliceyang/lazysheet/internal/util"
)

// LoadCSV reads a comma-separated file with a header row
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ReadCSV(f, filepath.Base(path))
}

// CSVOptions tunes ReadCSVWith
type CSVOptions struct {
	// AllowEmpty accepts a header with no rows
	AllowEmpty bool
	// Canonical only reads a cell as a number when it is written the way
	// Value.String writes numbers
	Canonical bool
}

// ReadCSV parses CSV data. Empty cells are null, numeric cells become
// numbers and everything else is text.
func ReadCSV(r io.Reader, name string) (*Dataset, error) {
	return ReadCSVWith(r, name, CSVOptions{})
}

// ReadExport parses a file written by the exporter back into the values
// it was written from, including an export with no rows
func ReadExport(r io.Reader, name string) (*Dataset, error) {
	return ReadCSVWith(r, name, CSVOptions{AllowEmpty: true, Canonical: true})
}

// ReadCSVWith parses CSV data with opts
func ReadCSVWith(r io.Reader, name string, opts CSVOptions) (*Dataset, error) {
	parse := ParseCell
	if opts.Canonical {
		parse = ParseCanonicalCell
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoColumns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[i] = util.ToValidUTF8(h)
	}

	var rows [][]Value
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", line, err)
		}
		if len(record) != len(columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, expected %d", ErrRowWidth, line, len(record), len(columns))
		}

		row := make([]Value, len(record))
		for i, cell := range record {
			row[i] = parse(util.ToValidUTF8(cell))
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 && !opts.AllowEmpty {
		return nil, ErrEmptyDataset
	}

	return New(name, columns, rows)
}
