package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/filter"
)

// DefaultFilename is the name used for CSV exports unless configured otherwise
const DefaultFilename = "risultati_filtrati.csv"

// Format selects the export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// resolveColumns keeps known columns; an empty selection means all columns
func resolveColumns(ds *dataset.Dataset, columns []string) ([]string, []int) {
	if len(columns) == 0 {
		columns = ds.ColumnNames()
	}
	names := make([]string, 0, len(columns))
	idx := make([]int, 0, len(columns))
	for _, c := range columns {
		if i := ds.ColumnIndex(c); i >= 0 {
			names = append(names, c)
			idx = append(idx, i)
		}
	}
	return names, idx
}

// WriteCSV writes the header and the raw values of rows, restricted to
// columns, as comma-separated UTF-8 text
func WriteCSV(w io.Writer, ds *dataset.Dataset, rows []int, columns []string) error {
	names, idx := resolveColumns(ds, columns)

	writer := csv.NewWriter(w)

	if err := writer.Write(names); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(idx))
	for _, r := range rows {
		for i, c := range idx {
			record[i] = ds.At(r, c).String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// WriteJSON writes rows as an array of objects keyed by column name
func WriteJSON(w io.Writer, ds *dataset.Dataset, rows []int, columns []string) error {
	names, idx := resolveColumns(ds, columns)

	records := make([][]any, 0, len(rows))
	for _, r := range rows {
		values := make([]any, len(idx))
		for i, c := range idx {
			values[i] = ds.At(r, c).Interface()
		}
		records = append(records, values)
	}
	return WriteRecordsJSON(w, names, records)
}

// WriteRecordsJSON writes records as an indented array of objects whose
// keys follow the order of columns
func WriteRecordsJSON(w io.Writer, columns []string, records [][]any) error {
	out := make([]orderedRow, len(records))
	for i, values := range records {
		out[i] = orderedRow{keys: columns, values: values}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows to JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ExportToCSV writes the filtered rows to a CSV file
func ExportToCSV(path string, ds *dataset.Dataset, res filter.Result, columns []string) error {
	return exportFile(path, func(w io.Writer) error {
		return WriteCSV(w, ds, res.RowIDs(), columns)
	})
}

// ExportToJSON writes the filtered rows to a JSON file
func ExportToJSON(path string, ds *dataset.Dataset, res filter.Result, columns []string) error {
	return exportFile(path, func(w io.Writer) error {
		return WriteJSON(w, ds, res.RowIDs(), columns)
	})
}

// Export dispatches on format
func Export(format Format, path string, ds *dataset.Dataset, res filter.Result, columns []string) error {
	switch format {
	case FormatJSON:
		return ExportToJSON(path, ds, res, columns)
	case FormatCSV, "":
		return ExportToCSV(path, ds, res, columns)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportFile(path string, write func(io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}
