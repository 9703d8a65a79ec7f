package table

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rebeliceyang/lazysheet/internal/dataset"
	"github.com/rebeliceyang/lazysheet/internal/export"
	"github.com/rebeliceyang/lazysheet/internal/render"
	"github.com/rebeliceyang/lazysheet/internal/ui/styles"
	"github.com/rebeliceyang/lazysheet/internal/util"
)

// PrintJSONResults outputs results as a JSON array of objects. Values are
// raw: numbers stay numbers and empty cells are null.
func PrintJSONResults(w io.Writer, t *render.Table) error {
	records := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		values := make([]any, len(row.Cells))
		for j, c := range row.Cells {
			values[j] = c.Raw.Interface()
		}
		records[i] = values
	}
	return export.WriteRecordsJSON(w, t.ColumnNames(), records)
}

// PrintPlainTable prints an aligned table of formatted cells. Column widths
// follow the content, highlighted cells are colored unless colors are off.
func PrintPlainTable(w io.Writer, t *render.Table) error {
	bw := bufio.NewWriter(w)

	if len(t.Columns) == 0 {
		fmt.Fprintln(bw, "(0 righe)")
		return bw.Flush()
	}

	colWidths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		colWidths[i] = util.DisplayWidth(col.Name)
	}
	for _, row := range t.Rows {
		for i, c := range row.Cells {
			if n := util.DisplayWidth(c.Text); n > colWidths[i] {
				colWidths[i] = n
			}
		}
	}

	for i, col := range t.Columns {
		if i > 0 {
			fmt.Fprint(bw, "  ")
		}
		fmt.Fprint(bw, styles.Header(util.Pad(col.Name, colWidths[i])))
	}
	fmt.Fprintln(bw)

	for i, width := range colWidths {
		if i > 0 {
			fmt.Fprint(bw, "  ")
		}
		fmt.Fprint(bw, strings.Repeat("─", width))
	}
	fmt.Fprintln(bw)

	for _, row := range t.Rows {
		for i, c := range row.Cells {
			if i > 0 {
				fmt.Fprint(bw, "  ")
			}
			text := util.Pad(c.Text, colWidths[i])
			if t.Columns[i].Type == dataset.Numeric {
				text = util.PadLeft(c.Text, colWidths[i])
			}
			fmt.Fprint(bw, styles.Highlight(c.Style, text))
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, styles.MutedMsg(t.Message))
	if t.Summary != "" {
		fmt.Fprintln(bw, styles.MutedMsg(t.Summary))
	}
	return bw.Flush()
}
