// Package table prints a rendered result table for headless use: an
// interactive viewer on a terminal, otherwise plain text, JSON or raw
// tab-separated output.
package table

import (
	"io"
	"os"
	"strings"

	"github.com/rebeliceyang/lazysheet/internal/render"
	"golang.org/x/term"
)

// DisplayOptions controls how results are rendered.
type DisplayOptions struct {
	// JSON outputs results as a JSON array of objects with raw values.
	JSON bool
	// Raw outputs raw values as tab-separated lines (for piping).
	Raw bool
	// NoPager forces plain table output even on a TTY.
	NoPager bool
	// Theme names the color theme of the interactive viewer.
	Theme string
	// Out receives non-interactive output; nil means stdout.
	Out io.Writer
}

// DisplayResults picks the right output mode based on options and
// environment, then renders t.
func DisplayResults(title string, t *render.Table, opts DisplayOptions) error {
	w := opts.Out
	if w == nil {
		w = os.Stdout
	}

	if opts.Raw {
		return PrintRaw(w, t)
	}

	if opts.JSON {
		return PrintJSONResults(w, t)
	}

	f, ok := w.(*os.File)
	isTTY := ok && term.IsTerminal(int(f.Fd()))

	if !isTTY || opts.NoPager || len(t.Rows) == 0 {
		return PrintPlainTable(w, t)
	}

	return RunTableTUI(title, t, opts.Theme)
}

// PrintRaw writes raw values, one tab-separated line per row, header first
func PrintRaw(w io.Writer, t *render.Table) error {
	if _, err := io.WriteString(w, strings.Join(t.ColumnNames(), "\t")+"\n"); err != nil {
		return err
	}
	for _, row := range t.Rows {
		parts := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			parts[i] = c.Raw.String()
		}
		if _, err := io.WriteString(w, strings.Join(parts, "\t")+"\n"); err != nil {
			return err
		}
	}
	return nil
}
