package dataset

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rebeliceyang/lazysheet/internal/util"
)

var ErrSheetNotFound = errors.New("sheet not found")

// LoadXLSX reads a worksheet. The first row is the header. An empty sheet
// name selects the first sheet of the workbook.
func LoadXLSX(path, sheet string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoColumns
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	formatted, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	if len(raw) == 0 {
		return nil, ErrNoColumns
	}

	width := 0
	for _, r := range raw {
		width = max(width, len(r))
	}

	columns := make([]string, width)
	for i := range columns {
		name := ""
		if i < len(raw[0]) {
			name = strings.TrimSpace(util.ToValidUTF8(raw[0][i]))
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		columns[i] = name
	}

	reader := &sheetReader{file: f, sheet: sheet, dateStyles: make(map[int]bool)}
	rows := make([][]Value, 0, len(raw)-1)
	for r := 1; r < len(raw); r++ {
		row := make([]Value, width)
		for c := 0; c < width; c++ {
			if c >= len(raw[r]) {
				continue
			}
			shown := ""
			if r < len(formatted) && c < len(formatted[r]) {
				shown = formatted[r][c]
			}
			v, err := reader.cell(c+1, r+1, raw[r][c], shown)
			if err != nil {
				return nil, err
			}
			row[c] = v
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	return New(filepath.Base(path)+":"+sheet, columns, rows)
}

type sheetReader struct {
	file       *excelize.File
	sheet      string
	dateStyles map[int]bool
}

// cell converts one worksheet cell. Numbers stay numeric unless the cell
// carries a date format, in which case the displayed text is kept.
func (s *sheetReader) cell(col, row int, raw, shown string) (Value, error) {
	if raw == "" {
		return Null(), nil
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Null(), err
	}

	typ, err := s.file.GetCellType(s.sheet, axis)
	if err != nil {
		return Null(), fmt.Errorf("failed to read cell %s: %w", axis, err)
	}

	switch typ {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Text(util.ToValidUTF8(raw)), nil
		}
		if s.isDate(axis) {
			return Text(shown), nil
		}
		return Number(f), nil
	case excelize.CellTypeDate, excelize.CellTypeBool:
		return Text(shown), nil
	case excelize.CellTypeError:
		return Null(), nil
	default:
		return Text(util.ToValidUTF8(raw)), nil
	}
}

func (s *sheetReader) isDate(axis string) bool {
	styleID, err := s.file.GetCellStyle(s.sheet, axis)
	if err != nil || styleID == 0 {
		return false
	}
	if known, ok := s.dateStyles[styleID]; ok {
		return known
	}

	isDate := false
	if style, err := s.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt)
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	s.dateStyles[styleID] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in number format id renders a date or time
func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode inspects a custom format code for date or time tokens,
// ignoring quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	cleaned := strings.ToLower(b.String())
	return strings.ContainsAny(cleaned, "ydh") || strings.Contains(cleaned, "ss")
}
