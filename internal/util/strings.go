package util

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/encoding/charmap"
)

// ToValidUTF8 ensures a string is valid UTF-8.
// Spreadsheets exported from older tools are often Latin-1, so invalid
// input is decoded as ISO-8859-1 rather than replaced.
func ToValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err == nil {
		return decoded
	}

	runes := make([]rune, len(s))
	for i := 0; i < len(s); i++ {
		runes[i] = rune(s[i])
	}
	return string(runes)
}

// Truncate shortens s to fit width terminal cells, adding "…" if needed
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Pad right-pads s with spaces to width cells without truncating
func Pad(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadLeft left-pads s with spaces to width cells without truncating
func PadLeft(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

// PadOrTruncate returns s at exactly width cells
func PadOrTruncate(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// DisplayWidth returns the number of terminal cells s occupies
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}
