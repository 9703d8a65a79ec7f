package util

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestToValidUTF8(t *testing.T) {
	if got := ToValidUTF8("Città"); got != "Città" {
		t.Errorf("valid input changed: %q", got)
	}

	latin1 := string([]byte{'C', 'i', 't', 't', 0xe0})
	if got := ToValidUTF8(latin1); got != "Città" {
		t.Errorf("ToValidUTF8(latin1) = %q, want %q", got, "Città")
	}
}

func TestErrorFormat(t *testing.T) {
	cause := errors.New("open data.xlsx: no such file or directory")
	err := NewError("Cannot load dataset").
		WithMessage("The data file could not be opened").
		WithCauses("The file does not exist").
		WithSuggestions("lazysheet --file path/to/data.xlsx").
		Wrap(cause)

	out := err.Format()
	for _, want := range []string{"Error: Cannot load dataset", "Possible causes:", "Try:", "no such file"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}

	wrapped := fmt.Errorf("startup: %w", err)
	se, ok := AsError(wrapped)
	if !ok || se.Title != "Cannot load dataset" {
		t.Errorf("AsError() = %v, %v", se, ok)
	}
}

func TestPadOrTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Div", 5, "Div  "},
		{"Nome Mercato", 6, "Nome …"},
		{"abc", 3, "abc"},
		{"Città", 7, "Città  "},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		if got := PadOrTruncate(tt.in, tt.width); got != tt.want {
			t.Errorf("PadOrTruncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if got := DisplayWidth(PadOrTruncate(tt.in, tt.width)); got != tt.width {
			t.Errorf("width of PadOrTruncate(%q, %d) = %d", tt.in, tt.width, got)
		}
	}
}

func TestPadLeft(t *testing.T) {
	if got := PadLeft("42", 5); got != "   42" {
		t.Errorf("PadLeft = %q", got)
	}
	if got := PadLeft("123456", 3); got != "123456" {
		t.Errorf("PadLeft must not truncate, got %q", got)
	}
}
