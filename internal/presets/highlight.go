package presets

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightYAML colors YAML for a 256-color terminal. On any failure the
// input is returned unchanged.
func HighlightYAML(src string, style string) string {
	lexer := lexers.Get("yaml")
	if lexer == nil {
		return src
	}
	lexer = chroma.Coalesce(lexer)

	chromaStyle := styles.Get(style)
	if chromaStyle == nil {
		chromaStyle = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, chromaStyle, iterator); err != nil {
		return src
	}

	out := buf.String()
	if !strings.HasSuffix(src, "\n") {
		out = strings.TrimSuffix(out, "\n")
	}
	return out
}
