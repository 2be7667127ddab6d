// Package textfmt formats blocks of generated text.
package textfmt

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const (
	DefaultIndentation = 4
	DefaultWidth       = 79
)

// WrapAndIndent word-wraps each line to width-indentation columns and joins
// the pieces into one block, every piece indented by indentation spaces.
// A line that is exactly "\n" is kept as is; words longer than the
// available width are broken.
func WrapAndIndent(lines []string, indentation, width int) string {
	limit := width - indentation
	if limit < 1 {
		limit = 1
	}
	var pieces []string
	for _, line := range lines {
		if line == "\n" {
			pieces = append(pieces, line)
			continue
		}
		pieces = append(pieces, wrapLine(line, limit)...)
	}
	indent := strings.Repeat(" ", indentation)
	return indent + strings.Join(pieces, "\n"+indent)
}

// Block is WrapAndIndent with the default indentation and width.
func Block(lines ...string) string {
	return WrapAndIndent(lines, DefaultIndentation, DefaultWidth)
}

func wrapLine(line string, limit int) []string {
	line = strings.NewReplacer("\n", " ", "\t", " ", "\r", " ").Replace(line)
	if strings.TrimSpace(line) == "" {
		return nil
	}
	wrapped := wrap.String(wordwrap.String(line, limit), limit)
	var out []string
	for _, piece := range strings.Split(wrapped, "\n") {
		piece = strings.TrimRight(piece, " ")
		if piece == "" {
			continue
		}
		out = append(out, piece)
	}
	return out
}
