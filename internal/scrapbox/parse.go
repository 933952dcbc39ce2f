// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scrapbox parses Scrapbox page text into the block and inline node
// tree defined in pkg/types. Parsing never fails: text that matches no
// construct becomes plain text.
package scrapbox

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/sb2review/pkg/types"
)

// Options configures the parser.
type Options struct {
	// HasTitle makes the first line a title block.
	HasTitle bool
}

const (
	codePrefix  = "code:"
	tablePrefix = "table:"
)

// Parse splits src into lines and builds the block sequence.
func Parse(src string, opt Options) []types.Block {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	var blocks []types.Block
	for i := 0; i < len(lines); {
		raw := lines[i]
		indent, text := splitIndent(raw)

		if i == 0 && opt.HasTitle {
			blocks = append(blocks, types.Block{Kind: types.BlockTitle, Raw: raw, Text: text})
			i++
			continue
		}

		if name, ok := blockName(text, codePrefix); ok {
			body, next := children(lines, i+1, indent)
			blocks = append(blocks, types.Block{
				Kind:     types.BlockCodeBlock,
				Indent:   indent,
				Raw:      strings.Join(lines[i:next], "\n"),
				FileName: name,
				Content:  strings.Join(body, "\n"),
			})
			i = next
			continue
		}

		if name, ok := blockName(text, tablePrefix); ok {
			body, next := children(lines, i+1, indent)
			cells := make([][][]types.Inline, len(body))
			for r, row := range body {
				cols := strings.Split(row, "\t")
				cells[r] = make([][]types.Inline, len(cols))
				for c, col := range cols {
					cells[r][c] = parseInline(col, inlineContext{})
				}
			}
			blocks = append(blocks, types.Block{
				Kind:     types.BlockTable,
				Indent:   indent,
				Raw:      strings.Join(lines[i:next], "\n"),
				FileName: name,
				Cells:    cells,
			})
			i = next
			continue
		}

		blocks = append(blocks, types.Block{
			Kind:   types.BlockLine,
			Indent: indent,
			Raw:    raw,
			Nodes:  parseInline(text, inlineContext{lineHead: true}),
		})
		i++
	}
	return blocks
}

// blockName returns the name following prefix ("code:", "table:"). The name
// must not be empty.
func blockName(text, prefix string) (string, bool) {
	name, ok := strings.CutPrefix(text, prefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// children collects the lines after start that are indented deeper than
// indent, with indent+1 leading characters removed. It returns the body and
// the index of the first line that does not belong to the block.
func children(lines []string, start, indent int) ([]string, int) {
	var body []string
	i := start
	for ; i < len(lines); i++ {
		n, _ := splitIndent(lines[i])
		if n <= indent {
			break
		}
		body = append(body, dropRunes(lines[i], indent+1))
	}
	return body, i
}

// splitIndent counts leading space, tab and ideographic space characters
// and returns the count with the remaining text.
func splitIndent(line string) (int, string) {
	n := 0
	for i, r := range line {
		if !isIndent(r) {
			return n, line[i:]
		}
		n++
	}
	return n, ""
}

func isIndent(r rune) bool {
	return r == ' ' || r == '\t' || r == '　'
}

func dropRunes(s string, n int) string {
	for ; n > 0 && s != ""; n-- {
		_, size := utf8.DecodeRuneInString(s)
		s = s[size:]
	}
	return s
}
