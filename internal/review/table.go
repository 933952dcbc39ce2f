// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"strings"

	"github.com/pdiddy/sb2review/pkg/types"
)

// tableBorder separates the header row from the body in //emtable.
const tableBorder = "------------"

// table renders a table block as //emtable. The first row is the header.
func (r *renderer) table(b *types.Block) string {
	var out strings.Builder
	out.WriteString("//emtable[")
	out.WriteString(EscapeBlockOption(b.FileName))
	out.WriteString("]{\n")

	if len(b.Cells) == 0 {
		out.WriteString("//}")
		return out.String()
	}

	out.WriteString(r.tableRow(b.Cells[0]))
	out.WriteString("\n")
	out.WriteString(tableBorder)
	out.WriteString("\n")

	rows := make([]string, 0, len(b.Cells)-1)
	for _, row := range b.Cells[1:] {
		rows = append(rows, r.tableRow(row))
	}
	out.WriteString(strings.Join(rows, "\n"))
	out.WriteString("\n//}")
	return out.String()
}

// tableRow renders the cells of one row separated by tabs.
func (r *renderer) tableRow(row [][]types.Inline) string {
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = r.inlines(cell)
	}
	return strings.Join(cells, "\t")
}
