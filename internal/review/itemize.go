// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"strconv"
	"strings"

	"github.com/pdiddy/sb2review/pkg/types"
)

type itemKind int

const (
	itemNormal itemKind = iota
	itemNumber
)

// item is one buffered line of an itemization run.
type item struct {
	level  int
	kind   itemKind
	number int    // itemNumber only
	raw    string // itemNumber only
	nodes  []types.Inline
}

// numbered reports whether items can be rendered as a Re:VIEW ordered list:
// all numbered, all at level 1, numbers increasing by one.
func numbered(items []item) bool {
	for i, it := range items {
		if it.kind != itemNumber || it.level != 1 {
			return false
		}
		if i > 0 && it.number-items[i-1].number != 1 {
			return false
		}
	}
	return true
}

// itemization renders one buffered itemization run, terminated by a blank line.
func (r *renderer) itemization(items []item) string {
	if len(items) == 0 {
		return ""
	}

	var out strings.Builder
	if numbered(items) {
		if first := items[0].number; first != 1 {
			out.WriteString("//olnum[" + strconv.Itoa(first) + "]\n\n")
		}
		for _, it := range items {
			out.WriteString(" " + strconv.Itoa(it.number) + ". " + r.inlines(it.nodes) + "\n")
		}
		out.WriteString("\n")
		return out.String()
	}

	for _, it := range items {
		bullet := " " + strings.Repeat("*", it.level) + " "
		if it.kind == itemNormal {
			out.WriteString(bullet + r.inlines(it.nodes) + "\n")
			continue
		}
		r.log.Error("Nested or discontinuous number list not supported: " + it.raw)
		out.WriteString(bullet + strconv.Itoa(it.number) + ". " + r.inlines(it.nodes) + "\n")
	}
	out.WriteString("\n")
	return out.String()
}
