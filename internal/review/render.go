// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package review renders a parsed Scrapbox page into Re:VIEW markup.
//
// Render is a single forward pass over the block sequence. Constructs that
// span several Scrapbox lines, itemizations and block quotes, are tracked in
// a state value owned by one Render call, so concurrent calls never share
// state. Unsupported input never aborts rendering: it is reported once
// through the Logger and replaced by a textual fallback.
package review

import (
	"regexp"
	"strings"

	"github.com/pdiddy/sb2review/pkg/types"
)

// Options configures a Render call.
type Options struct {
	// BaseHeadingLevel is the number of bold markers mapped to the top
	// heading level. Values below 1 select types.DefaultBaseHeadingLevel.
	BaseHeadingLevel int

	// Logger receives diagnostics. Nil logs through slog.Default().
	Logger Logger
}

// state tracks multi-line constructs across blocks.
type state struct {
	items        []item // buffered itemization, nil when none is open
	inBlockQuote bool
}

type renderer struct {
	base int
	log  Logger
	out  strings.Builder
	st   state
}

// Render converts blocks into Re:VIEW text. Open itemizations and quotes
// are closed at the end, and blank lines are normalized.
func Render(blocks []types.Block, opts Options) string {
	r := &renderer{
		base: types.ConverterConfig{BaseHeadingLevel: opts.BaseHeadingLevel}.HeadingLevel(),
		log:  opts.Logger,
	}
	if r.log == nil {
		r.log = NewSlogLogger(nil)
	}

	for i := range blocks {
		r.block(&blocks[i])
	}
	r.flushItemization()
	r.closeQuote()

	return Normalize(r.out.String())
}

// rule is the rendering rule selected for a block.
type rule int

const (
	ruleTitle rule = iota
	ruleQuote
	ruleItem
	ruleCodeBlock
	ruleTable
	ruleCommandLine
	ruleHeading
	ruleImage
	ruleFormula
	ruleLine
)

var ruleNames = []string{
	ruleTitle:       "title",
	ruleQuote:       "quote",
	ruleItem:        "item",
	ruleCodeBlock:   "codeBlock",
	ruleTable:       "table",
	ruleCommandLine: "commandLine",
	ruleHeading:     "heading",
	ruleImage:       "image",
	ruleFormula:     "formula",
	ruleLine:        "line",
}

func (r rule) String() string { return ruleNames[r] }

// classify selects the rendering rule for b. The checks run in a fixed
// precedence order and the first match wins; a line's leading inline node
// decides quote and command-line handling.
func classify(b *types.Block, base int) rule {
	lead := b.Leading()
	switch {
	case b.Kind == types.BlockTitle:
		return ruleTitle
	case b.Indent == 0 && lead != nil && lead.Kind == types.InlineQuote:
		return ruleQuote
	case b.Indent != 0:
		return ruleItem
	case b.Kind == types.BlockCodeBlock:
		return ruleCodeBlock
	case b.Kind == types.BlockTable:
		return ruleTable
	case lead != nil && lead.Kind == types.InlineCommandLine:
		return ruleCommandLine
	case headingMarks(b, base) > 0:
		return ruleHeading
	case soleNode(b, types.InlineImage, types.InlineStrongImage):
		return ruleImage
	case soleNode(b, types.InlineFormula):
		return ruleFormula
	default:
		return ruleLine
	}
}

// headingMarks returns the number of bold markers when b is a heading line
// for the given base level, and 0 otherwise. A heading is a line made of a
// single decoration whose marks are two or more asterisks, at most base.
func headingMarks(b *types.Block, base int) int {
	if b.Kind != types.BlockLine || len(b.Nodes) != 1 {
		return 0
	}
	n := &b.Nodes[0]
	if n.Kind != types.InlineDecoration || n.RawDecos == "*" || !asterisks.MatchString(n.RawDecos) {
		return 0
	}
	if len(n.RawDecos) > base {
		return 0
	}
	return len(n.RawDecos)
}

var asterisks = regexp.MustCompile(`^\*+$`)

// soleNode reports whether b is a line holding exactly one inline node of
// one of the given kinds.
func soleNode(b *types.Block, kinds ...types.InlineKind) bool {
	if b.Kind != types.BlockLine || len(b.Nodes) != 1 {
		return false
	}
	for _, k := range kinds {
		if b.Nodes[0].Kind == k {
			return true
		}
	}
	return false
}

func (r *renderer) block(b *types.Block) {
	rl := classify(b, r.base)
	if rl == ruleTitle {
		r.out.WriteString("= " + b.Text + "\n\n")
		return
	}

	if b.Indent == 0 {
		r.flushItemization()
	}
	if rl != ruleQuote {
		r.closeQuote()
	}

	switch rl {
	case ruleQuote:
		if !r.st.inBlockQuote {
			r.st.inBlockQuote = true
			r.out.WriteString("//quote{\n")
		}
		r.out.WriteString(r.inlines(b.Nodes[0].Nodes) + "\n")

	case ruleItem:
		r.bufferItem(b)

	case ruleCodeBlock:
		r.out.WriteString("//emlist[" + EscapeBlockOption(b.FileName) + "]{\n" + b.Content + "\n//}\n\n")

	case ruleTable:
		r.out.WriteString(r.table(b) + "\n\n")

	case ruleCommandLine:
		r.out.WriteString("//cmd{\n" + b.Nodes[0].Raw + "\n//}\n\n")

	case ruleHeading:
		deco := &b.Nodes[0]
		if soleImage(deco.Nodes) {
			r.out.WriteString("//indepimage[" + EscapeBlockOption(deco.Nodes[0].Src) + "]\n\n")
			return
		}
		level := r.base + 2 - headingMarks(b, r.base)
		r.out.WriteString(strings.Repeat("=", level) + " " + r.inlines(deco.Nodes) + "\n\n")

	case ruleImage:
		r.out.WriteString("//indepimage[" + EscapeBlockOption(b.Nodes[0].Src) + "]\n\n")

	case ruleFormula:
		r.out.WriteString("//texequation{\n" + b.Nodes[0].Formula + "\n//}\n\n")

	case ruleLine:
		r.out.WriteString(r.inlines(b.Nodes) + "\n\n")
	}
}

// bufferItem adds an indented block to the open itemization.
func (r *renderer) bufferItem(b *types.Block) {
	if b.Kind != types.BlockLine {
		switch b.Kind {
		case types.BlockTable:
			r.log.Error("Table inside itemization not supported: " + b.FileName)
		case types.BlockCodeBlock:
			r.log.Error("Code block inside itemization not supported: " + b.FileName)
		}
		r.out.WriteString(" " + strings.Repeat("*", b.Indent) + "\n")
		return
	}

	lead := b.Leading()
	switch {
	case lead != nil && lead.Kind == types.InlineNumberList:
		r.st.items = append(r.st.items, item{
			level:  b.Indent,
			kind:   itemNumber,
			number: lead.Number,
			raw:    lead.Raw,
			nodes:  lead.Nodes,
		})
	case lead != nil && lead.Kind == types.InlineQuote:
		r.log.Error("Blockquote inside itemization not supported: " + lead.Raw)
		nodes := append([]types.Inline{{Kind: types.InlinePlain, Raw: lead.Raw, Text: lead.Raw}}, b.Nodes[1:]...)
		r.st.items = append(r.st.items, item{level: b.Indent, kind: itemNormal, nodes: nodes})
	default:
		r.st.items = append(r.st.items, item{level: b.Indent, kind: itemNormal, nodes: b.Nodes})
	}
}

func (r *renderer) flushItemization() {
	if r.st.items == nil {
		return
	}
	r.out.WriteString(r.itemization(r.st.items))
	r.st.items = nil
}

func (r *renderer) closeQuote() {
	if !r.st.inBlockQuote {
		return
	}
	r.st.inBlockQuote = false
	r.out.WriteString("//}\n\n")
}

var blankRun = regexp.MustCompile(`\n{2,}`)

// Normalize collapses runs of blank lines into one and ends the text with
// exactly one newline. It is idempotent.
func Normalize(s string) string {
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimRight(s, "\n") + "\n"
}
