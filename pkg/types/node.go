// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data structures shared across sb2review stages:
// the parsed Scrapbox page tree, conversion diagnostics, and configuration.
package types

// BlockKind identifies the variant of a Block.
type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockLine
	BlockCodeBlock
	BlockTable
)

var blockKindNames = []string{
	BlockTitle:     "title",
	BlockLine:      "line",
	BlockCodeBlock: "codeBlock",
	BlockTable:     "table",
}

func (k BlockKind) String() string {
	if int(k) < 0 || int(k) >= len(blockKindNames) {
		return "unknown"
	}
	return blockKindNames[k]
}

// Block is one block-level node of a parsed page. Only the fields documented
// for its Kind are populated.
type Block struct {
	Kind   BlockKind // Determines which of the fields below are meaningful
	Indent int       // Leading indentation units; always 0 for titles
	Raw    string    // Source slice the block was parsed from

	Text     string       // Populated if Kind == BlockTitle
	Nodes    []Inline     // Populated if Kind == BlockLine
	FileName string       // Populated if Kind == BlockCodeBlock or BlockTable
	Content  string       // Populated if Kind == BlockCodeBlock
	Cells    [][][]Inline // Populated if Kind == BlockTable: rows, columns, inlines
}

// Leading returns the first inline node of a line block, or nil when the
// block is not a line or has no inline nodes.
func (b *Block) Leading() *Inline {
	if b.Kind != BlockLine || len(b.Nodes) == 0 {
		return nil
	}
	return &b.Nodes[0]
}

// InlineKind identifies the variant of an Inline node.
type InlineKind int

const (
	InlinePlain InlineKind = iota
	InlineBlank
	InlineStrong
	InlineDecoration
	InlineCode
	InlineCommandLine
	InlineFormula
	InlineImage
	InlineStrongImage
	InlineIcon
	InlineStrongIcon
	InlineLink
	InlineHashTag
	InlineNumberList
	InlineQuote
	InlineHelpfeel
	InlineGoogleMap
)

var inlineKindNames = []string{
	InlinePlain:       "plain",
	InlineBlank:       "blank",
	InlineStrong:      "strong",
	InlineDecoration:  "decoration",
	InlineCode:        "code",
	InlineCommandLine: "commandLine",
	InlineFormula:     "formula",
	InlineImage:       "image",
	InlineStrongImage: "strongImage",
	InlineIcon:        "icon",
	InlineStrongIcon:  "strongIcon",
	InlineLink:        "link",
	InlineHashTag:     "hashTag",
	InlineNumberList:  "numberList",
	InlineQuote:       "quote",
	InlineHelpfeel:    "helpfeel",
	InlineGoogleMap:   "googleMap",
}

func (k InlineKind) String() string {
	if int(k) < 0 || int(k) >= len(inlineKindNames) {
		return "unknown"
	}
	return inlineKindNames[k]
}

// PathType classifies the target of a link or icon.
type PathType string

const (
	PathRelative PathType = "relative"
	PathRoot     PathType = "root"
	PathAbsolute PathType = "absolute"
)

// Inline is one inline node of a line or table cell.
type Inline struct {
	Kind InlineKind
	Raw  string // Source slice, used for fallbacks and diagnostics

	Text  string   // plain, blank, code, commandLine (without symbol), hashTag, helpfeel
	Nodes []Inline // strong, decoration, quote, numberList

	RawDecos string   // decoration: mark characters as written, e.g. "**/"
	Decos    []string // decoration: distinct marks, asterisks folded into "*-N"

	Symbol  string // commandLine: "$" or "%"
	Formula string // formula

	Src  string // image, strongImage
	Link string // image, strongImage: optional link target

	Path     string   // icon, strongIcon: path without ".icon"
	PathType PathType // icon, strongIcon, link
	Href     string   // link
	Content  string   // link: display text, may be empty

	Number    int    // numberList
	RawNumber string // numberList: digits as written

	Latitude  float64 // googleMap
	Longitude float64 // googleMap
	Zoom      int     // googleMap
	Place     string  // googleMap
}
