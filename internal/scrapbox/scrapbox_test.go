// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrapbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sb2review/pkg/types"
)

func kinds(nodes []types.Inline) []types.InlineKind {
	out := make([]types.InlineKind, len(nodes))
	for i, n := range nodes {
		out[i] = n.Kind
	}
	return out
}

func lineNodes(t *testing.T, text string) []types.Inline {
	t.Helper()
	blocks := Parse(text, Options{})
	require.Len(t, blocks, 1)
	require.Equal(t, types.BlockLine, blocks[0].Kind)
	return blocks[0].Nodes
}

func TestParse_Title(t *testing.T) {
	blocks := Parse("hoge\nfuga", Options{HasTitle: true})
	require.Len(t, blocks, 2)
	assert.Equal(t, types.BlockTitle, blocks[0].Kind)
	assert.Equal(t, "hoge", blocks[0].Text)
	assert.Equal(t, types.BlockLine, blocks[1].Kind)

	blocks = Parse("hoge", Options{})
	require.Len(t, blocks, 1)
	assert.Equal(t, types.BlockLine, blocks[0].Kind)
}

func TestParse_Indent(t *testing.T) {
	tests := []struct {
		line   string
		indent int
	}{
		{"aaa", 0},
		{" aaa", 1},
		{"\t aaa", 2},
		{"　　aaa", 2},
		{"   ", 3},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			blocks := Parse(tt.line, Options{})
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.indent, blocks[0].Indent)
		})
	}
}

func TestParse_CodeBlock(t *testing.T) {
	blocks := Parse("code:hoge.js\n const a = 1;\n  nested\nafter", Options{})
	require.Len(t, blocks, 2)
	cb := blocks[0]
	assert.Equal(t, types.BlockCodeBlock, cb.Kind)
	assert.Equal(t, "hoge.js", cb.FileName)
	assert.Equal(t, "const a = 1;\n nested", cb.Content)
	assert.Equal(t, "code:hoge.js\n const a = 1;\n  nested", cb.Raw)
	assert.Equal(t, types.BlockLine, blocks[1].Kind)
}

func TestParse_IndentedCodeBlock(t *testing.T) {
	blocks := Parse(" code:a.sh\n  echo\n b", Options{})
	require.Len(t, blocks, 2)
	assert.Equal(t, types.BlockCodeBlock, blocks[0].Kind)
	assert.Equal(t, 1, blocks[0].Indent)
	assert.Equal(t, "echo", blocks[0].Content)
	assert.Equal(t, 1, blocks[1].Indent)
}

func TestParse_EmptyCodeName(t *testing.T) {
	blocks := Parse("code:", Options{})
	require.Len(t, blocks, 1)
	assert.Equal(t, types.BlockLine, blocks[0].Kind)
}

func TestParse_Table(t *testing.T) {
	blocks := Parse("table:hoge\n a\tb\n `c`\td", Options{})
	require.Len(t, blocks, 1)
	tb := blocks[0]
	assert.Equal(t, types.BlockTable, tb.Kind)
	assert.Equal(t, "hoge", tb.FileName)
	require.Len(t, tb.Cells, 2)
	require.Len(t, tb.Cells[0], 2)
	assert.Equal(t, "a", tb.Cells[0][0][0].Text)
	assert.Equal(t, "b", tb.Cells[0][1][0].Text)
	assert.Equal(t, types.InlineCode, tb.Cells[1][0][0].Kind)
}

func TestParse_EmptyTable(t *testing.T) {
	blocks := Parse("table:empty", Options{})
	require.Len(t, blocks, 1)
	assert.Equal(t, types.BlockTable, blocks[0].Kind)
	assert.Empty(t, blocks[0].Cells)
}

func TestParse_CRLF(t *testing.T) {
	blocks := Parse("a\r\nb", Options{})
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].Raw)
}

func TestInline_Kinds(t *testing.T) {
	tests := []struct {
		text string
		want []types.InlineKind
	}{
		{"plain text", []types.InlineKind{types.InlinePlain}},
		{"> quoted", []types.InlineKind{types.InlineQuote}},
		{"? question", []types.InlineKind{types.InlineHelpfeel}},
		{"a `b` c", []types.InlineKind{types.InlinePlain, types.InlineCode, types.InlinePlain}},
		{"$ ls -la", []types.InlineKind{types.InlineCommandLine}},
		{"% make", []types.InlineKind{types.InlineCommandLine}},
		{"a $ not command", []types.InlineKind{types.InlinePlain}},
		{`[$ x^2]`, []types.InlineKind{types.InlineFormula}},
		{"[ ]", []types.InlineKind{types.InlineBlank}},
		{"[* bold]", []types.InlineKind{types.InlineDecoration}},
		{"[[strong]]", []types.InlineKind{types.InlineStrong}},
		{"[[https://example.com/a.png]]", []types.InlineKind{types.InlineStrongImage}},
		{"[[hoge.icon]]", []types.InlineKind{types.InlineStrongIcon}},
		{"[https://example.com/a.PNG]", []types.InlineKind{types.InlineImage}},
		{"[https://example.com]", []types.InlineKind{types.InlineLink}},
		{"see https://example.com now", []types.InlineKind{types.InlinePlain, types.InlineLink, types.InlinePlain}},
		{"[hoge.icon]", []types.InlineKind{types.InlineIcon}},
		{"[N35.6,E139.7,Z14 Tokyo]", []types.InlineKind{types.InlineGoogleMap}},
		{"[page]", []types.InlineKind{types.InlineLink}},
		{"a #tag", []types.InlineKind{types.InlinePlain, types.InlinePlain, types.InlineHashTag}},
		{"1. first", []types.InlineKind{types.InlineNumberList}},
		{"x 1. first", []types.InlineKind{types.InlinePlain}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, kinds(lineNodes(t, tt.text)))
		})
	}
}

func TestInline_Decoration(t *testing.T) {
	tests := []struct {
		text     string
		rawDecos string
		decos    []string
	}{
		{"[* a]", "*", []string{"*-1"}},
		{"[*** a]", "***", []string{"*-3"}},
		{"[**/- a]", "**/-", []string{"/", "-", "*-2"}},
		{"[/*/ a]", "/*/", []string{"/", "*-1"}},
		{"[************ a]", "************", []string{"*-10"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			nodes := lineNodes(t, tt.text)
			require.Len(t, nodes, 1)
			assert.Equal(t, tt.rawDecos, nodes[0].RawDecos)
			assert.Equal(t, tt.decos, nodes[0].Decos)
			require.Len(t, nodes[0].Nodes, 1)
			assert.Equal(t, "a", nodes[0].Nodes[0].Text)
		})
	}
}

func TestInline_DecorationNestedImage(t *testing.T) {
	nodes := lineNodes(t, "[*** [https://example.org/hoge.jpg]]を")
	require.Equal(t, []types.InlineKind{types.InlineDecoration, types.InlinePlain}, kinds(nodes))
	require.Len(t, nodes[0].Nodes, 1)
	assert.Equal(t, types.InlineImage, nodes[0].Nodes[0].Kind)
	assert.Equal(t, "https://example.org/hoge.jpg", nodes[0].Nodes[0].Src)
}

func TestInline_NestedDisablesDecoration(t *testing.T) {
	nodes := parseInline("[* b]", inlineContext{nested: true})
	require.Len(t, nodes, 1)
	assert.Equal(t, types.InlineLink, nodes[0].Kind)
	assert.Equal(t, types.PathRelative, nodes[0].PathType)
}

func TestInline_StrongChildren(t *testing.T) {
	nodes := lineNodes(t, "[[a [b] c]]")
	require.Len(t, nodes, 1)
	assert.Equal(t, types.InlineStrong, nodes[0].Kind)
	assert.Equal(t, []types.InlineKind{types.InlinePlain, types.InlineLink, types.InlinePlain}, kinds(nodes[0].Nodes))
}

func TestInline_CommandLineKeepsCode(t *testing.T) {
	nodes := lineNodes(t, "$ echo `x`")
	require.Len(t, nodes, 1)
	assert.Equal(t, types.InlineCommandLine, nodes[0].Kind)
}

func TestInline_QuoteChildren(t *testing.T) {
	nodes := lineNodes(t, ">[* a] `b`")
	require.Len(t, nodes, 1)
	assert.Equal(t, ">[* a] `b`", nodes[0].Raw)
	assert.Equal(t, []types.InlineKind{types.InlineDecoration, types.InlinePlain, types.InlineCode}, kinds(nodes[0].Nodes))
}

func TestInline_Formula(t *testing.T) {
	nodes := lineNodes(t, `[$ x = \frac{1}{2}]`)
	require.Len(t, nodes, 1)
	assert.Equal(t, `x = \frac{1}{2}`, nodes[0].Formula)
}

func TestInline_Code(t *testing.T) {
	nodes := lineNodes(t, "`\\code{}\\`")
	require.Len(t, nodes, 1)
	assert.Equal(t, `\code{}\`, nodes[0].Text)
}

func TestInline_CommandLine(t *testing.T) {
	nodes := lineNodes(t, "% bbb")
	require.Len(t, nodes, 1)
	assert.Equal(t, "%", nodes[0].Symbol)
	assert.Equal(t, "bbb", nodes[0].Text)
	assert.Equal(t, "% bbb", nodes[0].Raw)
}

func TestInline_Links(t *testing.T) {
	tests := []struct {
		text     string
		href     string
		content  string
		pathType types.PathType
	}{
		{"[https://google.com/,{}]", "https://google.com/,{}", "", types.PathAbsolute},
		{"[https://google.com G,{}]", "https://google.com", "G,{}", types.PathAbsolute},
		{"[G https://google.com]", "https://google.com", "G", types.PathAbsolute},
		{"[Two words https://google.com]", "https://google.com", "Two words", types.PathAbsolute},
		{"https://google.com", "https://google.com", "", types.PathAbsolute},
		{"[/projectname/pagename]", "/projectname/pagename", "", types.PathRoot},
		{"[some page]", "some page", "", types.PathRelative},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			nodes := lineNodes(t, tt.text)
			require.Len(t, nodes, 1)
			assert.Equal(t, types.InlineLink, nodes[0].Kind)
			assert.Equal(t, tt.href, nodes[0].Href)
			assert.Equal(t, tt.content, nodes[0].Content)
			assert.Equal(t, tt.pathType, nodes[0].PathType)
		})
	}
}

func TestInline_LinkSequence(t *testing.T) {
	nodes := lineNodes(t, "[/projectname][/projectname/pagename]")
	require.Len(t, nodes, 2)
	assert.Equal(t, "/projectname", nodes[0].Href)
	assert.Equal(t, "/projectname/pagename", nodes[1].Href)
}

func TestInline_BlankInsideLinkText(t *testing.T) {
	nodes := lineNodes(t, "[https://example.com [ ]link text]")
	assert.Contains(t, kinds(nodes), types.InlineBlank)
	assert.Contains(t, kinds(nodes), types.InlineLink)
}

func TestInline_Image(t *testing.T) {
	tests := []struct {
		text string
		src  string
		link string
	}{
		{"[https://scrapbox.io/files/aaaaa.jpg]", "https://scrapbox.io/files/aaaaa.jpg", ""},
		{"[https://e.com/a.png https://e.com]", "https://e.com/a.png", "https://e.com"},
		{"[https://e.com https://e.com/a.png]", "https://e.com/a.png", "https://e.com"},
		{"[https://gyazo.com/0123456789abcdef0123456789abcdef]", "https://gyazo.com/0123456789abcdef0123456789abcdef", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			nodes := lineNodes(t, tt.text)
			require.Len(t, nodes, 1)
			assert.Equal(t, types.InlineImage, nodes[0].Kind)
			assert.Equal(t, tt.src, nodes[0].Src)
			assert.Equal(t, tt.link, nodes[0].Link)
		})
	}
}

func TestInline_Icons(t *testing.T) {
	nodes := lineNodes(t, "[hoge.icon][/help-jp/Scrapbox.icon][[fuga.icon]]")
	require.Equal(t, []types.InlineKind{types.InlineIcon, types.InlineIcon, types.InlineStrongIcon}, kinds(nodes))
	assert.Equal(t, "hoge", nodes[0].Path)
	assert.Equal(t, types.PathRelative, nodes[0].PathType)
	assert.Equal(t, "/help-jp/Scrapbox", nodes[1].Path)
	assert.Equal(t, types.PathRoot, nodes[1].PathType)
	assert.Equal(t, "fuga", nodes[2].Path)
}

func TestInline_IconRepeat(t *testing.T) {
	nodes := lineNodes(t, "[hoge.icon*3]")
	require.Len(t, nodes, 3)
	for _, n := range nodes {
		assert.Equal(t, types.InlineIcon, n.Kind)
		assert.Equal(t, "hoge", n.Path)
	}
}

func TestInline_IconRepeatClamped(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"at cap", "[a.icon*100]", maxIconRepeat},
		{"above cap", "[a.icon*101]", maxIconRepeat},
		{"overflows int", "[a.icon*10000000000]", maxIconRepeat},
		{"beyond int64", "[a.icon*99999999999999999999]", maxIconRepeat},
		{"strong above cap", "[[a.icon*5000]]", maxIconRepeat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes := lineNodes(t, tt.text)
			assert.Len(t, nodes, tt.want)
		})
	}
}

func TestInline_GoogleMap(t *testing.T) {
	tests := []struct {
		text  string
		lat   float64
		lng   float64
		zoom  int
		place string
	}{
		{"[N35.6,E139.7,Z12 Tokyo Tower]", 35.6, 139.7, 12, "Tokyo Tower"},
		{"[S33.8,W151.2]", -33.8, -151.2, 14, ""},
		{"[Sydney S33.8,E151.2,Z10]", -33.8, 151.2, 10, "Sydney"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			nodes := lineNodes(t, tt.text)
			require.Len(t, nodes, 1)
			n := nodes[0]
			assert.Equal(t, types.InlineGoogleMap, n.Kind)
			assert.InDelta(t, tt.lat, n.Latitude, 1e-9)
			assert.InDelta(t, tt.lng, n.Longitude, 1e-9)
			assert.Equal(t, tt.zoom, n.Zoom)
			assert.Equal(t, tt.place, n.Place)
		})
	}
}

func TestInline_HashTag(t *testing.T) {
	nodes := lineNodes(t, "#tag")
	require.Len(t, nodes, 1)
	assert.Equal(t, "#tag", nodes[0].Raw)
	assert.Equal(t, "tag", nodes[0].Text)
}

func TestInline_NumberList(t *testing.T) {
	blocks := Parse(" 2. `fuga`", Options{})
	require.Len(t, blocks, 1)
	require.Len(t, blocks[0].Nodes, 1)
	n := blocks[0].Nodes[0]
	assert.Equal(t, types.InlineNumberList, n.Kind)
	assert.Equal(t, 2, n.Number)
	assert.Equal(t, "2", n.RawNumber)
	assert.Equal(t, "2. `fuga`", n.Raw)
	assert.Equal(t, []types.InlineKind{types.InlineCode}, kinds(n.Nodes))
}

func TestInline_EmptyLine(t *testing.T) {
	assert.Empty(t, lineNodes(t, ""))
}
