// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sb2review/internal/review"
	"github.com/pdiddy/sb2review/pkg/types"
)

func untitled() *bool {
	f := false
	return &f
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts Options
		want string
	}{
		{
			name: "heading",
			src:  "hoge\n[*** hoge]\n[** fuga]\n[* piyo]",
			want: "= hoge\n\n== hoge\n\n=== fuga\n\n@<strong>{piyo}\n",
		},
		{
			name: "heading with base level",
			src:  "hoge\n[**** hoge]\n[*** fuga]",
			opts: Options{BaseHeadingLevel: 4},
			want: "= hoge\n\n== hoge\n\n=== fuga\n",
		},
		{
			name: "decoration",
			src:  `[[Bold]][* Bold{}{}\][**/- BoldStrikeItalic]`,
			opts: Options{HasTitle: untitled()},
			want: `@<strong>{Bold}@<strong>{Bold{\}{\}\\}@<strong>{@<del>{@<i>{BoldStrikeItalic}}}` + "\n",
		},
		{
			name: "external link",
			src:  "https://google.com [https://google.com/,{}] [https://google.com G,{}] [G https://google.com]",
			opts: Options{HasTitle: untitled()},
			want: `@<href>{https://google.com} @<href>{https://google.com/\,{\}} @<href>{https://google.com, G\,{\}} @<href>{https://google.com, G}` + "\n",
		},
		{
			name: "link across projects",
			src:  "[/projectname][/projectname/pagename]",
			opts: Options{HasTitle: untitled()},
			want: "@<href>{https://scrapbox.io/projectname}@<href>{https://scrapbox.io/projectname/pagename}\n",
		},
		{
			name: "inline code",
			src:  "`\\code{}\\`",
			opts: Options{HasTitle: untitled()},
			want: `@<code>{\code{\}\\}` + "\n",
		},
		{
			name: "formula",
			src:  `The answer should be [$ x = \frac{1}{2}]`,
			opts: Options{HasTitle: untitled()},
			want: `The answer should be @<m>{x = \frac{1\}{2\}}` + "\n",
		},
		{
			name: "formula in itemization",
			src:  ` [$ x = \frac{1}{2}]`,
			opts: Options{HasTitle: untitled()},
			want: ` * @<m>{x = \frac{1\}{2\}}` + "\n",
		},
		{
			name: "block formula",
			src:  `[$ x = \frac{1}{2}]`,
			opts: Options{HasTitle: untitled()},
			want: "//texequation{\nx = \\frac{1}{2}\n//}\n",
		},
		{
			name: "block formula then text",
			src:  "[$ x]\nfoo",
			opts: Options{HasTitle: untitled()},
			want: "//texequation{\nx\n//}\n\nfoo\n",
		},
		{
			name: "multiline text",
			src:  "hoge\nfuga",
			opts: Options{HasTitle: untitled()},
			want: "hoge\n\nfuga\n",
		},
		{
			name: "itemization",
			src:  "foo\n hoge\n\t\tfuga\n  piyo\nfoo",
			opts: Options{HasTitle: untitled()},
			want: "foo\n\n * hoge\n ** fuga\n ** piyo\n\nfoo\n",
		},
		{
			name: "block quote",
			src:  ">hoge\n>hoge[* fuga]\nfoo\n",
			opts: Options{HasTitle: untitled()},
			want: "//quote{\nhoge\nhoge@<strong>{fuga}\n//}\n\nfoo\n",
		},
		{
			name: "command line",
			src:  "$ cmd\n% cmd",
			opts: Options{HasTitle: untitled()},
			want: "//cmd{\n$ cmd\n//}\n\n//cmd{\n% cmd\n//}\n",
		},
		{
			name: "command line inside itemization",
			src:  "\t$ aaa\n\t % bbb\n",
			opts: Options{HasTitle: untitled()},
			want: " * @<code>{$ aaa}\n ** @<code>{% bbb}\n",
		},
		{
			name: "code block",
			src:  "code:a.js[]\n function a() {\n     console.log(\"hoge\");\n }\nfoo",
			opts: Options{HasTitle: untitled()},
			want: "//emlist[a.js[\\]]{\nfunction a() {\n    console.log(\"hoge\");\n}\n//}\n\nfoo\n",
		},
		{
			name: "table",
			src:  "table:title[]\n abc\tdef\n aaaaaaaaaaaa\tbbbbbb\n col1\tcol2\ntext",
			opts: Options{HasTitle: untitled()},
			want: "//emtable[title[\\]]{\nabc\tdef\n------------\naaaaaaaaaaaa\tbbbbbb\ncol1\tcol2\n//}\n\ntext\n",
		},
		{
			name: "image",
			src: "[https://scrapbox.io/files/aaaaa.jpg]\n" +
				"[[https://scrapbox.io/files/bbbbb.jpg]]\n" +
				"hoge[https://scrapbox.io/files/bbbbb.jpg]fuga\n" +
				"foo[[https://scrapbox.io/files/bbbbb.jpg]]bar",
			opts: Options{HasTitle: untitled()},
			want: "//indepimage[https://scrapbox.io/files/aaaaa.jpg]\n\n" +
				"//indepimage[https://scrapbox.io/files/bbbbb.jpg]\n\n" +
				"hoge@<icon>{https://scrapbox.io/files/bbbbb.jpg}fuga\n\n" +
				"foo@<icon>{https://scrapbox.io/files/bbbbb.jpg}bar\n",
		},
		{
			name: "icon",
			src:  "[hoge.icon][/help-jp/Scrapbox.icon][[fuga.icon]]",
			opts: Options{HasTitle: untitled()},
			want: "@<icon>{hoge.icon}@<icon>{/help-jp/Scrapbox.icon}@<icon>{fuga.icon}\n",
		},
		{
			name: "empty list item",
			src:  "test\n \ntest2",
			opts: Options{HasTitle: untitled()},
			want: "test\n\n * \n\ntest2\n",
		},
		{
			name: "code block after itemization",
			src:  "\taaa\ncode:js\n const a = \"\";",
			opts: Options{HasTitle: untitled()},
			want: " * aaa\n\n//emlist[js]{\nconst a = \"\";\n//}\n",
		},
		{
			name: "table after itemization",
			src:  "\taaa\ntable:hoge\n aaa\n\n",
			opts: Options{HasTitle: untitled()},
			want: " * aaa\n\n//emtable[hoge]{\naaa\n------------\n\n//}\n",
		},
		{
			name: "block quote in the last line",
			src:  ">aaa",
			opts: Options{HasTitle: untitled()},
			want: "//quote{\naaa\n//}\n",
		},
		{
			name: "itemization after block quote",
			src:  ">aaa\n\thoge",
			opts: Options{HasTitle: untitled()},
			want: "//quote{\naaa\n//}\n\n * hoge\n",
		},
		{
			name: "block quote after itemization",
			src:  "\thoge\n>aaa\nhoge",
			opts: Options{HasTitle: untitled()},
			want: " * hoge\n\n//quote{\naaa\n//}\n\nhoge\n",
		},
		{
			name: "lines larger than base heading level",
			src:  "[******* large!!!]\nh",
			opts: Options{HasTitle: untitled(), BaseHeadingLevel: 3},
			want: "@<strong>{large!!!}\n\nh\n",
		},
		{
			name: "enlarged image",
			src:  "[*** [https://scrapbox.io/files/aaaaa.jpg]]\nimage",
			opts: Options{HasTitle: untitled()},
			want: "//indepimage[https://scrapbox.io/files/aaaaa.jpg]\n\nimage\n",
		},
		{
			name: "enlarged icon",
			src:  "[*** [https://example.org/hoge.jpg]]を",
			opts: Options{HasTitle: untitled()},
			want: "@<icon>{https://example.org/hoge.jpg}を\n",
		},
		{
			name: "numbered list without indent",
			src:  "1. hoge\n2.  fuga",
			opts: Options{HasTitle: untitled()},
			want: "1. hoge\n\n2.  fuga\n",
		},
		{
			name: "basic number list",
			src:  " 1. hoge\n 2. `fuga`",
			opts: Options{HasTitle: untitled()},
			want: " 1. hoge\n 2. @<code>{fuga}\n",
		},
		{
			name: "number list starting above one",
			src:  " 10. hoge\n 11. fuga",
			opts: Options{HasTitle: untitled()},
			want: "//olnum[10]\n\n 10. hoge\n 11. fuga\n",
		},
		{
			name: "blank",
			src:  "[https://example.com [ ]link text]",
			opts: Options{HasTitle: untitled()},
			want: "[@<href>{https://example.com}  link text]\n",
		},
		{
			name: "title only",
			src:  "hoge",
			want: "= hoge\n",
		},
		{
			name: "empty untitled page",
			src:  "",
			opts: Options{HasTitle: untitled()},
			want: "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := review.NewCollector(nil)
			tt.opts.Logger = c
			assert.Equal(t, tt.want, Convert(tt.src, tt.opts))
		})
	}
}

func TestConvertWithDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		levels []types.DiagnosticLevel
		mentns []string
	}{
		{
			name:   "clean page",
			src:    "hoge\nfuga",
			levels: []types.DiagnosticLevel{},
		},
		{
			name:   "relative link",
			src:    "t\nsee [other page]",
			levels: []types.DiagnosticLevel{types.LevelError},
			mentns: []string{"[other page]"},
		},
		{
			name:   "root link and icon",
			src:    "t\n[/proj/page] [hoge.icon]",
			levels: []types.DiagnosticLevel{types.LevelWarn, types.LevelWarn},
			mentns: []string{"[/proj/page]", "[hoge.icon]"},
		},
		{
			name:   "hashtag",
			src:    "t\nword #tag",
			levels: []types.DiagnosticLevel{types.LevelError},
			mentns: []string{"#tag"},
		},
		{
			name:   "discontinuous numbered list",
			src:    "t\n 1. a\n 3. b",
			levels: []types.DiagnosticLevel{types.LevelError, types.LevelError},
		},
		{
			name:   "code block inside itemization",
			src:    "t\n a\n code:x.go\n  x",
			levels: []types.DiagnosticLevel{types.LevelError},
			mentns: []string{"x.go"},
		},
		{
			name:   "quote inside itemization",
			src:    "t\n >q",
			levels: []types.DiagnosticLevel{types.LevelError},
			mentns: []string{">q"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := ConvertWithDiagnostics(tt.src, Options{})
			got := make([]types.DiagnosticLevel, len(diags))
			for i, d := range diags {
				got[i] = d.Level
			}
			assert.Equal(t, tt.levels, got)
			for i, m := range tt.mentns {
				require.Greater(t, len(diags), i)
				assert.Contains(t, diags[i].Message, m)
			}
		})
	}
}

func TestConvertWithDiagnostics_Forwards(t *testing.T) {
	next := review.NewCollector(nil)
	_, diags := ConvertWithDiagnostics("t\n[rel]", Options{Logger: next})
	assert.Equal(t, diags, next.Diagnostics())
}

func TestConvert_DiscontinuousListOutput(t *testing.T) {
	out := Convert(" 1. a\n 3. b", Options{HasTitle: untitled(), Logger: review.NewCollector(nil)})
	assert.Equal(t, " * 1. a\n * 3. b\n", out)
}

func TestConvert_Parallel(t *testing.T) {
	srcs := []string{
		"a\n hoge\n  fuga\nend",
		"b\n>quote\nafter",
		"c\n 1. x\n 2. y",
	}
	want := make([]string, len(srcs))
	for i, s := range srcs {
		want[i] = Convert(s, Options{Logger: review.NewCollector(nil)})
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for n := 0; n < 16; n++ {
		for i, s := range srcs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if got := Convert(s, Options{Logger: review.NewCollector(nil)}); got != want[i] {
					errs <- got
				}
			}()
		}
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Errorf("parallel conversion differs: %q", got)
	}
}

func TestConvert_OutputShape(t *testing.T) {
	srcs := []string{
		"t\n\n\n\nx",
		"t\n hoge\n\n\n",
		"t\n>a\n\n>b",
		"t\ntable:x\n\ny",
	}
	for _, s := range srcs {
		out := Convert(s, Options{Logger: review.NewCollector(nil)})
		assert.NotContains(t, out, "\n\n\n", "source %q", s)
		assert.True(t, strings.HasSuffix(out, "\n"))
		assert.False(t, strings.HasSuffix(out, "\n\n"), "source %q", s)
	}
}
