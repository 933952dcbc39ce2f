// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrapbox

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/sb2review/pkg/types"
)

// inlineContext restricts the matchers tried on a piece of text.
type inlineContext struct {
	nested   bool // inside a decoration or strong node
	quoted   bool // inside a quote node
	lineHead bool // text starts at the head of its line
}

// rest is the context for text that follows a matched node.
func (c inlineContext) rest() inlineContext {
	c.lineHead = false
	return c
}

// matcher recognizes one inline construct. Patterns are tried in order and
// the leftmost match of the first matching pattern wins.
type matcher struct {
	patterns []*regexp.Regexp
	allowed  func(c inlineContext) bool
	create   func(raw string, c inlineContext) []types.Inline
}

func always(inlineContext) bool { return true }

func notNested(c inlineContext) bool { return !c.nested }

func atLineHead(c inlineContext) bool { return c.lineHead && !c.nested && !c.quoted }

// space is the set matched by \s in the patterns below.
const space = " \t\n\f\r"

const imageExt = `\.(?:png|jpe?g|gif|svg|webp)(?:\?[^\]\s]+)?`

var (
	imageURL = regexp.MustCompile(`(?i)^https?://[^\s\]]+` + imageExt + `$`)
	gyazoURL = regexp.MustCompile(`^https?://(?:[0-9a-z-]+\.)?gyazo\.com/[0-9a-f]{32}(?:/raw)?$`)
	numbered = regexp.MustCompile(`^([0-9]+)\. (.*)$`)
	mapPoint = regexp.MustCompile(`^([NS])(\d+(?:\.\d+)?),([EW])(\d+(?:\.\d+)?)(?:,Z(\d+))?$`)
)

// matchers lists the inline constructs by priority. Whole-line constructs
// come first so their children keep any nested spans.
var matchers []matcher

func init() {
	matchers = []matcher{
		{patterns: compile(`^>.*$`), allowed: atLineHead, create: quoteNode},
		{patterns: compile(`^\? .+$`), allowed: atLineHead, create: helpfeelNode},
		{patterns: compile(`^[$%] .+$`), allowed: atLineHead, create: commandLineNode},
		{patterns: compile(`^[0-9]+\. .*$`), allowed: atLineHead, create: numberListNode},
		{patterns: compile("`.*?`"), allowed: always, create: codeNode},
		{patterns: compile(`\[\$ .+?\]`, `\[\$[^\]]+\]`), allowed: always, create: formulaNode},
		{patterns: compile(`\[\s+\]`), allowed: always, create: blankNode},
		{
			patterns: compile(`\[[!"#%&'()*+,\-./{|}<>_~]+ (?:\[[^\[\]]+\]|[^\]])+\]`),
			allowed:  notNested,
			create:   decorationNode,
		},
		{
			patterns: compile(
				`(?i)\[\[https?://[^\s\]]+`+imageExt+`\]\]`,
				`\[\[https?://(?:[0-9a-z-]+\.)?gyazo\.com/[0-9a-f]{32}\]\]`,
			),
			allowed: notNested,
			create:  strongImageNode,
		},
		{patterns: compile(`\[\[[^\[\]]*\.icon(?:\*[1-9]\d*)?\]\]`), allowed: notNested, create: strongIconNode},
		{patterns: compile(`\[\[(?:[^\[]|\[[^\[])+?\]\]`), allowed: notNested, create: strongNode},
		{
			patterns: compile(
				`(?i)\[https?://[^\s\]]+`+imageExt+`(?:\s+https?://[^\s\]]+)?\]`,
				`(?i)\[https?://[^\s\]]+\s+https?://[^\s\]]+`+imageExt+`\]`,
				`\[https?://(?:[0-9a-z-]+\.)?gyazo\.com/[0-9a-f]{32}(?:/raw)?(?:\s+https?://[^\s\]]+)?\]`,
			),
			allowed: always,
			create:  imageNode,
		},
		{
			patterns: compile(
				`\[https?://[^\s\]]+\s+[^\]]*[^\s]\]`,
				`\[[^\[\]]*[^\s]\s+https?://[^\s\]]+\]`,
				`\[https?://[^\s\]]+\]`,
				`https?://[^\s\]]+`,
			),
			allowed: always,
			create:  externalLinkNode,
		},
		{patterns: compile(`\[[^\[\]]*\.icon(?:\*[1-9]\d*)?\]`), allowed: always, create: iconNode},
		{
			patterns: compile(
				`\[[NS]\d+(?:\.\d+)?,[EW]\d+(?:\.\d+)?(?:,Z\d+)?(?:\s+[^\]]*[^\s\]])?\]`,
				`\[[^\]]*[^\s\]]\s+[NS]\d+(?:\.\d+)?,[EW]\d+(?:\.\d+)?(?:,Z\d+)?\]`,
			),
			allowed: always,
			create:  googleMapNode,
		},
		{patterns: compile(`\[[^\[\]\s](?:[^\[\]]*[^\[\]\s])?\]`), allowed: always, create: internalLinkNode},
		{patterns: compile(`(?:^|\s)#\S+`), allowed: always, create: hashTagNode},
	}
}

func compile(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(e)
	}
	return res
}

// parseInline splits text at the first construct recognized by the highest
// priority matcher and parses the text on both sides recursively.
func parseInline(text string, c inlineContext) []types.Inline {
	if text == "" {
		return nil
	}
	for _, m := range matchers {
		if !m.allowed(c) {
			continue
		}
		for _, re := range m.patterns {
			loc := re.FindStringIndex(text)
			if loc == nil || loc[0] == loc[1] {
				continue
			}
			nodes := parseInline(text[:loc[0]], c)
			nodes = append(nodes, m.create(text[loc[0]:loc[1]], c)...)
			return append(nodes, parseInline(text[loc[1]:], c.rest())...)
		}
	}
	return []types.Inline{plainNode(text)}
}

func plainNode(text string) types.Inline {
	return types.Inline{Kind: types.InlinePlain, Raw: text, Text: text}
}

// inner strips one pair of enclosing brackets.
func inner(raw string, width int) string {
	return raw[width : len(raw)-width]
}

func quoteNode(raw string, c inlineContext) []types.Inline {
	return []types.Inline{{
		Kind:  types.InlineQuote,
		Raw:   raw,
		Nodes: parseInline(raw[1:], inlineContext{nested: c.nested, quoted: true}),
	}}
}

func helpfeelNode(raw string, _ inlineContext) []types.Inline {
	return []types.Inline{{Kind: types.InlineHelpfeel, Raw: raw, Text: raw[2:]}}
}

func codeNode(raw string, _ inlineContext) []types.Inline {
	return []types.Inline{{Kind: types.InlineCode, Raw: raw, Text: inner(raw, 1)}}
}

func commandLineNode(raw string, _ inlineContext) []types.Inline {
	return []types.Inline{{Kind: types.InlineCommandLine, Raw: raw, Symbol: raw[:1], Text: raw[2:]}}
}

func formulaNode(raw string, _ inlineContext) []types.Inline {
	start := 2
	if raw[2] == ' ' {
		start = 3
	}
	return []types.Inline{{Kind: types.InlineFormula, Raw: raw, Formula: raw[start : len(raw)-1]}}
}

func blankNode(raw string, _ inlineContext) []types.Inline {
	return []types.Inline{{Kind: types.InlineBlank, Raw: raw, Text: inner(raw, 1)}}
}

// maxBoldLevel caps the level encoded in a folded "*-N" mark.
const maxBoldLevel = 10

func decorationNode(raw string, c inlineContext) []types.Inline {
	body := inner(raw, 1)
	rawDecos, text, _ := strings.Cut(body, " ")
	return []types.Inline{{
		Kind:     types.InlineDecoration,
		Raw:      raw,
		RawDecos: rawDecos,
		Decos:    foldDecos(rawDecos),
		Nodes:    parseInline(text, inlineContext{nested: true, quoted: c.quoted}),
	}}
}

// foldDecos returns the distinct mark characters in first-seen order. All
// asterisks collapse into a single trailing "*-N" entry.
func foldDecos(rawDecos string) []string {
	var decos []string
	seen := map[rune]bool{}
	bold := 0
	for _, r := range rawDecos {
		if r == '*' {
			bold++
			continue
		}
		if !seen[r] {
			seen[r] = true
			decos = append(decos, string(r))
		}
	}
	if bold > 0 {
		decos = append(decos, "*-"+strconv.Itoa(min(bold, maxBoldLevel)))
	}
	return decos
}

func strongImageNode(raw string, _ inlineContext) []types.Inline {
	return []types.Inline{{Kind: types.InlineStrongImage, Raw: raw, Src: inner(raw, 2)}}
}

func strongIconNode(raw string, _ inlineContext) []types.Inline {
	return icons(types.InlineStrongIcon, raw, inner(raw, 2))
}

func strongNode(raw string, c inlineContext) []types.Inline {
	return []types.Inline{{
		Kind:  types.InlineStrong,
		Raw:   raw,
		Nodes: parseInline(inner(raw, 2), inlineContext{nested: true, quoted: c.quoted}),
	}}
}

func isImageURL(s string) bool {
	return imageURL.MatchString(s) || gyazoURL.MatchString(s)
}

func imageNode(raw string, _ inlineContext) []types.Inline {
	n := types.Inline{Kind: types.InlineImage, Raw: raw}
	fields := strings.Fields(inner(raw, 1))
	switch {
	case len(fields) == 2 && !isImageURL(fields[0]):
		n.Link, n.Src = fields[0], fields[1]
	case len(fields) == 2:
		n.Src, n.Link = fields[0], fields[1]
	default:
		n.Src = fields[0]
	}
	return []types.Inline{n}
}

func externalLinkNode(raw string, _ inlineContext) []types.Inline {
	n := types.Inline{Kind: types.InlineLink, Raw: raw, PathType: types.PathAbsolute}
	if !strings.HasPrefix(raw, "[") {
		n.Href = raw
		return []types.Inline{n}
	}
	body := inner(raw, 1)
	if strings.HasPrefix(body, "http://") || strings.HasPrefix(body, "https://") {
		i := strings.IndexAny(body, space)
		if i < 0 {
			n.Href = body
			return []types.Inline{n}
		}
		n.Href, n.Content = body[:i], strings.TrimSpace(body[i:])
		return []types.Inline{n}
	}
	i := strings.LastIndexAny(body, space)
	n.Content, n.Href = strings.TrimSpace(body[:i]), body[i+1:]
	return []types.Inline{n}
}

func iconNode(raw string, _ inlineContext) []types.Inline {
	return icons(types.InlineIcon, raw, inner(raw, 1))
}

// maxIconRepeat caps N in "path.icon*N".
const maxIconRepeat = 100

// icons builds the node list for "path.icon" or "path.icon*N", repeating the
// icon N times. N is clamped to [1, maxIconRepeat].
func icons(kind types.InlineKind, raw, body string) []types.Inline {
	i := strings.LastIndex(body, ".icon")
	path, times := body[:i], 1
	if suffix := body[i+len(".icon"):]; strings.HasPrefix(suffix, "*") {
		n, err := strconv.Atoi(suffix[1:])
		switch {
		case err == nil && n >= 1:
			times = min(n, maxIconRepeat)
		case errors.Is(err, strconv.ErrRange):
			times = maxIconRepeat
		}
	}
	pathType := types.PathRelative
	if strings.HasPrefix(path, "/") {
		pathType = types.PathRoot
	}
	nodes := make([]types.Inline, times)
	for k := range nodes {
		nodes[k] = types.Inline{Kind: kind, Raw: raw, Path: path, PathType: pathType}
	}
	return nodes
}

// defaultZoom applies when a map point has no ",Z" part.
const defaultZoom = 14

func googleMapNode(raw string, _ inlineContext) []types.Inline {
	fields := strings.Fields(inner(raw, 1))
	point, place := fields[0], strings.Join(fields[1:], " ")
	if !mapPoint.MatchString(point) {
		last := len(fields) - 1
		point, place = fields[last], strings.Join(fields[:last], " ")
	}

	m := mapPoint.FindStringSubmatch(point)
	if m == nil {
		return []types.Inline{plainNode(raw)}
	}
	lat, _ := strconv.ParseFloat(m[2], 64)
	if m[1] == "S" {
		lat = -lat
	}
	lng, _ := strconv.ParseFloat(m[4], 64)
	if m[3] == "W" {
		lng = -lng
	}
	zoom := defaultZoom
	if m[5] != "" {
		zoom, _ = strconv.Atoi(m[5])
	}
	return []types.Inline{{
		Kind:      types.InlineGoogleMap,
		Raw:       raw,
		Latitude:  lat,
		Longitude: lng,
		Zoom:      zoom,
		Place:     place,
	}}
}

func internalLinkNode(raw string, _ inlineContext) []types.Inline {
	href := inner(raw, 1)
	pathType := types.PathRelative
	if strings.HasPrefix(href, "/") {
		pathType = types.PathRoot
	}
	return []types.Inline{{Kind: types.InlineLink, Raw: raw, PathType: pathType, Href: href}}
}

func hashTagNode(raw string, _ inlineContext) []types.Inline {
	i := strings.IndexByte(raw, '#')
	var nodes []types.Inline
	if i > 0 {
		nodes = append(nodes, plainNode(raw[:i]))
	}
	return append(nodes, types.Inline{Kind: types.InlineHashTag, Raw: raw[i:], Text: raw[i+1:]})
}

func numberListNode(raw string, c inlineContext) []types.Inline {
	m := numbered.FindStringSubmatch(raw)
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return []types.Inline{plainNode(raw)}
	}
	return []types.Inline{{
		Kind:      types.InlineNumberList,
		Raw:       raw,
		Number:    n,
		RawNumber: m[1],
		Nodes:     parseInline(m[2], c.rest()),
	}}
}
