// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pdiddy/sb2review/pkg/types"
)

// scrapboxOrigin is the origin that root links ("/project/page") resolve against.
const scrapboxOrigin = "https://scrapbox.io"

// boldMark matches the normalized bold decoration, e.g. "*-3".
var boldMark = regexp.MustCompile(`\*-[0-9]*`)

// decorationCommands maps decoration marks to the inline command wrapping
// them. The first matching entry wins; marks matching none are dropped.
var decorationCommands = []struct {
	match   func(deco string) bool
	command string
}{
	{boldMark.MatchString, "strong"},
	{func(d string) bool { return d == "/" }, "i"},
	{func(d string) bool { return d == "-" }, "del"},
}

// inlineCommand formats @<name>{content}. content must already be escaped.
func inlineCommand(name, content string) string {
	return "@<" + name + ">{" + content + "}"
}

func decorate(inside, deco string) string {
	for _, c := range decorationCommands {
		if c.match(deco) {
			return inlineCommand(c.command, inside)
		}
	}
	return inside
}

// inlines renders a sequence of inline nodes and concatenates the results.
func (r *renderer) inlines(nodes []types.Inline) string {
	var b strings.Builder
	for i := range nodes {
		b.WriteString(r.inline(&nodes[i]))
	}
	return b.String()
}

// inline renders a single inline node and its children.
func (r *renderer) inline(n *types.Inline) string {
	switch n.Kind {
	case types.InlineLink:
		return r.link(n)

	case types.InlineHashTag:
		r.log.Error("Hashtags not supported: " + n.Raw)
		return n.Raw

	case types.InlineStrong:
		return inlineCommand("strong", EscapeInline(r.inlines(n.Nodes)))

	case types.InlineDecoration:
		if soleImage(n.Nodes) {
			return r.inline(&n.Nodes[0])
		}
		out := EscapeInline(r.inlines(n.Nodes))
		for _, deco := range n.Decos {
			out = decorate(out, deco)
		}
		return out

	case types.InlineCode:
		return inlineCommand("code", EscapeInline(n.Text))

	case types.InlineCommandLine:
		return inlineCommand("code", EscapeInline(n.Raw))

	case types.InlineFormula:
		return inlineCommand("m", EscapeInline(n.Formula))

	case types.InlineImage, types.InlineStrongImage:
		return inlineCommand("icon", EscapeInline(n.Src))

	case types.InlinePlain, types.InlineBlank:
		return n.Text

	case types.InlineIcon, types.InlineStrongIcon:
		r.log.Warn("An icon is used: " + n.Raw)
		return inlineCommand("icon", n.Path+".icon")

	case types.InlineNumberList:
		return n.Raw

	default:
		r.log.Error("Unsupported syntax: " + n.Raw)
		return n.Raw
	}
}

func (r *renderer) link(n *types.Inline) string {
	switch n.PathType {
	case types.PathRelative:
		r.log.Error("Can't convert relative links. Please use absolute links instead: " + n.Raw)
		return n.Raw
	case types.PathRoot:
		r.log.Warn("An internal link to a Scrapbox page is used: " + n.Raw)
		return inlineCommand("href", EscapeHref(resolveRoot(n.Href)))
	}
	if n.Content == "" {
		return inlineCommand("href", EscapeHref(n.Href))
	}
	return inlineCommand("href", EscapeHref(n.Href)+", "+EscapeHref(n.Content))
}

// resolveRoot turns "/project/page" into an absolute scrapbox.io URL.
func resolveRoot(href string) string {
	base, _ := url.Parse(scrapboxOrigin)
	ref, err := url.Parse(href)
	if err != nil {
		return scrapboxOrigin + href
	}
	return base.ResolveReference(ref).String()
}

// soleImage reports whether nodes is exactly one image node.
func soleImage(nodes []types.Inline) bool {
	return len(nodes) == 1 && nodes[0].Kind == types.InlineImage
}
