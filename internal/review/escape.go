// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package review

import "strings"

var (
	inlineEscaper = strings.NewReplacer("}", `\}`)
	hrefEscaper   = strings.NewReplacer(",", `\,`)
	optionEscaper = strings.NewReplacer("]", `\]`)
)

// EscapeInline escapes content embedded in an inline command such as
// @<code>{...}. A closing brace is escaped, and a single trailing backslash
// is doubled so it cannot swallow the command's own closing brace.
func EscapeInline(content string) string {
	s := inlineEscaper.Replace(content)
	if strings.HasSuffix(s, `\`) {
		s += `\`
	}
	return s
}

// EscapeHref escapes an argument of @<href>{...}, where commas separate
// the URL from the display text.
func EscapeHref(href string) string {
	return hrefEscaper.Replace(EscapeInline(href))
}

// EscapeBlockOption escapes a block command option such as the label in
// //emlist[...].
func EscapeBlockOption(option string) string {
	return optionEscaper.Replace(option)
}
