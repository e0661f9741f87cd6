package render

import "strings"

// htmlEscaper escapes text content.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// attrEscaper escapes attribute values. Whitespace is escaped too so a
// value cannot break out of its quoted position.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// EscapeHTML escapes s for use as HTML text content.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// EscapeAttr escapes s for use inside a quoted attribute value.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
