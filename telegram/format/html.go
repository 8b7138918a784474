package format

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeHTML escapes user-supplied text for HTML parse mode messages.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
