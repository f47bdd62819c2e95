package toast

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// inlineTags are the only elements a description may carry.
var inlineTags = []string{
	"a", "b", "strong", "cite", "code", "em", "i",
	"kbd", "mark", "span", "s", "small", "wbr",
}

// inlinePolicy drops every other element. Content of script/style and
// similar elements is dropped entirely, not unwrapped.
var inlinePolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(inlineTags...)
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("class", "title").Globally()
	return p
}()

// sanitizeDescription returns nil for empty input or when nothing survives.
func sanitizeDescription(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	out := strings.TrimSpace(inlinePolicy.Sanitize(s))
	if out == "" {
		return nil
	}
	return &out
}

func escapeMessage(s string) string { return html.EscapeString(s) }
