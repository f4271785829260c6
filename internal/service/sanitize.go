package service

import (
	"html"
	"strings"

	"github.com/Harshitk-cp/veritas/internal/domain"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// plainText strips markup from collaborator output, which can quote the HTML
// of the pages it read. StrictPolicy escapes entities, so the result is
// unescaped back to plain text. Submitted text is never passed through here.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// cleanSources strips markup from the display fields of classified sources.
func cleanSources(sources []domain.Source) []domain.Source {
	for i := range sources {
		sources[i].Title = plainText(sources[i].Title)
		sources[i].Snippet = plainText(sources[i].Snippet)
	}
	return sources
}
