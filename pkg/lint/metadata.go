package lint

import "strings"

// DefaultDocsBaseURL is the hosted rule reference, the page scripts/gendocs
// writes to docs/linting/rules.md.
const DefaultDocsBaseURL = "https://leaplint.dev/linting/rules"

var docsBaseURL = DefaultDocsBaseURL

// DocURL links to the section of the rule reference that documents id.
// Sections are anchored by the upper-case rule ID.
func DocURL(id string) string {
	return docsBaseURL + "#" + strings.ToUpper(id)
}

// SetDocsBaseURL points DocURL at another copy of the reference, such as
// a locally served docs tree. An empty url restores the default.
func SetDocsBaseURL(url string) {
	if url == "" {
		docsBaseURL = DefaultDocsBaseURL
		return
	}
	docsBaseURL = strings.TrimSuffix(url, "/")
}
