// Package cleaner makes legal panel HTML self-contained: decorative markup
// goes, links become absolute, and an optional Markdown copy is rendered.
package cleaner

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
)

// Cleaner post-processes HTML read from the legal panel. It is safe for
// concurrent use.
type Cleaner struct {
	origin     string
	decorative map[string]struct{}
	md         *converter.Converter
}

// NewCleaner returns a Cleaner that rewrites root-relative links against
// origin and strips the given decorative class tokens.
func NewCleaner(origin string, decorativeClasses []string) *Cleaner {
	decorative := make(map[string]struct{}, len(decorativeClasses))
	for _, cls := range decorativeClasses {
		if cls = strings.TrimSpace(cls); cls != "" {
			decorative[cls] = struct{}{}
		}
	}
	return &Cleaner{
		origin:     strings.TrimRight(origin, "/"),
		decorative: decorative,
		md:         newMarkdownConverter(),
	}
}
