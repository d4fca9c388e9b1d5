package extractor

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/use-agent/pdrscrape/config"
	"github.com/use-agent/pdrscrape/dom"
	"github.com/use-agent/pdrscrape/models"
)

// ParseTestName extracts the test name from the page heading text.
func ParseTestName(re *regexp.Regexp, heading string) (string, error) {
	m := re.FindStringSubmatch(heading)
	if m == nil {
		return "", models.NewScrapeError(models.ErrCodeTemplateMismatch,
			fmt.Sprintf("test heading %q does not match %q", heading, re.String()), nil)
	}
	return strings.TrimSpace(m[1]), nil
}

// ParseQuestionName strips the leading "№<N>" marker from a question
// heading: "№12\nЯкий ..." becomes "Який ...".
func ParseQuestionName(re *regexp.Regexp, heading string) (string, error) {
	m := re.FindStringSubmatch(heading)
	if m == nil {
		return "", models.NewScrapeError(models.ErrCodeTemplateMismatch,
			fmt.Sprintf("question heading %q does not match %q", heading, re.String()), nil)
	}
	return strings.TrimSpace(m[1]), nil
}

// readTestName reads and parses the page heading. A missing heading means
// the page is not the expected template.
func readTestName(ctx context.Context, doc dom.Document, tmpl *config.Template) (string, error) {
	h, ok, err := doc.First(ctx, tmpl.TestHeading)
	if err != nil {
		return "", readError("test heading", err)
	}
	if !ok {
		return "", models.NewScrapeError(models.ErrCodeTemplateMismatch,
			fmt.Sprintf("test heading %q not found", tmpl.TestHeading), nil)
	}
	text, err := h.Text(ctx)
	if err != nil {
		return "", readError("test heading", err)
	}
	return ParseTestName(tmpl.TestName(), text)
}
