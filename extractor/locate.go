package extractor

import (
	"context"
	"fmt"

	"github.com/use-agent/pdrscrape/config"
	"github.com/use-agent/pdrscrape/dom"
)

// Locate returns the question holders of the page in document order,
// skipping placeholders whose identifying attribute is missing or empty.
//
// Errors are returned without a locate prefix; Extract adds it.
//
// A page with no holders yields an empty slice and no error; that is not
// distinguished from a legitimate zero-question page.
func Locate(ctx context.Context, doc dom.Document, tmpl *config.Template) ([]dom.Element, error) {
	candidates, err := doc.All(ctx, tmpl.QuestionHolder)
	if err != nil {
		return nil, err
	}

	located := make([]dom.Element, 0, len(candidates))
	for _, el := range candidates {
		id, ok, err := el.Attr(ctx, tmpl.HolderAttr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", tmpl.HolderAttr, err)
		}
		if ok && id != "" {
			located = append(located, el)
		}
	}
	return located, nil
}
