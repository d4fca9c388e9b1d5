package dom

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// StaticDocument is a parsed HTML snapshot. Clicks do nothing, so the
// snapshot must already hold the revealed state (saved after the answers
// and comments were opened).
type StaticDocument struct {
	doc  *goquery.Document
	base *url.URL
}

// NewStaticDocument parses r. Links are resolved against baseURL.
func NewStaticDocument(r io.Reader, baseURL string) (*StaticDocument, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("static: base url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("static: parse: %w", err)
	}
	return &StaticDocument{doc: doc, base: base}, nil
}

func (d *StaticDocument) All(_ context.Context, selector string) ([]Element, error) {
	return d.wrap(d.doc.Find(selector)), nil
}

func (d *StaticDocument) First(_ context.Context, selector string) (Element, bool, error) {
	return d.first(d.doc.Find(selector))
}

func (d *StaticDocument) wrap(s *goquery.Selection) []Element {
	els := make([]Element, 0, s.Length())
	s.Each(func(_ int, node *goquery.Selection) {
		els = append(els, &staticElement{sel: node, base: d.base})
	})
	return els
}

func (d *StaticDocument) first(s *goquery.Selection) (Element, bool, error) {
	if s.Length() == 0 {
		return nil, false, nil
	}
	return &staticElement{sel: s.First(), base: d.base}, true, nil
}

type staticElement struct {
	sel  *goquery.Selection
	base *url.URL
}

func (e *staticElement) All(_ context.Context, selector string) ([]Element, error) {
	found := e.sel.Find(selector)
	els := make([]Element, 0, found.Length())
	found.Each(func(_ int, node *goquery.Selection) {
		els = append(els, &staticElement{sel: node, base: e.base})
	})
	return els, nil
}

func (e *staticElement) First(_ context.Context, selector string) (Element, bool, error) {
	found := e.sel.Find(selector)
	if found.Length() == 0 {
		return nil, false, nil
	}
	return &staticElement{sel: found.First(), base: e.base}, true, nil
}

func (e *staticElement) Attr(_ context.Context, name string) (string, bool, error) {
	v, ok := e.sel.Attr(name)
	return v, ok, nil
}

func (e *staticElement) Text(context.Context) (string, error) {
	return e.sel.Text(), nil
}

func (e *staticElement) InnerHTML(context.Context) (string, error) {
	return e.sel.Html()
}

func (e *staticElement) Href(context.Context) (string, error) {
	href, ok := e.sel.Attr("href")
	if !ok {
		return "", nil
	}
	resolved, err := e.base.Parse(href)
	if err != nil {
		// Browsers keep unparseable hrefs verbatim.
		return href, nil
	}
	return resolved.String(), nil
}

func (e *staticElement) HasClass(_ context.Context, name string) (bool, error) {
	return e.sel.HasClass(name), nil
}

func (e *staticElement) Click(context.Context) error { return nil }
