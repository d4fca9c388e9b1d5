package cleaner

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// lineBreakRun matches a run of whitespace that contains at least one
// newline, carriage return or tab.
var lineBreakRun = regexp.MustCompile(`[ \f]*[\r\n\t][\s]*`)

// Sanitize cleans an innerHTML fragment taken from the legal panel so it
// survives outside the page:
//
//  1. Parse the fragment in a <body> context.
//  2. Drop decorative class tokens (and the class attribute once empty).
//  3. Drop empty alt attributes.
//  4. Rewrite root-relative src/href to absolute URLs on the origin.
//  5. Render, collapse line-break whitespace runs to one space, trim.
//
// Sanitize(Sanitize(x)) == Sanitize(x).
func (c *Cleaner) Sanitize(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("sanitize: parse: %w", err)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	doc := goquery.NewDocumentFromNode(root)

	if len(c.decorative) > 0 {
		doc.Find("[class]").Each(func(_ int, s *goquery.Selection) {
			c.stripDecorative(s)
		})
	}

	doc.Find("[alt]").Each(func(_ int, s *goquery.Selection) {
		if alt, _ := s.Attr("alt"); strings.TrimSpace(alt) == "" {
			s.RemoveAttr("alt")
		}
	})

	doc.Find("[src], [href]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "href"} {
			if v, ok := s.Attr(attr); ok {
				s.SetAttr(attr, c.absolute(v))
			}
		}
	})

	var buf bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("sanitize: render: %w", err)
		}
	}

	return strings.TrimSpace(lineBreakRun.ReplaceAllString(buf.String(), " ")), nil
}

func (c *Cleaner) stripDecorative(s *goquery.Selection) {
	class, _ := s.Attr("class")
	tokens := strings.Fields(class)
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, drop := c.decorative[tok]; !drop {
			kept = append(kept, tok)
		}
	}
	switch {
	case len(kept) == 0:
		s.RemoveAttr("class")
	case len(kept) != len(tokens):
		s.SetAttr("class", strings.Join(kept, " "))
	}
}

// absolute prefixes root-relative references with the origin. Anything
// else (absolute, protocol-relative, fragment, relative) is left alone.
func (c *Cleaner) absolute(ref string) string {
	if strings.HasPrefix(ref, "/") && !strings.HasPrefix(ref, "//") {
		return c.origin + ref
	}
	return ref
}
