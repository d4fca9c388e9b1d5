// Package dom is the read boundary between the extractor and whatever
// renders the page.
//
// A Document is owned by one extraction run and is used sequentially:
// reveal interactions mutate page-global state (the comment panel), so
// no two calls may overlap.
package dom

import "context"

// Document is a rendered page.
type Document interface {
	// All returns every element matching selector, in document order.
	All(ctx context.Context, selector string) ([]Element, error)

	// First returns the first element matching selector. ok is false when
	// nothing matches.
	First(ctx context.Context, selector string) (el Element, ok bool, err error)
}

// Element is one node of a Document.
type Element interface {
	All(ctx context.Context, selector string) ([]Element, error)
	First(ctx context.Context, selector string) (el Element, ok bool, err error)

	// Attr returns the attribute value and whether it is present.
	Attr(ctx context.Context, name string) (string, bool, error)

	// Text returns the rendered text of the element.
	Text(ctx context.Context) (string, error)

	// InnerHTML returns the serialized children of the element.
	InnerHTML(ctx context.Context) (string, error)

	// Href returns the resolved absolute link target, or "" if none.
	Href(ctx context.Context) (string, error)

	HasClass(ctx context.Context, name string) (bool, error)

	// Click activates the element the way HTMLElement.click() does.
	Click(ctx context.Context) error
}
