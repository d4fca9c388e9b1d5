package dom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/use-agent/pdrscrape/models"
)

// doubleFrameJS resolves once two animation frames have been painted,
// i.e. after the DOM changes made before the call have been rendered.
const doubleFrameJS = `() => new Promise(resolve =>
	requestAnimationFrame(() => requestAnimationFrame(() => resolve(true))))`

// RodDocument is a live page driven over CDP.
type RodDocument struct {
	page *rod.Page
}

// NewRodDocument wraps a loaded page.
func NewRodDocument(page *rod.Page) *RodDocument {
	return &RodDocument{page: page}
}

func (d *RodDocument) All(ctx context.Context, selector string) ([]Element, error) {
	els, err := d.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapRod(els), nil
}

func (d *RodDocument) First(ctx context.Context, selector string) (Element, bool, error) {
	has, el, err := d.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, false, fmt.Errorf("query %q: %w", selector, err)
	}
	if !has {
		return nil, false, nil
	}
	return &rodElement{el: el}, true, nil
}

func wrapRod(els rod.Elements) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = &rodElement{el: el}
	}
	return out
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) All(ctx context.Context, selector string) ([]Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapRod(els), nil
}

func (e *rodElement) First(ctx context.Context, selector string) (Element, bool, error) {
	has, el, err := e.el.Context(ctx).Has(selector)
	if err != nil {
		return nil, false, fmt.Errorf("query %q: %w", selector, err)
	}
	if !has {
		return nil, false, nil
	}
	return &rodElement{el: el}, true, nil
}

func (e *rodElement) Attr(ctx context.Context, name string) (string, bool, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *rodElement) InnerHTML(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(`() => this.innerHTML`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (e *rodElement) Href(ctx context.Context) (string, error) {
	v, err := e.el.Context(ctx).Property("href")
	if err != nil {
		return "", err
	}
	if v.Nil() {
		return "", nil
	}
	return v.Str(), nil
}

func (e *rodElement) HasClass(ctx context.Context, name string) (bool, error) {
	res, err := e.el.Context(ctx).Eval(`(name) => this.classList.contains(name)`, name)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

// Click uses the DOM click() rather than a synthesized mouse event, so
// overlays and scroll position cannot swallow it.
func (e *rodElement) Click(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(`() => this.click()`)
	return err
}

// Frames settles on the page's own render signal: two consecutive
// animation frames. A wait longer than max is abandoned and the read goes
// ahead on whatever is rendered.
func Frames(page *rod.Page, max time.Duration) Settler {
	return SettlerFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()

		_, err := page.Context(waitCtx).Eval(doubleFrameJS)
		return boundedWait(ctx, err, "frames")
	})
}

// DOMStable settles once the DOM stops changing for window.
func DOMStable(page *rod.Page, window, max time.Duration) Settler {
	return SettlerFunc(func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, max)
		defer cancel()

		err := page.Context(waitCtx).WaitDOMStable(window, 0.1)
		return boundedWait(ctx, err, "dom-stable")
	})
}

// boundedWait turns an expired settle bound into success. Only the parent
// context being done is an error.
func boundedWait(ctx context.Context, err error, strategy string) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		slog.Debug("settle bound reached, reading current DOM", "strategy", strategy)
		return nil
	}
	return err
}

// NewRodSettler builds the settler named by strategy for page.
func NewRodSettler(strategy string, page *rod.Page, delay, max time.Duration) (Settler, error) {
	switch strategy {
	case models.SettleFrames, "":
		return Frames(page, max), nil
	case models.SettleTimer:
		return Timer(delay), nil
	case models.SettleDOMStable:
		return DOMStable(page, delay, max), nil
	case models.SettleNone:
		return None(), nil
	default:
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "unknown settle strategy: "+strategy, nil)
	}
}
