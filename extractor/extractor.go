// Package extractor turns a rendered test page into a models.Test.
//
// Extraction is a strict left fold over the located question holders. For
// each holder i the extractor walks
//
//	waiting-before-reveal -> revealing -> waiting-after-reveal -> reading
//
// and appends the record before holder i+1 is touched. Reveals mutate the
// page-global comment panel, so running holders concurrently would mix up
// which panel belongs to which question.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/use-agent/pdrscrape/cleaner"
	"github.com/use-agent/pdrscrape/config"
	"github.com/use-agent/pdrscrape/dom"
	"github.com/use-agent/pdrscrape/models"
	"github.com/use-agent/pdrscrape/transform"
)

// stage is a state of the per-question state machine.
type stage int

const (
	waitingBeforeReveal stage = iota
	revealing
	waitingAfterReveal
	reading
)

func (s stage) String() string {
	switch s {
	case waitingBeforeReveal:
		return "waiting-before-reveal"
	case revealing:
		return "revealing"
	case waitingAfterReveal:
		return "waiting-after-reveal"
	case reading:
		return "reading"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Options tune an Extractor.
type Options struct {
	// Markdown adds a markdown rendering to every legal excerpt.
	Markdown bool

	// ShiftExplanations realigns explanations by one position after
	// extraction (see transform.FixExplanations).
	ShiftExplanations bool

	// StaleThreshold is the simhash distance at or below which two
	// consecutive comment panels count as the same panel.
	StaleThreshold int
}

// Extractor reads questions from a Document.
type Extractor struct {
	tmpl    *config.Template
	cleaner *cleaner.Cleaner
	settler dom.Settler
	opts    Options
}

// New creates an Extractor. settler is used twice per question.
func New(tmpl *config.Template, cl *cleaner.Cleaner, settler dom.Settler, opts Options) *Extractor {
	return &Extractor{tmpl: tmpl, cleaner: cl, settler: settler, opts: opts}
}

// Result is the outcome of one extraction run.
type Result struct {
	Test models.Test

	// Suspect lists questions whose explanation may belong to another
	// question. The explanations themselves are left as read.
	Suspect []Suspect
}

// Extract runs the whole pipeline over doc. Any fatal error aborts the run
// and no partial Test is returned.
func (x *Extractor) Extract(ctx context.Context, doc dom.Document) (*Result, error) {
	start := time.Now()

	name, err := readTestName(ctx, doc, x.tmpl)
	if err != nil {
		return nil, err
	}

	holders, err := Locate(ctx, doc, x.tmpl)
	if err != nil {
		return nil, readError("locate question holders", err)
	}
	slog.Info("question holders located", "test", name, "count", len(holders))

	questions := make([]models.Question, 0, len(holders))
	watch := newPanelWatch(x.opts.StaleThreshold)
	for i, el := range holders {
		q, err := x.step(ctx, doc, i, el)
		if err != nil {
			return nil, err
		}
		watch.observe(i, &q)
		questions = append(questions, q)
	}

	if x.opts.ShiftExplanations {
		transform.FixExplanations(questions)
		slog.Info("explanations shifted by one position", "questions", len(questions))
	}

	res := &Result{
		Test:    models.Test{Name: name, Questions: questions},
		Suspect: watch.suspects,
	}
	slog.Info("extraction complete",
		"test", name,
		"questions", len(questions),
		"withExplanation", countExplanations(questions),
		"suspect", len(res.Suspect),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}

// step runs the state machine for holder i.
func (x *Extractor) step(ctx context.Context, doc dom.Document, i int, el dom.Element) (models.Question, error) {
	if err := x.settle(ctx, i, waitingBeforeReveal); err != nil {
		return models.Question{}, err
	}

	hasComment, err := x.reveal(ctx, i, el)
	if err != nil {
		return models.Question{}, stageError(i, revealing, err)
	}

	if err := x.settle(ctx, i, waitingAfterReveal); err != nil {
		return models.Question{}, err
	}

	q, err := x.read(ctx, doc, el, hasComment)
	if err != nil {
		return models.Question{}, stageError(i, reading, err)
	}
	slog.Debug("question extracted",
		"index", i,
		"answers", len(q.Answers),
		"image", q.Image != "",
		"explanation", q.Explanation != nil,
	)
	return q, nil
}

func (x *Extractor) settle(ctx context.Context, i int, st stage) error {
	if err := x.settler.Settle(ctx); err != nil {
		return stageError(i, st, err)
	}
	return nil
}

// reveal activates the answer control and, when present, the comment
// control. Both are best-effort: a missing control is skipped and a failed
// click is logged. It reports whether the comment control exists.
func (x *Extractor) reveal(ctx context.Context, i int, el dom.Element) (bool, error) {
	if err := x.clickIfPresent(ctx, i, el, x.tmpl.AnswerReveal); err != nil {
		return false, err
	}

	ctrl, ok, err := el.First(ctx, x.tmpl.CommentReveal)
	if err != nil {
		return false, err
	}
	if ok {
		if err := ctrl.Click(ctx); err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			slog.Warn("comment reveal click failed", "index", i, "error", err)
		}
	}
	return ok, nil
}

func (x *Extractor) clickIfPresent(ctx context.Context, i int, el dom.Element, selector string) error {
	ctrl, ok, err := el.First(ctx, selector)
	if err != nil {
		return err
	}
	if !ok {
		slog.Debug("reveal control missing, skipped", "index", i, "selector", selector)
		return nil
	}
	if err := ctrl.Click(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("reveal click failed", "index", i, "selector", selector, "error", err)
	}
	return nil
}

// read extracts the question record. The explanation comes from the
// page-global panel, not from el.
func (x *Extractor) read(ctx context.Context, doc dom.Document, el dom.Element, hasComment bool) (models.Question, error) {
	var q models.Question

	heading, ok, err := el.First(ctx, x.tmpl.QuestionHeading)
	if err != nil {
		return q, err
	}
	if !ok {
		return q, models.NewScrapeError(models.ErrCodeTemplateMismatch,
			fmt.Sprintf("question heading %q not found", x.tmpl.QuestionHeading), nil)
	}
	text, err := heading.Text(ctx)
	if err != nil {
		return q, err
	}
	if q.Name, err = ParseQuestionName(x.tmpl.QuestionName(), text); err != nil {
		return q, err
	}

	if q.Answers, err = x.readAnswers(ctx, el); err != nil {
		return q, err
	}

	if link, ok, err := el.First(ctx, x.tmpl.ImageLink); err != nil {
		return q, err
	} else if ok {
		if q.Image, err = link.Href(ctx); err != nil {
			return q, err
		}
	}

	if hasComment {
		if q.Explanation, err = x.readExplanation(ctx, doc); err != nil {
			return q, err
		}
	}
	return q, nil
}

func (x *Extractor) readAnswers(ctx context.Context, el dom.Element) ([]models.Answer, error) {
	els, err := el.All(ctx, x.tmpl.Answer)
	if err != nil {
		return nil, err
	}
	answers := make([]models.Answer, 0, len(els))
	for _, a := range els {
		text, err := a.Text(ctx)
		if err != nil {
			return nil, err
		}
		correct, err := a.HasClass(ctx, x.tmpl.CorrectClass)
		if err != nil {
			return nil, err
		}
		answers = append(answers, models.Answer{Text: strings.TrimSpace(text), IsCorrect: correct})
	}
	return answers, nil
}

func (x *Extractor) readExplanation(ctx context.Context, doc dom.Document) (*models.Explanation, error) {
	comment, ok, err := firstText(ctx, doc, x.tmpl.CommentText)
	if err != nil {
		return nil, err
	}
	exp := &models.Explanation{Comment: models.StringPtr(comment, ok)}

	title, ok, err := firstText(ctx, doc, x.tmpl.LegalTitle)
	if err != nil {
		return nil, err
	}
	exp.Legal.Title = models.StringPtr(title, ok)

	panel, ok, err := doc.First(ctx, x.tmpl.LegalHTML)
	if err != nil {
		return nil, err
	}
	if !ok {
		return exp, nil
	}
	raw, err := panel.InnerHTML(ctx)
	if err != nil {
		return nil, err
	}
	clean, err := x.cleaner.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	exp.Legal.HTML = &clean

	if x.opts.Markdown {
		md, err := x.cleaner.Markdown(clean)
		if err != nil {
			slog.Warn("legal markdown conversion failed", "error", err)
		} else {
			exp.Legal.Markdown = &md
		}
	}
	return exp, nil
}

// firstText returns the trimmed text of the first match in doc.
func firstText(ctx context.Context, doc dom.Document, selector string) (string, bool, error) {
	el, ok, err := doc.First(ctx, selector)
	if err != nil || !ok {
		return "", false, err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", false, err
	}
	return strings.TrimSpace(text), true, nil
}

func stageError(i int, st stage, err error) error {
	return readError(fmt.Sprintf("question %d: %s", i, st), err)
}

func countExplanations(questions []models.Question) int {
	n := 0
	for i := range questions {
		if questions[i].HasExplanation() {
			n++
		}
	}
	return n
}
