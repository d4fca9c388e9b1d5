package extractor

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/use-agent/pdrscrape/models"
	"github.com/use-agent/pdrscrape/simhash"
)

// Suspect flags a question whose explanation was read from a panel that
// looks unsettled.
type Suspect struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// panelWatch compares each explanation panel with the one read for the
// previous explanation-bearing question. A panel that did not change after
// a reveal most likely still shows the previous question's comment.
type panelWatch struct {
	threshold int
	prevIndex int
	prevFP    uint64
	seen      bool
	suspects  []Suspect
}

func newPanelWatch(threshold int) *panelWatch {
	return &panelWatch{threshold: threshold}
}

func (w *panelWatch) observe(i int, q *models.Question) {
	if q.Explanation == nil {
		return
	}

	text := panelText(q.Explanation)
	if strings.TrimSpace(text) == "" {
		w.flag(i, "comment panel empty after reveal")
		return
	}

	fp := simhash.FingerprintHTML(text)
	if w.seen && simhash.Similar(fp, w.prevFP, w.threshold) {
		w.flag(i, fmt.Sprintf("comment panel unchanged since question %d", w.prevIndex))
	}
	w.prevIndex, w.prevFP, w.seen = i, fp, true
}

func (w *panelWatch) flag(i int, reason string) {
	slog.Warn("explanation may belong to another question", "index", i, "reason", reason)
	w.suspects = append(w.suspects, Suspect{Index: i, Reason: reason})
}

// panelText renders the explanation back into one HTML fragment.
func panelText(e *models.Explanation) string {
	var parts []string
	if e.Comment != nil {
		parts = append(parts, html.EscapeString(*e.Comment))
	}
	if e.Legal.Title != nil {
		parts = append(parts, html.EscapeString(*e.Legal.Title))
	}
	if e.Legal.HTML != nil {
		parts = append(parts, *e.Legal.HTML)
	}
	return strings.Join(parts, " ")
}
