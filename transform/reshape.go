// Package transform holds the offline fix-ups applied to extracted tests.
package transform

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/use-agent/pdrscrape/models"
)

// Reshaped maps test name to its questions, keeping first-seen name order
// when marshalled to JSON.
type Reshaped = orderedmap.OrderedMap[string, []models.Question]

// Reshape flattens tests into name -> questions. A repeated name replaces
// the earlier questions but keeps the earlier position.
func Reshape(tests []models.Test) *Reshaped {
	out := orderedmap.New[string, []models.Question](len(tests))
	for _, t := range tests {
		questions := t.Questions
		if questions == nil {
			questions = []models.Question{}
		}
		out.Set(t.Name, questions)
	}
	return out
}

// FixExplanations realigns explanations that the scraper read one
// question late: question i takes the explanation read for question i-1,
// and the first question takes the last one's. The slice is modified in
// place and returned.
//
//	[e0 e1 e2] -> [e2 e0 e1]
func FixExplanations(questions []models.Question) []models.Question {
	n := len(questions)
	if n < 2 {
		return questions
	}
	last := questions[n-1].Explanation
	for i := n - 1; i > 0; i-- {
		questions[i].Explanation = questions[i-1].Explanation
	}
	questions[0].Explanation = last
	return questions
}
