package models

// Test is one scraped driving-test page.
type Test struct {
	// Name is parsed from the page heading ("Тест ПДР: <name>").
	Name string `json:"name"`

	// Questions keeps on-page document order. The order is significant:
	// answer keys are numbered by position.
	Questions []Question `json:"questions"`
}

// Question is one question holder read from the page.
type Question struct {
	// Name is the question heading without its leading "№<N>" marker.
	Name string `json:"name"`

	// Answers keeps on-page order. Never nil after extraction.
	Answers []Answer `json:"answers"`

	// Image is the absolute href of the image link, if the question has one.
	Image string `json:"image,omitempty"`

	// Explanation is nil if and only if the question had no comment-reveal
	// control. Its content is whatever the page-global panel showed at read
	// time, which may belong to a neighbouring question.
	Explanation *Explanation `json:"explanation,omitempty"`
}

// Answer is a single answer option.
type Answer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Explanation is the instructor comment and legal reference shown in the
// page-global comment panel.
type Explanation struct {
	Comment *string `json:"comment,omitempty"`
	Legal   Legal   `json:"legal"`
}

// Legal is the rules excerpt attached to an explanation.
type Legal struct {
	Title *string `json:"title,omitempty"`

	// HTML is sanitized so it renders outside the original page.
	HTML *string `json:"html,omitempty"`

	// Markdown is an opt-in rendering of HTML.
	Markdown *string `json:"markdown,omitempty"`
}

// HasExplanation reports whether the question carried a comment-reveal control.
func (q *Question) HasExplanation() bool {
	return q.Explanation != nil
}

// StringPtr returns a pointer to s, or nil when ok is false.
func StringPtr(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}
