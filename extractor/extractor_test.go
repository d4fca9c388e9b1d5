package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/pdrscrape/cleaner"
	"github.com/use-agent/pdrscrape/config"
	"github.com/use-agent/pdrscrape/dom"
	"github.com/use-agent/pdrscrape/models"
)

const testPage = `<html><body>
<h1 class="block_title">Тест ПДР: Загальні положення</h1>
<div data-question-holder-id="">placeholder</div>
<div data-question-holder-id="101">
	<div class="question_block_in"><a href="/images/q101.jpg"><img src="/images/q101_s.jpg"></a></div>
	<div class="question_holder">№1
Який максимальний дозволений рівень?</div>
	<div class="question_answer_holder">
		<a data-answer-question="1" class="answer">  Перша відповідь </a>
		<a data-answer-question="1" class="answer correct">Друга відповідь</a>
	</div>
	<a data-question-comment-call="101">Коментар</a>
</div>
<div data-question-holder-id="102">
	<div class="question_holder">№2 Друге питання</div>
	<div class="question_answer_holder">
		<a data-answer-question="2" class="correct">Так</a>
		<a data-answer-question="2">Ні</a>
	</div>
</div>
<div class="instructor_comment_text content"><p> Коментар інструктора </p></div>
<div class="pdr_i_head_text"> 1.1 Загальні положення </div>
<div class="pdr_i_description content"><p class="pdr_i_link">Текст
	<a href="/pdr/1">пункт</a></p></div>
</body></html>`

func ptr(s string) *string { return &s }

func newStaticExtractor(t *testing.T, opts Options) *Extractor {
	t.Helper()
	tmpl := config.DefaultTemplate()
	return New(tmpl, cleaner.NewCleaner(tmpl.Origin, tmpl.DecorativeClasses), dom.None(), opts)
}

func extractHTML(t *testing.T, page string, opts Options) (*Result, error) {
	t.Helper()
	doc, err := dom.NewStaticDocument(strings.NewReader(page), "https://pdr-online.com.ua/tests/1")
	require.NoError(t, err)
	return newStaticExtractor(t, opts).Extract(context.Background(), doc)
}

func TestExtract_StaticPage(t *testing.T) {
	res, err := extractHTML(t, testPage, Options{})
	require.NoError(t, err)

	want := models.Test{
		Name: "Загальні положення",
		Questions: []models.Question{
			{
				Name: "Який максимальний дозволений рівень?",
				Answers: []models.Answer{
					{Text: "Перша відповідь", IsCorrect: false},
					{Text: "Друга відповідь", IsCorrect: true},
				},
				Image: "https://pdr-online.com.ua/images/q101.jpg",
				Explanation: &models.Explanation{
					Comment: ptr("Коментар інструктора"),
					Legal: models.Legal{
						Title: ptr("1.1 Загальні положення"),
						HTML:  ptr(`<p>Текст <a href="https://pdr-online.com.ua/pdr/1">пункт</a></p>`),
					},
				},
			},
			{
				Name: "Друге питання",
				Answers: []models.Answer{
					{Text: "Так", IsCorrect: true},
					{Text: "Ні", IsCorrect: false},
				},
			},
		},
	}
	if diff := cmp.Diff(want, res.Test); diff != "" {
		t.Errorf("extracted test mismatch (-want +got):\n%s", diff)
	}
	if len(res.Suspect) != 0 {
		t.Errorf("expected no suspects, got %v", res.Suspect)
	}
}

func TestExtract_ExplanationOnlyWithCommentControl(t *testing.T) {
	res, err := extractHTML(t, testPage, Options{})
	require.NoError(t, err)

	for i, q := range res.Test.Questions {
		hasControl := i == 0
		if q.HasExplanation() != hasControl {
			t.Errorf("question %d: explanation present = %v, comment control present = %v",
				i, q.HasExplanation(), hasControl)
		}
	}
}

func TestExtract_Markdown(t *testing.T) {
	res, err := extractHTML(t, testPage, Options{Markdown: true})
	require.NoError(t, err)

	md := res.Test.Questions[0].Explanation.Legal.Markdown
	require.NotNil(t, md)
	if !strings.Contains(*md, "[пункт](https://pdr-online.com.ua/pdr/1)") {
		t.Errorf("markdown missing absolute link: %q", *md)
	}
	if res.Test.Questions[0].Explanation.Legal.HTML == nil {
		t.Error("markdown must not replace the html field")
	}
}

func TestExtract_NoQuestions(t *testing.T) {
	page := `<h1 class="block_title">Тест ПДР: Порожній</h1><div data-question-holder-id="">x</div>`
	res, err := extractHTML(t, page, Options{})
	require.NoError(t, err)

	if res.Test.Name != "Порожній" {
		t.Errorf("name = %q", res.Test.Name)
	}
	if res.Test.Questions == nil || len(res.Test.Questions) != 0 {
		t.Errorf("expected empty, non-nil questions, got %#v", res.Test.Questions)
	}
}

func TestExtract_TemplateMismatchIsFatal(t *testing.T) {
	tests := []struct {
		name string
		page string
	}{
		{"missing test heading", `<div data-question-holder-id="1"></div>`},
		{"test heading without prefix", `<h1 class="block_title">Білети</h1>`},
		{"question heading without marker", `<h1 class="block_title">Тест ПДР: X</h1>
			<div data-question-holder-id="1"><div class="question_holder">Питання</div></div>`},
		{"question heading missing", `<h1 class="block_title">Тест ПДР: X</h1>
			<div data-question-holder-id="1"><a data-answer-question="1">Так</a></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := extractHTML(t, tt.page, Options{})
			if res != nil {
				t.Errorf("expected no partial result, got %+v", res)
			}
			var se *models.ScrapeError
			if !errors.As(err, &se) {
				t.Fatalf("expected ScrapeError, got %v", err)
			}
			if se.Code != models.ErrCodeTemplateMismatch {
				t.Errorf("code = %s, want %s", se.Code, models.ErrCodeTemplateMismatch)
			}
		})
	}
}

func TestExtract_SharedPanelIsSuspect(t *testing.T) {
	page := `<h1 class="block_title">Тест ПДР: X</h1>
<div data-question-holder-id="1"><div class="question_holder">№1 A</div><a data-question-comment-call="1"></a></div>
<div data-question-holder-id="2"><div class="question_holder">№2 B</div><a data-question-comment-call="2"></a></div>
<div class="instructor_comment_text content"><p>Той самий коментар для всіх питань</p></div>`

	res, err := extractHTML(t, page, Options{})
	require.NoError(t, err)

	want := []Suspect{{Index: 1, Reason: "comment panel unchanged since question 0"}}
	if diff := cmp.Diff(want, res.Suspect); diff != "" {
		t.Errorf("suspects mismatch (-want +got):\n%s", diff)
	}
	// The value read is kept as-is.
	if got := res.Test.Questions[1].Explanation.Comment; got == nil || *got != "Той самий коментар для всіх питань" {
		t.Errorf("suspect explanation was altered: %v", got)
	}
}

func TestExtract_EmptyPanelIsSuspect(t *testing.T) {
	page := `<h1 class="block_title">Тест ПДР: X</h1>
<div data-question-holder-id="1"><div class="question_holder">№1 A</div><a data-question-comment-call="1"></a></div>`

	res, err := extractHTML(t, page, Options{})
	require.NoError(t, err)

	exp := res.Test.Questions[0].Explanation
	require.NotNil(t, exp)
	if exp.Comment != nil || exp.Legal.Title != nil || exp.Legal.HTML != nil {
		t.Errorf("expected all explanation fields absent, got %+v", exp)
	}
	if len(res.Suspect) != 1 || res.Suspect[0].Index != 0 {
		t.Errorf("expected question 0 flagged, got %v", res.Suspect)
	}
}

func TestParseQuestionName(t *testing.T) {
	re := config.DefaultTemplate().QuestionName()
	tests := []struct {
		heading string
		want    string
	}{
		{"№12\nЯкий максимальний дозволений...", "Який максимальний дозволений..."},
		{"№3 Коли водій повинен", "Коли водій повинен"},
		{"\n\t№45\n  Чи можна  \n", "Чи можна"},
		{"№7", ""},
	}
	for _, tt := range tests {
		got, err := ParseQuestionName(re, tt.heading)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("ParseQuestionName(%q) = %q, want %q", tt.heading, got, tt.want)
		}
	}

	if _, err := ParseQuestionName(re, "Питання 12"); err == nil {
		t.Error("expected an error for a heading without the marker")
	}
}

func TestParseTestName(t *testing.T) {
	re := config.DefaultTemplate().TestName()

	got, err := ParseTestName(re, "Тест ПДР: Дорожні знаки")
	require.NoError(t, err)
	if got != "Дорожні знаки" {
		t.Errorf("got %q", got)
	}

	_, err = ParseTestName(re, "Дорожні знаки")
	var se *models.ScrapeError
	if !errors.As(err, &se) || se.Code != models.ErrCodeTemplateMismatch {
		t.Errorf("expected TEMPLATE_MISMATCH, got %v", err)
	}
}

func TestLocate_SkipsPlaceholders(t *testing.T) {
	page := `<div data-question-holder-id="a"></div>
<div data-question-holder-id=""></div>
<div data-question-holder-id="b"></div>
<div class="other"></div>`
	doc, err := dom.NewStaticDocument(strings.NewReader(page), "https://pdr-online.com.ua/")
	require.NoError(t, err)

	ctx := context.Background()
	els, err := Locate(ctx, doc, config.DefaultTemplate())
	require.NoError(t, err)

	var ids []string
	for _, el := range els {
		id, _, _ := el.Attr(ctx, "data-question-holder-id")
		ids = append(ids, id)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ids); diff != "" {
		t.Errorf("located ids mismatch (-want +got):\n%s", diff)
	}
}
