package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"
)

// Template describes the fixed page structure the extractor reads.
type Template struct {
	// Origin is prepended to root-relative links in legal HTML.
	Origin string `yaml:"origin"`

	TestHeading     string `yaml:"test_heading"`
	TestNamePattern string `yaml:"test_name_pattern"`

	QuestionHolder      string `yaml:"question_holder"`
	HolderAttr          string `yaml:"holder_attr"`
	QuestionHeading     string `yaml:"question_heading"`
	QuestionNamePattern string `yaml:"question_name_pattern"`

	AnswerReveal string `yaml:"answer_reveal"`
	Answer       string `yaml:"answer"`
	CorrectClass string `yaml:"correct_class"`
	ImageLink    string `yaml:"image_link"`

	CommentReveal string `yaml:"comment_reveal"`
	CommentText   string `yaml:"comment_text"`
	LegalTitle    string `yaml:"legal_title"`
	LegalHTML     string `yaml:"legal_html"`

	// DecorativeClasses are class tokens stripped from legal HTML.
	DecorativeClasses []string `yaml:"decorative_classes"`

	testName     *regexp.Regexp
	questionName *regexp.Regexp
}

// DefaultTemplate returns the pdr-online.com.ua test page template.
func DefaultTemplate() *Template {
	t := &Template{
		Origin:              "https://pdr-online.com.ua",
		TestHeading:         "h1.block_title",
		TestNamePattern:     `Тест ПДР: (.*)`,
		QuestionHolder:      "div[data-question-holder-id]",
		HolderAttr:          "data-question-holder-id",
		QuestionHeading:     ".question_holder",
		QuestionNamePattern: `№\d+\n?(.*)`,
		AnswerReveal:        ".question_answer_holder a",
		Answer:              "a[data-answer-question]",
		CorrectClass:        "correct",
		ImageLink:           ".question_block_in a",
		CommentReveal:       "a[data-question-comment-call]",
		CommentText:         ".instructor_comment_text.content p",
		LegalTitle:          ".pdr_i_head_text",
		LegalHTML:           ".pdr_i_description.content",
		DecorativeClasses:   []string{"pdr_i_link"},
	}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}

// LoadTemplate returns the default template overridden by the YAML file at
// path. An empty path yields the defaults.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: read %s: %w", path, err)
	}
	return ParseTemplate(data)
}

// ParseTemplate overlays YAML data on the default template and validates it.
func ParseTemplate(data []byte) (*Template, error) {
	t := DefaultTemplate()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(t); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("template: decode: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks every selector and compiles both name patterns.
func (t *Template) Validate() error {
	selectors := map[string]string{
		"test_heading":     t.TestHeading,
		"question_holder":  t.QuestionHolder,
		"question_heading": t.QuestionHeading,
		"answer_reveal":    t.AnswerReveal,
		"answer":           t.Answer,
		"image_link":       t.ImageLink,
		"comment_reveal":   t.CommentReveal,
		"comment_text":     t.CommentText,
		"legal_title":      t.LegalTitle,
		"legal_html":       t.LegalHTML,
	}
	for field, sel := range selectors {
		if sel == "" {
			return fmt.Errorf("template: %s is empty", field)
		}
		if _, err := cascadia.ParseGroup(sel); err != nil {
			return fmt.Errorf("template: %s %q: %w", field, sel, err)
		}
	}
	if t.HolderAttr == "" || t.CorrectClass == "" {
		return fmt.Errorf("template: holder_attr and correct_class are required")
	}

	var err error
	if t.testName, err = compileNamePattern("test_name_pattern", t.TestNamePattern); err != nil {
		return err
	}
	if t.questionName, err = compileNamePattern("question_name_pattern", t.QuestionNamePattern); err != nil {
		return err
	}
	return nil
}

// compileNamePattern requires at least one capture group: group 1 is the name.
func compileNamePattern(field, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("template: %s: %w", field, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("template: %s %q has no capture group", field, pattern)
	}
	return re, nil
}

// TestName is the compiled test heading pattern.
func (t *Template) TestName() *regexp.Regexp { return t.testName }

// QuestionName is the compiled question heading pattern.
func (t *Template) QuestionName() *regexp.Regexp { return t.questionName }
