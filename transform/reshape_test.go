package transform

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/pdrscrape/models"
)

func comment(s string) *models.Explanation {
	return &models.Explanation{Comment: &s}
}

func questions(names ...string) []models.Question {
	qs := make([]models.Question, 0, len(names))
	for _, n := range names {
		qs = append(qs, models.Question{Name: n, Answers: []models.Answer{{Text: "так", IsCorrect: true}}})
	}
	return qs
}

func TestReshape(t *testing.T) {
	tests := []models.Test{
		{Name: "A", Questions: questions("a1", "a2")},
		{Name: "B", Questions: questions("b1")},
	}

	got := Reshape(tests)
	require.Equal(t, 2, got.Len())

	a, ok := got.Get("A")
	require.True(t, ok)
	if diff := cmp.Diff(questions("a1", "a2"), a); diff != "" {
		t.Errorf("A mismatch (-want +got):\n%s", diff)
	}
	b, ok := got.Get("B")
	require.True(t, ok)
	if diff := cmp.Diff(questions("b1"), b); diff != "" {
		t.Errorf("B mismatch (-want +got):\n%s", diff)
	}
}

func TestReshape_KeepsInputOrderInJSON(t *testing.T) {
	tests := []models.Test{
		{Name: "Я", Questions: questions("1")},
		{Name: "Б", Questions: questions("2")},
		{Name: "А", Questions: questions("3")},
	}

	raw, err := json.Marshal(Reshape(tests))
	require.NoError(t, err)

	ia := bytes.Index(raw, []byte(`"Я"`))
	ib := bytes.Index(raw, []byte(`"Б"`))
	ic := bytes.Index(raw, []byte(`"А"`))
	if !(ia >= 0 && ia < ib && ib < ic) {
		t.Errorf("keys not in input order: %s", raw)
	}
}

func TestReshape_DuplicateNameKeepsFirstPosition(t *testing.T) {
	tests := []models.Test{
		{Name: "A", Questions: questions("old")},
		{Name: "B", Questions: questions("b")},
		{Name: "A", Questions: questions("new")},
	}

	got := Reshape(tests)
	require.Equal(t, 2, got.Len())
	require.Equal(t, "A", got.Oldest().Key)

	a, _ := got.Get("A")
	if diff := cmp.Diff(questions("new"), a); diff != "" {
		t.Errorf("A mismatch (-want +got):\n%s", diff)
	}
}

func TestReshape_NilQuestionsBecomeEmptyArray(t *testing.T) {
	raw, err := json.Marshal(Reshape([]models.Test{{Name: "Порожній"}}))
	require.NoError(t, err)
	require.JSONEq(t, `{"Порожній": []}`, string(raw))
}

func TestReshape_Empty(t *testing.T) {
	raw, err := json.Marshal(Reshape(nil))
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(raw))
}

func TestFixExplanations(t *testing.T) {
	qs := questions("q0", "q1", "q2")
	qs[0].Explanation = comment("e0")
	qs[1].Explanation = comment("e1")
	qs[2].Explanation = comment("e2")

	got := FixExplanations(qs)

	var comments []string
	for _, q := range got {
		comments = append(comments, *q.Explanation.Comment)
	}
	if diff := cmp.Diff([]string{"e2", "e0", "e1"}, comments); diff != "" {
		t.Errorf("explanations mismatch (-want +got):\n%s", diff)
	}
	// Everything but the explanation stays in place.
	for i, q := range got {
		if want := questions("q0", "q1", "q2")[i].Name; q.Name != want {
			t.Errorf("question %d renamed to %q", i, q.Name)
		}
	}
}

func TestFixExplanations_MovesMissingExplanationsToo(t *testing.T) {
	qs := questions("q0", "q1", "q2")
	qs[0].Explanation = comment("e0")

	got := FixExplanations(qs)
	require.Nil(t, got[0].Explanation)
	require.Equal(t, "e0", *got[1].Explanation.Comment)
	require.Nil(t, got[2].Explanation)
}

func TestFixExplanations_Short(t *testing.T) {
	require.Empty(t, FixExplanations(nil))

	one := questions("q0")
	one[0].Explanation = comment("e0")
	got := FixExplanations(one)
	require.Equal(t, "e0", *got[0].Explanation.Comment)
}

func TestFixExplanations_FullRotationIsIdentity(t *testing.T) {
	qs := questions("q0", "q1", "q2", "q3")
	for i := range qs {
		qs[i].Explanation = comment(qs[i].Name)
	}
	want := make([]models.Question, len(qs))
	copy(want, qs)

	for range qs {
		FixExplanations(qs)
	}
	if diff := cmp.Diff(want, qs); diff != "" {
		t.Errorf("n shifts of n questions should be identity (-want +got):\n%s", diff)
	}
}
