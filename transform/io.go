package transform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/use-agent/pdrscrape/models"
)

// DecodeTests reads either a single Test object or an array of tests.
func DecodeTests(r io.Reader) ([]models.Test, error) {
	raw, kind, err := readJSON(r)
	if err != nil {
		return nil, err
	}
	switch kind {
	case '{':
		var t models.Test
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("decode test: %w", err)
		}
		return []models.Test{t}, nil
	case '[':
		var ts []models.Test
		if err := json.Unmarshal(raw, &ts); err != nil {
			return nil, fmt.Errorf("decode tests: %w", err)
		}
		return ts, nil
	default:
		return nil, fmt.Errorf("decode tests: expected object or array, got %q", kind)
	}
}

// DecodeQuestions reads either an array of questions or a Test object.
// For a Test, the Test itself is returned too so it can be re-emitted whole.
func DecodeQuestions(r io.Reader) ([]models.Question, *models.Test, error) {
	raw, kind, err := readJSON(r)
	if err != nil {
		return nil, nil, err
	}
	switch kind {
	case '[':
		var qs []models.Question
		if err := json.Unmarshal(raw, &qs); err != nil {
			return nil, nil, fmt.Errorf("decode questions: %w", err)
		}
		return qs, nil, nil
	case '{':
		var t models.Test
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, nil, fmt.Errorf("decode test: %w", err)
		}
		return t.Questions, &t, nil
	default:
		return nil, nil, fmt.Errorf("decode questions: expected array or object, got %q", kind)
	}
}

// WriteJSON writes v as tab-indented JSON followed by a newline. HTML in
// strings is written as-is.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func readJSON(r io.Reader) ([]byte, byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read input: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, 0, errors.New("read input: empty")
	}
	return raw, raw[0], nil
}
