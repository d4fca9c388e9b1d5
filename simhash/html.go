package simhash

import (
	"strings"

	"golang.org/x/net/html"
)

// FingerprintHTML computes a SimHash of the visible text of an HTML
// fragment. Words are shingled in threes so that reordering a passage
// moves the fingerprint, not only changing its vocabulary.
func FingerprintHTML(htmlStr string) uint64 {
	words := strings.Fields(extractText(htmlStr))
	if len(words) == 0 {
		return 0
	}

	shingles := makeShingles(words, 3)
	if len(shingles) == 0 {
		// Too few words for shingles, fall back to the words themselves.
		return Fingerprint(strings.Join(words, " "))
	}

	return Fingerprint(strings.Join(shingles, " "))
}

// extractText walks HTML with the tokenizer and joins text tokens,
// skipping <script> and <style> content.
func extractText(htmlStr string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(htmlStr))
	var buf strings.Builder
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			if tn, _ := tokenizer.TagName(); isSkipped(string(tn)) {
				skipDepth++
			}
		case html.EndTagToken:
			if tn, _ := tokenizer.TagName(); isSkipped(string(tn)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth == 0 {
				buf.Write(tokenizer.Text())
				buf.WriteByte(' ')
			}
		}
	}
}

func isSkipped(tag string) bool {
	return tag == "script" || tag == "style"
}

// makeShingles creates n-gram shingles from a slice of tokens.
func makeShingles(tokens []string, n int) []string {
	if len(tokens) < n {
		return nil
	}

	shingles := make([]string, 0, len(tokens)-n+1)
	for i := 0; i <= len(tokens)-n; i++ {
		shingles = append(shingles, strings.Join(tokens[i:i+n], "_"))
	}
	return shingles
}
