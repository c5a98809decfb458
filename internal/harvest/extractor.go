// Package harvest turns raw documents (web pages or local files) into
// draft seed examples: visible text is split into sentence windows and
// candidate entities are proposed for human correction.
package harvest

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sower-ml/sower/internal/model"
	"golang.org/x/net/html"
)

// Extractor builds draft examples from document text.
type Extractor struct {
	templateID        string
	sentencesPerDraft int
}

// NewExtractor creates an extractor emitting drafts under the given
// template.
func NewExtractor(templateID string, sentencesPerDraft int) *Extractor {
	if sentencesPerDraft <= 0 {
		sentencesPerDraft = 3
	}
	return &Extractor{
		templateID:        templateID,
		sentencesPerDraft: sentencesPerDraft,
	}
}

// DraftsFromHTML extracts visible text from an HTML document and builds
// draft examples from it.
func (e *Extractor) DraftsFromHTML(htmlContent string) ([]*model.Example, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	return e.DraftsFromText(extractVisibleText(doc)), nil
}

// DraftsFromText splits text into sentence windows and proposes candidate
// entities per window. Relations are left empty: drafts are meant for a
// human pass before they join a training set.
func (e *Extractor) DraftsFromText(text string) []*model.Example {
	sentences := splitSentences(text)

	var drafts []*model.Example
	for start := 0; start < len(sentences); start += e.sentencesPerDraft {
		end := start + e.sentencesPerDraft
		if end > len(sentences) {
			end = len(sentences)
		}
		input := strings.Join(sentences[start:end], " ")

		drafts = append(drafts, &model.Example{
			TemplateID: e.templateID,
			Input:      input,
			Output: &model.Output{
				Entities:  candidateEntities(input),
				Relations: []model.Relation{},
			},
		})
	}

	return drafts
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// splitSentences splits text into sentences (simple heuristic)
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	keep := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= 30 && len(sentence) <= 500 {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				keep()
			}
		}
	}
	if current.Len() > 0 {
		keep()
	}

	return sentences
}

// spanStopwords are sentence-starters that look like entities to the
// capitalization heuristic but never are.
var spanStopwords = map[string]bool{
	"The": true, "A": true, "An": true, "In": true, "On": true, "At": true,
	"It": true, "This": true, "That": true, "These": true, "Those": true,
	"He": true, "She": true, "They": true, "We": true, "I": true,
	"But": true, "And": true, "Or": true, "If": true, "When": true,
	"After": true, "Before": true, "However": true, "According": true,
}

// candidateEntities proposes entities from consecutive capitalized-word
// spans. Ids are positional and unique within the draft.
func candidateEntities(text string) []model.Entity {
	words := strings.Fields(text)

	var spans []string
	var current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		span := strings.Join(current, " ")
		span = strings.TrimRight(span, ".,;:!?")
		if span != "" && !spanStopwords[span] {
			spans = append(spans, span)
		}
		current = nil
	}

	for _, word := range words {
		if startsUpper(word) {
			current = append(current, word)
			continue
		}
		flush()
	}
	flush()

	seen := make(map[string]bool)
	var entities []model.Entity
	for _, span := range spans {
		if seen[span] {
			continue
		}
		seen[span] = true
		entities = append(entities, model.Entity{
			ID:   entityID(len(entities) + 1),
			Text: span,
			Type: "Unknown",
		})
	}
	if entities == nil {
		entities = []model.Entity{}
	}
	return entities
}

func entityID(n int) string {
	return "e" + strconv.Itoa(n)
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}
