package expand

import (
	"math/rand"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// substituteEntities applies the mapping to all whole-word occurrences of
// each old name, longest names first so "Bank of America" is rewritten
// before any embedded shorter name.
func substituteEntities(text string, mapping map[string]string) string {
	names := make([]string, 0, len(mapping))
	for old := range mapping {
		names = append(names, old)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	for _, old := range names {
		text = replaceWholeWord(text, old, mapping[old], false)
	}
	return text
}

// substituteRelationPhrases rewrites the first whole-word occurrence of
// each old relation phrase with a uniformly random choice from the
// domain's phrase list. Keys are visited in sorted order so draws are
// reproducible under a seeded generator.
func substituteRelationPhrases(text string, relations map[string][]string, rng *rand.Rand) string {
	for _, old := range sortedKeys(relations) {
		phrases := relations[old]
		if len(phrases) == 0 {
			continue
		}
		text = replaceWholeWord(text, old, phrases[rng.Intn(len(phrases))], true)
	}
	return text
}

// substituteTypeLabels rewrites every whole-word occurrence of each old
// type label with one random domain label, a single draw per type key.
func substituteTypeLabels(text string, entityTypes map[string][]string, rng *rand.Rand) string {
	for _, old := range sortedKeys(entityTypes) {
		labels := entityTypes[old]
		if len(labels) == 0 {
			continue
		}
		text = replaceWholeWord(text, old, labels[rng.Intn(len(labels))], false)
	}
	return text
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// replaceWholeWord replaces occurrences of old that stand on word
// boundaries: an occurrence is skipped when a word character of old abuts
// a word character of the surrounding text. firstOnly stops after the
// first replacement.
func replaceWholeWord(text, old, new string, firstOnly bool) string {
	if old == "" || old == new {
		return text
	}

	var b strings.Builder
	i := 0
	for i < len(text) {
		j := strings.Index(text[i:], old)
		if j < 0 {
			break
		}
		start := i + j
		end := start + len(old)

		if !wholeWordAt(text, start, end) {
			b.WriteString(text[i : start+1])
			i = start + 1
			continue
		}

		b.WriteString(text[i:start])
		b.WriteString(new)
		i = end
		if firstOnly {
			break
		}
	}
	b.WriteString(text[i:])
	return b.String()
}

// wholeWordAt reports whether text[start:end] sits on word boundaries.
// A boundary is only required where the match itself starts or ends with
// a word character, so names with trailing punctuation ("Globex Inc.")
// still match before a space.
func wholeWordAt(text string, start, end int) bool {
	if start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		first, _ := utf8.DecodeRuneInString(text[start:])
		if isWordChar(prev) && isWordChar(first) {
			return false
		}
	}
	if end < len(text) {
		last, _ := utf8.DecodeLastRuneInString(text[:end])
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWordChar(last) && isWordChar(next) {
			return false
		}
	}
	return true
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
