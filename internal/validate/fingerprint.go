package validate

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/sower-ml/sower/internal/model"
)

// InputFingerprint normalizes an input text for near-duplicate detection:
// lower-cased with all whitespace removed.
func InputFingerprint(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// OutputFingerprint produces a canonical key-sorted JSON serialization of
// the annotation layer. Two outputs differing only in encoding order share
// a fingerprint.
func OutputFingerprint(out *model.Output) (string, error) {
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("marshal output: %w", err)
	}

	// Round-trip through an untyped value: encoding/json writes map keys
	// in sorted order.
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return "", fmt.Errorf("canonicalize output: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("canonicalize output: %w", err)
	}

	return string(canonical), nil
}
