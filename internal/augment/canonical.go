// Package augment creates linguistic variants of training examples: the
// model rewrites the input's content section only, annotations stay
// untouched.
package augment

import "strings"

// contentMarker separates the metadata block from the content section in
// the canonical input layout.
const contentMarker = "CONTENT\n"

// ExtractContent returns the bare content section of a canonical input:
// everything after the CONTENT marker, minus bracketed header lines.
// Inputs without the marker are returned whole.
func ExtractContent(input string) string {
	parts := strings.SplitN(input, contentMarker, 2)
	if len(parts) < 2 {
		return input
	}

	lines := strings.Split(parts[1], "\n")
	clean := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "[") {
			continue
		}
		clean = append(clean, line)
	}

	return strings.TrimSpace(strings.Join(clean, "\n"))
}

// ReconstructInput rebuilds a canonical input around new content,
// preserving the original metadata block and any [Section: ...] header.
// Originals without the marker are replaced by the new content entirely.
func ReconstructInput(original, newContent string) string {
	parts := strings.SplitN(original, contentMarker, 2)
	if len(parts) < 2 {
		return newContent
	}

	metadata := parts[0] + contentMarker

	sectionHeader := ""
	if strings.HasPrefix(parts[1], "[Section:") {
		lines := strings.SplitN(parts[1], "\n", 2)
		sectionHeader = lines[0] + "\n"
	}

	return metadata + sectionHeader + newContent
}
