package augment

import "testing"

const canonicalInput = `Source: filing 2024-03
Language: en
CONTENT
[Section: Mergers]
Acme Corp acquired Globex Inc.
The deal closed in March.`

func TestExtractContent_WithMarker(t *testing.T) {
	got := ExtractContent(canonicalInput)
	want := "Acme Corp acquired Globex Inc.\nThe deal closed in March."
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtractContent_NoMarker(t *testing.T) {
	input := "Just plain text without structure."
	if got := ExtractContent(input); got != input {
		t.Errorf("Expected passthrough, got %q", got)
	}
}

func TestExtractContent_DropsBracketedLines(t *testing.T) {
	input := "CONTENT\n[Section: A]\n[Table omitted]\nreal content"
	if got := ExtractContent(input); got != "real content" {
		t.Errorf("Expected bracketed lines dropped, got %q", got)
	}
}

func TestReconstructInput_KeepsMetadataAndSection(t *testing.T) {
	got := ReconstructInput(canonicalInput, "New content line.")
	want := `Source: filing 2024-03
Language: en
CONTENT
[Section: Mergers]
New content line.`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestReconstructInput_NoMarker(t *testing.T) {
	got := ReconstructInput("plain input", "replacement")
	if got != "replacement" {
		t.Errorf("Expected full replacement, got %q", got)
	}
}

func TestReconstructInput_NoSectionHeader(t *testing.T) {
	original := "Meta\nCONTENT\nold content"
	got := ReconstructInput(original, "new content")
	if got != "Meta\nCONTENT\nnew content" {
		t.Errorf("Unexpected reconstruction: %q", got)
	}
}
