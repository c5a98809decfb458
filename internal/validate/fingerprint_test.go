package validate

import (
	"testing"

	"github.com/sower-ml/sower/internal/model"
)

func TestInputFingerprint_NormalizesWhitespaceAndCase(t *testing.T) {
	a := InputFingerprint("Acme Corp acquired Globex Inc.")
	b := InputFingerprint("  ACME Corp\tacquired\n GLOBEX Inc.  ")

	if a != b {
		t.Errorf("Expected matching fingerprints, got %q and %q", a, b)
	}
	if a != "acmecorpacquiredglobexinc." {
		t.Errorf("Unexpected fingerprint: %q", a)
	}
}

func TestInputFingerprint_DistinguishesContent(t *testing.T) {
	a := InputFingerprint("Acme Corp acquired Globex Inc.")
	b := InputFingerprint("Acme Corp acquired Initech Inc.")

	if a == b {
		t.Error("Expected different fingerprints for different content")
	}
}

func TestOutputFingerprint_StableAcrossEqualOutputs(t *testing.T) {
	conf := 0.9
	out := func() *model.Output {
		return &model.Output{
			Entities: []model.Entity{
				{ID: "e1", Text: "Acme Corp", Type: "Company"},
			},
			Relations: []model.Relation{
				{SourceID: "e1", TargetID: "e1", RelationType: "acquired", Evidence: "x", Confidence: &conf},
			},
		}
	}

	a, err := OutputFingerprint(out())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b, err := OutputFingerprint(out())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a != b {
		t.Errorf("Expected equal fingerprints, got %q and %q", a, b)
	}

	changed := out()
	changed.Entities[0].Text = "Globex Inc."
	c, err := OutputFingerprint(changed)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a == c {
		t.Error("Expected different fingerprints for different outputs")
	}
}
