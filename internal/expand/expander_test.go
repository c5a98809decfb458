package expand

import (
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/sower-ml/sower/internal/domain"
	"github.com/sower-ml/sower/internal/model"
	"github.com/sower-ml/sower/internal/rules"
)

func confidence(v float64) *float64 {
	return &v
}

func testSeed() *model.Example {
	return &model.Example{
		TemplateID: "template_01_explicit_relation",
		Input:      "Acme Corp acquired Globex Inc.",
		Output: &model.Output{
			Entities: []model.Entity{
				{ID: "e1", Text: "Acme Corp", Type: "Company"},
				{ID: "e2", Text: "Globex Inc.", Type: "Company"},
			},
			Relations: []model.Relation{
				{
					SourceID:     "e1",
					TargetID:     "e2",
					RelationType: "acquired",
					Evidence:     "Acme Corp acquired Globex Inc.",
					Confidence:   confidence(0.95),
				},
			},
		},
	}
}

func testDomains() domain.Set {
	return domain.Set{
		"healthcare": {
			EntityTypes: map[string][]string{
				"Company": {"Hospital", "Clinic"},
			},
			EntityExamples: [][]string{
				{"Mercy General", "St. Luke's Clinic"},
			},
			Relations: map[string][]string{
				"acquired": {"acquired", "took over operations of"},
			},
		},
	}
}

func newTestExpander(seed int64) *Expander {
	return New(testDomains(), rules.DefaultTable(), rand.New(rand.NewSource(seed)))
}

func TestExpand_EndToEnd(t *testing.T) {
	e := newTestExpander(42)

	out, err := e.Expand(testSeed(), "healthcare", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	pool := map[string]bool{"Mercy General": true, "St. Luke's Clinic": true}
	for _, ent := range out.Output.Entities {
		if !pool[ent.Text] {
			t.Errorf("Expected entity text from the pool, got %q", ent.Text)
		}
		if !strings.Contains(out.Input, ent.Text) {
			t.Errorf("Expected input to contain substituted entity %q, input: %q", ent.Text, out.Input)
		}
	}

	rel := out.Output.Relations[0]
	if rel.Confidence == nil || *rel.Confidence != 0.95 {
		t.Errorf("Expected confidence unchanged at 0.95, got %v", rel.Confidence)
	}
	if rel.SourceID != "e1" || rel.TargetID != "e2" {
		t.Errorf("Expected ids untouched, got %s -> %s", rel.SourceID, rel.TargetID)
	}
	for _, ent := range out.Output.Entities {
		if !strings.Contains(rel.Evidence, ent.Text) {
			t.Errorf("Expected evidence to carry substituted entity %q, evidence: %q", ent.Text, rel.Evidence)
		}
	}
}

func TestExpand_Provenance(t *testing.T) {
	e := newTestExpander(42)

	out, err := e.Expand(testSeed(), "healthcare", 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := "template_01_explicit_relation_domhealthcare_v3"
	if out.VariantID != want {
		t.Errorf("Expected variant_id %q, got %q", want, out.VariantID)
	}
	if out.SourceTemplate != "template_01_explicit_relation" {
		t.Errorf("Unexpected source_template: %s", out.SourceTemplate)
	}
	if out.ExpansionDomain != "healthcare" {
		t.Errorf("Unexpected expansion_domain: %s", out.ExpansionDomain)
	}
	if out.TemplateID != "template_01_explicit_relation" {
		t.Errorf("Expected template_id unchanged, got %s", out.TemplateID)
	}
}

func TestExpand_DeterministicWithFixedSeed(t *testing.T) {
	first, err := newTestExpander(7).Expand(testSeed(), "healthcare", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := newTestExpander(7).Expand(testSeed(), "healthcare", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Expected identical output for identical seeds:\n%s\n%s", a, b)
	}
}

func TestExpand_SeedNotMutated(t *testing.T) {
	seed := testSeed()
	before, _ := json.Marshal(seed)

	e := newTestExpander(42)
	if _, err := e.Expand(seed, "healthcare", 1); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	after, _ := json.Marshal(seed)
	if string(before) != string(after) {
		t.Errorf("Expected seed unchanged:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestExpand_ReferentialClosure(t *testing.T) {
	e := newTestExpander(42)

	out, err := e.Expand(testSeed(), "healthcare", 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ids := out.EntityIDs()
	for _, rel := range out.Output.Relations {
		if !ids[rel.SourceID] {
			t.Errorf("Expected source_id %s to resolve", rel.SourceID)
		}
		if !ids[rel.TargetID] {
			t.Errorf("Expected target_id %s to resolve", rel.TargetID)
		}
	}
}

func TestExpand_UnknownDomain(t *testing.T) {
	e := newTestExpander(42)

	_, err := e.Expand(testSeed(), "maritime", 1)
	if err == nil {
		t.Fatal("Expected error for unknown domain")
	}
	if !errors.Is(err, domain.ErrUnknownDomain) {
		t.Errorf("Expected ErrUnknownDomain, got %v", err)
	}
}

func TestExpand_UnknownTemplate(t *testing.T) {
	e := newTestExpander(42)
	seed := testSeed()
	seed.TemplateID = "template_99_nonexistent"

	_, err := e.Expand(seed, "healthcare", 1)
	if err == nil {
		t.Fatal("Expected error for unknown template")
	}
	if !errors.Is(err, rules.ErrUnknownTemplate) {
		t.Errorf("Expected ErrUnknownTemplate, got %v", err)
	}
}

func TestExpandAll_SeedTimesDomainTimesVariant(t *testing.T) {
	domains := testDomains()
	domains["academic"] = &domain.Config{
		EntityTypes: map[string][]string{
			"Company": {"University"},
		},
		EntityExamples: [][]string{{"Ashford University", "Blackwell Institute"}},
		Relations: map[string][]string{
			"acquired": {"absorbed"},
		},
	}
	e := New(domains, rules.DefaultTable(), rand.New(rand.NewSource(42)))

	seeds := []*model.Example{testSeed(), testSeed()}
	generated, err := e.ExpandAll(seeds, 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// 2 seeds x 2 domains x 3 variants
	if len(generated) != 12 {
		t.Errorf("Expected 12 variants, got %d", len(generated))
	}
}

func TestExpandAll_SkipsBrokenVariantContinues(t *testing.T) {
	domains := testDomains()
	// A pathological domain with no pool: its variants fail, the batch
	// continues into healthcare.
	domains["broken"] = &domain.Config{
		EntityTypes: map[string][]string{
			"Company": {"Void"},
		},
		Relations: map[string][]string{},
	}
	e := New(domains, rules.DefaultTable(), rand.New(rand.NewSource(42)))

	generated, err := e.ExpandAll([]*model.Example{testSeed()}, 1)
	if err != nil {
		t.Fatalf("Expected batch to continue, got %v", err)
	}
	if len(generated) != 1 {
		t.Fatalf("Expected 1 surviving variant, got %d", len(generated))
	}
	if generated[0].ExpansionDomain != "healthcare" {
		t.Errorf("Expected surviving variant from healthcare, got %s", generated[0].ExpansionDomain)
	}
}

func TestExpandAll_UnknownTemplateAborts(t *testing.T) {
	e := newTestExpander(42)
	seed := testSeed()
	seed.TemplateID = "template_99_nonexistent"

	_, err := e.ExpandAll([]*model.Example{seed}, 1)
	if err == nil {
		t.Fatal("Expected configuration error to abort the batch")
	}
	if !errors.Is(err, rules.ErrUnknownTemplate) {
		t.Errorf("Expected ErrUnknownTemplate, got %v", err)
	}
}
