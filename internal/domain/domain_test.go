package domain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidFile(t *testing.T) {
	content := `
domains:
  finance:
    entity_types:
      Company: ["Bank", "Fund"]
    entity_examples:
      - ["First National", "Harbor Trust"]
      - ["Meridian Capital"]
    relations:
      acquired: ["acquired", "bought"]
  legal:
    entity_types:
      Company: ["Law Firm"]
    entity_examples:
      - ["Baxter & Cole"]
    person_examples: ["Jordan Reyes"]
    relations:
      acquired: ["absorbed"]
`
	path := filepath.Join(t.TempDir(), "domains.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(set) != 2 {
		t.Errorf("Expected 2 domains, got %d", len(set))
	}

	fin, err := set.Lookup("finance")
	if err != nil {
		t.Fatalf("Expected finance domain, got %v", err)
	}

	pool := fin.EntityPool()
	if len(pool) != 3 {
		t.Errorf("Expected flattened pool of 3, got %d", len(pool))
	}
	if pool[0] != "First National" || pool[2] != "Meridian Capital" {
		t.Errorf("Expected pool flattened in group order, got %v", pool)
	}

	leg, _ := set.Lookup("legal")
	if len(leg.PersonExamples) != 1 || leg.PersonExamples[0] != "Jordan Reyes" {
		t.Errorf("Expected person pool override, got %v", leg.PersonExamples)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/domains.yaml")
	if err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoad_EmptyDomains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.yaml")
	if err := os.WriteFile(path, []byte("domains: {}\n"), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for empty domains map")
	}
}

func TestSet_Lookup_Unknown(t *testing.T) {
	set := Default()

	_, err := set.Lookup("maritime")
	if err == nil {
		t.Fatal("Expected error for unknown domain")
	}
	if !errors.Is(err, ErrUnknownDomain) {
		t.Errorf("Expected ErrUnknownDomain, got %v", err)
	}
}

func TestSet_Names_Sorted(t *testing.T) {
	set := Default()

	names := set.Names()
	if len(names) != 3 {
		t.Fatalf("Expected 3 default domains, got %d", len(names))
	}
	expected := []string{"academic", "corporate", "healthcare"}
	for i, name := range expected {
		if names[i] != name {
			t.Errorf("Expected names[%d] = %s, got %s", i, name, names[i])
		}
	}
}

func TestConfig_Substitutable(t *testing.T) {
	cfg := &Config{
		EntityTypes: map[string][]string{
			"Organization": {"Hospital"},
		},
	}

	if !cfg.Substitutable("Company") {
		t.Error("Expected Company to always be substitutable")
	}
	if !cfg.Substitutable("Organization") {
		t.Error("Expected listed type to be substitutable")
	}
	if cfg.Substitutable("Person") {
		t.Error("Expected unlisted type to not be substitutable")
	}
}
