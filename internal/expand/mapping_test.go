package expand

import (
	"math/rand"
	"testing"

	"github.com/sower-ml/sower/internal/domain"
	"github.com/sower-ml/sower/internal/model"
)

func testDomain(pool ...string) *domain.Config {
	return &domain.Config{
		EntityTypes: map[string][]string{
			"Company": {"Hospital"},
		},
		EntityExamples: [][]string{pool},
		Relations: map[string][]string{
			"acquired": {"acquired"},
		},
	}
}

func TestBuildMapping_Injective(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Acme Corp", Type: "Company"},
		{ID: "e2", Text: "Globex Inc.", Type: "Company"},
	}
	dom := testDomain("Mercy General", "St. Luke's Clinic", "Riverside Medical")
	rng := rand.New(rand.NewSource(1))

	mapping, err := buildMapping(entities, dom, rng)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(mapping) != 2 {
		t.Fatalf("Expected 2 mapped names, got %d", len(mapping))
	}
	if mapping["Acme Corp"] == mapping["Globex Inc."] {
		t.Errorf("Expected distinct new names, both mapped to %s", mapping["Acme Corp"])
	}
	pool := map[string]bool{"Mercy General": true, "St. Luke's Clinic": true, "Riverside Medical": true}
	for old, new := range mapping {
		if !pool[new] {
			t.Errorf("Expected %s to map into the pool, got %s", old, new)
		}
	}
}

func TestBuildMapping_CyclesWhenPoolTooSmall(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Alpha Co", Type: "Company"},
		{ID: "e2", Text: "Beta Co", Type: "Company"},
		{ID: "e3", Text: "Gamma Co", Type: "Company"},
	}
	dom := testDomain("Mercy General", "St. Luke's Clinic")
	rng := rand.New(rand.NewSource(1))

	mapping, err := buildMapping(entities, dom, rng)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Cycling is positional: pool order repeats.
	if mapping["Alpha Co"] != "Mercy General" {
		t.Errorf("Expected Alpha Co -> Mercy General, got %s", mapping["Alpha Co"])
	}
	if mapping["Beta Co"] != "St. Luke's Clinic" {
		t.Errorf("Expected Beta Co -> St. Luke's Clinic, got %s", mapping["Beta Co"])
	}
	if mapping["Gamma Co"] != "Mercy General" {
		t.Errorf("Expected Gamma Co to cycle back to Mercy General, got %s", mapping["Gamma Co"])
	}
}

func TestBuildMapping_PersonIdentityByDefault(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Dana Whitfield", Type: "Person"},
	}
	dom := testDomain("Mercy General")
	rng := rand.New(rand.NewSource(1))

	mapping, err := buildMapping(entities, dom, rng)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if mapping["Dana Whitfield"] != "Dana Whitfield" {
		t.Errorf("Expected identity mapping for Person, got %s", mapping["Dana Whitfield"])
	}
}

func TestBuildMapping_PersonPoolOverride(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Dana Whitfield", Type: "Person"},
	}
	dom := testDomain("Mercy General")
	dom.PersonExamples = []string{"Jordan Reyes"}
	rng := rand.New(rand.NewSource(1))

	mapping, err := buildMapping(entities, dom, rng)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if mapping["Dana Whitfield"] != "Jordan Reyes" {
		t.Errorf("Expected person pool override, got %s", mapping["Dana Whitfield"])
	}
}

func TestBuildMapping_UnlistedTypeLeftAlone(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Berlin", Type: "Location"},
	}
	dom := testDomain("Mercy General")
	rng := rand.New(rand.NewSource(1))

	mapping, err := buildMapping(entities, dom, rng)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, ok := mapping["Berlin"]; ok {
		t.Error("Expected unlisted type to stay out of the mapping")
	}
}

func TestBuildMapping_EmptyPoolError(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Acme Corp", Type: "Company"},
	}
	dom := testDomain()
	rng := rand.New(rand.NewSource(1))

	_, err := buildMapping(entities, dom, rng)
	if err == nil {
		t.Fatal("Expected error for empty pool")
	}
}

func TestBuildMapping_DuplicateTextsCollapsed(t *testing.T) {
	entities := []model.Entity{
		{ID: "e1", Text: "Acme Corp", Type: "Company"},
		{ID: "e2", Text: "Acme Corp", Type: "Company"},
	}
	dom := testDomain("Mercy General")
	rng := rand.New(rand.NewSource(1))

	mapping, err := buildMapping(entities, dom, rng)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(mapping) != 1 {
		t.Errorf("Expected a single table entry for a repeated text, got %d", len(mapping))
	}
}
