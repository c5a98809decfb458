// Package domain holds the target-domain vocabularies used by the
// substitution engine: entity pools, type labels and relation phrasings
// keyed by domain name.
package domain

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownDomain is returned when a domain name has no configuration.
var ErrUnknownDomain = errors.New("unknown domain")

// Config describes one target domain's vocabulary.
type Config struct {
	// EntityTypes maps an old type label to the domain's replacement labels.
	EntityTypes map[string][]string `yaml:"entity_types"`

	// EntityExamples are grouped name pools; groups are flattened in order
	// for sampling.
	EntityExamples [][]string `yaml:"entity_examples"`

	// PersonExamples optionally overrides the identity policy for Person
	// entities. Empty means person names pass through unchanged.
	PersonExamples []string `yaml:"person_examples,omitempty"`

	// Relations maps an old relation type to the domain's phrasings.
	Relations map[string][]string `yaml:"relations"`
}

// Set maps domain name to its configuration.
type Set map[string]*Config

// file is the on-disk layout: a single top-level domains key.
type file struct {
	Domains map[string]*Config `yaml:"domains"`
}

// Load reads a domain configuration file (YAML, top-level "domains" map).
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain config: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse domain config: %w", err)
	}
	if len(f.Domains) == 0 {
		return nil, fmt.Errorf("domain config %s: no domains defined", path)
	}

	return Set(f.Domains), nil
}

// Lookup resolves a domain name, wrapping ErrUnknownDomain on a miss so
// callers can distinguish configuration errors with errors.Is.
func (s Set) Lookup(name string) (*Config, error) {
	cfg, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDomain, name)
	}
	return cfg, nil
}

// Names returns all domain names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntityPool returns the flattened entity name pool in group order.
func (c *Config) EntityPool() []string {
	var pool []string
	for _, group := range c.EntityExamples {
		pool = append(pool, group...)
	}
	return pool
}

// Substitutable reports whether entities of the given type receive new
// names from this domain's pool. "Company" is always substitutable; other
// types must be listed under entity_types.
func (c *Config) Substitutable(entityType string) bool {
	if entityType == "Company" {
		return true
	}
	_, ok := c.EntityTypes[entityType]
	return ok
}

// Default returns the built-in domain set used when no config file is
// given: the three production expansion targets.
func Default() Set {
	return Set{
		"corporate": {
			EntityTypes: map[string][]string{
				"Company": {"Company", "Corporation", "Firm", "Subsidiary"},
			},
			EntityExamples: [][]string{
				{"Northwind Trading", "Contoso Ltd.", "Fabrikam Inc."},
				{"Initech Solutions", "Vandelay Industries", "Hooli Group"},
			},
			Relations: map[string][]string{
				"acquired":    {"acquired", "bought out", "took over", "absorbed"},
				"merged_with": {"merged with", "combined with", "joined forces with"},
				"subsidiary":  {"is a subsidiary of", "operates under"},
			},
		},
		"healthcare": {
			EntityTypes: map[string][]string{
				"Company": {"Hospital", "Clinic", "Health System", "Medical Group"},
			},
			EntityExamples: [][]string{
				{"Mercy General", "St. Luke's Clinic", "Riverside Medical Center"},
				{"Lakeview Health System", "Summit Care Group", "Cedar Valley Hospital"},
			},
			Relations: map[string][]string{
				"acquired":    {"acquired", "took over operations of", "absorbed"},
				"merged_with": {"merged with", "consolidated with"},
				"subsidiary":  {"is an affiliate of", "operates under"},
			},
		},
		"academic": {
			EntityTypes: map[string][]string{
				"Company": {"University", "Institute", "Research Center", "College"},
			},
			EntityExamples: [][]string{
				{"Ashford University", "Blackwell Institute", "Northgate College"},
				{"Hollis Research Center", "Marlowe Polytechnic", "Eastbrook Academy"},
			},
			Relations: map[string][]string{
				"acquired":    {"absorbed", "incorporated", "took over"},
				"merged_with": {"merged with", "federated with"},
				"subsidiary":  {"is a department of", "operates under"},
			},
		},
	}
}
