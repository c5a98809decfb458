// Package rules holds the per-template rule records that constrain what a
// valid example may contain. The table is in-process configuration, not
// loaded from disk.
package rules

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTemplate is returned when a template_id has no rule record.
var ErrUnknownTemplate = errors.New("unknown template_id")

// Rule constrains examples produced for one template. Nil confidence bounds
// mean unconstrained.
type Rule struct {
	AllowRelations bool     // false forbids any relation in output
	AllowAbstain   bool     // false discourages an empty relation list
	MinConfidence  *float64 // Lower bound for every relation's confidence
	MaxConfidence  *float64 // Upper bound for every relation's confidence
}

// Table maps template_id to its rule record.
type Table map[string]Rule

// Lookup resolves a template_id, wrapping ErrUnknownTemplate on a miss so
// callers can distinguish configuration errors with errors.Is.
func (t Table) Lookup(templateID string) (Rule, error) {
	rule, ok := t[templateID]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %s", ErrUnknownTemplate, templateID)
	}
	return rule, nil
}

// Names returns all template ids in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultTable returns the production rule table for the eleven training
// templates.
func DefaultTable() Table {
	return Table{
		"template_01_explicit_relation": {
			AllowRelations: true,
			AllowAbstain:   false,
			MinConfidence:  bound(0.9),
			MaxConfidence:  bound(1.0),
		},
		"template_02_implicit_relation": {
			AllowRelations: true,
			AllowAbstain:   true,
			MinConfidence:  bound(0.6),
			MaxConfidence:  bound(0.85),
		},
		"template_03_abstain": {
			AllowRelations: false,
			AllowAbstain:   true,
		},
		"template_04_mixed_format": {
			AllowRelations: true,
			AllowAbstain:   true,
			MinConfidence:  bound(0.6),
			MaxConfidence:  bound(1.0),
		},
		"template_05_roles_attributes": {
			AllowRelations: false,
			AllowAbstain:   true,
		},
		"template_06_table_like": {
			AllowRelations: true,
			AllowAbstain:   true,
			MinConfidence:  bound(0.7),
			MaxConfidence:  bound(1.0),
		},
		"template_07_long_context": {
			AllowRelations: true,
			AllowAbstain:   true,
			MinConfidence:  bound(0.7),
			MaxConfidence:  bound(1.0),
		},
		"template_08_visual_context": {
			AllowRelations: true,
			AllowAbstain:   true,
			MinConfidence:  bound(0.7),
			MaxConfidence:  bound(1.0),
		},
		"template_09_noisy_ocr": {
			AllowRelations: true,
			AllowAbstain:   true,
			MinConfidence:  bound(0.5),
			MaxConfidence:  bound(0.75),
		},
		"template_10_conflicting_info": {
			AllowRelations: false,
			AllowAbstain:   true,
		},
		"template_11_user_commentary": {
			AllowRelations: false,
			AllowAbstain:   true,
		},
	}
}

func bound(v float64) *float64 {
	return &v
}
