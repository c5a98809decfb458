// Package validate implements the rule validation engine: per-example
// structural, template-rule and referential-integrity checks plus
// corpus-scoped near-duplicate detection.
package validate

import (
	"fmt"
	"strings"

	"github.com/sower-ml/sower/internal/dataset"
	"github.com/sower-ml/sower/internal/model"
	"github.com/sower-ml/sower/internal/rules"
)

// Run accumulates errors (fatal) and warnings (non-fatal) across one
// validation pass over one file. The duplicate-fingerprint sets live here,
// never in package state, so parallel or repeated runs cannot leak into
// each other.
type Run struct {
	rules rules.Table

	errors   []string
	warnings []string

	seenInputs  map[string]int // fingerprint -> first line seen
	seenOutputs map[string]int
}

// NewRun creates an empty accumulator over the given rule table.
func NewRun(table rules.Table) *Run {
	return &Run{
		rules:       table,
		seenInputs:  make(map[string]int),
		seenOutputs: make(map[string]int),
	}
}

// Check validates one example. All findings are appended to the run's
// accumulators; malformed examples never stop the run.
func (r *Run) Check(ex *model.Example, line int) {
	if !r.checkStructure(ex, line) {
		return
	}

	rule, err := r.rules.Lookup(ex.TemplateID)
	if err != nil {
		r.errorf(line, "unknown template_id %s", ex.TemplateID)
		return
	}

	r.checkRule(ex, rule, line)
	r.checkDuplicates(ex, line)
	r.checkReferences(ex, line)
	r.checkGroundedness(ex, line)
}

// checkStructure enforces structural completeness. Returns false when the
// example is too broken for the remaining checks to apply.
func (r *Run) checkStructure(ex *model.Example, line int) bool {
	complete := true
	if ex.TemplateID == "" {
		r.errorf(line, "missing template_id")
		complete = false
	}
	if ex.Input == "" {
		r.errorf(line, "missing input")
		complete = false
	}
	if ex.Output == nil {
		r.errorf(line, "missing output")
		return false
	}
	if ex.Output.Entities == nil {
		r.errorf(line, "missing output.entities")
		complete = false
	}
	if ex.Output.Relations == nil {
		r.errorf(line, "missing output.relations")
		complete = false
	}
	return complete
}

// checkRule enforces the template's rule record. Abstention under
// allow_abstain=false is reported as a warning only; confidence bounds
// violations likewise warn rather than reject.
func (r *Run) checkRule(ex *model.Example, rule rules.Rule, line int) {
	relations := ex.Output.Relations

	if !rule.AllowRelations && len(relations) > 0 {
		r.errorf(line, "relations not allowed for %s", ex.TemplateID)
	}
	if !rule.AllowAbstain && len(relations) == 0 {
		r.warnf(line, "abstention discouraged for %s", ex.TemplateID)
	}

	for i, rel := range relations {
		if rel.Confidence == nil {
			r.errorf(line, "relation %d: missing confidence", i)
			continue
		}
		conf := *rel.Confidence
		if rule.MinConfidence != nil && conf < *rule.MinConfidence {
			r.warnf(line, "relation %d: confidence %g < %g for %s", i, conf, *rule.MinConfidence, ex.TemplateID)
		}
		if rule.MaxConfidence != nil && conf > *rule.MaxConfidence {
			r.warnf(line, "relation %d: confidence %g > %g for %s", i, conf, *rule.MaxConfidence, ex.TemplateID)
		}
	}
}

// checkDuplicates warns on repeated input or output fingerprints. The
// first occurrence is recorded silently; repeats warn in processing order.
func (r *Run) checkDuplicates(ex *model.Example, line int) {
	inFP := InputFingerprint(ex.Input)
	if first, ok := r.seenInputs[inFP]; ok {
		r.warnf(line, "duplicate input (first seen on line %d)", first)
	} else {
		r.seenInputs[inFP] = line
	}

	outFP, err := OutputFingerprint(ex.Output)
	if err != nil {
		r.errorf(line, "fingerprint output: %v", err)
		return
	}
	if first, ok := r.seenOutputs[outFP]; ok {
		r.warnf(line, "duplicate output (first seen on line %d)", first)
	} else {
		r.seenOutputs[outFP] = line
	}
}

// checkReferences enforces entity-relation referential integrity: every
// relation endpoint must name an entity id from the same example.
func (r *Run) checkReferences(ex *model.Example, line int) {
	ids := ex.EntityIDs()
	for i, rel := range ex.Output.Relations {
		if !ids[rel.SourceID] {
			r.errorf(line, "relation %d: source_id %s not found in entities", i, rel.SourceID)
		}
		if !ids[rel.TargetID] {
			r.errorf(line, "relation %d: target_id %s not found in entities", i, rel.TargetID)
		}
	}
}

// checkGroundedness warns when an entity's text does not occur verbatim in
// the input.
func (r *Run) checkGroundedness(ex *model.Example, line int) {
	for _, ent := range ex.Output.Entities {
		if !strings.Contains(ex.Input, ent.Text) {
			r.warnf(line, "entity %s text %q not found in input", ent.ID, ent.Text)
		}
	}
}

// File validates a whole JSONL dataset, fail-slow: every line is checked
// even after earlier lines produced errors. The returned error covers only
// unreadable input; validation findings live in the accumulators.
func (r *Run) File(path string) error {
	records, err := dataset.ReadFile(path)
	if err != nil {
		return err
	}
	for _, rec := range records {
		r.Check(rec.Example, rec.Line)
	}
	return nil
}

// Errors returns all fatal findings in processing order.
func (r *Run) Errors() []string {
	return r.errors
}

// Warnings returns all non-fatal findings in processing order.
func (r *Run) Warnings() []string {
	return r.warnings
}

// Failed reports whether the run recorded at least one fatal error.
func (r *Run) Failed() bool {
	return len(r.errors) > 0
}

func (r *Run) errorf(line int, format string, a ...interface{}) {
	r.errors = append(r.errors, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, a...)))
}

func (r *Run) warnf(line int, format string, a ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, a...)))
}
