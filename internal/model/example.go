package model

// Example represents one training record: a free-text input paired with its
// structured annotation. Seed examples carry only template_id, input and
// output; the expansion and augmentation engines add provenance tags.
type Example struct {
	TemplateID string  `json:"template_id"`      // Selects the rule record; immutable once assigned
	Input      string  `json:"input"`            // Free text, optionally with metadata headers and a CONTENT marker
	Output     *Output `json:"output,omitempty"` // Structured annotation

	// Provenance tags (absent on seed examples)
	VariantID        string `json:"variant_id,omitempty"`           // "{template}_dom{domain}_v{n}"
	SourceTemplate   string `json:"source_template,omitempty"`      // template_id of the originating seed
	ExpansionDomain  string `json:"expansion_domain,omitempty"`     // Target domain of the expansion
	AugmentationType string `json:"augmentation_type,omitempty"`    // paraphrase, noise, formal, informal
	AugmentationNum  int    `json:"augmentation_variant,omitempty"` // Variant number within one augmentation run
}

// Output holds the annotation layer of an example
type Output struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// Entity is a named span with a type. The id is unique within one example's
// entity sequence, not globally; relations reference entities through it.
type Entity struct {
	ID   string `json:"id"`
	Text string `json:"text"` // Should occur verbatim in the owning example's input
	Type string `json:"type"`
}

// Relation is a typed, confidence-scored assertion between two entities.
// Confidence is a pointer so a missing value is distinguishable from 0.
type Relation struct {
	SourceID     string   `json:"source_id"`
	TargetID     string   `json:"target_id"`
	RelationType string   `json:"relation_type"`
	Evidence     string   `json:"evidence"` // Free-text span attesting the relation
	Confidence   *float64 `json:"confidence,omitempty"`
}

// Clone returns a deep copy of the example. The expansion engine works on
// copies only; a seed is never mutated.
func (e *Example) Clone() *Example {
	c := *e
	if e.Output != nil {
		out := Output{}
		if e.Output.Entities != nil {
			out.Entities = make([]Entity, len(e.Output.Entities))
			copy(out.Entities, e.Output.Entities)
		}
		if e.Output.Relations != nil {
			out.Relations = make([]Relation, len(e.Output.Relations))
			for i, r := range e.Output.Relations {
				out.Relations[i] = r
				if r.Confidence != nil {
					v := *r.Confidence
					out.Relations[i].Confidence = &v
				}
			}
		}
		c.Output = &out
	}
	return &c
}

// EntityIDs returns the set of entity ids declared in the example's output.
func (e *Example) EntityIDs() map[string]bool {
	ids := make(map[string]bool)
	if e.Output == nil {
		return ids
	}
	for _, ent := range e.Output.Entities {
		ids[ent.ID] = true
	}
	return ids
}
