// Package expand implements the domain substitution engine: it rewrites a
// seed example's input text and structured output consistently under an
// entity/relation mapping drawn from a target domain's vocabulary.
package expand

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/sower-ml/sower/internal/domain"
	"github.com/sower-ml/sower/internal/model"
	"github.com/sower-ml/sower/internal/rules"
)

// Expander turns seed examples into domain variants. Randomness is
// injected so a fixed seed value yields a reproducible expansion.
type Expander struct {
	domains domain.Set
	rules   rules.Table
	rng     *rand.Rand
	verbose bool
}

// New creates an expander over the given domain set and rule table.
func New(domains domain.Set, table rules.Table, rng *rand.Rand) *Expander {
	return &Expander{
		domains: domains,
		rules:   table,
		rng:     rng,
	}
}

// SetVerbose enables progress output on stderr.
func (e *Expander) SetVerbose(v bool) {
	e.verbose = v
}

// Expand produces one domain variant of a seed example. The seed is never
// mutated; all rewriting happens on a deep copy. Configuration failures
// (domain.ErrUnknownDomain, rules.ErrUnknownTemplate) are raised before
// any observable work.
func (e *Expander) Expand(seed *model.Example, domainName string, variantNum int) (*model.Example, error) {
	dom, err := e.domains.Lookup(domainName)
	if err != nil {
		return nil, err
	}
	if _, err := e.rules.Lookup(seed.TemplateID); err != nil {
		return nil, err
	}

	out := seed.Clone()

	var entities []model.Entity
	if out.Output != nil {
		entities = out.Output.Entities
	}
	mapping, err := buildMapping(entities, dom, e.rng)
	if err != nil {
		return nil, fmt.Errorf("build mapping: %w", err)
	}

	// Input surface: entity mentions, then one relation phrase per key,
	// then type labels.
	input := substituteEntities(out.Input, mapping)
	input = substituteRelationPhrases(input, dom.Relations, e.rng)
	input = substituteTypeLabels(input, dom.EntityTypes, e.rng)
	out.Input = input

	if out.Output != nil {
		e.substituteOutput(out.Output, mapping, dom)
	}

	out.VariantID = fmt.Sprintf("%s_dom%s_v%d", seed.TemplateID, domainName, variantNum)
	out.SourceTemplate = seed.TemplateID
	out.ExpansionDomain = domainName

	return out, nil
}

// substituteOutput rewrites the annotation layer under the same mapping
// used for the input. Each entity's type label and each relation's phrase
// are independent draws; the relation-phrase draw here may disagree with
// the one rendered into the input body, a fidelity gap the validator does
// not currently catch.
func (e *Expander) substituteOutput(out *model.Output, mapping map[string]string, dom *domain.Config) {
	for i, ent := range out.Entities {
		if replacement, ok := mapping[ent.Text]; ok {
			out.Entities[i].Text = replacement
		}
		if labels := dom.EntityTypes[ent.Type]; len(labels) > 0 {
			out.Entities[i].Type = labels[e.rng.Intn(len(labels))]
		}
	}

	for i, rel := range out.Relations {
		newType := rel.RelationType
		if phrases := dom.Relations[rel.RelationType]; len(phrases) > 0 {
			newType = phrases[e.rng.Intn(len(phrases))]
			out.Relations[i].RelationType = newType
		}

		// Evidence stays consistent with the relation's own new label,
		// not with whatever phrase was drawn for the input body.
		evidence := substituteEntities(rel.Evidence, mapping)
		evidence = replaceWholeWord(evidence, rel.RelationType, newType, true)
		out.Relations[i].Evidence = evidence
	}
}

// ExpandAll runs the full seed × domain × variant loop. Configuration
// errors abort the batch; any other per-variant failure (for example a
// pathological domain config with an empty pool) is logged and skipped.
func (e *Expander) ExpandAll(seeds []*model.Example, variantsPerDomain int) ([]*model.Example, error) {
	if variantsPerDomain <= 0 {
		variantsPerDomain = 1
	}

	var generated []*model.Example
	for _, seed := range seeds {
		for _, domainName := range e.domains.Names() {
			for v := 1; v <= variantsPerDomain; v++ {
				variant, err := e.Expand(seed, domainName, v)
				if err != nil {
					if errors.Is(err, domain.ErrUnknownDomain) || errors.Is(err, rules.ErrUnknownTemplate) {
						return nil, err
					}
					fmt.Fprintf(os.Stderr, "✗ skipping %s variant %d for domain %s: %v\n",
						seed.TemplateID, v, domainName, err)
					continue
				}
				generated = append(generated, variant)
				if e.verbose {
					fmt.Fprintf(os.Stderr, "✓ %s\n", variant.VariantID)
				}
			}
		}
	}

	return generated, nil
}
