package expand

import (
	"fmt"
	"math/rand"

	"github.com/sower-ml/sower/internal/domain"
	"github.com/sower-ml/sower/internal/model"
)

// buildMapping produces the one-to-one old-name → new-name table for a
// single expansion call. Entities are grouped by type in first-appearance
// order; a group no larger than the domain pool is sampled without
// replacement so distinct old names get distinct new names, while an
// oversized group cycles the pool in order (new names may repeat, a
// documented limitation of small pools, not an error).
//
// Person entities map to themselves unless the domain supplies a
// person_examples pool. Types that are neither "Company" nor listed in the
// domain's entity_types are left out of the table entirely.
func buildMapping(entities []model.Entity, dom *domain.Config, rng *rand.Rand) (map[string]string, error) {
	var typeOrder []string
	groups := make(map[string][]string)
	seen := make(map[string]bool)

	for _, ent := range entities {
		if ent.Text == "" || seen[ent.Text] {
			continue
		}
		seen[ent.Text] = true
		if _, ok := groups[ent.Type]; !ok {
			typeOrder = append(typeOrder, ent.Type)
		}
		groups[ent.Type] = append(groups[ent.Type], ent.Text)
	}

	mapping := make(map[string]string)

	for _, typ := range typeOrder {
		texts := groups[typ]

		var pool []string
		switch {
		case typ == "Person":
			if len(dom.PersonExamples) == 0 {
				// Default policy: person names pass through unchanged
				for _, text := range texts {
					mapping[text] = text
				}
				continue
			}
			pool = dom.PersonExamples
		case dom.Substitutable(typ):
			pool = dom.EntityPool()
		default:
			continue
		}

		if len(pool) == 0 {
			return nil, fmt.Errorf("empty entity pool for type %s", typ)
		}

		if len(texts) <= len(pool) {
			// Sample without replacement: pairwise-distinct new names
			perm := rng.Perm(len(pool))
			for i, text := range texts {
				mapping[text] = pool[perm[i]]
			}
		} else {
			// Cycle the pool in original order
			for i, text := range texts {
				mapping[text] = pool[i%len(pool)]
			}
		}
	}

	return mapping, nil
}
