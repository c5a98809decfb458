package augment

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/sower-ml/sower/internal/llm"
	"github.com/sower-ml/sower/internal/model"
	"github.com/sower-ml/sower/internal/worker"
)

// Augmenter rewrites a sampled share of a corpus through an LLM rewriter.
// The output file carries the originals first, augmented copies after.
type Augmenter struct {
	rewriter *llm.Rewriter
	cfg      model.AugmentConfig
	workers  int
	rng      *rand.Rand
	verbose  bool
}

// New creates an augmenter. Randomness (sampling and style choice) is
// injected for reproducible runs.
func New(rewriter *llm.Rewriter, cfg model.AugmentConfig, workers int, rng *rand.Rand) *Augmenter {
	if len(cfg.Styles) == 0 {
		cfg.Styles = []string{"paraphrase", "noise"}
	}
	if cfg.Variants <= 0 {
		cfg.Variants = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &Augmenter{
		rewriter: rewriter,
		cfg:      cfg,
		workers:  workers,
		rng:      rng,
	}
}

// SetVerbose enables progress output on stderr.
func (a *Augmenter) SetVerbose(v bool) {
	a.verbose = v
}

// AugmentExample produces one style variant of an example. Only the
// content section of the input is rewritten; the annotation layer is
// copied unchanged. Entity mentions are required to survive the rewrite
// when the provider runs in strict mode.
func (a *Augmenter) AugmentExample(ctx context.Context, ex *model.Example, style string, variantNum int) (*model.Example, error) {
	content := ExtractContent(ex.Input)

	var required []string
	if ex.Output != nil {
		for _, ent := range ex.Output.Entities {
			required = append(required, ent.Text)
		}
	}

	rewritten, err := a.rewriter.Rewrite(ctx, content, style, required)
	if err != nil {
		return nil, fmt.Errorf("rewrite (%s): %w", style, err)
	}

	out := ex.Clone()
	out.Input = ReconstructInput(ex.Input, rewritten)
	out.AugmentationType = style
	out.AugmentationNum = variantNum

	return out, nil
}

// rewriteJob is one (example, style, variant) unit of the batch.
type rewriteJob struct {
	example *model.Example
	style   string
	variant int
}

// AugmentAll samples a share of the corpus (at least min_sample examples,
// capped at the corpus size), produces the configured number of variants
// per sampled example, and returns originals followed by the augmented
// copies. A failed variant is logged and skipped; the batch continues.
func (a *Augmenter) AugmentAll(ctx context.Context, examples []*model.Example) ([]*model.Example, error) {
	if !a.rewriter.IsEnabled() {
		return nil, fmt.Errorf("no rewrite provider configured")
	}
	if len(examples) == 0 {
		return nil, nil
	}

	sampleSize := int(float64(len(examples)) * a.cfg.SampleFraction)
	if sampleSize < a.cfg.MinSample {
		sampleSize = a.cfg.MinSample
	}
	if sampleSize > len(examples) {
		sampleSize = len(examples)
	}

	// Styles are drawn up front on the single-threaded side so the fan-out
	// never touches the shared generator.
	var jobs []rewriteJob
	for _, idx := range a.rng.Perm(len(examples))[:sampleSize] {
		for v := 1; v <= a.cfg.Variants; v++ {
			jobs = append(jobs, rewriteJob{
				example: examples[idx],
				style:   a.cfg.Styles[a.rng.Intn(len(a.cfg.Styles))],
				variant: v,
			})
		}
	}

	results := make([]*model.Example, len(jobs))
	worker.RunIndexed(ctx, len(jobs), a.workers, func(ctx context.Context, i int) {
		job := jobs[i]
		variant, err := a.AugmentExample(ctx, job.example, job.style, job.variant)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ failed to create %s variant %d: %v\n", job.style, job.variant, err)
			return
		}
		results[i] = variant
		if a.verbose {
			fmt.Fprintf(os.Stderr, "✓ created %s variant %d\n", job.style, job.variant)
		}
	})

	combined := make([]*model.Example, 0, len(examples)+len(jobs))
	combined = append(combined, examples...)
	for _, variant := range results {
		if variant != nil {
			combined = append(combined, variant)
		}
	}

	return combined, nil
}
