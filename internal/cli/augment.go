package cli

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sower-ml/sower/internal/augment"
	"github.com/sower-ml/sower/internal/cache"
	"github.com/sower-ml/sower/internal/dataset"
	"github.com/sower-ml/sower/internal/llm"
	"github.com/sower-ml/sower/internal/model"
	"github.com/sower-ml/sower/internal/worker"
	"github.com/spf13/cobra"
)

var (
	augmentOut      string
	llmProvider     string
	llmModel        string
	augmentVariants int
	augmentStyles   []string
	sampleFraction  float64
	minSample       int
	workers         int
	requestsPerSec  float64
	noCache         bool
	augmentTimeout  time.Duration
	maxTokens       int
)

// augmentCmd represents the augment command
var augmentCmd = &cobra.Command{
	Use:   "augment <dataset.jsonl>",
	Short: "Augment a dataset with LLM style rewrites",
	Long: `Augment samples a share of the dataset and rewrites the content section
of each sampled example through an LLM, in one or more styles:
- paraphrase: restructured sentences, same facts
- noise: typos and informal markers
- formal / informal: register shifts

The annotation layer is never touched; rewrites that drop an annotated
entity mention are rejected and skipped. The output carries all original
examples first, augmented copies after.

API keys come from the environment: OPENAI_API_KEY, ANTHROPIC_API_KEY,
or OLLAMA_BASE_URL for a non-default Ollama endpoint.

Example:
  sower augment expanded.jsonl --provider openai --model gpt-4o-mini
  sower augment expanded.jsonl --provider ollama --model qwen2.5:7b --styles paraphrase,noise
  sower augment expanded.jsonl --provider anthropic --sample 0.3 --variants 3`,
	Args: cobra.ExactArgs(1),
	RunE: runAugment,
}

func init() {
	rootCmd.AddCommand(augmentCmd)

	augmentCmd.Flags().StringVar(&augmentOut, "out", "augmented.jsonl", "output JSONL path")
	augmentCmd.Flags().StringVar(&llmProvider, "provider", "openai", "LLM provider (openai, anthropic, ollama)")
	augmentCmd.Flags().StringVar(&llmModel, "model", "", "LLM model name (provider default when empty)")
	augmentCmd.Flags().IntVar(&augmentVariants, "variants", 2, "rewrite variants per sampled example")
	augmentCmd.Flags().StringSliceVar(&augmentStyles, "styles", []string{"paraphrase", "noise"}, "rewrite styles to draw from")
	augmentCmd.Flags().Float64Var(&sampleFraction, "sample", 0.2, "fraction of the dataset to augment")
	augmentCmd.Flags().IntVar(&minSample, "min-sample", 20, "minimum number of examples to augment")
	augmentCmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent rewrite workers")
	augmentCmd.Flags().Float64Var(&requestsPerSec, "rate", 2, "rewrite requests per second per provider")
	augmentCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the rewrite result cache")
	augmentCmd.Flags().DurationVar(&augmentTimeout, "timeout", 30*time.Minute, "total timeout for the augmentation run")
	augmentCmd.Flags().IntVar(&maxTokens, "max-tokens", 400, "max tokens per rewrite")
	augmentCmd.Flags().Int64Var(&randomSeed, "seed", 0, "random seed for reproducible sampling (0 = time-based)")
}

func runAugment(cmd *cobra.Command, args []string) error {
	inPath := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), augmentTimeout)
	defer cancel()

	for _, style := range augmentStyles {
		if _, err := llm.BuildRewritePrompt(style, ""); err != nil {
			return fmt.Errorf("%w (supported: %v)", err, llm.Styles())
		}
	}

	cfg := model.DefaultConfig()
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.LLM.MaxTokens = maxTokens
	cfg.Cache.Enabled = !noCache
	cfg.Concurrency.Workers = workers
	cfg.RateLimit.RequestsPerSecond = requestsPerSec
	cfg.Augment.Variants = augmentVariants
	cfg.Augment.SampleFraction = sampleFraction
	cfg.Augment.MinSample = minSample
	cfg.Augment.Styles = augmentStyles

	// Get API key from environment
	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		baseURL := os.Getenv("OLLAMA_BASE_URL")
		if baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}
	if provider == nil {
		return fmt.Errorf("augmentation requires an LLM provider")
	}

	var rewriteCache cache.Cache
	if cfg.Cache.Enabled {
		rewriteCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	limiter := worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.BurstSize)
	rewriter := llm.NewRewriter(provider, rewriteCache, limiter, cfg.LLM.Model, cfg.LLM.MaxTokens)

	examples, err := dataset.ReadExamples(inPath)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Dataset:  %d examples (%s)\n", len(examples), inPath)
		fmt.Fprintf(os.Stderr, "Provider: %s/%s\n", provider.Name(), cfg.LLM.Model)
		fmt.Fprintf(os.Stderr, "Styles:   %v\n", augmentStyles)
		fmt.Fprintf(os.Stderr, "Cache:    %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	rng := rand.New(rand.NewSource(seedValue()))

	augmenter := augment.New(rewriter, cfg.Augment, cfg.Concurrency.Workers, rng)
	augmenter.SetVerbose(verbose)

	combined, err := augmenter.AugmentAll(ctx, examples)
	if err != nil {
		return fmt.Errorf("augment: %w", err)
	}

	if err := dataset.WriteFile(augmentOut, combined); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Augmentation Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Originals: %d\n", len(examples))
	fmt.Fprintf(os.Stderr, "  Augmented: %d\n", len(combined)-len(examples))
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", augmentOut)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
