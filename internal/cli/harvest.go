package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sower-ml/sower/internal/dataset"
	"github.com/sower-ml/sower/internal/harvest"
	"github.com/sower-ml/sower/internal/model"
	"github.com/sower-ml/sower/internal/rules"
	"github.com/spf13/cobra"
)

var (
	harvestOut     string
	harvestTpl     string
	sentences      int
	harvestTimeout time.Duration
	userAgent      string
	maxBytes       int64
	ignoreRobots   bool
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest <url|file>",
	Short: "Harvest draft seed examples from a web page or local document",
	Long: `Harvest turns raw documents into draft seed examples:
- Fetches a URL (honoring robots.txt) or reads a local file
- Splits visible text into sentence windows
- Proposes candidate entities per window (type Unknown, no relations)

Drafts are starting points for hand annotation, not training data. Correct
the entity types, add relations, then run them through sower validate.

Example:
  sower harvest https://en.wikipedia.org/wiki/Acme_Corporation
  sower harvest notes.txt --template template_07_long_context --sentences 2
  sower harvest page.html --out drafts.jsonl`,
	Args: cobra.ExactArgs(1),
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	harvestCmd.Flags().StringVar(&harvestOut, "out", "drafts.jsonl", "output JSONL path")
	harvestCmd.Flags().StringVar(&harvestTpl, "template", "template_02_implicit_relation", "template_id assigned to drafts")
	harvestCmd.Flags().IntVar(&sentences, "sentences", 3, "sentences per draft example")
	harvestCmd.Flags().DurationVar(&harvestTimeout, "timeout", 30*time.Second, "fetch timeout")
	harvestCmd.Flags().StringVar(&userAgent, "ua", "Sower/0.1 (+https://github.com/sower-ml/sower)", "HTTP User-Agent")
	harvestCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	harvestCmd.Flags().BoolVar(&ignoreRobots, "ignore-robots", false, "skip the robots.txt check")
}

func runHarvest(cmd *cobra.Command, args []string) error {
	source := args[0]

	if _, err := rules.DefaultTable().Lookup(harvestTpl); err != nil {
		return fmt.Errorf("%w (known: %v)", err, rules.DefaultTable().Names())
	}

	extractor := harvest.NewExtractor(harvestTpl, sentences)

	var (
		drafts []*model.Example
		err    error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		drafts, err = harvestURL(source, extractor)
	} else {
		drafts, err = harvestFile(source, extractor)
	}
	if err != nil {
		return err
	}

	if len(drafts) == 0 {
		return fmt.Errorf("no draft examples extracted from %s", source)
	}

	if err := dataset.WriteFile(harvestOut, drafts); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "✓ Extracted %d draft examples from %s\n", len(drafts), source)
	fmt.Fprintf(os.Stderr, "✓ Wrote %s (review entity types and add relations before training)\n", harvestOut)

	return nil
}

func harvestURL(url string, extractor *harvest.Extractor) ([]*model.Example, error) {
	ctx, cancel := context.WithTimeout(context.Background(), harvestTimeout)
	defer cancel()

	cfg := model.DefaultConfig().HTTP
	cfg.Timeout = harvestTimeout
	cfg.UserAgent = userAgent
	cfg.MaxBodyBytes = maxBytes
	cfg.IgnoreRobots = ignoreRobots

	fetcher := harvest.NewFetcher(cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Fetching: %s\n", url)
	}

	result, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Fetched %d bytes (subject: %s)\n", len(result.HTML), result.Subject)
	}

	return extractor.DraftsFromHTML(result.HTML)
}

func harvestFile(path string, extractor *harvest.Extractor) ([]*model.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return extractor.DraftsFromHTML(string(data))
	default:
		return extractor.DraftsFromText(string(data)), nil
	}
}
