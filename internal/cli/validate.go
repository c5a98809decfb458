package cli

import (
	"fmt"
	"os"

	"github.com/sower-ml/sower/internal/dataset"
	"github.com/sower-ml/sower/internal/rules"
	"github.com/sower-ml/sower/internal/validate"
	"github.com/spf13/cobra"
)

var strictWarnings bool

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <dataset.jsonl>",
	Short: "Validate a training dataset against the template rules",
	Long: `Validate checks every example in a JSONL dataset:
- Structural completeness (template_id, input, output)
- Template rule compliance (relations allowed, confidence bounds, abstention)
- Referential integrity of relation source/target ids
- Near-duplicate inputs and outputs across the file
- Evidence groundedness in the input text

Fatal findings fail the run; warnings are reported but do not.

Example:
  sower validate expanded.jsonl
  sower validate expanded.jsonl --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&strictWarnings, "strict", false, "treat warnings as fatal")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	records, err := dataset.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	run := validate.NewRun(rules.DefaultTable())
	for _, rec := range records {
		run.Check(rec.Example, rec.Line)
	}

	errs := run.Errors()
	warnings := run.Warnings()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Validation Report: %s\n", path)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Examples:  %d\n", len(records))
	fmt.Fprintf(os.Stderr, "  Errors:    %d\n", len(errs))
	fmt.Fprintf(os.Stderr, "  Warnings:  %d\n", len(warnings))
	fmt.Fprintf(os.Stderr, "\n")

	for _, e := range errs {
		fmt.Printf("✗ %s\n", e)
	}
	for _, w := range warnings {
		fmt.Printf("⚠ %s\n", w)
	}

	if run.Failed() {
		return fmt.Errorf("validation failed: %d errors", len(errs))
	}
	if strictWarnings && len(warnings) > 0 {
		return fmt.Errorf("validation failed: %d warnings with --strict", len(warnings))
	}

	fmt.Fprintf(os.Stderr, "✓ Dataset is valid\n\n")
	return nil
}
