package cli

import (
	"fmt"

	"github.com/sower-ml/sower/internal/rules"
	"github.com/spf13/cobra"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the template rule table",
	Long:  `Display the validation rule for every known template_id.`,
	Run: func(cmd *cobra.Command, args []string) {
		table := rules.DefaultTable()

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Template Rules")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		for _, name := range table.Names() {
			rule, _ := table.Lookup(name)

			fmt.Printf("%s\n", name)
			fmt.Printf("  relations:  %s\n", allowed(rule.AllowRelations))
			fmt.Printf("  abstention: %s\n", allowed(rule.AllowAbstain))
			fmt.Printf("  confidence: %s\n", confidenceRange(rule))
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func allowed(b bool) string {
	if b {
		return "allowed"
	}
	return "forbidden"
}

func confidenceRange(rule rules.Rule) string {
	switch {
	case rule.MinConfidence != nil && rule.MaxConfidence != nil:
		return fmt.Sprintf("[%.2f, %.2f]", *rule.MinConfidence, *rule.MaxConfidence)
	case rule.MinConfidence != nil:
		return fmt.Sprintf(">= %.2f", *rule.MinConfidence)
	case rule.MaxConfidence != nil:
		return fmt.Sprintf("<= %.2f", *rule.MaxConfidence)
	default:
		return "unconstrained"
	}
}
