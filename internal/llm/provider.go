// Package llm provides the text-rewriting providers used by augmentation.
// A provider is an opaque rewrite(text, style) -> text function; entity
// preservation is verified here in strict mode and re-verified downstream
// by the validation engine.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStyle is returned when a rewrite style has no prompt.
var ErrUnknownStyle = errors.New("unknown augmentation style")

// systemPrompt frames every rewrite call.
const systemPrompt = "You are a data augmentation assistant. You rewrite training text while preserving every entity mention exactly as written. You respond with the rewritten text only, no explanations."

// Provider defines the interface for LLM rewrite providers.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Rewrite produces a style variant of the request text
	Rewrite(ctx context.Context, req RewriteRequest) (*RewriteResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// RewriteRequest contains the input for one rewrite call.
type RewriteRequest struct {
	// Text is the content span to rewrite
	Text string

	// Style selects the rewrite prompt (paraphrase, noise, formal, informal)
	Style string

	// RequiredEntities is the list of entity mentions that must survive
	// the rewrite verbatim (enforced in strict mode)
	RequiredEntities []string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// RewriteResponse contains the rewritten text.
type RewriteResponse struct {
	// Text is the rewritten span
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictEntities rejects rewrites that drop an entity mention
	StrictEntities bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:       "", // Disabled by default
		Model:          "",
		Timeout:        60,
		StrictEntities: true,
		MaxTokens:      400,
	}
}

// stylePrompts are the rewrite instructions per augmentation style.
var stylePrompts = map[string]string{
	"paraphrase": `Rewrite the following text in different words while keeping the exact same meaning and entities. Do not add or remove any information. Do not add explanations.

Original text:
%s

Rewritten text:`,
	"noise": `Rewrite the following text with minor realistic imperfections like:
- 1-2 small typos
- Slightly informal phrasing
- Minor grammatical variations

Keep all entity names and facts unchanged.

Original text:
%s

Noisy version:`,
	"formal": `Rewrite the following text in a more formal, professional style. Keep all facts and entities unchanged.

Original text:
%s

Formal version:`,
	"informal": `Rewrite the following text in a more casual, conversational style. Keep all facts and entities unchanged.

Original text:
%s

Casual version:`,
}

// Styles returns all supported rewrite styles in sorted order.
func Styles() []string {
	return []string{"formal", "informal", "noise", "paraphrase"}
}

// BuildRewritePrompt renders the prompt for one style.
func BuildRewritePrompt(style, text string) (string, error) {
	tmpl, ok := stylePrompts[style]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownStyle, style)
	}
	return fmt.Sprintf(tmpl, text), nil
}

// missingEntities returns the required mentions absent from the rewritten
// text, in request order.
func missingEntities(text string, required []string) []string {
	var missing []string
	for _, entity := range required {
		if entity == "" {
			continue
		}
		if !strings.Contains(text, entity) {
			missing = append(missing, entity)
		}
	}
	return missing
}

// checkEntities enforces strict entity preservation on a rewrite result.
func checkEntities(text string, required []string) error {
	if missing := missingEntities(text, required); len(missing) > 0 {
		return fmt.Errorf("rewrite dropped entity mention: %s", strings.Join(missing, ", "))
	}
	return nil
}
