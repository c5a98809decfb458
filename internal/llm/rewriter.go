package llm

import (
	"context"
	"fmt"

	"github.com/sower-ml/sower/internal/cache"
	"github.com/sower-ml/sower/internal/worker"
)

// Rewriter wraps a provider with result caching and per-endpoint rate
// limiting. A nil cache or limiter disables that layer.
type Rewriter struct {
	provider  Provider
	cache     cache.Cache
	limiter   *worker.Limiter
	model     string
	maxTokens int
}

// NewRewriter creates a rewriter over the given provider.
func NewRewriter(provider Provider, c cache.Cache, limiter *worker.Limiter, model string, maxTokens int) *Rewriter {
	return &Rewriter{
		provider:  provider,
		cache:     c,
		limiter:   limiter,
		model:     model,
		maxTokens: maxTokens,
	}
}

// IsEnabled reports whether a provider is configured.
func (r *Rewriter) IsEnabled() bool {
	return r != nil && r.provider != nil
}

// ProviderName returns the underlying provider name, empty when disabled.
func (r *Rewriter) ProviderName() string {
	if !r.IsEnabled() {
		return ""
	}
	return r.provider.Name()
}

// Rewrite produces a style variant of text, consulting the cache before
// calling the provider. Entity preservation failures arrive from the
// provider and are never cached.
func (r *Rewriter) Rewrite(ctx context.Context, text, style string, requiredEntities []string) (string, error) {
	if !r.IsEnabled() {
		return "", fmt.Errorf("no rewrite provider configured")
	}

	key := cache.RewriteKey(r.provider.Name(), r.model, style, text)
	if r.cache != nil {
		if cached, found := r.cache.Get(key); found {
			return cached, nil
		}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, r.provider.Name()); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	resp, err := r.provider.Rewrite(ctx, RewriteRequest{
		Text:             text,
		Style:            style,
		RequiredEntities: requiredEntities,
		Model:            r.model,
		MaxTokens:        r.maxTokens,
	})
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		_ = r.cache.Set(key, resp.Text, 0)
	}

	return resp.Text, nil
}
