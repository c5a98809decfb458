// Package cache stores rewrite results so re-running augmentation does not
// repeat model calls for text it has already seen.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for rewrite-result caching.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// RewriteKey generates a cache key for one rewrite call. Provider, model
// and style are part of the key: the same content rewritten by a different
// model or in a different style is a different entry.
func RewriteKey(provider, model, style, content string) string {
	hash := sha256.Sum256([]byte(provider + "\x00" + model + "\x00" + style + "\x00" + content))
	return "sower:v1:" + hex.EncodeToString(hash[:])
}
