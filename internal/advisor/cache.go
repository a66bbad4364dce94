package advisor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/jask/finadvisor/internal/llm"
)

// Cache holds generated advisories keyed by their exact request. A nil *Cache is
// valid and caches nothing.
type Cache struct {
	store *ristretto.Cache
	ttl   time.Duration
}

// NewCache returns nil when ttl is not positive. maxBytes bounds the summed text size.
func NewCache(maxBytes int64, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		return nil, nil
	}
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("advisor: cache: %w", err)
	}
	return &Cache{store: store, ttl: ttl}, nil
}

func (c *Cache) Get(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	v, ok := c.store.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (c *Cache) Set(key, text string) {
	if c == nil || text == "" {
		return
	}
	c.store.SetWithTTL(key, text, int64(len(text)), c.ttl)
	c.store.Wait()
}

func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.store.Close()
}

// cacheKey hashes everything that influences the generated text.
func cacheKey(kind Kind, req llm.CompletionRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%g\x00%d", kind, req.System, req.Prompt, req.Temperature, req.MaxTokens)
	return hex.EncodeToString(h.Sum(nil))
}
