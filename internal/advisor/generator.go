package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jask/finadvisor/internal/finance"
	"github.com/jask/finadvisor/internal/llm"
)

// Generator tries the remote provider once and falls back to the local strategy
// table on any failure or missing credential.
type Generator struct {
	Provider llm.Provider
	// APIKey is only checked for presence; the provider holds its own copy.
	APIKey string
	// Timeout bounds the remote call when positive. Zero leaves the transport default.
	Timeout time.Duration
	Cache   *Cache
	Now     func() time.Time
}

// Generate always returns non-empty text. Caller cancellation does not abort an
// in-flight remote call.
func (g *Generator) Generate(ctx context.Context, kind Kind, txs []finance.Transaction, summary finance.Summary) Result {
	if g == nil || g.Provider == nil || !llm.Configured(g.APIKey) {
		return fallback(kind, txs, summary, llm.ErrNoAPIKey)
	}

	profile := ProfileFor(kind)
	req := llm.CompletionRequest{
		System:      profile.System,
		Prompt:      BuildPrompt(kind, txs, summary, g.now()),
		Temperature: profile.Temperature,
		MaxTokens:   profile.MaxTokens,
	}
	key := cacheKey(kind, req)
	if text, ok := g.Cache.Get(key); ok {
		return Result{Text: text, Source: SourceGenerated}
	}

	text, err := g.attempt(ctx, req)
	if err != nil {
		return fallback(kind, txs, summary, err)
	}
	g.Cache.Set(key, text)
	return Result{Text: text, Source: SourceGenerated}
}

func (g *Generator) attempt(ctx context.Context, req llm.CompletionRequest) (text string, err error) {
	ctx = context.WithoutCancel(ctx)
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panic: %v", r)
		}
	}()
	text, err = g.Provider.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func fallback(kind Kind, txs []finance.Transaction, summary finance.Summary, reason error) Result {
	log.Printf("advisor: %s generation failed, using fallback: %v", kind, reason)
	return Result{Text: Fallback(kind, txs, summary), Source: SourceFallback}
}
