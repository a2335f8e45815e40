// Package retry wraps the generation provider with bounded retries,
// exponential backoff, and fallback content on exhaustion.
package retry

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/jonathan/review-generator/internal/review"
	"github.com/jonathan/review-generator/internal/types"
)

// Generator is the capability the controller wraps. Any provider (the LLM
// provider, a deterministic stub in tests) can satisfy it.
type Generator interface {
	Generate(ctx context.Context, item types.WorkItem, directive review.StyleDirective) (types.ReviewRecord, error)
	Fallback(item types.WorkItem, directive review.StyleDirective, seed int) types.ReviewRecord
}

// Config bounds the retry behavior.
type Config struct {
	MaxAttempts    int           // total attempts before falling back
	BaseDelay      time.Duration // first backoff; doubles per attempt
	MaxDelay       time.Duration // backoff cap
	RateLimitDelay time.Duration // first backoff after a rate-limit reply
}

// DefaultConfig mirrors the provider's observed throttling behavior:
// rate limits need much longer waits than transient server errors.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		BaseDelay:      2 * time.Second,
		MaxDelay:       2 * time.Minute,
		RateLimitDelay: 30 * time.Second,
	}
}

// Stats counts absorbed failures for end-of-run reporting.
type Stats struct {
	Attempts  int
	Retries   int
	Fallbacks int
}

// Controller drives retries around a Generator. A call either yields exactly
// one ReviewRecord (real or fallback) or returns the context's error; it
// never yields a partial record and never propagates provider failures.
type Controller struct {
	provider Generator
	cfg      Config
	stats    Stats
	logf     func(format string, args ...any)
	sleep    func(ctx context.Context, d time.Duration) error
}

// New creates a Controller. logf may be nil to silence retry reporting.
func New(provider Generator, cfg Config, logf func(format string, args ...any)) *Controller {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Controller{
		provider: provider,
		cfg:      cfg,
		logf:     logf,
		sleep:    sleepCtx,
	}
}

// Generate produces the seq-th review for the item. Only context
// cancellation surfaces as an error; provider failures end in the
// deterministic fallback record.
func (c *Controller) Generate(ctx context.Context, item types.WorkItem, directive review.StyleDirective, seq int) (types.ReviewRecord, error) {
	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return types.ReviewRecord{}, err
		}

		c.stats.Attempts++
		rec, err := c.provider.Generate(ctx, item, directive)
		if err == nil {
			return rec, nil
		}
		if ctx.Err() != nil {
			return types.ReviewRecord{}, ctx.Err()
		}
		lastErr = err

		if attempt < c.cfg.MaxAttempts-1 {
			c.stats.Retries++
			delay := c.backoff(err, attempt)
			c.logf("retrying %s after %s: %v", item.ID, delay, err)
			if err := c.sleep(ctx, delay); err != nil {
				return types.ReviewRecord{}, err
			}
		}
	}

	c.stats.Fallbacks++
	c.logf("falling back to static content for %s: %v", item.ID, lastErr)
	return c.provider.Fallback(item, directive, fallbackSeed(item.ID, seq)), nil
}

// Stats returns the counters accumulated so far.
func (c *Controller) Stats() Stats {
	return c.stats
}

// backoff doubles per attempt from the kind-appropriate base, capped at
// MaxDelay.
func (c *Controller) backoff(err error, attempt int) time.Duration {
	base := c.cfg.BaseDelay
	if te, ok := review.AsTransient(err); ok && te.Kind == review.KindRateLimit {
		base = c.cfg.RateLimitDelay
	}
	delay := base << attempt
	if delay > c.cfg.MaxDelay {
		delay = c.cfg.MaxDelay
	}
	return delay
}

// fallbackSeed keys fallback text to (item, sequence) so a resumed run
// regenerates the identical fallback record.
func fallbackSeed(itemID string, seq int) int {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s:%d", itemID, seq)
	return int(h.Sum32())
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
