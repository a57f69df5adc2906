package session

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Suggester produces candidate targets for a query. Implementations may be
// slow (remote services); callers pass a context and must tolerate
// cancellation.
type Suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// Canceling wraps a Suggester so that issuing a new request cancels any
// in-flight one. A stale result can therefore never overwrite a newer
// selection: the superseded call returns the context error instead.
type Canceling struct {
	inner Suggester

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

// NewCanceling wraps a suggester with latest-request-wins semantics.
func NewCanceling(inner Suggester) *Canceling {
	return &Canceling{inner: inner}
}

// Suggest forwards to the wrapped suggester, first canceling any request
// still in flight.
func (c *Canceling) Suggest(ctx context.Context, query string) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	defer func() {
		cancel()
		c.mu.Lock()
		// Only clear our own registration; a newer request may have
		// replaced it already.
		if c.gen == gen {
			c.cancel = nil
		}
		c.mu.Unlock()
	}()

	return c.inner.Suggest(ctx, query)
}

// PrefixSuggester is the local fallback suggester: it ranks the candidate
// titles by case-insensitive prefix match, then substring match.
type PrefixSuggester struct {
	// Candidates returns the current candidate titles.
	Candidates func() []string
}

// Suggest implements Suggester.
func (p *PrefixSuggester) Suggest(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var prefixed, contained []string
	for _, c := range p.Candidates() {
		lc := strings.ToLower(c)
		switch {
		case q == "" || strings.HasPrefix(lc, q):
			prefixed = append(prefixed, c)
		case strings.Contains(lc, q):
			contained = append(contained, c)
		}
	}
	sort.Strings(prefixed)
	sort.Strings(contained)
	return append(prefixed, contained...), nil
}
