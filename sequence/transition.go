// Package sequence implements greedy structured prediction on top of the
// flat perceptron models: a transition feature functor that summarizes the
// label history, a greedy decoder that threads its own predictions through
// that history, and sequential model wrappers with the same lifecycle and
// persistence surface as the flat models.
package sequence

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shiomiya/percepgo/pkg/errors"
)

// TransitionFunctor converts a label history into string transition
// features. The decoder calls it once per position with all labels
// predicted so far, most recent last.
//
// Returned slices may be cached and shared between calls; callers must not
// mutate them.
type TransitionFunctor[L comparable] interface {
	Extract(history []L) []string
}

// defaultTransitionCacheSize bounds the memoization cache when no explicit
// size is configured. Label windows repeat heavily within a corpus, so
// even a small cache gets a high hit rate.
const defaultTransitionCacheSize = 1024

// NGramTransition emits one feature per history length from 1 up to the
// configured order, each conjoining the most recent labels: for order 2
// and history [... a b], the features are "t_i-1=b" and "t_i-1=b^t_i-2=a".
// Order zero emits no transition features, which reduces greedy decoding
// to independent per-position classification.
type NGramTransition[L comparable] struct {
	order int
	cache *lru.Cache[string, []string]
}

// TransitionOption configures an NGramTransition.
type TransitionOption func(*transitionConfig)

type transitionConfig struct {
	cacheSize int
}

// WithTransitionCache sets the feature memoization cache size. A size of
// zero or less disables caching.
func WithTransitionCache(n int) TransitionOption {
	return func(c *transitionConfig) {
		c.cacheSize = n
	}
}

// NewNGramTransition creates a transition functor over label windows of up
// to the given order.
func NewNGramTransition[L comparable](order int, opts ...TransitionOption) (*NGramTransition[L], error) {
	if order < 0 {
		return nil, errors.NewValidationError("order", "must be non-negative", order)
	}
	cfg := transitionConfig{cacheSize: defaultTransitionCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &NGramTransition[L]{order: order}
	if cfg.cacheSize > 0 {
		// lru.New only fails on a non-positive size.
		t.cache, _ = lru.New[string, []string](cfg.cacheSize)
	}
	return t, nil
}

// Order returns the configured window size.
func (t *NGramTransition[L]) Order() int { return t.order }

// Extract returns the transition features for a label history. An empty
// history yields nil: the first position of a sequence has no transition
// context.
func (t *NGramTransition[L]) Extract(history []L) []string {
	if len(history) == 0 || t.order == 0 {
		return nil
	}
	bound := t.order
	if len(history) < bound {
		bound = len(history)
	}
	window := history[len(history)-bound:]

	var key string
	if t.cache != nil {
		key = cacheKey(window)
		if feats, ok := t.cache.Get(key); ok {
			return feats
		}
	}

	feats := make([]string, 0, bound)
	var b strings.Builder
	fmt.Fprintf(&b, "t_i-1=%v", window[bound-1])
	feats = append(feats, b.String())
	for i := 2; i <= bound; i++ {
		// Each longer window conjoins onto the previous feature, so the
		// builder is extended rather than rebuilt.
		fmt.Fprintf(&b, "^t_i-%d=%v", i, window[bound-i])
		feats = append(feats, b.String())
	}

	if t.cache != nil {
		t.cache.Add(key, feats)
	}
	return feats
}

// cacheKey renders a label window into a string that no other window can
// produce. Each label is length-prefixed, so labels containing separator
// characters (spaces, colons) cannot make two windows collide.
func cacheKey[L comparable](window []L) string {
	var b strings.Builder
	for _, l := range window {
		s := fmt.Sprint(l)
		fmt.Fprintf(&b, "%d:%s", len(s), s)
	}
	return b.String()
}
