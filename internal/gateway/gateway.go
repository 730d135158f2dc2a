// Package gateway implements cache-aside access to the metadata provider.
// Every upstream payload is cached under its canonical request URL; failures
// are returned as typed values and never cached.
package gateway

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/amaumene/gomoviesfr/internal/cache"
	"github.com/amaumene/gomoviesfr/internal/constants"
	"github.com/amaumene/gomoviesfr/internal/database"
)

// Descriptor uniquely identifies one upstream resource.
type Descriptor struct {
	Path  string
	Query url.Values
}

// NewDescriptor builds a Descriptor for path, pinning the response language
// so cache keys stay consistent across callers. The query is copied.
func NewDescriptor(path string, query url.Values) Descriptor {
	pinned := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			pinned.Add(k, v)
		}
	}
	pinned.Set("language", constants.TMDBLanguage)
	return Descriptor{Path: path, Query: pinned}
}

// Key returns the canonical upstream URL for the descriptor. url.Values
// encodes in sorted key order, so equivalent requests share one key.
func (d Descriptor) Key() string {
	return constants.TMDBAPIBaseURL + d.Path + "?" + d.Query.Encode()
}

// Upstream is the provider client the gateway wraps.
type Upstream interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// Gateway fronts the upstream client with a two-tier cache: an in-memory LRU
// backed by a persistent store.
type Gateway struct {
	upstream Upstream
	memory   cache.Cache
	store    database.Database
	ttl      time.Duration
	logger   zerolog.Logger
}

// New creates a Gateway. store may be nil to run memory-only. A zero ttl
// keeps persistent entries until evicted by an operator.
func New(upstream Upstream, memory cache.Cache, store database.Database, ttl time.Duration, logger zerolog.Logger) *Gateway {
	return &Gateway{
		upstream: upstream,
		memory:   memory,
		store:    store,
		ttl:      ttl,
		logger:   logger.With().Str("component", "gateway").Logger(),
	}
}

// Fetch returns the payload for desc, serving from cache when fresh. On a
// miss the upstream client is invoked; its payload is written to both tiers
// before returning. Upstream failures propagate untouched and leave the
// cache unmodified.
func (g *Gateway) Fetch(ctx context.Context, desc Descriptor) ([]byte, error) {
	key := desc.Key()

	if body, ok := g.memory.Get(key); ok {
		g.logger.Debug().Str("key", key).Msg("memory cache hit")
		return body, nil
	}

	if g.store != nil {
		body, found, err := g.store.GetPayload(key, g.ttl)
		if err != nil {
			// A broken persistent tier degrades to a miss.
			g.logger.Warn().Err(err).Str("key", key).Msg("persistent cache read failed")
		} else if found {
			g.logger.Debug().Str("key", key).Msg("persistent cache hit")
			g.memory.Set(key, body)
			return body, nil
		}
	}

	body, err := g.upstream.Get(ctx, desc.Path, desc.Query)
	if err != nil {
		return nil, err
	}

	g.memory.Set(key, body)
	if g.store != nil {
		if err := g.store.StorePayload(key, body); err != nil {
			g.logger.Warn().Err(err).Str("key", key).Msg("failed to persist payload")
		}
	}

	return body, nil
}
