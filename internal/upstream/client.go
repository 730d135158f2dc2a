// Package upstream implements the authenticated HTTP client for the TMDB
// metadata provider. Handlers never call it directly: every request goes
// through the cache gateway.
package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	apperrors "github.com/amaumene/gomoviesfr/internal/errors"
	"github.com/amaumene/gomoviesfr/internal/models"
	"github.com/amaumene/gomoviesfr/pkg/ratelimiter"
)

// Client issues GET requests against the TMDB API with a bearer credential.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  *http.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      zerolog.Logger
}

// New creates a Client. baseURL carries no trailing slash; httpClient must
// have a timeout set so every upstream call stays bounded.
func New(apiKey, baseURL string, httpClient *http.Client, limiter *ratelimiter.TokenBucket, logger zerolog.Logger) *Client {
	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		httpClient:  httpClient,
		rateLimiter: limiter,
		logger:      logger.With().Str("component", "upstream").Logger(),
	}
}

// Get fetches path with query from the provider and returns the raw body.
// Transport failures and timeouts map to UPSTREAM_UNAVAILABLE, non-2xx
// responses to UPSTREAM_REJECTED carrying the provider's status message.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, apperrors.NewUpstreamUnavailable("request cancelled while rate limited", err)
	}

	reqURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to build provider request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().Str("path", path).Msg("fetching from provider")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to reach metadata provider", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailable("failed to read provider response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := http.StatusText(resp.StatusCode)
		var errBody models.TMDBErrorBody
		if err := json.Unmarshal(body, &errBody); err == nil && errBody.StatusMessage != "" {
			message = errBody.StatusMessage
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("provider rejected request")
		return nil, apperrors.NewUpstreamRejected(resp.StatusCode, message)
	}

	return body, nil
}
