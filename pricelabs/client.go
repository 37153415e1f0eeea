package pricelabs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pricelabs-dash/metrics"
	"pricelabs-dash/models"
	"pricelabs-dash/utils"
)

const (
	// APIKeyHeader carries the customer API key.
	APIKeyHeader = "X-API-Key"

	headerRateLimitRemaining = "X-Ratelimit-Remaining"
	headerRateLimitReset     = "X-Ratelimit-Reset"
	headerRateLimitLimit     = "X-Ratelimit-Limit"
)

// UpstreamResponse is the raw result of one listings call.
type UpstreamResponse struct {
	StatusCode int
	StatusText string
	Body       []byte
	RateLimit  models.RateLimitInfo
}

// OK reports a 2xx status.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client calls the PriceLabs listings endpoint with the static API key.
type Client struct {
	listingsURL string
	apiKey      string
	http        *http.Client
	logger      *utils.Logger
}

// NewClient creates a Client for listingsURL.
func NewClient(listingsURL, apiKey string, timeout time.Duration, logger *utils.Logger) *Client {
	return &Client{
		listingsURL: listingsURL,
		apiKey:      apiKey,
		http:        &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// Listings performs a single GET. Non-2xx statuses are returned as a
// response, not an error; only transport failures produce an error.
func (c *Client) Listings(ctx context.Context) (*UpstreamResponse, error) {
	c.logger.Info("[pricelabs] API key configured: %t (length %d)", c.apiKey != "", len(c.apiKey))
	c.logger.Debug("[pricelabs] Request headers: %s=%s Content-Type=application/json", APIKeyHeader, maskKey(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.listingsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("pricelabs: build request: %w", err)
	}
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("pricelabs: request listings: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("pricelabs: read body: %w", err)
	}
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())
	metrics.UpstreamRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	out := &UpstreamResponse{
		StatusCode: resp.StatusCode,
		StatusText: statusText(resp),
		Body:       body,
		RateLimit: models.RateLimitInfo{
			Remaining: resp.Header.Get(headerRateLimitRemaining),
			Reset:     resp.Header.Get(headerRateLimitReset),
			Limit:     resp.Header.Get(headerRateLimitLimit),
		},
	}
	metrics.ObserveRateLimit(out.RateLimit)

	c.logger.Info("[pricelabs] Response status: %d", out.StatusCode)
	c.logger.Info("[pricelabs] Rate limit — remaining: %s | reset: %s | limit: %s",
		orUnknown(out.RateLimit.Remaining), orUnknown(out.RateLimit.Reset), orUnknown(out.RateLimit.Limit))
	c.logger.Elapsed(start, "[pricelabs] listings call finished")
	return out, nil
}

// statusText is the reason phrase without the numeric code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// maskKey keeps the first 8 characters of the key.
func maskKey(key string) string {
	if len(key) > 8 {
		key = key[:8]
	}
	return key + "..."
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
