package pricelabs

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"pricelabs-dash/models"
	"pricelabs-dash/utils"
)

// Upstream is the listings source the proxy forwards to.
type Upstream interface {
	Listings(ctx context.Context) (*UpstreamResponse, error)
}

// ProxyResult is what the proxy route writes back: a status, a JSON body and
// the rate limit headers to surface.
type ProxyResult struct {
	Status    int
	Body      []byte
	RateLimit models.RateLimitInfo
}

type rateLimitError struct {
	Error              string `json:"error"`
	Message            string `json:"message"`
	RateLimitRemaining any    `json:"rateLimitRemaining"`
	RateLimitReset     any    `json:"rateLimitReset"`
	ErrorDetails       string `json:"errorDetails"`
}

type upstreamError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

type internalError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Meta is merged into successful payloads under "_meta".
type Meta struct {
	RateLimitRemaining string `json:"rateLimitRemaining"`
	RateLimitReset     string `json:"rateLimitReset"`
	RateLimitLimit     string `json:"rateLimitLimit"`
}

// Proxy turns upstream responses into the payloads served to the view.
type Proxy struct {
	upstream Upstream
	logger   *utils.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewProxy creates a Proxy. Reset times in rate limit messages are rendered
// in the local time zone.
func NewProxy(upstream Upstream, logger *utils.Logger) *Proxy {
	return &Proxy{upstream: upstream, logger: logger, loc: time.Local, now: time.Now}
}

// Forward performs one upstream call and shapes the reply.
func (p *Proxy) Forward(ctx context.Context) *ProxyResult {
	p.logger.Info("[proxy] === API route called === %s", p.now().UTC().Format(time.RFC3339))

	resp, err := p.upstream.Listings(ctx)
	if err != nil {
		p.logger.Error("[proxy] API route error: %v", err)
		return p.internal(err, models.RateLimitInfo{})
	}

	if !resp.OK() {
		p.logger.Error("[proxy] Error response body: %s", resp.Body)
		if resp.StatusCode == http.StatusTooManyRequests {
			return p.rateLimited(resp)
		}
		return p.encode(resp.StatusCode, upstreamError{
			Error:   fmt.Sprintf("PriceLabs API error: %d %s", resp.StatusCode, resp.StatusText),
			Details: string(resp.Body),
		}, resp.RateLimit)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body, &payload); err != nil || payload == nil {
		if err == nil {
			err = fmt.Errorf("upstream body is not a JSON object")
		}
		p.logger.Error("[proxy] API route error: %v", err)
		return p.internal(err, resp.RateLimit)
	}

	var listings []json.RawMessage
	_ = json.Unmarshal(payload["listings"], &listings)
	p.logger.Info("[proxy] Success! Data received, listings count: %d", len(listings))

	meta, err := json.Marshal(Meta{
		RateLimitRemaining: orUnknown(resp.RateLimit.Remaining),
		RateLimitReset:     isoReset(resp.RateLimit),
		RateLimitLimit:     orUnknown(resp.RateLimit.Limit),
	})
	if err != nil {
		return p.internal(err, resp.RateLimit)
	}
	payload["_meta"] = meta

	return p.encode(http.StatusOK, payload, resp.RateLimit)
}

func (p *Proxy) rateLimited(resp *UpstreamResponse) *ProxyResult {
	resetTime := "unknown"
	if t, ok := resp.RateLimit.ResetTime(); ok {
		resetTime = t.In(p.loc).Format("1/2/2006, 3:04:05 PM")
	}

	var remaining any = 0
	if resp.RateLimit.Remaining != "" {
		remaining = resp.RateLimit.Remaining
	}
	var reset any
	if resp.RateLimit.Reset != "" {
		reset = resp.RateLimit.Reset
	}

	p.logger.Warn("[proxy] Rate limit exceeded, resets at %s", resetTime)
	return p.encode(http.StatusTooManyRequests, rateLimitError{
		Error:              "Rate limit exceeded",
		Message:            "Too many requests. Rate limit resets at: " + resetTime,
		RateLimitRemaining: remaining,
		RateLimitReset:     reset,
		ErrorDetails:       string(resp.Body),
	}, resp.RateLimit)
}

func (p *Proxy) internal(err error, rl models.RateLimitInfo) *ProxyResult {
	return p.encode(http.StatusInternalServerError, internalError{
		Error:   "Internal server error",
		Message: err.Error(),
	}, rl)
}

func (p *Proxy) encode(status int, v any, rl models.RateLimitInfo) *ProxyResult {
	body, err := json.Marshal(v)
	if err != nil {
		p.logger.Error("[proxy] Failed to marshal response: %v", err)
		body = []byte(`{"error":"Internal server error"}`)
		status = http.StatusInternalServerError
	}
	return &ProxyResult{Status: status, Body: body, RateLimit: rl}
}

// isoReset renders the reset header as an ISO-8601 UTC instant.
func isoReset(rl models.RateLimitInfo) string {
	t, ok := rl.ResetTime()
	if !ok {
		return "unknown"
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
