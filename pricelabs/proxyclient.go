package pricelabs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"pricelabs-dash/utils"
)

// ErrInvalidFormat is returned when a proxy payload has no listings array.
var ErrInvalidFormat = errors.New(`Invalid response format: missing or invalid "listings" array`)

// StatusError is a non-2xx reply from the proxy.
type StatusError struct {
	Code int
	Text string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Text)
}

// ListingsPayload is a decoded proxy reply.
type ListingsPayload struct {
	Listings []any
	Meta     *Meta
}

// DecodeListings validates and decodes a proxy body. Any well-formed JSON
// that is not an object carrying a listings array is ErrInvalidFormat.
// _meta is read best-effort and left nil when it is not an object.
func DecodeListings(body []byte) (*ListingsPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		if json.Valid(body) {
			return nil, ErrInvalidFormat
		}
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	var listings []any
	if len(raw["listings"]) == 0 || json.Unmarshal(raw["listings"], &listings) != nil || listings == nil {
		return nil, ErrInvalidFormat
	}
	return &ListingsPayload{Listings: listings, Meta: decodeMeta(raw["_meta"])}, nil
}

func decodeMeta(data json.RawMessage) *Meta {
	var fields map[string]any
	if len(data) == 0 || json.Unmarshal(data, &fields) != nil || fields == nil {
		return nil
	}
	return &Meta{
		RateLimitRemaining: metaString(fields["rateLimitRemaining"]),
		RateLimitReset:     metaString(fields["rateLimitReset"]),
		RateLimitLimit:     metaString(fields["rateLimitLimit"]),
	}
}

func metaString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// ProxyClient fetches listings through the proxy route, the way the view
// front ends do.
type ProxyClient struct {
	url    string
	http   *http.Client
	logger *utils.Logger
}

// NewProxyClient creates a ProxyClient for the proxy listings URL.
func NewProxyClient(url string, timeout time.Duration, logger *utils.Logger) *ProxyClient {
	return &ProxyClient{url: url, http: &http.Client{Timeout: timeout}, logger: logger}
}

// FetchListings performs one GET against the proxy.
func (c *ProxyClient) FetchListings(ctx context.Context) (*ListingsPayload, error) {
	c.logger.Debug("[client] Fetching data from %s", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Text: statusText(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}
	payload, err := DecodeListings(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("[client] Received %d listings", len(payload.Listings))
	return payload, nil
}

// LocalSource runs the proxy in-process, for front ends started without a
// server.
type LocalSource struct {
	proxy *Proxy
}

// NewLocalSource wraps p.
func NewLocalSource(p *Proxy) *LocalSource {
	return &LocalSource{proxy: p}
}

// FetchListings forwards once and decodes the reply like ProxyClient does.
func (s *LocalSource) FetchListings(ctx context.Context) (*ListingsPayload, error) {
	res := s.proxy.Forward(ctx)
	if res.Status < 200 || res.Status >= 300 {
		return nil, &StatusError{Code: res.Status, Text: http.StatusText(res.Status)}
	}
	return DecodeListings(res.Body)
}
