package pricelabs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricelabs-dash/utils"
)

func TestDecodeListings(t *testing.T) {
	p, err := DecodeListings([]byte(`{"listings":[{"id":"1","group":"A"}],"_meta":{"rateLimitRemaining":"5","rateLimitReset":"unknown","rateLimitLimit":"10"}}`))
	require.NoError(t, err)
	assert.Len(t, p.Listings, 1)
	require.NotNil(t, p.Meta)
	assert.Equal(t, "5", p.Meta.RateLimitRemaining)

	p, err = DecodeListings([]byte(`{"listings":[]}`))
	require.NoError(t, err)
	assert.Empty(t, p.Listings)
	assert.Nil(t, p.Meta)
}

func TestDecodeListingsInvalid(t *testing.T) {
	for _, body := range []string{`{}`, `{"listings":null}`, `{"listings":{"a":1}}`, `{"listings":"x"}`, `[]`, `[{"group":"A"}]`, `"x"`, `null`, `42`} {
		_, err := DecodeListings([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidFormat, "body %s", body)
	}

	_, err := DecodeListings([]byte(`garbage`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidFormat)
}

func TestDecodeListingsLooseMeta(t *testing.T) {
	p, err := DecodeListings([]byte(`{"listings":[{"group":"A"}],"_meta":{"rateLimitRemaining":5,"rateLimitReset":null,"rateLimitLimit":true}}`))
	require.NoError(t, err)
	require.NotNil(t, p.Meta)
	assert.Equal(t, "5", p.Meta.RateLimitRemaining)
	assert.Equal(t, "", p.Meta.RateLimitReset)
	assert.Equal(t, "true", p.Meta.RateLimitLimit)

	for _, meta := range []string{`"x"`, `[1,2]`, `null`} {
		p, err := DecodeListings([]byte(`{"listings":[{"group":"A"}],"_meta":` + meta + `}`))
		require.NoError(t, err, "meta %s", meta)
		assert.Len(t, p.Listings, 1)
		assert.Nil(t, p.Meta, "meta %s", meta)
	}
}

func TestProxyClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Rate limit exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewProxyClient(srv.URL, time.Second, utils.NopLogger())
	_, err := c.FetchListings(context.Background())

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 429, se.Code)
	assert.Equal(t, "HTTP 429: Too Many Requests", err.Error())
}

func TestProxyClientSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"listings":[{"id":"1","group":"A","mpi_next_7":0.5}]}`))
	}))
	defer srv.Close()

	c := NewProxyClient(srv.URL, time.Second, utils.NopLogger())
	p, err := c.FetchListings(context.Background())
	require.NoError(t, err)
	require.Len(t, p.Listings, 1)
	assert.Equal(t, "A", p.Listings[0].(map[string]any)["group"])
}

func TestLocalSource(t *testing.T) {
	ok := &fakeUpstream{resp: &UpstreamResponse{StatusCode: 200, Body: []byte(`{"listings":[{"group":"A"}]}`)}}
	p, err := NewLocalSource(newTestProxy(ok)).FetchListings(context.Background())
	require.NoError(t, err)
	assert.Len(t, p.Listings, 1)
	require.NotNil(t, p.Meta)
	assert.Equal(t, "unknown", p.Meta.RateLimitLimit)

	denied := &fakeUpstream{resp: &UpstreamResponse{StatusCode: 401, StatusText: "Unauthorized"}}
	_, err = NewLocalSource(newTestProxy(denied)).FetchListings(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "HTTP 401: Unauthorized", se.Error())
}
