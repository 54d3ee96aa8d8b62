package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("a"), mark("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestWithRequestID(t *testing.T) {
	var got string
	h := WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", got)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "abc", got)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	rl := NewRateLimiter(rdb, 1, time.Minute, nil, zap.NewNop())
	h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/slot", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// countingScripter считает вызовы скрипта по ключу, как INCR в Redis
type countingScripter struct {
	redis.Scripter
	mu     sync.Mutex
	counts map[string]int64
}

func newCountingScripter() *countingScripter {
	return &countingScripter{counts: make(map[string]int64)}
}

func (s *countingScripter) EvalSha(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[keys[0]]++
	return redis.NewCmdResult(s.counts[keys[0]], nil)
}

func (s *countingScripter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return s.EvalSha(ctx, "", keys, args...)
}

type limitedRequest struct {
	remoteAddr string
	forwarded  string
	wantCode   int
}

func TestRateLimiterLimits(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name     string
		limit    int
		trusted  []netip.Prefix
		requests []limitedRequest
	}{
		{
			name:  "over limit from one client",
			limit: 2,
			requests: []limitedRequest{
				{remoteAddr: "203.0.113.1:1000", wantCode: http.StatusNoContent},
				{remoteAddr: "203.0.113.1:1001", wantCode: http.StatusNoContent},
				{remoteAddr: "203.0.113.1:1002", wantCode: http.StatusTooManyRequests},
			},
		},
		{
			name:  "clients counted separately",
			limit: 1,
			requests: []limitedRequest{
				{remoteAddr: "203.0.113.1:1000", wantCode: http.StatusNoContent},
				{remoteAddr: "203.0.113.2:1000", wantCode: http.StatusNoContent},
				{remoteAddr: "203.0.113.1:1000", wantCode: http.StatusTooManyRequests},
				{remoteAddr: "203.0.113.2:1000", wantCode: http.StatusTooManyRequests},
			},
		},
		{
			name:  "rotating X-Forwarded-For from untrusted peer",
			limit: 1,
			requests: []limitedRequest{
				{remoteAddr: "203.0.113.1:1000", forwarded: "10.0.0.0", wantCode: http.StatusNoContent},
				{remoteAddr: "203.0.113.1:1000", forwarded: "10.0.0.1", wantCode: http.StatusTooManyRequests},
				{remoteAddr: "203.0.113.1:1000", forwarded: "10.0.0.2", wantCode: http.StatusTooManyRequests},
				{remoteAddr: "203.0.113.1:1000", forwarded: "10.0.0.3", wantCode: http.StatusTooManyRequests},
				{remoteAddr: "203.0.113.1:1000", forwarded: "10.0.0.4", wantCode: http.StatusTooManyRequests},
			},
		},
		{
			name:    "clients behind trusted proxy",
			limit:   1,
			trusted: proxies,
			requests: []limitedRequest{
				{remoteAddr: "10.0.0.5:1000", forwarded: "198.51.100.1", wantCode: http.StatusNoContent},
				{remoteAddr: "10.0.0.5:1000", forwarded: "198.51.100.2", wantCode: http.StatusNoContent},
				{remoteAddr: "10.0.0.6:1000", forwarded: "198.51.100.1", wantCode: http.StatusTooManyRequests},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(newCountingScripter(), tt.limit, time.Minute, tt.trusted, zap.NewNop())
			h := rl.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			for i, lr := range tt.requests {
				req := httptest.NewRequest(http.MethodGet, "/api/slot", nil)
				req.RemoteAddr = lr.remoteAddr
				if lr.forwarded != "" {
					req.Header.Set("X-Forwarded-For", lr.forwarded)
				}
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)

				require.Equal(t, lr.wantCode, rec.Code, "request %d", i)
				if lr.wantCode == http.StatusTooManyRequests {
					assert.Equal(t, "60", rec.Header().Get("Retry-After"))
				} else {
					assert.Empty(t, rec.Header().Get("Retry-After"))
				}
			}
		})
	}
}

func TestClientKey(t *testing.T) {
	rl := NewRateLimiter(newCountingScripter(), 1, time.Minute, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("::1/128"),
	}, zap.NewNop())

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "direct", remoteAddr: "203.0.113.9:5555", want: "203.0.113.9"},
		{name: "untrusted peer header ignored", remoteAddr: "203.0.113.9:5555", forwarded: "198.51.100.7", want: "203.0.113.9"},
		{name: "trusted proxy without header", remoteAddr: "10.0.0.1:5555", want: "10.0.0.1"},
		{name: "trusted proxy", remoteAddr: "10.0.0.1:5555", forwarded: "198.51.100.7", want: "198.51.100.7"},
		{name: "proxy chain", remoteAddr: "10.0.0.1:5555", forwarded: "192.0.2.1, 198.51.100.7, 10.2.3.4", want: "198.51.100.7"},
		{name: "spoofed hop left of client", remoteAddr: "10.0.0.1:5555", forwarded: "1.1.1.1, 198.51.100.7", want: "198.51.100.7"},
		{name: "garbage hop", remoteAddr: "10.0.0.1:5555", forwarded: "198.51.100.7, not-an-ip", want: "10.0.0.1"},
		{name: "ipv6 proxy", remoteAddr: "[::1]:5555", forwarded: "2001:db8::1", want: "2001:db8::1"},
		{name: "all hops trusted", remoteAddr: "10.0.0.1:5555", forwarded: "10.9.9.9", want: "10.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, rl.clientKey(req))
		})
	}
}
