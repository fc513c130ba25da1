package middleware_test

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/urlpool/internal/middleware"
	"github.com/serroba/urlpool/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

const (
	testHostAddr  = "192.168.1.1:12345"
	testUserAgent = "TestAgent/1.0"
)

var errMultipartNotSupported = errors.New("multipart not supported in mock")

func newTestAPI() huma.API {
	return humachi.New(chi.NewMux(), huma.DefaultConfig("Test", "1.0.0"))
}

// mockHumaContext implements huma.Context for testing.
type mockHumaContext struct {
	headers    map[string]string
	host       string
	remoteAddr string
	written    []byte
	statusCode int
	method     string
	operation  *huma.Operation
}

func newMockHumaContext(operation *huma.Operation) *mockHumaContext {
	return &mockHumaContext{
		headers:   make(map[string]string),
		method:    "GET",
		operation: operation,
	}
}

func (m *mockHumaContext) Operation() *huma.Operation {
	return m.operation
}
func (m *mockHumaContext) Context() context.Context              { return context.Background() }
func (m *mockHumaContext) TLS() *tls.ConnectionState             { return nil }
func (m *mockHumaContext) Version() huma.ProtoVersion            { return huma.ProtoVersion{} }
func (m *mockHumaContext) Method() string                        { return m.method }
func (m *mockHumaContext) Host() string                          { return m.host }
func (m *mockHumaContext) RemoteAddr() string                    { return m.remoteAddr }
func (m *mockHumaContext) URL() url.URL                          { return url.URL{} }
func (m *mockHumaContext) Param(_ string) string                 { return "" }
func (m *mockHumaContext) Query(_ string) string                 { return "" }
func (m *mockHumaContext) Header(name string) string             { return m.headers[name] }
func (m *mockHumaContext) EachHeader(_ func(name, value string)) {}
func (m *mockHumaContext) BodyReader() io.Reader                 { return nil }
func (m *mockHumaContext) GetMultipartForm() (*multipart.Form, error) {
	return nil, errMultipartNotSupported
}
func (m *mockHumaContext) SetReadDeadline(_ time.Time) error { return nil }
func (m *mockHumaContext) SetStatus(code int)                { m.statusCode = code }
func (m *mockHumaContext) Status() int                       { return m.statusCode }
func (m *mockHumaContext) AppendHeader(_, _ string)          {}
func (m *mockHumaContext) SetHeader(_, _ string)             {}
func (m *mockHumaContext) BodyWriter() io.Writer             { return &mockBodyWriter{ctx: m} }

type mockBodyWriter struct {
	ctx *mockHumaContext
}

func (w *mockBodyWriter) Write(p []byte) (n int, err error) {
	w.ctx.written = append(w.ctx.written, p...)

	return len(p), nil
}

type failingLimitStore struct{}

func (s *failingLimitStore) Incr(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, errors.New("store error")
}

func limitedOperation(id string, limits ...ratelimit.Limit) *huma.Operation {
	return &huma.Operation{
		OperationID: id,
		Path:        "/" + id,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: limits},
		},
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("passes through operations without a config", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		mw := middleware.RateLimiter(api, limiter)

		for range 10 {
			ctx := newMockHumaContext(&huma.Operation{OperationID: "open", Path: "/open"})
			ctx.host = testHostAddr
			ctx.headers["User-Agent"] = testUserAgent

			nextCalled := false

			mw(ctx, func(_ huma.Context) {
				nextCalled = true
			})

			assert.True(t, nextCalled)
		}
	})

	t.Run("skips operations with rate limiting disabled", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		mw := middleware.RateLimiter(api, limiter)

		operation := &huma.Operation{
			OperationID: "disabled",
			Path:        "/disabled",
			Metadata: map[string]any{
				ratelimit.MetadataKey: ratelimit.EndpointConfig{
					Limits:   []ratelimit.Limit{{Window: time.Minute, Max: 1}},
					Disabled: true,
				},
			},
		}

		for range 3 {
			ctx := newMockHumaContext(operation)
			ctx.host = testHostAddr
			ctx.headers["User-Agent"] = testUserAgent

			nextCalled := false

			mw(ctx, func(_ huma.Context) {
				nextCalled = true
			})

			assert.True(t, nextCalled)
		}
	})

	t.Run("allows requests under the limit", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		mw := middleware.RateLimiter(api, limiter)

		operation := limitedOperation("shorten", ratelimit.Limit{Window: time.Minute, Max: 3})

		for i := range 3 {
			ctx := newMockHumaContext(operation)
			ctx.host = testHostAddr
			ctx.headers["User-Agent"] = testUserAgent

			nextCalled := false

			mw(ctx, func(_ huma.Context) {
				nextCalled = true
			})

			assert.True(t, nextCalled, "request %d should be allowed", i+1)
		}
	})

	t.Run("returns 429 when rate limited", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		mw := middleware.RateLimiter(api, limiter)

		operation := limitedOperation("shorten", ratelimit.Limit{Window: time.Minute, Max: 1})

		first := newMockHumaContext(operation)
		first.host = testHostAddr
		first.headers["User-Agent"] = testUserAgent

		mw(first, func(_ huma.Context) {})

		second := newMockHumaContext(operation)
		second.host = testHostAddr
		second.headers["User-Agent"] = testUserAgent

		nextCalled := false

		mw(second, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled, "next should not be called when rate limited")
		assert.Equal(t, 429, second.statusCode)
		assert.Contains(t, string(second.written), "rate limit")
	})

	t.Run("budgets are scoped per operation", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		mw := middleware.RateLimiter(api, limiter)

		shorten := limitedOperation("shorten", ratelimit.Limit{Window: time.Minute, Max: 1})
		redirect := limitedOperation("redirect", ratelimit.Limit{Window: time.Minute, Max: 1})

		ctx := newMockHumaContext(shorten)
		ctx.host = testHostAddr
		ctx.headers["User-Agent"] = testUserAgent
		mw(ctx, func(_ huma.Context) {})

		other := newMockHumaContext(redirect)
		other.host = testHostAddr
		other.headers["User-Agent"] = testUserAgent

		nextCalled := false

		mw(other, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled, "exhausting one operation must not affect another")
	})

	t.Run("budgets are scoped per client", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		mw := middleware.RateLimiter(api, limiter)

		operation := limitedOperation("shorten", ratelimit.Limit{Window: time.Minute, Max: 1})

		first := newMockHumaContext(operation)
		first.host = testHostAddr
		first.headers["User-Agent"] = testUserAgent
		mw(first, func(_ huma.Context) {})

		other := newMockHumaContext(operation)
		other.host = testHostAddr
		other.headers["User-Agent"] = "DifferentAgent/2.0"

		nextCalled := false

		mw(other, func(_ huma.Context) {
			nextCalled = true
		})

		assert.True(t, nextCalled, "a different client keeps its own budget")
	})

	t.Run("returns 500 on store error", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(&failingLimitStore{})
		mw := middleware.RateLimiter(api, limiter)

		operation := limitedOperation("shorten", ratelimit.Limit{Window: time.Minute, Max: 1})

		ctx := newMockHumaContext(operation)
		ctx.host = testHostAddr
		ctx.headers["User-Agent"] = testUserAgent

		nextCalled := false

		mw(ctx, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled)
		assert.Equal(t, 500, ctx.statusCode)
	})

	t.Run("X-Forwarded-For identifies the client", func(t *testing.T) {
		api := newTestAPI()
		limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore())
		mw := middleware.RateLimiter(api, limiter)

		operation := limitedOperation("shorten", ratelimit.Limit{Window: time.Minute, Max: 1})

		first := newMockHumaContext(operation)
		first.host = "10.0.0.1:12345"
		first.headers["X-Forwarded-For"] = "203.0.113.195, 70.41.3.18"
		first.headers["User-Agent"] = testUserAgent
		mw(first, func(_ huma.Context) {})

		// Same originating client through a different proxy hop shares
		// the budget.
		second := newMockHumaContext(operation)
		second.host = "10.0.0.2:54321"
		second.headers["X-Forwarded-For"] = "203.0.113.195"
		second.headers["User-Agent"] = testUserAgent

		nextCalled := false

		mw(second, func(_ huma.Context) {
			nextCalled = true
		})

		assert.False(t, nextCalled)
		assert.Equal(t, 429, second.statusCode)
	})
}
