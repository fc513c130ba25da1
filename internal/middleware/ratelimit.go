package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/urlpool/internal/ratelimit"
)

// RateLimiter returns a huma middleware enforcing the per-endpoint
// limits attached to each operation's metadata. Endpoints without a
// config, or with Disabled set, pass through untouched.
func RateLimiter(api huma.API, limiter *ratelimit.Limiter) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		config, ok := endpointConfig(ctx)
		if !ok || config.Disabled || len(config.Limits) == 0 {
			next(ctx)

			return
		}

		key := clientKey(ctx) + ":" + ctx.Operation().OperationID

		allowed, err := limiter.Allow(ctx.Context(), key, config.Limits)
		if err != nil {
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded")

			return
		}

		next(ctx)
	}
}

func endpointConfig(ctx huma.Context) (ratelimit.EndpointConfig, bool) {
	op := ctx.Operation()
	if op == nil || op.Metadata == nil {
		return ratelimit.EndpointConfig{}, false
	}

	config, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.EndpointConfig)

	return config, ok
}

// clientKey identifies a client by a hash of IP and User-Agent.
func clientKey(ctx huma.Context) string {
	ip := clientIP(ctx)
	ua := ctx.Header("User-Agent")

	hash := sha256.Sum256([]byte(ip + "|" + ua))

	return hex.EncodeToString(hash[:])
}
