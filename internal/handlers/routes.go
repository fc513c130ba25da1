package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/urlpool/internal/ratelimit"
)

// RegisterRoutes registers the URL shortener routes with per-endpoint
// rate limit configuration.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	// Writes claim codes from the pool, so they get the strict limits.
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Allocates a short code from the pool and maps it to the given URL.",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.Limit{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the long URL for the short code. Expired codes answer 410 until swept.",
		Tags:        []string{"URLs"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.Limit{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, urlHandler.RedirectToURL)
}
