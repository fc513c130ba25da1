package handlers

import "time"

// ShortenRequest is the request body for creating a short URL.
type ShortenRequest struct {
	Body struct {
		LongURL       string `doc:"The URL to shorten"                          example:"https://example.com/very/long/path" json:"long_url,omitempty"`
		ExpiresInDays *int   `doc:"Days until the mapping expires, default 365" example:"30"                                 json:"expires_in_days,omitempty"`
	}
}

// ShortenResponse is the response for a successfully created short URL.
type ShortenResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Code      string     `doc:"The short code"      example:"aB3xY9Qk"                         json:"code"`
		ShortURL  string     `doc:"The full short URL"  example:"http://localhost:8888/aB3xY9Qk"   json:"short_url"`
		LongURL   string     `doc:"The original URL"    example:"https://example.com/very/long/path" json:"long_url"`
		ExpiresAt *time.Time `doc:"Expiry timestamp"    json:"expires_at,omitempty"`
	}
}

// RedirectRequest is the request for resolving a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"aB3xY9Qk" path:"code"`
}

// RedirectResponse redirects the client to the long URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The redirect target" header:"Location"`
	}
}
