package shortener

import "time"

// Code represents a short URL code drawn from the code pool.
type Code string

// ShortURL represents one short-to-long URL mapping with an optional expiry.
type ShortURL struct {
	Code      Code
	LongURL   string
	ExpiresAt *time.Time // nil means the mapping never expires
	CreatedAt time.Time
}

// Expired reports whether the mapping's expiry has passed at the given instant.
func (s *ShortURL) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}
