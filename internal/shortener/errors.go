package shortener

import "errors"

var (
	// ErrNotFound indicates no mapping exists for a code.
	ErrNotFound = errors.New("short url not found")

	// ErrExpired indicates a mapping exists but its expiry has passed.
	// Kept distinct from ErrNotFound so clients can tell "never existed"
	// from "existed, aged out".
	ErrExpired = errors.New("short url expired")
)
