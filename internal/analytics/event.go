// Package analytics defines the events emitted by the URL shortener and
// their persistence.
package analytics

import "time"

// Topics for the analytics event stream.
const (
	TopicURLCreated  = "url.created"
	TopicURLAccessed = "url.accessed"
	TopicURLExpired  = "url.expired"
)

// URLCreatedEvent is emitted when a mapping is created.
type URLCreatedEvent struct {
	EventID   string     `json:"eventId"`
	Code      string     `json:"code"`
	LongURL   string     `json:"longUrl"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	ClientIP  string     `json:"clientIp"`
	UserAgent string     `json:"userAgent"`
}

// URLAccessedEvent is emitted on every successful redirect.
type URLAccessedEvent struct {
	EventID    string    `json:"eventId"`
	Code       string    `json:"code"`
	AccessedAt time.Time `json:"accessedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}

// URLExpiredEvent is emitted by the sweeper for every mapping it removes.
type URLExpiredEvent struct {
	EventID   string    `json:"eventId"`
	Code      string    `json:"code"`
	LongURL   string    `json:"longUrl"`
	ExpiredAt time.Time `json:"expiredAt"`
	SweptAt   time.Time `json:"sweptAt"`
}
