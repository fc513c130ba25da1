package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/urlpool/internal/analytics"
	"github.com/serroba/urlpool/internal/keypool"
	"github.com/serroba/urlpool/internal/messaging"
	"github.com/serroba/urlpool/internal/shortener"
	"go.uber.org/zap"
)

// DefaultTTLDays is the retention window applied when the caller does
// not supply expires_in_days.
const DefaultTTLDays = 365

// URLHandler handles the create and resolve operations.
type URLHandler struct {
	repo            shortener.Repository
	allocator       *keypool.Allocator
	baseURL         string
	defaultTTLDays  int
	publishCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger          *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	repo shortener.Repository,
	allocator *keypool.Allocator,
	baseURL string,
	defaultTTLDays int,
	publishCreated messaging.Publish[analytics.URLCreatedEvent],
	publishAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	if defaultTTLDays <= 0 {
		defaultTTLDays = DefaultTTLDays
	}

	return &URLHandler{
		repo:            repo,
		allocator:       allocator,
		baseURL:         baseURL,
		defaultTTLDays:  defaultTTLDays,
		publishCreated:  publishCreated,
		publishAccessed: publishAccessed,
		logger:          logger,
	}
}

// CreateShortURL allocates a code, stores the mapping, and returns the
// short URL. Allocation, store write, and cache invalidation complete
// before the response is sent; a failed store write hands the claimed
// code straight back to the pool.
func (h *URLHandler) CreateShortURL(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	if req.Body.LongURL == "" {
		return nil, huma.Error400BadRequest("long_url is required")
	}

	days := h.defaultTTLDays
	if req.Body.ExpiresInDays != nil {
		days = *req.Body.ExpiresInDays
	}

	if days < 0 {
		return nil, huma.Error400BadRequest("expires_in_days must not be negative")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(days) * 24 * time.Hour)

	code, err := h.allocator.Allocate(ctx)
	if err != nil {
		if errors.Is(err, keypool.ErrPoolExhausted) {
			return nil, huma.Error503ServiceUnavailable("could not allocate a short code")
		}

		return nil, huma.Error500InternalServerError("failed to allocate short code")
	}

	shortURL := &shortener.ShortURL{
		Code:      shortener.Code(code),
		LongURL:   req.Body.LongURL,
		ExpiresAt: &expiresAt,
		CreatedAt: now,
	}

	if err := h.repo.Save(ctx, shortURL); err != nil {
		h.allocator.Recycle(ctx, code)

		return nil, huma.Error500InternalServerError("failed to save url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		EventID:   uuid.NewString(),
		Code:      code,
		LongURL:   shortURL.LongURL,
		ExpiresAt: shortURL.ExpiresAt,
		CreatedAt: shortURL.CreatedAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish created event",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, code)

	resp := &ShortenResponse{Status: http.StatusCreated}
	resp.Headers.Location = fullShortURL
	resp.Body.Code = code
	resp.Body.ShortURL = fullShortURL
	resp.Body.LongURL = shortURL.LongURL
	resp.Body.ExpiresAt = shortURL.ExpiresAt

	return resp, nil
}

// RedirectToURL resolves a code and redirects to the long URL. An
// expired mapping that the sweeper has not removed yet answers 410
// without mutating any state; once swept it becomes a plain 404.
func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	shortURL, err := h.repo.GetByCode(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	if shortURL.Expired(time.Now().UTC()) {
		return nil, huma.Error410Gone(shortener.ErrExpired.Error())
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		EventID:    uuid.NewString(),
		Code:       req.Code,
		AccessedAt: time.Now().UTC(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err = h.publishAccessed(event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("code", req.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = shortURL.LongURL

	return resp, nil
}
