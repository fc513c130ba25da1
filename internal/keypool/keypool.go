// Package keypool manages the durable pool of short-code slots and their
// allocation under concurrent access. Slots are claimed and released but
// never physically deleted.
package keypool

import (
	"context"
	"errors"
	"time"
)

// CodeSlot represents one short code's allocation state.
type CodeSlot struct {
	Code      string
	Used      bool
	CreatedAt time.Time
}

var (
	// ErrDuplicateCode is returned by Insert when another caller raced
	// to insert the same freshly generated code.
	ErrDuplicateCode = errors.New("code already exists in pool")

	// ErrPoolExhausted is returned when repeated allocation attempts
	// keep colliding with existing codes.
	ErrPoolExhausted = errors.New("code allocation retries exhausted")
)

// Pool is the durable store of code slots.
type Pool interface {
	// Claim atomically marks one free slot used and returns its code.
	// ok is false when no free slot exists. Two concurrent claims never
	// receive the same slot.
	Claim(ctx context.Context) (code string, ok bool, err error)

	// Insert adds a new slot already marked used. Returns
	// ErrDuplicateCode when a slot with that code is present.
	Insert(ctx context.Context, code string) error

	// Release marks the slot free again. Releasing a free or unknown
	// slot is a no-op.
	Release(ctx context.Context, code string) error
}
