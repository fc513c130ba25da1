package keypool

import (
	"context"
	"sync"
	"time"
)

// MemoryPool is an in-memory implementation of Pool. The single mutex
// gives the same claim exclusivity the Postgres pool gets from row locks.
type MemoryPool struct {
	mu    sync.Mutex
	slots map[string]*CodeSlot
}

// NewMemoryPool creates an empty in-memory code pool.
func NewMemoryPool() *MemoryPool {
	return &MemoryPool{slots: make(map[string]*CodeSlot)}
}

func (m *MemoryPool) Claim(_ context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for code, slot := range m.slots {
		if !slot.Used {
			slot.Used = true

			return code, true, nil
		}
	}

	return "", false, nil
}

func (m *MemoryPool) Insert(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.slots[code]; exists {
		return ErrDuplicateCode
	}

	m.slots[code] = &CodeSlot{Code: code, Used: true, CreatedAt: time.Now()}

	return nil
}

func (m *MemoryPool) Release(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if slot, exists := m.slots[code]; exists {
		slot.Used = false
	}

	return nil
}

// Slot returns a copy of the slot for code, for inspection.
func (m *MemoryPool) Slot(code string) (CodeSlot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, exists := m.slots[code]
	if !exists {
		return CodeSlot{}, false
	}

	return *slot, true
}

// Len reports the total number of slots, used and free.
func (m *MemoryPool) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.slots)
}

// Compile-time check.
var _ Pool = (*MemoryPool)(nil)
