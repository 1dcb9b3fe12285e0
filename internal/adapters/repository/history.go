package repository

import (
	"context"
	"sync"

	"github.com/okian/sentiboard/internal/domain/model"
	"github.com/okian/sentiboard/pkg/metrics"
)

const defaultCapacity = 8

// History is a bounded, mutex-guarded Store. Batches are kept oldest first.
type History struct {
	mu       sync.RWMutex
	capacity int
	batches  []model.Batch
	byID     map[string]int // index into batches
}

var _ Store = (*History)(nil)

// NewHistory constructs an empty history.
func NewHistory(opts ...Option) *History {
	h := &History{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(h)
	}
	h.batches = make([]model.Batch, 0, h.capacity)
	h.byID = make(map[string]int, h.capacity)
	return h
}

// Capacity returns the maximum number of batches retained.
func (h *History) Capacity() int { return h.capacity }

// Put implements Store. Storing an id that is already present replaces it
// and makes it the latest.
func (h *History) Put(ctx context.Context, b model.Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.ID == "" {
		return ErrInvalidBatch
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if i, ok := h.byID[b.ID]; ok {
		h.batches = append(h.batches[:i], h.batches[i+1:]...)
	}
	if len(h.batches) == h.capacity {
		copy(h.batches, h.batches[1:])
		h.batches[len(h.batches)-1] = model.Batch{}
		h.batches = h.batches[:len(h.batches)-1]
	}
	h.batches = append(h.batches, b)
	h.reindex()

	metrics.UpdateHistorySize(len(h.batches))
	return nil
}

// Latest implements Store.
func (h *History) Latest(_ context.Context) (model.Batch, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.batches) == 0 {
		return model.Batch{}, ErrEmpty
	}
	return h.batches[len(h.batches)-1], nil
}

// Get implements Store.
func (h *History) Get(_ context.Context, id string) (model.Batch, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i, ok := h.byID[id]
	if !ok {
		return model.Batch{}, ErrNotFound
	}
	return h.batches[i], nil
}

// Count implements Store.
func (h *History) Count(_ context.Context) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.batches)
}

// IDs lists the stored batch ids, newest first.
func (h *History) IDs(_ context.Context) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, len(h.batches))
	for i, b := range h.batches {
		ids[len(h.batches)-1-i] = b.ID
	}
	return ids
}

// reindex rebuilds byID; callers hold the write lock.
func (h *History) reindex() {
	clear(h.byID)
	for i, b := range h.batches {
		h.byID[b.ID] = i
	}
}
