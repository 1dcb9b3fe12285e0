// Package repository keeps recent analysis batches in memory.
package repository

import (
	"context"

	"github.com/okian/sentiboard/internal/domain/model"
)

// Store provides read/write access to analyzed batches.
type Store interface {
	// Put records a batch, evicting the oldest one when the store is full.
	Put(ctx context.Context, b model.Batch) error

	// Latest returns the most recently stored batch.
	// Returns ErrEmpty if nothing was stored yet.
	Latest(ctx context.Context) (model.Batch, error)

	// Get returns the batch with the given id.
	// Returns ErrNotFound if the id is unknown or was evicted.
	Get(ctx context.Context, id string) (model.Batch, error)

	// Count returns the number of batches held.
	Count(ctx context.Context) int
}
