// Package store owns the canonical permit collection. All mutation goes
// through the Store interface; every other component works on read-only
// snapshots, so nothing can drift from the canonical sequence.
package store

import (
	"context"

	"sipeka/internal/permit/models"
)

// Store is the single-writer boundary around the permit collection.
//
// Stores return sentinel errors (sipeka/pkg/platform/sentinel) for
// infrastructure facts like identifier conflicts; services translate them
// into domain errors at the caller boundary.
type Store interface {
	// Append adds one validated permit. Fails without mutating the store
	// when required fields are empty or the id collides.
	Append(ctx context.Context, permit *models.Permit) error
	// AppendBatch adds permits atomically: collisions against the store or
	// within the batch are detected up front and nothing is appended.
	AppendBatch(ctx context.Context, permits []*models.Permit) error
	// SetStatus updates the status of the permit with the given id.
	// Returns false when no permit matches; that is an explicit no-result,
	// not an error.
	SetStatus(ctx context.Context, id string, status models.Status) (bool, error)
	// All returns the full permit sequence in insertion order. The slice
	// and records are copies; mutating them does not touch the store.
	All(ctx context.Context) ([]*models.Permit, error)
	// Count returns the number of permits currently held.
	Count(ctx context.Context) (int, error)
}
