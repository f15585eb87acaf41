package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Source supplies the catalog snapshot the order-entry core reads from
type Source interface {
	// Snapshot returns the current catalog view
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// TagSource supplies the predefined observation tags for a subcategory.
// Implementations return active tags only.
type TagSource interface {
	TagsForSubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]Observation, error)
}
