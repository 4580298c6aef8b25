package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence.
// The stock ledger consumes it without prescribing the store's representation.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDs finds multiple products in one batch read. Missing IDs are
	// simply absent from the result; callers decide whether that is an error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, product *Product) error
}
