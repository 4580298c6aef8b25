package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for order persistence
type Repository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order with its items by order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// Save creates or updates an order and its items
	Save(ctx context.Context, o *Order) error
}
