package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/counterpos/internal/domain/entity"
)

// ProductRepository defines the interface for menu lookups
type ProductRepository interface {
	// GetByIDs returns the products with their modifiers, keyed by ID. Unknown
	// IDs are absent from the map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Create(ctx context.Context, product *entity.Product) error
}
