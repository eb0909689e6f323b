package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByReference finds a product by its reference code
	FindByReference(ctx context.Context, reference string) (*Product, error)

	// FindByReferences finds multiple products by their reference codes
	FindByReferences(ctx context.Context, references []string) ([]Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByReference checks if a product with the given reference exists
	ExistsByReference(ctx context.Context, reference string) (bool, error)
}
