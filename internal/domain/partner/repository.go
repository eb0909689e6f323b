package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// LocationRepository defines the interface for location persistence
type LocationRepository interface {
	// FindByID finds a location by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Location, error)

	// FindByCode finds a location by its code
	FindByCode(ctx context.Context, code string) (*Location, error)

	// FindAll finds all locations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Location, error)

	// Save creates or updates a location
	Save(ctx context.Context, location *Location) error

	// Delete deletes a location
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts locations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a location with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// CentreRepository defines the interface for centre persistence
type CentreRepository interface {
	// FindByID finds a centre by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Centre, error)

	// FindByCode finds a centre by its code
	FindByCode(ctx context.Context, code string) (*Centre, error)

	// FindAll finds all centres matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Centre, error)

	// Save creates or updates a centre
	Save(ctx context.Context, centre *Centre) error

	// Delete deletes a centre
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts centres matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a centre with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)
}
