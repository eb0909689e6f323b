package audit

import (
	"context"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// ActivityRepository defines the interface for activity log persistence
type ActivityRepository interface {
	// Save appends an activity entry
	Save(ctx context.Context, activity *Activity) error

	// FindAll finds activity entries matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Activity, error)

	// FindByAggregate finds the trail of one aggregate, newest first
	FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID) ([]Activity, error)

	// Count counts activity entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
