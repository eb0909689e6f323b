package audit

import (
	"context"

	"github.com/google/uuid"

	appshared "github.com/medsupply/backend/internal/application/shared"
	"github.com/medsupply/backend/internal/domain/audit"
	"github.com/medsupply/backend/internal/domain/shared"
)

// ActivityService exposes the activity trail for dashboards and review
type ActivityService struct {
	activityRepo audit.ActivityRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo audit.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// RecentActivity retrieves trail entries newest first
func (s *ActivityService) RecentActivity(ctx context.Context, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	if err := appshared.ValidateStruct(filter); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "occurred_at"
	domainFilter.OrderDir = "desc"
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Action != "" {
		domainFilter.Filters["action"] = filter.Action
	}
	if filter.AggregateType != "" {
		domainFilter.Filters["aggregate_type"] = filter.AggregateType
	}

	activities, err := s.activityRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.activityRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToActivityResponses(activities), total, nil
}

// AggregateTrail retrieves the full trail of one aggregate, newest first
func (s *ActivityService) AggregateTrail(ctx context.Context, aggregateType string, aggregateID uuid.UUID) ([]ActivityResponse, error) {
	if aggregateType == "" {
		return nil, shared.NewDomainError("INVALID_AGGREGATE_TYPE", "Aggregate type cannot be empty")
	}

	activities, err := s.activityRepo.FindByAggregate(ctx, aggregateType, aggregateID)
	if err != nil {
		return nil, err
	}
	return ToActivityResponses(activities), nil
}
