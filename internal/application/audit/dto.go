package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/audit"
)

// ActivityResponse represents one activity trail entry in responses
type ActivityResponse struct {
	ID            uuid.UUID `json:"id"`
	Action        string    `json:"action"`
	AggregateType string    `json:"aggregate_type"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	Reference     string    `json:"reference,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// ActivityListFilter represents filter options for the activity trail
type ActivityListFilter struct {
	Action        string `json:"action" validate:"omitempty,oneof=CREATE UPDATE DELETE RECEIVE VERIFY UNVERIFY DEPLETE TRANSFER"`
	AggregateType string `json:"aggregate_type"`
	Search        string `json:"search"`
	Page          int    `json:"page" validate:"omitempty,min=1"`
	PageSize      int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ToActivityResponse converts an activity entry to a response DTO
func ToActivityResponse(activity *audit.Activity) ActivityResponse {
	return ActivityResponse{
		ID:            activity.ID,
		Action:        activity.Action.String(),
		AggregateType: activity.AggregateType,
		AggregateID:   activity.AggregateID,
		Reference:     activity.Reference,
		Detail:        activity.Detail,
		OccurredAt:    activity.OccurredAt,
	}
}

// ToActivityResponses converts activity entries to response DTOs
func ToActivityResponses(activities []audit.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for i := range activities {
		responses = append(responses, ToActivityResponse(&activities[i]))
	}
	return responses
}
