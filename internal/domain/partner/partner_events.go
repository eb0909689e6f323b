package partner

import (
	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeLocation = "Location"
	AggregateTypeCentre   = "Centre"
)

// Event type constants
const (
	EventTypeLocationCreated = "LocationCreated"
	EventTypeCentreCreated   = "CentreCreated"
)

// LocationCreatedEvent is published when a distribution location is registered
type LocationCreatedEvent struct {
	shared.BaseDomainEvent
	LocationID uuid.UUID `json:"location_id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
}

// NewLocationCreatedEvent creates a new LocationCreatedEvent
func NewLocationCreatedEvent(location *Location) *LocationCreatedEvent {
	return &LocationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLocationCreated, AggregateTypeLocation, location.ID),
		LocationID:      location.ID,
		Code:            location.Code,
		Name:            location.Name,
	}
}

// EventType returns the event type name
func (e *LocationCreatedEvent) EventType() string {
	return EventTypeLocationCreated
}

// CentreCreatedEvent is published when a medical centre is registered
type CentreCreatedEvent struct {
	shared.BaseDomainEvent
	CentreID uuid.UUID `json:"centre_id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewCentreCreatedEvent creates a new CentreCreatedEvent
func NewCentreCreatedEvent(centre *Centre) *CentreCreatedEvent {
	return &CentreCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCentreCreated, AggregateTypeCentre, centre.ID),
		CentreID:        centre.ID,
		Code:            centre.Code,
		Name:            centre.Name,
	}
}

// EventType returns the event type name
func (e *CentreCreatedEvent) EventType() string {
	return EventTypeCentreCreated
}
