package catalog

import (
	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeProductRenamed = "ProductRenamed"
	EventTypeProductDeleted = "ProductDeleted"
)

// ProductCreatedEvent is raised when a product is added to the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Reference:       product.Reference,
		Name:            product.Name,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// ProductRenamedEvent is raised when a product's display name changes
type ProductRenamedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
}

// NewProductRenamedEvent creates a new ProductRenamedEvent
func NewProductRenamedEvent(product *Product) *ProductRenamedEvent {
	return &ProductRenamedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductRenamed, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Reference:       product.Reference,
		Name:            product.Name,
	}
}

// EventType returns the event type name
func (e *ProductRenamedEvent) EventType() string {
	return EventTypeProductRenamed
}

// ProductDeletedEvent is raised when a product is removed from the catalog
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Reference string    `json:"reference"`
	Name      string    `json:"name"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(product *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Reference:       product.Reference,
		Name:            product.Name,
	}
}

// EventType returns the event type name
func (e *ProductDeletedEvent) EventType() string {
	return EventTypeProductDeleted
}
