package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrderLot = "PurchaseOrderLot"
	AggregateTypeStockTransfer    = "StockTransfer"
)

// Event type constants
const (
	EventTypeLotReceived      = "LotReceived"
	EventTypeLotDepleted      = "LotDepleted"
	EventTypeLotDeleted       = "LotDeleted"
	EventTypeStockTransferred = "StockTransferred"
)

// LotReceivedEvent is published when a purchase-order lot enters the ledger
type LotReceivedEvent struct {
	shared.BaseDomainEvent
	LotID            uuid.UUID       `json:"lot_id"`
	LotReference     string          `json:"lot_reference"`
	ProductReference string          `json:"product_reference"`
	Quantity         decimal.Decimal `json:"quantity"`
	ArrivalOrder     int64           `json:"arrival_order"`
}

// NewLotReceivedEvent creates a new LotReceivedEvent
func NewLotReceivedEvent(lot *PurchaseOrderLot) *LotReceivedEvent {
	return &LotReceivedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLotReceived, AggregateTypePurchaseOrderLot, lot.ID),
		LotID:            lot.ID,
		LotReference:     lot.Reference,
		ProductReference: lot.ProductReference,
		Quantity:         lot.OriginalQuantity,
		ArrivalOrder:     lot.ArrivalOrder,
	}
}

// EventType returns the event type name
func (e *LotReceivedEvent) EventType() string {
	return EventTypeLotReceived
}

// LotDepletedEvent is published when a deduction drains a lot to zero
type LotDepletedEvent struct {
	shared.BaseDomainEvent
	LotID            uuid.UUID       `json:"lot_id"`
	LotReference     string          `json:"lot_reference"`
	ProductReference string          `json:"product_reference"`
	OriginalQuantity decimal.Decimal `json:"original_quantity"`
}

// NewLotDepletedEvent creates a new LotDepletedEvent
func NewLotDepletedEvent(lot *PurchaseOrderLot) *LotDepletedEvent {
	return &LotDepletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLotDepleted, AggregateTypePurchaseOrderLot, lot.ID),
		LotID:            lot.ID,
		LotReference:     lot.Reference,
		ProductReference: lot.ProductReference,
		OriginalQuantity: lot.OriginalQuantity,
	}
}

// EventType returns the event type name
func (e *LotDepletedEvent) EventType() string {
	return EventTypeLotDepleted
}

// LotDeletedEvent is published when a lot is removed from the ledger
type LotDeletedEvent struct {
	shared.BaseDomainEvent
	LotID             uuid.UUID       `json:"lot_id"`
	LotReference      string          `json:"lot_reference"`
	ProductReference  string          `json:"product_reference"`
	RemainingAtDelete decimal.Decimal `json:"remaining_at_delete"`
}

// NewLotDeletedEvent creates a new LotDeletedEvent
func NewLotDeletedEvent(lot *PurchaseOrderLot) *LotDeletedEvent {
	return &LotDeletedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeLotDeleted, AggregateTypePurchaseOrderLot, lot.ID),
		LotID:             lot.ID,
		LotReference:      lot.Reference,
		ProductReference:  lot.ProductReference,
		RemainingAtDelete: lot.RemainingQuantity,
	}
}

// EventType returns the event type name
func (e *LotDeletedEvent) EventType() string {
	return EventTypeLotDeleted
}

// StockTransferredEvent is published when stock leaves the ledger for a
// distribution location
type StockTransferredEvent struct {
	shared.BaseDomainEvent
	TransferID        uuid.UUID       `json:"transfer_id"`
	TransferReference string          `json:"transfer_reference"`
	ProductReference  string          `json:"product_reference"`
	LocationCode      string          `json:"location_code"`
	Quantity          decimal.Decimal `json:"quantity"`
}

// NewStockTransferredEvent creates a new StockTransferredEvent
func NewStockTransferredEvent(transfer *StockTransfer) *StockTransferredEvent {
	return &StockTransferredEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockTransferred, AggregateTypeStockTransfer, transfer.ID),
		TransferID:        transfer.ID,
		TransferReference: transfer.TransferReference,
		ProductReference:  transfer.ProductReference,
		LocationCode:      transfer.LocationCode,
		Quantity:          transfer.Quantity,
	}
}

// EventType returns the event type name
func (e *StockTransferredEvent) EventType() string {
	return EventTypeStockTransferred
}
