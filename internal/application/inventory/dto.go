package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/inventory"
)

// ReceiveLotRequest represents a purchase-order delivery entering the ledger
type ReceiveLotRequest struct {
	ProductReference string          `json:"product_reference" validate:"required,max=50"`
	Reference        string          `json:"reference" validate:"required,max=100"`
	Quantity         decimal.Decimal `json:"quantity" validate:"required"`
	ReceivedBy       string          `json:"received_by" validate:"omitempty,max=100"`
}

// DeleteLotRequest represents a request to remove a lot from the ledger.
// Force skips the untouched-lot guard for explicit corrections.
type DeleteLotRequest struct {
	LotID uuid.UUID `json:"lot_id" validate:"required"`
	Force bool      `json:"force"`
}

// LotResponse represents a purchase-order lot in responses
type LotResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductReference  string          `json:"product_reference"`
	Reference         string          `json:"reference"`
	OriginalQuantity  decimal.Decimal `json:"original_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	ArrivalOrder      int64           `json:"arrival_order"`
	ReceivedBy        string          `json:"received_by,omitempty"`
	Exhausted         bool            `json:"exhausted"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// StockLevelResponse represents one product's aggregated stock position
type StockLevelResponse struct {
	ProductReference string          `json:"product_reference"`
	TotalRemaining   decimal.Decimal `json:"total_remaining"`
	TotalOriginal    decimal.Decimal `json:"total_original"`
	LotCount         int64           `json:"lot_count"`
	RemainingRatio   decimal.Decimal `json:"remaining_ratio"`
}

// AvailabilityResponse reports whether a quantity can currently be served
type AvailabilityResponse struct {
	ProductReference string          `json:"product_reference"`
	Requested        decimal.Decimal `json:"requested"`
	Available        decimal.Decimal `json:"available"`
	OK               bool            `json:"ok"`
	Shortfall        decimal.Decimal `json:"shortfall"`
}

// StockSummaryResponse is the dashboard aggregate over the whole ledger.
// Coupon counts are filled only when the service has a coupon repository.
type StockSummaryResponse struct {
	ProductsTracked   int                  `json:"products_tracked"`
	TotalLots         int64                `json:"total_lots"`
	TotalRemaining    decimal.Decimal      `json:"total_remaining"`
	TotalOriginal     decimal.Decimal      `json:"total_original"`
	CouponsIssued     int64                `json:"coupons_issued"`
	CouponsVerified   int64                `json:"coupons_verified"`
	CouponsUnverified int64                `json:"coupons_unverified"`
	LowStock          []StockLevelResponse `json:"low_stock"`
	Levels            []StockLevelResponse `json:"levels"`
}

// TransferStockRequest represents a direct stock transfer to a
// distribution location. A zero TransferDate means "now".
type TransferStockRequest struct {
	TransferReference string          `json:"transfer_reference" validate:"required,max=100"`
	ProductReference  string          `json:"product_reference" validate:"required,max=50"`
	LocationCode      string          `json:"location_code" validate:"required,max=50"`
	Quantity          decimal.Decimal `json:"quantity" validate:"required"`
	TransferDate      time.Time       `json:"transfer_date"`
	Notes             string          `json:"notes" validate:"omitempty,max=1000"`
}

// TransferResponse represents a stock transfer in responses
type TransferResponse struct {
	ID                uuid.UUID       `json:"id"`
	TransferReference string          `json:"transfer_reference"`
	ProductReference  string          `json:"product_reference"`
	LocationCode      string          `json:"location_code"`
	Quantity          decimal.Decimal `json:"quantity"`
	TransferDate      time.Time       `json:"transfer_date"`
	Notes             string          `json:"notes,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// TransferSummaryResponse aggregates the transfer history
type TransferSummaryResponse struct {
	TransferCount   int64           `json:"transfer_count"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	ProductsServed  int64           `json:"products_served"`
	LocationsServed int64           `json:"locations_served"`
}

// TransferListFilter represents filter options for the transfer list
type TransferListFilter struct {
	ProductReference string `json:"product_reference"`
	LocationCode     string `json:"location_code"`
	Search           string `json:"search"`
	Page             int    `json:"page" validate:"omitempty,min=1"`
	PageSize         int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy          string `json:"order_by"`
	OrderDir         string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// LotListFilter represents filter options for the lot list
type LotListFilter struct {
	ProductReference string `json:"product_reference"`
	Search           string `json:"search"`
	Page             int    `json:"page" validate:"omitempty,min=1"`
	PageSize         int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	OrderBy          string `json:"order_by"`
	OrderDir         string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// ToLotResponse converts a lot to a response DTO
func ToLotResponse(lot *inventory.PurchaseOrderLot) LotResponse {
	return LotResponse{
		ID:                lot.ID,
		ProductReference:  lot.ProductReference,
		Reference:         lot.Reference,
		OriginalQuantity:  lot.OriginalQuantity,
		RemainingQuantity: lot.RemainingQuantity,
		ArrivalOrder:      lot.ArrivalOrder,
		ReceivedBy:        lot.ReceivedBy,
		Exhausted:         lot.IsExhausted(),
		CreatedAt:         lot.CreatedAt,
		UpdatedAt:         lot.UpdatedAt,
		Version:           lot.GetVersion(),
	}
}

// ToLotResponses converts a lot slice to response DTOs
func ToLotResponses(lots []inventory.PurchaseOrderLot) []LotResponse {
	responses := make([]LotResponse, len(lots))
	for i := range lots {
		responses[i] = ToLotResponse(&lots[i])
	}
	return responses
}

// ToTransferResponse converts a transfer to a response DTO
func ToTransferResponse(transfer *inventory.StockTransfer) TransferResponse {
	return TransferResponse{
		ID:                transfer.ID,
		TransferReference: transfer.TransferReference,
		ProductReference:  transfer.ProductReference,
		LocationCode:      transfer.LocationCode,
		Quantity:          transfer.Quantity,
		TransferDate:      transfer.TransferDate,
		Notes:             transfer.Notes,
		CreatedAt:         transfer.CreatedAt,
		UpdatedAt:         transfer.UpdatedAt,
		Version:           transfer.GetVersion(),
	}
}

// ToTransferResponses converts a transfer slice to response DTOs
func ToTransferResponses(transfers []inventory.StockTransfer) []TransferResponse {
	responses := make([]TransferResponse, len(transfers))
	for i := range transfers {
		responses[i] = ToTransferResponse(&transfers[i])
	}
	return responses
}

// ToStockLevelResponse converts an aggregated stock level to a response DTO
func ToStockLevelResponse(level inventory.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductReference: level.ProductReference,
		TotalRemaining:   level.TotalRemaining,
		TotalOriginal:    level.TotalOriginal,
		LotCount:         level.LotCount,
		RemainingRatio:   level.Ratio(),
	}
}
