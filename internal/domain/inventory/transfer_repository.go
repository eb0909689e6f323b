package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

// TransferSummary aggregates the transfer history for dashboards
type TransferSummary struct {
	TransferCount   int64           `json:"transfer_count"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
	ProductsServed  int64           `json:"products_served"`
	LocationsServed int64           `json:"locations_served"`
}

// TransferRepository defines the interface for stock transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockTransfer, error)

	// FindByReference finds a transfer by its unique reference
	FindByReference(ctx context.Context, transferReference string) (*StockTransfer, error)

	// FindAll finds all transfers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]StockTransfer, error)

	// Save creates or updates a transfer
	Save(ctx context.Context, transfer *StockTransfer) error

	// Count counts transfers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByReference checks if a transfer with the given reference exists
	ExistsByReference(ctx context.Context, transferReference string) (bool, error)

	// Summary aggregates the whole transfer history
	Summary(ctx context.Context) (*TransferSummary, error)
}
