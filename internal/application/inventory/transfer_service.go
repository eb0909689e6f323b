package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	appshared "github.com/medsupply/backend/internal/application/shared"
	"github.com/medsupply/backend/internal/domain/catalog"
	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/partner"
	"github.com/medsupply/backend/internal/domain/shared"
)

// TransferService records direct stock transfers to distribution locations.
// A transfer deducts through the same FIFO walk coupon verification uses,
// but keeps no per-lot allocation records: once recorded it cannot be
// reversed, so the availability check and the transfer write run inside one
// transaction scope.
type TransferService struct {
	transferRepo   inventory.TransferRepository
	productRepo    catalog.ProductRepository
	locationRepo   partner.LocationRepository
	txScope        TransferScope
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo inventory.TransferRepository,
	productRepo catalog.ProductRepository,
	txScope TransferScope,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		productRepo:  productRepo,
		txScope:      txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetLocationRepository enables location validation on transfers
// (optional; location codes pass unchecked otherwise)
func (s *TransferService) SetLocationRepository(locationRepo partner.LocationRepository) {
	s.locationRepo = locationRepo
}

// TransferStock deducts stock oldest-lot-first and records the transfer.
// The deduction and the record commit atomically; there is no reversal path
// for a committed transfer.
func (s *TransferService) TransferStock(ctx context.Context, req TransferStockRequest) (*TransferResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	productReference := strings.ToUpper(strings.TrimSpace(req.ProductReference))
	exists, err := s.productRepo.ExistsByReference(ctx, productReference)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Cannot transfer stock of an unknown product")
	}

	locationCode := strings.ToUpper(strings.TrimSpace(req.LocationCode))
	if s.locationRepo != nil {
		known, err := s.locationRepo.ExistsByCode(ctx, locationCode)
		if err != nil {
			return nil, err
		}
		if !known {
			return nil, shared.NewDomainError("LOCATION_NOT_FOUND", "Cannot transfer stock to an unknown location")
		}
	}

	var transfer *inventory.StockTransfer
	var events []shared.DomainEvent

	err = s.txScope.Execute(ctx, func(repos TransferRepositories) error {
		taken, err := repos.TransferRepo().ExistsByReference(ctx, strings.ToUpper(strings.TrimSpace(req.TransferReference)))
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError("TRANSFER_EXISTS", "A transfer with this reference already exists")
		}

		lots, err := repos.LotRepo().FindAvailableByProduct(ctx, productReference)
		if err != nil {
			return err
		}

		allocation, err := inventory.Deduct(productReference, req.Quantity, lots)
		if err != nil {
			return err
		}

		touched := touchedLots(allocation, lots)
		if err := repos.LotRepo().SaveAll(ctx, touched); err != nil {
			return err
		}

		transfer, err = inventory.NewStockTransfer(req.TransferReference, productReference, locationCode, req.Quantity, req.TransferDate)
		if err != nil {
			return err
		}
		transfer.Notes = strings.TrimSpace(req.Notes)

		if err := repos.TransferRepo().Save(ctx, transfer); err != nil {
			return err
		}

		events = append(events, harvestEvents(transfer)...)
		for _, lot := range touched {
			events = append(events, harvestEvents(lot)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetTransfer retrieves a transfer by ID
func (s *TransferService) GetTransfer(ctx context.Context, id uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// GetTransferByReference retrieves a transfer by its unique reference
func (s *TransferService) GetTransferByReference(ctx context.Context, transferReference string) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByReference(ctx, strings.ToUpper(strings.TrimSpace(transferReference)))
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(transfer)
	return &response, nil
}

// ListTransfers retrieves transfers with filtering and pagination, most
// recent transfer date first unless the filter orders otherwise
func (s *TransferService) ListTransfers(ctx context.Context, filter TransferListFilter) ([]TransferResponse, int64, error) {
	if err := appshared.ValidateStruct(filter); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "transfer_date"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.ProductReference != "" {
		domainFilter.Filters = map[string]interface{}{
			"product_reference": strings.ToUpper(strings.TrimSpace(filter.ProductReference)),
		}
	}
	if filter.LocationCode != "" {
		if domainFilter.Filters == nil {
			domainFilter.Filters = map[string]interface{}{}
		}
		domainFilter.Filters["location_code"] = strings.ToUpper(strings.TrimSpace(filter.LocationCode))
	}

	transfers, err := s.transferRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.transferRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToTransferResponses(transfers), total, nil
}

// TransferSummary aggregates the whole transfer history for dashboards
func (s *TransferService) TransferSummary(ctx context.Context) (*TransferSummaryResponse, error) {
	summary, err := s.transferRepo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &TransferSummaryResponse{
		TransferCount:   summary.TransferCount,
		TotalQuantity:   summary.TotalQuantity,
		ProductsServed:  summary.ProductsServed,
		LocationsServed: summary.LocationsServed,
	}, nil
}

// touchedLots returns the lots an allocation actually drew from
func touchedLots(allocation *inventory.Allocation, lots []*inventory.PurchaseOrderLot) []*inventory.PurchaseOrderLot {
	byID := make(map[uuid.UUID]*inventory.PurchaseOrderLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}
	touched := make([]*inventory.PurchaseOrderLot, 0, len(allocation.Entries))
	for _, entry := range allocation.Entries {
		if lot, ok := byID[entry.LotID]; ok {
			touched = append(touched, lot)
		}
	}
	return touched
}

// harvestEvents drains an aggregate's pending domain events
func harvestEvents(aggregate shared.AggregateRoot) []shared.DomainEvent {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	drained := make([]shared.DomainEvent, len(events))
	copy(drained, events)
	aggregate.ClearDomainEvents()
	return drained
}
