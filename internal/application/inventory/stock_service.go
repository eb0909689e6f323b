package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appshared "github.com/medsupply/backend/internal/application/shared"
	"github.com/medsupply/backend/internal/domain/catalog"
	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/shared"
	"github.com/medsupply/backend/internal/domain/verification"
)

// DefaultLowStockThreshold flags products whose remaining stock dropped
// below one fifth of everything ever received for them
const DefaultLowStockThreshold = 0.20

// StockService handles lot intake and read-only stock queries. Deductions
// and restorations are driven by the verification coordinator, not here.
type StockService struct {
	lotRepo           inventory.LotRepository
	allocationRepo    inventory.AllocationRepository
	productRepo       catalog.ProductRepository
	couponRepo        verification.CouponRepository
	eventPublisher    shared.EventPublisher
	lowStockThreshold decimal.Decimal
}

// NewStockService creates a new StockService
func NewStockService(
	lotRepo inventory.LotRepository,
	allocationRepo inventory.AllocationRepository,
	productRepo catalog.ProductRepository,
) *StockService {
	return &StockService{
		lotRepo:           lotRepo,
		allocationRepo:    allocationRepo,
		productRepo:       productRepo,
		lowStockThreshold: decimal.NewFromFloat(DefaultLowStockThreshold),
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCouponRepository enables coupon counts on the stock summary
// (optional; the summary reports zero coupons otherwise)
func (s *StockService) SetCouponRepository(couponRepo verification.CouponRepository) {
	s.couponRepo = couponRepo
}

// SetLowStockThreshold overrides the default low-stock threshold fraction
func (s *StockService) SetLowStockThreshold(threshold decimal.Decimal) {
	if threshold.GreaterThan(decimal.Zero) {
		s.lowStockThreshold = threshold
	}
}

// ReceiveLot records a purchase-order delivery as a new lot. The lot joins
// the FIFO queue of its product behind every lot received before it.
func (s *StockService) ReceiveLot(ctx context.Context, req ReceiveLotRequest) (*LotResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	productReference := strings.ToUpper(strings.TrimSpace(req.ProductReference))
	exists, err := s.productRepo.ExistsByReference(ctx, productReference)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Cannot receive stock for an unknown product")
	}

	taken, err := s.lotRepo.FindByReference(ctx, strings.TrimSpace(req.Reference))
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if taken != nil {
		return nil, shared.NewDomainError("LOT_EXISTS", "A lot with this reference already exists")
	}

	arrivalOrder, err := s.lotRepo.NextArrivalOrder(ctx)
	if err != nil {
		return nil, err
	}

	lot, err := inventory.NewPurchaseOrderLot(productReference, req.Reference, req.Quantity, arrivalOrder)
	if err != nil {
		return nil, err
	}
	lot.ReceivedBy = strings.TrimSpace(req.ReceivedBy)

	if err := s.lotRepo.Save(ctx, lot); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, lot)
	response := ToLotResponse(lot)
	return &response, nil
}

// GetLot retrieves a lot by ID
func (s *StockService) GetLot(ctx context.Context, id uuid.UUID) (*LotResponse, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLotResponse(lot)
	return &response, nil
}

// ListLots retrieves lots with filtering and pagination. When the filter
// names a product, lots come back in FIFO order for that product.
func (s *StockService) ListLots(ctx context.Context, filter LotListFilter) ([]LotResponse, int64, error) {
	if err := appshared.ValidateStruct(filter); err != nil {
		return nil, 0, err
	}

	if filter.ProductReference != "" {
		lots, err := s.lotRepo.FindByProduct(ctx, strings.ToUpper(strings.TrimSpace(filter.ProductReference)))
		if err != nil {
			return nil, 0, err
		}
		responses := make([]LotResponse, len(lots))
		for i, lot := range lots {
			responses[i] = ToLotResponse(lot)
		}
		return responses, int64(len(responses)), nil
	}

	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
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

	lots, err := s.lotRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.lotRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLotResponses(lots), total, nil
}

// DeleteLot removes a lot. Lots that allocations have touched are protected
// unless Force is set; forced deletion is the documented source of
// restoration integrity errors later.
func (s *StockService) DeleteLot(ctx context.Context, req DeleteLotRequest) error {
	if err := appshared.ValidateStruct(req); err != nil {
		return err
	}

	lot, err := s.lotRepo.FindByID(ctx, req.LotID)
	if err != nil {
		return err
	}

	if !req.Force {
		if !lot.RemainingQuantity.Equal(lot.OriginalQuantity) {
			return shared.NewDomainError("LOT_IN_USE", "Lot has deductions; restore them first or force the deletion")
		}
		referenced, err := s.allocationRepo.ExistsByLot(ctx, lot.ID)
		if err != nil {
			return err
		}
		if referenced {
			return shared.NewDomainError("LOT_IN_USE", "Lot is referenced by allocation records; force the deletion to override")
		}
	}

	if err := s.lotRepo.Delete(ctx, lot.ID); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, inventory.NewLotDeletedEvent(lot))
	}
	return nil
}

// TotalStock sums the remaining quantity across all lots of a product
func (s *StockService) TotalStock(ctx context.Context, productReference string) (decimal.Decimal, error) {
	productReference = strings.ToUpper(strings.TrimSpace(productReference))

	exists, err := s.productRepo.ExistsByReference(ctx, productReference)
	if err != nil {
		return decimal.Zero, err
	}
	if !exists {
		return decimal.Zero, shared.NewDomainError("PRODUCT_NOT_FOUND", "Unknown product reference")
	}

	level, err := s.lotRepo.StockLevelByProduct(ctx, productReference)
	if err != nil {
		return decimal.Zero, err
	}
	return level.TotalRemaining, nil
}

// ValidateAvailability checks whether quantity can be served for a product
// without mutating any lot
func (s *StockService) ValidateAvailability(ctx context.Context, productReference string, quantity decimal.Decimal) (*AvailabilityResponse, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	productReference = strings.ToUpper(strings.TrimSpace(productReference))

	lots, err := s.lotRepo.FindAvailableByProduct(ctx, productReference)
	if err != nil {
		return nil, err
	}

	ok, shortfall := inventory.ValidateAvailability(quantity, lots)
	return &AvailabilityResponse{
		ProductReference: productReference,
		Requested:        quantity,
		Available:        inventory.AvailableStock(lots),
		OK:               ok,
		Shortfall:        shortfall,
	}, nil
}

// LowStock lists products whose remaining stock fell below the threshold
// fraction of their total intake. Products that never received a lot are not
// low, just absent, and are excluded.
func (s *StockService) LowStock(ctx context.Context, threshold decimal.Decimal) ([]StockLevelResponse, error) {
	if threshold.LessThanOrEqual(decimal.Zero) {
		threshold = s.lowStockThreshold
	}

	levels, err := s.lotRepo.StockLevels(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]StockLevelResponse, 0)
	for _, level := range levels {
		if level.TotalOriginal.LessThanOrEqual(decimal.Zero) {
			continue
		}
		if level.Ratio().LessThan(threshold) {
			low = append(low, ToStockLevelResponse(level))
		}
	}
	return low, nil
}

// StockSummary aggregates the whole ledger for dashboards
func (s *StockService) StockSummary(ctx context.Context) (*StockSummaryResponse, error) {
	levels, err := s.lotRepo.StockLevels(ctx)
	if err != nil {
		return nil, err
	}

	summary := &StockSummaryResponse{
		ProductsTracked: len(levels),
		TotalRemaining:  decimal.Zero,
		TotalOriginal:   decimal.Zero,
		LowStock:        make([]StockLevelResponse, 0),
		Levels:          make([]StockLevelResponse, 0, len(levels)),
	}

	for _, level := range levels {
		summary.TotalLots += level.LotCount
		summary.TotalRemaining = summary.TotalRemaining.Add(level.TotalRemaining)
		summary.TotalOriginal = summary.TotalOriginal.Add(level.TotalOriginal)
		summary.Levels = append(summary.Levels, ToStockLevelResponse(level))
		if level.TotalOriginal.GreaterThan(decimal.Zero) && level.Ratio().LessThan(s.lowStockThreshold) {
			summary.LowStock = append(summary.LowStock, ToStockLevelResponse(level))
		}
	}

	if s.couponRepo != nil {
		issued, err := s.couponRepo.Count(ctx, shared.Filter{})
		if err != nil {
			return nil, err
		}
		verified, err := s.couponRepo.Count(ctx, shared.Filter{
			Filters: map[string]interface{}{"verified": true},
		})
		if err != nil {
			return nil, err
		}
		summary.CouponsIssued = issued
		summary.CouponsVerified = verified
		summary.CouponsUnverified = issued - verified
	}
	return summary, nil
}

// publishDomainEvents publishes and clears the lot's pending events
func (s *StockService) publishDomainEvents(ctx context.Context, lot *inventory.PurchaseOrderLot) {
	if s.eventPublisher == nil {
		return
	}
	events := lot.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	lot.ClearDomainEvents()
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
