package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	appshared "github.com/medsupply/backend/internal/application/shared"
	"github.com/medsupply/backend/internal/domain/catalog"
	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/shared"
	"github.com/medsupply/backend/internal/domain/verification"
)

// ProductService handles catalog management. Deleting a product is guarded:
// a product that lots or coupons still reference cannot be removed.
type ProductService struct {
	productRepo    catalog.ProductRepository
	lotRepo        inventory.LotRepository
	couponRepo     verification.CouponRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	lotRepo inventory.LotRepository,
	couponRepo verification.CouponRepository,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		lotRepo:     lotRepo,
		couponRepo:  couponRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.productRepo.ExistsByReference(ctx, strings.ToUpper(strings.TrimSpace(req.Reference)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("PRODUCT_EXISTS", "A product with this reference already exists")
	}

	product, err := catalog.NewProduct(req.Reference, req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// Update renames a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Rename(req.Name); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByReference retrieves a product by its reference code
func (s *ProductService) GetByReference(ctx context.Context, reference string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByReference(ctx, strings.ToUpper(strings.TrimSpace(reference)))
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if err := appshared.ValidateStruct(filter); err != nil {
		return nil, 0, err
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

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Delete removes a product from the catalog. A product still referenced by
// lots or coupons is protected; callers must remove those first.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	hasLots, err := s.lotRepo.ExistsByProduct(ctx, product.Reference)
	if err != nil {
		return err
	}
	if hasLots {
		return shared.NewDomainError("PRODUCT_REFERENCED", "Product has purchase-order lots and cannot be deleted")
	}

	hasCoupons, err := s.couponRepo.ExistsByProduct(ctx, product.Reference)
	if err != nil {
		return err
	}
	if hasCoupons {
		return shared.NewDomainError("PRODUCT_REFERENCED", "Product has coupons and cannot be deleted")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, catalog.NewProductDeletedEvent(product))
	}
	return nil
}

// publishDomainEvents publishes and clears the product's pending events
func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
