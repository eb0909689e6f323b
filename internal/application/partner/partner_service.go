package partner

import (
	"context"
	"strings"

	"github.com/google/uuid"

	appshared "github.com/medsupply/backend/internal/application/shared"
	"github.com/medsupply/backend/internal/domain/partner"
	"github.com/medsupply/backend/internal/domain/shared"
)

// PartnerService manages the registries coupons reference: distribution
// locations and medical centres. Registries are never hard-deleted while in
// use; a retired entry is deactivated and keeps its history.
type PartnerService struct {
	locationRepo   partner.LocationRepository
	centreRepo     partner.CentreRepository
	eventPublisher shared.EventPublisher
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(locationRepo partner.LocationRepository, centreRepo partner.CentreRepository) *PartnerService {
	return &PartnerService{
		locationRepo: locationRepo,
		centreRepo:   centreRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PartnerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateLocation registers a distribution location
func (s *PartnerService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.locationRepo.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("LOCATION_EXISTS", "A location with this code already exists")
	}

	location, err := partner.NewLocation(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Address != "" || req.City != "" || req.Phone != "" || req.Notes != "" {
		if err := location.Update(req.Name, req.Address, req.City, req.Phone, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, location)
	response := ToLocationResponse(location)
	return &response, nil
}

// UpdateLocation changes a location's details
func (s *PartnerService) UpdateLocation(ctx context.Context, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := location.Update(req.Name, req.Address, req.City, req.Phone, req.Notes); err != nil {
		return nil, err
	}

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// ActivateLocation marks a location active again
func (s *PartnerService) ActivateLocation(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	location.Activate()
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// DeactivateLocation retires a location. Existing coupons keep the code;
// only new assignments are expected to stop using it.
func (s *PartnerService) DeactivateLocation(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	location.Deactivate()
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// GetLocation retrieves a location by ID
func (s *PartnerService) GetLocation(ctx context.Context, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// GetLocationByCode retrieves a location by its code
func (s *PartnerService) GetLocationByCode(ctx context.Context, code string) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	response := ToLocationResponse(location)
	return &response, nil
}

// ListLocations retrieves locations with filtering and pagination
func (s *PartnerService) ListLocations(ctx context.Context, filter LocationListFilter) ([]LocationResponse, int64, error) {
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
	if filter.City != "" {
		domainFilter.Filters["city"] = filter.City
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	locations, err := s.locationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.locationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToLocationResponses(locations), total, nil
}

// CreateCentre registers a medical centre
func (s *PartnerService) CreateCentre(ctx context.Context, req CreateCentreRequest) (*CentreResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.centreRepo.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(req.Code)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CENTRE_EXISTS", "A centre with this code already exists")
	}

	centre, err := partner.NewCentre(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Region != "" || req.ContactName != "" || req.Phone != "" || req.Notes != "" {
		if err := centre.Update(req.Name, req.Region, req.ContactName, req.Phone, req.Notes); err != nil {
			return nil, err
		}
	}

	if err := s.centreRepo.Save(ctx, centre); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, centre)
	response := ToCentreResponse(centre)
	return &response, nil
}

// UpdateCentre changes a centre's details
func (s *PartnerService) UpdateCentre(ctx context.Context, id uuid.UUID, req UpdateCentreRequest) (*CentreResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	centre, err := s.centreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := centre.Update(req.Name, req.Region, req.ContactName, req.Phone, req.Notes); err != nil {
		return nil, err
	}

	if err := s.centreRepo.Save(ctx, centre); err != nil {
		return nil, err
	}

	response := ToCentreResponse(centre)
	return &response, nil
}

// ActivateCentre marks a centre active again
func (s *PartnerService) ActivateCentre(ctx context.Context, id uuid.UUID) (*CentreResponse, error) {
	centre, err := s.centreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	centre.Activate()
	if err := s.centreRepo.Save(ctx, centre); err != nil {
		return nil, err
	}

	response := ToCentreResponse(centre)
	return &response, nil
}

// DeactivateCentre retires a centre
func (s *PartnerService) DeactivateCentre(ctx context.Context, id uuid.UUID) (*CentreResponse, error) {
	centre, err := s.centreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	centre.Deactivate()
	if err := s.centreRepo.Save(ctx, centre); err != nil {
		return nil, err
	}

	response := ToCentreResponse(centre)
	return &response, nil
}

// GetCentre retrieves a centre by ID
func (s *PartnerService) GetCentre(ctx context.Context, id uuid.UUID) (*CentreResponse, error) {
	centre, err := s.centreRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCentreResponse(centre)
	return &response, nil
}

// GetCentreByCode retrieves a centre by its code
func (s *PartnerService) GetCentreByCode(ctx context.Context, code string) (*CentreResponse, error) {
	centre, err := s.centreRepo.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	response := ToCentreResponse(centre)
	return &response, nil
}

// ListCentres retrieves centres with filtering and pagination
func (s *PartnerService) ListCentres(ctx context.Context, filter CentreListFilter) ([]CentreResponse, int64, error) {
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
	if filter.Region != "" {
		domainFilter.Filters["region"] = filter.Region
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	centres, err := s.centreRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.centreRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCentreResponses(centres), total, nil
}

// publishEvents publishes and clears an aggregate's pending events
func (s *PartnerService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}
