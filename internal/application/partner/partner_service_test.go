package partner

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medsupply/backend/internal/domain/partner"
	"github.com/medsupply/backend/internal/domain/shared"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// MockLocationRepository is a mock implementation of partner.LocationRepository
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Location), args.Error(1)
}

func (m *MockLocationRepository) FindByCode(ctx context.Context, code string) (*partner.Location, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Location), args.Error(1)
}

func (m *MockLocationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Location, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Location), args.Error(1)
}

func (m *MockLocationRepository) Save(ctx context.Context, location *partner.Location) error {
	args := m.Called(ctx, location)
	return args.Error(0)
}

func (m *MockLocationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLocationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLocationRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockCentreRepository is a mock implementation of partner.CentreRepository
type MockCentreRepository struct {
	mock.Mock
}

func (m *MockCentreRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Centre, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Centre), args.Error(1)
}

func (m *MockCentreRepository) FindByCode(ctx context.Context, code string) (*partner.Centre, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Centre), args.Error(1)
}

func (m *MockCentreRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Centre, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Centre), args.Error(1)
}

func (m *MockCentreRepository) Save(ctx context.Context, centre *partner.Centre) error {
	args := m.Called(ctx, centre)
	return args.Error(0)
}

func (m *MockCentreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCentreRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCentreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func newTestLocation(t *testing.T, code, name string) *partner.Location {
	location, err := partner.NewLocation(code, name)
	require.NoError(t, err)
	location.ClearDomainEvents()
	return location
}

func newTestCentre(t *testing.T, code, name string) *partner.Centre {
	centre, err := partner.NewCentre(code, name)
	require.NoError(t, err)
	centre.ClearDomainEvents()
	return centre
}

func TestPartnerServiceCreateLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates location and publishes event", func(t *testing.T) {
		locationRepo := new(MockLocationRepository)
		publisher := NewMockEventPublisher()
		service := NewPartnerService(locationRepo, new(MockCentreRepository))
		service.SetEventPublisher(publisher)

		locationRepo.On("ExistsByCode", ctx, "LOC-01").Return(false, nil)
		locationRepo.On("Save", ctx, mock.AnythingOfType("*partner.Location")).Return(nil)

		response, err := service.CreateLocation(ctx, CreateLocationRequest{
			Code: "loc-01",
			Name: "Community Pharmacy North",
			City: "Hanoi",
		})
		require.NoError(t, err)

		assert.Equal(t, "LOC-01", response.Code)
		assert.Equal(t, "Community Pharmacy North", response.Name)
		assert.Equal(t, "Hanoi", response.City)
		assert.Equal(t, string(partner.LocationStatusActive), response.Status)
		assert.Len(t, publisher.GetEventsByType(partner.EventTypeLocationCreated), 1)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		locationRepo := new(MockLocationRepository)
		service := NewPartnerService(locationRepo, new(MockCentreRepository))

		locationRepo.On("ExistsByCode", ctx, "LOC-01").Return(true, nil)

		_, err := service.CreateLocation(ctx, CreateLocationRequest{Code: "LOC-01", Name: "Duplicate"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		locationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid request", func(t *testing.T) {
		service := NewPartnerService(new(MockLocationRepository), new(MockCentreRepository))

		_, err := service.CreateLocation(ctx, CreateLocationRequest{Name: "No Code"})
		require.Error(t, err)
	})
}

func TestPartnerServiceLocationLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("updates location details", func(t *testing.T) {
		location := newTestLocation(t, "LOC-01", "Old Name")
		locationRepo := new(MockLocationRepository)
		service := NewPartnerService(locationRepo, new(MockCentreRepository))

		locationRepo.On("FindByID", ctx, location.ID).Return(location, nil)
		locationRepo.On("Save", ctx, location).Return(nil)

		response, err := service.UpdateLocation(ctx, location.ID, UpdateLocationRequest{
			Name:  "New Name",
			Phone: "+84 24 1234 567",
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", response.Name)
		assert.Equal(t, "+84 24 1234 567", response.Phone)
	})

	t.Run("deactivates and reactivates", func(t *testing.T) {
		location := newTestLocation(t, "LOC-01", "Community Pharmacy North")
		locationRepo := new(MockLocationRepository)
		service := NewPartnerService(locationRepo, new(MockCentreRepository))

		locationRepo.On("FindByID", ctx, location.ID).Return(location, nil)
		locationRepo.On("Save", ctx, location).Return(nil)

		response, err := service.DeactivateLocation(ctx, location.ID)
		require.NoError(t, err)
		assert.Equal(t, string(partner.LocationStatusInactive), response.Status)

		response, err = service.ActivateLocation(ctx, location.ID)
		require.NoError(t, err)
		assert.Equal(t, string(partner.LocationStatusActive), response.Status)
	})

	t.Run("propagates not found", func(t *testing.T) {
		locationRepo := new(MockLocationRepository)
		service := NewPartnerService(locationRepo, new(MockCentreRepository))

		id := uuid.New()
		locationRepo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.DeactivateLocation(ctx, id)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("finds by code uppercased", func(t *testing.T) {
		location := newTestLocation(t, "LOC-01", "Community Pharmacy North")
		locationRepo := new(MockLocationRepository)
		service := NewPartnerService(locationRepo, new(MockCentreRepository))

		locationRepo.On("FindByCode", ctx, "LOC-01").Return(location, nil)

		response, err := service.GetLocationByCode(ctx, "loc-01")
		require.NoError(t, err)
		assert.Equal(t, "LOC-01", response.Code)
	})
}

func TestPartnerServiceListLocations(t *testing.T) {
	ctx := context.Background()

	t.Run("lists with status filter", func(t *testing.T) {
		locationRepo := new(MockLocationRepository)
		service := NewPartnerService(locationRepo, new(MockCentreRepository))

		locationA := newTestLocation(t, "LOC-01", "North")
		locationB := newTestLocation(t, "LOC-02", "South")

		var captured shared.Filter
		locationRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(shared.Filter) }).
			Return([]partner.Location{*locationA, *locationB}, nil)
		locationRepo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(2), nil)

		responses, total, err := service.ListLocations(ctx, LocationListFilter{Status: "active"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, responses, 2)
		assert.Equal(t, "active", captured.Filters["status"])
	})

	t.Run("rejects bad status value", func(t *testing.T) {
		service := NewPartnerService(new(MockLocationRepository), new(MockCentreRepository))

		_, _, err := service.ListLocations(ctx, LocationListFilter{Status: "retired"})
		require.Error(t, err)
	})
}

func TestPartnerServiceCreateCentre(t *testing.T) {
	ctx := context.Background()

	t.Run("creates centre and publishes event", func(t *testing.T) {
		centreRepo := new(MockCentreRepository)
		publisher := NewMockEventPublisher()
		service := NewPartnerService(new(MockLocationRepository), centreRepo)
		service.SetEventPublisher(publisher)

		centreRepo.On("ExistsByCode", ctx, "MC-01").Return(false, nil)
		centreRepo.On("Save", ctx, mock.AnythingOfType("*partner.Centre")).Return(nil)

		response, err := service.CreateCentre(ctx, CreateCentreRequest{
			Code:   "mc-01",
			Name:   "District Hospital East",
			Region: "Red River Delta",
		})
		require.NoError(t, err)

		assert.Equal(t, "MC-01", response.Code)
		assert.Equal(t, "Red River Delta", response.Region)
		assert.Len(t, publisher.GetEventsByType(partner.EventTypeCentreCreated), 1)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		centreRepo := new(MockCentreRepository)
		service := NewPartnerService(new(MockLocationRepository), centreRepo)

		centreRepo.On("ExistsByCode", ctx, "MC-01").Return(true, nil)

		_, err := service.CreateCentre(ctx, CreateCentreRequest{Code: "MC-01", Name: "Duplicate"})
		require.Error(t, err)
		centreRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPartnerServiceCentreLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("updates centre details", func(t *testing.T) {
		centre := newTestCentre(t, "MC-01", "Old Name")
		centreRepo := new(MockCentreRepository)
		service := NewPartnerService(new(MockLocationRepository), centreRepo)

		centreRepo.On("FindByID", ctx, centre.ID).Return(centre, nil)
		centreRepo.On("Save", ctx, centre).Return(nil)

		response, err := service.UpdateCentre(ctx, centre.ID, UpdateCentreRequest{
			Name:        "New Name",
			ContactName: "Dr. Tran",
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", response.Name)
		assert.Equal(t, "Dr. Tran", response.ContactName)
	})

	t.Run("deactivates a centre", func(t *testing.T) {
		centre := newTestCentre(t, "MC-01", "District Hospital East")
		centreRepo := new(MockCentreRepository)
		service := NewPartnerService(new(MockLocationRepository), centreRepo)

		centreRepo.On("FindByID", ctx, centre.ID).Return(centre, nil)
		centreRepo.On("Save", ctx, centre).Return(nil)

		response, err := service.DeactivateCentre(ctx, centre.ID)
		require.NoError(t, err)
		assert.Equal(t, string(partner.CentreStatusInactive), response.Status)
		assert.False(t, centre.IsActive())
	})
}
