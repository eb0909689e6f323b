package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medsupply/backend/internal/domain/audit"
	"github.com/medsupply/backend/internal/domain/catalog"
	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/shared"
	"github.com/medsupply/backend/internal/domain/verification"
)

// MockActivityRepository is a mock implementation of audit.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Save(ctx context.Context, activity *audit.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Activity, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]audit.Activity), args.Error(1)
}

func (m *MockActivityRepository) FindByAggregate(ctx context.Context, aggregateType string, aggregateID uuid.UUID) ([]audit.Activity, error) {
	args := m.Called(ctx, aggregateType, aggregateID)
	return args.Get(0).([]audit.Activity), args.Error(1)
}

func (m *MockActivityRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func captureActivity(repo *MockActivityRepository, into **audit.Activity) {
	repo.On("Save", mock.Anything, mock.AnythingOfType("*audit.Activity")).
		Run(func(args mock.Arguments) { *into = args.Get(1).(*audit.Activity) }).
		Return(nil)
}

func TestActivityRecorderHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("records a coupon verification", func(t *testing.T) {
		repo := new(MockActivityRepository)
		recorder := NewActivityRecorder(repo, zap.NewNop())

		coupon, err := verification.NewCoupon("CPN-001", "MED-001", decimal.NewFromInt(5))
		require.NoError(t, err)
		require.NoError(t, coupon.MarkVerified("VRF-2024-100", coupon.CreatedAt))
		event := verification.NewCouponVerifiedEvent(coupon)

		var saved *audit.Activity
		captureActivity(repo, &saved)

		require.NoError(t, recorder.Handle(ctx, event))

		require.NotNil(t, saved)
		assert.Equal(t, audit.ActivityActionVerify, saved.Action)
		assert.Equal(t, verification.AggregateTypeCoupon, saved.AggregateType)
		assert.Equal(t, coupon.ID, saved.AggregateID)
		assert.Equal(t, "CPN-001", saved.Reference)
		assert.Contains(t, saved.Detail, "VRF-2024-100")
	})

	t.Run("records a lot arrival", func(t *testing.T) {
		repo := new(MockActivityRepository)
		recorder := NewActivityRecorder(repo, zap.NewNop())

		lot, err := inventory.NewPurchaseOrderLot("MED-001", "PO-2024-001", decimal.NewFromInt(50), 1)
		require.NoError(t, err)
		event := inventory.NewLotReceivedEvent(lot)

		var saved *audit.Activity
		captureActivity(repo, &saved)

		require.NoError(t, recorder.Handle(ctx, event))

		require.NotNil(t, saved)
		assert.Equal(t, audit.ActivityActionReceive, saved.Action)
		assert.Equal(t, "PO-2024-001", saved.Reference)
		assert.Contains(t, saved.Detail, "50")
		assert.Contains(t, saved.Detail, "MED-001")
	})

	t.Run("records a stock transfer", func(t *testing.T) {
		repo := new(MockActivityRepository)
		recorder := NewActivityRecorder(repo, zap.NewNop())

		transfer, err := inventory.NewStockTransfer("TRF-001", "MED-001", "LOC-03", decimal.NewFromInt(25), time.Now())
		require.NoError(t, err)
		event := inventory.NewStockTransferredEvent(transfer)

		var saved *audit.Activity
		captureActivity(repo, &saved)

		require.NoError(t, recorder.Handle(ctx, event))

		require.NotNil(t, saved)
		assert.Equal(t, audit.ActivityActionTransfer, saved.Action)
		assert.Equal(t, inventory.AggregateTypeStockTransfer, saved.AggregateType)
		assert.Equal(t, "TRF-001", saved.Reference)
		assert.Contains(t, saved.Detail, "LOC-03")
		assert.Contains(t, saved.Detail, "25")
	})

	t.Run("records a product creation", func(t *testing.T) {
		repo := new(MockActivityRepository)
		recorder := NewActivityRecorder(repo, zap.NewNop())

		product, err := catalog.NewProduct("MED-001", "Sterile Gauze")
		require.NoError(t, err)
		event := catalog.NewProductCreatedEvent(product)

		var saved *audit.Activity
		captureActivity(repo, &saved)

		require.NoError(t, recorder.Handle(ctx, event))

		require.NotNil(t, saved)
		assert.Equal(t, audit.ActivityActionCreate, saved.Action)
		assert.Contains(t, saved.Detail, "Sterile Gauze")
	})

	t.Run("ignores events without a mapping", func(t *testing.T) {
		repo := new(MockActivityRepository)
		recorder := NewActivityRecorder(repo, zap.NewNop())

		event := &unknownEvent{shared.NewBaseDomainEvent("SomethingElse", "Thing", uuid.New())}
		require.NoError(t, recorder.Handle(ctx, event))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("subscribes to every trail-worthy event type", func(t *testing.T) {
		recorder := NewActivityRecorder(new(MockActivityRepository), zap.NewNop())

		types := recorder.EventTypes()
		assert.Contains(t, types, verification.EventTypeCouponVerified)
		assert.Contains(t, types, verification.EventTypeCouponUnverified)
		assert.Contains(t, types, inventory.EventTypeLotReceived)
		assert.Contains(t, types, inventory.EventTypeLotDepleted)
		assert.Contains(t, types, inventory.EventTypeStockTransferred)
		assert.Contains(t, types, catalog.EventTypeProductCreated)
	})
}

type unknownEvent struct {
	shared.BaseDomainEvent
}

func TestActivityServiceRecentActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("queries newest first with action filter", func(t *testing.T) {
		repo := new(MockActivityRepository)
		service := NewActivityService(repo)

		entry, err := audit.NewActivity(audit.ActivityActionVerify, "Coupon", uuid.New(), "CPN-001", "verified", time.Now())
		require.NoError(t, err)

		var captured shared.Filter
		repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(shared.Filter) }).
			Return([]audit.Activity{*entry}, nil)
		repo.On("Count", ctx, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

		responses, total, err := service.RecentActivity(ctx, ActivityListFilter{Action: "VERIFY"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), total)
		require.Len(t, responses, 1)
		assert.Equal(t, "VERIFY", responses[0].Action)
		assert.Equal(t, "occurred_at", captured.OrderBy)
		assert.Equal(t, "desc", captured.OrderDir)
		assert.Equal(t, "VERIFY", captured.Filters["action"])
	})

	t.Run("rejects unknown action filter", func(t *testing.T) {
		service := NewActivityService(new(MockActivityRepository))

		_, _, err := service.RecentActivity(ctx, ActivityListFilter{Action: "EXPLODE"})
		require.Error(t, err)
	})

	t.Run("returns one aggregate's trail", func(t *testing.T) {
		repo := new(MockActivityRepository)
		service := NewActivityService(repo)

		aggregateID := uuid.New()
		verify, err := audit.NewActivity(audit.ActivityActionVerify, "Coupon", aggregateID, "CPN-001", "verified", time.Now())
		require.NoError(t, err)
		unverify, err := audit.NewActivity(audit.ActivityActionUnverify, "Coupon", aggregateID, "CPN-001", "reversed", time.Now())
		require.NoError(t, err)

		repo.On("FindByAggregate", ctx, "Coupon", aggregateID).
			Return([]audit.Activity{*unverify, *verify}, nil)

		responses, err := service.AggregateTrail(ctx, "Coupon", aggregateID)
		require.NoError(t, err)
		require.Len(t, responses, 2)
		assert.Equal(t, "UNVERIFY", responses[0].Action)
	})
}
