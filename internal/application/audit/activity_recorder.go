package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/medsupply/backend/internal/domain/audit"
	"github.com/medsupply/backend/internal/domain/catalog"
	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/partner"
	"github.com/medsupply/backend/internal/domain/shared"
	"github.com/medsupply/backend/internal/domain/verification"
)

// ActivityRecorder subscribes to domain events and appends one activity
// entry per event. Entries are written after the originating work committed;
// the trail is observational and a failed append never undoes ledger state.
type ActivityRecorder struct {
	activityRepo audit.ActivityRepository
	logger       *zap.Logger
}

// NewActivityRecorder creates a new ActivityRecorder
func NewActivityRecorder(activityRepo audit.ActivityRepository, logger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ActivityRecorder) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductRenamed,
		catalog.EventTypeProductDeleted,
		inventory.EventTypeLotReceived,
		inventory.EventTypeLotDepleted,
		inventory.EventTypeLotDeleted,
		inventory.EventTypeStockTransferred,
		verification.EventTypeCouponCreated,
		verification.EventTypeCouponVerified,
		verification.EventTypeCouponUnverified,
		verification.EventTypeCouponDeleted,
		partner.EventTypeLocationCreated,
		partner.EventTypeCentreCreated,
	}
}

// Handle maps a domain event to an activity entry and appends it
func (h *ActivityRecorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	action, reference, detail, ok := describe(event)
	if !ok {
		h.logger.Debug("no activity mapping for event",
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	activity, err := audit.NewActivity(action, event.AggregateType(), event.AggregateID(), reference, detail, event.OccurredAt())
	if err != nil {
		return fmt.Errorf("failed to build activity entry: %w", err)
	}

	if err := h.activityRepo.Save(ctx, activity); err != nil {
		h.logger.Error("failed to append activity entry",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to append activity entry: %w", err)
	}
	return nil
}

// describe maps one event to its trail entry
func describe(event shared.DomainEvent) (audit.ActivityAction, string, string, bool) {
	switch e := event.(type) {
	case *catalog.ProductCreatedEvent:
		return audit.ActivityActionCreate, e.Reference,
			fmt.Sprintf("product added to catalog: %s", e.Name), true
	case *catalog.ProductRenamedEvent:
		return audit.ActivityActionUpdate, e.Reference,
			fmt.Sprintf("product renamed to %s", e.Name), true
	case *catalog.ProductDeletedEvent:
		return audit.ActivityActionDelete, e.Reference,
			fmt.Sprintf("product removed from catalog: %s", e.Name), true
	case *inventory.LotReceivedEvent:
		return audit.ActivityActionReceive, e.LotReference,
			fmt.Sprintf("lot received: %s units of %s", e.Quantity.String(), e.ProductReference), true
	case *inventory.LotDepletedEvent:
		return audit.ActivityActionDeplete, e.LotReference,
			fmt.Sprintf("lot depleted, arrived with %s units of %s", e.OriginalQuantity.String(), e.ProductReference), true
	case *inventory.StockTransferredEvent:
		return audit.ActivityActionTransfer, e.TransferReference,
			fmt.Sprintf("transferred %s units of %s to %s", e.Quantity.String(), e.ProductReference, e.LocationCode), true
	case *inventory.LotDeletedEvent:
		return audit.ActivityActionDelete, e.LotReference,
			fmt.Sprintf("lot removed with %s units remaining", e.RemainingAtDelete.String()), true
	case *verification.CouponCreatedEvent:
		return audit.ActivityActionCreate, e.CouponReference,
			fmt.Sprintf("coupon created: %s units of %s", e.QuantityRequested.String(), e.ProductReference), true
	case *verification.CouponVerifiedEvent:
		return audit.ActivityActionVerify, e.CouponReference,
			fmt.Sprintf("verified under %s, %s units of %s deducted", e.VerificationReference, e.QuantityRequested.String(), e.ProductReference), true
	case *verification.CouponUnverifiedEvent:
		return audit.ActivityActionUnverify, e.CouponReference,
			fmt.Sprintf("verification %s reversed, stock restored", e.VerificationReference), true
	case *verification.CouponDeletedEvent:
		return audit.ActivityActionDelete, e.CouponReference,
			"coupon removed from ledger", true
	case *partner.LocationCreatedEvent:
		return audit.ActivityActionCreate, e.Code,
			fmt.Sprintf("distribution location registered: %s", e.Name), true
	case *partner.CentreCreatedEvent:
		return audit.ActivityActionCreate, e.Code,
			fmt.Sprintf("medical centre registered: %s", e.Name), true
	}
	return "", "", "", false
}

// Ensure ActivityRecorder implements shared.EventHandler
var _ shared.EventHandler = (*ActivityRecorder)(nil)
