package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/medsupply/backend/internal/domain/shared"
)

// ActivityAction classifies what happened to an aggregate
type ActivityAction string

const (
	ActivityActionCreate   ActivityAction = "CREATE"
	ActivityActionUpdate   ActivityAction = "UPDATE"
	ActivityActionDelete   ActivityAction = "DELETE"
	ActivityActionReceive  ActivityAction = "RECEIVE"
	ActivityActionVerify   ActivityAction = "VERIFY"
	ActivityActionUnverify ActivityAction = "UNVERIFY"
	ActivityActionDeplete  ActivityAction = "DEPLETE"
	ActivityActionTransfer ActivityAction = "TRANSFER"
)

// IsValid returns true if the action is known
func (a ActivityAction) IsValid() bool {
	switch a {
	case ActivityActionCreate, ActivityActionUpdate, ActivityActionDelete,
		ActivityActionReceive, ActivityActionVerify, ActivityActionUnverify,
		ActivityActionDeplete, ActivityActionTransfer:
		return true
	}
	return false
}

// String returns the string representation of ActivityAction
func (a ActivityAction) String() string {
	return string(a)
}

// Activity is one append-only entry of the ledger's activity trail. Entries
// are derived from domain events and never modified after insert.
type Activity struct {
	shared.BaseEntity
	Action        ActivityAction `gorm:"type:varchar(20);not null;index:idx_activity_action"`
	AggregateType string         `gorm:"type:varchar(50);not null;index:idx_activity_aggregate,priority:1"`
	AggregateID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_activity_aggregate,priority:2"`
	Reference     string         `gorm:"type:varchar(200)"`
	Detail        string         `gorm:"type:text"`
	OccurredAt    time.Time      `gorm:"not null;index:idx_activity_occurred"`
}

// TableName returns the table name for GORM
func (Activity) TableName() string {
	return "activity_log"
}

// NewActivity creates an activity entry
func NewActivity(action ActivityAction, aggregateType string, aggregateID uuid.UUID, reference, detail string, occurredAt time.Time) (*Activity, error) {
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Unknown activity action")
	}
	if aggregateType == "" {
		return nil, shared.NewDomainError("INVALID_AGGREGATE_TYPE", "Aggregate type cannot be empty")
	}

	return &Activity{
		BaseEntity:    shared.NewBaseEntity(),
		Action:        action,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Reference:     reference,
		Detail:        detail,
		OccurredAt:    occurredAt,
	}, nil
}
