package partner

import (
	"strings"
	"time"

	"github.com/medsupply/backend/internal/domain/shared"
)

// LocationStatus represents the status of a distribution location
type LocationStatus string

const (
	LocationStatusActive   LocationStatus = "active"
	LocationStatusInactive LocationStatus = "inactive"
)

// Location represents a distribution location where coupons are handed out
type Location struct {
	shared.BaseAggregateRoot
	Code    string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name    string         `gorm:"type:varchar(200);not null"`
	Address string         `gorm:"type:text"`
	City    string         `gorm:"type:varchar(100)"`
	Phone   string         `gorm:"type:varchar(50)"`
	Status  LocationStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes   string         `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new distribution location
func NewLocation(code, name string) (*Location, error) {
	if err := validateLocationCode(code); err != nil {
		return nil, err
	}
	if err := validateLocationName(name); err != nil {
		return nil, err
	}

	location := &Location{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Status:            LocationStatusActive,
	}

	location.AddDomainEvent(NewLocationCreatedEvent(location))
	return location, nil
}

// Update updates the location's basic information
func (l *Location) Update(name, address, city, phone, notes string) error {
	if err := validateLocationName(name); err != nil {
		return err
	}

	l.Name = strings.TrimSpace(name)
	l.Address = address
	l.City = city
	l.Phone = phone
	l.Notes = notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// Activate marks the location active
func (l *Location) Activate() {
	if l.Status == LocationStatusActive {
		return
	}
	l.Status = LocationStatusActive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Deactivate marks the location inactive
func (l *Location) Deactivate() {
	if l.Status == LocationStatusInactive {
		return
	}
	l.Status = LocationStatusInactive
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsActive reports whether the location is active
func (l *Location) IsActive() bool {
	return l.Status == LocationStatusActive
}

func validateLocationCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_LOCATION_CODE", "Location code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_LOCATION_CODE", "Location code cannot exceed 50 characters")
	}
	return nil
}

func validateLocationName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_LOCATION_NAME", "Location name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_LOCATION_NAME", "Location name cannot exceed 200 characters")
	}
	return nil
}
