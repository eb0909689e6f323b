package partner

import (
	"strings"
	"time"

	"github.com/medsupply/backend/internal/domain/shared"
)

// CentreStatus represents the status of a medical centre
type CentreStatus string

const (
	CentreStatusActive   CentreStatus = "active"
	CentreStatusInactive CentreStatus = "inactive"
)

// Centre represents a medical centre whose patients receive coupons
type Centre struct {
	shared.BaseAggregateRoot
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string       `gorm:"type:varchar(200);not null"`
	Region      string       `gorm:"type:varchar(100)"`
	ContactName string       `gorm:"type:varchar(100)"`
	Phone       string       `gorm:"type:varchar(50)"`
	Status      CentreStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes       string       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Centre) TableName() string {
	return "centres"
}

// NewCentre creates a new medical centre
func NewCentre(code, name string) (*Centre, error) {
	if err := validateCentreCode(code); err != nil {
		return nil, err
	}
	if err := validateCentreName(name); err != nil {
		return nil, err
	}

	centre := &Centre{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(strings.TrimSpace(code)),
		Name:              strings.TrimSpace(name),
		Status:            CentreStatusActive,
	}

	centre.AddDomainEvent(NewCentreCreatedEvent(centre))
	return centre, nil
}

// Update updates the centre's basic information
func (c *Centre) Update(name, region, contactName, phone, notes string) error {
	if err := validateCentreName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Region = region
	c.ContactName = contactName
	c.Phone = phone
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// Activate marks the centre active
func (c *Centre) Activate() {
	if c.Status == CentreStatusActive {
		return
	}
	c.Status = CentreStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Deactivate marks the centre inactive
func (c *Centre) Deactivate() {
	if c.Status == CentreStatusInactive {
		return
	}
	c.Status = CentreStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsActive reports whether the centre is active
func (c *Centre) IsActive() bool {
	return c.Status == CentreStatusActive
}

func validateCentreCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CENTRE_CODE", "Centre code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CENTRE_CODE", "Centre code cannot exceed 50 characters")
	}
	return nil
}

func validateCentreName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_CENTRE_NAME", "Centre name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_CENTRE_NAME", "Centre name cannot exceed 200 characters")
	}
	return nil
}
