package catalog

import (
	"strings"
	"time"

	"github.com/medsupply/backend/internal/domain/shared"
)

// Product represents a supply item tracked by the office.
// It is the aggregate root for catalog operations: purchase-order lots
// and patient coupons both reference a product by ID, and the product
// reference is the human-facing identity used on paperwork.
type Product struct {
	shared.BaseAggregateRoot
	Reference string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product. The reference is normalized to
// uppercase so lookups are case-insensitive across data sources.
func NewProduct(reference, name string) (*Product, error) {
	if err := validateReference(reference); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         strings.ToUpper(strings.TrimSpace(reference)),
		Name:              strings.TrimSpace(name),
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Rename updates the product's display name
func (p *Product) Rename(name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductRenamedEvent(p))

	return nil
}

// validateReference validates the product reference.
// References are short codes taken from supplier paperwork: letters,
// digits, underscores, hyphens and slashes.
func validateReference(reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return shared.NewDomainError("INVALID_REFERENCE", "Product reference cannot be empty")
	}
	if len(reference) > 50 {
		return shared.NewDomainError("INVALID_REFERENCE", "Product reference cannot exceed 50 characters")
	}
	for _, r := range reference {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '/') {
			return shared.NewDomainError("INVALID_REFERENCE", "Product reference can only contain letters, numbers, underscores, hyphens, and slashes")
		}
	}
	return nil
}

// validateName validates the product name
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
