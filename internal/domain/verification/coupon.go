package verification

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medsupply/backend/internal/domain/shared"
)

var cprPattern = regexp.MustCompile(`^\d{6}-?\d{4}$`)

// Coupon is a patient's entitlement to a quantity of one product. A coupon
// starts unverified; verifying it deducts stock and stamps the externally
// issued verification reference, un-verifying it restores the exact
// deduction and clears the stamp.
type Coupon struct {
	shared.BaseAggregateRoot
	CouponReference       string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"coupon_reference"`
	ProductReference      string          `gorm:"type:varchar(50);not null;index" json:"product_reference"`
	QuantityRequested     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity_requested"`
	PatientName           string          `gorm:"type:varchar(200)" json:"patient_name,omitempty"`
	PatientCPR            string          `gorm:"type:varchar(11)" json:"patient_cpr,omitempty"`
	CentreCode            string          `gorm:"type:varchar(50);index" json:"centre_code,omitempty"`
	LocationCode          string          `gorm:"type:varchar(50);index" json:"location_code,omitempty"`
	Verified              bool            `gorm:"not null;default:false;index" json:"verified"`
	VerificationReference *string         `gorm:"type:varchar(100);index" json:"verification_reference,omitempty"`
	VerifiedAt            *time.Time      `json:"verified_at,omitempty"`
}

// TableName returns the table name for GORM
func (Coupon) TableName() string {
	return "patient_coupons"
}

// NewCoupon creates an unverified coupon for a product
func NewCoupon(couponReference, productReference string, quantityRequested decimal.Decimal) (*Coupon, error) {
	couponReference = strings.TrimSpace(couponReference)
	productReference = strings.ToUpper(strings.TrimSpace(productReference))

	if couponReference == "" {
		return nil, shared.NewDomainError("INVALID_COUPON_REFERENCE", "Coupon reference cannot be empty")
	}
	if len(couponReference) > 100 {
		return nil, shared.NewDomainError("INVALID_COUPON_REFERENCE", "Coupon reference cannot exceed 100 characters")
	}
	if productReference == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_REFERENCE", "Product reference cannot be empty")
	}
	if quantityRequested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	coupon := &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CouponReference:   couponReference,
		ProductReference:  productReference,
		QuantityRequested: quantityRequested,
		Verified:          false,
	}

	coupon.AddDomainEvent(NewCouponCreatedEvent(coupon))
	return coupon, nil
}

// AssignPatient sets the patient name; allowed only before verification
func (c *Coupon) AssignPatient(name string) error {
	if c.Verified {
		return shared.NewDomainError("COUPON_VERIFIED", "Cannot modify a verified coupon")
	}
	name = strings.TrimSpace(name)
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PATIENT_NAME", "Patient name cannot exceed 200 characters")
	}

	c.PatientName = name
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// AssignPatientCPR sets the patient's CPR number; allowed only before
// verification. Stored as six digits, an optional dash, four digits.
func (c *Coupon) AssignPatientCPR(cpr string) error {
	if c.Verified {
		return shared.NewDomainError("COUPON_VERIFIED", "Cannot modify a verified coupon")
	}
	cpr = strings.TrimSpace(cpr)
	if cpr != "" && !cprPattern.MatchString(cpr) {
		return shared.NewDomainError("INVALID_PATIENT_CPR", "Patient CPR must be ten digits with an optional dash")
	}

	c.PatientCPR = cpr
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// AssignDistribution sets the centre and location delivering this coupon;
// allowed only before verification
func (c *Coupon) AssignDistribution(centreCode, locationCode string) error {
	if c.Verified {
		return shared.NewDomainError("COUPON_VERIFIED", "Cannot modify a verified coupon")
	}

	c.CentreCode = strings.ToUpper(strings.TrimSpace(centreCode))
	c.LocationCode = strings.ToUpper(strings.TrimSpace(locationCode))
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// MarkVerified stamps the coupon with the verification reference. The stock
// deduction backing the stamp is the coordinator's job; this method only
// guards the state transition.
func (c *Coupon) MarkVerified(verificationReference string, verifiedAt time.Time) error {
	if c.Verified {
		return NewAlreadyVerifiedError(c)
	}
	verificationReference = strings.TrimSpace(verificationReference)
	if verificationReference == "" {
		return shared.NewDomainError("INVALID_VERIFICATION_REFERENCE", "Verification reference cannot be empty")
	}

	c.Verified = true
	c.VerificationReference = &verificationReference
	c.VerifiedAt = &verifiedAt
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCouponVerifiedEvent(c))
	return nil
}

// ClearVerification reverts the coupon to the unverified state. The caller
// must have restored the allocation first.
func (c *Coupon) ClearVerification() error {
	if !c.Verified {
		return NewNotVerifiedError(c)
	}

	reference := ""
	if c.VerificationReference != nil {
		reference = *c.VerificationReference
	}

	c.Verified = false
	c.VerificationReference = nil
	c.VerifiedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCouponUnverifiedEvent(c, reference))
	return nil
}
