package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appshared "github.com/medsupply/backend/internal/application/shared"
	"github.com/medsupply/backend/internal/domain/catalog"
	"github.com/medsupply/backend/internal/domain/inventory"
	"github.com/medsupply/backend/internal/domain/partner"
	"github.com/medsupply/backend/internal/domain/shared"
	"github.com/medsupply/backend/internal/domain/verification"
)

// VerificationService coordinates coupon lifecycle and batch verification.
// A batch shares one externally issued verification reference across many
// coupons: the service validates aggregate stock per product first, and only
// a batch that passes in full proceeds to deduct lots coupon by coupon. The
// whole validate-then-deduct path runs inside one transaction scope, so the
// availability seen at validation is the availability deducted at commit.
type VerificationService struct {
	couponRepo     verification.CouponRepository
	productRepo    catalog.ProductRepository
	txScope        TransactionScope
	locationRepo   partner.LocationRepository
	centreRepo     partner.CentreRepository
	eventPublisher shared.EventPublisher
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(
	couponRepo verification.CouponRepository,
	productRepo catalog.ProductRepository,
	txScope TransactionScope,
) *VerificationService {
	return &VerificationService{
		couponRepo:  couponRepo,
		productRepo: productRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *VerificationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetPartnerRepositories enables centre/location code validation on coupon
// creation and update (optional; codes pass through unchecked otherwise)
func (s *VerificationService) SetPartnerRepositories(locationRepo partner.LocationRepository, centreRepo partner.CentreRepository) {
	s.locationRepo = locationRepo
	s.centreRepo = centreRepo
}

// CreateCoupon registers an unverified coupon for a product
func (s *VerificationService) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	coupon, err := s.buildCoupon(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, harvestEvents(coupon))
	response := ToCouponResponse(coupon)
	return &response, nil
}

// CreateCoupons registers a batch of coupons, collecting per-item failures.
// Valid items are created even when others in the batch are not.
func (s *VerificationService) CreateCoupons(ctx context.Context, req BulkCreateCouponsRequest) (*BulkCreateCouponsResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	result := &BulkCreateCouponsResponse{
		Created: make([]CouponResponse, 0, len(req.Coupons)),
		Failed:  make([]BulkCreateFailure, 0),
	}

	events := make([]shared.DomainEvent, 0)
	for i, item := range req.Coupons {
		coupon, err := s.buildCoupon(ctx, item)
		if err == nil {
			err = s.couponRepo.Save(ctx, coupon)
		}
		if err != nil {
			result.Failed = append(result.Failed, BulkCreateFailure{
				Index:           i,
				CouponReference: item.CouponReference,
				Reason:          err.Error(),
			})
			continue
		}
		events = append(events, harvestEvents(coupon)...)
		result.Created = append(result.Created, ToCouponResponse(coupon))
	}

	s.publishEvents(ctx, events)
	return result, nil
}

// UpdateCoupon changes the patient and distribution details of an unverified
// coupon. Verified coupons are frozen until unverified.
func (s *VerificationService) UpdateCoupon(ctx context.Context, id uuid.UUID, req UpdateCouponRequest) (*CouponResponse, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkDistribution(ctx, req.CentreCode, req.LocationCode); err != nil {
		return nil, err
	}
	if err := coupon.AssignPatient(req.PatientName); err != nil {
		return nil, err
	}
	if err := coupon.AssignPatientCPR(req.PatientCPR); err != nil {
		return nil, err
	}
	if err := coupon.AssignDistribution(req.CentreCode, req.LocationCode); err != nil {
		return nil, err
	}

	if err := s.couponRepo.Save(ctx, coupon); err != nil {
		return nil, err
	}

	response := ToCouponResponse(coupon)
	return &response, nil
}

// GetCoupon retrieves a coupon by ID
func (s *VerificationService) GetCoupon(ctx context.Context, id uuid.UUID) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// GetCouponByReference retrieves a coupon by its unique coupon reference
func (s *VerificationService) GetCouponByReference(ctx context.Context, couponReference string) (*CouponResponse, error) {
	coupon, err := s.couponRepo.FindByReference(ctx, strings.TrimSpace(couponReference))
	if err != nil {
		return nil, err
	}
	response := ToCouponResponse(coupon)
	return &response, nil
}

// ListCoupons retrieves coupons with filtering and pagination
func (s *VerificationService) ListCoupons(ctx context.Context, filter CouponListFilter) ([]CouponResponse, int64, error) {
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
	if filter.ProductReference != "" {
		domainFilter.Filters["product_reference"] = strings.ToUpper(strings.TrimSpace(filter.ProductReference))
	}
	if filter.Verified != nil {
		domainFilter.Filters["verified"] = *filter.Verified
	}
	if filter.VerificationReference != "" {
		domainFilter.Filters["verification_reference"] = strings.TrimSpace(filter.VerificationReference)
	}
	if filter.CentreCode != "" {
		domainFilter.Filters["centre_code"] = strings.ToUpper(strings.TrimSpace(filter.CentreCode))
	}
	if filter.LocationCode != "" {
		domainFilter.Filters["location_code"] = strings.ToUpper(strings.TrimSpace(filter.LocationCode))
	}

	coupons, err := s.couponRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.couponRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToCouponResponses(coupons), total, nil
}

// SubmitBatch verifies a batch of coupons under one verification reference.
//
// The batch walks its state machine inside a single transaction: VALIDATING
// sums the requested quantities per product and checks every product's
// aggregate demand against available stock without touching a lot; any
// shortfall rejects the whole batch. Only a batch that validates in full is
// committed, coupon by coupon in submission order, each deduction draining
// lots oldest-first and leaving an allocation record for exact reversal.
//
// A deduction that fails after validation passed is only possible when
// something outside this transaction drained the stock first. That path is
// handled defensively: coupons already committed stay committed, the failing
// coupon and everything after it are reported in a PartialCommitError, and
// no coupon is ever left verified without its allocation records.
func (s *VerificationService) SubmitBatch(ctx context.Context, req SubmitBatchRequest) (*verification.BatchResult, error) {
	if err := appshared.ValidateStruct(req); err != nil {
		return nil, err
	}

	batch, err := verification.NewVerificationBatch(req.VerificationReference, req.CouponIDs)
	if err != nil {
		return nil, err
	}

	var (
		result    *verification.BatchResult
		commitErr error
		events    []shared.DomainEvent
	)

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		coupons, err := repos.CouponRepo().FindByIDs(ctx, batch.CouponIDs)
		if err != nil {
			return err
		}

		if err := batch.BeginValidation(); err != nil {
			return err
		}

		// Deductions run in submission order, so availability per product is
		// checked and consumed in exactly that order too.
		ordered := orderCoupons(batch.CouponIDs, coupons)
		rejections := validateCoupons(batch.CouponIDs, coupons)

		demands := groupDemandByProduct(ordered)
		shortfalls := make([]verification.ProductShortfall, 0)
		for _, demand := range demands {
			lots, err := repos.LotRepo().FindAvailableByProduct(ctx, demand.reference)
			if err != nil {
				return err
			}
			ok, shortfall := inventory.ValidateAvailability(demand.quantity, lots)
			if !ok {
				shortfalls = append(shortfalls, verification.ProductShortfall{
					ProductReference: demand.reference,
					Requested:        demand.quantity,
					Available:        inventory.AvailableStock(lots),
					Shortfall:        shortfall,
				})
			}
		}

		if len(rejections) > 0 || len(shortfalls) > 0 {
			if err := batch.Reject(); err != nil {
				return err
			}
			result = rejectedResult(batch, ordered, rejections, shortfalls)
			return nil
		}

		now := time.Now()
		committed := make([]uuid.UUID, 0, len(ordered))
		for i, coupon := range ordered {
			lots, err := repos.LotRepo().FindAvailableByProduct(ctx, coupon.ProductReference)
			if err != nil {
				return err
			}

			allocation, err := inventory.Deduct(coupon.ProductReference, coupon.QuantityRequested, lots)
			if err != nil {
				// Stock changed underneath the batch after validation. Keep
				// what was already applied, report the rest as failed.
				failed := abortedCoupons(ordered[i:], err)
				commitErr = verification.NewPartialCommitError(batch.VerificationReference, committed, failed, err)
				if err := batch.Commit(); err != nil {
					return err
				}
				result = &verification.BatchResult{
					Status:                batch.Status,
					VerificationReference: batch.VerificationReference,
					Committed:             committed,
					Rejected:              failed,
				}
				return nil
			}

			touched := touchedLots(allocation, lots)
			if err := repos.LotRepo().SaveAll(ctx, touched); err != nil {
				return err
			}

			records := make([]*inventory.StockAllocation, 0, len(allocation.Entries))
			for _, entry := range allocation.Entries {
				records = append(records, inventory.NewStockAllocation(coupon.ID, entry, coupon.ProductReference, batch.VerificationReference))
			}
			if err := repos.AllocationRepo().SaveAll(ctx, records); err != nil {
				return err
			}

			if err := coupon.MarkVerified(batch.VerificationReference, now); err != nil {
				return err
			}
			if err := repos.CouponRepo().Save(ctx, coupon); err != nil {
				return err
			}

			committed = append(committed, coupon.ID)
			events = append(events, harvestEvents(coupon)...)
			for _, lot := range touched {
				events = append(events, harvestEvents(lot)...)
			}
		}

		if err := batch.Commit(); err != nil {
			return err
		}
		result = &verification.BatchResult{
			Status:                batch.Status,
			VerificationReference: batch.VerificationReference,
			Committed:             committed,
			Rejected:              make([]verification.RejectedCoupon, 0),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	if commitErr != nil {
		return result, commitErr
	}
	return result, nil
}

// Unverify reverses a coupon's verification: the recorded allocation is
// restored lot by lot and the verification stamp cleared. The coupon must be
// verified; reversing an unverified coupon is a contract violation, not a
// no-op. Restore issues (a deleted lot, a lot mutated out-of-band) are
// reported in the result without blocking the reversal.
func (s *VerificationService) Unverify(ctx context.Context, couponID uuid.UUID) (*UnverifyResult, error) {
	var (
		result *UnverifyResult
		events []shared.DomainEvent
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		coupon, err := repos.CouponRepo().FindByID(ctx, couponID)
		if err != nil {
			return err
		}
		if !coupon.Verified {
			return verification.NewNotVerifiedError(coupon)
		}

		report, err := s.restoreAllocation(ctx, repos, coupon)
		if err != nil {
			return err
		}

		if err := coupon.ClearVerification(); err != nil {
			return err
		}
		if err := repos.CouponRepo().Save(ctx, coupon); err != nil {
			return err
		}

		events = harvestEvents(coupon)
		result = &UnverifyResult{
			Coupon:    ToCouponResponse(coupon),
			Requested: report.Requested,
			Restored:  report.Restored,
			Issues:    report.Issues,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return result, nil
}

// UnverifyBundle reverses a whole verification batch by its verification
// reference: every coupon stamped with it is unverified in one transaction
func (s *VerificationService) UnverifyBundle(ctx context.Context, verificationReference string) (*BundleUnverifyResult, error) {
	verificationReference = strings.TrimSpace(verificationReference)
	if verificationReference == "" {
		return nil, shared.NewDomainError("INVALID_VERIFICATION_REFERENCE", "Verification reference cannot be empty")
	}

	var (
		result *BundleUnverifyResult
		events []shared.DomainEvent
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		coupons, err := repos.CouponRepo().FindByVerificationReference(ctx, verificationReference)
		if err != nil {
			return err
		}
		if len(coupons) == 0 {
			return shared.NewDomainError("BUNDLE_NOT_FOUND", "No coupons carry this verification reference")
		}

		result = &BundleUnverifyResult{
			VerificationReference: verificationReference,
			Coupons:               make([]UnverifyResult, 0, len(coupons)),
		}

		for _, coupon := range coupons {
			report, err := s.restoreAllocation(ctx, repos, coupon)
			if err != nil {
				return err
			}
			if err := coupon.ClearVerification(); err != nil {
				return err
			}
			if err := repos.CouponRepo().Save(ctx, coupon); err != nil {
				return err
			}

			events = append(events, harvestEvents(coupon)...)
			result.Coupons = append(result.Coupons, UnverifyResult{
				Coupon:    ToCouponResponse(coupon),
				Requested: report.Requested,
				Restored:  report.Restored,
				Issues:    report.Issues,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return result, nil
}

// DeleteCoupon removes a coupon from the ledger. A verified coupon gives its
// stock back first: the recorded allocation is restored before the row goes.
func (s *VerificationService) DeleteCoupon(ctx context.Context, couponID uuid.UUID) (*UnverifyResult, error) {
	var (
		result *UnverifyResult
		events []shared.DomainEvent
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		coupon, err := repos.CouponRepo().FindByID(ctx, couponID)
		if err != nil {
			return err
		}

		result = &UnverifyResult{
			Coupon:    ToCouponResponse(coupon),
			Requested: decimal.Zero,
			Restored:  decimal.Zero,
		}

		if coupon.Verified {
			report, err := s.restoreAllocation(ctx, repos, coupon)
			if err != nil {
				return err
			}
			result.Requested = report.Requested
			result.Restored = report.Restored
			result.Issues = report.Issues
		}

		if err := repos.CouponRepo().Delete(ctx, coupon.ID); err != nil {
			return err
		}

		events = append(events, verification.NewCouponDeletedEvent(coupon))
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return result, nil
}

// restoreAllocation reverses the coupon's recorded allocation against the
// lots it actually drew from and removes the allocation records. Entries for
// lots that disappeared or overflowed are reported in the returned report;
// the remaining entries are applied regardless.
func (s *VerificationService) restoreAllocation(ctx context.Context, repos TransactionalRepositories, coupon *verification.Coupon) (*inventory.RestoreReport, error) {
	records, err := repos.AllocationRepo().FindByCoupon(ctx, coupon.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]inventory.LotDeduction, 0, len(records))
	lotIDs := make([]uuid.UUID, 0, len(records))
	seen := make(map[uuid.UUID]struct{}, len(records))
	for _, record := range records {
		entries = append(entries, record.ToLotDeduction())
		if _, dup := seen[record.LotID]; !dup {
			seen[record.LotID] = struct{}{}
			lotIDs = append(lotIDs, record.LotID)
		}
	}

	lots, err := repos.LotRepo().FindByIDs(ctx, lotIDs)
	if err != nil {
		return nil, err
	}

	report := inventory.Restore(entries, lots)

	if len(lots) > 0 {
		if err := repos.LotRepo().SaveAll(ctx, lots); err != nil {
			return nil, err
		}
	}
	if err := repos.AllocationRepo().DeleteByCoupon(ctx, coupon.ID); err != nil {
		return nil, err
	}
	return report, nil
}

// buildCoupon validates the request against the catalog and partner
// registries and constructs the aggregate
func (s *VerificationService) buildCoupon(ctx context.Context, req CreateCouponRequest) (*verification.Coupon, error) {
	productReference := strings.ToUpper(strings.TrimSpace(req.ProductReference))
	exists, err := s.productRepo.ExistsByReference(ctx, productReference)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Cannot create a coupon for an unknown product")
	}

	taken, err := s.couponRepo.ExistsByReference(ctx, strings.TrimSpace(req.CouponReference))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewDomainError("COUPON_EXISTS", "A coupon with this reference already exists")
	}

	if err := s.checkDistribution(ctx, req.CentreCode, req.LocationCode); err != nil {
		return nil, err
	}

	coupon, err := verification.NewCoupon(req.CouponReference, productReference, req.Quantity)
	if err != nil {
		return nil, err
	}
	if req.PatientName != "" {
		if err := coupon.AssignPatient(req.PatientName); err != nil {
			return nil, err
		}
	}
	if req.PatientCPR != "" {
		if err := coupon.AssignPatientCPR(req.PatientCPR); err != nil {
			return nil, err
		}
	}
	if req.CentreCode != "" || req.LocationCode != "" {
		if err := coupon.AssignDistribution(req.CentreCode, req.LocationCode); err != nil {
			return nil, err
		}
	}
	return coupon, nil
}

// checkDistribution verifies centre and location codes against the partner
// registries when those repositories are wired
func (s *VerificationService) checkDistribution(ctx context.Context, centreCode, locationCode string) error {
	if s.centreRepo != nil && centreCode != "" {
		exists, err := s.centreRepo.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(centreCode)))
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewDomainError("CENTRE_NOT_FOUND", "Unknown medical centre code")
		}
	}
	if s.locationRepo != nil && locationCode != "" {
		exists, err := s.locationRepo.ExistsByCode(ctx, strings.ToUpper(strings.TrimSpace(locationCode)))
		if err != nil {
			return err
		}
		if !exists {
			return shared.NewDomainError("LOCATION_NOT_FOUND", "Unknown distribution location code")
		}
	}
	return nil
}

// publishEvents publishes collected domain events after the work committed
func (s *VerificationService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// orderCoupons arranges the found coupons in batch submission order. IDs
// without a matching coupon are skipped; validation already rejected them.
func orderCoupons(ids []uuid.UUID, coupons []*verification.Coupon) []*verification.Coupon {
	byID := make(map[uuid.UUID]*verification.Coupon, len(coupons))
	for _, coupon := range coupons {
		byID[coupon.ID] = coupon
	}
	ordered := make([]*verification.Coupon, 0, len(coupons))
	for _, id := range ids {
		if coupon, ok := byID[id]; ok {
			ordered = append(ordered, coupon)
		}
	}
	return ordered
}

// productDemand is a product's aggregate requested quantity across a batch,
// kept in first-seen order for deterministic validation
type productDemand struct {
	reference string
	quantity  decimal.Decimal
}

// groupDemandByProduct sums requested quantities per product across the
// batch, preserving the order products first appear in
func groupDemandByProduct(coupons []*verification.Coupon) []productDemand {
	index := make(map[string]int, len(coupons))
	demands := make([]productDemand, 0, len(coupons))
	for _, coupon := range coupons {
		if i, ok := index[coupon.ProductReference]; ok {
			demands[i].quantity = demands[i].quantity.Add(coupon.QuantityRequested)
			continue
		}
		index[coupon.ProductReference] = len(demands)
		demands = append(demands, productDemand{
			reference: coupon.ProductReference,
			quantity:  coupon.QuantityRequested,
		})
	}
	return demands
}

// validateCoupons checks that every requested coupon exists and is still
// unverified, returning one rejection per violation
func validateCoupons(requested []uuid.UUID, found []*verification.Coupon) []verification.RejectedCoupon {
	byID := make(map[uuid.UUID]*verification.Coupon, len(found))
	for _, coupon := range found {
		byID[coupon.ID] = coupon
	}

	rejections := make([]verification.RejectedCoupon, 0)
	for _, id := range requested {
		coupon, ok := byID[id]
		if !ok {
			rejections = append(rejections, verification.RejectedCoupon{
				CouponID: id,
				Reason:   "coupon not found",
			})
			continue
		}
		if coupon.Verified {
			reference := ""
			if coupon.VerificationReference != nil {
				reference = *coupon.VerificationReference
			}
			rejections = append(rejections, verification.RejectedCoupon{
				CouponID: id,
				Reason:   fmt.Sprintf("already verified under %s", reference),
			})
		}
	}
	return rejections
}

// rejectedResult assembles the REJECTED outcome: every coupon in the batch
// is rejected with its specific reason, and nothing was mutated
func rejectedResult(batch *verification.VerificationBatch, coupons []*verification.Coupon, rejections []verification.RejectedCoupon, shortfalls []verification.ProductShortfall) *verification.BatchResult {
	rejectedIDs := make(map[uuid.UUID]struct{}, len(rejections))
	for _, rejection := range rejections {
		rejectedIDs[rejection.CouponID] = struct{}{}
	}
	shortProducts := make(map[string]verification.ProductShortfall, len(shortfalls))
	for _, shortfall := range shortfalls {
		shortProducts[shortfall.ProductReference] = shortfall
	}

	all := make([]verification.RejectedCoupon, 0, len(batch.CouponIDs))
	all = append(all, rejections...)
	for _, coupon := range coupons {
		if _, already := rejectedIDs[coupon.ID]; already {
			continue
		}
		if shortfall, short := shortProducts[coupon.ProductReference]; short {
			all = append(all, verification.RejectedCoupon{
				CouponID: coupon.ID,
				Reason: fmt.Sprintf("insufficient stock for %s: short %s",
					shortfall.ProductReference, shortfall.Shortfall.String()),
			})
			continue
		}
		all = append(all, verification.RejectedCoupon{
			CouponID: coupon.ID,
			Reason:   "batch rejected: another coupon in the batch failed validation",
		})
	}

	return &verification.BatchResult{
		Status:                batch.Status,
		VerificationReference: batch.VerificationReference,
		Committed:             make([]uuid.UUID, 0),
		Rejected:              all,
		Shortfalls:            shortfalls,
	}
}

// abortedCoupons marks the failing coupon with its cause and everything
// after it as not attempted
func abortedCoupons(remaining []*verification.Coupon, cause error) []verification.RejectedCoupon {
	failed := make([]verification.RejectedCoupon, 0, len(remaining))
	for i, coupon := range remaining {
		reason := "not attempted: batch aborted after earlier failure"
		if i == 0 {
			reason = cause.Error()
		}
		failed = append(failed, verification.RejectedCoupon{CouponID: coupon.ID, Reason: reason})
	}
	return failed
}

// touchedLots returns the lots an allocation actually drew from
func touchedLots(allocation *inventory.Allocation, lots []*inventory.PurchaseOrderLot) []*inventory.PurchaseOrderLot {
	byID := make(map[uuid.UUID]*inventory.PurchaseOrderLot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}
	touched := make([]*inventory.PurchaseOrderLot, 0, len(allocation.Entries))
	for _, entry := range allocation.Entries {
		if lot, ok := byID[entry.LotID]; ok {
			touched = append(touched, lot)
		}
	}
	return touched
}

// harvestEvents drains an aggregate's pending domain events
func harvestEvents(aggregate shared.AggregateRoot) []shared.DomainEvent {
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	aggregate.ClearDomainEvents()
	return events
}
